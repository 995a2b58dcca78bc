package handlers

import (
	"net/http"

	"golang.org/x/crypto/bcrypt"

	"ngoadmin/internal/listing"
	"ngoadmin/models"
)

// User status filters.
const (
	UserStatusActive   = "active"
	UserStatusInactive = "inactive"
	UserStatusPending  = "pending"
)

func userMatchesStatus(u models.User, status string) bool {
	switch status {
	case "":
		return true
	case UserStatusActive:
		return u.IsActive
	case UserStatusInactive:
		return !u.IsActive
	case UserStatusPending:
		return !u.IsApproved
	}
	return false
}

// ListUsersHandler lists users.
// @Summary      List users
// @Tags         users
// @Produce      json
// @Param        search    query  string  false  "Search by name or email"
// @Param        status    query  string  false  "active | inactive | pending"
// @Param        page      query  int     false  "Page"
// @Param        pageSize  query  int     false  "Page size"
// @Success      200  {object}  Response{data=[]models.User}
// @Header       200  {integer}  x-total-count  "Matching rows"
// @Router       /users [get]
func (h *Handler) ListUsersHandler(w http.ResponseWriter, r *http.Request) {
	q, err := listing.ParseQuery(r.URL.Query(), h.Loc)
	if err != nil {
		writeError(w, http.StatusBadRequest, MsgInvalidInput)
		return
	}
	all, err := h.Store.ListUsers(r.Context())
	if err != nil {
		handleError(w, r, err)
		return
	}
	matched := listing.Filter(all, func(u models.User) bool {
		return listing.MatchAny(q.Search, u.Name, u.Email) && userMatchesStatus(u, q.Status)
	})
	writeList(w, listing.Paginate(matched, q.Page, q.PageSize), len(matched))
}

// GetUserHandler returns one user.
// @Summary      Get user
// @Tags         users
// @Produce      json
// @Param        id   path  int  true  "User ID"
// @Success      200  {object}  Response{data=models.User}
// @Failure      404  {object}  Response{error=string}
// @Router       /users/{id} [get]
func (h *Handler) GetUserHandler(w http.ResponseWriter, r *http.Request) {
	id, err := urlID(r)
	if err != nil {
		handleError(w, r, err)
		return
	}
	u, err := h.Store.GetUser(r.Context(), id)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, u)
}

// CreateUserHandler registers a user. New accounts are active and
// unapproved unless the payload says otherwise.
// @Summary      Create user
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        user  body  models.UserInput  true  "User"
// @Success      201  {object}  Response{data=models.User}
// @Failure      400  {object}  Response{error=string}
// @Failure      409  {object}  Response{error=string}
// @Router       /users [post]
func (h *Handler) CreateUserHandler(w http.ResponseWriter, r *http.Request) {
	var in models.UserInput
	if err := decodeJSON(w, r, &in); err != nil {
		handleError(w, r, err)
		return
	}
	if err := in.Validate(true); err != nil {
		handleError(w, r, err)
		return
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		handleError(w, r, err)
		return
	}
	u := &models.User{
		Name:         in.Name,
		Email:        in.Email,
		Role:         in.Role,
		Phone:        in.Phone,
		IsActive:     boolOr(in.IsActive, true),
		IsApproved:   boolOr(in.IsApproved, false),
		PasswordHash: string(hash),
	}
	if err := h.Store.CreateUser(r.Context(), u); err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, u)
}

// UpdateUserHandler rewrites a user. An empty password keeps the current
// one.
// @Summary      Update user
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        id    path  int               true  "User ID"
// @Param        user  body  models.UserInput  true  "User"
// @Success      200  {object}  Response{data=models.User}
// @Failure      400  {object}  Response{error=string}
// @Failure      404  {object}  Response{error=string}
// @Router       /users/{id} [put]
func (h *Handler) UpdateUserHandler(w http.ResponseWriter, r *http.Request) {
	id, err := urlID(r)
	if err != nil {
		handleError(w, r, err)
		return
	}
	var in models.UserInput
	if err := decodeJSON(w, r, &in); err != nil {
		handleError(w, r, err)
		return
	}
	if err := in.Validate(false); err != nil {
		handleError(w, r, err)
		return
	}
	u, err := h.Store.GetUser(r.Context(), id)
	if err != nil {
		handleError(w, r, err)
		return
	}
	u.Name, u.Email, u.Role, u.Phone = in.Name, in.Email, in.Role, in.Phone
	u.IsActive = boolOr(in.IsActive, u.IsActive)
	u.IsApproved = boolOr(in.IsApproved, u.IsApproved)
	if in.Password != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
		if err != nil {
			handleError(w, r, err)
			return
		}
		u.PasswordHash = string(hash)
	}
	if err := h.Store.UpdateUser(r.Context(), u); err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, u)
}

// UpdateUserStatusHandler toggles activation or approval.
// @Summary      Update user status
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        id      path  int                     true  "User ID"
// @Param        status  body  models.UserStatusInput  true  "Flags"
// @Success      200  {object}  Response{data=models.User}
// @Failure      400  {object}  Response{error=string}
// @Failure      404  {object}  Response{error=string}
// @Router       /users/{id}/status [put]
func (h *Handler) UpdateUserStatusHandler(w http.ResponseWriter, r *http.Request) {
	id, err := urlID(r)
	if err != nil {
		handleError(w, r, err)
		return
	}
	var in models.UserStatusInput
	if err := decodeJSON(w, r, &in); err != nil {
		handleError(w, r, err)
		return
	}
	if err := in.Validate(); err != nil {
		handleError(w, r, err)
		return
	}
	u, err := h.Store.GetUser(r.Context(), id)
	if err != nil {
		handleError(w, r, err)
		return
	}
	u.IsActive = boolOr(in.IsActive, u.IsActive)
	u.IsApproved = boolOr(in.IsApproved, u.IsApproved)
	if err := h.Store.UpdateUser(r.Context(), u); err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, u)
}

// DeleteUserHandler deletes a user.
// @Summary      Delete user
// @Tags         users
// @Param        id   path  int  true  "User ID"
// @Success      204
// @Failure      404  {object}  Response{error=string}
// @Router       /users/{id} [delete]
func (h *Handler) DeleteUserHandler(w http.ResponseWriter, r *http.Request) {
	id, err := urlID(r)
	if err != nil {
		handleError(w, r, err)
		return
	}
	if err := h.Store.DeleteUser(r.Context(), id); err != nil {
		handleError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func boolOr(p *bool, def bool) bool {
	if p == nil {
		return def
	}
	return *p
}
