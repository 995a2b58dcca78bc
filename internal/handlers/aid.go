package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"ngoadmin/db"
	"ngoadmin/internal/form"
	"ngoadmin/internal/listing"
	"ngoadmin/models"
	"ngoadmin/supplies"
)

// Reference prefixes of generated references.
const (
	PrefixAid      = "AID"
	PrefixDonation = "DON"
	PrefixPurchase = "PUR"
)

// linkedProject loads the project a record points to. A missing project is
// a field error rather than a 404 of the record itself.
func (h *Handler) linkedProject(ctx context.Context, id *int) (*models.OngoingProject, error) {
	if id == nil {
		return nil, nil
	}
	p, err := h.Store.GetProject(ctx, *id)
	if errors.Is(err, db.ErrNotFound) {
		return nil, models.NewFieldError("projectId", "المشروع غير موجود")
	}
	return p, err
}

// projectPrefix tags generated references of project-linked records.
func projectPrefix(prefix string, projectID int) string {
	return fmt.Sprintf("%s-P%d", prefix, projectID)
}

// reference returns ref, or a generated one when ref is blank. generated
// is false when the caller supplied the reference.
func (h *Handler) reference(ref, prefix string) (string, bool) {
	if ref = strings.TrimSpace(ref); ref != "" {
		return ref, false
	}
	return supplies.GenerateReference(prefix, h.Now().In(h.Loc)), true
}

// createWithReference runs create and, when a generated reference collides
// with a stored one, retries once with a millisecond reference. prefix is
// empty when the reference came from the caller.
func (h *Handler) createWithReference(prefix string, ref *string, create func() error) error {
	err := create()
	if err != nil && prefix != "" && db.IsConstraint(err, db.CodeUniqueViolation) {
		*ref = supplies.GenerateFineReference(prefix, h.Now().In(h.Loc))
		err = create()
	}
	return err
}

// ListAidHandler lists aid records.
// @Summary      List aid
// @Tags         aid
// @Produce      json
// @Param        search    query  string  false  "Search by reference, usage or project"
// @Param        type      query  string  false  "Transaction type"
// @Param        from      query  string  false  "From date (YYYY-MM-DD)"
// @Param        to        query  string  false  "To date (YYYY-MM-DD)"
// @Param        page      query  int     false  "Page"
// @Param        pageSize  query  int     false  "Page size"
// @Success      200  {object}  Response{data=[]models.Aid}
// @Header       200  {integer}  x-total-count  "Matching rows"
// @Router       /aid [get]
func (h *Handler) ListAidHandler(w http.ResponseWriter, r *http.Request) {
	q, err := listing.ParseQuery(r.URL.Query(), h.Loc)
	if err != nil {
		writeError(w, http.StatusBadRequest, MsgInvalidInput)
		return
	}
	all, err := h.Store.ListAid(r.Context())
	if err != nil {
		handleError(w, r, err)
		return
	}
	matched := listing.Filter(all, func(a models.Aid) bool {
		return listing.MatchAny(q.Search, a.Reference, a.Usage, deref(a.ProjectName)) &&
			listing.MatchExact(q.Type, string(a.Type)) &&
			q.Range.Contains(a.Date)
	})
	writeList(w, listing.Paginate(matched, q.Page, q.PageSize), len(matched))
}

// GetAidHandler returns one aid with its items.
// @Summary      Get aid
// @Tags         aid
// @Produce      json
// @Param        id   path  int  true  "Aid ID"
// @Success      200  {object}  Response{data=models.Aid}
// @Failure      404  {object}  Response{error=string}
// @Router       /aid/{id} [get]
func (h *Handler) GetAidHandler(w http.ResponseWriter, r *http.Request) {
	id, err := urlID(r)
	if err != nil {
		handleError(w, r, err)
		return
	}
	a, err := h.Store.GetAid(r.Context(), id)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, a)
}

// prepareAid fills the fields a linked project provides. It returns the
// prefix of a generated reference, or "" when none was generated.
func (h *Handler) prepareAid(ctx context.Context, in *models.AidInput) (string, error) {
	p, err := h.linkedProject(ctx, in.ProjectID)
	if err != nil {
		return "", err
	}
	prefix := PrefixAid
	if p != nil {
		if in.Usage == "" {
			in.Usage = p.Name
		}
		prefix = projectPrefix(prefix, p.ID)
	}
	ref, generated := h.reference(in.Reference, prefix)
	in.Reference = ref
	if !generated {
		return "", nil
	}
	return prefix, nil
}

// CreateAidHandler creates the aid header. Items are attached afterwards
// with POST /aid/{id}/items.
// @Summary      Create aid header
// @Tags         aid
// @Accept       multipart/form-data
// @Produce      json
// @Param        Reference   formData  string  false  "Reference, generated when empty"
// @Param        Usage       formData  string  false  "Beneficiary, required without project"
// @Param        Date        formData  string  true   "Date"
// @Param        Type        formData  string  true   "نقدي | عيني | نقدي وعيني"
// @Param        CashAmount  formData  number  false  "Cash amount"
// @Param        ProjectId   formData  int     false  "Linked project"
// @Param        LegalFile   formData  file    false  "Legal file"
// @Success      201  {object}  Response{data=models.Aid}
// @Failure      400  {object}  Response{error=string}
// @Router       /aid [post]
func (h *Handler) CreateAidHandler(w http.ResponseWriter, r *http.Request) {
	values, err := h.parseMultipart(w, r)
	if err != nil {
		handleError(w, r, err)
		return
	}
	in, err := form.ParseAid(values, h.Loc)
	if err == nil {
		err = in.Validate()
	}
	var prefix string
	if err == nil {
		prefix, err = h.prepareAid(r.Context(), &in)
	}
	if err != nil {
		handleError(w, r, err)
		return
	}

	stored, err := h.saveUpload(r, form.LegalFile)
	if err != nil {
		handleError(w, r, err)
		return
	}
	a := aidFromInput(in)
	setAttachment(stored, &a.FileName, &a.FilePath)

	err = h.createWithReference(prefix, &a.Reference, func() error {
		return h.Store.CreateAid(r.Context(), a)
	})
	if err != nil {
		h.discard(stored)
		handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, a)
}

// AddAidItemsHandler attaches in-kind items to an aid.
// @Summary      Add aid items
// @Tags         aid
// @Accept       json
// @Produce      json
// @Param        id     path  int                 true  "Aid ID"
// @Param        items  body  []models.ItemInput  true  "Items"
// @Success      200  {object}  Response{data=models.Aid}
// @Failure      400  {object}  Response{error=string,details=[]supplies.Violation}
// @Router       /aid/{id}/items [post]
func (h *Handler) AddAidItemsHandler(w http.ResponseWriter, r *http.Request) {
	id, items, err := h.itemsRequest(w, r)
	if err != nil {
		handleError(w, r, err)
		return
	}
	a, err := h.Store.AddAidItems(r.Context(), id, items)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, a)
}

func (h *Handler) itemsRequest(w http.ResponseWriter, r *http.Request) (int, []models.ItemInput, error) {
	id, err := urlID(r)
	if err != nil {
		return 0, nil, err
	}
	var items []models.ItemInput
	if err := decodeJSON(w, r, &items); err != nil {
		return 0, nil, err
	}
	if len(items) == 0 {
		return 0, nil, models.NewFieldError("items", "يجب إضافة عنصر عيني واحد على الأقل")
	}
	if err := models.ValidateItemInputs(items); err != nil {
		return 0, nil, err
	}
	return id, items, nil
}

// UpdateAidHandler rewrites the header and replaces the items.
// @Summary      Update aid
// @Tags         aid
// @Accept       multipart/form-data
// @Produce      json
// @Param        id                      path      int     true   "Aid ID"
// @Param        Date                    formData  string  true   "Date"
// @Param        Type                    formData  string  true   "Transaction type"
// @Param        Items[0].Id             formData  int     false  "Existing item id"
// @Param        Items[0].SubCategoryId  formData  int     false  "Subcategory"
// @Param        Items[0].Quantity       formData  int     false  "Quantity"
// @Param        LegalFile               formData  file    false  "Replacement legal file"
// @Success      200  {object}  Response{data=models.Aid}
// @Failure      400  {object}  Response{error=string}
// @Failure      404  {object}  Response{error=string}
// @Router       /aid/{id} [put]
func (h *Handler) UpdateAidHandler(w http.ResponseWriter, r *http.Request) {
	id, err := urlID(r)
	if err != nil {
		handleError(w, r, err)
		return
	}
	values, err := h.parseMultipart(w, r)
	if err != nil {
		handleError(w, r, err)
		return
	}
	current, err := h.Store.GetAid(r.Context(), id)
	if err != nil {
		handleError(w, r, err)
		return
	}
	in, err := form.ParseAid(values, h.Loc)
	if err == nil {
		err = in.Validate()
	}
	if err == nil {
		err = in.ValidateItems()
	}
	if err == nil {
		if in.Reference == "" {
			in.Reference = current.Reference
		}
		_, err = h.prepareAid(r.Context(), &in)
	}
	if err != nil {
		handleError(w, r, err)
		return
	}

	stored, err := h.saveUpload(r, form.LegalFile)
	if err != nil {
		handleError(w, r, err)
		return
	}
	a := aidFromInput(in)
	a.ID = id
	a.CreatedAt = current.CreatedAt
	a.FileName, a.FilePath = current.FileName, current.FilePath
	setAttachment(stored, &a.FileName, &a.FilePath)

	if err := h.Store.UpdateAid(r.Context(), a, in.Items); err != nil {
		h.discard(stored)
		handleError(w, r, err)
		return
	}
	if stored != nil {
		h.removeFile(current.FilePath)
	}
	if updated, err := h.Store.GetAid(r.Context(), id); err == nil {
		a = updated
	}
	writeJSON(w, http.StatusOK, a)
}

// DeleteAidHandler deletes an aid, its items and its attachment.
// @Summary      Delete aid
// @Tags         aid
// @Param        id   path  int  true  "Aid ID"
// @Success      204
// @Failure      404  {object}  Response{error=string}
// @Router       /aid/{id} [delete]
func (h *Handler) DeleteAidHandler(w http.ResponseWriter, r *http.Request) {
	id, err := urlID(r)
	if err != nil {
		handleError(w, r, err)
		return
	}
	path, err := h.Store.DeleteAid(r.Context(), id)
	if err != nil {
		handleError(w, r, err)
		return
	}
	h.removeFile(path)
	w.WriteHeader(http.StatusNoContent)
}

// DownloadAidFileHandler streams the legal file of an aid.
// @Summary      Download aid legal file
// @Tags         aid
// @Produce      octet-stream
// @Param        id   path  int  true  "Aid ID"
// @Success      200  {file}  binary
// @Failure      404  {object}  Response{error=string}
// @Router       /aid/{id}/file [get]
func (h *Handler) DownloadAidFileHandler(w http.ResponseWriter, r *http.Request) {
	id, err := urlID(r)
	if err != nil {
		handleError(w, r, err)
		return
	}
	a, err := h.Store.GetAid(r.Context(), id)
	if err != nil {
		handleError(w, r, err)
		return
	}
	h.serveFile(w, r, a.FileName, a.FilePath)
}

func aidFromInput(in models.AidInput) *models.Aid {
	return &models.Aid{
		Reference:  in.Reference,
		Usage:      in.Usage,
		Date:       *in.Date,
		Type:       in.Type,
		CashAmount: in.CashAmount,
		ProjectID:  in.ProjectID,
	}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
