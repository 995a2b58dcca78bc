package handlers

import (
	"net/http"

	"ngoadmin/internal/listing"
	"ngoadmin/models"
)

// ListProjectsHandler lists ongoing projects.
// @Summary      List projects
// @Tags         projects
// @Produce      json
// @Param        search    query  string  false  "Search by name or committee"
// @Param        status    query  string  false  "Implementation status"
// @Param        from      query  string  false  "Started from (YYYY-MM-DD)"
// @Param        to        query  string  false  "Started until (YYYY-MM-DD)"
// @Param        page      query  int     false  "Page"
// @Param        pageSize  query  int     false  "Page size"
// @Success      200  {object}  Response{data=[]models.OngoingProject}
// @Header       200  {integer}  x-total-count  "Matching rows"
// @Router       /ongoingprojects [get]
func (h *Handler) ListProjectsHandler(w http.ResponseWriter, r *http.Request) {
	q, err := listing.ParseQuery(r.URL.Query(), h.Loc)
	if err != nil {
		writeError(w, http.StatusBadRequest, MsgInvalidInput)
		return
	}
	all, err := h.Store.ListProjects(r.Context())
	if err != nil {
		handleError(w, r, err)
		return
	}
	matched := listing.Filter(all, func(p models.OngoingProject) bool {
		return listing.MatchAny(q.Search, p.Name, p.Committee) &&
			listing.MatchExact(q.Status, p.ImplementationStatus) &&
			q.Range.ContainsDate(p.StartDate)
	})
	writeList(w, listing.Paginate(matched, q.Page, q.PageSize), len(matched))
}

// GetProjectHandler returns one project with its phases and partners.
// @Summary      Get project
// @Tags         projects
// @Produce      json
// @Param        id   path  int  true  "Project ID"
// @Success      200  {object}  Response{data=models.OngoingProject}
// @Failure      404  {object}  Response{error=string}
// @Router       /ongoingprojects/{id} [get]
func (h *Handler) GetProjectHandler(w http.ResponseWriter, r *http.Request) {
	id, err := urlID(r)
	if err != nil {
		handleError(w, r, err)
		return
	}
	p, err := h.Store.GetProject(r.Context(), id)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// CreateProjectHandler registers a project.
// @Summary      Create project
// @Tags         projects
// @Accept       json
// @Produce      json
// @Param        project  body  models.OngoingProjectInput  true  "Project"
// @Success      201  {object}  Response{data=models.OngoingProject}
// @Failure      400  {object}  Response{error=string}
// @Router       /ongoingprojects [post]
func (h *Handler) CreateProjectHandler(w http.ResponseWriter, r *http.Request) {
	var in models.OngoingProjectInput
	if err := decodeJSON(w, r, &in); err != nil {
		handleError(w, r, err)
		return
	}
	if err := in.Validate(); err != nil {
		handleError(w, r, err)
		return
	}
	p := &models.OngoingProject{
		Name:                 in.Name,
		Committee:            in.Committee,
		Budget:               in.Budget,
		StartDate:            *in.StartDate,
		EndDate:              in.EndDate,
		ImplementationStatus: in.ImplementationStatus,
		FundingStatus:        in.FundingStatus,
		Phases:               in.Phases,
		Partners:             in.Partners,
	}
	if err := h.Store.CreateProject(r.Context(), p); err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, p)
}

// CompleteProjectHandler marks a project completed.
// @Summary      Complete project
// @Tags         projects
// @Produce      json
// @Param        id   path  int  true  "Project ID"
// @Success      200  {object}  Response{data=models.OngoingProject}
// @Failure      404  {object}  Response{error=string}
// @Failure      409  {object}  Response{error=string}
// @Router       /ongoingprojects/{id}/complete [put]
func (h *Handler) CompleteProjectHandler(w http.ResponseWriter, r *http.Request) {
	id, err := urlID(r)
	if err != nil {
		handleError(w, r, err)
		return
	}
	p, err := h.Store.GetProject(r.Context(), id)
	if err != nil {
		handleError(w, r, err)
		return
	}
	if err := p.Complete(); err != nil {
		handleError(w, r, err)
		return
	}
	if err := h.Store.SetProjectStatus(r.Context(), id, p.ImplementationStatus); err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// DeleteProjectHandler deletes a project. Linked records keep their data
// and lose the link.
// @Summary      Delete project
// @Tags         projects
// @Param        id   path  int  true  "Project ID"
// @Success      204
// @Failure      404  {object}  Response{error=string}
// @Router       /ongoingprojects/{id} [delete]
func (h *Handler) DeleteProjectHandler(w http.ResponseWriter, r *http.Request) {
	id, err := urlID(r)
	if err != nil {
		handleError(w, r, err)
		return
	}
	if err := h.Store.DeleteProject(r.Context(), id); err != nil {
		handleError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
