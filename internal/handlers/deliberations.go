package handlers

import (
	"net/http"
	"strings"

	"ngoadmin/internal/files"
	"ngoadmin/internal/form"
	"ngoadmin/internal/listing"
	"ngoadmin/models"
)

// ListDeliberationsHandler lists deliberations.
// @Summary      List deliberations
// @Tags         deliberations
// @Produce      json
// @Param        search    query  string  false  "Search by number or attendee"
// @Param        from      query  string  false  "From date (YYYY-MM-DD)"
// @Param        to        query  string  false  "To date (YYYY-MM-DD)"
// @Param        page      query  int     false  "Page"
// @Param        pageSize  query  int     false  "Page size"
// @Success      200  {object}  Response{data=[]models.Deliberation}
// @Header       200  {integer}  x-total-count  "Matching rows"
// @Router       /deliberations [get]
func (h *Handler) ListDeliberationsHandler(w http.ResponseWriter, r *http.Request) {
	q, err := listing.ParseQuery(r.URL.Query(), h.Loc)
	if err != nil {
		writeError(w, http.StatusBadRequest, MsgInvalidInput)
		return
	}
	all, err := h.Store.ListDeliberations(r.Context())
	if err != nil {
		handleError(w, r, err)
		return
	}
	matched := listing.Filter(all, func(d models.Deliberation) bool {
		return listing.MatchAny(q.Search, d.Number, strings.Join(d.Attendees, " ")) &&
			q.Range.Contains(d.DateTime)
	})
	writeList(w, listing.Paginate(matched, q.Page, q.PageSize), len(matched))
}

// GetDeliberationHandler returns one deliberation.
// @Summary      Get deliberation
// @Tags         deliberations
// @Produce      json
// @Param        id   path  int  true  "Deliberation ID"
// @Success      200  {object}  Response{data=models.Deliberation}
// @Failure      404  {object}  Response{error=string}
// @Router       /deliberations/{id} [get]
func (h *Handler) GetDeliberationHandler(w http.ResponseWriter, r *http.Request) {
	id, err := urlID(r)
	if err != nil {
		handleError(w, r, err)
		return
	}
	d, err := h.Store.GetDeliberation(r.Context(), id)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, d)
}

// saveDocument stores the uploaded PV document; only PDFs are kept.
func (h *Handler) saveDocument(r *http.Request) (*files.StoredFile, error) {
	stored, err := h.saveUpload(r, form.Document)
	if err != nil || stored == nil {
		return stored, err
	}
	if !files.IsPDF(stored) {
		h.discard(stored)
		return nil, models.NewFieldError("document", "يجب أن يكون الملف بصيغة PDF")
	}
	return stored, nil
}

// CreateDeliberationHandler records a deliberation.
// @Summary      Create deliberation
// @Tags         deliberations
// @Accept       multipart/form-data
// @Produce      json
// @Param        Number     formData  string  true   "PV number"
// @Param        DateTime   formData  string  true   "Date and time"
// @Param        Attendees  formData  []string  true  "Attendees, at least 3"  collectionFormat(multi)
// @Param        Document   formData  file    false  "PDF document"
// @Success      201  {object}  Response{data=models.Deliberation}
// @Failure      400  {object}  Response{error=string}
// @Router       /deliberations [post]
func (h *Handler) CreateDeliberationHandler(w http.ResponseWriter, r *http.Request) {
	values, err := h.parseMultipart(w, r)
	if err != nil {
		handleError(w, r, err)
		return
	}
	in, err := form.ParseDeliberation(values, h.Loc)
	if err == nil {
		err = in.Validate()
	}
	if err != nil {
		handleError(w, r, err)
		return
	}
	stored, err := h.saveDocument(r)
	if err != nil {
		handleError(w, r, err)
		return
	}
	d := &models.Deliberation{Number: in.Number, DateTime: *in.DateTime, Attendees: in.Attendees}
	setAttachment(stored, &d.DocumentName, &d.DocumentPath)

	if err := h.Store.CreateDeliberation(r.Context(), d); err != nil {
		h.discard(stored)
		handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, d)
}

// UpdateDeliberationHandler rewrites a deliberation, keeping its document
// unless a new one is sent.
// @Summary      Update deliberation
// @Tags         deliberations
// @Accept       multipart/form-data
// @Produce      json
// @Param        id        path      int   true   "Deliberation ID"
// @Param        Document  formData  file  false  "Replacement PDF document"
// @Success      200  {object}  Response{data=models.Deliberation}
// @Failure      400  {object}  Response{error=string}
// @Failure      404  {object}  Response{error=string}
// @Router       /deliberations/{id} [put]
func (h *Handler) UpdateDeliberationHandler(w http.ResponseWriter, r *http.Request) {
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
	in, err := form.ParseDeliberation(values, h.Loc)
	if err == nil {
		err = in.Validate()
	}
	if err != nil {
		handleError(w, r, err)
		return
	}
	current, err := h.Store.GetDeliberation(r.Context(), id)
	if err != nil {
		handleError(w, r, err)
		return
	}
	stored, err := h.saveDocument(r)
	if err != nil {
		handleError(w, r, err)
		return
	}
	d := &models.Deliberation{
		ID:           id,
		Number:       in.Number,
		DateTime:     *in.DateTime,
		Attendees:    in.Attendees,
		DocumentName: current.DocumentName,
		DocumentPath: current.DocumentPath,
		CreatedAt:    current.CreatedAt,
	}
	setAttachment(stored, &d.DocumentName, &d.DocumentPath)

	if err := h.Store.UpdateDeliberation(r.Context(), d); err != nil {
		h.discard(stored)
		handleError(w, r, err)
		return
	}
	if stored != nil {
		h.removeFile(current.DocumentPath)
	}
	writeJSON(w, http.StatusOK, d)
}

// DeleteDeliberationHandler deletes a deliberation and its document.
// @Summary      Delete deliberation
// @Tags         deliberations
// @Param        id   path  int  true  "Deliberation ID"
// @Success      204
// @Failure      404  {object}  Response{error=string}
// @Router       /deliberations/{id} [delete]
func (h *Handler) DeleteDeliberationHandler(w http.ResponseWriter, r *http.Request) {
	id, err := urlID(r)
	if err != nil {
		handleError(w, r, err)
		return
	}
	path, err := h.Store.DeleteDeliberation(r.Context(), id)
	if err != nil {
		handleError(w, r, err)
		return
	}
	h.removeFile(path)
	w.WriteHeader(http.StatusNoContent)
}

// DownloadDeliberationHandler streams the PV document.
// @Summary      Download deliberation document
// @Tags         deliberations
// @Produce      application/pdf
// @Param        id   path  int  true  "Deliberation ID"
// @Success      200  {file}  binary
// @Failure      404  {object}  Response{error=string}
// @Router       /deliberations/{id}/document [get]
func (h *Handler) DownloadDeliberationHandler(w http.ResponseWriter, r *http.Request) {
	id, err := urlID(r)
	if err != nil {
		handleError(w, r, err)
		return
	}
	d, err := h.Store.GetDeliberation(r.Context(), id)
	if err != nil {
		handleError(w, r, err)
		return
	}
	h.serveFile(w, r, d.DocumentName, d.DocumentPath)
}
