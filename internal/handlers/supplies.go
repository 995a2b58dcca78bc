package handlers

import (
	"context"
	"net/http"

	"ngoadmin/internal/form"
	"ngoadmin/internal/listing"
	"ngoadmin/models"
)

// ListSuppliesHandler lists donations and purchases.
// @Summary      List supplies
// @Tags         supplies
// @Produce      json
// @Param        suppliesNature  query  string  false  "donation | purchase"
// @Param        search          query  string  false  "Search by reference, source or project"
// @Param        type            query  string  false  "Transaction type"
// @Param        from            query  string  false  "From date (YYYY-MM-DD)"
// @Param        to              query  string  false  "To date (YYYY-MM-DD)"
// @Param        page            query  int     false  "Page"
// @Param        pageSize        query  int     false  "Page size"
// @Success      200  {object}  Response{data=[]models.Supplies}
// @Header       200  {integer}  x-total-count  "Matching rows"
// @Router       /supplies [get]
func (h *Handler) ListSuppliesHandler(w http.ResponseWriter, r *http.Request) {
	q, err := listing.ParseQuery(r.URL.Query(), h.Loc)
	if err != nil {
		writeError(w, http.StatusBadRequest, MsgInvalidInput)
		return
	}
	all, err := h.Store.ListSupplies(r.Context(), q.Nature)
	if err != nil {
		handleError(w, r, err)
		return
	}
	matched := listing.Filter(all, func(s models.Supplies) bool {
		return listing.MatchAny(q.Search, s.Reference, s.Source, deref(s.ProjectName)) &&
			listing.MatchExact(q.Type, string(s.Type)) &&
			q.Range.Contains(s.Date)
	})
	writeList(w, listing.Paginate(matched, q.Page, q.PageSize), len(matched))
}

// GetSuppliesHandler returns one donation or purchase with its items.
// @Summary      Get supplies
// @Tags         supplies
// @Produce      json
// @Param        id   path  int  true  "Supplies ID"
// @Success      200  {object}  Response{data=models.Supplies}
// @Failure      404  {object}  Response{error=string}
// @Router       /supplies/{id} [get]
func (h *Handler) GetSuppliesHandler(w http.ResponseWriter, r *http.Request) {
	id, err := urlID(r)
	if err != nil {
		handleError(w, r, err)
		return
	}
	s, err := h.Store.GetSupplies(r.Context(), id)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, s)
}

func (h *Handler) prepareSupplies(ctx context.Context, in *models.SuppliesInput) (string, error) {
	p, err := h.linkedProject(ctx, in.ProjectID)
	if err != nil {
		return "", err
	}
	prefix := PrefixDonation
	if in.Nature == models.NaturePurchase {
		prefix = PrefixPurchase
	}
	if p != nil {
		if in.Source == "" {
			in.Source = p.Name
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

// CreateSuppliesHandler creates a donation or purchase header. Items are
// attached afterwards with POST /supplies/{id}/items.
// @Summary      Create supplies header
// @Tags         supplies
// @Accept       multipart/form-data
// @Produce      json
// @Param        SuppliesNature  formData  string  true   "donation | purchase"
// @Param        Reference       formData  string  false  "Reference, generated when empty"
// @Param        Source          formData  string  false  "Source, required without project"
// @Param        Date            formData  string  true   "Date"
// @Param        Type            formData  string  true   "نقدي | عيني | نقدي وعيني"
// @Param        CashAmount      formData  number  false  "Cash amount"
// @Param        ProjectId       formData  int     false  "Linked project"
// @Param        LegalFile       formData  file    false  "Legal file"
// @Success      201  {object}  Response{data=models.Supplies}
// @Failure      400  {object}  Response{error=string}
// @Router       /supplies [post]
func (h *Handler) CreateSuppliesHandler(w http.ResponseWriter, r *http.Request) {
	values, err := h.parseMultipart(w, r)
	if err != nil {
		handleError(w, r, err)
		return
	}
	in, err := form.ParseSupplies(values, h.Loc)
	if err == nil {
		err = in.Validate()
	}
	var prefix string
	if err == nil {
		prefix, err = h.prepareSupplies(r.Context(), &in)
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
	s := suppliesFromInput(in)
	setAttachment(stored, &s.FileName, &s.FilePath)

	err = h.createWithReference(prefix, &s.Reference, func() error {
		return h.Store.CreateSupplies(r.Context(), s)
	})
	if err != nil {
		h.discard(stored)
		handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, s)
}

// AddSuppliesItemsHandler attaches in-kind items to a donation or purchase.
// @Summary      Add supplies items
// @Tags         supplies
// @Accept       json
// @Produce      json
// @Param        id     path  int                 true  "Supplies ID"
// @Param        items  body  []models.ItemInput  true  "Items"
// @Success      200  {object}  Response{data=models.Supplies}
// @Failure      400  {object}  Response{error=string}
// @Router       /supplies/{id}/items [post]
func (h *Handler) AddSuppliesItemsHandler(w http.ResponseWriter, r *http.Request) {
	id, items, err := h.itemsRequest(w, r)
	if err != nil {
		handleError(w, r, err)
		return
	}
	s, err := h.Store.AddSuppliesItems(r.Context(), id, items)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, s)
}

// UpdateSuppliesHandler rewrites the header and replaces the items.
// @Summary      Update supplies
// @Tags         supplies
// @Accept       multipart/form-data
// @Produce      json
// @Param        id                      path      int     true   "Supplies ID"
// @Param        SuppliesNature          formData  string  true   "donation | purchase"
// @Param        Date                    formData  string  true   "Date"
// @Param        Type                    formData  string  true   "Transaction type"
// @Param        Items[0].Id             formData  int     false  "Existing item id"
// @Param        Items[0].SubCategoryId  formData  int     false  "Subcategory"
// @Param        Items[0].Quantity       formData  int     false  "Quantity"
// @Param        LegalFile               formData  file    false  "Replacement legal file"
// @Success      200  {object}  Response{data=models.Supplies}
// @Failure      400  {object}  Response{error=string}
// @Failure      404  {object}  Response{error=string}
// @Router       /supplies/{id} [put]
func (h *Handler) UpdateSuppliesHandler(w http.ResponseWriter, r *http.Request) {
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
	current, err := h.Store.GetSupplies(r.Context(), id)
	if err != nil {
		handleError(w, r, err)
		return
	}
	in, err := form.ParseSupplies(values, h.Loc)
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
		_, err = h.prepareSupplies(r.Context(), &in)
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
	s := suppliesFromInput(in)
	s.ID = id
	s.CreatedAt = current.CreatedAt
	s.FileName, s.FilePath = current.FileName, current.FilePath
	setAttachment(stored, &s.FileName, &s.FilePath)

	if err := h.Store.UpdateSupplies(r.Context(), s, in.Items); err != nil {
		h.discard(stored)
		handleError(w, r, err)
		return
	}
	if stored != nil {
		h.removeFile(current.FilePath)
	}
	if updated, err := h.Store.GetSupplies(r.Context(), id); err == nil {
		s = updated
	}
	writeJSON(w, http.StatusOK, s)
}

// DeleteSuppliesHandler deletes a donation or purchase.
// @Summary      Delete supplies
// @Tags         supplies
// @Param        id   path  int  true  "Supplies ID"
// @Success      204
// @Failure      404  {object}  Response{error=string}
// @Router       /supplies/{id} [delete]
func (h *Handler) DeleteSuppliesHandler(w http.ResponseWriter, r *http.Request) {
	id, err := urlID(r)
	if err != nil {
		handleError(w, r, err)
		return
	}
	path, err := h.Store.DeleteSupplies(r.Context(), id)
	if err != nil {
		handleError(w, r, err)
		return
	}
	h.removeFile(path)
	w.WriteHeader(http.StatusNoContent)
}

// DownloadSuppliesFileHandler streams the legal file of a donation or
// purchase.
// @Summary      Download supplies legal file
// @Tags         supplies
// @Produce      octet-stream
// @Param        id   path  int  true  "Supplies ID"
// @Success      200  {file}  binary
// @Failure      404  {object}  Response{error=string}
// @Router       /supplies/{id}/file [get]
func (h *Handler) DownloadSuppliesFileHandler(w http.ResponseWriter, r *http.Request) {
	id, err := urlID(r)
	if err != nil {
		handleError(w, r, err)
		return
	}
	s, err := h.Store.GetSupplies(r.Context(), id)
	if err != nil {
		handleError(w, r, err)
		return
	}
	h.serveFile(w, r, s.FileName, s.FilePath)
}

func suppliesFromInput(in models.SuppliesInput) *models.Supplies {
	return &models.Supplies{
		Reference:  in.Reference,
		Source:     in.Source,
		Nature:     in.Nature,
		Date:       *in.Date,
		Type:       in.Type,
		CashAmount: in.CashAmount,
		ProjectID:  in.ProjectID,
	}
}
