package handlers

import (
	"net/http"

	"ngoadmin/internal/form"
	"ngoadmin/internal/listing"
	"ngoadmin/models"
)

// ListAssetsHandler lists fixed assets.
// @Summary      List assets
// @Tags         assets
// @Produce      json
// @Param        search    query  string  false  "Search by brand, serial number, category or location"
// @Param        status    query  string  false  "valid | damaged | destroyed"
// @Param        from      query  string  false  "Deployed from (YYYY-MM-DD)"
// @Param        to        query  string  false  "Deployed until (YYYY-MM-DD)"
// @Param        page      query  int     false  "Page"
// @Param        pageSize  query  int     false  "Page size"
// @Success      200  {object}  Response{data=[]models.Asset}
// @Header       200  {integer}  x-total-count  "Matching rows"
// @Router       /ActImm [get]
func (h *Handler) ListAssetsHandler(w http.ResponseWriter, r *http.Request) {
	q, err := listing.ParseQuery(r.URL.Query(), h.Loc)
	if err != nil {
		writeError(w, http.StatusBadRequest, MsgInvalidInput)
		return
	}
	all, err := h.Store.ListAssets(r.Context())
	if err != nil {
		handleError(w, r, err)
		return
	}
	matched := listing.Filter(all, func(a models.Asset) bool {
		return listing.MatchAny(q.Search, a.Brand, a.SerialNumber, a.CategoryName, a.UsageLocation) &&
			listing.MatchExact(q.Status, a.Status) &&
			q.Range.ContainsDate(a.DeploymentDate)
	})
	writeList(w, listing.Paginate(matched, q.Page, q.PageSize), len(matched))
}

// GetAssetHandler returns one asset.
// @Summary      Get asset
// @Tags         assets
// @Produce      json
// @Param        id   path  int  true  "Asset ID"
// @Success      200  {object}  Response{data=models.Asset}
// @Failure      404  {object}  Response{error=string}
// @Router       /ActImm/{id} [get]
func (h *Handler) GetAssetHandler(w http.ResponseWriter, r *http.Request) {
	id, err := urlID(r)
	if err != nil {
		handleError(w, r, err)
		return
	}
	a, err := h.Store.GetAsset(r.Context(), id)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, a)
}

// CreateAssetHandler creates an asset.
// @Summary      Create asset
// @Tags         assets
// @Accept       multipart/form-data
// @Produce      json
// @Param        CategoryId      formData  int     true   "Category"
// @Param        Brand           formData  string  true   "Brand"
// @Param        SerialNumber    formData  string  true   "Serial number"
// @Param        Value           formData  number  true   "Value"
// @Param        UsageLocation   formData  string  true   "Usage location"
// @Param        Source          formData  string  true   "Source"
// @Param        SourceNature    formData  string  true   "purchase | donation"
// @Param        DeploymentDate  formData  string  true   "Deployment date"
// @Param        EndDate         formData  string  false  "End date, required when damaged or destroyed"
// @Param        Status          formData  string  false  "valid | damaged | destroyed"
// @Param        LegalFile       formData  file    false  "Legal file"
// @Success      201  {object}  Response{data=models.Asset}
// @Failure      400  {object}  Response{error=string}
// @Router       /ActImm [post]
func (h *Handler) CreateAssetHandler(w http.ResponseWriter, r *http.Request) {
	values, err := h.parseMultipart(w, r)
	if err != nil {
		handleError(w, r, err)
		return
	}
	in, err := form.ParseAsset(values, h.Loc)
	if err == nil {
		err = in.Validate()
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
	a := assetFromInput(in)
	setAttachment(stored, &a.FileName, &a.FilePath)

	if err := h.Store.CreateAsset(r.Context(), a); err != nil {
		h.discard(stored)
		handleError(w, r, err)
		return
	}
	if created, err := h.Store.GetAsset(r.Context(), a.ID); err == nil {
		a = created
	}
	writeJSON(w, http.StatusCreated, a)
}

// UpdateAssetHandler rewrites an asset, keeping its file unless a new one
// is sent.
// @Summary      Update asset
// @Tags         assets
// @Accept       multipart/form-data
// @Produce      json
// @Param        id         path      int   true   "Asset ID"
// @Param        LegalFile  formData  file  false  "Replacement legal file"
// @Success      200  {object}  Response{data=models.Asset}
// @Failure      400  {object}  Response{error=string}
// @Failure      404  {object}  Response{error=string}
// @Router       /ActImm/{id} [put]
func (h *Handler) UpdateAssetHandler(w http.ResponseWriter, r *http.Request) {
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
	in, err := form.ParseAsset(values, h.Loc)
	if err == nil {
		err = in.Validate()
	}
	if err != nil {
		handleError(w, r, err)
		return
	}
	current, err := h.Store.GetAsset(r.Context(), id)
	if err != nil {
		handleError(w, r, err)
		return
	}

	stored, err := h.saveUpload(r, form.LegalFile)
	if err != nil {
		handleError(w, r, err)
		return
	}
	a := assetFromInput(in)
	a.ID = id
	a.CreatedAt = current.CreatedAt
	a.FileName, a.FilePath = current.FileName, current.FilePath
	setAttachment(stored, &a.FileName, &a.FilePath)

	if err := h.Store.UpdateAsset(r.Context(), a); err != nil {
		h.discard(stored)
		handleError(w, r, err)
		return
	}
	if stored != nil {
		h.removeFile(current.FilePath)
	}
	if updated, err := h.Store.GetAsset(r.Context(), id); err == nil {
		a = updated
	}
	writeJSON(w, http.StatusOK, a)
}

// DeleteAssetHandler deletes an asset and its file.
// @Summary      Delete asset
// @Tags         assets
// @Param        id   path  int  true  "Asset ID"
// @Success      204
// @Failure      404  {object}  Response{error=string}
// @Router       /ActImm/{id} [delete]
func (h *Handler) DeleteAssetHandler(w http.ResponseWriter, r *http.Request) {
	id, err := urlID(r)
	if err != nil {
		handleError(w, r, err)
		return
	}
	path, err := h.Store.DeleteAsset(r.Context(), id)
	if err != nil {
		handleError(w, r, err)
		return
	}
	h.removeFile(path)
	w.WriteHeader(http.StatusNoContent)
}

// DownloadAssetFileHandler streams the legal file of an asset.
// @Summary      Download asset legal file
// @Tags         assets
// @Produce      octet-stream
// @Param        id   path  int  true  "Asset ID"
// @Success      200  {file}  binary
// @Failure      404  {object}  Response{error=string}
// @Router       /ActImm/{id}/file [get]
func (h *Handler) DownloadAssetFileHandler(w http.ResponseWriter, r *http.Request) {
	id, err := urlID(r)
	if err != nil {
		handleError(w, r, err)
		return
	}
	a, err := h.Store.GetAsset(r.Context(), id)
	if err != nil {
		handleError(w, r, err)
		return
	}
	h.serveFile(w, r, a.FileName, a.FilePath)
}

func assetFromInput(in models.AssetInput) *models.Asset {
	return &models.Asset{
		CategoryID:     in.CategoryID,
		Brand:          in.Brand,
		SerialNumber:   in.SerialNumber,
		Value:          in.Value,
		UsageLocation:  in.UsageLocation,
		Source:         in.Source,
		SourceNature:   in.SourceNature,
		DeploymentDate: *in.DeploymentDate,
		EndDate:        in.EndDate,
		Status:         in.Status,
	}
}
