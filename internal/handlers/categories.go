package handlers

import (
	"net/http"
	"strconv"

	"ngoadmin/db"
	"ngoadmin/models"
)

// ListAssetCategoriesHandler lists asset categories.
// @Summary      List asset categories
// @Tags         categories
// @Produce      json
// @Success      200  {object}  Response{data=[]models.AssetCategory}
// @Router       /ActImmCategory [get]
func (h *Handler) ListAssetCategoriesHandler(w http.ResponseWriter, r *http.Request) {
	cats, err := h.Store.ListAssetCategories(r.Context())
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeList(w, cats, len(cats))
}

// CreateAssetCategoryHandler creates an asset category.
// @Summary      Create asset category
// @Tags         categories
// @Accept       json
// @Produce      json
// @Param        category  body  models.AssetCategoryInput  true  "Category"
// @Success      201  {object}  Response{data=models.AssetCategory}
// @Failure      409  {object}  Response{error=string}
// @Router       /ActImmCategory [post]
func (h *Handler) CreateAssetCategoryHandler(w http.ResponseWriter, r *http.Request) {
	var in models.AssetCategoryInput
	if err := decodeJSON(w, r, &in); err != nil {
		handleError(w, r, err)
		return
	}
	if err := in.Validate(); err != nil {
		handleError(w, r, err)
		return
	}
	c := &models.AssetCategory{Name: in.Name}
	if err := h.Store.CreateAssetCategory(r.Context(), c); err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, c)
}

// UpdateAssetCategoryHandler renames an asset category.
// @Summary      Update asset category
// @Tags         categories
// @Accept       json
// @Produce      json
// @Param        id        path  int                        true  "Category ID"
// @Param        category  body  models.AssetCategoryInput  true  "Category"
// @Success      200  {object}  Response{data=models.AssetCategory}
// @Router       /ActImmCategory/{id} [put]
func (h *Handler) UpdateAssetCategoryHandler(w http.ResponseWriter, r *http.Request) {
	id, err := urlID(r)
	if err != nil {
		handleError(w, r, err)
		return
	}
	var in models.AssetCategoryInput
	if err := decodeJSON(w, r, &in); err != nil {
		handleError(w, r, err)
		return
	}
	if err := in.Validate(); err != nil {
		handleError(w, r, err)
		return
	}
	c := &models.AssetCategory{ID: id, Name: in.Name}
	if err := h.Store.UpdateAssetCategory(r.Context(), c); err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

// DeleteAssetCategoryHandler deletes an asset category with no assets.
// @Summary      Delete asset category
// @Tags         categories
// @Param        id   path  int  true  "Category ID"
// @Success      204
// @Failure      409  {object}  Response{error=string}
// @Router       /ActImmCategory/{id} [delete]
func (h *Handler) DeleteAssetCategoryHandler(w http.ResponseWriter, r *http.Request) {
	id, err := urlID(r)
	if err != nil {
		handleError(w, r, err)
		return
	}
	if err := h.Store.DeleteAssetCategory(r.Context(), id); err != nil {
		handleError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ListSuppliesCategoriesHandler lists supplies categories.
// @Summary      List supplies categories
// @Tags         categories
// @Produce      json
// @Success      200  {object}  Response{data=[]models.SuppliesCategory}
// @Router       /suppliescategories [get]
func (h *Handler) ListSuppliesCategoriesHandler(w http.ResponseWriter, r *http.Request) {
	cats, err := h.Store.ListSuppliesCategories(r.Context())
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeList(w, cats, len(cats))
}

// CreateSuppliesCategoryHandler creates a supplies category.
// @Summary      Create supplies category
// @Tags         categories
// @Accept       json
// @Produce      json
// @Param        category  body  models.SuppliesCategoryInput  true  "Category"
// @Success      201  {object}  Response{data=models.SuppliesCategory}
// @Router       /suppliescategories [post]
func (h *Handler) CreateSuppliesCategoryHandler(w http.ResponseWriter, r *http.Request) {
	var in models.SuppliesCategoryInput
	if err := decodeJSON(w, r, &in); err != nil {
		handleError(w, r, err)
		return
	}
	if err := in.Validate(); err != nil {
		handleError(w, r, err)
		return
	}
	c := &models.SuppliesCategory{Name: in.Name, Description: in.Description}
	if err := h.Store.CreateSuppliesCategory(r.Context(), c); err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, c)
}

// UpdateSuppliesCategoryHandler updates a supplies category.
// @Summary      Update supplies category
// @Tags         categories
// @Accept       json
// @Produce      json
// @Param        id        path  int                           true  "Category ID"
// @Param        category  body  models.SuppliesCategoryInput  true  "Category"
// @Success      200  {object}  Response{data=models.SuppliesCategory}
// @Router       /suppliescategories/{id} [put]
func (h *Handler) UpdateSuppliesCategoryHandler(w http.ResponseWriter, r *http.Request) {
	id, err := urlID(r)
	if err != nil {
		handleError(w, r, err)
		return
	}
	var in models.SuppliesCategoryInput
	if err := decodeJSON(w, r, &in); err != nil {
		handleError(w, r, err)
		return
	}
	if err := in.Validate(); err != nil {
		handleError(w, r, err)
		return
	}
	c := &models.SuppliesCategory{ID: id, Name: in.Name, Description: in.Description}
	if err := h.Store.UpdateSuppliesCategory(r.Context(), c); err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

// DeleteSuppliesCategoryHandler deletes a supplies category with no
// subcategories.
// @Summary      Delete supplies category
// @Tags         categories
// @Param        id   path  int  true  "Category ID"
// @Success      204
// @Failure      409  {object}  Response{error=string}
// @Router       /suppliescategories/{id} [delete]
func (h *Handler) DeleteSuppliesCategoryHandler(w http.ResponseWriter, r *http.Request) {
	id, err := urlID(r)
	if err != nil {
		handleError(w, r, err)
		return
	}
	if err := h.Store.DeleteSuppliesCategory(r.Context(), id); err != nil {
		handleError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ListCategorySubCategoriesHandler lists the subcategories of one category
// with their available quantity.
// @Summary      List subcategories of a category
// @Tags         categories
// @Produce      json
// @Param        id   path  int  true  "Category ID"
// @Success      200  {object}  Response{data=[]models.SuppliesSubCategory}
// @Router       /suppliescategories/{id}/subcategories [get]
func (h *Handler) ListCategorySubCategoriesHandler(w http.ResponseWriter, r *http.Request) {
	id, err := urlID(r)
	if err != nil {
		handleError(w, r, err)
		return
	}
	subs, err := h.Store.ListSubCategories(r.Context(), db.StockFilter{CategoryID: id})
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeList(w, subs, len(subs))
}

// ListSubCategoriesHandler lists every subcategory.
// @Summary      List subcategories
// @Tags         categories
// @Produce      json
// @Success      200  {object}  Response{data=[]models.SuppliesSubCategory}
// @Router       /suppliessubcategories [get]
func (h *Handler) ListSubCategoriesHandler(w http.ResponseWriter, r *http.Request) {
	subs, err := h.Store.ListSubCategories(r.Context(), db.StockFilter{})
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeList(w, subs, len(subs))
}

// SubCategoryStockHandler returns the stock snapshot the item forms check
// against. Editing a record passes its id so its own items count as
// available.
// @Summary      Subcategory stock
// @Tags         categories
// @Produce      json
// @Param        excludeAid       query  int  false  "Aid being edited"
// @Param        excludeSupplies  query  int  false  "Donation or purchase being edited"
// @Success      200  {object}  Response{data=[]models.SuppliesSubCategory}
// @Router       /suppliessubcategories/stock [get]
func (h *Handler) SubCategoryStockHandler(w http.ResponseWriter, r *http.Request) {
	var f db.StockFilter
	for key, dst := range map[string]*int{
		"excludeAid":      &f.ExcludeAidID,
		"excludeSupplies": &f.ExcludeSuppliesID,
		"categoryId":      &f.CategoryID,
	} {
		v := r.URL.Query().Get(key)
		if v == "" {
			continue
		}
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			writeError(w, http.StatusBadRequest, MsgInvalidInput)
			return
		}
		*dst = n
	}
	subs, err := h.Store.ListSubCategories(r.Context(), f)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeList(w, subs, len(subs))
}

// CreateSubCategoryHandler creates a subcategory with its registered stock.
// @Summary      Create subcategory
// @Tags         categories
// @Accept       json
// @Produce      json
// @Param        subcategory  body  models.SuppliesSubCategoryInput  true  "Subcategory"
// @Success      201  {object}  Response{data=models.SuppliesSubCategory}
// @Router       /suppliessubcategories [post]
func (h *Handler) CreateSubCategoryHandler(w http.ResponseWriter, r *http.Request) {
	var in models.SuppliesSubCategoryInput
	if err := decodeJSON(w, r, &in); err != nil {
		handleError(w, r, err)
		return
	}
	if err := in.Validate(); err != nil {
		handleError(w, r, err)
		return
	}
	sub := subCategoryFromInput(in)
	if err := h.Store.CreateSubCategory(r.Context(), sub); err != nil {
		handleError(w, r, err)
		return
	}
	if created, err := h.Store.GetSubCategory(r.Context(), sub.ID); err == nil {
		sub = created
	}
	writeJSON(w, http.StatusCreated, sub)
}

// UpdateSubCategoryHandler updates a subcategory. The quantity cannot drop
// below what recorded items already use.
// @Summary      Update subcategory
// @Tags         categories
// @Accept       json
// @Produce      json
// @Param        id           path  int                              true  "Subcategory ID"
// @Param        subcategory  body  models.SuppliesSubCategoryInput  true  "Subcategory"
// @Success      200  {object}  Response{data=models.SuppliesSubCategory}
// @Failure      400  {object}  Response{error=string}
// @Router       /suppliessubcategories/{id} [put]
func (h *Handler) UpdateSubCategoryHandler(w http.ResponseWriter, r *http.Request) {
	id, err := urlID(r)
	if err != nil {
		handleError(w, r, err)
		return
	}
	var in models.SuppliesSubCategoryInput
	if err := decodeJSON(w, r, &in); err != nil {
		handleError(w, r, err)
		return
	}
	if err := in.Validate(); err != nil {
		handleError(w, r, err)
		return
	}
	sub := subCategoryFromInput(in)
	sub.ID = id
	if err := h.Store.UpdateSubCategory(r.Context(), sub); err != nil {
		handleError(w, r, err)
		return
	}
	updated, err := h.Store.GetSubCategory(r.Context(), id)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

// DeleteSubCategoryHandler deletes a subcategory no item references.
// @Summary      Delete subcategory
// @Tags         categories
// @Param        id   path  int  true  "Subcategory ID"
// @Success      204
// @Failure      409  {object}  Response{error=string}
// @Router       /suppliessubcategories/{id} [delete]
func (h *Handler) DeleteSubCategoryHandler(w http.ResponseWriter, r *http.Request) {
	id, err := urlID(r)
	if err != nil {
		handleError(w, r, err)
		return
	}
	if err := h.Store.DeleteSubCategory(r.Context(), id); err != nil {
		handleError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func subCategoryFromInput(in models.SuppliesSubCategoryInput) *models.SuppliesSubCategory {
	return &models.SuppliesSubCategory{
		Name:       in.Name,
		UnitPrice:  in.UnitPrice,
		CategoryID: in.CategoryID,
		Quantity:   in.Quantity,
	}
}
