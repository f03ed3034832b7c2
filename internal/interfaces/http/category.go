package http

import (
	"net/http"

	"household/internal/domain/category"
)

type CategoryHandler struct {
	service *category.Service
}

func NewCategoryHandler(service *category.Service) *CategoryHandler {
	return &CategoryHandler{service: service}
}

type CreateCategoryRequest struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

type UpdateCategoryRequest struct {
	Name *string `json:"name,omitempty"`
	Type *string `json:"type,omitempty"`
}

// HandleListCategories lists the user's categories, optionally of one ?type.
func (h *CategoryHandler) HandleListCategories(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	typ := category.Type(r.URL.Query().Get("type"))
	if typ != "" && !typ.Valid() {
		http.Error(w, category.ErrInvalidType.Error(), http.StatusBadRequest)
		return
	}

	categories, err := h.service.List(r.Context(), userID, typ)
	if err != nil {
		writeError(w, "list categories", err, "user_id", userID)
		return
	}
	if categories == nil {
		categories = []*category.Category{}
	}

	writeJSON(w, http.StatusOK, categories)
}

func (h *CategoryHandler) HandleCreateCategory(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	var req CreateCategoryRequest
	if !decodeBody(w, r, &req) {
		return
	}

	c, err := h.service.Create(r.Context(), userID, category.CreateCategoryParams{
		Name: req.Name,
		Type: category.Type(req.Type),
	})
	if err != nil {
		writeError(w, "create category", err, "user_id", userID)
		return
	}

	writeJSON(w, http.StatusCreated, c)
}

func (h *CategoryHandler) HandleGetCategory(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	id := r.PathValue("id")
	c, err := h.service.Get(r.Context(), id, userID)
	if err != nil {
		writeError(w, "get category", err, "category_id", id)
		return
	}

	writeJSON(w, http.StatusOK, c)
}

func (h *CategoryHandler) HandleUpdateCategory(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	var req UpdateCategoryRequest
	if !decodeBody(w, r, &req) {
		return
	}

	params := category.UpdateCategoryParams{Name: req.Name}
	if req.Type != nil {
		typ := category.Type(*req.Type)
		params.Type = &typ
	}

	id := r.PathValue("id")
	c, err := h.service.Update(r.Context(), id, userID, params)
	if err != nil {
		writeError(w, "update category", err, "category_id", id)
		return
	}

	writeJSON(w, http.StatusOK, c)
}

// HandleDeleteCategory refuses with 409 while transactions still reference it.
func (h *CategoryHandler) HandleDeleteCategory(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	id := r.PathValue("id")
	if err := h.service.Delete(r.Context(), id, userID); err != nil {
		writeError(w, "delete category", err, "category_id", id)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
