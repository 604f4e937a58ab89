package category

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"cashbook/internal/auth"
	"cashbook/internal/transport"
	"cashbook/pkg/logger"

	"github.com/go-chi/chi"
)

type ServiceAPI interface {
	ListByType(userID, categoryType string) ([]Category, error)
	ListAll(userID string) ([]Category, error)
	Create(userID string, dto CreateCategoryDTO) (*Category, error)
	Update(userID, categoryID string, dto UpdateCategoryDTO) (*Category, error)
	Delete(userID, categoryID string) error
}

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
}

func NewHandler(service ServiceAPI) *Handler {
	lg := logger.LoggerWrapper()
	if lg == nil {
		lg = slog.Default()
	}
	return &Handler{
		BaseHandler: transport.NewBaseHandler(lg),
		Service:     service,
	}
}

func (h *Handler) GetCategories(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok || user == nil {
		h.WriteError(w, http.StatusUnauthorized, "not logged in")
		return
	}

	categoryType := r.URL.Query().Get("type")

	var categories []Category
	var err error
	if categoryType != "" {
		categories, err = h.Service.ListByType(user.ID, categoryType)
	} else {
		categories, err = h.Service.ListAll(user.ID)
	}
	if err != nil {
		h.Logger.Error("GetCategories: service error", "error", err, "user_id", user.ID)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, CategoriesResponse{Success: true, Categories: categories})
}

func (h *Handler) CreateCategory(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok || user == nil {
		h.WriteError(w, http.StatusUnauthorized, "not logged in")
		return
	}

	var dto CreateCategoryDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.Logger.Error("CreateCategory: invalid request body", "error", err)
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	cat, err := h.Service.Create(user.ID, dto)
	if err != nil {
		h.Logger.Error("CreateCategory: service error", "error", err, "user_id", user.ID)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusCreated, CategoryResponse{Success: true, Category: *cat})
}

func (h *Handler) UpdateCategory(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok || user == nil {
		h.WriteError(w, http.StatusUnauthorized, "not logged in")
		return
	}

	categoryID := chi.URLParam(r, "id")

	var dto UpdateCategoryDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.Logger.Error("UpdateCategory: invalid request body", "error", err)
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	cat, err := h.Service.Update(user.ID, categoryID, dto)
	if err != nil {
		h.Logger.Error("UpdateCategory: service error", "error", err, "category_id", categoryID)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, CategoryResponse{Success: true, Category: *cat})
}

func (h *Handler) DeleteCategory(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok || user == nil {
		h.WriteError(w, http.StatusUnauthorized, "not logged in")
		return
	}

	categoryID := chi.URLParam(r, "id")

	if err := h.Service.Delete(user.ID, categoryID); err != nil {
		h.Logger.Error("DeleteCategory: service error", "error", err, "category_id", categoryID)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]interface{}{"success": true})
}
