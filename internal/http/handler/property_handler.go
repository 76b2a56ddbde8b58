package handler

import (
	"encoding/json"
	"net/http"

	"github.com/durar-app/rental-api/internal/domain"
	"github.com/durar-app/rental-api/internal/service"
	"go.uber.org/zap"
)

// PropertyHandler handles HTTP requests for properties
type PropertyHandler struct {
	propertyService *service.PropertyService
	logger          *zap.Logger
}

// NewPropertyHandler creates a new PropertyHandler instance
func NewPropertyHandler(propertyService *service.PropertyService, logger *zap.Logger) *PropertyHandler {
	return &PropertyHandler{
		propertyService: propertyService,
		logger:          logger,
	}
}

// Create handles POST /properties
func (h *PropertyHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req domain.CreatePropertyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := validate.Struct(&req); err != nil {
		respondValidationError(w, err)
		return
	}

	property, err := h.propertyService.Create(r.Context(), &req)
	if err != nil {
		h.logger.Error("failed to create property", zap.Error(err))
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, property)
}

// Get handles GET /properties/{id}
func (h *PropertyHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "id")
	if err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	property, err := h.propertyService.GetByID(r.Context(), id)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, property)
}

// List handles GET /properties
func (h *PropertyHandler) List(w http.ResponseWriter, r *http.Request) {
	properties, err := h.propertyService.List(r.Context())
	if err != nil {
		h.logger.Error("failed to list properties", zap.Error(err))
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, properties)
}
