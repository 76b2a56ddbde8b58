package handler

import (
	"encoding/json"
	"net/http"

	"github.com/durar-app/rental-api/internal/domain"
	"github.com/durar-app/rental-api/internal/service"
	"go.uber.org/zap"
)

// UnitHandler handles HTTP requests for units
type UnitHandler struct {
	unitService   *service.UnitService
	importService *service.ImportService
	logger        *zap.Logger
}

// NewUnitHandler creates a new UnitHandler instance
func NewUnitHandler(unitService *service.UnitService, importService *service.ImportService, logger *zap.Logger) *UnitHandler {
	return &UnitHandler{
		unitService:   unitService,
		importService: importService,
		logger:        logger,
	}
}

// Create handles POST /units
func (h *UnitHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateUnitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := validate.Struct(&req); err != nil {
		respondValidationError(w, err)
		return
	}

	unit, err := h.unitService.Create(r.Context(), &req)
	if err != nil {
		h.logger.Error("failed to create unit", zap.Error(err))
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, unit)
}

// Get handles GET /units/{id}
func (h *UnitHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "id")
	if err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	unit, err := h.unitService.GetByID(r.Context(), id)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, unit)
}

// Update handles PUT /units/{id}
func (h *UnitHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "id")
	if err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	var req domain.UpdateUnitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	unit, err := h.unitService.Update(r.Context(), id, &req)
	if err != nil {
		h.logger.Error("failed to update unit", zap.Uint("unit_id", id), zap.Error(err))
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, unit)
}

// ImportCsv handles POST /units/import-csv
func (h *UnitHandler) ImportCsv(w http.ResponseWriter, r *http.Request) {
	text, ok := readCsvUpload(w, r)
	if !ok {
		return
	}

	result, err := h.importService.ImportUnitsCsv(r.Context(), text)
	if err != nil {
		h.logger.Error("unit csv import failed", zap.Error(err))
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, result)
}
