package handler

import (
	"encoding/json"
	"io"
	"net/http"
	"strconv"

	"github.com/durar-app/rental-api/internal/domain"
	"github.com/durar-app/rental-api/internal/service"
	"go.uber.org/zap"
)

// maxImportSize bounds an uploaded CSV file (10 MB)
const maxImportSize = 10 << 20

// ContractHandler handles HTTP requests for the contract lifecycle
type ContractHandler struct {
	contractService *service.ContractService
	invoiceService  *service.InvoiceService
	importService   *service.ImportService
	logger          *zap.Logger
}

// NewContractHandler creates a new ContractHandler instance
func NewContractHandler(
	contractService *service.ContractService,
	invoiceService *service.InvoiceService,
	importService *service.ImportService,
	logger *zap.Logger,
) *ContractHandler {
	return &ContractHandler{
		contractService: contractService,
		invoiceService:  invoiceService,
		importService:   importService,
		logger:          logger,
	}
}

// Create handles POST /contracts
func (h *ContractHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateContractRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := validate.Struct(&req); err != nil {
		respondValidationError(w, err)
		return
	}

	resp, err := h.contractService.Create(r.Context(), &req)
	if err != nil {
		h.logger.Error("failed to create contract", zap.Error(err))
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, resp)
}

// Get handles GET /contracts/{id}
func (h *ContractHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "id")
	if err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	contract, err := h.contractService.GetByID(r.Context(), id)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, contract)
}

// Update handles PUT /contracts/{id}
func (h *ContractHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "id")
	if err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	var req domain.UpdateContractRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	contract, err := h.contractService.Update(r.Context(), id, &req)
	if err != nil {
		h.logger.Error("failed to update contract", zap.Uint("contract_id", id), zap.Error(err))
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, contract)
}

// Delete handles DELETE /contracts/{id}
func (h *ContractHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "id")
	if err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.contractService.Delete(r.Context(), id); err != nil {
		h.logger.Error("failed to delete contract", zap.Uint("contract_id", id), zap.Error(err))
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusNoContent, nil)
}

// End handles POST /contracts/{id}/end. RefundDeposit defaults to true.
func (h *ContractHandler) End(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "id")
	if err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	refundDeposit := true
	if r.Body != nil && r.ContentLength != 0 {
		var req domain.EndContractRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respondWithError(w, http.StatusBadRequest, "Invalid request body")
			return
		}
		if req.RefundDeposit != nil {
			refundDeposit = *req.RefundDeposit
		}
	}

	resp, err := h.contractService.End(r.Context(), id, refundDeposit)
	if err != nil {
		h.logger.Error("failed to end contract", zap.Uint("contract_id", id), zap.Error(err))
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, resp)
}

// Renew handles POST /contracts/{id}/renew
func (h *ContractHandler) Renew(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "id")
	if err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	var req domain.RenewContractRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := validate.Struct(&req); err != nil {
		respondValidationError(w, err)
		return
	}

	contract, err := h.contractService.Renew(r.Context(), id, &req)
	if err != nil {
		h.logger.Error("failed to renew contract", zap.Uint("contract_id", id), zap.Error(err))
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, contract)
}

// ListInvoices handles GET /contracts/{id}/invoices
func (h *ContractHandler) ListInvoices(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "id")
	if err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}
	if _, err := h.contractService.GetByID(r.Context(), id); err != nil {
		respondServiceError(w, err)
		return
	}

	invoices, err := h.invoiceService.ListByContract(r.Context(), id)
	if err != nil {
		h.logger.Error("failed to list contract invoices", zap.Uint("contract_id", id), zap.Error(err))
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, invoices)
}

// ImportCsv handles POST /contracts/import-csv. The sheet is sent as the
// multipart "file" field; an optional propertyId query scopes unit lookups.
func (h *ContractHandler) ImportCsv(w http.ResponseWriter, r *http.Request) {
	text, ok := readCsvUpload(w, r)
	if !ok {
		return
	}

	var propertyID *uint
	if raw := r.URL.Query().Get("propertyId"); raw != "" {
		pid, err := strconv.ParseUint(raw, 10, 32)
		if err != nil || pid == 0 {
			respondWithError(w, http.StatusBadRequest, "Invalid propertyId")
			return
		}
		p := uint(pid)
		propertyID = &p
	}

	result, err := h.importService.ImportContractsCsv(r.Context(), text, propertyID)
	if err != nil {
		h.logger.Error("contract csv import failed", zap.Error(err))
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, result)
}

// readCsvUpload extracts the uploaded CSV text from the multipart "file"
// field. On failure it writes the error response and returns ok=false.
func readCsvUpload(w http.ResponseWriter, r *http.Request) (string, bool) {
	if err := r.ParseMultipartForm(maxImportSize); err != nil {
		respondWithError(w, http.StatusBadRequest, "Expected a multipart upload with a 'file' field")
		return "", false
	}
	file, _, err := r.FormFile("file")
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Missing 'file' field")
		return "", false
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, maxImportSize))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Failed to read uploaded file")
		return "", false
	}
	return string(data), true
}
