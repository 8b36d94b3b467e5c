package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/dnrdl12/remit/internal/adapter/http/dto"
	"github.com/dnrdl12/remit/internal/usecase"
)

// FeePolicyHandler serves the fee policy catalog.
type FeePolicyHandler struct {
	feePolicyRepo usecase.FeePolicyRepository
}

// NewFeePolicyHandler creates a new FeePolicyHandler.
func NewFeePolicyHandler(feePolicyRepo usecase.FeePolicyRepository) *FeePolicyHandler {
	return &FeePolicyHandler{feePolicyRepo: feePolicyRepo}
}

// List returns all fee policies.
func (h *FeePolicyHandler) List(w http.ResponseWriter, r *http.Request) {
	policies, err := h.feePolicyRepo.List(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list fee policies", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.FeePoliciesFromDomain(policies))
}

// Get returns one fee policy.
func (h *FeePolicyHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid fee policy ID", err.Error())
		return
	}

	policy, err := h.feePolicyRepo.GetByID(r.Context(), id)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to get fee policy", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.FeePolicyFromDomain(policy))
}
