/*
handlers.go - HTTP API handlers for the projection engine

PURPOSE:
  Exposes the projection engine via REST API. Handles HTTP
  request/response, JSON serialization, and delegates to the factory,
  the model, and the plan store.

ENDPOINTS:
  Runs:
    POST   /api/run                Run an inline plan document

  Plans:
    GET    /api/plans              List stored plans
    PUT    /api/plans/{name}       Store or replace a plan document
    GET    /api/plans/{name}       Fetch a stored plan
    DELETE /api/plans/{name}       Delete a stored plan
    POST   /api/plans/{name}/run   Run a stored plan

REQUEST FLOW:
  1. Parse HTTP request
  2. Build the model through the factory (also validates stored uploads)
  3. Run the simulation
  4. Serialize the report

ERROR HANDLING:
  Errors are returned as JSON with appropriate HTTP status:
  - 400: Malformed or invalid plan documents
  - 404: Plan not found
  - 422: A valid plan whose simulation failed (overflow, table gaps)
  - 500: Storage errors

SEE ALSO:
  - dto.go: Response data structures
  - server.go: Router setup and middleware
*/
package api

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/warp/networth-engine/factory"
	"github.com/warp/networth-engine/store"
)

// maxPlanBytes bounds uploaded plan documents.
const maxPlanBytes = 1 << 20

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Store store.PlanStore
}

// NewHandler creates a new handler over the given plan store.
func NewHandler(planStore store.PlanStore) *Handler {
	return &Handler{Store: planStore}
}

// =============================================================================
// RUN ENDPOINTS
// =============================================================================

// RunPlan runs an inline plan document and returns the report.
// POST /api/run
func (h *Handler) RunPlan(w http.ResponseWriter, r *http.Request) {
	doc, err := io.ReadAll(io.LimitReader(r.Body, maxPlanBytes))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Failed to read plan", err)
		return
	}
	h.runDocument(w, doc)
}

// RunStoredPlan loads a stored plan and runs it.
// POST /api/plans/{name}/run
func (h *Handler) RunStoredPlan(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	plan, err := h.Store.Get(r.Context(), name)
	if errors.Is(err, store.ErrPlanNotFound) {
		writeError(w, http.StatusNotFound, "Plan not found", err)
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load plan", err)
		return
	}
	h.runDocument(w, plan.Document)
}

func (h *Handler) runDocument(w http.ResponseWriter, doc []byte) {
	model, years, err := factory.ParseDocument(doc)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid plan", err)
		return
	}
	report, err := model.Run(years)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, "Simulation failed", err)
		return
	}
	writeJSON(w, http.StatusOK, ToReportDTO(report))
}

// =============================================================================
// PLAN ENDPOINTS
// =============================================================================

// SavePlan stores or replaces a named plan document. The document is
// validated through the factory before it is accepted.
// PUT /api/plans/{name}
func (h *Handler) SavePlan(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	doc, err := io.ReadAll(io.LimitReader(r.Body, maxPlanBytes))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Failed to read plan", err)
		return
	}
	if _, _, err := factory.ParseDocument(doc); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid plan", err)
		return
	}

	if err := h.Store.Save(r.Context(), store.Plan{Name: name, Document: doc}); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save plan", err)
		return
	}
	saved, err := h.Store.Get(r.Context(), name)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load plan", err)
		return
	}
	writeJSON(w, http.StatusOK, toPlanDTO(saved, false))
}

// GetPlan returns a stored plan with its document.
// GET /api/plans/{name}
func (h *Handler) GetPlan(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	plan, err := h.Store.Get(r.Context(), name)
	if errors.Is(err, store.ErrPlanNotFound) {
		writeError(w, http.StatusNotFound, "Plan not found", err)
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load plan", err)
		return
	}
	writeJSON(w, http.StatusOK, toPlanDTO(plan, true))
}

// ListPlans returns all stored plans without their documents.
// GET /api/plans
func (h *Handler) ListPlans(w http.ResponseWriter, r *http.Request) {
	plans, err := h.Store.List(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list plans", err)
		return
	}
	dtos := make([]PlanDTO, 0, len(plans))
	for _, plan := range plans {
		dtos = append(dtos, toPlanDTO(plan, false))
	}
	writeJSON(w, http.StatusOK, dtos)
}

// DeletePlan removes a stored plan.
// DELETE /api/plans/{name}
func (h *Handler) DeletePlan(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	err := h.Store.Delete(r.Context(), name)
	if errors.Is(err, store.ErrPlanNotFound) {
		writeError(w, http.StatusNotFound, "Plan not found", err)
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to delete plan", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// =============================================================================
// RESPONSE HELPERS
// =============================================================================

func toPlanDTO(plan store.Plan, withDocument bool) PlanDTO {
	dto := PlanDTO{
		Name:      plan.Name,
		CreatedAt: plan.CreatedAt.UTC().Format("2006-01-02T15:04:05Z"),
		UpdatedAt: plan.UpdatedAt.UTC().Format("2006-01-02T15:04:05Z"),
	}
	if withDocument {
		dto.Document = json.RawMessage(plan.Document)
	}
	return dto
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		// Headers are already out; nothing sensible left to do
		return
	}
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := ErrorResponse{Error: message}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}
