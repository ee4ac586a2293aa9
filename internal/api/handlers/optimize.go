package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"trip-optimizer-service/internal/api/dto"
	"trip-optimizer-service/internal/domain"
	"trip-optimizer-service/internal/ports"
	"trip-optimizer-service/internal/services"
)

// OptimizeHandler exposes the optimization engine: a per-trip endpoint that
// loads and persists through the store, a stateless endpoint for callers who
// own storage, and batch adaptation application.
type OptimizeHandler struct {
	Repo      ports.TripRepository
	Optimizer *services.Optimizer
	Applier   *services.AdaptationApplier
	Log       zerolog.Logger
}

// OptimizeTrip loads the stored itinerary, runs the engine, persists the
// optimized itinerary, and returns the consolidated result.
func (h *OptimizeHandler) OptimizeTrip(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "tripID")

	var req dto.OptimizeRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid json body")
		return
	}

	itin, err := h.Repo.Get(r.Context(), id)
	if errors.Is(err, ports.ErrTripNotFound) {
		writeError(w, r, http.StatusNotFound, "trip not found")
		return
	}
	if err != nil {
		h.Log.Error().Err(err).Str("trip_id", id).Msg("load trip for optimization failed")
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	result, err := h.Optimizer.Optimize(r.Context(), itin, req.Factors, req.Options)
	if errors.Is(err, domain.ErrInvalidItinerary) {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	if err != nil {
		h.Log.Error().Err(err).Str("trip_id", id).Msg("optimization failed")
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	if err := h.Repo.Update(r.Context(), result.Itinerary); err != nil {
		h.Log.Error().Err(err).Str("trip_id", id).Msg("persist optimized trip failed")
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	writeJSON(w, r, http.StatusOK, dto.OptimizeResponse{Result: result})
}

// Optimize runs the engine on a caller-supplied itinerary without touching
// the store.
func (h *OptimizeHandler) Optimize(w http.ResponseWriter, r *http.Request) {
	var req dto.OptimizeRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid json body")
		return
	}
	if req.Itinerary == nil {
		writeError(w, r, http.StatusBadRequest, "itinerary is required")
		return
	}

	result, err := h.Optimizer.Optimize(r.Context(), *req.Itinerary, req.Factors, req.Options)
	if errors.Is(err, domain.ErrInvalidItinerary) {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	if err != nil {
		h.Log.Error().Err(err).Msg("optimization failed")
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	writeJSON(w, r, http.StatusOK, dto.OptimizeResponse{Result: result})
}

// ApplyAdaptations applies a batch of adaptations to a caller-supplied
// itinerary. Partial mismatches are reported as skipped, never as failures.
func (h *OptimizeHandler) ApplyAdaptations(w http.ResponseWriter, r *http.Request) {
	var req dto.ApplyAdaptationsRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid json body")
		return
	}
	if req.Itinerary == nil {
		writeError(w, r, http.StatusBadRequest, "itinerary is required")
		return
	}
	if len(req.Adaptations) == 0 {
		writeError(w, r, http.StatusBadRequest, "adaptations are required")
		return
	}
	for _, ad := range req.Adaptations {
		if strings.TrimSpace(ad.ID) == "" {
			writeError(w, r, http.StatusBadRequest, "adaptation id is required")
			return
		}
	}

	selected := map[string]bool{}
	for _, id := range req.AdaptationIDs {
		selected[id] = true
	}

	current := *req.Itinerary
	res := dto.ApplyAdaptationsResponse{
		AppliedIDs: []string{},
		SkippedIDs: []string{},
	}

	for i := range req.Adaptations {
		ad := &req.Adaptations[i]
		if len(selected) > 0 && !selected[ad.ID] {
			continue
		}

		next, changed := h.Applier.Apply(current, ad)
		if changed {
			current = next
			res.AppliedIDs = append(res.AppliedIDs, ad.ID)
		} else {
			res.SkippedIDs = append(res.SkippedIDs, ad.ID)
		}
	}

	res.Itinerary = current
	res.Adaptations = req.Adaptations
	writeJSON(w, r, http.StatusOK, res)
}
