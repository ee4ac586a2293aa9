package handlers

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"trip-optimizer-service/internal/api/dto"
	"trip-optimizer-service/internal/ports"
)

// TripHandler exposes CRUD endpoints over the trip store.
type TripHandler struct {
	Repo ports.TripRepository
	Log  zerolog.Logger
}

func (h *TripHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateTripRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid json body")
		return
	}

	if err := req.Itinerary.Validate(); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	created, err := h.Repo.Create(r.Context(), req.Itinerary)
	if err != nil {
		h.Log.Error().Err(err).Msg("create trip failed")
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	writeJSON(w, r, http.StatusCreated, dto.TripResponse{Trip: created})
}

func (h *TripHandler) List(w http.ResponseWriter, r *http.Request) {
	trips, err := h.Repo.List(r.Context())
	if err != nil {
		h.Log.Error().Err(err).Msg("list trips failed")
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	writeJSON(w, r, http.StatusOK, dto.ListTripsResponse{Trips: trips})
}

func (h *TripHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "tripID")

	trip, err := h.Repo.Get(r.Context(), id)
	if errors.Is(err, ports.ErrTripNotFound) {
		writeError(w, r, http.StatusNotFound, "trip not found")
		return
	}
	if err != nil {
		h.Log.Error().Err(err).Str("trip_id", id).Msg("get trip failed")
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	writeJSON(w, r, http.StatusOK, dto.TripResponse{Trip: trip})
}

func (h *TripHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "tripID")

	var req dto.UpdateTripRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid json body")
		return
	}

	itin := req.Itinerary
	itin.ID = id
	if err := itin.Validate(); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	err := h.Repo.Update(r.Context(), itin)
	if errors.Is(err, ports.ErrTripNotFound) {
		writeError(w, r, http.StatusNotFound, "trip not found")
		return
	}
	if err != nil {
		h.Log.Error().Err(err).Str("trip_id", id).Msg("update trip failed")
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	writeJSON(w, r, http.StatusOK, dto.TripResponse{Trip: itin})
}

func (h *TripHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "tripID")

	err := h.Repo.Delete(r.Context(), id)
	if errors.Is(err, ports.ErrTripNotFound) {
		writeError(w, r, http.StatusNotFound, "trip not found")
		return
	}
	if err != nil {
		h.Log.Error().Err(err).Str("trip_id", id).Msg("delete trip failed")
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
