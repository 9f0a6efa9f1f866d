package api

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/voluntarios/foodbank/internal/matching"
	"github.com/voluntarios/foodbank/internal/middleware"
	"github.com/voluntarios/foodbank/internal/roster"
)

// MatchHandlers holds dependencies for matching HTTP handlers.
type MatchHandlers struct {
	engine *matching.Engine
	store  roster.Store
}

// NewMatchHandlers creates a new MatchHandlers instance.
func NewMatchHandlers(engine *matching.Engine, store roster.Store) *MatchHandlers {
	return &MatchHandlers{
		engine: engine,
		store:  store,
	}
}

// MatchVolunteersForEvent handles GET /events/{id}/matches.
// Returns the ranked volunteer candidates for the event.
func (h *MatchHandlers) MatchVolunteersForEvent(w http.ResponseWriter, r *http.Request) {
	eventID := r.PathValue("id")

	event, err := h.store.GetEvent(r.Context(), eventID)
	if errors.Is(err, roster.ErrEventNotFound) {
		ctx := middleware.SetErrorCode(r.Context(), ErrCodeNotFound)
		WriteError(w, ctx, http.StatusNotFound, ErrCodeNotFound, "Event not found")
		return
	}
	if err != nil {
		ctx := middleware.SetErrorCode(r.Context(), ErrCodeInternal)
		WriteError(w, ctx, http.StatusInternalServerError, ErrCodeInternal, "The request failed")
		return
	}

	results, err := h.engine.MatchVolunteersForEvent(r.Context(), event)
	if err != nil {
		slog.ErrorContext(r.Context(), "event match query failed",
			slog.String("event_id", eventID),
			slog.String("error", err.Error()))
		ctx := middleware.SetErrorCode(r.Context(), ErrCodeInternal)
		WriteError(w, ctx, http.StatusInternalServerError, ErrCodeInternal, "The request failed")
		return
	}

	WriteJSON(w, r.Context(), http.StatusOK, results)
}

// MatchEventsForVolunteer handles GET /volunteers/{id}/matches.
// Optional query parameters: location (substring filter), and lat, lng,
// radius_km for a radius filter (applied only alongside location).
func (h *MatchHandlers) MatchEventsForVolunteer(w http.ResponseWriter, r *http.Request) {
	volunteerID := r.PathValue("id")

	filters, err := parseEventFilters(r)
	if err != nil {
		ctx := middleware.SetErrorCode(r.Context(), ErrCodeValidation)
		WriteError(w, ctx, http.StatusBadRequest, ErrCodeValidation, err.Error())
		return
	}

	matches, err := h.engine.MatchEventsForVolunteer(r.Context(), volunteerID, filters)
	if errors.Is(err, roster.ErrVolunteerNotFound) {
		ctx := middleware.SetErrorCode(r.Context(), ErrCodeNotFound)
		WriteError(w, ctx, http.StatusNotFound, ErrCodeNotFound, "Volunteer not found")
		return
	}
	if err != nil {
		slog.ErrorContext(r.Context(), "volunteer match query failed",
			slog.String("volunteer_id", volunteerID),
			slog.String("error", err.Error()))
		ctx := middleware.SetErrorCode(r.Context(), ErrCodeInternal)
		WriteError(w, ctx, http.StatusInternalServerError, ErrCodeInternal, "The request failed")
		return
	}

	WriteJSON(w, r.Context(), http.StatusOK, matches)
}

// parseEventFilters extracts the optional location and radius filters from
// the query string.
func parseEventFilters(r *http.Request) (roster.EventFilters, error) {
	q := r.URL.Query()
	filters := roster.EventFilters{Location: q.Get("location")}

	for _, param := range []struct {
		name string
		dest **float64
	}{
		{"lat", &filters.Latitude},
		{"lng", &filters.Longitude},
		{"radius_km", &filters.RadiusKm},
	} {
		raw := q.Get(param.name)
		if raw == "" {
			continue
		}
		parsed, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return roster.EventFilters{}, errors.New("invalid " + param.name + " parameter")
		}
		*param.dest = &parsed
	}

	if filters.RadiusKm != nil && *filters.RadiusKm < 0 {
		return roster.EventFilters{}, errors.New("radius_km must be non-negative")
	}

	return filters, nil
}
