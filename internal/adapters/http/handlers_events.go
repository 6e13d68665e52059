package web

import (
	"net/http"
	"time"

	"artcor/internal/domain/failure"
)

type eventRequest struct {
	Name      string `json:"name" validate:"max=200"`
	Date      string `json:"date" validate:"required,datetime=2006-01-02"`
	Attendees []int  `json:"attendees" validate:"dive,gt=0"`
}

// handleListEvents serves GET /api/events?year=&month= as event cards, newest first.
func (s *Server) handleListEvents(w http.ResponseWriter, r *http.Request) {
	year, err := queryInt(r, "year")
	if err != nil {
		writeError(w, r, err)
		return
	}
	month, err := queryInt(r, "month")
	if err != nil {
		writeError(w, r, err)
		return
	}
	if month != 0 && (year == 0 || month < 1 || month > 12) {
		writeError(w, r, failure.Invalid("month", "must be 1-12 and requires year"))
		return
	}

	views, err := s.tracker.EventList(r.Context(), year, time.Month(month))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, views)
}

func (s *Server) handleEventYears(w http.ResponseWriter, r *http.Request) {
	years, err := s.tracker.UniqueYears(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, years)
}

func (s *Server) handleAddEvent(w http.ResponseWriter, r *http.Request) {
	var req eventRequest
	if err := s.decodeAndValidate(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	e, err := s.tracker.AddEvent(r.Context(), req.Name, req.Date, req.Attendees)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, e)
}

func (s *Server) handleGetEvent(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	e, err := s.tracker.GetEvent(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, e)
}

// handleUpdateEvent replaces the whole event, attendee set included.
func (s *Server) handleUpdateEvent(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	var req eventRequest
	if err := s.decodeAndValidate(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	e, err := s.tracker.UpdateEvent(r.Context(), id, req.Name, req.Date, req.Attendees)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, e)
}

func (s *Server) handleDeleteEvent(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := s.tracker.DeleteEvent(r.Context(), id); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
