package web

import (
	"net/http"
	"strings"
	"time"

	"artcor/internal/domain/attendance"
	"artcor/internal/domain/event"
)

type statsQuery struct {
	Filter string `validate:"omitempty,oneof=all year month in-year in-month"`
	Year   int    `validate:"gte=0"`
	Month  int    `validate:"gte=0,lte=12"`
}

type importRequest struct {
	ICS  string `json:"ics" validate:"required"`
	From string `json:"from" validate:"required,datetime=2006-01-02"`
	To   string `json:"to" validate:"required,datetime=2006-01-02"`
}

type importResponse struct {
	Created  int   `json:"created"`
	Skipped  int   `json:"skipped"`
	Rejected int   `json:"rejected"`
	EventIDs []int `json:"event_ids"`
}

func (s *Server) handleTree(w http.ResponseWriter, r *http.Request) {
	tree, err := s.tracker.Tree(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, tree)
}

// handleStats serves GET /api/stats?filter=all|year|month|in-year|in-month&year=&month=.
func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
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
	sq := statsQuery{Filter: q.Get("filter"), Year: year, Month: month}
	if err := s.check(sq); err != nil {
		writeError(w, r, err)
		return
	}

	filter, err := attendance.ParseFilter(sq.Filter, sq.Year, sq.Month)
	if err != nil {
		writeError(w, r, err)
		return
	}
	result, err := s.tracker.Stats(r.Context(), filter)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// handleImportICS creates attendee-less events from an iCalendar document
// for every occurrence between from and to, both inclusive.
func (s *Server) handleImportICS(w http.ResponseWriter, r *http.Request) {
	var req importRequest
	if err := s.decodeAndValidate(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	from, err := event.ParseDate(req.From)
	if err != nil {
		writeError(w, r, err)
		return
	}
	to, err := event.ParseDate(req.To)
	if err != nil {
		writeError(w, r, err)
		return
	}

	end := to.Time().AddDate(0, 0, 1).Add(-time.Nanosecond)
	res, err := s.tracker.ImportCalendar(r.Context(), strings.NewReader(req.ICS), from.Time(), end)
	if err != nil {
		writeError(w, r, err)
		return
	}

	ids := make([]int, len(res.Created))
	for i, e := range res.Created {
		ids[i] = e.ID
	}
	writeJSON(w, http.StatusOK, importResponse{
		Created:  len(res.Created),
		Skipped:  res.Skipped,
		Rejected: res.Rejected,
		EventIDs: ids,
	})
}
