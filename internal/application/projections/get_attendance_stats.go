package projections

import (
	"context"
	"fmt"
	"strings"
	"time"

	"artcor/internal/adapters/storage/member"
	"artcor/internal/domain/attendance"
	"artcor/internal/domain/calendar"
)

// GetAttendanceStatsQuery carries input for the statistics projection.
type GetAttendanceStatsQuery struct {
	Filter attendance.Filter
	Now    time.Time
	Locale calendar.Locale
}

// GetAttendanceStatsDeps holds dependencies for the statistics projection.
type GetAttendanceStatsDeps struct {
	MemberStore MemberStore
	EventStore  EventStore
}

// AttendanceStatsResult carries one row per member plus empty-state flags.
type AttendanceStatsResult struct {
	Filter      attendance.Kind `json:"filter"`
	WindowTotal int             `json:"window_total"`
	NoMembers   bool            `json:"no_members"`
	NoEvents    bool            `json:"no_events"`
	Rows        []StatsRow      `json:"rows"`
}

// StatsRow is one member's attendance line.
type StatsRow struct {
	MemberID   int             `json:"member_id"`
	Name       string          `json:"name"`
	Role       string          `json:"role"`
	Attended   int             `json:"attended"`
	Total      int             `json:"total"`
	Percentage int             `json:"percentage"`
	Band       attendance.Band `json:"band"`
	Details    string          `json:"details"`
}

// QueryGetAttendanceStats computes attendance for every member in roster order.
// NoEvents reports an empty store, not an empty window.
// PRE: query.Filter is valid
// POST: len(Rows) equals the roster size
func QueryGetAttendanceStats(ctx context.Context, query GetAttendanceStatsQuery, deps GetAttendanceStatsDeps) (AttendanceStatsResult, error) {
	if err := query.Filter.Validate(); err != nil {
		return AttendanceStatsResult{}, err
	}

	members, err := deps.MemberStore.List(ctx, member.ListFilter{})
	if err != nil {
		return AttendanceStatsResult{}, err
	}
	events, err := deps.EventStore.All(ctx)
	if err != nil {
		return AttendanceStatsResult{}, err
	}

	stats := attendance.Compute(members, events, query.Filter, query.Now)
	result := AttendanceStatsResult{
		Filter:      query.Filter.Kind,
		WindowTotal: attendance.WindowSize(events, query.Filter, query.Now),
		NoMembers:   len(members) == 0,
		NoEvents:    len(events) == 0,
		Rows:        make([]StatsRow, 0, len(members)),
	}

	for _, m := range members {
		s := stats[m.ID]
		result.Rows = append(result.Rows, StatsRow{
			MemberID:   m.ID,
			Name:       m.Name,
			Role:       m.Role,
			Attended:   s.Attended,
			Total:      s.Total,
			Percentage: s.Percentage,
			Band:       s.Band(),
			Details:    statsDetails(query.Locale, query.Filter, s),
		})
	}
	return result, nil
}

// statsDetails renders the sentence under a member's percentage,
// e.g. "Asistió a 2 de 3 eventos en el último año".
func statsDetails(l calendar.Locale, f attendance.Filter, s attendance.Stats) string {
	period := periodPhrase(l, f)
	if l == calendar.LocaleEN {
		if s.Total == 0 {
			return "No events " + period
		}
		return fmt.Sprintf("Attended %d of %d events %s", s.Attended, s.Total, period)
	}
	if s.Total == 0 {
		return "No hay eventos " + period
	}
	return fmt.Sprintf("Asistió a %d de %d eventos %s", s.Attended, s.Total, period)
}

func periodPhrase(l calendar.Locale, f attendance.Filter) string {
	en := l == calendar.LocaleEN
	switch f.Kind {
	case attendance.KindLastYear:
		if en {
			return "in the last year"
		}
		return "en el último año"
	case attendance.KindLastMonth:
		if en {
			return "in the last month"
		}
		return "en el último mes"
	case attendance.KindYear:
		if en {
			return fmt.Sprintf("in %d", f.Year)
		}
		return fmt.Sprintf("en %d", f.Year)
	case attendance.KindYearMonth:
		if en {
			return fmt.Sprintf("in %s %d", l.MonthLabel(f.Month), f.Year)
		}
		return fmt.Sprintf("en %s de %d", strings.ToLower(l.MonthLabel(f.Month)), f.Year)
	}
	if en {
		return "in total"
	}
	return "totales"
}
