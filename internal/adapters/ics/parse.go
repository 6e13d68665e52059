package ics

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	ical "github.com/arran4/golang-ical"
	"go.uber.org/zap"
)

// Entry is one VEVENT reduced to what the tracker needs: a title and the
// dates it happens on.
type Entry struct {
	UID      string
	Summary  string
	Start    time.Time
	AllDay   bool
	RawRRule string
	ExDates  []time.Time

	// Recurrence is set on a VEVENT that overrides one instance of a series.
	Recurrence *time.Time
}

// Parse reads an iCalendar stream. Date-only and floating values are read in loc.
// VEVENTs without DTSTART are skipped and logged.
// PRE: r yields an iCalendar document; loc is non-nil
// POST: Returns one Entry per usable VEVENT in document order
func Parse(r io.Reader, loc *time.Location) ([]Entry, error) {
	cal, err := ical.ParseCalendar(r)
	if err != nil {
		return nil, fmt.Errorf("parse calendar: %w", err)
	}

	entries := make([]Entry, 0)
	for _, ve := range cal.Events() {
		e, err := parseVEvent(ve, loc)
		if err != nil {
			zap.L().Warn("ics_vevent_skipped", zap.String("uid", e.UID), zap.Error(err))
			continue
		}
		entries = append(entries, e)
	}
	return entries, nil
}

func parseVEvent(ve *ical.VEvent, loc *time.Location) (Entry, error) {
	var out Entry
	if p := ve.GetProperty(ical.ComponentPropertyUniqueId); p != nil {
		out.UID = p.Value
	}
	if p := ve.GetProperty(ical.ComponentPropertySummary); p != nil {
		out.Summary = strings.TrimSpace(p.Value)
	}

	dtStart := ve.GetProperty(ical.ComponentPropertyDtStart)
	if dtStart == nil || dtStart.Value == "" {
		return out, errors.New("missing DTSTART")
	}
	if vs, ok := dtStart.ICalParameters["VALUE"]; ok && len(vs) > 0 && strings.EqualFold(vs[0], "DATE") {
		out.AllDay = true
	}
	if !strings.Contains(dtStart.Value, "T") {
		out.AllDay = true
	}

	if out.AllDay {
		t, err := time.ParseInLocation("20060102", strings.TrimSpace(dtStart.Value), loc)
		if err != nil {
			return out, fmt.Errorf("DTSTART: %w", err)
		}
		out.Start = t
	} else {
		t, err := ve.GetStartAt()
		if err != nil {
			return out, fmt.Errorf("DTSTART: %w", err)
		}
		out.Start = t
	}

	if p := ve.GetProperty(ical.ComponentPropertyRrule); p != nil {
		out.RawRRule = p.Value
	}

	for _, p := range ve.GetProperties(ical.ComponentPropertyExdate) {
		for _, part := range strings.Split(p.Value, ",") {
			if t, err := parseTime(part, loc); err == nil {
				out.ExDates = append(out.ExDates, t)
			}
		}
	}

	if p := ve.GetProperty(ical.ComponentProperty("RECURRENCE-ID")); p != nil {
		if t, err := parseTime(p.Value, loc); err == nil {
			out.Recurrence = &t
		}
	}
	return out, nil
}

// parseTime reads the basic DATE, DATE-TIME and UTC forms used by EXDATE and
// RECURRENCE-ID.
func parseTime(v string, loc *time.Location) (time.Time, error) {
	v = strings.TrimSpace(v)
	switch {
	case v == "":
		return time.Time{}, errors.New("empty time value")
	case strings.HasSuffix(v, "Z"):
		return time.Parse("20060102T150405Z", v)
	case strings.Contains(v, "T"):
		return time.ParseInLocation("20060102T150405", v, loc)
	}
	return time.ParseInLocation("20060102", v, loc)
}
