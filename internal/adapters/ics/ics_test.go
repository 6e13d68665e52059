package ics

import (
	"strings"
	"testing"
	"time"

	"artcor/internal/domain/event"
)

const sampleCalendar = "BEGIN:VCALENDAR\r\n" +
	"VERSION:2.0\r\n" +
	"PRODID:-//artcor//test//ES\r\n" +
	"BEGIN:VEVENT\r\n" +
	"UID:rehearsal@artcor\r\n" +
	"SUMMARY:Ensayo\r\n" +
	"DTSTART:20240305T190000Z\r\n" +
	"RRULE:FREQ=WEEKLY;COUNT=4\r\n" +
	"EXDATE:20240312T190000Z\r\n" +
	"END:VEVENT\r\n" +
	"BEGIN:VEVENT\r\n" +
	"UID:rehearsal@artcor\r\n" +
	"RECURRENCE-ID:20240319T190000Z\r\n" +
	"SUMMARY:Ensayo general\r\n" +
	"DTSTART:20240320T190000Z\r\n" +
	"END:VEVENT\r\n" +
	"BEGIN:VEVENT\r\n" +
	"UID:concert@artcor\r\n" +
	"SUMMARY:Concierto\r\n" +
	"DTSTART;VALUE=DATE:20240406\r\n" +
	"END:VEVENT\r\n" +
	"BEGIN:VEVENT\r\n" +
	"UID:broken@artcor\r\n" +
	"SUMMARY:Sin fecha\r\n" +
	"END:VEVENT\r\n" +
	"END:VCALENDAR\r\n"

func mustDate(t *testing.T, s string) event.Date {
	t.Helper()
	d, err := event.ParseDate(s)
	if err != nil {
		t.Fatalf("ParseDate(%q): %v", s, err)
	}
	return d
}

func TestParse(t *testing.T) {
	entries, err := Parse(strings.NewReader(sampleCalendar), time.UTC)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("len(entries) = %d, want 3", len(entries))
	}

	first := entries[0]
	if first.Summary != "Ensayo" {
		t.Errorf("Summary = %q, want Ensayo", first.Summary)
	}
	if first.AllDay {
		t.Error("timed event reported as all-day")
	}
	if first.RawRRule == "" {
		t.Error("RRULE not captured")
	}
	if len(first.ExDates) != 1 {
		t.Errorf("len(ExDates) = %d, want 1", len(first.ExDates))
	}

	if entries[1].Recurrence == nil {
		t.Error("override lost its RECURRENCE-ID")
	}

	concert := entries[2]
	if !concert.AllDay {
		t.Error("VALUE=DATE event not reported as all-day")
	}
	if got := event.DateOf(concert.Start); got != mustDate(t, "2024-04-06") {
		t.Errorf("concert date = %v, want 2024-04-06", got)
	}
}

func TestOccurrences(t *testing.T) {
	entries, err := Parse(strings.NewReader(sampleCalendar), time.UTC)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	from := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2024, 4, 30, 23, 59, 59, 0, time.UTC)
	got := Occurrences(entries, from, to, 0)

	want := []struct {
		date    string
		summary string
	}{
		{"2024-03-05", "Ensayo"},
		{"2024-03-20", "Ensayo general"},
		{"2024-03-26", "Ensayo"},
		{"2024-04-06", "Concierto"},
	}
	if len(got) != len(want) {
		t.Fatalf("len(occurrences) = %d, want %d: %+v", len(got), len(want), got)
	}
	for i, w := range want {
		if got[i].Date != mustDate(t, w.date) || got[i].Summary != w.summary {
			t.Errorf("occurrence[%d] = %v %q, want %s %q", i, got[i].Date, got[i].Summary, w.date, w.summary)
		}
	}
}

func TestOccurrences_Window(t *testing.T) {
	entries, err := Parse(strings.NewReader(sampleCalendar), time.UTC)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	from := time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2024, 4, 30, 0, 0, 0, 0, time.UTC)
	got := Occurrences(entries, from, to, 0)
	if len(got) != 1 || got[0].Summary != "Concierto" {
		t.Errorf("occurrences = %+v, want only Concierto", got)
	}
}

func TestOccurrences_Cap(t *testing.T) {
	entries := []Entry{{
		UID:      "daily",
		Summary:  "Calentamiento",
		Start:    time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC),
		RawRRule: "FREQ=DAILY",
	}}
	from := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC)

	if got := Occurrences(entries, from, to, 10); len(got) != 10 {
		t.Errorf("len(occurrences) = %d, want 10", len(got))
	}
}

func TestOccurrences_BadRRuleFallsBack(t *testing.T) {
	entries := []Entry{{
		UID:      "bad",
		Summary:  "Reunión",
		Start:    time.Date(2024, 2, 10, 18, 0, 0, 0, time.UTC),
		RawRRule: "FREQ=SOMETIMES",
	}}
	from := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC)

	got := Occurrences(entries, from, to, 0)
	if len(got) != 1 || got[0].Date != mustDate(t, "2024-02-10") {
		t.Errorf("occurrences = %+v, want single 2024-02-10", got)
	}
}
