package calendar

import (
	"testing"
	"time"

	"artcor/internal/domain/event"
)

func date(y int, m time.Month, d int) event.Date {
	return event.Date{Year: y, Month: m, Day: d}
}

// TestBuildTree_Grouping tests year/month/day grouping and ordering.
func TestBuildTree_Grouping(t *testing.T) {
	events := []event.Event{
		{ID: 1, Name: "A", Date: date(2023, time.May, 1)},
		{ID: 2, Name: "B", Date: date(2023, time.May, 15)},
		{ID: 3, Name: "C", Date: date(2024, time.January, 1)},
	}
	tree := BuildTree(events)

	if len(tree.Years) != 2 {
		t.Fatalf("years = %d, want 2", len(tree.Years))
	}
	if tree.Years[0].Year != 2024 || tree.Years[1].Year != 2023 {
		t.Errorf("years = [%d %d], want [2024 2023]", tree.Years[0].Year, tree.Years[1].Year)
	}

	y2024 := tree.Years[0]
	if len(y2024.Months) != 1 || y2024.Months[0].Month != time.January {
		t.Fatalf("2024 months = %+v, want [January]", y2024.Months)
	}
	if got := y2024.Months[0].Days[0].Events[0].ID; got != 3 {
		t.Errorf("2024-01-01 event = %d, want 3", got)
	}

	y2023 := tree.Years[1]
	if len(y2023.Months) != 1 || y2023.Months[0].Month != time.May {
		t.Fatalf("2023 months = %+v, want [May]", y2023.Months)
	}
	may := y2023.Months[0]
	if len(may.Days) != 2 || may.Days[0].Day != 15 || may.Days[1].Day != 1 {
		t.Errorf("May days = %+v, want [15 1]", may.Days)
	}
	if tree.Count() != 3 {
		t.Errorf("Count = %d, want 3", tree.Count())
	}
}

// TestBuildTree_SameDayKeepsOrder tests that same-day events keep input order.
func TestBuildTree_SameDayKeepsOrder(t *testing.T) {
	d := date(2024, time.March, 5)
	events := []event.Event{
		{ID: 9, Name: "Tarde", Date: d},
		{ID: 4, Name: "Mañana", Date: d},
		{ID: 7, Name: "Noche", Date: d},
	}
	tree := BuildTree(events)
	day, ok := tree.Find(d)
	if !ok {
		t.Fatal("day bucket not found")
	}
	var ids []int
	for _, e := range day.Events {
		ids = append(ids, e.ID)
	}
	if len(ids) != 3 || ids[0] != 9 || ids[1] != 4 || ids[2] != 7 {
		t.Errorf("ids = %v, want [9 4 7]", ids)
	}
}

// TestBuildTree_Empty tests that no events give an empty tree.
func TestBuildTree_Empty(t *testing.T) {
	tree := BuildTree(nil)
	if !tree.Empty() {
		t.Errorf("expected empty tree, got %+v", tree)
	}
	if _, ok := tree.Find(date(2024, time.January, 1)); ok {
		t.Error("Find on empty tree should miss")
	}
}

// TestBuildTree_MonthsDescending tests month ordering within a year.
func TestBuildTree_MonthsDescending(t *testing.T) {
	events := []event.Event{
		{ID: 1, Date: date(2024, time.February, 3)},
		{ID: 2, Date: date(2024, time.November, 20)},
		{ID: 3, Date: date(2024, time.June, 8)},
	}
	months := BuildTree(events).Years[0].Months
	want := []time.Month{time.November, time.June, time.February}
	for i, m := range months {
		if m.Month != want[i] {
			t.Errorf("months[%d] = %v, want %v", i, m.Month, want[i])
		}
	}
}

// TestLocaleLabels tests month, day and long-date labels.
func TestLocaleLabels(t *testing.T) {
	d := date(2024, time.March, 5) // a Tuesday
	tests := []struct {
		locale    Locale
		wantMonth string
		wantDay   string
		wantLong  string
		wantUnk   string
	}{
		{LocaleES, "Marzo", "Martes 5", "martes, 5 de marzo de 2024", "Desconocido"},
		{LocaleEN, "March", "Tuesday 5", "Tuesday, March 5, 2024", "Unknown"},
		{Locale("fr"), "Marzo", "Martes 5", "martes, 5 de marzo de 2024", "Desconocido"},
	}
	for _, tt := range tests {
		t.Run(string(tt.locale), func(t *testing.T) {
			if got := tt.locale.MonthLabel(d.Month); got != tt.wantMonth {
				t.Errorf("MonthLabel = %q, want %q", got, tt.wantMonth)
			}
			if got := tt.locale.DayLabel(d); got != tt.wantDay {
				t.Errorf("DayLabel = %q, want %q", got, tt.wantDay)
			}
			if got := tt.locale.LongDate(d); got != tt.wantLong {
				t.Errorf("LongDate = %q, want %q", got, tt.wantLong)
			}
			if got := tt.locale.UnknownMember(); got != tt.wantUnk {
				t.Errorf("UnknownMember = %q, want %q", got, tt.wantUnk)
			}
		})
	}

	if got := LocaleES.WeekdayLabel(time.Wednesday); got != "Miércoles" {
		t.Errorf("WeekdayLabel(Wednesday) = %q, want Miércoles", got)
	}
}
