package calendar

import (
	"fmt"
	"time"
	"unicode"
	"unicode/utf8"

	"artcor/internal/domain/event"
)

// Locale selects the language used for display labels.
type Locale string

// Supported locales.
const (
	LocaleES Locale = "es"
	LocaleEN Locale = "en"
)

var monthNames = map[Locale][12]string{
	LocaleES: {"enero", "febrero", "marzo", "abril", "mayo", "junio", "julio", "agosto", "septiembre", "octubre", "noviembre", "diciembre"},
	LocaleEN: {"January", "February", "March", "April", "May", "June", "July", "August", "September", "October", "November", "December"},
}

var weekdayNames = map[Locale][7]string{
	LocaleES: {"domingo", "lunes", "martes", "miércoles", "jueves", "viernes", "sábado"},
	LocaleEN: {"Sunday", "Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday"},
}

// unknownMember is shown in place of an attendee id with no roster entry.
var unknownMember = map[Locale]string{
	LocaleES: "Desconocido",
	LocaleEN: "Unknown",
}

// ParseLocale maps a config value to a Locale, defaulting to Spanish.
func ParseLocale(s string) Locale {
	if Locale(s) == LocaleEN {
		return LocaleEN
	}
	return LocaleES
}

func (l Locale) normalized() Locale {
	return ParseLocale(string(l))
}

// MonthLabel returns the capitalised month name, e.g. "Marzo".
func (l Locale) MonthLabel(m time.Month) string {
	if m < time.January || m > time.December {
		return ""
	}
	return capitalize(monthNames[l.normalized()][m-1])
}

// WeekdayLabel returns the capitalised weekday name, e.g. "Martes".
func (l Locale) WeekdayLabel(d time.Weekday) string {
	return capitalize(weekdayNames[l.normalized()][d%7])
}

// DayLabel returns the weekday and day of month, e.g. "Martes 5".
func (l Locale) DayLabel(d event.Date) string {
	return fmt.Sprintf("%s %d", l.WeekdayLabel(d.Weekday()), d.Day)
}

// LongDate returns the full written date used on event cards.
func (l Locale) LongDate(d event.Date) string {
	loc := l.normalized()
	weekday := weekdayNames[loc][d.Weekday()]
	month := monthNames[loc][d.Month-1]
	if loc == LocaleEN {
		return fmt.Sprintf("%s, %s %d, %d", weekday, month, d.Day, d.Year)
	}
	return fmt.Sprintf("%s, %d de %s de %d", weekday, d.Day, month, d.Year)
}

// UnknownMember returns the placeholder for a dangling attendee id.
func (l Locale) UnknownMember() string {
	return unknownMember[l.normalized()]
}

func capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}
