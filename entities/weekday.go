package entities

import (
	"strings"
	"time"
)

// Weekday is the canonical lowercase token the server keys availability maps
// and booking requests by. All comparisons go through Normalize; display
// labels are presentation only and never used as keys.
type Weekday string

const (
	Sunday    Weekday = "domingo"
	Monday    Weekday = "segunda"
	Tuesday   Weekday = "terca"
	Wednesday Weekday = "quarta"
	Thursday  Weekday = "quinta"
	Friday    Weekday = "sexta"
	Saturday  Weekday = "sabado"
)

// WeekOrder lists every weekday in calendar order.
var WeekOrder = []Weekday{Sunday, Monday, Tuesday, Wednesday, Thursday, Friday, Saturday}

// BookableWeekdays is the configured set of days the booking form offers.
// The first entry is the default selection.
var BookableWeekdays = []Weekday{Monday, Tuesday, Wednesday, Thursday, Friday}

// DefaultWeekday returns the default selected weekday of a fresh draft.
func DefaultWeekday() Weekday {
	return BookableWeekdays[0]
}

var accentedTokens = map[string]Weekday{
	"terça":  Tuesday,
	"sábado": Saturday,
}

var displayLabels = map[Weekday]string{
	Sunday:    "Domingo",
	Monday:    "Segunda",
	Tuesday:   "Terça",
	Wednesday: "Quarta",
	Thursday:  "Quinta",
	Friday:    "Sexta",
	Saturday:  "Sábado",
}

// NormalizeWeekday lowercases a weekday token and folds the accented spellings
// the mobile clients historically sent. The second return reports whether the
// token names a known weekday.
func NormalizeWeekday(token string) (Weekday, bool) {
	lowered := strings.ToLower(strings.TrimSpace(token))
	if day, ok := accentedTokens[lowered]; ok {
		return day, true
	}
	day := Weekday(lowered)
	for _, known := range WeekOrder {
		if day == known {
			return day, true
		}
	}
	return day, false
}

// Display maps the canonical token to its localized label.
func (w Weekday) Display() string {
	if label, ok := displayLabels[w]; ok {
		return label
	}
	return string(w)
}

func (w Weekday) String() string {
	return string(w)
}

// WeekdayFromTime maps a calendar date to its canonical token.
func WeekdayFromTime(t time.Time) Weekday {
	return WeekOrder[int(t.Weekday())]
}
