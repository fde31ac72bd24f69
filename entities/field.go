package entities

import (
	"bytes"
	"encoding/json"
)

// Availability maps a canonical weekday token to the ordered slot labels the
// venue offers on that day. Keys are normalized on decode so the rest of the
// code never sees accented or mixed-case tokens.
type Availability map[Weekday][]string

func (a *Availability) UnmarshalJSON(data []byte) error {
	var raw map[string][]string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	out := make(Availability, len(raw))
	for token, slots := range raw {
		day, _ := NormalizeWeekday(token)
		out[day] = slots
	}
	*a = out
	return nil
}

type Field struct {
	ID           int          `json:"id"`
	Name         string       `json:"nomecampo"`
	Address      string       `json:"endereco"`
	Banner       string       `json:"bannercampo"`
	HourlyPrice  float64      `json:"preco"`
	CompanyID    int          `json:"idEmpresa"`
	Availability Availability `json:"horarios"`
}

// Slots returns the ordered slot labels for one weekday, nil when the venue
// has none configured for it.
func (f *Field) Slots(day Weekday) []string {
	return f.Availability[day]
}

// FieldDetailResponse normalizes the detail endpoint, which returns either a
// bare venue object or an array of them, into a sequence.
type FieldDetailResponse struct {
	Fields []Field
}

func (r *FieldDetailResponse) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimLeft(data, " \t\r\n")
	if len(trimmed) > 0 && trimmed[0] == '[' {
		return json.Unmarshal(data, &r.Fields)
	}
	var single Field
	if err := json.Unmarshal(data, &single); err != nil {
		return err
	}
	r.Fields = []Field{single}
	return nil
}
