package entities

import (
	"encoding/json"
	"time"
)

// Schedule is the "horario" wire object: a single-entry map from the chosen
// weekday to the ordered slot labels being booked.
type Schedule map[Weekday][]string

func (s *Schedule) UnmarshalJSON(data []byte) error {
	var raw map[string][]string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	out := make(Schedule, len(raw))
	for token, slots := range raw {
		day, _ := NormalizeWeekday(token)
		out[day] = slots
	}
	*s = out
	return nil
}

// BookingRequest is the body of POST /api/schedule/agendar.
type BookingRequest struct {
	FieldID   int      `json:"idCampo"`
	CompanyID int      `json:"idEmpresa"`
	Schedule  Schedule `json:"horario"`
	PartySize int      `json:"quantidadePessoas"`
	Week      string   `json:"semana"`
}

// BookingRecord is one confirmed booking as listed by the agenda endpoint.
type BookingRecord struct {
	ID          int      `json:"id"`
	FieldName   string   `json:"nomecampo"`
	Price       float64  `json:"preco"`
	CompanyName string   `json:"nomeempresa"`
	Week        string   `json:"semana"`
	Schedule    Schedule `json:"horario"`
	Paid        bool     `json:"pago"`
}

type AgendaResponse struct {
	Bookings []BookingRecord `json:"agendamentos"`
}

// BookingLogEntry is written to the local booking log after a confirmed
// submission.
type BookingLogEntry struct {
	ID        string    `json:"id"`
	FieldID   int       `json:"fieldId"`
	FieldName string    `json:"fieldName"`
	CompanyID int       `json:"companyId"`
	Weekday   Weekday   `json:"weekday"`
	Slots     []string  `json:"slots"`
	PartySize int       `json:"partySize"`
	Week      string    `json:"week"`
	CreatedAt time.Time `json:"createdAt"`
}

// SlotCheckEntry records whether a previously exported slot was still offered
// when the watcher re-checked it.
type SlotCheckEntry struct {
	FieldID   int       `json:"fieldId"`
	FieldName string    `json:"fieldName"`
	Weekday   Weekday   `json:"weekday"`
	Slot      string    `json:"slot"`
	Offered   bool      `json:"offered"`
	CheckedAt time.Time `json:"checkedAt"`
}
