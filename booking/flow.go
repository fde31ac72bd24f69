package booking

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/google/uuid"

	"github.com/centraldaresenha/go-booking/catalog"
	"github.com/centraldaresenha/go-booking/client"
	"github.com/centraldaresenha/go-booking/constant"
	"github.com/centraldaresenha/go-booking/entities"
)

// State is the current step of a booking flow.
type State int

const (
	SelectingField State = iota
	SelectingSlots
	Submitting
	Completed
)

func (s State) String() string {
	switch s {
	case SelectingField:
		return "selecting-field"
	case SelectingSlots:
		return "selecting-slots"
	case Submitting:
		return "submitting"
	case Completed:
		return "completed"
	default:
		return "unknown"
	}
}

var (
	ErrSubmissionInFlight = errors.New("a submission is already in flight")
	ErrFlowClosed         = errors.New("booking flow is closed")
)

type TimeProvider interface {
	Now() time.Time
}

type realTimeProvider struct{}

func (realTimeProvider) Now() time.Time {
	return time.Now()
}

// PriceSentinel is the display value when the price per person cannot be
// derived yet.
const PriceSentinel = "0"

// Flow drives one booking attempt: pick a venue, pick a weekday and slots,
// enter the party size, confirm. One Flow per screen activation; discarded
// after Completed or Close.
type Flow struct {
	catalog      *catalog.FieldCatalog
	api          client.BookingAPI
	timeProvider TimeProvider

	mu        sync.Mutex
	state     State
	fields    []entities.Field
	field     *entities.Field
	weekday   entities.Weekday
	slots     mapset.Set[string]
	partySize string
	closed    bool
}

func NewFlow(cat *catalog.FieldCatalog, api client.BookingAPI) *Flow {
	return &Flow{
		catalog:      cat,
		api:          api,
		timeProvider: realTimeProvider{},
		state:        SelectingField,
		weekday:      entities.DefaultWeekday(),
		slots:        mapset.NewSet[string](),
	}
}

// SetTimeProvider overrides the clock, for tests.
func (f *Flow) SetTimeProvider(tp TimeProvider) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.timeProvider = tp
}

// Start loads the venue snapshot the field picker works from.
func (f *Flow) Start(ctx context.Context) ([]entities.Field, error) {
	f.mu.Lock()
	if f.state != SelectingField {
		f.mu.Unlock()
		return nil, fmt.Errorf("cannot load the field list while %s", f.state)
	}
	f.mu.Unlock()

	if err := f.catalog.Refresh(ctx); err != nil {
		return nil, err
	}
	fields := f.catalog.Fields()
	f.mu.Lock()
	f.fields = fields
	f.mu.Unlock()
	return fields, nil
}

func (f *Flow) State() State {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

func (f *Flow) Fields() []entities.Field {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.fields
}

func (f *Flow) Field() *entities.Field {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.field
}

func (f *Flow) Weekday() entities.Weekday {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.weekday
}

// SelectField fetches the venue's detail and moves to slot selection. The
// weekday resets to the default and the slot selection empties; the party
// size entered so far is kept.
func (f *Flow) SelectField(ctx context.Context, fieldID int) (*entities.Field, error) {
	f.mu.Lock()
	if f.state != SelectingField {
		f.mu.Unlock()
		return nil, fmt.Errorf("cannot select a field while %s", f.state)
	}
	f.mu.Unlock()

	details, err := f.catalog.FieldDetail(ctx, fieldID)
	if err != nil {
		return nil, err
	}
	detail := details[0]
	for i := range details {
		if details[i].ID == fieldID {
			detail = details[i]
			break
		}
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		return nil, ErrFlowClosed
	}
	f.field = &detail
	f.weekday = entities.DefaultWeekday()
	f.slots = mapset.NewSet[string]()
	f.state = SelectingSlots
	return f.field, nil
}

// Back returns to the field picker, discarding the slot and weekday
// selection.
func (f *Flow) Back() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.state != SelectingSlots {
		return fmt.Errorf("cannot go back while %s", f.state)
	}
	f.field = nil
	f.weekday = entities.DefaultWeekday()
	f.slots = mapset.NewSet[string]()
	f.state = SelectingField
	return nil
}

// SelectWeekday switches the active day. Slots are weekday-scoped, so the
// selection always clears, also when the same day is picked again.
func (f *Flow) SelectWeekday(token string) error {
	day, ok := entities.NormalizeWeekday(token)
	if !ok {
		return fmt.Errorf("unknown weekday %q", token)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.state != SelectingSlots {
		return fmt.Errorf("cannot change weekday while %s", f.state)
	}
	f.weekday = day
	f.slots = mapset.NewSet[string]()
	return nil
}

// ToggleSlot adds the slot to the selection, or removes it when already
// selected. Only slots the venue offers on the active weekday are accepted.
func (f *Flow) ToggleSlot(label string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.state != SelectingSlots {
		return fmt.Errorf("cannot toggle a slot while %s", f.state)
	}
	offered := false
	for _, slot := range f.field.Slots(f.weekday) {
		if slot == label {
			offered = true
			break
		}
	}
	if !offered {
		return fmt.Errorf("slot %q is not offered on %s", label, f.weekday)
	}
	if f.slots.Contains(label) {
		f.slots.Remove(label)
	} else {
		f.slots.Add(label)
	}
	return nil
}

// SelectedSlots returns the selection ordered as the venue lists the slots.
func (f *Flow) SelectedSlots() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.orderedSlotsLocked()
}

func (f *Flow) orderedSlotsLocked() []string {
	if f.field == nil {
		return nil
	}
	out := make([]string, 0, f.slots.Cardinality())
	for _, slot := range f.field.Slots(f.weekday) {
		if f.slots.Contains(slot) {
			out = append(out, slot)
		}
	}
	return out
}

// SetPartySize stores the raw participant-count input. Parsing happens on
// derivation and validation so a half-typed value never breaks the form.
func (f *Flow) SetPartySize(raw string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.partySize = raw
}

// PartySize parses the participant count; ok is false unless it is a
// positive integer.
func (f *Flow) PartySize() (int, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return parsePartySize(f.partySize)
}

func parsePartySize(raw string) (int, bool) {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || n <= 0 {
		return 0, false
	}
	return n, true
}

// PricePerPerson derives the display-only split of the hourly price. ok is
// false when no field is selected or the party size is unusable; division
// never reaches a zero or negative count.
func (f *Flow) PricePerPerson() (float64, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	size, ok := parsePartySize(f.partySize)
	if f.field == nil || !ok {
		return 0, false
	}
	return f.field.HourlyPrice / float64(size), true
}

// PricePerPersonDisplay formats the derived price, falling back to the
// sentinel. Never sent to the server.
func (f *Flow) PricePerPersonDisplay() string {
	price, ok := f.PricePerPerson()
	if !ok {
		return PriceSentinel
	}
	return strconv.FormatFloat(price, 'f', 2, 64)
}

// Validate reports everything still missing before a confirm may proceed.
func (f *Flow) Validate() *ValidationError {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.validateLocked()
}

func (f *Flow) validateLocked() *ValidationError {
	var missing []string
	if f.field == nil {
		missing = append(missing, "field")
	}
	if f.slots.Cardinality() == 0 {
		missing = append(missing, "time slots")
	}
	if _, ok := parsePartySize(f.partySize); !ok {
		missing = append(missing, "party size")
	}
	if len(missing) > 0 {
		return &ValidationError{Missing: missing}
	}
	return nil
}

// Confirm validates the draft, builds the booking request and submits it
// exactly once. While a submission is in flight further confirms are
// rejected without touching the network. On failure the flow returns to
// slot selection with the draft intact; on success it completes and the
// caller receives the log entry to persist.
func (f *Flow) Confirm(ctx context.Context) (*entities.BookingLogEntry, error) {
	f.mu.Lock()
	if f.closed {
		f.mu.Unlock()
		return nil, ErrFlowClosed
	}
	if f.state == Submitting {
		f.mu.Unlock()
		return nil, ErrSubmissionInFlight
	}
	if f.state != SelectingSlots {
		f.mu.Unlock()
		return nil, fmt.Errorf("cannot confirm while %s", f.state)
	}
	if verr := f.validateLocked(); verr != nil {
		f.mu.Unlock()
		return nil, verr
	}

	size, _ := parsePartySize(f.partySize)
	slots := f.orderedSlotsLocked()
	companyID := f.field.CompanyID
	if companyID == 0 {
		companyID = constant.FALLBACK_COMPANY_ID
	}
	// The week stamp reflects the moment of submission, not when the flow
	// opened.
	week := f.timeProvider.Now().Format(constant.WEEK_DATE_FORMAT)
	req := &entities.BookingRequest{
		FieldID:   f.field.ID,
		CompanyID: companyID,
		Schedule:  entities.Schedule{f.weekday: slots},
		PartySize: size,
		Week:      week,
	}
	entry := &entities.BookingLogEntry{
		ID:        uuid.NewString(),
		FieldID:   f.field.ID,
		FieldName: f.field.Name,
		CompanyID: companyID,
		Weekday:   f.weekday,
		Slots:     slots,
		PartySize: size,
		Week:      week,
	}
	f.state = Submitting
	f.mu.Unlock()

	err := f.api.CreateBooking(ctx, req)

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		// The flow was dismissed mid-flight; drop the outcome without
		// touching the discarded draft.
		return nil, ErrFlowClosed
	}
	if err != nil {
		f.state = SelectingSlots
		return nil, err
	}
	f.state = Completed
	entry.CreatedAt = f.timeProvider.Now()
	return entry, nil
}

// Close discards the flow. An in-flight submission is not cancelled; its
// result is dropped when it lands.
func (f *Flow) Close() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
}
