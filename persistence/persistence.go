package persistence

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sync"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/centraldaresenha/go-booking/entities"
)

// Persistence records confirmed bookings and slot re-checks locally.
// Implementations: FilePersistence, PostgresPersistence
type Persistence interface {
	WriteBooking(ctx context.Context, entry *entities.BookingLogEntry) error
	WriteSlotCheck(ctx context.Context, entry *entities.SlotCheckEntry) error
}

// FilePersistence implements Persistence by appending JSON lines to a file
type FilePersistence struct {
	FilePath string
	mu       sync.Mutex
}

func NewFilePersistence(filePath string) *FilePersistence {
	return &FilePersistence{FilePath: filePath}
}

func (f *FilePersistence) WriteBooking(ctx context.Context, entry *entities.BookingLogEntry) error {
	return f.appendJSON(entry)
}

func (f *FilePersistence) WriteSlotCheck(ctx context.Context, entry *entities.SlotCheckEntry) error {
	return f.appendJSON(entry)
}

func (f *FilePersistence) appendJSON(entry any) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	file, err := os.OpenFile(f.FilePath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("error opening log file: %w", err)
	}
	defer file.Close()
	enc := json.NewEncoder(file)
	if err := enc.Encode(entry); err != nil {
		return fmt.Errorf("error writing log entry: %w", err)
	}
	return nil
}

// PostgresPersistence implements Persistence by writing to the booking and
// slot_check tables
type PostgresPersistence struct {
	Pool *pgxpool.Pool
}

func NewPostgresPersistence(pool *pgxpool.Pool) *PostgresPersistence {
	return &PostgresPersistence{Pool: pool}
}

func (p *PostgresPersistence) WriteBooking(ctx context.Context, entry *entities.BookingLogEntry) error {
	slots, err := json.Marshal(entry.Slots)
	if err != nil {
		return fmt.Errorf("error marshaling slots: %w", err)
	}
	_, err = p.Pool.Exec(ctx, `
		INSERT INTO booking (id, field_id, field_name, company_id, weekday, slots, party_size, week, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`,
		entry.ID,
		entry.FieldID,
		entry.FieldName,
		entry.CompanyID,
		string(entry.Weekday),
		slots,
		entry.PartySize,
		entry.Week,
		entry.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("error inserting booking log entry: %w", err)
	}
	return nil
}

func (p *PostgresPersistence) WriteSlotCheck(ctx context.Context, entry *entities.SlotCheckEntry) error {
	_, err := p.Pool.Exec(ctx, `
		INSERT INTO slot_check (field_id, field_name, weekday, slot, offered, checked_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`,
		entry.FieldID,
		entry.FieldName,
		string(entry.Weekday),
		entry.Slot,
		entry.Offered,
		entry.CheckedAt,
	)
	if err != nil {
		return fmt.Errorf("error inserting slot check entry: %w", err)
	}
	return nil
}
