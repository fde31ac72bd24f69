package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"

	"github.com/centraldaresenha/go-booking/booking"
	"github.com/centraldaresenha/go-booking/catalog"
	"github.com/centraldaresenha/go-booking/client"
	"github.com/centraldaresenha/go-booking/entities"
	"github.com/centraldaresenha/go-booking/export"
	"github.com/centraldaresenha/go-booking/logging"
	"github.com/centraldaresenha/go-booking/persistence"
	"github.com/centraldaresenha/go-booking/session"
	"github.com/centraldaresenha/go-booking/watch"
)

func main() {
	logging.Initialize()
	defer logging.GetLogger().Sync()

	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	sess, err := session.FromEnv()
	if err != nil {
		fmt.Fprintf(os.Stderr, "No session: %v\n", err)
		os.Exit(1)
	}
	api := client.New(sess)
	cat := catalog.New(api)
	ctx := context.Background()

	switch os.Args[1] {
	case "fields":
		err = runFields(ctx, cat)
	case "book":
		err = runBook(ctx, cat, api, os.Args[2:])
	case "agenda":
		err = runAgenda(ctx, api)
	case "export":
		err = runExport(ctx, cat, os.Args[2:])
	case "watch":
		err = runWatch(ctx, cat, os.Args[2:])
	default:
		usage()
		os.Exit(2)
	}
	if err != nil {
		logging.GetLogger().Error("command failed", zap.String("command", os.Args[1]), zap.Error(err))
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, "usage: go-booking <fields|book|agenda|export|watch> [flags]")
}

func runFields(ctx context.Context, cat *catalog.FieldCatalog) error {
	if err := cat.Refresh(ctx); err != nil {
		return err
	}
	fields := cat.Fields()
	fmt.Printf("⚽ %d fields available\n", len(fields))
	for _, field := range fields {
		fmt.Printf("  [%d] %s — %s — R$ %.2f/h\n", field.ID, field.Name, field.Address, field.HourlyPrice)
	}
	return nil
}

func runBook(ctx context.Context, cat *catalog.FieldCatalog, api client.BookingAPI, args []string) error {
	fs := flag.NewFlagSet("book", flag.ExitOnError)
	fieldID := fs.Int("field", 0, "Field id to book")
	day := fs.String("day", "", "Weekday token, e.g. segunda")
	slots := fs.String("slots", "", "Comma-separated slot labels, e.g. 19:00,20:00")
	people := fs.String("people", "", "Number of participants")
	fs.Parse(args)

	flow := booking.NewFlow(cat, api)
	if _, err := flow.Start(ctx); err != nil {
		return err
	}
	field, err := flow.SelectField(ctx, *fieldID)
	if err != nil {
		return err
	}
	fmt.Printf("🏟  %s (R$ %.2f/h)\n", field.Name, field.HourlyPrice)

	if *day != "" {
		if err := flow.SelectWeekday(*day); err != nil {
			return err
		}
	}
	for _, slot := range strings.Split(*slots, ",") {
		slot = strings.TrimSpace(slot)
		if slot == "" {
			continue
		}
		if err := flow.ToggleSlot(slot); err != nil {
			return err
		}
	}
	flow.SetPartySize(*people)
	fmt.Printf("💰 Price per person: R$ %s\n", flow.PricePerPersonDisplay())

	entry, err := flow.Confirm(ctx)
	if err != nil {
		return err
	}
	fmt.Printf("✅ Booked %s on %s (%s)\n", field.Name, flow.Weekday().Display(), strings.Join(entry.Slots, ", "))

	return recordBooking(ctx, entry)
}

func recordBooking(ctx context.Context, entry *entities.BookingLogEntry) error {
	log, closeLog, err := newBookingLog(ctx)
	if err != nil {
		return err
	}
	defer closeLog()
	if err := log.WriteBooking(ctx, entry); err != nil {
		return fmt.Errorf("booking confirmed but could not be recorded: %w", err)
	}
	return nil
}

// newBookingLog picks the local log backend: Postgres when DATABASE_URL is
// configured, an append-only file otherwise.
func newBookingLog(ctx context.Context) (persistence.Persistence, func(), error) {
	if os.Getenv("DATABASE_URL") == "" {
		return persistence.NewFilePersistence("bookings.log"), func() {}, nil
	}
	pool, err := persistence.NewPostgresPool(ctx)
	if err != nil {
		return nil, nil, err
	}
	if err := persistence.InitPostgresSchema(ctx, pool, "db/schema.sql"); err != nil {
		pool.Close()
		return nil, nil, err
	}
	return persistence.NewPostgresPersistence(pool), pool.Close, nil
}

func runAgenda(ctx context.Context, api client.BookingAPI) error {
	bookings, err := api.ListBookings(ctx)
	if err != nil {
		return err
	}
	fmt.Printf("📅 %d bookings\n", len(bookings))
	for _, b := range bookings {
		status := "Pendente"
		if b.Paid {
			status = "Pago"
		}
		fmt.Printf("  %s — %s — %s — R$ %.2f — %s\n", b.Week, b.CompanyName, b.FieldName, b.Price, status)
	}
	return nil
}

func runExport(ctx context.Context, cat *catalog.FieldCatalog, args []string) error {
	fs := flag.NewFlagSet("export", flag.ExitOnError)
	workers := fs.Int("workers", 10, "Number of concurrent detail fetches")
	out := fs.String("out", "", "Output file (default availability_<timestamp>.json)")
	fs.Parse(args)

	return export.Run(ctx, &export.ExportOptions{
		MaxGoroutines:  *workers,
		OutputFileName: *out,
		Catalog:        cat,
	})
}

func runWatch(ctx context.Context, cat *catalog.FieldCatalog, args []string) error {
	fs := flag.NewFlagSet("watch", flag.ExitOnError)
	snapshot := fs.String("snapshot", "", "Availability snapshot file to watch")
	fs.Parse(args)
	if *snapshot == "" {
		return fmt.Errorf("-snapshot is required")
	}

	log, closeLog, err := newBookingLog(ctx)
	if err != nil {
		return err
	}
	defer closeLog()

	return watch.Run(ctx, &watch.WatchOptions{
		SnapshotFile: *snapshot,
		Catalog:      cat,
		Log:          log,
	})
}
