package export

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/centraldaresenha/go-booking/catalog"
	"github.com/centraldaresenha/go-booking/entities"
	"github.com/centraldaresenha/go-booking/utils"
)

type mockAPI struct {
	fields  []entities.Field
	details map[int][]entities.Field
}

func (m *mockAPI) ListFields(ctx context.Context) ([]entities.Field, error) {
	return m.fields, nil
}

func (m *mockAPI) FieldDetail(ctx context.Context, fieldID int) ([]entities.Field, error) {
	return m.details[fieldID], nil
}

func (m *mockAPI) CreateBooking(ctx context.Context, req *entities.BookingRequest) error {
	return nil
}

func (m *mockAPI) ListBookings(ctx context.Context) ([]entities.BookingRecord, error) {
	return nil, nil
}

func TestRunWritesSnapshot(t *testing.T) {
	// Arrange
	api := &mockAPI{
		fields: []entities.Field{
			{ID: 7, Name: "Arena Society", Banner: "http://x/7.jpg"},
			{ID: 8, Name: "Resenha da Bola", Banner: "http://x/8.jpg"},
		},
		details: map[int][]entities.Field{
			7: {{ID: 7, Name: "Arena Society", Banner: "http://x/7.jpg",
				Availability: entities.Availability{entities.Monday: {"19:00"}}}},
			8: {{ID: 8, Name: "Resenha da Bola", Banner: "http://x/8.jpg",
				Availability: entities.Availability{entities.Friday: {"20:00", "21:00"}}}},
		},
	}
	out := filepath.Join(t.TempDir(), "availability.json")

	// Act
	err := Run(context.Background(), &ExportOptions{
		MaxGoroutines:  2,
		OutputFileName: out,
		Catalog:        catalog.New(api),
	})

	// Assert
	assert.NoError(t, err)
	fields, err := utils.ReadSnapshot(out)
	assert.NoError(t, err)
	assert.Len(t, fields, 2)
	byID := map[int]entities.Field{}
	for _, f := range fields {
		byID[f.ID] = f
	}
	f7, f8 := byID[7], byID[8]
	assert.Equal(t, []string{"19:00"}, f7.Slots(entities.Monday))
	assert.Equal(t, []string{"20:00", "21:00"}, f8.Slots(entities.Friday))
}
