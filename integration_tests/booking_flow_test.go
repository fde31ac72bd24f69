package integrationtests

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/centraldaresenha/go-booking/booking"
	"github.com/centraldaresenha/go-booking/catalog"
	"github.com/centraldaresenha/go-booking/client"
	"github.com/centraldaresenha/go-booking/entities"
	"github.com/centraldaresenha/go-booking/persistence"
	"github.com/centraldaresenha/go-booking/session"
)

func newBookingServer(t *testing.T, received *[]map[string]any) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/fieldmanagement/campos", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[
			{"id": 7, "nomecampo": "Arena Society", "endereco": "Rua A, 1", "preco": 130, "idEmpresa": 3},
			{"id": 8, "nomecampo": "Resenha da Bola", "endereco": "Rua B, 2", "preco": 90}
		]`))
	})
	mux.HandleFunc("GET /api/fieldmanagement/campos/7", func(w http.ResponseWriter, r *http.Request) {
		// Bare object on purpose; the client must normalize it.
		w.Write([]byte(`{
			"id": 7, "nomecampo": "Arena Society", "preco": 130, "idEmpresa": 3,
			"horarios": {"segunda": ["19:00", "20:00"], "terça": ["18:00"]}
		}`))
	})
	mux.HandleFunc("POST /api/schedule/agendar", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer integration-token" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		var body map[string]any
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		*received = append(*received, body)
		w.WriteHeader(http.StatusCreated)
	})
	return httptest.NewServer(mux)
}

func TestBookingFlowEndToEnd(t *testing.T) {
	// Arrange
	var received []map[string]any
	server := newBookingServer(t, &received)
	defer server.Close()

	sess := session.New("integration-token")
	api := client.NewWithBaseURL(sess, server.URL)
	cat := catalog.New(api)
	flow := booking.NewFlow(cat, api)
	ctx := context.Background()

	// Act: the whole happy path, field picker to confirmation
	fields, err := flow.Start(ctx)
	assert.NoError(t, err)
	assert.Len(t, fields, 2)

	field, err := flow.SelectField(ctx, 7)
	assert.NoError(t, err)
	assert.Equal(t, "Arena Society", field.Name)
	assert.Equal(t, []string{"18:00"}, field.Slots(entities.Tuesday))

	assert.NoError(t, flow.ToggleSlot("19:00"))
	assert.NoError(t, flow.ToggleSlot("20:00"))
	flow.SetPartySize("4")
	assert.Equal(t, "32.50", flow.PricePerPersonDisplay())

	entry, err := flow.Confirm(ctx)
	assert.NoError(t, err)

	// Assert: exactly one wire request with the expected shape
	assert.Len(t, received, 1)
	assert.Equal(t, float64(7), received[0]["idCampo"])
	assert.Equal(t, float64(3), received[0]["idEmpresa"])
	assert.Equal(t, map[string]any{"segunda": []any{"19:00", "20:00"}}, received[0]["horario"])
	assert.Equal(t, float64(4), received[0]["quantidadePessoas"])

	// The confirmed booking lands in the local log.
	logPath := filepath.Join(t.TempDir(), "bookings.log")
	logFile := persistence.NewFilePersistence(logPath)
	assert.NoError(t, logFile.WriteBooking(ctx, entry))
}

func TestBookingFlowSurfacesServerRejection(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/fieldmanagement/campos", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[{"id": 7, "nomecampo": "Arena Society", "preco": 130, "idEmpresa": 3}]`))
	})
	mux.HandleFunc("GET /api/fieldmanagement/campos/7", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"id": 7, "nomecampo": "Arena Society", "preco": 130, "idEmpresa": 3,
			"horarios": {"segunda": ["19:00"]}}`))
	})
	mux.HandleFunc("POST /api/schedule/agendar", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		w.Write([]byte(`{"message": "Horário já reservado"}`))
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	api := client.NewWithBaseURL(session.New("integration-token"), server.URL)
	flow := booking.NewFlow(catalog.New(api), api)
	ctx := context.Background()

	_, err := flow.Start(ctx)
	assert.NoError(t, err)
	_, err = flow.SelectField(ctx, 7)
	assert.NoError(t, err)
	assert.NoError(t, flow.ToggleSlot("19:00"))
	flow.SetPartySize("2")

	_, err = flow.Confirm(ctx)

	// The server message surfaces verbatim and the draft is preserved for a
	// retry.
	var srvErr *client.ServerError
	assert.ErrorAs(t, err, &srvErr)
	assert.Equal(t, "Horário já reservado", srvErr.Error())
	assert.Equal(t, booking.SelectingSlots, flow.State())
	assert.Equal(t, []string{"19:00"}, flow.SelectedSlots())
}
