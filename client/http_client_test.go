package client

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/centraldaresenha/go-booking/entities"
)

type staticToken string

func (s staticToken) Token() (string, error) {
	if s == "" {
		return "", errors.New("no session token present")
	}
	return string(s), nil
}

func TestListFieldsSendsBearerToken(t *testing.T) {
	// Arrange
	var gotAuth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Write([]byte(`[{"id": 1, "nomecampo": "Arena Society", "preco": 130}]`))
	}))
	defer server.Close()
	c := NewWithBaseURL(staticToken("tok-123"), server.URL)

	// Act
	fields, err := c.ListFields(context.Background())

	// Assert
	assert.NoError(t, err)
	assert.Equal(t, "Bearer tok-123", gotAuth)
	assert.Len(t, fields, 1)
	assert.Equal(t, "Arena Society", fields[0].Name)
}

func TestMissingTokenFailsBeforeNetwork(t *testing.T) {
	requests := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
	}))
	defer server.Close()
	c := NewWithBaseURL(staticToken(""), server.URL)

	_, err := c.ListFields(context.Background())

	var authErr *AuthError
	assert.ErrorAs(t, err, &authErr)
	assert.Equal(t, 0, requests)
}

func TestRejectedTokenIsAuthError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()
	c := NewWithBaseURL(staticToken("stale"), server.URL)

	_, err := c.ListFields(context.Background())

	var authErr *AuthError
	assert.ErrorAs(t, err, &authErr)
}

func TestServerErrorCarriesMessageVerbatim(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		w.Write([]byte(`{"message": "Horário já reservado"}`))
	}))
	defer server.Close()
	c := NewWithBaseURL(staticToken("tok"), server.URL)

	err := c.CreateBooking(context.Background(), &entities.BookingRequest{})

	var srvErr *ServerError
	assert.ErrorAs(t, err, &srvErr)
	assert.Equal(t, http.StatusConflict, srvErr.StatusCode)
	assert.Equal(t, "Horário já reservado", srvErr.Error())
}

func TestServerErrorWithoutMessageFallsBack(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`oops`))
	}))
	defer server.Close()
	c := NewWithBaseURL(staticToken("tok"), server.URL)

	_, err := c.ListFields(context.Background())

	var srvErr *ServerError
	assert.ErrorAs(t, err, &srvErr)
	assert.Equal(t, "server returned status 500", srvErr.Error())
}

func TestTransportFailureIsNetworkError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close() // nothing listening anymore
	c := NewWithBaseURL(staticToken("tok"), server.URL)

	_, err := c.ListFields(context.Background())

	var netErr *NetworkError
	assert.ErrorAs(t, err, &netErr)
}

func TestCreateBookingPostsWirePayload(t *testing.T) {
	// Arrange
	var got map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/schedule/agendar", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusCreated)
	}))
	defer server.Close()
	c := NewWithBaseURL(staticToken("tok"), server.URL)

	// Act
	err := c.CreateBooking(context.Background(), &entities.BookingRequest{
		FieldID:   7,
		CompanyID: 3,
		Schedule:  entities.Schedule{entities.Monday: {"19:00", "20:00"}},
		PartySize: 4,
		Week:      "2025-11-03",
	})

	// Assert
	assert.NoError(t, err)
	assert.Equal(t, float64(7), got["idCampo"])
	assert.Equal(t, float64(3), got["idEmpresa"])
	assert.Equal(t, map[string]any{"segunda": []any{"19:00", "20:00"}}, got["horario"])
	assert.Equal(t, float64(4), got["quantidadePessoas"])
	assert.Equal(t, "2025-11-03", got["semana"])
}

func TestFieldDetailNormalizesSingleObject(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/fieldmanagement/campos/7", r.URL.Path)
		w.Write([]byte(`{"id": 7, "nomecampo": "Arena Society", "horarios": {"segunda": ["19:00"]}}`))
	}))
	defer server.Close()
	c := NewWithBaseURL(staticToken("tok"), server.URL)

	fields, err := c.FieldDetail(context.Background(), 7)

	assert.NoError(t, err)
	assert.Len(t, fields, 1)
	assert.Equal(t, []string{"19:00"}, fields[0].Slots(entities.Monday))
}

func TestListBookingsUnwrapsEnvelope(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/accountmanagement/agendamentos", r.URL.Path)
		w.Write([]byte(`{"agendamentos": [
			{"id": 12, "nomecampo": "Arena Society", "preco": 130, "nomeempresa": "Resenha FC",
			 "semana": "2025-11-03", "horario": {"segunda": ["19:00"]}, "pago": true}
		]}`))
	}))
	defer server.Close()
	c := NewWithBaseURL(staticToken("tok"), server.URL)

	bookings, err := c.ListBookings(context.Background())

	assert.NoError(t, err)
	assert.Len(t, bookings, 1)
	assert.Equal(t, "Resenha FC", bookings[0].CompanyName)
	assert.True(t, bookings[0].Paid)
	assert.Equal(t, entities.Schedule{entities.Monday: {"19:00"}}, bookings[0].Schedule)
}
