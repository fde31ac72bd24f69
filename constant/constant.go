package constant

import (
	"os"
)

const (
	FIELDS_PATH       = "/api/fieldmanagement/campos"
	FIELD_DETAIL_PATH = "/api/fieldmanagement/campos/%d"
	SCHEDULE_PATH     = "/api/schedule/agendar"
	AGENDA_PATH       = "/api/accountmanagement/agendamentos"

	DEFAULT_BASE_URL = "http://168.138.151.78:3000"

	// Wire format of the "semana" field in a booking request.
	WEEK_DATE_FORMAT = "2006-01-02"

	// Venue records sometimes arrive without an owning company id; the
	// server accepts 1 as a generic fallback.
	FALLBACK_COMPANY_ID = 1

	// Used in place of a venue banner that is missing or not an URL.
	PLACEHOLDER_BANNER = "https://centraldaresenha.com.br/assets/campo-placeholder.png"
)

// BaseURL resolves the API root, preferring the RESENHA_API_URL environment
// variable.
func BaseURL() string {
	if url := os.Getenv("RESENHA_API_URL"); url != "" {
		return url
	}
	return DEFAULT_BASE_URL
}
