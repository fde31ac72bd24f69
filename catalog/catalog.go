package catalog

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/centraldaresenha/go-booking/client"
	"github.com/centraldaresenha/go-booking/constant"
	"github.com/centraldaresenha/go-booking/entities"
)

// FieldCatalog holds the read-only snapshot of bookable venues for one screen
// activation. Refresh replaces the whole snapshot atomically; there is no
// partial-update merge.
type FieldCatalog struct {
	api client.BookingAPI

	mu     sync.RWMutex
	fields []entities.Field
}

func New(api client.BookingAPI) *FieldCatalog {
	return &FieldCatalog{api: api}
}

// Refresh fetches the venue directory and swaps the snapshot in. On failure
// the prior snapshot stays untouched.
func (c *FieldCatalog) Refresh(ctx context.Context) error {
	fields, err := c.api.ListFields(ctx)
	if err != nil {
		return fmt.Errorf("failed to refresh field catalog: %w", err)
	}
	for i := range fields {
		resolveBanner(&fields[i])
	}
	c.mu.Lock()
	c.fields = fields
	c.mu.Unlock()
	return nil
}

// Fields returns a copy of the current snapshot.
func (c *FieldCatalog) Fields() []entities.Field {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]entities.Field, len(c.fields))
	copy(out, c.fields)
	return out
}

// FieldDetail fetches one venue's availability. Pure read, no snapshot
// mutation.
func (c *FieldCatalog) FieldDetail(ctx context.Context, fieldID int) ([]entities.Field, error) {
	fields, err := c.api.FieldDetail(ctx, fieldID)
	if err != nil {
		return nil, err
	}
	if len(fields) == 0 {
		return nil, fmt.Errorf("no detail returned for field %d", fieldID)
	}
	for i := range fields {
		resolveBanner(&fields[i])
	}
	return fields, nil
}

// resolveBanner substitutes the placeholder when the record has no usable
// banner URL. The server sometimes sends a bare filename instead of an URL.
func resolveBanner(f *entities.Field) {
	if !strings.HasPrefix(f.Banner, "http") {
		f.Banner = constant.PLACEHOLDER_BANNER
	}
}
