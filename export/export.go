package export

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/centraldaresenha/go-booking/catalog"
	"github.com/centraldaresenha/go-booking/entities"
	"github.com/centraldaresenha/go-booking/logging"
	"github.com/centraldaresenha/go-booking/team"
	"github.com/centraldaresenha/go-booking/utils"
)

type ExportOptions struct {
	MaxGoroutines  int
	OutputFileName string
	Catalog        *catalog.FieldCatalog
}

// Run fetches the detailed availability of every venue and writes a
// timestamped snapshot file. A failed detail fetch skips that venue only.
func Run(ctx context.Context, options *ExportOptions) error {
	log := logging.GetLogger()

	if err := options.Catalog.Refresh(ctx); err != nil {
		return fmt.Errorf("failed to load the venue directory: %w", err)
	}
	fields := options.Catalog.Fields()
	log.Info("venue directory loaded", zap.Int("fields", len(fields)))

	workerCount := min(options.MaxGoroutines, len(fields))
	if workerCount == 0 {
		workerCount = 1
	}
	detailTeam := team.Team[entities.Field, entities.Field]{
		WorkerCount: workerCount,
		Worker: func(field entities.Field) (entities.Field, error) {
			details, err := options.Catalog.FieldDetail(ctx, field.ID)
			if err != nil {
				return entities.Field{}, fmt.Errorf("error fetching detail for field %d: %w", field.ID, err)
			}
			for _, detail := range details {
				if detail.ID == field.ID {
					return detail, nil
				}
			}
			return details[0], nil
		},
	}
	detailed, errs := detailTeam.Run(fields)
	for _, err := range errs {
		log.Warn("detail fetch failed", zap.Error(err))
	}

	filename := options.OutputFileName
	if filename == "" {
		filename = fmt.Sprintf("availability_%s.json", time.Now().Format("20060102_150405"))
	}
	if err := utils.WriteSnapshot(detailed, filename); err != nil {
		return err
	}
	log.Info("availability snapshot written",
		zap.String("file", filename),
		zap.Int("fields", len(detailed)),
		zap.Int("failures", len(errs)))
	return nil
}
