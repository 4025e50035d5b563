package batch

import (
	"context"
	"log/slog"

	"github.com/utafrali/gearcatalog/internal/domain"
	"github.com/utafrali/gearcatalog/internal/storage"
)

// Registrar registers remote files as storage objects.
type Registrar interface {
	RegisterExternal(ctx context.Context, obj storage.ExternalObject) (int64, error)
}

// SyncStorage registers every media source URL with the storage service and
// records the returned ids.
type SyncStorage struct {
	registrar Registrar
	dryRun    bool
	logger    *slog.Logger
}

// NewSyncStorage creates the sync-storage job. A dry run only logs what it
// would register.
func NewSyncStorage(registrar Registrar, dryRun bool, logger *slog.Logger) *SyncStorage {
	return &SyncStorage{registrar: registrar, dryRun: dryRun, logger: logger}
}

func (j *SyncStorage) Name() string { return "sync-storage" }

func (j *SyncStorage) Run(ctx context.Context, products []domain.Product) ([]domain.Product, *Report, error) {
	report := newReport(j.Name(), len(products))
	report.DryRun = j.dryRun

	for i := range products {
		p := &products[i]
		for k := range p.Media {
			m := &p.Media[k]
			if m.Src == "" {
				continue
			}
			report.Items++

			if j.dryRun {
				j.logger.InfoContext(ctx, "would register media",
					slog.String("product_id", p.ID),
					slog.String("media_id", m.ID),
					slog.String("src", m.Src),
				)
				continue
			}

			if err := ctx.Err(); err != nil {
				return nil, nil, err
			}

			id, err := j.registrar.RegisterExternal(ctx, storage.ExternalObject{
				LinkID:      p.ID,
				Title:       m.ID,
				ExternalURI: m.Src,
			})
			if err != nil {
				report.Failed++
				j.logger.WarnContext(ctx, "media registration failed",
					slog.String("product_id", p.ID),
					slog.String("media_id", m.ID),
					slog.String("error", err.Error()),
				)
				continue
			}

			report.Matched++
			if !m.HasStorageID() || *m.StorageID != id {
				m.StorageID = &id
				report.markChanged(p.ID)
			}
		}
	}
	return products, report, nil
}
