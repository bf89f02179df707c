package bootstrap

import (
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	app "github.com/mohammadpnp/roster-import/internal/application/roster"
	"github.com/mohammadpnp/roster-import/internal/config"
	domain "github.com/mohammadpnp/roster-import/internal/domain/roster"
	infrafile "github.com/mohammadpnp/roster-import/internal/infrastructure/file"
	"github.com/mohammadpnp/roster-import/internal/infrastructure/memstore"
	"github.com/mohammadpnp/roster-import/internal/infrastructure/repository"
)

// Importer groups the use cases exposed by the API and the CLI.
type Importer struct {
	ImportRoster app.ImportRoster
	GetImportRun app.GetImportRun
}

// NewPostgresImporter persists rosters through gorm and the run log through
// gorm and pgx. A nil locker serialises runs within this process only.
func NewPostgresImporter(cfg config.Config, db *gorm.DB, pool *pgxpool.Pool, locker app.RunLocker, logger logrus.FieldLogger) Importer {
	return newImporter(cfg, repository.NewRosterRepository(db), repository.NewImportRunRepository(db, pool), locker, logger)
}

// NewInMemoryImporter runs the whole pipeline against store. Nothing outlives
// the process.
func NewInMemoryImporter(cfg config.Config, store *memstore.Store, logger logrus.FieldLogger) Importer {
	return newImporter(cfg, store, store, nil, logger)
}

func newImporter(
	cfg config.Config,
	uow domain.UnitOfWork,
	runs domain.ImportRunRepository,
	locker app.RunLocker,
	logger logrus.FieldLogger,
) Importer {
	reader := infrafile.NewXLSXReader(infrafile.NewLocalSource(cfg.Import.BaseDir))
	reconciler := app.NewReconciler(app.ReconcilerConfig{
		Layout:                layout(cfg),
		MaxIdentifierAttempts: cfg.Import.MaxIdentifierAttempts,
	})

	return Importer{
		ImportRoster: app.NewImportRoster(reader, uow, runs, reconciler, locker, logger),
		GetImportRun: app.NewGetImportRun(runs),
	}
}

func layout(cfg config.Config) domain.Layout {
	l := domain.DefaultLayout()
	if cfg.Import.NoGroupPlaceholder != "" {
		l.NoGroupPlaceholder = cfg.Import.NoGroupPlaceholder
	}
	return l
}
