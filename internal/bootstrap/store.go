package bootstrap

import (
	"context"
	"fmt"
	"time"

	"github.com/baechuer/notepad-service/internal/application/auth"
	"github.com/baechuer/notepad-service/internal/application/notes"
	"github.com/baechuer/notepad-service/internal/config"
	"github.com/baechuer/notepad-service/internal/infrastructure/db/mongostore"
	"github.com/baechuer/notepad-service/internal/infrastructure/db/sqlstore"
	"github.com/baechuer/notepad-service/internal/infrastructure/memory"
	"github.com/baechuer/notepad-service/internal/logger"
)

// Store is the persistence adapter picked by STORE_DRIVER.
type Store struct {
	Users auth.UserRepo
	Notes notes.NoteRepo

	// Ping backs /readyz. Nil means always ready.
	Ping  func(ctx context.Context) error
	Close func()
}

func openStore(ctx context.Context, cfg *config.Config) (*Store, error) {
	switch cfg.StoreDriver {
	case config.StorePostgres, config.StoreMySQL:
		return openSQLStore(ctx, cfg)
	case config.StoreMongo:
		return openMongoStore(ctx, cfg)
	case config.StoreMemory:
		logger.Logger.Warn().Msg("using in-memory store; data is lost on restart")
		return &Store{
			Users: memory.NewUserRepo(),
			Notes: memory.NewNoteRepo(),
			Close: func() {},
		}, nil
	default:
		return nil, fmt.Errorf("bootstrap: unsupported store driver %q", cfg.StoreDriver)
	}
}

func openSQLStore(ctx context.Context, cfg *config.Config) (*Store, error) {
	d, err := sqlstore.ParseDialect(cfg.StoreDriver)
	if err != nil {
		return nil, err
	}

	db, err := config.NewSQLDB(cfg.StoreDriver, cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("bootstrap: open %s: %w", d, err)
	}

	if cfg.DBAutoMigrate {
		mctx, cancel := context.WithTimeout(ctx, 30*time.Second)
		defer cancel()
		if err := sqlstore.Migrate(mctx, db, d); err != nil {
			_ = db.Close()
			return nil, err
		}
		logger.Logger.Info().Str("dialect", string(d)).Msg("schema migrated")
	}

	return &Store{
		Users: sqlstore.NewUserRepo(db, d),
		Notes: sqlstore.NewNoteRepo(db, d),
		Ping:  db.PingContext,
		Close: func() { _ = db.Close() },
	}, nil
}

func openMongoStore(ctx context.Context, cfg *config.Config) (*Store, error) {
	client, err := config.NewMongoClient(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("bootstrap: open mongo: %w", err)
	}
	db := client.Database(cfg.MongoDatabase)

	if cfg.DBAutoMigrate {
		ictx, cancel := context.WithTimeout(ctx, 30*time.Second)
		defer cancel()
		if err := mongostore.EnsureIndexes(ictx, db); err != nil {
			_ = client.Disconnect(context.Background())
			return nil, err
		}
	}

	return &Store{
		Users: mongostore.NewUserRepo(db),
		Notes: mongostore.NewNoteRepo(db),
		Ping: func(ctx context.Context) error {
			return client.Ping(ctx, nil)
		},
		Close: func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = client.Disconnect(ctx)
		},
	}, nil
}
