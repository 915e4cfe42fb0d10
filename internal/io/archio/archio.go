// Package archio implements archive.Archiver on PostgreSQL.
package archio

import (
	"context"
	"log/slog"

	"github.com/attilauslu/oligocraft/internal/ent/archive"
	"github.com/attilauslu/oligocraft/pkg/config"
	"github.com/attilauslu/oligocraft/pkg/io/modelio"
	"github.com/jackc/pgx/v5/pgxpool"
)

// archio is a struct that implements archive.Archiver interface.
type archio struct {
	db  *pgxpool.Pool
	cfg config.PgDB
}

// New connects to the archive database and creates missing tables.
func New(ctx context.Context, cfg config.PgDB) (archive.Archiver, error) {
	res := archio{cfg: cfg}
	db, err := pgxConn(ctx, cfg)
	if err != nil {
		return nil, err
	}
	res.db = db
	if err = res.migrate(); err != nil {
		db.Close()
		return nil, err
	}
	return &res, nil
}

func (a *archio) migrate() error {
	grm, err := gormConn(a.cfg)
	if err != nil {
		return err
	}
	defer grm.Close()

	slog.Info("Running archive database migrations")
	m := modelio.New(grm)
	err = m.Migrate()
	if err != nil {
		slog.Error("Cannot migrate database", "error", err)
		return err
	}
	slog.Info("Archive database migrations completed")
	return nil
}

// Close implements archive.Archiver.
func (a *archio) Close() error {
	a.db.Close()
	return nil
}
