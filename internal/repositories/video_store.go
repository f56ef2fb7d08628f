package repositories

import (
	"context"
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// VideoStore scopes one metadata-store client to one handler
// invocation. The video-upload handler opens a store, uses it for a
// single write, and releases it on every exit path.
type VideoStore struct {
	DB      *gorm.DB
	release func() error
}

// Close releases the store client. Safe to call via defer on all exit
// paths; releasing a store backed by a shared pool is a no-op.
func (s *VideoStore) Close() error {
	if s.release == nil {
		return nil
	}
	return s.release()
}

// NewStore builds a VideoStore with an explicit release hook, for
// callers that manage the client lifecycle themselves.
func NewStore(db *gorm.DB, release func() error) *VideoStore {
	return &VideoStore{DB: db, release: release}
}

// StoreOpener acquires a VideoStore for the duration of one request.
type StoreOpener interface {
	Open(ctx context.Context) (*VideoStore, error)
}

// dsnOpener opens a fresh client per invocation, mirroring the
// one-client-per-request lifecycle of the metadata writer. Close
// disconnects it.
type dsnOpener struct {
	dsn string
}

// NewDSNOpener returns a StoreOpener that connects to the given
// PostgreSQL DSN on every Open call.
func NewDSNOpener(dsn string) StoreOpener {
	return &dsnOpener{dsn: dsn}
}

func (o *dsnOpener) Open(ctx context.Context) (*VideoStore, error) {
	db, err := gorm.Open(postgres.Open(o.dsn), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("open metadata store: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("unwrap metadata store: %w", err)
	}

	return &VideoStore{
		DB:      db.WithContext(ctx),
		release: sqlDB.Close,
	}, nil
}

// poolOpener hands out sessions of a shared connection pool. Used
// where the per-request lifecycle is not wanted (read paths, tests).
type poolOpener struct {
	db *gorm.DB
}

// NewPoolOpener returns a StoreOpener backed by an already open pool.
func NewPoolOpener(db *gorm.DB) StoreOpener {
	return &poolOpener{db: db}
}

func (o *poolOpener) Open(ctx context.Context) (*VideoStore, error) {
	return &VideoStore{DB: o.db.WithContext(ctx)}, nil
}
