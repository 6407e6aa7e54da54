// Package sqlstore mirrors the dataset into a SQL table: postgres in
// production, sqlite for development and tests.
package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"payslip/domain/core"
	"payslip/ports"

	"github.com/jmoiron/sqlx"
)

// BlobStore implements ports.BlobStore on the blobs table. The revision is the
// sha256 of the content, and updates only apply on top of the revision the
// caller last saw.
type BlobStore struct {
	db *sqlx.DB
}

type blobRow struct {
	Key      string `db:"key"`
	Revision string `db:"revision"`
	Size     int64  `db:"size"`
}

// NewBlobStore creates a blob store on db. Queries are rebound to the
// driver's placeholder style.
func NewBlobStore(db *sqlx.DB) *BlobStore {
	return &BlobStore{db: db}
}

// Name reports the driver, e.g. "postgres" or "sqlite3".
func (s *BlobStore) Name() string { return s.db.DriverName() }

// Stat retrieves the revision of a stored blob
func (s *BlobStore) Stat(ctx context.Context, key string) (*ports.BlobMeta, error) {
	var row blobRow
	query := s.db.Rebind(`SELECT key, revision, size FROM blobs WHERE key = ?`)
	if err := s.db.GetContext(ctx, &row, query, key); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, core.NewBlobNotFoundError(key)
		}
		return nil, fmt.Errorf("%w: failed to stat blob: %v", core.ErrRemoteUnavailable, err)
	}
	return &ports.BlobMeta{Key: row.Key, Revision: core.Revision(row.Revision), Size: row.Size}, nil
}

// Create inserts a new blob; an existing key is a revision conflict
func (s *BlobStore) Create(ctx context.Context, key string, data []byte, message string) (*ports.BlobMeta, error) {
	rev := core.ContentRevision(data)
	query := s.db.Rebind(`INSERT INTO blobs (key, content, revision, size, message)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT (key) DO NOTHING`)

	res, err := s.db.ExecContext(ctx, query, key, data, rev.String(), len(data), message)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create blob: %v", core.ErrRemoteUnavailable, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return nil, fmt.Errorf("%w: %s already exists", core.ErrRevisionConflict, key)
	}
	return &ports.BlobMeta{Key: key, Revision: rev, Size: int64(len(data))}, nil
}

// Update replaces blob content when rev is still current
func (s *BlobStore) Update(ctx context.Context, key string, data []byte, rev core.Revision, message string) (*ports.BlobMeta, error) {
	next := core.ContentRevision(data)
	query := s.db.Rebind(`UPDATE blobs
		SET content = ?, revision = ?, size = ?, message = ?, updated_at = CURRENT_TIMESTAMP
		WHERE key = ? AND revision = ?`)

	res, err := s.db.ExecContext(ctx, query, data, next.String(), len(data), message, key, rev.String())
	if err != nil {
		return nil, fmt.Errorf("%w: failed to update blob: %v", core.ErrRemoteUnavailable, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("%w: failed to update blob: %v", core.ErrRemoteUnavailable, err)
	}
	if n == 0 {
		return nil, fmt.Errorf("%w: %s is no longer at %s", core.ErrRevisionConflict, key, rev)
	}
	return &ports.BlobMeta{Key: key, Revision: next, Size: int64(len(data))}, nil
}

