// Package postgres is a caller-side persistence adapter for registry
// Snapshots: it is never imported by the core packages (identifier,
// feature, rules, registry, evalengine), matching the module's
// "persistence is a caller concern" boundary. It stores each
// namespace's current snapshot as a JSONB blob, keyed by namespace, and
// hands a decoded registry.Snapshot back on load.
package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/flagcore/flagcore/registry"
)

// ErrNamespaceNotFound is returned by Load when no snapshot has ever
// been saved for the given namespace.
var ErrNamespaceNotFound = errors.New("postgres: no snapshot stored for namespace")

// Store is a thin pgxpool-backed adapter persisting one Snapshot per
// namespace. It never runs on the evaluation path; callers use it to
// seed a Namespace at startup and to durably record patches they apply.
type Store struct {
	pool *pgxpool.Pool
}

// New wraps an already-configured pgxpool.Pool. The pool's lifecycle
// (including Close) remains the caller's responsibility.
func New(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

// Schema is the DDL this adapter expects. Callers run migrations
// however their host application already does; this is provided as the
// canonical reference shape.
const Schema = `
CREATE TABLE IF NOT EXISTS flagcore_snapshots (
	namespace   TEXT PRIMARY KEY,
	fingerprint BIGINT NOT NULL,
	document    JSONB NOT NULL,
	updated_at  TIMESTAMPTZ NOT NULL DEFAULT now()
);`

// Save upserts namespace's current snapshot. Saving is skipped (a no-op
// returning nil) when the stored fingerprint already matches snap's, so
// repeated saves of an unchanged snapshot do not generate write traffic.
func (s *Store) Save(ctx context.Context, namespace string, snap *registry.Snapshot) error {
	fingerprint := snap.Fingerprint()

	var existing int64
	err := s.pool.QueryRow(ctx,
		`SELECT fingerprint FROM flagcore_snapshots WHERE namespace = $1`,
		namespace,
	).Scan(&existing)
	switch {
	case err == nil && uint64(existing) == fingerprint:
		return nil
	case err != nil && !errors.Is(err, pgx.ErrNoRows):
		return fmt.Errorf("postgres: checking existing fingerprint: %w", err)
	}

	_, err = s.pool.Exec(ctx, `
		INSERT INTO flagcore_snapshots (namespace, fingerprint, document, updated_at)
		VALUES ($1, $2, $3, now())
		ON CONFLICT (namespace) DO UPDATE
		SET fingerprint = EXCLUDED.fingerprint,
		    document = EXCLUDED.document,
		    updated_at = now()`,
		namespace, int64(fingerprint), snap.ToJSON(),
	)
	if err != nil {
		return fmt.Errorf("postgres: saving snapshot for namespace %q: %w", namespace, err)
	}
	return nil
}

// Load fetches and decodes the snapshot stored for namespace.
func (s *Store) Load(ctx context.Context, namespace string) (*registry.Snapshot, error) {
	var document []byte
	err := s.pool.QueryRow(ctx,
		`SELECT document FROM flagcore_snapshots WHERE namespace = $1`,
		namespace,
	).Scan(&document)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNamespaceNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("postgres: loading snapshot for namespace %q: %w", namespace, err)
	}

	snap, perr := registry.FromJSON(document)
	if perr != nil {
		return nil, fmt.Errorf("postgres: stored document for namespace %q failed to parse: %w", namespace, perr)
	}
	return snap, nil
}

// Delete removes any stored snapshot for namespace. Deleting an absent
// namespace is not an error.
func (s *Store) Delete(ctx context.Context, namespace string) error {
	_, err := s.pool.Exec(ctx, `DELETE FROM flagcore_snapshots WHERE namespace = $1`, namespace)
	if err != nil {
		return fmt.Errorf("postgres: deleting namespace %q: %w", namespace, err)
	}
	return nil
}
