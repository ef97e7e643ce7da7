// Package docstore provides a thin document-collection layer over
// PostgreSQL JSONB tables. Each collection is one table named after its
// entity type, holding the document body alongside identity, audit stamps,
// and a version counter:
//
//	id text PRIMARY KEY, version bigint, created_at, updated_at, document jsonb
//
// All operations are single atomic statements; the layer performs no
// retries and no partial-failure recovery. Transport failures are logged
// with operation context and returned unchanged.
package docstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/rs/zerolog"
)

// ErrNotFound is returned by point lookups that match no document.
var ErrNotFound = errors.New("docstore: document not found")

// Querier is the subset of the pgx pool the collection layer depends on.
// Satisfied by *pgxpool.Pool, pgx.Tx, and *pgx.Conn.
type Querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Document is one stored row: the JSONB body plus the store-managed
// envelope columns.
type Document struct {
	ID        string
	Version   int64
	CreatedAt time.Time
	UpdatedAt time.Time
	Data      []byte
}

// FindOptions bound and order a Find. Sort is a SQL expression resolved
// from a sortable-field allow-list by the caller; the collection trusts it.
type FindOptions struct {
	Sort  string
	Desc  bool
	Skip  int
	Limit int
}

// UpsertOptions control replace-or-insert behavior.
type UpsertOptions struct {
	// GuardVersion gates the replace on the stored version being strictly
	// less than the incoming one. The insert-if-absent path is unaffected.
	GuardVersion bool
	// Merge overlays the incoming document onto the stored one instead of
	// replacing it, so absent incoming fields keep their stored values.
	Merge bool
}

// Collection is a handle on one document table.
type Collection struct {
	q    Querier
	name string
	log  zerolog.Logger
}

// NewCollection returns a handle on the named collection table.
func NewCollection(q Querier, name string, log zerolog.Logger) *Collection {
	return &Collection{q: q, name: name, log: log.With().Str("collection", name).Logger()}
}

// Name returns the collection (table) name.
func (c *Collection) Name() string { return c.name }

const docCols = "id, version, created_at, updated_at, document"

// Get fetches a document by primary key. Returns ErrNotFound on miss;
// malformed identifiers simply match nothing and surface the same way.
func (c *Collection) Get(ctx context.Context, id string) (*Document, error) {
	row := c.q.QueryRow(ctx, fmt.Sprintf("SELECT %s FROM %s WHERE id = $1", docCols, c.name), id)
	doc, err := scanDocument(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		c.log.Error().Err(err).Str("id", id).Str("op", "get").Msg("docstore get failed")
		return nil, err
	}
	return doc, nil
}

// FindOne fetches the first document matching the filter.
func (c *Collection) FindOne(ctx context.Context, f *Filter) (*Document, error) {
	where, args := f.Where(1)
	row := c.q.QueryRow(ctx, fmt.Sprintf("SELECT %s FROM %s WHERE %s LIMIT 1", docCols, c.name, where), args...)
	doc, err := scanDocument(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		c.log.Error().Err(err).Str("op", "find_one").Msg("docstore find failed")
		return nil, err
	}
	return doc, nil
}

// Find returns the ordered, bounded set of documents matching the filter.
// A filter that matches nothing yields an empty slice, never an error.
func (c *Collection) Find(ctx context.Context, f *Filter, opts FindOptions) ([]Document, error) {
	where, args := f.Where(1)
	sql := fmt.Sprintf("SELECT %s FROM %s WHERE %s", docCols, c.name, where)
	if opts.Sort != "" {
		dir := "ASC"
		if opts.Desc {
			dir = "DESC"
		}
		sql += " ORDER BY " + opts.Sort + " " + dir
	}
	n := len(args)
	sql += fmt.Sprintf(" LIMIT $%d OFFSET $%d", n+1, n+2)
	args = append(args, opts.Limit, opts.Skip)

	rows, err := c.q.Query(ctx, sql, args...)
	if err != nil {
		c.log.Error().Err(err).Str("op", "find").Msg("docstore find failed")
		return nil, err
	}
	defer rows.Close()

	var docs []Document
	for rows.Next() {
		var d Document
		if err := rows.Scan(&d.ID, &d.Version, &d.CreatedAt, &d.UpdatedAt, &d.Data); err != nil {
			c.log.Error().Err(err).Str("op", "find").Msg("docstore scan failed")
			return nil, err
		}
		docs = append(docs, d)
	}
	if err := rows.Err(); err != nil {
		c.log.Error().Err(err).Str("op", "find").Msg("docstore find failed")
		return nil, err
	}
	return docs, nil
}

// Count returns the number of documents matching the filter.
func (c *Collection) Count(ctx context.Context, f *Filter) (int64, error) {
	where, args := f.Where(1)
	var total int64
	err := c.q.QueryRow(ctx, fmt.Sprintf("SELECT COUNT(*) FROM %s WHERE %s", c.name, where), args...).Scan(&total)
	if err != nil {
		c.log.Error().Err(err).Str("op", "count").Msg("docstore count failed")
		return 0, err
	}
	return total, nil
}

// Upsert replaces or inserts a document by identity as a single atomic
// conditional statement, never read-then-write. With GuardVersion set the
// replace path only fires when the stored version is strictly less than
// doc.Version; the insert path still creates absent documents regardless,
// so a guarded upsert alone does not detect lost updates; it only keeps a
// visible version from regressing.
func (c *Collection) Upsert(ctx context.Context, doc Document, opts UpsertOptions) error {
	body := "EXCLUDED.document"
	if opts.Merge {
		body = c.name + ".document || EXCLUDED.document"
	}
	sql := fmt.Sprintf(`INSERT INTO %s (id, version, created_at, updated_at, document)
VALUES ($1, $2, $3, $4, $5)
ON CONFLICT (id) DO UPDATE SET
	version = EXCLUDED.version,
	updated_at = EXCLUDED.updated_at,
	document = %s`, c.name, body)
	if opts.GuardVersion {
		sql += fmt.Sprintf("\nWHERE %s.version < EXCLUDED.version", c.name)
	}

	_, err := c.q.Exec(ctx, sql, doc.ID, doc.Version, doc.CreatedAt, doc.UpdatedAt, doc.Data)
	if err != nil {
		c.log.Error().Err(err).Str("id", doc.ID).Str("op", "upsert").Msg("docstore upsert failed")
		return err
	}
	return nil
}

// Delete removes a document by identity. Deleting an absent identity is a
// no-op reported as false.
func (c *Collection) Delete(ctx context.Context, id string) (bool, error) {
	tag, err := c.q.Exec(ctx, fmt.Sprintf("DELETE FROM %s WHERE id = $1", c.name), id)
	if err != nil {
		c.log.Error().Err(err).Str("id", id).Str("op", "delete").Msg("docstore delete failed")
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

// DeleteWhere removes every document matching the filter, returning the
// number removed.
func (c *Collection) DeleteWhere(ctx context.Context, f *Filter) (int64, error) {
	where, args := f.Where(1)
	tag, err := c.q.Exec(ctx, fmt.Sprintf("DELETE FROM %s WHERE %s", c.name, where), args...)
	if err != nil {
		c.log.Error().Err(err).Str("op", "delete_where").Msg("docstore delete failed")
		return 0, err
	}
	return tag.RowsAffected(), nil
}

func scanDocument(row pgx.Row) (*Document, error) {
	var d Document
	if err := row.Scan(&d.ID, &d.Version, &d.CreatedAt, &d.UpdatedAt, &d.Data); err != nil {
		return nil, err
	}
	return &d, nil
}
