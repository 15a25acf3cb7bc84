// Package postgres implements the docstore contract on a single JSONB
// documents table. Partition scoping is a column predicate; etags drive the
// conditional replace used for optimistic concurrency.
package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/ledgerstack/ledgerstack/pkg/docstore"
)

const schema = `
CREATE TABLE IF NOT EXISTS documents (
	container     text  NOT NULL,
	partition_key text  NOT NULL,
	id            text  NOT NULL,
	etag          text  NOT NULL,
	body          jsonb NOT NULL,
	PRIMARY KEY (container, partition_key, id)
);
CREATE INDEX IF NOT EXISTS documents_container_id_idx ON documents (container, id);
`

// Client is a Postgres-backed document store.
type Client struct {
	db *sql.DB
}

// New wraps an open database handle.
func New(db *sql.DB) *Client {
	return &Client{db: db}
}

// EnsureSchema creates the documents table if it does not exist.
func (c *Client) EnsureSchema(ctx context.Context) error {
	_, err := c.db.ExecContext(ctx, schema)
	return err
}

// Container returns a view over the named container.
func (c *Client) Container(name string) docstore.Container {
	return &container{db: c.db, name: name}
}

type container struct {
	db   *sql.DB
	name string
}

func (c *container) ReadItem(ctx context.Context, id, partitionKey string) (*docstore.Doc, error) {
	const query = `SELECT etag, body FROM documents
		WHERE container = $1 AND partition_key = $2 AND id = $3`

	doc := docstore.Doc{ID: id, PartitionKey: partitionKey}
	var body []byte
	err := c.db.QueryRowContext(ctx, query, c.name, partitionKey, id).Scan(&doc.ETag, &body)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, docstore.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("read %s/%s: %w", c.name, id, err)
	}
	doc.Body = body
	return &doc, nil
}

func (c *container) Query(ctx context.Context, q docstore.Query) ([]*docstore.Doc, error) {
	return c.scan(ctx, q, true)
}

func (c *container) QueryAll(ctx context.Context, q docstore.Query) ([]*docstore.Doc, error) {
	return c.scan(ctx, q, false)
}

func (c *container) scan(ctx context.Context, q docstore.Query, inPartition bool) ([]*docstore.Doc, error) {
	var sb strings.Builder
	sb.WriteString(`SELECT id, partition_key, etag, body FROM documents WHERE container = $1`)
	args := []any{c.name}

	if inPartition {
		args = append(args, q.PartitionKey)
		fmt.Fprintf(&sb, " AND partition_key = $%d", len(args))
	}
	for _, f := range q.Filters {
		switch f.Op {
		case docstore.OpEq:
			args = append(args, f.Value)
			fmt.Fprintf(&sb, " AND body->>%s = $%d", quoteLiteral(f.Field), len(args))
		case docstore.OpContainsFold:
			args = append(args, f.Value)
			fmt.Fprintf(&sb, " AND lower(body->>%s) LIKE '%%' || lower($%d) || '%%'",
				quoteLiteral(f.Field), len(args))
		default:
			return nil, fmt.Errorf("unsupported filter op %q", f.Op)
		}
	}
	if q.OrderBy != "" {
		dir := "ASC"
		if q.Desc {
			dir = "DESC"
		}
		fmt.Fprintf(&sb, " ORDER BY body->>%s %s", quoteLiteral(q.OrderBy), dir)
	}
	if q.Limit > 0 {
		args = append(args, q.Limit)
		fmt.Fprintf(&sb, " LIMIT $%d", len(args))
	}

	rows, err := c.db.QueryContext(ctx, sb.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("scan %s: %w", c.name, err)
	}
	defer rows.Close()

	var docs []*docstore.Doc
	for rows.Next() {
		var doc docstore.Doc
		var body []byte
		if err := rows.Scan(&doc.ID, &doc.PartitionKey, &doc.ETag, &body); err != nil {
			return nil, err
		}
		doc.Body = body
		docs = append(docs, &doc)
	}
	return docs, rows.Err()
}

func (c *container) Upsert(ctx context.Context, doc *docstore.Doc) (*docstore.Doc, error) {
	const query = `INSERT INTO documents (container, partition_key, id, etag, body)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (container, partition_key, id)
		DO UPDATE SET etag = EXCLUDED.etag, body = EXCLUDED.body`

	stored := &docstore.Doc{
		ID:           doc.ID,
		PartitionKey: doc.PartitionKey,
		ETag:         uuid.NewString(),
		Body:         append(json.RawMessage(nil), doc.Body...),
	}
	_, err := c.db.ExecContext(ctx, query,
		c.name, stored.PartitionKey, stored.ID, stored.ETag, []byte(stored.Body))
	if err != nil {
		return nil, fmt.Errorf("upsert %s/%s: %w", c.name, doc.ID, err)
	}
	return stored, nil
}

func (c *container) Replace(ctx context.Context, doc *docstore.Doc, ifMatch string) (*docstore.Doc, error) {
	const query = `UPDATE documents SET etag = $1, body = $2
		WHERE container = $3 AND partition_key = $4 AND id = $5 AND etag = $6`

	stored := &docstore.Doc{
		ID:           doc.ID,
		PartitionKey: doc.PartitionKey,
		ETag:         uuid.NewString(),
		Body:         append(json.RawMessage(nil), doc.Body...),
	}
	res, err := c.db.ExecContext(ctx, query,
		stored.ETag, []byte(stored.Body), c.name, stored.PartitionKey, stored.ID, ifMatch)
	if err != nil {
		return nil, fmt.Errorf("replace %s/%s: %w", c.name, doc.ID, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return nil, err
	}
	if n == 0 {
		// Distinguish a lost race from a vanished document.
		if _, err := c.ReadItem(ctx, doc.ID, doc.PartitionKey); errors.Is(err, docstore.ErrNotFound) {
			return nil, docstore.ErrNotFound
		}
		return nil, docstore.ErrPreconditionFailed
	}
	return stored, nil
}

// quoteLiteral renders a JSON field name as a single-quoted SQL literal.
// Field names come from code, never from request input.
func quoteLiteral(field string) string {
	return "'" + strings.ReplaceAll(field, "'", "''") + "'"
}

var _ docstore.Client = (*Client)(nil)
var _ docstore.Container = (*container)(nil)
