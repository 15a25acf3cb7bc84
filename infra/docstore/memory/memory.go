// Package memory implements the docstore contract in process memory. It is
// the backend for tests and local development; semantics (etags, partition
// scoping, filter matching) mirror the postgres backend.
package memory

import (
	"context"
	"encoding/json"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/ledgerstack/ledgerstack/pkg/docstore"
)

type record struct {
	doc    docstore.Doc
	fields map[string]any
}

type container struct {
	mu sync.Mutex
	// partition key -> id -> record
	partitions map[string]map[string]*record
}

// Client is an in-memory document store.
type Client struct {
	mu         sync.Mutex
	containers map[string]*container
}

// New returns an empty in-memory store.
func New() *Client {
	return &Client{containers: make(map[string]*container)}
}

// Container returns the named container, creating it on first use.
func (c *Client) Container(name string) docstore.Container {
	c.mu.Lock()
	defer c.mu.Unlock()
	cont, ok := c.containers[name]
	if !ok {
		cont = &container{partitions: make(map[string]map[string]*record)}
		c.containers[name] = cont
	}
	return cont
}

func (c *container) ReadItem(ctx context.Context, id, partitionKey string) (*docstore.Doc, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	rec, ok := c.partitions[partitionKey][id]
	if !ok {
		return nil, docstore.ErrNotFound
	}
	return copyDoc(&rec.doc), nil
}

func (c *container) Query(ctx context.Context, q docstore.Query) ([]*docstore.Doc, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	var recs []*record
	for _, rec := range c.partitions[q.PartitionKey] {
		recs = append(recs, rec)
	}
	return finish(recs, q), nil
}

func (c *container) QueryAll(ctx context.Context, q docstore.Query) ([]*docstore.Doc, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	var recs []*record
	for _, part := range c.partitions {
		for _, rec := range part {
			recs = append(recs, rec)
		}
	}
	return finish(recs, q), nil
}

func (c *container) Upsert(ctx context.Context, doc *docstore.Doc) (*docstore.Doc, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	stored, err := c.store(doc)
	if err != nil {
		return nil, err
	}
	return copyDoc(stored), nil
}

func (c *container) Replace(ctx context.Context, doc *docstore.Doc, ifMatch string) (*docstore.Doc, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	existing, ok := c.partitions[doc.PartitionKey][doc.ID]
	if !ok {
		return nil, docstore.ErrNotFound
	}
	if existing.doc.ETag != ifMatch {
		return nil, docstore.ErrPreconditionFailed
	}
	stored, err := c.store(doc)
	if err != nil {
		return nil, err
	}
	return copyDoc(stored), nil
}

// store writes under the container lock and stamps a fresh etag.
func (c *container) store(doc *docstore.Doc) (*docstore.Doc, error) {
	fields := make(map[string]any)
	if err := json.Unmarshal(doc.Body, &fields); err != nil {
		return nil, err
	}
	part, ok := c.partitions[doc.PartitionKey]
	if !ok {
		part = make(map[string]*record)
		c.partitions[doc.PartitionKey] = part
	}
	rec := &record{
		doc: docstore.Doc{
			ID:           doc.ID,
			PartitionKey: doc.PartitionKey,
			ETag:         uuid.NewString(),
			Body:         append(json.RawMessage(nil), doc.Body...),
		},
		fields: fields,
	}
	part[doc.ID] = rec
	return &rec.doc, nil
}

func finish(recs []*record, q docstore.Query) []*docstore.Doc {
	var matched []*record
	for _, rec := range recs {
		if matches(rec, q.Filters) {
			matched = append(matched, rec)
		}
	}
	if q.OrderBy != "" {
		sort.SliceStable(matched, func(i, j int) bool {
			a := scalar(matched[i].fields[q.OrderBy])
			b := scalar(matched[j].fields[q.OrderBy])
			if q.Desc {
				return a > b
			}
			return a < b
		})
	}
	if q.Limit > 0 && len(matched) > q.Limit {
		matched = matched[:q.Limit]
	}
	out := make([]*docstore.Doc, 0, len(matched))
	for _, rec := range matched {
		out = append(out, copyDoc(&rec.doc))
	}
	return out
}

func matches(rec *record, filters []docstore.Filter) bool {
	for _, f := range filters {
		v := scalar(rec.fields[f.Field])
		switch f.Op {
		case docstore.OpEq:
			if v != f.Value {
				return false
			}
		case docstore.OpContainsFold:
			if !strings.Contains(strings.ToLower(v), strings.ToLower(f.Value)) {
				return false
			}
		default:
			return false
		}
	}
	return true
}

// scalar renders a decoded JSON value the way postgres' body->>'field'
// would, so filter semantics agree between backends.
func scalar(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(t)
	case nil:
		return ""
	default:
		b, _ := json.Marshal(t)
		return string(b)
	}
}

func copyDoc(d *docstore.Doc) *docstore.Doc {
	return &docstore.Doc{
		ID:           d.ID,
		PartitionKey: d.PartitionKey,
		ETag:         d.ETag,
		Body:         append(json.RawMessage(nil), d.Body...),
	}
}

var _ docstore.Client = (*Client)(nil)
var _ docstore.Container = (*container)(nil)
