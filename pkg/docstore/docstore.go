// Package docstore defines the contract for the partitioned document store
// every service reads and writes through. A container holds JSON documents
// keyed by (id, partition key); reads and scans filtered by the partition
// key are cheap, cross-partition scans are the explicit slow path.
package docstore

import (
	"context"
	"encoding/json"
	"errors"
)

var (
	// ErrNotFound indicates no document exists for the given key.
	ErrNotFound = errors.New("document not found")

	// ErrPreconditionFailed indicates an etag-conditional replace lost to a
	// concurrent writer. The caller should re-read and retry.
	ErrPreconditionFailed = errors.New("etag precondition failed")
)

// Doc is a stored document. ETag changes on every write; Replace uses it
// for optimistic concurrency.
type Doc struct {
	ID           string
	PartitionKey string
	ETag         string
	Body         json.RawMessage
}

// Filter operators. Fields refer to top-level JSON properties of the
// document body; values compare against the property's scalar rendering.
const (
	OpEq           = "eq"
	OpContainsFold = "contains_fold"
)

// Filter is one predicate of a query.
type Filter struct {
	Field string
	Op    string
	Value string
}

// Eq matches documents whose field equals value.
func Eq(field, value string) Filter {
	return Filter{Field: field, Op: OpEq, Value: value}
}

// ContainsFold matches documents whose field contains value,
// case-insensitively.
func ContainsFold(field, value string) Filter {
	return Filter{Field: field, Op: OpContainsFold, Value: value}
}

// Query describes a filtered, ordered, bounded scan. PartitionKey is
// required for Container.Query and ignored by Container.QueryAll.
type Query struct {
	PartitionKey string
	Filters      []Filter
	OrderBy      string
	Desc         bool
	Limit        int
}

// Container is one named collection of documents.
type Container interface {
	// ReadItem is the point-read fast path: O(1) lookup by id within a
	// partition. Returns ErrNotFound when absent.
	ReadItem(ctx context.Context, id, partitionKey string) (*Doc, error)

	// Query scans a single partition, applying filters, order and limit.
	Query(ctx context.Context, q Query) ([]*Doc, error)

	// QueryAll scans every partition. Slower than Query; used only when the
	// partition key is unknown (lookup by a non-partition-key id).
	QueryAll(ctx context.Context, q Query) ([]*Doc, error)

	// Upsert inserts or unconditionally replaces a document and returns the
	// stored copy with a fresh etag.
	Upsert(ctx context.Context, doc *Doc) (*Doc, error)

	// Replace overwrites an existing document only if its current etag
	// matches ifMatch. Returns ErrPreconditionFailed on a lost race and
	// ErrNotFound if the document no longer exists.
	Replace(ctx context.Context, doc *Doc, ifMatch string) (*Doc, error)
}

// Client provides access to named containers.
type Client interface {
	Container(name string) Container
}

// Container names used across the services.
const (
	ContainerAccounts       = "accounts"
	ContainerPaymentMethods = "payment-methods"
	ContainerBeneficiaries  = "beneficiaries"
	ContainerTransactions   = "transactions"
	ContainerInventory      = "inventory-items"
	ContainerReservations   = "reservations"
	ContainerTechnicians    = "technicians"
	ContainerScheduleSlots  = "schedule-slots"
	ContainerJobs           = "maintenance-jobs"
)
