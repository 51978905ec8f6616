package store

import "context"

// Document is a loosely-typed record as the backing document store sees it.
// Typed facades such as PostStore decode it into a fixed shape at the
// boundary.
type Document map[string]any

// Query operators understood by QueryByField. The set mirrors what the
// backing store supports for single-field predicates.
const (
	OpEqual          = "=="
	OpNotEqual       = "!="
	OpGreater        = ">"
	OpGreaterOrEqual = ">="
	OpLess           = "<"
	OpLessOrEqual    = "<="
	OpArrayContains  = "array-contains"
)

// DocumentStore is the contract of the external document store. It returns
// latest-committed-or-later data and gives no ordering guarantee; callers
// impose order themselves.
type DocumentStore interface {
	// Create inserts a new document under id. It fails with a conflict
	// error if the id already exists.
	Create(ctx context.Context, collection, id string, doc Document) error
	// Get returns the document stored under id, or a not-found error.
	Get(ctx context.Context, collection, id string) (Document, error)
	// Update merges the given fields into an existing document. It fails
	// with a not-found error if the id is absent.
	Update(ctx context.Context, collection, id string, fields Document) error
	// Delete removes the document under id. It fails with a not-found
	// error if the id is absent.
	Delete(ctx context.Context, collection, id string) error
	// ListAll returns every document in the collection, in no particular
	// order.
	ListAll(ctx context.Context, collection string) ([]Document, error)
	// QueryByField returns documents whose field satisfies the operator
	// against value.
	QueryByField(ctx context.Context, collection, field, op string, value any) ([]Document, error)
}
