package resources

import (
	"context"

	"github.com/pgElephant/RetailMCP/internal/identity"
	"github.com/pgElephant/RetailMCP/internal/retail"
)

// SchemaReader describes tables in the retail schema
type SchemaReader interface {
	TableSchemas(ctx context.Context, names []string, rlsUserID string) (string, error)
}

// SchemaResource describes every allow-listed retail table as seen by the caller
type SchemaResource struct {
	store    SchemaReader
	identity identity.Resolver
}

// NewSchemaResource creates a new schema resource
func NewSchemaResource(store SchemaReader, resolver identity.Resolver) *SchemaResource {
	return &SchemaResource{store: store, identity: resolver}
}

// URI returns the resource URI
func (r *SchemaResource) URI() string {
	return "retail://schema"
}

// Name returns the resource name
func (r *SchemaResource) Name() string {
	return "Retail Schema"
}

// Description returns the resource description
func (r *SchemaResource) Description() string {
	return "Columns, keys and references of the queryable retail tables"
}

// MimeType returns the MIME type
func (r *SchemaResource) MimeType() string {
	return "text/plain"
}

// GetContent returns the schema content
func (r *SchemaResource) GetContent(ctx context.Context) (interface{}, error) {
	return r.store.TableSchemas(ctx, append([]string(nil), retail.AllowedTables...), r.identity.Resolve(ctx))
}
