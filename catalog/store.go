// Package catalog defines the store interface the import engine reconciles
// against, along with the field types that cross it.
package catalog

import "context"

// Attribute taxonomies the importer declares on every variable parent.
const (
	TaxonomyLanguage = "language"
	TaxonomyFormat   = "format"
)

// Parent product lifecycle values.
const (
	ProductTypeVariable = "variable"
	StatusPublish       = "publish"
)

// Term is an attribute term within a taxonomy. Created reports whether the
// call that returned it had to insert the term.
type Term struct {
	ID      int64
	Slug    string
	Name    string
	Created bool
}

// ParentFields populate a parent product on creation. Title and Slug are
// fixed at creation time and never rewritten by updates.
type ParentFields struct {
	GroupID     string
	Title       string
	Slug        string
	Description string
	Excerpt     string
}

// ParentUpdate patches an existing parent. Nil fields are left untouched,
// so an empty incoming value can never blank stored content.
type ParentUpdate struct {
	Description *string
	Excerpt     *string
}

// SEOMeta carries the search metadata applied to a parent product.
type SEOMeta struct {
	FocusKeyword string
	Title        string
	Description  string
}

// Download is one downloadable file entry on a variation.
type Download struct {
	ID   string
	Name string
	URL  string
}

// VariationFields populate a variation on creation.
type VariationFields struct {
	RegularPrice string
	SalePrice    string
	StockStatus  string
	Status       string
	Attributes   map[string]string
	Downloads    []Download
	Downloadable bool
	Virtual      bool
}

// VariationUpdate patches an existing variation. Nil fields are left
// untouched. A non-nil Downloads replaces the stored list entirely; an
// empty replacement also clears the downloadable/virtual flags.
type VariationUpdate struct {
	RegularPrice *string
	SalePrice    *string
	StockStatus  *string
	Downloads    *[]Download
}

// Store is the catalog backend the reconciler mutates. Implementations are
// not safe for concurrent import runs; the engine processes groups
// strictly sequentially.
type Store interface {
	FindParentByGroupID(ctx context.Context, groupID string) (int64, error)
	CreateParent(ctx context.Context, fields ParentFields) (int64, error)
	UpdateParent(ctx context.Context, id int64, patch ParentUpdate) error
	SetParentType(ctx context.Context, id int64, productType string) error
	SetSEOMeta(ctx context.Context, id int64, meta SEOMeta) error

	DeclareVariationAttributes(ctx context.Context, id int64, taxonomies []string) error
	AddParentAttributeValue(ctx context.Context, id int64, taxonomy, slug string) error
	AssignCategories(ctx context.Context, id int64, parentCategory, subcategory string) error
	GetOrCreateTerm(ctx context.Context, taxonomy, name string) (Term, error)

	FindVariations(ctx context.Context, parentID int64, attributes map[string]string) ([]int64, error)
	CreateVariation(ctx context.Context, parentID int64, fields VariationFields) (int64, error)
	UpdateVariation(ctx context.Context, id int64, patch VariationUpdate) error
	SetVariationAttributes(ctx context.Context, id int64, attributes map[string]string) error

	AttachImage(ctx context.Context, parentID int64, url string) (int64, error)
	SetFeaturedImage(ctx context.Context, parentID, assetID int64) error
	FeaturedImage(ctx context.Context, parentID int64) (int64, error)
	MergeGallery(ctx context.Context, parentID int64, assetIDs []int64) error

	SyncVariableProduct(ctx context.Context, parentID int64) error
	ListPublishedParents(ctx context.Context) ([]int64, error)
}
