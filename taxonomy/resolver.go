// Package taxonomy resolves free-text attribute names to canonical slugged
// terms, creating missing terms through the catalog store.
package taxonomy

import (
	"context"
	"log/slog"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/wisdomrain/bookfeed/catalog"
)

const cacheSize = 512

// TermStore is the subset of the catalog store the resolver needs.
type TermStore interface {
	GetOrCreateTerm(ctx context.Context, taxonomy, name string) (catalog.Term, error)
}

// Resolver maps display names onto term slugs. It caches resolutions and
// tracks which taxonomy/slug pairs were first created during this run, for
// the import summary. A Resolver is scoped to one run; it is not safe for
// concurrent use.
type Resolver struct {
	store TermStore
	cache *lru.Cache[string, string]

	createdSet map[string]struct{}
	created    []string
	foundSet   map[string]struct{}
	found      []string
}

// NewResolver builds a run-scoped resolver over the given store.
func NewResolver(store TermStore) *Resolver {
	cache, _ := lru.New[string, string](cacheSize)
	return &Resolver{
		store:      store,
		cache:      cache,
		createdSet: make(map[string]struct{}),
		foundSet:   make(map[string]struct{}),
	}
}

// Resolve returns the canonical slug for a display name within a taxonomy.
// An empty name resolves to an empty slug. Store failures fall back to the
// deterministic slugification of the name so a bad term never fails an
// import row.
func (r *Resolver) Resolve(ctx context.Context, taxonomy, name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return ""
	}

	key := taxonomy + "|" + strings.ToLower(name)
	if slug, ok := r.cache.Get(key); ok {
		return slug
	}

	term, err := r.store.GetOrCreateTerm(ctx, taxonomy, name)
	if err != nil {
		slug := catalog.Slugify(name)
		slog.Warn("term resolution fell back to slugified name",
			slog.String("taxonomy", taxonomy),
			slog.String("name", name),
			slog.Any("error", err),
		)
		r.cache.Add(key, slug)
		return slug
	}

	if term.Created {
		r.recordCreated(taxonomy, term.Slug)
	}
	r.cache.Add(key, term.Slug)
	return term.Slug
}

func (r *Resolver) recordCreated(taxonomy, slug string) {
	if _, ok := r.foundSet[taxonomy]; !ok {
		r.foundSet[taxonomy] = struct{}{}
		r.found = append(r.found, taxonomy)
	}
	key := taxonomy + "|" + slug
	if _, ok := r.createdSet[key]; !ok {
		r.createdSet[key] = struct{}{}
		r.created = append(r.created, slug)
	}
}

// AttributesFound lists the taxonomies that had at least one term created
// during this run, in first-creation order.
func (r *Resolver) AttributesFound() []string {
	out := make([]string, len(r.found))
	copy(out, r.found)
	return out
}

// TermsCreated lists the slugs of terms created during this run, in
// first-creation order.
func (r *Resolver) TermsCreated() []string {
	out := make([]string, len(r.created))
	copy(out, r.created)
	return out
}
