package sourcepattern

import (
	"sort"
)

// UnknownPublisher is the key of the fallback body pattern.
const UnknownPublisher = "others"

// Registry keeps listing and body patterns by publisher key. It is populated
// once at startup and only read afterwards.
type Registry struct {
	listings map[string]ListingPattern
	bodies   map[string]BodyPattern
}

// NewRegistry builds an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		listings: map[string]ListingPattern{},
		bodies:   map[string]BodyPattern{},
	}
}

// RegisterListing adds or replaces a listing pattern.
func (r *Registry) RegisterListing(p ListingPattern) {
	if r.listings == nil {
		r.listings = map[string]ListingPattern{}
	}
	r.listings[p.Key] = p
}

// RegisterBody adds or replaces a body pattern.
func (r *Registry) RegisterBody(p BodyPattern) {
	if r.bodies == nil {
		r.bodies = map[string]BodyPattern{}
	}
	r.bodies[p.Key] = p
}

// Listing resolves the listing pattern for a publisher key.
func (r *Registry) Listing(key string) (ListingPattern, bool) {
	p, ok := r.listings[key]
	return p, ok
}

// Body resolves the body pattern for a publisher key, falling back to the
// union of every registered paragraph selector.
func (r *Registry) Body(key string) BodyPattern {
	if p, ok := r.bodies[key]; ok {
		return p
	}
	return r.fallback()
}

func (r *Registry) fallback() BodyPattern {
	seen := map[string]struct{}{}
	var selectors []string
	for _, key := range r.BodyKeys() {
		for _, sel := range r.bodies[key].Paragraphs {
			if _, ok := seen[sel]; ok {
				continue
			}
			seen[sel] = struct{}{}
			selectors = append(selectors, sel)
		}
	}
	return BodyPattern{Key: UnknownPublisher, Name: "Unknown", Paragraphs: selectors}
}

// ListingKeys returns the registered listing keys in sorted order.
func (r *Registry) ListingKeys() []string {
	return sortedKeys(r.listings)
}

// BodyKeys returns the registered body keys in sorted order.
func (r *Registry) BodyKeys() []string {
	return sortedKeys(r.bodies)
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
