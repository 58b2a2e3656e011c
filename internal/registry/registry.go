// Package registry provides the component kind registry: an explicit,
// enumerable table mapping a content node's type discriminator to its
// descriptor. Renderers and the reference resolver consult this table instead
// of reflecting over arbitrary constructible types; in particular the form
// marker used to populate the forms index comes from here.
package registry

import (
	"sort"
	"sync"
)

// Descriptor describes a registered component kind.
type Descriptor struct {
	// Kind is the machine name matched against a node's type field.
	Kind string
	// Form marks kinds whose resolved nodes are indexed by name into the
	// forms namespace.
	Form bool
	// Description is a short human-readable summary for CLI listings.
	Description string
}

// KindRegistry manages all registered component kinds.
type KindRegistry struct {
	kinds map[string]Descriptor
	mutex sync.RWMutex
}

// NewKindRegistry creates an empty kind registry.
func NewKindRegistry() *KindRegistry {
	return &KindRegistry{
		kinds: make(map[string]Descriptor),
	}
}

// Register adds or replaces a kind in the registry.
func (r *KindRegistry) Register(d Descriptor) {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	r.kinds[d.Kind] = d
}

// Get retrieves a kind descriptor by machine name.
func (r *KindRegistry) Get(kind string) (Descriptor, bool) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()
	d, ok := r.kinds[kind]
	return d, ok
}

// IsForm reports whether a kind is indexed as a form definition.
func (r *KindRegistry) IsForm(kind string) bool {
	r.mutex.RLock()
	defer r.mutex.RUnlock()
	d, ok := r.kinds[kind]
	return ok && d.Form
}

// Kinds returns all registered kind names, sorted.
func (r *KindRegistry) Kinds() []string {
	r.mutex.RLock()
	defer r.mutex.RUnlock()
	names := make([]string, 0, len(r.kinds))
	for name := range r.kinds {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Default returns the registry of built-in component kinds. The set is fixed
// and built at startup; projects extend it through Register, not reflection.
func Default() *KindRegistry {
	r := NewKindRegistry()
	for _, d := range []Descriptor{
		{Kind: "CallToAction", Description: "button or link block with a target"},
		{Kind: "Hero", Description: "full-width page header section"},
		{Kind: "Markdown", Description: "markdown-authored rich text block"},
		{Kind: "Image", Description: "single responsive image"},
		{Kind: "Gallery", Description: "ordered collection of images"},
		{Kind: "Form", Form: true, Description: "submittable form definition"},
	} {
		r.Register(d)
	}
	return r
}
