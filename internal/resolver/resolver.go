// Package resolver expands shared-fragment references inside page trees.
//
// A mapping that carries the reserved "component" key delegates its shape to
// an entry in the shared namespace; sibling keys are per-use-site overrides.
// Resolution inlines the shared node (deep-copied, so use sites never alias
// each other), layers the overrides on top, and resolves the result again so
// shared fragments can themselves reference further fragments. As a side
// effect, every resolved mapping whose type discriminator names a form kind
// and carries a name is indexed into a forms side-table.
package resolver

import (
	"context"
	"sort"

	"github.com/weftworks/weft/internal/content"
	"github.com/weftworks/weft/internal/errors"
	"github.com/weftworks/weft/internal/logging"
	"github.com/weftworks/weft/internal/registry"
)

// ReferenceKey is the reserved mapping key that marks a reference node.
const ReferenceKey = "component"

// Field names consulted on resolved mappings.
const (
	typeField = "type"
	nameField = "name"
)

// FormIndex maps a form name to its fully resolved definition.
type FormIndex map[string]interface{}

// Resolver expands references against a shared namespace.
type Resolver struct {
	kinds  *registry.KindRegistry
	logger logging.Logger
}

// New creates a resolver. A nil registry falls back to the built-in kinds,
// a nil logger to a no-op logger.
func New(kinds *registry.KindRegistry, logger logging.Logger) *Resolver {
	if kinds == nil {
		kinds = registry.Default()
	}
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &Resolver{
		kinds:  kinds,
		logger: logger.WithComponent("resolver"),
	}
}

// Resolve expands every reference node in every page against the shared
// namespace and returns the resolved pages together with the forms index.
// Inputs are not mutated. A shared fragment that references itself, directly
// or transitively, aborts resolution with a cycle error naming the chain.
func (r *Resolver) Resolve(ctx context.Context, pages, shared content.Namespace) (content.Namespace, FormIndex, error) {
	resolved := make(content.Namespace, len(pages))
	forms := make(FormIndex)

	for _, path := range sortedKeys(pages) {
		node, err := r.resolveNode(ctx, pages[path], shared, forms, nil)
		if err != nil {
			return nil, nil, err
		}
		resolved[path] = node
	}

	return resolved, forms, nil
}

// ResolveNode expands references inside a single node. Used for namespaces
// that allow references outside the page tree (menus pointing at shared
// link lists, for example).
func (r *Resolver) ResolveNode(ctx context.Context, node interface{}, shared content.Namespace) (interface{}, error) {
	return r.resolveNode(ctx, node, shared, make(FormIndex), nil)
}

func (r *Resolver) resolveNode(ctx context.Context, node interface{}, shared content.Namespace, forms FormIndex, visiting []string) (interface{}, error) {
	switch val := node.(type) {
	case []interface{}:
		out := make([]interface{}, len(val))
		for i, item := range val {
			resolved, err := r.resolveNode(ctx, item, shared, forms, visiting)
			if err != nil {
				return nil, err
			}
			out[i] = resolved
		}
		return out, nil

	case map[string]interface{}:
		if ref, ok := val[ReferenceKey].(string); ok {
			return r.expandReference(ctx, val, ref, shared, forms, visiting)
		}
		return r.resolveMapping(ctx, val, shared, forms, visiting)

	default:
		return node, nil
	}
}

func (r *Resolver) expandReference(ctx context.Context, node map[string]interface{}, ref string, shared content.Namespace, forms FormIndex, visiting []string) (interface{}, error) {
	sharedNode, ok := shared[ref]
	if !ok {
		// Pass-through keeps the use site's own fields visible instead of
		// failing the whole page over one broken reference. The validate
		// command reports these.
		r.logger.Warn(ctx, nil, "missing shared reference", "reference", ref)
		return content.DeepCopy(node), nil
	}

	for _, seen := range visiting {
		if seen == ref {
			return nil, errors.NewReferenceCycleError(append(chainCopy(visiting), ref))
		}
	}

	sharedMap, ok := sharedNode.(map[string]interface{})
	if !ok {
		// A scalar or sequence fragment has nothing to merge overrides into;
		// the shared value replaces the reference node wholesale.
		return content.DeepCopy(sharedNode), nil
	}

	overrides := make(map[string]interface{}, len(node))
	for k, v := range node {
		if k == ReferenceKey {
			continue
		}
		overrides[k] = v
	}

	merged := content.DeepMerge(sharedMap, overrides)
	return r.resolveNode(ctx, merged, shared, forms, append(chainCopy(visiting), ref))
}

func (r *Resolver) resolveMapping(ctx context.Context, node map[string]interface{}, shared content.Namespace, forms FormIndex, visiting []string) (interface{}, error) {
	out := make(map[string]interface{}, len(node))
	for k, v := range node {
		resolved, err := r.resolveNode(ctx, v, shared, forms, visiting)
		if err != nil {
			return nil, err
		}
		out[k] = resolved
	}

	if kind, ok := out[typeField].(string); ok && r.kinds.IsForm(kind) {
		if name, ok := out[nameField].(string); ok && name != "" {
			forms[name] = out
		}
	}

	return out, nil
}

// chainCopy copies the visiting chain so sibling expansions never share a
// backing array through append.
func chainCopy(chain []string) []string {
	out := make([]string, len(chain))
	copy(out, chain)
	return out
}

func sortedKeys(ns content.Namespace) []string {
	keys := make([]string, 0, len(ns))
	for k := range ns {
		keys = append(keys, k)
	}
	// Deterministic page order keeps form-index collisions reproducible.
	sort.Strings(keys)
	return keys
}
