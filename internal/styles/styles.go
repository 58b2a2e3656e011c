// Package styles implements the themeable style cascade: a theme-defined
// style tree deep-merged with a project override tree, @group references
// expanded inside class strings, and conflicting utility classes reconciled
// so the last-applied class wins within one CSS property group.
//
// Styling is cosmetic, so this package never fails resolution: a missing or
// malformed style file degrades to an empty tree and a logged warning.
package styles

import (
	"context"
	"os"
	"regexp"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/weftworks/weft/internal/config"
	"github.com/weftworks/weft/internal/content"
	"github.com/weftworks/weft/internal/logging"
)

// groupToken matches an @group reference inside a class string.
var groupToken = regexp.MustCompile(`@[A-Za-z0-9_-]+`)

// Options configures a style resolver.
type Options struct {
	// ThemePath is the theme-defined style tree file.
	ThemePath string
	// UserPath is the project's override style tree, merged on top.
	UserPath string
	// Mode controls caching: production loads once, development reloads on
	// every access.
	Mode config.Mode
	// Logger receives degradation warnings. Nil means no-op.
	Logger logging.Logger
}

// Resolver resolves per-identifier class maps against the merged style tree.
type Resolver struct {
	opts   Options
	logger logging.Logger

	mu     sync.Mutex
	cached map[string]interface{}
	loaded bool
}

// NewResolver creates a style resolver.
func NewResolver(opts Options) *Resolver {
	logger := opts.Logger
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &Resolver{
		opts:   opts,
		logger: logger.WithComponent("styles"),
	}
}

// Tree returns the merged style tree, loading it according to the caching
// mode. The returned map is the shared cache; callers must not mutate it.
func (r *Resolver) Tree(ctx context.Context) map[string]interface{} {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.loaded && r.opts.Mode == config.ModeProduction {
		return r.cached
	}

	theme := r.loadFile(ctx, r.opts.ThemePath)
	user := r.loadFile(ctx, r.opts.UserPath)
	r.cached = content.DeepMerge(theme, user)
	r.loaded = true
	return r.cached
}

// Invalidate drops the cached style tree. The next access reloads from disk.
func (r *Resolver) Invalidate() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.loaded = false
	r.cached = nil
}

// GetClasses resolves the theme defaults for an identifier together with the
// caller-supplied overrides. Both sides have @group references expanded and
// utility conflicts reconciled, then the override result is deep-merged on
// top of the theme defaults (override wins per field).
//
// A theme entry that is a bare class string is returned under the "root"
// field so the result shape is uniform.
func (r *Resolver) GetClasses(ctx context.Context, identifier string, overrides map[string]interface{}) map[string]interface{} {
	tree := r.Tree(ctx)

	themeClasses := toClassMap(tree[identifier])
	resolved := r.resolveClassMap(themeClasses, tree)

	if len(overrides) > 0 {
		resolvedOverrides := r.resolveClassMap(overrides, tree)
		resolved = content.DeepMerge(resolved, resolvedOverrides)
	}

	return resolved
}

// ResolveClassString expands @group references in a single class string and
// reconciles utility conflicts.
func (r *Resolver) ResolveClassString(ctx context.Context, classes string) string {
	return resolveString(classes, r.Tree(ctx), nil)
}

// resolveClassMap resolves every field of a class map: strings go through
// the class-string resolver, nested mappings recurse, anything else passes
// through unchanged.
func (r *Resolver) resolveClassMap(classMap map[string]interface{}, tree map[string]interface{}) map[string]interface{} {
	out := make(map[string]interface{}, len(classMap))
	for field, value := range classMap {
		switch val := value.(type) {
		case string:
			out[field] = resolveString(val, tree, nil)
		case map[string]interface{}:
			out[field] = r.resolveClassMap(val, tree)
		default:
			out[field] = value
		}
	}
	return out
}

// resolveString splices expanded group values into the class string, then
// reconciles conflicting utility classes (last occurrence wins). The visiting
// set breaks group reference cycles; a cyclic group expands to nothing.
func resolveString(classes string, tree map[string]interface{}, visiting map[string]bool) string {
	expanded := groupToken.ReplaceAllStringFunc(classes, func(token string) string {
		group := token[1:]
		if visiting[group] {
			return ""
		}
		value, ok := tree[group].(string)
		if !ok {
			return ""
		}

		next := make(map[string]bool, len(visiting)+1)
		for k := range visiting {
			next[k] = true
		}
		next[group] = true
		return resolveString(value, tree, next)
	})

	return ReconcileClasses(expanded)
}

func toClassMap(value interface{}) map[string]interface{} {
	switch val := value.(type) {
	case map[string]interface{}:
		return val
	case string:
		return map[string]interface{}{"root": val}
	default:
		return map[string]interface{}{}
	}
}

// loadFile reads one style tree file. Any failure degrades to an empty tree:
// styling must never take down content resolution.
func (r *Resolver) loadFile(ctx context.Context, path string) map[string]interface{} {
	if path == "" {
		return map[string]interface{}{}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			r.logger.Warn(ctx, err, "failed to read style file", "path", path)
		}
		return map[string]interface{}{}
	}

	var tree map[string]interface{}
	if err := yaml.Unmarshal(data, &tree); err != nil {
		r.logger.Warn(ctx, err, "failed to parse style file, ignoring it", "path", path)
		return map[string]interface{}{}
	}
	if tree == nil {
		return map[string]interface{}{}
	}

	r.logger.Debug(ctx, "loaded style file", "path", path, "entries", len(tree))
	return tree
}

// ReconcileClasses deduplicates utility classes targeting the same CSS
// property, keeping the last occurrence, and collapses repeated whitespace.
func ReconcileClasses(classes string) string {
	fields := strings.Fields(classes)
	if len(fields) == 0 {
		return ""
	}

	out := make([]string, 0, len(fields))
	position := make(map[string]int, len(fields))

	for _, class := range fields {
		key := conflictKey(class)
		if prev, seen := position[key]; seen {
			// Drop the earlier class and keep the later one at the end.
			out = append(out[:prev], out[prev+1:]...)
			for k, idx := range position {
				if idx > prev {
					position[k] = idx - 1
				}
			}
		}
		position[key] = len(out)
		out = append(out, class)
	}

	return strings.Join(out, " ")
}
