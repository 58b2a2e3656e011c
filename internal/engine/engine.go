// Package engine wires the content loader, source merger, and reference
// resolver into the process-wide content store, and owns its caching
// lifecycle: in development mode every access rebuilds from disk, in
// production mode the store is computed once per process and reused.
package engine

import (
	"context"
	"sync"

	"github.com/weftworks/weft/internal/config"
	"github.com/weftworks/weft/internal/content"
	"github.com/weftworks/weft/internal/errors"
	"github.com/weftworks/weft/internal/logging"
	"github.com/weftworks/weft/internal/projection"
	"github.com/weftworks/weft/internal/registry"
	"github.com/weftworks/weft/internal/resolver"
)

// Options configures an engine.
type Options struct {
	// ContentRoot is the project's own content directory, the override layer.
	ContentRoot string
	// ModulesDir is scanned for installed modules contributing content.
	ModulesDir string
	// Mode selects the caching behavior.
	Mode config.Mode
	// Kinds is the component kind registry. Nil means the built-in set.
	Kinds *registry.KindRegistry
	// ReservedFields overrides the projection's reserved field set.
	ReservedFields []string
	// PublicRole overrides the projection's public role sentinel.
	PublicRole string
	// Logger receives progress and degradation logs. Nil means no-op.
	Logger logging.Logger
}

// Store is one fully resolved content snapshot. It is shared by reference
// across callers within a process; accessors hand out deep copies so callers
// cannot corrupt the cache.
type Store struct {
	tree  content.Tree
	forms resolver.FormIndex
}

// Namespace returns a deep copy of a top-level namespace. Requesting a
// namespace that does not exist is a programming error in the caller and
// yields an unknown-namespace error.
func (s *Store) Namespace(name string) (content.Namespace, error) {
	ns, ok := s.tree[name]
	if !ok {
		return nil, errors.NewUnknownNamespaceError(name)
	}

	out := make(content.Namespace, len(ns))
	for path, node := range ns {
		out[path] = content.DeepCopy(node)
	}
	return out, nil
}

// Forms returns a deep copy of the derived form index.
func (s *Store) Forms() resolver.FormIndex {
	out := make(resolver.FormIndex, len(s.forms))
	for name, node := range s.forms {
		out[name] = content.DeepCopy(node)
	}
	return out
}

// Page returns a deep copy of one resolved page, or false if no page exists
// at that path.
func (s *Store) Page(path string) (interface{}, bool) {
	node, ok := s.tree[content.NamespacePages][path]
	if !ok {
		return nil, false
	}
	return content.DeepCopy(node), true
}

// Namespaces returns the available top-level namespace names, sorted.
func (s *Store) Namespaces() []string {
	return s.tree.Types()
}

// Engine resolves content from disk and caches the result per its mode.
type Engine struct {
	opts      Options
	loader    *content.Loader
	resolver  *resolver.Resolver
	projector *projection.Projector
	logger    logging.Logger

	mu     sync.Mutex
	cached *Store
}

// New creates an engine from options.
func New(opts Options) *Engine {
	logger := opts.Logger
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	if opts.Mode == "" {
		opts.Mode = config.ModeDevelopment
	}

	return &Engine{
		opts:      opts,
		loader:    content.NewLoader(logger),
		resolver:  resolver.New(opts.Kinds, logger),
		projector: projection.NewProjector(opts.ReservedFields, opts.PublicRole),
		logger:    logger.WithComponent("engine"),
	}
}

// Content returns the resolved content store. In production mode repeated
// calls return the same store without touching disk; in development mode
// every call rebuilds from disk.
func (e *Engine) Content(ctx context.Context) (*Store, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.cached != nil && e.opts.Mode == config.ModeProduction {
		return e.cached, nil
	}

	store, err := e.build(ctx)
	if err != nil {
		return nil, err
	}
	e.cached = store
	return store, nil
}

// Invalidate drops the cached store. The next Content call rebuilds it.
func (e *Engine) Invalidate() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.cached = nil
	e.logger.Debug(context.Background(), "content cache invalidated")
}

// Export produces the access-filtered public site export.
func (e *Engine) Export(ctx context.Context) (projection.PublicSite, error) {
	store, err := e.Content(ctx)
	if err != nil {
		return projection.PublicSite{}, err
	}

	pages := store.tree[content.NamespacePages]
	menus := store.tree[content.NamespaceMenus]
	return e.projector.ProjectSite(pages, menus), nil
}

// Validate loads and merges content without resolving it, then reports
// authoring problems: references to unknown shared fragments and nameless
// form definitions.
func (e *Engine) Validate(ctx context.Context) ([]resolver.Finding, error) {
	merged, err := e.loadMerged(ctx)
	if err != nil {
		return nil, err
	}
	return e.resolver.Validate(merged[content.NamespacePages], merged[content.NamespaceShared]), nil
}

func (e *Engine) build(ctx context.Context) (*Store, error) {
	merged, err := e.loadMerged(ctx)
	if err != nil {
		return nil, err
	}

	pages, forms, err := e.resolver.Resolve(ctx, merged[content.NamespacePages], merged[content.NamespaceShared])
	if err != nil {
		return nil, err
	}

	menus := make(content.Namespace, len(merged[content.NamespaceMenus]))
	for name, node := range merged[content.NamespaceMenus] {
		resolved, err := e.resolver.ResolveNode(ctx, node, merged[content.NamespaceShared])
		if err != nil {
			return nil, err
		}
		menus[name] = resolved
	}

	tree := merged
	tree[content.NamespacePages] = pages
	tree[content.NamespaceMenus] = menus
	tree[content.NamespaceForms] = content.Namespace(forms)

	e.logger.Info(ctx, "content resolved",
		"pages", len(pages),
		"forms", len(forms),
		"namespaces", len(tree))

	return &Store{tree: tree, forms: forms}, nil
}

// loadMerged scans all module content roots and the project root and merges
// them with project precedence. The reserved namespaces always exist in the
// result, even when empty, so requesting them is never an error.
func (e *Engine) loadMerged(ctx context.Context) (content.Tree, error) {
	moduleRoots, err := e.loader.DiscoverModuleRoots(ctx, e.opts.ModulesDir)
	if err != nil {
		return nil, err
	}

	moduleTrees := make([]content.Tree, 0, len(moduleRoots))
	for _, root := range moduleRoots {
		tree, err := e.loader.Scan(ctx, root)
		if err != nil {
			return nil, err
		}
		moduleTrees = append(moduleTrees, tree)
	}

	projectTree, err := e.loader.Scan(ctx, e.opts.ContentRoot)
	if err != nil {
		return nil, err
	}

	merged := content.MergeTrees(moduleTrees, projectTree)
	for _, ns := range []string{content.NamespacePages, content.NamespaceShared, content.NamespaceMenus} {
		if _, ok := merged[ns]; !ok {
			merged[ns] = make(content.Namespace)
		}
	}
	return merged, nil
}
