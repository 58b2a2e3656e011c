package content

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"golang.org/x/text/unicode/norm"
	"gopkg.in/yaml.v3"

	"github.com/weftworks/weft/internal/errors"
	"github.com/weftworks/weft/internal/logging"
)

// Loader scans directory trees of structured data files into content trees.
type Loader struct {
	logger logging.Logger
}

// NewLoader creates a loader. A nil logger falls back to a no-op logger.
func NewLoader(logger logging.Logger) *Loader {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &Loader{logger: logger.WithComponent("loader")}
}

// Scan recursively enumerates all structured data files under root and
// indexes them by (spec type, spec path). A missing root is treated as an
// empty tree. A file that fails to parse fails the whole scan with an error
// identifying the file; silent partial loads are not acceptable for content
// that drives a live site.
func (l *Loader) Scan(ctx context.Context, root string) (Tree, error) {
	tree := make(Tree)

	info, err := os.Stat(root)
	if os.IsNotExist(err) {
		l.logger.Debug(ctx, "content root missing, treating as empty", "root", root)
		return tree, nil
	}
	if err != nil {
		return nil, errors.NewIOError("failed to stat content root", err).WithFile(root)
	}
	if !info.IsDir() {
		return nil, errors.NewIOError("content root is not a directory", nil).WithFile(root)
	}

	count := 0
	walkErr := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return errors.NewIOError("failed to read content entry", err).WithFile(path)
		}
		if d.IsDir() {
			return nil
		}
		if !isDataFile(path) {
			return nil
		}

		specType, specPath, ok := splitSpecKey(root, path)
		if !ok {
			// A data file directly under the root has no namespace segment.
			l.logger.Warn(ctx, nil, "ignoring data file outside a namespace directory", "path", path)
			return nil
		}

		node, err := parseFile(path)
		if err != nil {
			return err
		}

		ns, exists := tree[specType]
		if !exists {
			ns = make(Namespace)
			tree[specType] = ns
		}
		ns[specPath] = node
		count++
		return nil
	})
	if walkErr != nil {
		return nil, walkErr
	}

	l.logger.Debug(ctx, "scanned content root", "root", root, "files", count)
	return tree, nil
}

// DiscoverModuleRoots scans a fixed modules directory and returns the content
// root of every installed module that ships one, in sorted (deterministic)
// order. A missing modules directory contributes no roots.
func (l *Loader) DiscoverModuleRoots(ctx context.Context, modulesDir string) ([]string, error) {
	entries, err := os.ReadDir(modulesDir)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.NewIOError("failed to read modules directory", err).WithFile(modulesDir)
	}

	var roots []string
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		contentDir := filepath.Join(modulesDir, entry.Name(), "content")
		if info, err := os.Stat(contentDir); err == nil && info.IsDir() {
			roots = append(roots, contentDir)
		}
	}
	sort.Strings(roots)

	l.logger.Debug(ctx, "discovered module content roots", "modules_dir", modulesDir, "count", len(roots))
	return roots, nil
}

func isDataFile(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return true
	default:
		return false
	}
}

// splitSpecKey derives the (spec type, spec path) pair from a file's location
// relative to its root. Path segments are NFC-normalized so files named on
// NFD filesystems resolve under the key authors type in references.
func splitSpecKey(root, path string) (specType, specPath string, ok bool) {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return "", "", false
	}
	rel = filepath.ToSlash(rel)
	rel = strings.TrimSuffix(rel, filepath.Ext(rel))

	segments := strings.Split(rel, "/")
	if len(segments) < 2 {
		return "", "", false
	}

	specType = norm.NFC.String(segments[0])
	specPath = norm.NFC.String(strings.Join(segments[1:], "/"))
	return specType, specPath, true
}

func parseFile(path string) (interface{}, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.NewIOError("failed to read content file", err).WithFile(path)
	}

	var node interface{}
	if err := yaml.Unmarshal(data, &node); err != nil {
		return nil, errors.NewParseError(path, err)
	}
	return node, nil
}
