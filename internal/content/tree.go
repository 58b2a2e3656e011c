// Package content implements the file-backed content store for weft: the
// directory-tree loader that discovers structured data files, the tree model
// they are parsed into, and the merge semantics that combine module-provided
// defaults with project overrides.
//
// Content is organized as a two-level namespace: a spec type (the first path
// segment under a content root, e.g. "pages" or "shared") and a spec path
// (the remaining segments joined by "/", extension stripped). Within one load
// pass a (type, path) pair is unique; collisions only arise across sources
// and are settled by explicit merge precedence.
package content

import "sort"

// Reserved top-level namespaces.
const (
	NamespacePages  = "pages"
	NamespaceShared = "shared"
	NamespaceMenus  = "menus"
	// NamespaceForms is derived during reference resolution, never authored.
	NamespaceForms = "forms"
)

// Namespace maps a spec path to its parsed node.
type Namespace map[string]interface{}

// Tree is the two-level content namespace: spec type -> spec path -> node.
type Tree map[string]Namespace

// Types returns the spec types present in the tree, sorted.
func (t Tree) Types() []string {
	types := make([]string, 0, len(t))
	for k := range t {
		types = append(types, k)
	}
	sort.Strings(types)
	return types
}

// Paths returns the spec paths in a namespace, sorted. A missing namespace
// yields an empty slice.
func (t Tree) Paths(specType string) []string {
	ns, ok := t[specType]
	if !ok {
		return nil
	}
	paths := make([]string, 0, len(ns))
	for k := range ns {
		paths = append(paths, k)
	}
	sort.Strings(paths)
	return paths
}

// DeepCopy returns a structurally independent copy of a parsed node. Mappings
// and sequences are copied recursively; scalars are returned as-is.
func DeepCopy(v interface{}) interface{} {
	switch val := v.(type) {
	case map[string]interface{}:
		out := make(map[string]interface{}, len(val))
		for k, item := range val {
			out[k] = DeepCopy(item)
		}
		return out
	case []interface{}:
		out := make([]interface{}, len(val))
		for i, item := range val {
			out[i] = DeepCopy(item)
		}
		return out
	default:
		return v
	}
}

// DeepMerge combines two mappings, with src winning on key collision. Nested
// mappings merge key-by-key; sequences and scalars are replaced wholesale.
// Neither input is mutated; the result shares no structure with either.
func DeepMerge(dst, src map[string]interface{}) map[string]interface{} {
	out := make(map[string]interface{}, len(dst)+len(src))
	for k, v := range dst {
		out[k] = DeepCopy(v)
	}
	for k, v := range src {
		existing, ok := out[k]
		if !ok {
			out[k] = DeepCopy(v)
			continue
		}
		dstMap, dstIsMap := existing.(map[string]interface{})
		srcMap, srcIsMap := v.(map[string]interface{})
		if dstIsMap && srcIsMap {
			out[k] = DeepMerge(dstMap, srcMap)
		} else {
			out[k] = DeepCopy(v)
		}
	}
	return out
}

// CopyTree returns a structurally independent copy of a full tree.
func CopyTree(t Tree) Tree {
	out := make(Tree, len(t))
	for specType, ns := range t {
		nsCopy := make(Namespace, len(ns))
		for path, node := range ns {
			nsCopy[path] = DeepCopy(node)
		}
		out[specType] = nsCopy
	}
	return out
}
