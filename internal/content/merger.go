package content

// MergeTrees combines module-provided content trees with the project's own
// tree. Module trees merge in enumeration order, then the project tree merges
// on top: the project wins on key collision, nested mappings merge
// key-by-key, and sequences replace wholesale.
//
// The menus namespace is discarded from every module tree before merging.
// Navigation is project-only: a module must not be able to silently inject
// entries into the site's global menus.
func MergeTrees(moduleTrees []Tree, projectTree Tree) Tree {
	merged := make(Tree)

	for _, moduleTree := range moduleTrees {
		for specType, ns := range moduleTree {
			if specType == NamespaceMenus {
				continue
			}
			mergeNamespace(merged, specType, ns)
		}
	}

	for specType, ns := range projectTree {
		mergeNamespace(merged, specType, ns)
	}

	return merged
}

func mergeNamespace(dst Tree, specType string, src Namespace) {
	existing, ok := dst[specType]
	if !ok {
		existing = make(Namespace, len(src))
		dst[specType] = existing
	}

	for path, node := range src {
		prev, present := existing[path]
		if !present {
			existing[path] = DeepCopy(node)
			continue
		}
		prevMap, prevIsMap := prev.(map[string]interface{})
		nodeMap, nodeIsMap := node.(map[string]interface{})
		if prevIsMap && nodeIsMap {
			existing[path] = DeepMerge(prevMap, nodeMap)
		} else {
			existing[path] = DeepCopy(node)
		}
	}
}
