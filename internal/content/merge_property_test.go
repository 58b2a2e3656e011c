//go:build property
// +build property

package content

import (
	"reflect"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

// flatNode builds a flat mapping from generated keys, giving each key a
// value derived from its position so collisions across dst/src are visible.
func flatNode(keys []string, marker string) map[string]interface{} {
	node := make(map[string]interface{}, len(keys))
	for i, k := range keys {
		node[k] = marker + k
		if i%3 == 0 {
			node[k] = i
		}
	}
	return node
}

func genKeys() gopter.Gen {
	return gen.SliceOfN(6, gen.RegexMatch(`^[a-z]{1,8}$`))
}

func TestMergeProperties(t *testing.T) {
	properties := gopter.NewProperties(nil)

	// Property: every key of src appears in the result with src's value.
	properties.Property("src wins per key", prop.ForAll(
		func(dstKeys, srcKeys []string) bool {
			dst := flatNode(dstKeys, "dst-")
			src := flatNode(srcKeys, "src-")
			out := DeepMerge(dst, src)
			for k, v := range src {
				if !reflect.DeepEqual(out[k], v) {
					return false
				}
			}
			return true
		},
		genKeys(),
		genKeys(),
	))

	// Property: keys only in dst survive the merge untouched.
	properties.Property("dst-only keys survive", prop.ForAll(
		func(dstKeys, srcKeys []string) bool {
			dst := flatNode(dstKeys, "dst-")
			src := flatNode(srcKeys, "src-")
			out := DeepMerge(dst, src)
			for k, v := range dst {
				if _, shadowed := src[k]; shadowed {
					continue
				}
				if !reflect.DeepEqual(out[k], v) {
					return false
				}
			}
			return true
		},
		genKeys(),
		genKeys(),
	))

	// Property: merging with an empty src is an identity.
	properties.Property("empty src is identity", prop.ForAll(
		func(dstKeys []string) bool {
			dst := flatNode(dstKeys, "dst-")
			return reflect.DeepEqual(DeepMerge(dst, map[string]interface{}{}), dst)
		},
		genKeys(),
	))

	// Property: merge is idempotent when repeated with the same src.
	properties.Property("repeated merge is stable", prop.ForAll(
		func(dstKeys, srcKeys []string) bool {
			dst := flatNode(dstKeys, "dst-")
			src := flatNode(srcKeys, "src-")
			once := DeepMerge(dst, src)
			twice := DeepMerge(once, src)
			return reflect.DeepEqual(once, twice)
		},
		genKeys(),
		genKeys(),
	))

	properties.TestingRun(t)
}

func TestMergeTreeProperties(t *testing.T) {
	properties := gopter.NewProperties(nil)

	// Property: a module-provided menus namespace never reaches the result.
	properties.Property("module menus excluded", prop.ForAll(
		func(paths []string) bool {
			ns := make(Namespace)
			for _, p := range paths {
				ns[p] = map[string]interface{}{"items": []interface{}{p}}
			}
			merged := MergeTrees([]Tree{{NamespaceMenus: ns}}, Tree{})
			_, present := merged[NamespaceMenus]
			return !present
		},
		gen.SliceOf(gen.RegexMatch(`^[a-z]{1,8}$`)),
	))

	properties.TestingRun(t)
}
