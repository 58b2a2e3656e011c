package resolver

import (
	"fmt"
	"sort"

	"github.com/weftworks/weft/internal/content"
)

// Finding reports a content-authoring problem discovered by Validate.
type Finding struct {
	// Page is the spec path of the page containing the problem.
	Page string
	// Location is a slash/index path from the page root to the node.
	Location string
	// Message describes the problem.
	Message string
}

func (f Finding) String() string {
	return fmt.Sprintf("pages/%s: %s: %s", f.Page, f.Location, f.Message)
}

// Validate walks the unresolved page namespace and reports every reference
// with no matching shared entry and every form definition missing a name.
// Missing references are deliberately non-fatal during resolution, so this
// pass is how authoring bugs become visible before deploy.
func (r *Resolver) Validate(pages, shared content.Namespace) []Finding {
	var findings []Finding

	paths := make([]string, 0, len(pages))
	for p := range pages {
		paths = append(paths, p)
	}
	sort.Strings(paths)

	for _, page := range paths {
		findings = append(findings, r.validateNode(page, "", pages[page], shared)...)
	}
	return findings
}

func (r *Resolver) validateNode(page, location string, node interface{}, shared content.Namespace) []Finding {
	var findings []Finding

	switch val := node.(type) {
	case []interface{}:
		for i, item := range val {
			findings = append(findings, r.validateNode(page, fmt.Sprintf("%s[%d]", location, i), item, shared)...)
		}

	case map[string]interface{}:
		if ref, ok := val[ReferenceKey].(string); ok {
			if _, exists := shared[ref]; !exists {
				findings = append(findings, Finding{
					Page:     page,
					Location: location,
					Message:  fmt.Sprintf("reference to unknown shared fragment %q", ref),
				})
			}
		}
		if kind, ok := val[typeField].(string); ok && r.kinds.IsForm(kind) {
			if name, _ := val[nameField].(string); name == "" {
				findings = append(findings, Finding{
					Page:     page,
					Location: location,
					Message:  "form definition has no name and cannot be indexed",
				})
			}
		}

		keys := make([]string, 0, len(val))
		for k := range val {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			findings = append(findings, r.validateNode(page, joinLocation(location, k), val[k], shared)...)
		}
	}

	return findings
}

func joinLocation(location, key string) string {
	if location == "" {
		return key
	}
	return location + "/" + key
}
