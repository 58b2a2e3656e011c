// Package projection produces the public, external-facing view of resolved
// content: internal styling and access-control fields are stripped at every
// nesting level, and pages, sections, and components whose access lists
// exclude the public role are removed.
//
// The reserved field set is injectable so the projector stays reusable; the
// default matches the engine's own page model.
package projection

import (
	"sort"

	"github.com/weftworks/weft/internal/content"
)

// DefaultPublicRole is the sentinel role granting projection to anonymous
// consumers.
const DefaultPublicRole = "public"

// DefaultReservedFields are the internal field names stripped from every
// level of a projected page: styling hooks, layout background, access lists,
// and the component tree (which is flattened into widgets instead).
var DefaultReservedFields = []string{"classes", "background", "access", "sections"}

// Field names consulted while walking the page layout.
const (
	accessField     = "access"
	sectionsField   = "sections"
	componentsField = "components"
)

// Widget is one component emitted from flattening a page's layout sections.
type Widget struct {
	Section   int                    `json:"section"`
	Slot      string                 `json:"slot"`
	Component map[string]interface{} `json:"component"`
}

// PublicPage is the access-filtered, style-stripped view of one page.
type PublicPage struct {
	Path    string                 `json:"path"`
	Fields  map[string]interface{} `json:"fields"`
	Widgets []Widget               `json:"widgets"`
}

// PublicSite is the full-site export consumed by external data APIs.
type PublicSite struct {
	Pages map[string]PublicPage  `json:"pages"`
	Menus map[string]interface{} `json:"menus,omitempty"`
}

// Projector strips internal fields and applies the public role check.
type Projector struct {
	reserved map[string]struct{}
	role     string
}

// NewProjector creates a projector. Nil reserved fields and an empty role
// fall back to the defaults.
func NewProjector(reservedFields []string, publicRole string) *Projector {
	if reservedFields == nil {
		reservedFields = DefaultReservedFields
	}
	if publicRole == "" {
		publicRole = DefaultPublicRole
	}

	reserved := make(map[string]struct{}, len(reservedFields))
	for _, f := range reservedFields {
		reserved[f] = struct{}{}
	}
	return &Projector{reserved: reserved, role: publicRole}
}

// ProjectPage produces the public view of a single resolved page. The second
// return value is false when the page's own access list denies the public
// role entirely.
func (p *Projector) ProjectPage(path string, page map[string]interface{}) (PublicPage, bool) {
	if !p.allowed(page) {
		return PublicPage{}, false
	}

	fields := make(map[string]interface{}, len(page))
	for k, v := range page {
		if _, isReserved := p.reserved[k]; isReserved {
			continue
		}
		fields[k] = p.strip(v)
	}

	return PublicPage{
		Path:    path,
		Fields:  fields,
		Widgets: p.flattenWidgets(page),
	}, true
}

// ProjectSite produces the full-site export: every publicly accessible page
// plus the menus namespace, all with reserved fields stripped.
func (p *Projector) ProjectSite(pages, menus content.Namespace) PublicSite {
	site := PublicSite{Pages: make(map[string]PublicPage, len(pages))}

	for path, node := range pages {
		page, ok := node.(map[string]interface{})
		if !ok {
			continue
		}
		if public, include := p.ProjectPage(path, page); include {
			site.Pages[path] = public
		}
	}

	if len(menus) > 0 {
		site.Menus = make(map[string]interface{}, len(menus))
		for name, node := range menus {
			site.Menus[name] = p.strip(node)
		}
	}

	return site
}

// flattenWidgets walks the declared layout sections and their component
// slots, emitting one widget per component that passes the public role check
// both for itself and for its enclosing section.
func (p *Projector) flattenWidgets(page map[string]interface{}) []Widget {
	sections, ok := page[sectionsField].([]interface{})
	if !ok {
		return nil
	}

	var widgets []Widget
	for sectionIndex, sectionNode := range sections {
		section, ok := sectionNode.(map[string]interface{})
		if !ok || !p.allowed(section) {
			continue
		}

		slots, ok := section[componentsField].(map[string]interface{})
		if !ok {
			continue
		}

		slotNames := make([]string, 0, len(slots))
		for name := range slots {
			slotNames = append(slotNames, name)
		}
		sort.Strings(slotNames)

		for _, slot := range slotNames {
			componentList, ok := slots[slot].([]interface{})
			if !ok {
				continue
			}
			for _, componentNode := range componentList {
				component, ok := componentNode.(map[string]interface{})
				if !ok || !p.allowed(component) {
					continue
				}
				widgets = append(widgets, Widget{
					Section:   sectionIndex,
					Slot:      slot,
					Component: p.stripMapping(component),
				})
			}
		}
	}

	return widgets
}

// allowed implements the public role check: an empty or missing access list
// grants projection, any other list must contain the public role.
func (p *Projector) allowed(node map[string]interface{}) bool {
	accessNode, present := node[accessField]
	if !present {
		return true
	}

	access, ok := accessNode.([]interface{})
	if !ok || len(access) == 0 {
		return true
	}

	for _, role := range access {
		if s, ok := role.(string); ok && s == p.role {
			return true
		}
	}
	return false
}

func (p *Projector) strip(node interface{}) interface{} {
	switch val := node.(type) {
	case map[string]interface{}:
		return p.stripMapping(val)
	case []interface{}:
		out := make([]interface{}, len(val))
		for i, item := range val {
			out[i] = p.strip(item)
		}
		return out
	default:
		return node
	}
}

func (p *Projector) stripMapping(node map[string]interface{}) map[string]interface{} {
	out := make(map[string]interface{}, len(node))
	for k, v := range node {
		if _, isReserved := p.reserved[k]; isReserved {
			continue
		}
		out[k] = p.strip(v)
	}
	return out
}
