package projection

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/weftworks/weft/internal/content"
)

func page(sections ...interface{}) map[string]interface{} {
	return map[string]interface{}{
		"title":    "Home",
		"classes":  "bg-white",
		"sections": sections,
	}
}

func section(access []interface{}, slots map[string]interface{}) map[string]interface{} {
	s := map[string]interface{}{"components": slots}
	if access != nil {
		s["access"] = access
	}
	return s
}

func TestProjectPageStripsReservedFields(t *testing.T) {
	p := NewProjector(nil, "")
	public, ok := p.ProjectPage("home", map[string]interface{}{
		"title":      "Home",
		"classes":    "bg-white p-4",
		"background": "hero.jpg",
		"access":     []interface{}{},
		"meta": map[string]interface{}{
			"description": "d",
			"classes":     "text-sm",
		},
		"sections": []interface{}{},
	})

	require.True(t, ok)
	assert.Equal(t, "Home", public.Fields["title"])
	assert.NotContains(t, public.Fields, "classes")
	assert.NotContains(t, public.Fields, "background")
	assert.NotContains(t, public.Fields, "access")
	assert.NotContains(t, public.Fields, "sections")

	meta := public.Fields["meta"].(map[string]interface{})
	assert.Equal(t, "d", meta["description"])
	assert.NotContains(t, meta, "classes")
}

func TestAccessFiltering(t *testing.T) {
	tests := []struct {
		name    string
		access  interface{}
		visible bool
	}{
		{"no access field", nil, true},
		{"empty access list", []interface{}{}, true},
		{"public only", []interface{}{"public"}, true},
		{"admin and public", []interface{}{"admin", "public"}, true},
		{"admin only", []interface{}{"admin"}, false},
		{"several private roles", []interface{}{"admin", "editor"}, false},
	}

	p := NewProjector(nil, "")
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			component := map[string]interface{}{"type": "CallToAction"}
			if tt.access != nil {
				component["access"] = tt.access
			}
			pg := page(section(nil, map[string]interface{}{
				"main": []interface{}{component},
			}))

			public, ok := p.ProjectPage("home", pg)
			require.True(t, ok)
			if tt.visible {
				assert.Len(t, public.Widgets, 1)
			} else {
				assert.Empty(t, public.Widgets)
			}
		})
	}
}

func TestSectionAccessGatesComponents(t *testing.T) {
	p := NewProjector(nil, "")
	pg := page(
		section([]interface{}{"admin"}, map[string]interface{}{
			"main": []interface{}{map[string]interface{}{"type": "Hero"}},
		}),
		section(nil, map[string]interface{}{
			"main": []interface{}{map[string]interface{}{"type": "CallToAction"}},
		}),
	)

	public, ok := p.ProjectPage("home", pg)
	require.True(t, ok)
	require.Len(t, public.Widgets, 1)
	assert.Equal(t, "CallToAction", public.Widgets[0].Component["type"])
	assert.Equal(t, 1, public.Widgets[0].Section)
}

func TestWidgetsOrderedBySectionThenSlot(t *testing.T) {
	p := NewProjector(nil, "")
	pg := page(
		section(nil, map[string]interface{}{
			"sidebar": []interface{}{map[string]interface{}{"id": "s0-sidebar"}},
			"main": []interface{}{
				map[string]interface{}{"id": "s0-main-0"},
				map[string]interface{}{"id": "s0-main-1"},
			},
		}),
		section(nil, map[string]interface{}{
			"main": []interface{}{map[string]interface{}{"id": "s1-main"}},
		}),
	)

	public, ok := p.ProjectPage("home", pg)
	require.True(t, ok)

	var ids []string
	for _, w := range public.Widgets {
		ids = append(ids, w.Component["id"].(string))
	}
	assert.Equal(t, []string{"s0-main-0", "s0-main-1", "s0-sidebar", "s1-main"}, ids)
}

func TestWidgetComponentsAreStripped(t *testing.T) {
	p := NewProjector(nil, "")
	pg := page(section(nil, map[string]interface{}{
		"main": []interface{}{map[string]interface{}{
			"type":    "CallToAction",
			"classes": "btn",
			"access":  []interface{}{"public"},
		}},
	}))

	public, ok := p.ProjectPage("home", pg)
	require.True(t, ok)
	require.Len(t, public.Widgets, 1)
	assert.NotContains(t, public.Widgets[0].Component, "classes")
	assert.NotContains(t, public.Widgets[0].Component, "access")
}

func TestPrivatePageExcluded(t *testing.T) {
	p := NewProjector(nil, "")

	_, ok := p.ProjectPage("internal", map[string]interface{}{
		"title":  "Internal",
		"access": []interface{}{"staff"},
	})
	assert.False(t, ok)
}

func TestProjectSite(t *testing.T) {
	p := NewProjector(nil, "")
	pages := content.Namespace{
		"home":   map[string]interface{}{"title": "Home"},
		"secret": map[string]interface{}{"title": "Secret", "access": []interface{}{"admin"}},
	}
	menus := content.Namespace{
		"main": map[string]interface{}{
			"items":   []interface{}{map[string]interface{}{"label": "Home", "classes": "nav-item"}},
			"classes": "nav",
		},
	}

	site := p.ProjectSite(pages, menus)

	assert.Contains(t, site.Pages, "home")
	assert.NotContains(t, site.Pages, "secret")

	main := site.Menus["main"].(map[string]interface{})
	assert.NotContains(t, main, "classes")
	item := main["items"].([]interface{})[0].(map[string]interface{})
	assert.NotContains(t, item, "classes")
	assert.Equal(t, "Home", item["label"])
}

func TestCustomReservedFieldsAndRole(t *testing.T) {
	p := NewProjector([]string{"internal"}, "anonymous")

	public, ok := p.ProjectPage("home", map[string]interface{}{
		"title":    "Home",
		"internal": "hidden",
		"classes":  "kept with custom reserved set",
		"access":   []interface{}{"anonymous"},
	})

	require.True(t, ok)
	assert.NotContains(t, public.Fields, "internal")
	assert.Contains(t, public.Fields, "classes")
	assert.Contains(t, public.Fields, "access")
}

func TestNonRoleAccessValueFailsOpen(t *testing.T) {
	p := NewProjector(nil, "")

	_, ok := p.ProjectPage("home", map[string]interface{}{
		"title":  "Home",
		"access": "not-a-list",
	})
	assert.True(t, ok)
}
