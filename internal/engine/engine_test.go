package engine

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/weftworks/weft/internal/config"
	"github.com/weftworks/weft/internal/content"
	"github.com/weftworks/weft/internal/errors"
	"github.com/weftworks/weft/internal/logging"
)

func writeContent(t *testing.T, root, rel, data string) {
	t.Helper()
	path := filepath.Join(root, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))
}

func newTestEngine(t *testing.T, mode config.Mode) (*Engine, string) {
	t.Helper()
	root := t.TempDir()
	e := New(Options{
		ContentRoot: root,
		ModulesDir:  filepath.Join(root, "no-modules"),
		Mode:        mode,
		Logger:      logging.NewNopLogger(),
	})
	return e, root
}

func TestEndToEndResolution(t *testing.T) {
	e, root := newTestEngine(t, config.ModeDevelopment)
	writeContent(t, root, "shared/cta.yaml", "type: CallToAction\ntitle: Default\n")
	writeContent(t, root, "pages/home.yaml", `
sections:
  - components:
      main:
        - component: cta
          title: Click me
`)

	store, err := e.Content(context.Background())
	require.NoError(t, err)

	home, ok := store.Page("home")
	require.True(t, ok)

	sections := home.(map[string]interface{})["sections"].([]interface{})
	main := sections[0].(map[string]interface{})["components"].(map[string]interface{})["main"].([]interface{})
	first := main[0].(map[string]interface{})

	assert.Equal(t, "CallToAction", first["type"])
	assert.Equal(t, "Click me", first["title"])
	assert.NotContains(t, first, "component")
}

func TestModuleContentMergedUnderProject(t *testing.T) {
	root := t.TempDir()
	modules := filepath.Join(root, "modules")
	writeContent(t, filepath.Join(modules, "blog"), "content/pages/blog.yaml", "title: Module Blog\nlayout: list\n")
	writeContent(t, filepath.Join(modules, "blog"), "content/menus/main.yaml", "items: [injected]\n")

	project := filepath.Join(root, "content")
	writeContent(t, project, "pages/blog.yaml", "title: My Blog\n")
	writeContent(t, project, "menus/main.yaml", "items: [home]\n")

	e := New(Options{
		ContentRoot: project,
		ModulesDir:  modules,
		Mode:        config.ModeDevelopment,
		Logger:      logging.NewNopLogger(),
	})

	store, err := e.Content(context.Background())
	require.NoError(t, err)

	blog, ok := store.Page("blog")
	require.True(t, ok)
	assert.Equal(t, "My Blog", blog.(map[string]interface{})["title"])
	assert.Equal(t, "list", blog.(map[string]interface{})["layout"])

	menus, err := store.Namespace(content.NamespaceMenus)
	require.NoError(t, err)
	main := menus["main"].(map[string]interface{})
	assert.Equal(t, []interface{}{"home"}, main["items"])
}

func TestMenusResolveSharedReferences(t *testing.T) {
	e, root := newTestEngine(t, config.ModeDevelopment)
	writeContent(t, root, "shared/footer-links.yaml", "items: [about, contact]\n")
	writeContent(t, root, "menus/footer.yaml", "links:\n  component: footer-links\n")

	store, err := e.Content(context.Background())
	require.NoError(t, err)

	menus, err := store.Namespace(content.NamespaceMenus)
	require.NoError(t, err)
	footer := menus["footer"].(map[string]interface{})
	links := footer["links"].(map[string]interface{})
	assert.Equal(t, []interface{}{"about", "contact"}, links["items"])
	assert.NotContains(t, links, "component")
}

func TestFormsNamespaceDerived(t *testing.T) {
	e, root := newTestEngine(t, config.ModeDevelopment)
	writeContent(t, root, "shared/contact-form.yaml", "type: Form\nname: contact\n")
	writeContent(t, root, "pages/contact.yaml", "body:\n  component: contact-form\n")

	store, err := e.Content(context.Background())
	require.NoError(t, err)

	forms, err := store.Namespace(content.NamespaceForms)
	require.NoError(t, err)
	require.Contains(t, forms, "contact")
	assert.Equal(t, "Form", forms["contact"].(map[string]interface{})["type"])

	index := store.Forms()
	require.Contains(t, index, "contact")
	index["contact"].(map[string]interface{})["type"] = "mutated"
	fresh := store.Forms()
	assert.Equal(t, "Form", fresh["contact"].(map[string]interface{})["type"])
}

func TestUnknownNamespaceIsError(t *testing.T) {
	e, _ := newTestEngine(t, config.ModeDevelopment)

	store, err := e.Content(context.Background())
	require.NoError(t, err)

	_, err = store.Namespace("widgets")
	require.Error(t, err)
	assert.True(t, errors.IsUnknownNamespace(err))
	assert.Contains(t, err.Error(), "widgets")
}

func TestReservedNamespacesAlwaysPresent(t *testing.T) {
	e, _ := newTestEngine(t, config.ModeDevelopment)

	store, err := e.Content(context.Background())
	require.NoError(t, err)

	for _, ns := range []string{"pages", "shared", "menus", "forms"} {
		got, err := store.Namespace(ns)
		require.NoError(t, err, ns)
		assert.Empty(t, got)
	}
}

func TestProductionModeCachesStore(t *testing.T) {
	e, root := newTestEngine(t, config.ModeProduction)
	writeContent(t, root, "pages/home.yaml", "title: First\n")

	first, err := e.Content(context.Background())
	require.NoError(t, err)

	writeContent(t, root, "pages/home.yaml", "title: Second\n")

	second, err := e.Content(context.Background())
	require.NoError(t, err)
	assert.Same(t, first, second)

	home, _ := second.Page("home")
	assert.Equal(t, "First", home.(map[string]interface{})["title"])
}

func TestDevelopmentModeRebuilds(t *testing.T) {
	e, root := newTestEngine(t, config.ModeDevelopment)
	writeContent(t, root, "pages/home.yaml", "title: First\n")

	first, err := e.Content(context.Background())
	require.NoError(t, err)

	writeContent(t, root, "pages/home.yaml", "title: Second\n")

	second, err := e.Content(context.Background())
	require.NoError(t, err)
	assert.NotSame(t, first, second)

	home, _ := second.Page("home")
	assert.Equal(t, "Second", home.(map[string]interface{})["title"])
}

func TestInvalidateForcesRebuildInProduction(t *testing.T) {
	e, root := newTestEngine(t, config.ModeProduction)
	writeContent(t, root, "pages/home.yaml", "title: First\n")

	_, err := e.Content(context.Background())
	require.NoError(t, err)

	writeContent(t, root, "pages/home.yaml", "title: Second\n")
	e.Invalidate()

	store, err := e.Content(context.Background())
	require.NoError(t, err)
	home, _ := store.Page("home")
	assert.Equal(t, "Second", home.(map[string]interface{})["title"])
}

func TestNamespaceReturnsDefensiveCopy(t *testing.T) {
	e, root := newTestEngine(t, config.ModeProduction)
	writeContent(t, root, "pages/home.yaml", "title: Home\n")

	store, err := e.Content(context.Background())
	require.NoError(t, err)

	pages, err := store.Namespace(content.NamespacePages)
	require.NoError(t, err)
	pages["home"].(map[string]interface{})["title"] = "mutated"

	fresh, err := store.Namespace(content.NamespacePages)
	require.NoError(t, err)
	assert.Equal(t, "Home", fresh["home"].(map[string]interface{})["title"])
}

func TestParseErrorAbortsLoad(t *testing.T) {
	e, root := newTestEngine(t, config.ModeDevelopment)
	writeContent(t, root, "pages/bad.yaml", "title: [oops\n")

	_, err := e.Content(context.Background())
	require.Error(t, err)
	assert.True(t, errors.IsParseError(err))
	assert.Contains(t, err.Error(), "bad.yaml")
}

func TestExport(t *testing.T) {
	e, root := newTestEngine(t, config.ModeDevelopment)
	writeContent(t, root, "pages/home.yaml", `
title: Home
classes: bg-white
sections:
  - components:
      main:
        - type: CallToAction
          access: [admin]
        - type: Hero
`)
	writeContent(t, root, "pages/internal.yaml", "title: Internal\naccess: [staff]\n")
	writeContent(t, root, "menus/main.yaml", "items: [home]\n")

	site, err := e.Export(context.Background())
	require.NoError(t, err)

	require.Contains(t, site.Pages, "home")
	assert.NotContains(t, site.Pages, "internal")

	home := site.Pages["home"]
	assert.Equal(t, "Home", home.Fields["title"])
	assert.NotContains(t, home.Fields, "classes")
	require.Len(t, home.Widgets, 1)
	assert.Equal(t, "Hero", home.Widgets[0].Component["type"])

	assert.Contains(t, site.Menus, "main")
}

func TestValidateReportsFindings(t *testing.T) {
	e, root := newTestEngine(t, config.ModeDevelopment)
	writeContent(t, root, "pages/home.yaml", "hero:\n  component: ghost\n")

	findings, err := e.Validate(context.Background())
	require.NoError(t, err)
	require.Len(t, findings, 1)
	assert.Contains(t, findings[0].Message, `"ghost"`)
}

func TestCycleSurfacesFromContent(t *testing.T) {
	e, root := newTestEngine(t, config.ModeDevelopment)
	writeContent(t, root, "shared/a.yaml", "child:\n  component: b\n")
	writeContent(t, root, "shared/b.yaml", "child:\n  component: a\n")
	writeContent(t, root, "pages/home.yaml", "body:\n  component: a\n")

	_, err := e.Content(context.Background())
	require.Error(t, err)
	assert.True(t, errors.IsReferenceCycle(err))
}
