package taxonomy

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/lithammer/dedent"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var taxonomyFixture = dedent.Dedent(`
	{
	  "taxonomy": [
	    {
	      "label": "Mountainbike",
	      "url": "/collections/mountainbike",
	      "children": [
	        {"label": "Helme", "url": "/collections/mtb-helme/"},
	        {
	          "label": "Kleidung",
	          "url": "/collections/mtb-kleidung",
	          "children": [
	            {"label": "Jerseys", "url": "/collections/mtb-jerseys"},
	            {"label": "Handschuhe", "url": "/collections/mtb-handschuhe"}
	          ]
	        }
	      ]
	    },
	    {
	      "label": "Motocross",
	      "url": "/collections/motocross",
	      "children": [
	        {"label": "Helme", "url": "/collections/mx-helme"},
	        {"label": "Brillen"}
	      ]
	    },
	    {
	      "label": "Shop",
	      "url": "/",
	      "children": [
	        {"label": "Last Chance"}
	      ]
	    }
	  ]
	}
`)

func testForest(t *testing.T) Forest {
	t.Helper()
	forest, err := Load(strings.NewReader(taxonomyFixture))
	require.NoError(t, err)
	return forest
}

func TestLoad(t *testing.T) {
	forest := testForest(t)

	require.Len(t, forest, 3)
	assert.Equal(t, "Mountainbike", forest[0].Label)
	assert.Len(t, forest[0].Children, 2)
	assert.Equal(t, "Jerseys", forest[0].Children[1].Children[0].Label)
}

func TestLoad_EmptyDocument(t *testing.T) {
	forest, err := Load(strings.NewReader(`{}`))

	require.NoError(t, err)
	assert.NotNil(t, forest)
	assert.Empty(t, forest)
}

func TestLoad_Malformed(t *testing.T) {
	_, err := Load(strings.NewReader(`{"taxonomy": [`))
	assert.ErrorContains(t, err, "decode taxonomy")
}

func TestLoadFile_MissingLenient(t *testing.T) {
	forest, err := LoadFile(filepath.Join(t.TempDir(), "missing.json"), false)

	require.NoError(t, err)
	assert.Empty(t, forest)
}

func TestLoadFile_MissingStrict(t *testing.T) {
	_, err := LoadFile(filepath.Join(t.TempDir(), "missing.json"), true)

	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "kategorien.json")
	require.NoError(t, os.WriteFile(path, []byte(taxonomyFixture), 0o644))

	forest, err := LoadFile(path, true)

	require.NoError(t, err)
	assert.Len(t, forest, 3)
}

func TestListCategories(t *testing.T) {
	cats := ListCategories(testForest(t))

	ids := make([]string, len(cats))
	for i, c := range cats {
		ids[i] = c.ID
	}
	assert.Equal(t, []string{
		"cat:mountainbike",
		"cat:mountainbike/mtb-helme",
		"cat:mountainbike/mtb-kleidung",
		"cat:mountainbike/mtb-kleidung/mtb-jerseys",
		"cat:mountainbike/mtb-kleidung/mtb-handschuhe",
		"cat:motocross",
		"cat:motocross/mx-helme",
		"cat:motocross/brillen",
		"cat:",
		"cat:last-chance",
	}, ids)
}

func TestListCategories_Fields(t *testing.T) {
	cats := ListCategories(testForest(t))

	root := cats[0]
	assert.Equal(t, "Mountainbike", root.Name)
	assert.Equal(t, "mountainbike", root.Slug)
	require.NotNil(t, root.URL)
	assert.Equal(t, "/collections/mountainbike", *root.URL)
	assert.Nil(t, root.ParentID)
	assert.True(t, root.IsRoot())

	jerseys := cats[3]
	require.NotNil(t, jerseys.ParentID)
	assert.Equal(t, "cat:mountainbike/mtb-kleidung", *jerseys.ParentID)

	brillen := cats[7]
	assert.Equal(t, "brillen", brillen.Slug)
	assert.Nil(t, brillen.URL)
}

func TestListCategories_RootWithoutSlug(t *testing.T) {
	cats := ListCategories(testForest(t))

	shop := cats[8]
	assert.Equal(t, "cat:", shop.ID)
	assert.Equal(t, "", shop.Slug)

	child := cats[9]
	require.NotNil(t, child.ParentID)
	assert.Equal(t, "cat:", *child.ParentID)
	assert.Equal(t, "cat:last-chance", child.ID, "a slug-less node adds no path segment")
}

func TestListCategories_IDsUnique(t *testing.T) {
	seen := map[string]bool{}
	for _, c := range ListCategories(testForest(t)) {
		assert.False(t, seen[c.ID], "duplicate id %s", c.ID)
		seen[c.ID] = true
	}
}

func TestListCategories_Empty(t *testing.T) {
	assert.Empty(t, ListCategories(nil))
}

func TestFindChildByLabel(t *testing.T) {
	forest := testForest(t)

	node, ok := FindChildByLabel(forest, "MOTOCROSS")
	require.True(t, ok)
	assert.Equal(t, "Motocross", node.Label)

	_, ok = FindChildByLabel(forest, "Helme")
	assert.False(t, ok, "search covers a single level")

	_, ok = FindChildByLabel(forest, "Moto")
	assert.False(t, ok, "labels must match exactly")

	_, ok = FindChildByLabel(nil, "Helme")
	assert.False(t, ok)
}
