package catalog

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shopmate/internal/models"
)

// Helper function to write a data file into a temp dir
func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

const websitesJSON = `{
  "electronics": [
    {"name": "Amazon India", "url": "https://www.amazon.in", "strengths": ["fast delivery", "wide selection"]},
    {"name": "Flipkart", "url": "https://www.flipkart.com"}
  ],
  "furniture": []
}`

func TestLoader_FlatCategoriesKeepFileOrder(t *testing.T) {
	dir := t.TempDir()
	cats := writeFile(t, dir, "categories.json", `{
  "zebra": ["stripes"],
  "electronics": ["laptop", "mobile"],
  "apparel": ["shirt"]
}`)
	loader := NewLoader(cats, writeFile(t, dir, "websites.json", websitesJSON))

	table, err := loader.Categories()
	require.NoError(t, err)
	assert.Equal(t, []string{"zebra", "electronics", "apparel"}, table.Names())

	electronics, ok := table.Lookup("electronics")
	require.True(t, ok)
	assert.Equal(t, []string{"laptop", "mobile"}, electronics.Keywords)
}

func TestLoader_ObjectFormCategories(t *testing.T) {
	dir := t.TempDir()
	cats := writeFile(t, dir, "categories.json", `{
  "electronics": {"keywords": ["laptop", "tv"], "icon": "plug"},
  "fashion": ["shirt"]
}`)
	table, err := NewLoader(cats, "").Categories()
	require.NoError(t, err)
	assert.Equal(t, []models.Category{
		{Name: "electronics", Keywords: []string{"laptop", "tv"}},
		{Name: "fashion", Keywords: []string{"shirt"}},
	}, table.Categories)
}

func TestLoader_Sites(t *testing.T) {
	dir := t.TempDir()
	loader := NewLoader("", writeFile(t, dir, "websites.json", websitesJSON))

	sites, err := loader.Sites()
	require.NoError(t, err)
	require.Len(t, sites["electronics"], 2)
	assert.Equal(t, models.Site{Name: "Amazon India", URL: "https://www.amazon.in", Strengths: []string{"fast delivery", "wide selection"}}, sites["electronics"][0])
	assert.Nil(t, sites["electronics"][1].Strengths)
	assert.Empty(t, sites["furniture"])
}

func TestLoader_YAML(t *testing.T) {
	dir := t.TempDir()
	cats := writeFile(t, dir, "categories.yaml", `
furniture:
  keywords: [sofa, chair]
electronics:
  - laptop
`)
	webs := writeFile(t, dir, "websites.yml", `
furniture:
  - name: Pepperfry
    url: https://www.pepperfry.com
    strengths: [wide range]
`)
	categories, sites, err := NewLoader(cats, webs).Load()
	require.NoError(t, err)
	assert.Equal(t, []string{"furniture", "electronics"}, categories.Names())
	assert.Equal(t, []string{"sofa", "chair"}, categories.Categories[0].Keywords)
	assert.Equal(t, []models.Site{{Name: "Pepperfry", URL: "https://www.pepperfry.com", Strengths: []string{"wide range"}}}, sites["furniture"])
}

func TestLoader_BOMIsStripped(t *testing.T) {
	dir := t.TempDir()
	cats := writeFile(t, dir, "categories.json", "\xEF\xBB\xBF"+`{"books": ["novel"]}`)
	table, err := NewLoader(cats, "").Categories()
	require.NoError(t, err)
	assert.Equal(t, []string{"books"}, table.Names())
}

func TestLoader_MissingFile(t *testing.T) {
	loader := NewLoader(filepath.Join(t.TempDir(), "nope.json"), "")
	_, err := loader.Categories()
	require.Error(t, err)
	assert.ErrorIs(t, err, models.ErrDatasetMissing)
}

func TestLoader_InvalidFiles(t *testing.T) {
	testCases := []struct {
		name       string
		categories string
		websites   string
	}{
		{name: "categories not json", categories: `{"electronics": [`},
		{name: "categories top-level array", categories: `["laptop"]`},
		{name: "category value is a string", categories: `{"electronics": "laptop"}`},
		{name: "duplicate category", categories: `{"a": ["x"], "a": ["y"]}`},
		{name: "trailing data", categories: `{"a": ["x"]} {"b": ["y"]}`},
		{name: "site without url", websites: `{"electronics": [{"name": "Amazon India"}]}`},
		{name: "site without name", websites: `{"electronics": [{"url": "https://www.amazon.in"}]}`},
		{name: "duplicate site name", websites: `{"electronics": [{"name": "A", "url": "https://a.in"}, {"name": "A", "url": "https://b.in"}]}`},
		{name: "non-http url", websites: `{"electronics": [{"name": "A", "url": "javascript:alert(1)"}]}`},
		{name: "relative url", websites: `{"electronics": [{"name": "A", "url": "/shop"}]}`},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			dir := t.TempDir()
			cats := `{"electronics": ["laptop"]}`
			if tc.categories != "" {
				cats = tc.categories
			}
			webs := websitesJSON
			if tc.websites != "" {
				webs = tc.websites
			}
			loader := NewLoader(writeFile(t, dir, "categories.json", cats), writeFile(t, dir, "websites.json", webs))

			_, _, err := loader.Load()
			require.Error(t, err)
			assert.ErrorIs(t, err, models.ErrDatasetInvalid)
		})
	}
}

func TestLoader_ReadThroughCache(t *testing.T) {
	dir := t.TempDir()
	cats := writeFile(t, dir, "categories.json", `{"electronics": ["laptop"]}`)
	loader := NewLoader(cats, "")

	reads := 0
	loader.readFile = func(path string) ([]byte, error) {
		reads++
		return os.ReadFile(path)
	}

	first, err := loader.Categories()
	require.NoError(t, err)

	// Changing the file on disk does not affect the cached table.
	writeFile(t, dir, "categories.json", `{"fashion": ["shirt"]}`)

	second, err := loader.Categories()
	require.NoError(t, err)
	assert.Same(t, first, second)
	assert.Equal(t, []string{"electronics"}, second.Names())
	assert.Equal(t, 1, reads)
}

func TestLoader_FailedLoadIsNotCached(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "categories.json")
	loader := NewLoader(path, "")

	_, err := loader.Categories()
	assert.ErrorIs(t, err, models.ErrDatasetMissing)

	writeFile(t, dir, "categories.json", `{"electronics": ["laptop"]}`)
	table, err := loader.Categories()
	require.NoError(t, err)
	assert.Equal(t, []string{"electronics"}, table.Names())
}
