package catalog

import (
	"bytes"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"shopmate/internal/models"
)

// entry is one top-level key of a data file with its undecoded value.
type entry struct {
	key   string
	value func(v any) error
}

func isYAML(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return true
	}
	return false
}

// orderedEntries splits a top-level object into its entries, keeping file order.
func orderedEntries(path string, data []byte) ([]entry, error) {
	if isYAML(path) {
		return orderedYAMLEntries(data)
	}
	return orderedJSONEntries(data)
}

func orderedJSONEntries(data []byte) ([]entry, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return nil, fmt.Errorf("top level must be a JSON object")
	}

	var entries []entry
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		key, ok := keyTok.(string)
		if !ok {
			return nil, fmt.Errorf("unexpected object key %v", keyTok)
		}
		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return nil, fmt.Errorf("value of %q: %w", key, err)
		}
		entries = append(entries, entry{key: key, value: func(v any) error { return json.Unmarshal(raw, v) }})
	}
	if _, err := dec.Token(); err != nil {
		return nil, err
	}
	if dec.More() {
		return nil, fmt.Errorf("unexpected data after top-level object")
	}
	return entries, nil
}

func orderedYAMLEntries(data []byte) ([]entry, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	if doc.Kind != yaml.DocumentNode || len(doc.Content) == 0 {
		return nil, fmt.Errorf("empty YAML document")
	}
	root := doc.Content[0]
	if root.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("top level must be a YAML mapping")
	}

	entries := make([]entry, 0, len(root.Content)/2)
	for i := 0; i+1 < len(root.Content); i += 2 {
		keyNode, valueNode := root.Content[i], root.Content[i+1]
		entries = append(entries, entry{key: keyNode.Value, value: valueNode.Decode})
	}
	return entries, nil
}

// categorySpec is the object form of a category entry. Fields other than
// keywords are reserved for per-category metadata and ignored.
type categorySpec struct {
	Keywords []string `json:"keywords" yaml:"keywords"`
}

// decodeKeywords accepts either a flat keyword list or {"keywords": [...]}.
func decodeKeywords(e entry) ([]string, error) {
	var flat []string
	if err := e.value(&flat); err == nil {
		return flat, nil
	}
	var spec categorySpec
	if err := e.value(&spec); err != nil {
		return nil, fmt.Errorf("category %q: expected a keyword list or an object with \"keywords\"", e.key)
	}
	return spec.Keywords, nil
}

func decodeCategories(path string, data []byte) (*models.CategoryTable, error) {
	entries, err := orderedEntries(path, data)
	if err != nil {
		return nil, err
	}

	table := &models.CategoryTable{Categories: make([]models.Category, 0, len(entries))}
	seen := make(map[string]struct{}, len(entries))
	for _, e := range entries {
		name := strings.TrimSpace(e.key)
		if name == "" {
			return nil, fmt.Errorf("empty category name")
		}
		if _, dup := seen[name]; dup {
			return nil, fmt.Errorf("duplicate category %q", name)
		}
		seen[name] = struct{}{}

		keywords, err := decodeKeywords(e)
		if err != nil {
			return nil, err
		}
		table.Categories = append(table.Categories, models.Category{Name: name, Keywords: keywords})
	}
	return table, nil
}

func decodeSites(path string, data []byte) (models.SiteTable, error) {
	entries, err := orderedEntries(path, data)
	if err != nil {
		return nil, err
	}

	table := make(models.SiteTable, len(entries))
	for _, e := range entries {
		name := strings.TrimSpace(e.key)
		if _, dup := table[name]; dup {
			return nil, fmt.Errorf("duplicate category %q", name)
		}
		var sites []models.Site
		if err := e.value(&sites); err != nil {
			return nil, fmt.Errorf("category %q: %w", name, err)
		}
		if err := validateSites(name, sites); err != nil {
			return nil, err
		}
		table[name] = sites
	}
	return table, nil
}
