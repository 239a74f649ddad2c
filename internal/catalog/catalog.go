// Package catalog loads the category keyword table and the website table.
//
// Loaded tables are cached by file path for the lifetime of the process and
// never invalidated; callers must treat them as read-only.
package catalog

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/patrickmn/go-cache"
	log "github.com/sirupsen/logrus"

	"shopmate/internal/models"
	"shopmate/internal/util"
)

// Loader is a read-through cache over the data files.
type Loader struct {
	categoriesPath string
	websitesPath   string
	cache          *cache.Cache
	readFile       func(string) ([]byte, error)
}

// NewLoader creates a loader for the given category and website files.
func NewLoader(categoriesPath, websitesPath string) *Loader {
	return &Loader{
		categoriesPath: categoriesPath,
		websitesPath:   websitesPath,
		// No expiration and no janitor: entries live as long as the process.
		cache:    cache.New(cache.NoExpiration, 0),
		readFile: os.ReadFile,
	}
}

// CategoriesPath returns the configured category file.
func (l *Loader) CategoriesPath() string { return l.categoriesPath }

// WebsitesPath returns the configured website file.
func (l *Loader) WebsitesPath() string { return l.websitesPath }

// Categories returns the category table, loading it on first use.
func (l *Loader) Categories() (*models.CategoryTable, error) {
	v, err := l.load("categories", l.categoriesPath, func(path string, data []byte) (any, error) {
		return decodeCategories(path, data)
	})
	if err != nil {
		return nil, err
	}
	return v.(*models.CategoryTable), nil
}

// Sites returns the website table, loading it on first use.
func (l *Loader) Sites() (models.SiteTable, error) {
	v, err := l.load("websites", l.websitesPath, func(path string, data []byte) (any, error) {
		return decodeSites(path, data)
	})
	if err != nil {
		return nil, err
	}
	return v.(models.SiteTable), nil
}

// Load returns both tables.
func (l *Loader) Load() (*models.CategoryTable, models.SiteTable, error) {
	categories, err := l.Categories()
	if err != nil {
		return nil, nil, err
	}
	sites, err := l.Sites()
	if err != nil {
		return nil, nil, err
	}
	return categories, sites, nil
}

func (l *Loader) load(kind, path string, decode func(string, []byte) (any, error)) (any, error) {
	key := kind + ":" + filepath.Clean(path)
	if v, found := l.cache.Get(key); found {
		return v, nil
	}

	raw, err := l.readFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s file %s", models.ErrDatasetMissing, kind, path)
		}
		return nil, fmt.Errorf("%w: read %s file %s: %v", models.ErrDatasetMissing, kind, path, err)
	}
	data, err := util.CleanFileContent(raw, path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrDatasetInvalid, err)
	}
	v, err := decode(path, data)
	if err != nil {
		return nil, fmt.Errorf("%w: %s file %s: %v", models.ErrDatasetInvalid, kind, path, err)
	}

	l.cache.Set(key, v, cache.NoExpiration)
	log.WithFields(log.Fields{"kind": kind, "path": path}).Debug("Loaded dataset")
	return v, nil
}
