package catalog

import (
	"fmt"
	"net/url"
	"strings"

	"shopmate/internal/models"
)

// validateSites checks the per-category site invariants: name and url are
// required, names are unique within the category, and url is absolute http(s).
func validateSites(category string, sites []models.Site) error {
	names := make(map[string]struct{}, len(sites))
	for i, s := range sites {
		if strings.TrimSpace(s.Name) == "" {
			return fmt.Errorf("category %q: site #%d has no name", category, i+1)
		}
		if _, dup := names[s.Name]; dup {
			return fmt.Errorf("category %q: duplicate site name %q", category, s.Name)
		}
		names[s.Name] = struct{}{}

		if ok, reason := validateURL(s.URL); !ok {
			return fmt.Errorf("category %q: site %q: %s", category, s.Name, reason)
		}
	}
	return nil
}

// validateURL accepts only http and https URLs with a host.
func validateURL(urlStr string) (bool, string) {
	if urlStr == "" {
		return false, "url is required"
	}

	u, err := url.Parse(urlStr)
	if err != nil {
		return false, "invalid url format"
	}

	scheme := strings.ToLower(u.Scheme)
	if scheme != "http" && scheme != "https" {
		return false, "url must use http:// or https:// scheme"
	}

	if u.Host == "" {
		return false, "url must have a valid host"
	}

	return true, ""
}
