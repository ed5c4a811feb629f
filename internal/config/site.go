package config

import (
	"fmt"
	"os/user"
	"path/filepath"
	"strings"

	"github.com/sheabunge/functionality/internal/common"
)

// Site is the read-only metadata of the site and the current administrator,
// used to fill in generated file headers and URLs.
type Site struct {
	Name            string
	URL             string
	UserDisplayName string
	UserURL         string
	PluginDir       string
	PluginsURL      string
	AdminURL        string
	Locale          string
}

// Site resolves the site metadata, filling gaps from the defaults table and
// the operating system account.
func (c *Config) Site() Site {
	site := Site{
		Name:            c.GetOrDefault(KeySiteName, ""),
		URL:             strings.TrimRight(c.GetOrDefault(KeySiteURL, ""), "/"),
		UserDisplayName: c.GetOrDefault(KeyUserDisplayName, ""),
		UserURL:         c.GetOrDefault(KeyUserURL, ""),
		PluginDir:       c.GetOrDefault(KeyPluginDir, ""),
		PluginsURL:      strings.TrimRight(c.GetOrDefault(KeyPluginsURL, ""), "/"),
		AdminURL:        strings.TrimRight(c.GetOrDefault(KeyAdminURL, ""), "/"),
		Locale:          c.GetOrDefault(KeyLocale, "en"),
	}

	if site.PluginsURL == "" {
		site.PluginsURL = site.URL + "/wp-content/plugins"
	}

	if site.UserDisplayName == "" {
		if u, err := user.Current(); err == nil {
			site.UserDisplayName = u.Name
			if site.UserDisplayName == "" {
				site.UserDisplayName = u.Username
			}
		}
	}

	return site
}

// MarkerDir returns the directory holding plugin activation markers
func (c *Config) MarkerDir() string {
	return c.GetOrDefault(KeyMarkerDir, filepath.Join(homeDir(), ".local", "functionality"))
}

// Validate checks the values that must be well-formed before any file is
// written
func (c *Config) Validate() error {
	site := c.Site()

	if err := common.ValidatePath(site.PluginDir); err != nil {
		return fmt.Errorf("%s: %w", KeyPluginDir, err)
	}

	urls := []struct {
		key   string
		value string
	}{
		{KeySiteURL, site.URL},
		{KeyUserURL, site.UserURL},
		{KeyPluginsURL, site.PluginsURL},
		{KeyAdminURL, site.AdminURL},
	}

	for _, u := range urls {
		if err := common.ValidateURL(u.value); err != nil {
			return fmt.Errorf("%s: %w", u.key, err)
		}
	}

	return nil
}
