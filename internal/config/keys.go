package config

// Site setting keys
const (
	// Site metadata used in generated headers
	KeySiteName = "SITE_NAME"
	KeySiteURL  = "SITE_URL"

	// Current administrator
	KeyUserDisplayName = "USER_DISPLAY_NAME"
	KeyUserURL         = "USER_URL"

	// Host layout
	KeyPluginDir  = "PLUGIN_DIR"  // Absolute plugins directory, the base location for managed files
	KeyPluginsURL = "PLUGINS_URL" // Public URL of the plugins directory
	KeyAdminURL   = "ADMIN_URL"   // Host admin URL; empty uses the built-in editor
	KeyMarkerDir  = "MARKER_DIR"  // Activation state directory

	KeyLocale = "LOCALE"

	KeyConfigVersion = "CONFIG_VERSION"
)

// Keys lists every site setting in display order
var Keys = []string{
	KeySiteName,
	KeySiteURL,
	KeyUserDisplayName,
	KeyUserURL,
	KeyPluginDir,
	KeyPluginsURL,
	KeyAdminURL,
	KeyMarkerDir,
	KeyLocale,
	KeyConfigVersion,
}

// Default values for configuration keys
var Defaults = map[string]string{
	KeySiteURL:       "http://localhost",
	KeyPluginDir:     "/var/www/html/wp-content/plugins",
	KeyLocale:        "en",
	KeyConfigVersion: "1",
}

// IsKnownKey reports whether key is a site setting
func IsKnownKey(key string) bool {
	for _, k := range Keys {
		if k == key {
			return true
		}
	}
	return false
}
