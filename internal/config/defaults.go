package config

// GetDefaults returns the default configuration values
func GetDefaults() map[string]interface{} {
	return map[string]interface{}{
		"poll_interval":         2,
		"default_target":        "project",
		"color":                 true,
		"log_level":             "warn",
		"confirm_discard":       true,
		"notifications.enabled": false,
		"notifications.type":    "both",
	}
}
