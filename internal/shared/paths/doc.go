// Package paths provides the per-user filesystem layout.
//
// # Directory Structure
//
//	$XDG_CONFIG_HOME/termhost/
//	  ├── settings.yaml  (terminal preferences)
//	  └── themes/        (user themes: .json, .yaml, .yml, .toml)
//
// THEME_DIR and SETTINGS_PATH override the defaults.
package paths
