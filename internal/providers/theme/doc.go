// Package theme owns the theme catalog and projects the selected theme,
// together with the terminal preferences, onto the palette a terminal
// surface is drawn with.
//
// Themes come from three built-ins plus any .json, .yaml, .yml or .toml
// files found under the theme directory. A selection that is empty or
// unknown projects to the default palette; malformed colours degrade to
// the default for that slot.
package theme
