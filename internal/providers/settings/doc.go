// Package settings holds the user preferences the terminal subsystem reads:
// shell choice, font customisation, option-as-meta, theme background usage
// and forced dark appearance.
//
// The Store is the read side used by terminal views (Store.Terminal returns
// a snapshot); the Provider exposes it as the "settings" service. Values are
// persisted as a flat YAML map when a path is configured.
package settings
