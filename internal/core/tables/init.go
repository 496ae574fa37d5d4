// Package tables registers the Easyfin table definitions with the core
// registry. Import it for its side effects.
package tables

// Each file registers one menu group from init().
