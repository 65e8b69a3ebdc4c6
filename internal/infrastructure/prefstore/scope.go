package prefstore

import "fmt"

// Scope selects which build's preferences are read
type Scope string

const (
	// ScopeEditor is the store written while playing inside the editor
	ScopeEditor Scope = "editor"
	// ScopePlayer is the store written by a standalone build
	ScopePlayer Scope = "player"
)

// ParseScope creates a Scope with validation
func ParseScope(s string) (Scope, error) {
	switch Scope(s) {
	case ScopeEditor, ScopePlayer:
		return Scope(s), nil
	case "":
		return ScopeEditor, nil
	default:
		return "", fmt.Errorf("invalid scope %q (must be editor or player)", s)
	}
}
