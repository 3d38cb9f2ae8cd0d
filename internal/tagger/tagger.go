// Package tagger is the optional card-role data source. Roles refine the
// allocator's functional sub-role targets; a missing source only reduces
// granularity, never correctness.
package tagger

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
)

// Role classifies a card's deck function.
type Role string

const (
	RoleNone      Role = ""
	RoleRamp      Role = "ramp"
	RoleRemoval   Role = "removal"
	RoleBoardWipe Role = "boardwipe"
	RoleCardDraw  Role = "cardDraw"
)

// Source answers role queries by card name. Implementations must be safe for
// concurrent reads.
type Source interface {
	// Role returns the card's role, or RoleNone when unknown.
	Role(cardName string) Role
	// Available reports whether the source has any data at all.
	Available() bool
}

// Null is the absent-source implementation.
type Null struct{}

func (Null) Role(string) Role { return RoleNone }
func (Null) Available() bool  { return false }

// Static serves roles from an in-memory name map.
type Static struct {
	roles map[string]Role
}

// NewStatic builds a source from a name->role map. Keys are matched
// case-insensitively.
func NewStatic(roles map[string]Role) *Static {
	normalized := make(map[string]Role, len(roles))
	for name, role := range roles {
		normalized[strings.ToLower(name)] = role
	}
	return &Static{roles: normalized}
}

// LoadFile reads a JSON file of {"Card Name": "ramp", ...}.
func LoadFile(path string) (*Static, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read role file: %w", err)
	}

	var raw map[string]string
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse role file: %w", err)
	}

	roles := make(map[string]Role, len(raw))
	for name, role := range raw {
		switch Role(role) {
		case RoleRamp, RoleRemoval, RoleBoardWipe, RoleCardDraw:
			roles[name] = Role(role)
		}
	}
	return NewStatic(roles), nil
}

func (s *Static) Role(cardName string) Role {
	return s.roles[strings.ToLower(cardName)]
}

func (s *Static) Available() bool {
	return len(s.roles) > 0
}
