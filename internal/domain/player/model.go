package player

import (
	"fmt"
	"strings"
	"time"
)

// Type represents account restriction modes tracked by the remote API.
type Type string

const (
	TypeRegular  Type = "regular"
	TypeIronman  Type = "ironman"
	TypeHardcore Type = "hardcore"
	TypeUltimate Type = "ultimate"
	TypeUnknown  Type = "unknown"
)

var AllTypes = map[Type]struct{}{
	TypeRegular:  {},
	TypeIronman:  {},
	TypeHardcore: {},
	TypeUltimate: {},
	TypeUnknown:  {},
}

// Build represents special account builds with their own efficiency rates.
type Build string

const (
	BuildMain   Build = "main"
	BuildF2P    Build = "f2p"
	BuildLvl3   Build = "lvl3"
	BuildZerker Build = "zerker"
	BuildDef1   Build = "def1"
	BuildHP10   Build = "hp10"
)

// Player is one tracked account. Denormalized copies of it are embedded in
// competition participant rows and group membership rows.
type Player struct {
	ID            int64
	Username      string
	DisplayName   string
	Type          Type
	Build         Build
	Country       string
	Exp           int64
	EHP           float64
	EHB           float64
	RegisteredAt  time.Time
	UpdatedAt     time.Time
	LastChangedAt time.Time
}

// NormalizeUsername produces the canonical lookup key used across the cache
// and the remote API: lowercased, separator characters collapsed to spaces.
func NormalizeUsername(username string) string {
	sanitized := strings.NewReplacer("-", " ", "_", " ").Replace(username)
	return strings.ToLower(strings.Join(strings.Fields(sanitized), " "))
}

func (p Player) Validate() error {
	if strings.TrimSpace(p.Username) == "" {
		return fmt.Errorf("player username is required")
	}
	if len(p.Username) > 12 {
		return fmt.Errorf("player username cannot be longer than 12 characters: %s", p.Username)
	}
	if p.Type != "" {
		if _, ok := AllTypes[p.Type]; !ok {
			return fmt.Errorf("invalid player type: %s", p.Type)
		}
	}
	return nil
}
