package roles

import (
	"errors"
	"fmt"

	"github.com/cbodonnell/mafia/pkg/game/types"
)

type ConfigErrorKind int

const (
	// CountMismatch means the configured roles do not add up to the number of players.
	CountMismatch ConfigErrorKind = iota
	// RoleCapExceeded means a unique role was configured more than once.
	RoleCapExceeded
	// NegativeCount means a role was configured with a count below zero.
	NegativeCount
)

func (k ConfigErrorKind) String() string {
	switch k {
	case CountMismatch:
		return "count mismatch"
	case RoleCapExceeded:
		return "role cap exceeded"
	case NegativeCount:
		return "negative count"
	default:
		return "unknown"
	}
}

// ConfigError describes an invalid role configuration.
type ConfigError struct {
	Kind ConfigErrorKind
	Role types.RoleKind
	Want int
	Got  int
}

func (e *ConfigError) Error() string {
	switch e.Kind {
	case CountMismatch:
		return fmt.Sprintf("%s: %d roles configured for %d players", e.Kind, e.Got, e.Want)
	case RoleCapExceeded:
		return fmt.Sprintf("%s: at most %d %s allowed, got %d", e.Kind, e.Want, e.Role, e.Got)
	case NegativeCount:
		return fmt.Sprintf("%s: %s count is %d", e.Kind, e.Role, e.Got)
	default:
		return e.Kind.String()
	}
}

// IsConfigError reports whether err is a *ConfigError.
func IsConfigError(err error) bool {
	var configErr *ConfigError
	return errors.As(err, &configErr)
}

// ConfigErrorKindOf returns the kind of the *ConfigError in err's chain.
func ConfigErrorKindOf(err error) (ConfigErrorKind, bool) {
	var configErr *ConfigError
	if !errors.As(err, &configErr) {
		return 0, false
	}
	return configErr.Kind, true
}
