package roles

import (
	"fmt"

	"github.com/cbodonnell/mafia/pkg/game/types"
)

// MaxUniqueRole is the most players that may hold the doctor or detective role.
const MaxUniqueRole = 1

// Intn is the source of randomness used to shuffle roles.
// *math/rand.Rand satisfies it.
type Intn interface {
	Intn(n int) int
}

// Validate checks cfg against the number of players in the game.
func Validate(playerCount int, cfg types.RoleConfig) error {
	if err := checkNegative(cfg); err != nil {
		return err
	}
	if cfg.Total() != playerCount {
		return &ConfigError{Kind: CountMismatch, Want: playerCount, Got: cfg.Total()}
	}
	return checkCaps(cfg)
}

// ValidateCounts checks cfg without a roster, as when the configuration is edited
// before players are seated.
func ValidateCounts(cfg types.RoleConfig) error {
	if err := checkNegative(cfg); err != nil {
		return err
	}
	return checkCaps(cfg)
}

func checkNegative(cfg types.RoleConfig) error {
	for _, role := range types.Roles {
		if n := cfg.Count(role); n < 0 {
			return &ConfigError{Kind: NegativeCount, Role: role, Got: n}
		}
	}
	return nil
}

func checkCaps(cfg types.RoleConfig) error {
	if cfg.Doctor > MaxUniqueRole {
		return &ConfigError{Kind: RoleCapExceeded, Role: types.RoleDoctor, Want: MaxUniqueRole, Got: cfg.Doctor}
	}
	if cfg.Detective > MaxUniqueRole {
		return &ConfigError{Kind: RoleCapExceeded, Role: types.RoleDetective, Want: MaxUniqueRole, Got: cfg.Detective}
	}
	return nil
}

// Assign deals one role per player according to cfg and returns them shuffled.
// The configuration is validated before anything is shuffled.
func Assign(playerCount int, cfg types.RoleConfig, rng Intn) ([]types.RoleKind, error) {
	if err := Validate(playerCount, cfg); err != nil {
		return nil, err
	}

	deck := make([]types.RoleKind, 0, playerCount)
	for _, role := range types.Roles {
		for i := 0; i < cfg.Count(role); i++ {
			deck = append(deck, role)
		}
	}

	// Fisher-Yates
	for i := len(deck) - 1; i > 0; i-- {
		j := rng.Intn(i + 1)
		deck[i], deck[j] = deck[j], deck[i]
	}

	return deck, nil
}

// Apply gives each player the role at the same index and marks everyone alive.
func Apply(players []types.Player, roles []types.RoleKind) ([]types.Player, error) {
	if len(players) != len(roles) {
		return nil, fmt.Errorf("have %d roles for %d players", len(roles), len(players))
	}
	assigned := make([]types.Player, len(players))
	for i, p := range players {
		p.Role = roles[i]
		p.IsAlive = true
		assigned[i] = p
	}
	return assigned, nil
}
