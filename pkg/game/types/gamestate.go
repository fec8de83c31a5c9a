package types

import "github.com/cbodonnell/mafia/pkg/game/votes"

type GameState struct {
	// Players is the full roster, including dead players
	Players []Player `json:"players"`
	Phase   Phase    `json:"phase"`
	// DayCount starts at 1 and increments when a day resolves
	DayCount  int       `json:"dayCount"`
	NightStep NightStep `json:"nightStep"`
	// MafiaBallot maps target IDs to the mafia members voting for them
	MafiaBallot votes.Ballot `json:"mafiaBallot"`
	// DoctorChoice is the ID the doctor protects tonight, empty if none
	DoctorChoice string `json:"doctorChoice,omitempty"`
	// DetectiveChoice is the ID the detective checked tonight, empty if none
	DetectiveChoice string       `json:"detectiveChoice,omitempty"`
	DayBallot       votes.Ballot `json:"dayBallot"`
}

// NewGameState creates the state for the first night of a game.
func NewGameState(players []Player) *GameState {
	return &GameState{
		Players:     copyPlayers(players),
		Phase:       PhaseNight,
		DayCount:    1,
		NightStep:   NightStepMafia,
		MafiaBallot: votes.Ballot{},
		DayBallot:   votes.Ballot{},
	}
}

func (g *GameState) Copy() *GameState {
	return &GameState{
		Players:         copyPlayers(g.Players),
		Phase:           g.Phase,
		DayCount:        g.DayCount,
		NightStep:       g.NightStep,
		MafiaBallot:     g.MafiaBallot.Copy(),
		DoctorChoice:    g.DoctorChoice,
		DetectiveChoice: g.DetectiveChoice,
		DayBallot:       g.DayBallot.Copy(),
	}
}

// Player returns the player with the given ID.
func (g *GameState) Player(id string) (Player, bool) {
	for _, p := range g.Players {
		if p.ID == id {
			return p, true
		}
	}
	return Player{}, false
}

// CountAlive returns the number of living players matching the predicate.
func (g *GameState) CountAlive(match func(Player) bool) int {
	return CountAlive(g.Players, match)
}

// HasAlive reports whether a living player holds role.
func (g *GameState) HasAlive(role RoleKind) bool {
	return CountAlive(g.Players, HasRole(role)) > 0
}

// CountAlive returns the number of living players matching the predicate.
// A nil predicate matches everyone.
func CountAlive(players []Player, match func(Player) bool) int {
	n := 0
	for _, p := range players {
		if p.IsAlive && (match == nil || match(p)) {
			n++
		}
	}
	return n
}

// HasRole returns a predicate matching players with role.
func HasRole(role RoleKind) func(Player) bool {
	return func(p Player) bool {
		return p.Role == role
	}
}

func copyPlayers(players []Player) []Player {
	if players == nil {
		return nil
	}
	return append([]Player(nil), players...)
}
