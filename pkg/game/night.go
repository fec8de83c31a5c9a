package game

import (
	"github.com/cbodonnell/mafia/pkg/game/types"
	"github.com/cbodonnell/mafia/pkg/game/votes"
)

var nightOrder = []types.NightStep{
	types.NightStepMafia,
	types.NightStepDoctor,
	types.NightStepDetective,
}

var stepRoles = map[types.NightStep]types.RoleKind{
	types.NightStepMafia:     types.RoleMafia,
	types.NightStepDoctor:    types.RoleDoctor,
	types.NightStepDetective: types.RoleDetective,
}

// nextNightStep returns the step that follows current, skipping the doctor and
// detective when nobody alive holds the role. NightStepNone means the night is over.
func nextNightStep(state *types.GameState, current types.NightStep) types.NightStep {
	found := false
	for _, step := range nightOrder {
		if found {
			if state.HasAlive(stepRoles[step]) {
				return step
			}
			continue
		}
		found = step == current
	}
	return types.NightStepNone
}

// nightStepReady reports whether the active night step may be completed.
func nightStepReady(state *types.GameState, leader votes.LeaderFunc) bool {
	switch state.NightStep {
	case types.NightStepMafia:
		aliveMafia := state.CountAlive(types.HasRole(types.RoleMafia))
		if state.MafiaBallot.Total() < aliveMafia {
			return false
		}
		_, ok := leader(state.MafiaBallot)
		return ok
	case types.NightStepDoctor:
		return state.DoctorChoice != "" || !state.HasAlive(types.RoleDoctor)
	case types.NightStepDetective:
		return state.DetectiveChoice != "" || !state.HasAlive(types.RoleDetective)
	default:
		return false
	}
}

// ResolveNight applies the mafia's kill, clears the night's ballots and moves the game to day.
// The returned state is a new value; state is left untouched.
func ResolveNight(state *types.GameState, leader votes.LeaderFunc) (*types.GameState, types.Announcement) {
	next := state.Copy()
	players, announcement := resolveMafiaKill(next.Players, next.MafiaBallot, next.DoctorChoice, leader)

	next.Players = players
	next.Phase = types.PhaseDay
	next.NightStep = types.NightStepNone
	next.MafiaBallot = votes.Ballot{}
	next.DoctorChoice = ""
	next.DetectiveChoice = ""
	next.DayBallot = votes.Ballot{}

	return next, announcement
}

// resolveMafiaKill kills the mafia's chosen victim unless the doctor protected them.
// Without a leader nobody dies.
func resolveMafiaKill(players []types.Player, ballot votes.Ballot, doctorChoice string, leader votes.LeaderFunc) ([]types.Player, types.Announcement) {
	updated := append([]types.Player(nil), players...)

	victimID, ok := leader(ballot)
	if !ok {
		return updated, BuildAnnouncement(nil, nil)
	}

	for i, p := range updated {
		if p.ID != victimID || !p.IsAlive {
			continue
		}
		if victimID == doctorChoice {
			return updated, BuildAnnouncement(nil, &p)
		}
		updated[i].IsAlive = false
		return updated, BuildAnnouncement([]types.Player{updated[i]}, nil)
	}

	return updated, BuildAnnouncement(nil, nil)
}
