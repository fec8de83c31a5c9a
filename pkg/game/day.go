package game

import (
	"github.com/cbodonnell/mafia/pkg/game/types"
	"github.com/cbodonnell/mafia/pkg/game/votes"
)

// ResolveDay executes the day's leader when every living player has voted
// and one target holds the most votes. The input roster is not modified.
func ResolveDay(ballot votes.Ballot, players []types.Player, leader votes.LeaderFunc) ([]types.Player, types.Announcement) {
	updated := append([]types.Player(nil), players...)

	alive := types.CountAlive(updated, nil)
	if ballot.Total() < alive {
		return updated, BuildAnnouncement(nil, nil)
	}
	targetID, ok := leader(ballot)
	if !ok {
		return updated, BuildAnnouncement(nil, nil)
	}

	for i, p := range updated {
		if p.ID == targetID && p.IsAlive {
			updated[i].IsAlive = false
			return updated, BuildAnnouncement([]types.Player{updated[i]}, nil)
		}
	}
	return updated, BuildAnnouncement(nil, nil)
}

// dayReady reports whether the day vote may be resolved.
func dayReady(state *types.GameState, leader votes.LeaderFunc) bool {
	if state.DayBallot.Total() < state.CountAlive(nil) {
		return false
	}
	_, ok := leader(state.DayBallot)
	return ok
}

// endDay moves a resolved day into the next night.
func endDay(state *types.GameState, players []types.Player) *types.GameState {
	next := state.Copy()
	next.Players = players
	next.Phase = types.PhaseNight
	next.DayCount++
	next.NightStep = types.NightStepMafia
	next.DayBallot = votes.Ballot{}
	next.MafiaBallot = votes.Ballot{}
	next.DoctorChoice = ""
	next.DetectiveChoice = ""
	return next
}
