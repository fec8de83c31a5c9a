package game

import (
	"github.com/cbodonnell/mafia/pkg/game/types"
)

// BuildAnnouncement creates the summary shown after a phase resolves.
func BuildAnnouncement(dead []types.Player, saved *types.Player) types.Announcement {
	a := types.Announcement{
		DeadPlayers: make([]types.Player, 0, len(dead)),
	}
	a.DeadPlayers = append(a.DeadPlayers, dead...)
	if saved != nil {
		a.SavedByDoctor = &types.SavedPlayer{ID: saved.ID, Name: saved.Name}
	}
	return a
}
