package game

import "github.com/cbodonnell/mafia/pkg/game/types"

// CheckVictory evaluates the win conditions over the current roster.
// It returns nil while the game should continue.
func CheckVictory(players []types.Player) *types.VictoryResult {
	mafiaAlive := types.CountAlive(players, types.HasRole(types.RoleMafia))
	townAlive := types.CountAlive(players, func(p types.Player) bool {
		return p.Role.IsTown()
	})

	if mafiaAlive == 0 {
		return &types.VictoryResult{Winner: types.WinnerCitizens}
	}
	if mafiaAlive >= townAlive {
		return &types.VictoryResult{Winner: types.WinnerMafia}
	}
	return nil
}
