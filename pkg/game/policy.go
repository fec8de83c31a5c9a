package game

import (
	"github.com/cbodonnell/mafia/pkg/game/types"
)

// votePolicy describes who may cast a kind of vote, when, and against whom.
type votePolicy struct {
	phase types.Phase
	step  types.NightStep
	// voterRole restricts the voter's role; empty allows any living player
	voterRole types.RoleKind
	allowSelf bool
	// forbiddenTarget rejects targets holding this role; empty allows any
	forbiddenTarget types.RoleKind
}

// Doctors may protect themselves and detectives may check themselves.
// Mafia and day votes can never target the voter.
var votePolicies = map[types.VoteKind]votePolicy{
	types.VoteKindMafia: {
		phase:           types.PhaseNight,
		step:            types.NightStepMafia,
		voterRole:       types.RoleMafia,
		forbiddenTarget: types.RoleMafia,
	},
	types.VoteKindDoctor: {
		phase:     types.PhaseNight,
		step:      types.NightStepDoctor,
		voterRole: types.RoleDoctor,
		allowSelf: true,
	},
	types.VoteKindDetective: {
		phase:     types.PhaseNight,
		step:      types.NightStepDetective,
		voterRole: types.RoleDetective,
		allowSelf: true,
	},
	types.VoteKindDay: {
		phase: types.PhaseDay,
	},
}

// RejectReason explains why a vote was not recorded.
type RejectReason string

const (
	RejectNone          RejectReason = ""
	RejectNoGame        RejectReason = "no_game"
	RejectGameOver      RejectReason = "game_over"
	RejectUnknownKind   RejectReason = "unknown_kind"
	RejectWrongPhase    RejectReason = "wrong_phase"
	RejectUnknownVoter  RejectReason = "unknown_voter"
	RejectDeadVoter     RejectReason = "dead_voter"
	RejectWrongRole     RejectReason = "wrong_role"
	RejectUnknownTarget RejectReason = "unknown_target"
	RejectDeadTarget    RejectReason = "dead_target"
	RejectSelfVote      RejectReason = "self_vote"
	RejectTeammate      RejectReason = "teammate"
)

// checkVote validates a vote against the policy for its kind.
func checkVote(state *types.GameState, voterID, targetID string, kind types.VoteKind) RejectReason {
	policy, ok := votePolicies[kind]
	if !ok {
		return RejectUnknownKind
	}

	if state.Phase != policy.phase {
		return RejectWrongPhase
	}
	if policy.phase == types.PhaseNight && state.NightStep != policy.step {
		return RejectWrongPhase
	}

	voter, ok := state.Player(voterID)
	if !ok {
		return RejectUnknownVoter
	}
	if !voter.IsAlive {
		return RejectDeadVoter
	}
	if policy.voterRole != "" && voter.Role != policy.voterRole {
		return RejectWrongRole
	}

	target, ok := state.Player(targetID)
	if !ok {
		return RejectUnknownTarget
	}
	if !target.IsAlive {
		return RejectDeadTarget
	}
	if voterID == targetID && !policy.allowSelf {
		return RejectSelfVote
	}
	if policy.forbiddenTarget != "" && target.Role == policy.forbiddenTarget {
		return RejectTeammate
	}

	return RejectNone
}
