package game

import (
	"fmt"

	"github.com/cbodonnell/mafia/pkg/game/types"
	"github.com/cbodonnell/mafia/pkg/game/votes"
	"github.com/cbodonnell/mafia/pkg/log"
)

// Machine runs a single game through its nights and days.
// It is not safe for concurrent use.
type Machine struct {
	status       types.GameStatus
	state        *types.GameState
	announcement *types.Announcement
	reveal       *types.DetectiveReveal
	victory      *types.VictoryResult
	leader       votes.LeaderFunc
}

// NewMachineOptions contains options for creating a new Machine.
type NewMachineOptions struct {
	// TieBreaker resolves shared maximums. Nil keeps ties blocking.
	TieBreaker votes.TieBreaker
}

func NewMachine(opts NewMachineOptions) *Machine {
	return &Machine{
		status: types.StatusSetup,
		leader: votes.LeaderWithTieBreak(opts.TieBreaker),
	}
}

// VoteResult reports the outcome of CastVote.
type VoteResult struct {
	Accepted bool
	Reason   RejectReason
	// Reveal is set when a detective check was accepted
	Reveal *types.DetectiveReveal
}

// NewGame starts the first night with players, replacing any game in progress.
// Everyone starts alive.
func (m *Machine) NewGame(players []types.Player) error {
	if len(players) == 0 {
		return ErrEmptyRoster
	}
	seen := make(map[string]struct{}, len(players))
	roster := make([]types.Player, len(players))
	for i, p := range players {
		if p.ID == "" || p.Name == "" || !p.Role.Valid() {
			return fmt.Errorf("%w: %+v", ErrInvalidPlayer, p)
		}
		if _, ok := seen[p.ID]; ok {
			return fmt.Errorf("%w: %s", ErrDuplicatePlayer, p.ID)
		}
		seen[p.ID] = struct{}{}
		p.IsAlive = true
		roster[i] = p
	}

	m.state = types.NewGameState(roster)
	m.status = types.StatusPlaying
	m.announcement = nil
	m.reveal = nil
	m.victory = nil
	log.Info("New game started with %d players", len(roster))

	m.checkVictory()
	return nil
}

// CastVote records a vote. Invalid votes are ignored and reported as not accepted.
func (m *Machine) CastVote(voterID, targetID string, kind types.VoteKind) VoteResult {
	switch m.status {
	case types.StatusSetup:
		return m.reject(voterID, targetID, kind, RejectNoGame)
	case types.StatusGameOver:
		return m.reject(voterID, targetID, kind, RejectGameOver)
	}

	if reason := checkVote(m.state, voterID, targetID, kind); reason != RejectNone {
		return m.reject(voterID, targetID, kind, reason)
	}

	result := VoteResult{Accepted: true}
	switch kind {
	case types.VoteKindMafia:
		m.state.MafiaBallot = m.state.MafiaBallot.Cast(voterID, targetID)
	case types.VoteKindDoctor:
		m.state.DoctorChoice = targetID
	case types.VoteKindDetective:
		m.state.DetectiveChoice = targetID
		target, _ := m.state.Player(targetID)
		m.reveal = &types.DetectiveReveal{TargetID: target.ID, Role: target.Role}
		reveal := *m.reveal
		result.Reveal = &reveal
	case types.VoteKindDay:
		m.state.DayBallot = m.state.DayBallot.Cast(voterID, targetID)
	}
	m.phaseLog().WithFields(log.Fields{"kind": kind, "voter": voterID, "target": targetID}).Trace("Recorded vote")
	return result
}

func (m *Machine) reject(voterID, targetID string, kind types.VoteKind, reason RejectReason) VoteResult {
	log.WithFields(log.Fields{"kind": kind, "voter": voterID, "target": targetID, "reason": reason}).Debug("Ignoring vote")
	return VoteResult{Reason: reason}
}

// CanProceed reports whether AdvancePhase would move the game forward.
func (m *Machine) CanProceed() bool {
	if m.status != types.StatusPlaying {
		return false
	}
	if m.state.Phase == types.PhaseDay {
		return dayReady(m.state, m.leader)
	}
	return nightStepReady(m.state, m.leader)
}

// RequiredVotes returns how many votes the active step needs.
func (m *Machine) RequiredVotes() int {
	if m.status != types.StatusPlaying {
		return 0
	}
	if m.state.Phase == types.PhaseDay {
		return m.state.CountAlive(nil)
	}
	role, ok := stepRoles[m.state.NightStep]
	if !ok {
		return 0
	}
	return m.state.CountAlive(types.HasRole(role))
}

// AdvancePhase completes the active night step or day. It does nothing and
// returns false unless CanProceed holds.
func (m *Machine) AdvancePhase() bool {
	if !m.CanProceed() {
		return false
	}

	if m.state.Phase == types.PhaseDay {
		players, announcement := ResolveDay(m.state.DayBallot, m.state.Players, m.leader)
		m.state = endDay(m.state, players)
		m.announcement = &announcement
		m.phaseLog().WithFields(log.Fields{"executed": len(announcement.DeadPlayers)}).Info("Day resolved")
		m.checkVictory()
		return true
	}

	if next := nextNightStep(m.state, m.state.NightStep); next != types.NightStepNone {
		m.state.NightStep = next
		m.phaseLog().Debug("Night step advanced")
		return true
	}

	state, announcement := ResolveNight(m.state, m.leader)
	m.state = state
	m.announcement = &announcement
	m.reveal = nil
	m.phaseLog().WithFields(log.Fields{"killed": len(announcement.DeadPlayers), "saved": announcement.SavedByDoctor != nil}).Info("Night resolved")
	m.checkVictory()
	return true
}

// phaseLog tags log lines with where the game stands.
func (m *Machine) phaseLog() *log.Entry {
	return log.WithFields(log.Fields{
		"phase":     m.state.Phase,
		"day":       m.state.DayCount,
		"nightStep": m.state.NightStep,
	})
}

func (m *Machine) checkVictory() {
	if result := CheckVictory(m.state.Players); result != nil {
		m.victory = result
		m.status = types.StatusGameOver
		m.phaseLog().WithFields(log.Fields{"winner": result.Winner}).Info("Game over")
	}
}

// CurrentState returns a copy of the game state, or nil before a game starts.
func (m *Machine) CurrentState() *types.GameState {
	if m.state == nil {
		return nil
	}
	return m.state.Copy()
}

// PendingAnnouncement returns the unacknowledged announcement, if any.
func (m *Machine) PendingAnnouncement() *types.Announcement {
	if m.announcement == nil {
		return nil
	}
	a := *m.announcement
	a.DeadPlayers = append([]types.Player(nil), m.announcement.DeadPlayers...)
	return &a
}

func (m *Machine) AcknowledgeAnnouncement() {
	m.announcement = nil
}

// PendingReveal returns the detective's unacknowledged result, if any.
func (m *Machine) PendingReveal() *types.DetectiveReveal {
	if m.reveal == nil {
		return nil
	}
	r := *m.reveal
	return &r
}

func (m *Machine) AcknowledgeReveal() {
	m.reveal = nil
}

// Victory returns the winner once the game is over.
func (m *Machine) Victory() *types.VictoryResult {
	if m.victory == nil {
		return nil
	}
	v := *m.victory
	return &v
}

func (m *Machine) Status() types.GameStatus {
	return m.status
}

// ReturnToSetup discards the current game.
func (m *Machine) ReturnToSetup() {
	m.status = types.StatusSetup
	m.state = nil
	m.announcement = nil
	m.reveal = nil
	m.victory = nil
}

// Snapshot returns the public view of the machine. The version is left for the publisher to set.
func (m *Machine) Snapshot() *types.Snapshot {
	return &types.Snapshot{
		Status:        m.status,
		State:         m.CurrentState(),
		Announcement:  m.PendingAnnouncement(),
		Reveal:        m.PendingReveal(),
		Victory:       m.Victory(),
		CanProceed:    m.CanProceed(),
		RequiredVotes: m.RequiredVotes(),
	}
}
