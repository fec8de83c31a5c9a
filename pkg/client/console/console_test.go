package console

import (
	"testing"

	"github.com/cbodonnell/mafia/pkg/game/types"
	"github.com/cbodonnell/mafia/pkg/game/votes"
	"github.com/cbodonnell/mafia/pkg/messages"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCommand(t *testing.T) {
	tests := []struct {
		line    string
		want    Command
		wantErr bool
	}{
		{line: "vote mafia a b", want: Command{Kind: CommandVote, VoteKind: types.VoteKindMafia, VoterID: "a", TargetID: "b"}},
		{line: "  VOTE Day a  b ", want: Command{Kind: CommandVote, VoteKind: types.VoteKindDay, VoterID: "a", TargetID: "b"}},
		{line: "advance", want: Command{Kind: CommandAdvance}},
		{line: "ack", want: Command{Kind: CommandAckAnnouncement}},
		{line: "reveal", want: Command{Kind: CommandAckReveal}},
		{line: "setup", want: Command{Kind: CommandSetup}},
		{line: "quit", want: Command{Kind: CommandQuit}},
		{line: "", wantErr: true},
		{line: "vote mafia a", wantErr: true},
		{line: "vote sheriff a b", wantErr: true},
		{line: "dance", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			got, err := ParseCommand(tt.line)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRender_GameState(t *testing.T) {
	snapshot := &types.Snapshot{
		Version: 4,
		Status:  types.StatusPlaying,
		State: &types.GameState{
			Players: []types.Player{
				{ID: "a", Name: "Ann", Role: types.RoleMafia, IsAlive: true},
				{ID: "b", Name: "Bob", Role: types.RoleCitizen, IsAlive: true},
				{ID: "c", Name: "Cat", Role: types.RoleCitizen},
			},
			Phase:       types.PhaseNight,
			DayCount:    2,
			NightStep:   types.NightStepMafia,
			MafiaBallot: votes.Ballot{"b": {"a"}},
			DayBallot:   votes.Ballot{},
		},
		CanProceed:    true,
		RequiredVotes: 1,
	}
	msg, err := messages.NewMessage(0, messages.MessageTypeServerGameState, messages.ServerGameState{Snapshot: snapshot})
	require.NoError(t, err)

	lines, err := Render(msg)
	require.NoError(t, err)
	require.Len(t, lines, 5)
	assert.Equal(t, "[v4] playing: night 2 (mafia)", lines[0])
	assert.Contains(t, lines[2], "votes 1/1")
	assert.Contains(t, lines[3], "dead")
	assert.Equal(t, "  ready to advance", lines[4])
}

func TestRender_Pushes(t *testing.T) {
	msg, err := messages.NewMessage(0, messages.MessageTypeServerVictory, messages.ServerVictory{Victory: types.VictoryResult{Winner: types.WinnerMafia}})
	require.NoError(t, err)
	lines, err := Render(msg)
	require.NoError(t, err)
	assert.Equal(t, []string{"*** mafia win ***"}, lines)

	msg, err = messages.NewMessage(0, messages.MessageTypeServerVoteRejected, messages.ServerVoteRejected{VoterID: "a", TargetID: "a", Kind: types.VoteKindDay, Reason: "self_vote"})
	require.NoError(t, err)
	lines, err = Render(msg)
	require.NoError(t, err)
	assert.Equal(t, []string{"vote rejected (day a -> a): self_vote"}, lines)

	_, err = Render(&messages.Message{Type: messages.MessageTypeClientAdvancePhase})
	assert.Error(t, err)
}
