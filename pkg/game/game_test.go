package game

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	mocks "github.com/cbodonnell/mafia/mocks/github.com/cbodonnell/mafia/pkg/queue"
	"github.com/cbodonnell/mafia/pkg/game/types"
	"github.com/cbodonnell/mafia/pkg/messages"
	"github.com/cbodonnell/mafia/pkg/state"
	"github.com/cbodonnell/mafia/pkg/workers"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func command(t *testing.T, clientID uint32, messageType messages.MessageType, payload interface{}) *messages.Message {
	t.Helper()
	msg, err := messages.NewMessage(clientID, messageType, payload)
	require.NoError(t, err)
	return msg
}

func drain(ch <-chan workers.ServerMessage) []workers.ServerMessage {
	var out []workers.ServerMessage
	for {
		select {
		case msg := <-ch:
			out = append(out, msg)
		default:
			return out
		}
	}
}

func typesOf(msgs []workers.ServerMessage) []messages.MessageType {
	out := make([]messages.MessageType, len(msgs))
	for i, msg := range msgs {
		out[i] = msg.Type
	}
	return out
}

type testManager struct {
	gm           *GameManager
	queue        *mocks.Queue
	stateManager *state.InMemoryStateManager
	serverChan   chan workers.ServerMessage
	saveChan     chan workers.SaveRosterRequest
}

func newTestManager(t *testing.T) *testManager {
	mockQueue := mocks.NewQueue(t)
	stateManager := state.NewInMemoryStateManager()
	serverChan := make(chan workers.ServerMessage, 32)
	saveChan := make(chan workers.SaveRosterRequest, 32)
	gm := NewGameManager(NewGameManagerOptions{
		CommandQueue:      mockQueue,
		StateManager:      stateManager,
		SaveRosterChan:    saveChan,
		ServerMessageChan: serverChan,
	})
	return &testManager{
		gm:           gm,
		queue:        mockQueue,
		stateManager: stateManager,
		serverChan:   serverChan,
		saveChan:     saveChan,
	}
}

func (tm *testManager) tick(t *testing.T, items ...interface{}) *types.Snapshot {
	t.Helper()
	ctx := context.Background()
	tm.queue.EXPECT().ReadAllMessages().Return(items, nil).Once()
	require.NoError(t, tm.gm.gameTick(ctx))
	snapshot, err := tm.stateManager.Get(ctx)
	require.NoError(t, err)
	return snapshot
}

func TestGameManager_processCommands(t *testing.T) {
	tm := newTestManager(t)
	players := roster(types.RoleMafia, types.RoleDetective, types.RoleCitizen, types.RoleCitizen, types.RoleCitizen)

	snapshot := tm.tick(t, command(t, 0, messages.MessageTypeClientNewGame, messages.ClientNewGame{Players: players}))
	assert.Equal(t, int64(1), snapshot.Version)
	assert.Equal(t, types.StatusPlaying, snapshot.Status)
	assert.Equal(t, []messages.MessageType{messages.MessageTypeServerGameState}, typesOf(drain(tm.serverChan)))
	require.Len(t, tm.saveChan, 1)
	assert.Equal(t, int64(1), (<-tm.saveChan).Version)

	// a rejected vote alone does not publish a new snapshot
	snapshot = tm.tick(t, command(t, 5, messages.MessageTypeClientCastVote, messages.ClientCastVote{VoterID: "C", TargetID: "D", Kind: types.VoteKindMafia}))
	assert.Equal(t, int64(1), snapshot.Version)
	rejected := drain(tm.serverChan)
	require.Len(t, rejected, 1)
	assert.Equal(t, messages.MessageTypeServerVoteRejected, rejected[0].Type)
	assert.Equal(t, uint32(5), rejected[0].ClientID)
	assert.Equal(t, string(RejectWrongRole), rejected[0].Message.(*messages.ServerVoteRejected).Reason)

	snapshot = tm.tick(t,
		command(t, 5, messages.MessageTypeClientCastVote, messages.ClientCastVote{VoterID: "A", TargetID: "C", Kind: types.VoteKindMafia}),
		command(t, 5, messages.MessageTypeClientAdvancePhase, nil),
		command(t, 6, messages.MessageTypeClientCastVote, messages.ClientCastVote{VoterID: "B", TargetID: "A", Kind: types.VoteKindDetective}),
	)
	assert.Equal(t, int64(2), snapshot.Version)
	assert.Equal(t, types.NightStepDetective, snapshot.State.NightStep)
	assert.Equal(t, &types.DetectiveReveal{TargetID: "A", Role: types.RoleMafia}, snapshot.Reveal)
	pushed := drain(tm.serverChan)
	assert.Equal(t, []messages.MessageType{messages.MessageTypeServerDetectiveReveal, messages.MessageTypeServerGameState}, typesOf(pushed))
	assert.Equal(t, uint32(6), pushed[0].ClientID)

	snapshot = tm.tick(t, command(t, 5, messages.MessageTypeClientAdvancePhase, nil))
	assert.Equal(t, types.PhaseDay, snapshot.State.Phase)
	require.NotNil(t, snapshot.Announcement)
	assert.Equal(t, "C", snapshot.Announcement.DeadPlayers[0].ID)
	pushed = drain(tm.serverChan)
	assert.Equal(t, []messages.MessageType{messages.MessageTypeServerAnnouncement, messages.MessageTypeServerGameState}, typesOf(pushed))
	announcement := pushed[0].Message.(*messages.ServerAnnouncement)
	assert.Equal(t, types.HeadlineDeaths, announcement.Headline)
	assert.Equal(t, []string{"C was killed. They were a citizen."}, announcement.Lines)

	resolvedVersion := snapshot.Version
	snapshot = tm.tick(t, command(t, 5, messages.MessageTypeClientAcknowledgeAnnouncement, nil))
	assert.Nil(t, snapshot.Announcement)
	assert.Equal(t, resolvedVersion+1, snapshot.Version)
	assert.Equal(t, []messages.MessageType{messages.MessageTypeServerGameState}, typesOf(drain(tm.serverChan)))

	// the town executes the mafia
	snapshot = tm.tick(t,
		command(t, 0, messages.MessageTypeClientCastVote, messages.ClientCastVote{VoterID: "A", TargetID: "B", Kind: types.VoteKindDay}),
		command(t, 0, messages.MessageTypeClientCastVote, messages.ClientCastVote{VoterID: "B", TargetID: "A", Kind: types.VoteKindDay}),
		command(t, 0, messages.MessageTypeClientCastVote, messages.ClientCastVote{VoterID: "D", TargetID: "A", Kind: types.VoteKindDay}),
		command(t, 0, messages.MessageTypeClientCastVote, messages.ClientCastVote{VoterID: "E", TargetID: "A", Kind: types.VoteKindDay}),
		command(t, 0, messages.MessageTypeClientAdvancePhase, nil),
	)
	assert.Equal(t, types.StatusGameOver, snapshot.Status)
	assert.Equal(t, &types.VictoryResult{Winner: types.WinnerCitizens}, snapshot.Victory)
	assert.Equal(t, []messages.MessageType{
		messages.MessageTypeServerAnnouncement,
		messages.MessageTypeServerVictory,
		messages.MessageTypeServerGameState,
	}, typesOf(drain(tm.serverChan)))

	snapshot = tm.tick(t, command(t, 0, messages.MessageTypeClientReturnToSetup, nil))
	assert.Equal(t, types.StatusSetup, snapshot.Status)
	assert.Nil(t, snapshot.State)
}

func TestGameManager_nightStepDoesNotRepeatAnnouncement(t *testing.T) {
	tm := newTestManager(t)
	players := roster(types.RoleMafia, types.RoleDoctor, types.RoleCitizen, types.RoleCitizen, types.RoleCitizen, types.RoleCitizen)
	vote := func(voter, target string, kind types.VoteKind) interface{} {
		return command(t, 0, messages.MessageTypeClientCastVote, messages.ClientCastVote{VoterID: voter, TargetID: target, Kind: kind})
	}
	advance := command(t, 0, messages.MessageTypeClientAdvancePhase, nil)

	tm.tick(t,
		command(t, 0, messages.MessageTypeClientNewGame, messages.ClientNewGame{Players: players}),
		vote("A", "C", types.VoteKindMafia),
		advance,
		vote("B", "B", types.VoteKindDoctor),
		advance,
		vote("A", "D", types.VoteKindDay),
		vote("B", "D", types.VoteKindDay),
		vote("D", "A", types.VoteKindDay),
		vote("E", "D", types.VoteKindDay),
		vote("F", "D", types.VoteKindDay),
		advance,
	)
	snapshot, err := tm.stateManager.Get(context.Background())
	require.NoError(t, err)
	require.Equal(t, types.PhaseNight, snapshot.State.Phase)
	assert.Equal(t, 2, snapshot.State.DayCount)
	require.NotNil(t, snapshot.Announcement, "the day's announcement is still unacknowledged")
	assert.Equal(t, []messages.MessageType{
		messages.MessageTypeServerAnnouncement,
		messages.MessageTypeServerAnnouncement,
		messages.MessageTypeServerGameState,
	}, typesOf(drain(tm.serverChan)))

	snapshot = tm.tick(t, vote("A", "E", types.VoteKindMafia), advance)
	assert.Equal(t, types.NightStepDoctor, snapshot.State.NightStep)
	assert.Equal(t, []messages.MessageType{messages.MessageTypeServerGameState}, typesOf(drain(tm.serverChan)))
}

func TestGameManager_invalidCommands(t *testing.T) {
	tm := newTestManager(t)

	snapshot := tm.tick(t,
		"not a message",
		&messages.Message{ClientID: 3, Type: messages.MessageTypeClientNewGame, Payload: json.RawMessage(`{"players":"nope"}`)},
		command(t, 3, messages.MessageTypeClientNewGame, messages.ClientNewGame{}),
		&messages.Message{ClientID: 3, Type: messages.MessageTypeServerVictory},
		command(t, 3, messages.MessageTypeClientAdvancePhase, nil),
	)
	assert.Equal(t, types.StatusSetup, snapshot.Status)
	assert.Zero(t, snapshot.Version, "nothing changed so nothing was published")

	pushed := drain(tm.serverChan)
	assert.Equal(t, []messages.MessageType{
		messages.MessageTypeServerError,
		messages.MessageTypeServerError,
		messages.MessageTypeServerError,
	}, typesOf(pushed))
	assert.Contains(t, pushed[1].Message.(*messages.ServerError).Message, ErrEmptyRoster.Error())
}

func TestGameManager_queueError(t *testing.T) {
	tm := newTestManager(t)
	tm.queue.EXPECT().ReadAllMessages().Return(nil, errors.New("queue closed")).Once()
	require.NoError(t, tm.gm.gameTick(context.Background()))
	assert.Empty(t, drain(tm.serverChan))
}

func TestGameManager_fullChannelsDoNotBlock(t *testing.T) {
	mockQueue := mocks.NewQueue(t)
	gm := NewGameManager(NewGameManagerOptions{
		CommandQueue: mockQueue,
		StateManager: state.NewInMemoryStateManager(),
	})
	mockQueue.EXPECT().ReadAllMessages().Return([]interface{}{
		command(t, 0, messages.MessageTypeClientNewGame, messages.ClientNewGame{Players: roster(types.RoleMafia, types.RoleCitizen)}),
	}, nil).Once()

	require.NoError(t, gm.gameTick(context.Background()))
	assert.Equal(t, types.StatusGameOver, gm.machine.Status())
}
