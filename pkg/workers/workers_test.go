package workers

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/cbodonnell/mafia/pkg/game/types"
	"github.com/cbodonnell/mafia/pkg/messages"
	"github.com/cbodonnell/mafia/pkg/state"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingSaver struct {
	lock  sync.Mutex
	saved [][]types.Player
	err   error
}

func (s *recordingSaver) Save(ctx context.Context, players []types.Player) error {
	s.lock.Lock()
	defer s.lock.Unlock()
	if s.err != nil {
		return s.err
	}
	s.saved = append(s.saved, players)
	return nil
}

func (s *recordingSaver) count() int {
	s.lock.Lock()
	defer s.lock.Unlock()
	return len(s.saved)
}

func TestSaveRosterWorker_saveRoster(t *testing.T) {
	ctx := context.Background()
	saver := &recordingSaver{}
	w := NewSaveRosterWorker(NewSaveRosterWorkerOptions{PlayerSaver: saver})

	players := []types.Player{{ID: "1", Name: "Ann", Role: types.RoleMafia, IsAlive: true}}
	w.saveRoster(ctx, SaveRosterRequest{Version: 2, Players: players})
	w.saveRoster(ctx, SaveRosterRequest{Version: 2, Players: players})
	w.saveRoster(ctx, SaveRosterRequest{Version: 1, Players: players})
	assert.Equal(t, 1, saver.count(), "stale versions are skipped")

	saver.err = errors.New("boom")
	w.saveRoster(ctx, SaveRosterRequest{Version: 3, Players: players})
	assert.Equal(t, int64(2), w.lastVersion, "failed saves are retried later")

	saver.err = nil
	w.saveRoster(ctx, SaveRosterRequest{Version: 3, Players: players})
	assert.Equal(t, 2, saver.count())
}

func TestSaveRosterWorker_Start(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	stateManager := state.NewInMemoryStateManager()
	require.NoError(t, stateManager.Set(ctx, &types.Snapshot{
		Version: 4,
		Status:  types.StatusPlaying,
		State:   types.NewGameState([]types.Player{{ID: "1", Name: "Ann", Role: types.RoleCitizen, IsAlive: true}}),
	}))

	saver := &recordingSaver{}
	saveChan := make(chan SaveRosterRequest, 1)
	w := NewSaveRosterWorker(NewSaveRosterWorkerOptions{
		PlayerSaver:    saver,
		SaveRosterChan: saveChan,
		StateManager:   stateManager,
		Interval:       10 * time.Millisecond,
	})
	go w.Start(ctx)

	require.Eventually(t, func() bool {
		return saver.count() == 1
	}, time.Second, 5*time.Millisecond)

	saveChan <- SaveRosterRequest{Version: 5, Players: []types.Player{}}
	require.Eventually(t, func() bool {
		return saver.count() == 2
	}, time.Second, 5*time.Millisecond)
}

type recordingSender struct {
	broadcast []*messages.Message
	direct    map[uint32][]*messages.Message
}

func (s *recordingSender) SendReliableMessageToAll(ctx context.Context, msg *messages.Message) {
	s.broadcast = append(s.broadcast, msg)
}

func (s *recordingSender) SendReliableMessageToClient(ctx context.Context, clientID uint32, msg *messages.Message) error {
	if s.direct == nil {
		s.direct = make(map[uint32][]*messages.Message)
	}
	s.direct[clientID] = append(s.direct[clientID], msg)
	return nil
}

func TestServerMessageWorker_handleServerMessage(t *testing.T) {
	ctx := context.Background()
	sender := &recordingSender{}
	w := NewServerMessageWorker(NewServerMessageWorkerOptions{Sender: sender})

	err := w.handleServerMessage(ctx, ServerMessage{
		Type:    messages.MessageTypeServerVictory,
		Message: &messages.ServerVictory{Victory: types.VictoryResult{Winner: types.WinnerMafia}},
	})
	require.NoError(t, err)
	require.Len(t, sender.broadcast, 1)
	assert.JSONEq(t, `{"victory":{"winner":"mafia"}}`, string(sender.broadcast[0].Payload))

	err = w.handleServerMessage(ctx, ServerMessage{
		ClientID: 9,
		Type:     messages.MessageTypeServerVoteRejected,
		Message:  &messages.ServerVoteRejected{VoterID: "1", TargetID: "1", Kind: types.VoteKindDay, Reason: "self_vote"},
	})
	require.NoError(t, err)
	require.Len(t, sender.direct[9], 1)
	assert.Equal(t, messages.MessageTypeServerVoteRejected, sender.direct[9][0].Type)

	err = w.handleServerMessage(ctx, ServerMessage{
		Type:    messages.MessageTypeServerVictory,
		Message: &messages.ServerError{Message: "wrong payload"},
	})
	assert.Error(t, err)

	err = w.handleServerMessage(ctx, ServerMessage{Type: messages.MessageTypeClientAdvancePhase})
	assert.Error(t, err)
	assert.Len(t, sender.broadcast, 1)
}
