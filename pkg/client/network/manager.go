package network

import (
	"context"
	"fmt"
	"sync"

	"github.com/cbodonnell/mafia/pkg/game/types"
	"github.com/cbodonnell/mafia/pkg/log"
	"github.com/cbodonnell/mafia/pkg/messages"
	"github.com/cbodonnell/mafia/pkg/queue"
)

const (
	DefaultServerHostname = "localhost"
	DefaultServerWSPort   = 9091
)

// NetworkManager represents a network manager.
type NetworkManager struct {
	serverMessageQueue queue.Queue
	wsClient           *WSClient
	wsClientErrChan    chan error
	cancelClientCtx    context.CancelFunc
	clientWaitGroup    *sync.WaitGroup
}

// NewNetworkManager creates a network manager that queues server pushes on messageQueue.
func NewNetworkManager(serverAddr string, messageQueue queue.Queue) *NetworkManager {
	if serverAddr == "" {
		serverAddr = fmt.Sprintf("ws://%s:%d", DefaultServerHostname, DefaultServerWSPort)
	}
	return &NetworkManager{
		serverMessageQueue: messageQueue,
		wsClient:           NewWSClient(serverAddr, messageQueue),
		wsClientErrChan:    make(chan error, 1),
		clientWaitGroup:    &sync.WaitGroup{},
	}
}

// Start connects to the server and reads pushes in the background.
func (m *NetworkManager) Start(ctx context.Context) error {
	if err := m.wsClient.Connect(ctx); err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(ctx)
	m.cancelClientCtx = cancel

	m.clientWaitGroup.Add(1)
	go func() {
		defer m.clientWaitGroup.Done()
		if err := m.wsClient.HandleMessages(ctx); err != nil {
			m.wsClientErrChan <- err
		}
	}()

	return nil
}

// ClientErr returns errors from the background reader.
func (m *NetworkManager) ClientErr() <-chan error {
	return m.wsClientErrChan
}

// Stop closes the connection and waits for the reader to exit.
func (m *NetworkManager) Stop() {
	if m.cancelClientCtx != nil {
		m.cancelClientCtx()
	}
	if err := m.wsClient.Close(); err != nil {
		log.Warn("Failed to close WebSocket connection: %v", err)
	}
	m.clientWaitGroup.Wait()
}

func (m *NetworkManager) ServerMessageQueue() queue.Queue {
	return m.serverMessageQueue
}

func (m *NetworkManager) CastVote(ctx context.Context, kind types.VoteKind, voterID, targetID string) error {
	return m.send(ctx, messages.MessageTypeClientCastVote, messages.ClientCastVote{
		VoterID:  voterID,
		TargetID: targetID,
		Kind:     kind,
	})
}

func (m *NetworkManager) AdvancePhase(ctx context.Context) error {
	return m.send(ctx, messages.MessageTypeClientAdvancePhase, nil)
}

func (m *NetworkManager) AcknowledgeAnnouncement(ctx context.Context) error {
	return m.send(ctx, messages.MessageTypeClientAcknowledgeAnnouncement, nil)
}

func (m *NetworkManager) AcknowledgeReveal(ctx context.Context) error {
	return m.send(ctx, messages.MessageTypeClientAcknowledgeReveal, nil)
}

func (m *NetworkManager) ReturnToSetup(ctx context.Context) error {
	return m.send(ctx, messages.MessageTypeClientReturnToSetup, nil)
}

// send wraps payload in a message. The server stamps the client id.
func (m *NetworkManager) send(ctx context.Context, t messages.MessageType, payload interface{}) error {
	msg, err := messages.NewMessage(0, t, payload)
	if err != nil {
		return err
	}
	return m.wsClient.SendMessage(ctx, msg)
}
