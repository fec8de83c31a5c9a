package workers

import (
	"context"
	"fmt"

	"github.com/cbodonnell/mafia/pkg/log"
	"github.com/cbodonnell/mafia/pkg/messages"
)

// Sender delivers messages to connected clients.
type Sender interface {
	SendReliableMessageToAll(ctx context.Context, msg *messages.Message)
	SendReliableMessageToClient(ctx context.Context, clientID uint32, msg *messages.Message) error
}

type ServerMessageWorker struct {
	sender            Sender
	serverMessageChan <-chan ServerMessage
}

// ServerMessage is a push from the game loop. A zero ClientID broadcasts to every client.
type ServerMessage struct {
	ClientID uint32
	Type     messages.MessageType
	Message  interface{}
}

type NewServerMessageWorkerOptions struct {
	Sender            Sender
	ServerMessageChan <-chan ServerMessage
}

func NewServerMessageWorker(opts NewServerMessageWorkerOptions) *ServerMessageWorker {
	return &ServerMessageWorker{
		sender:            opts.Sender,
		serverMessageChan: opts.ServerMessageChan,
	}
}

func (w *ServerMessageWorker) Start(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case msg := <-w.serverMessageChan:
			if err := w.handleServerMessage(ctx, msg); err != nil {
				log.Error("Failed to handle %s message: %v", msg.Type, err)
			}
		}
	}
}

func (w *ServerMessageWorker) handleServerMessage(ctx context.Context, msg ServerMessage) error {
	if err := checkServerMessage(msg); err != nil {
		return err
	}

	message, err := messages.NewMessage(0, msg.Type, msg.Message)
	if err != nil {
		return err
	}

	if msg.ClientID == 0 {
		w.sender.SendReliableMessageToAll(ctx, message)
		return nil
	}
	return w.sender.SendReliableMessageToClient(ctx, msg.ClientID, message)
}

// checkServerMessage makes sure the payload matches the message type.
func checkServerMessage(msg ServerMessage) error {
	var ok bool
	switch msg.Type {
	case messages.MessageTypeServerGameState:
		_, ok = msg.Message.(*messages.ServerGameState)
	case messages.MessageTypeServerAnnouncement:
		_, ok = msg.Message.(*messages.ServerAnnouncement)
	case messages.MessageTypeServerDetectiveReveal:
		_, ok = msg.Message.(*messages.ServerDetectiveReveal)
	case messages.MessageTypeServerVictory:
		_, ok = msg.Message.(*messages.ServerVictory)
	case messages.MessageTypeServerVoteRejected:
		_, ok = msg.Message.(*messages.ServerVoteRejected)
	case messages.MessageTypeServerError:
		_, ok = msg.Message.(*messages.ServerError)
	default:
		return fmt.Errorf("unknown server message type: %v", msg.Type)
	}
	if !ok {
		return fmt.Errorf("unexpected payload %T for %s", msg.Message, msg.Type)
	}
	return nil
}
