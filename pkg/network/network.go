package network

import (
	"context"
	"fmt"
	"net/http"

	"github.com/cbodonnell/mafia/pkg/log"
	"github.com/cbodonnell/mafia/pkg/messages"
	"github.com/cbodonnell/mafia/pkg/queue"
	"github.com/cbodonnell/mafia/pkg/state"
	"nhooyr.io/websocket"
)

type NetworkManager struct {
	ClientManager *ClientManager
	MessageQueue  queue.Queue
	StateManager  state.StateManager
	WSServer      *WSServer
}

type NewNetworkManagerOptions struct {
	ClientManager *ClientManager
	MessageQueue  queue.Queue
	// StateManager provides the snapshot sent to clients when they connect
	StateManager state.StateManager
	WSPort       int
	WSServerTLS  *TLSConfig
}

func NewNetworkManager(options NewNetworkManagerOptions) *NetworkManager {
	return &NetworkManager{
		ClientManager: options.ClientManager,
		MessageQueue:  options.MessageQueue,
		StateManager:  options.StateManager,
		WSServer: NewWSServer(NewWSServerOptions{
			Port: options.WSPort,
			TLS:  options.WSServerTLS,
		}),
	}
}

func (n *NetworkManager) Start(ctx context.Context) {
	go n.WSServer.Start(ctx, n.handleConnect, n.handleDisconnect, n.handleMessage)
}

// Handler exposes the WebSocket endpoint without starting a listener.
func (n *NetworkManager) Handler(ctx context.Context) http.Handler {
	return n.WSServer.Handler(ctx, n.handleConnect, n.handleDisconnect, n.handleMessage)
}

func (n *NetworkManager) handleConnect(ctx context.Context, conn *websocket.Conn) (uint32, error) {
	clientID, err := n.ClientManager.ConnectClient(conn)
	if err != nil {
		return 0, err
	}
	log.Info("Client %d connected", clientID)

	if n.StateManager == nil {
		return clientID, nil
	}
	snapshot, err := n.StateManager.Get(ctx)
	if err != nil {
		log.Error("Failed to get snapshot for client %d: %v", clientID, err)
		return clientID, nil
	}
	msg, err := messages.NewMessage(0, messages.MessageTypeServerGameState, messages.ServerGameState{Snapshot: snapshot})
	if err != nil {
		log.Error("Failed to create game state message: %v", err)
		return clientID, nil
	}
	if err := n.SendReliableMessageToClient(ctx, clientID, msg); err != nil {
		log.Error("Failed to send game state to client %d: %v", clientID, err)
	}

	return clientID, nil
}

func (n *NetworkManager) handleDisconnect(conn *websocket.Conn) {
	clientID := n.ClientManager.GetClientIDByWSConn(conn)
	if clientID != 0 {
		n.ClientManager.DisconnectClient(clientID)
		log.Info("Client %d disconnected", clientID)
		return
	}

	log.Warn("Unknown client disconnected")
}

func (n *NetworkManager) handleMessage(ctx context.Context, conn *websocket.Conn, message *messages.Message) {
	clientID := n.ClientManager.GetClientIDByWSConn(conn)
	if clientID == 0 {
		log.Warn("Received message from unknown client, ignoring")
		return
	}
	n.enqueueCommand(ctx, clientID, message)
}

// enqueueCommand stamps the sender on a client command and queues it for the game manager.
func (n *NetworkManager) enqueueCommand(ctx context.Context, clientID uint32, message *messages.Message) {
	if !IsClientCommand(message.Type) {
		log.Warn("Client %d sent unexpected message type %s", clientID, message.Type)
		return
	}

	message.ClientID = clientID
	if err := n.MessageQueue.Enqueue(message); err != nil {
		log.Error("Failed to enqueue message: %v", err)
		errMsg, err := messages.NewMessage(0, messages.MessageTypeServerError, messages.ServerError{Message: "server is busy, try again"})
		if err != nil {
			return
		}
		if err := n.SendReliableMessageToClient(ctx, clientID, errMsg); err != nil {
			log.Error("Failed to send error to client %d: %v", clientID, err)
		}
	}
}

// IsClientCommand reports whether t is a command clients may send.
func IsClientCommand(t messages.MessageType) bool {
	switch t {
	case messages.MessageTypeClientNewGame,
		messages.MessageTypeClientCastVote,
		messages.MessageTypeClientAdvancePhase,
		messages.MessageTypeClientAcknowledgeAnnouncement,
		messages.MessageTypeClientAcknowledgeReveal,
		messages.MessageTypeClientReturnToSetup:
		return true
	default:
		return false
	}
}

func (n *NetworkManager) SendReliableMessageToAll(ctx context.Context, msg *messages.Message) {
	for _, client := range n.ClientManager.GetClients() {
		if err := WriteMessageToWS(ctx, client.WSConn, msg); err != nil {
			log.Error("Failed to send reliable message to client %d: %v", client.ID, err)
		}
	}
}

func (n *NetworkManager) SendReliableMessageToClient(ctx context.Context, clientID uint32, msg *messages.Message) error {
	client, err := n.ClientManager.GetClient(clientID)
	if err != nil {
		return fmt.Errorf("failed to get client %d: %v", clientID, err)
	}

	if err := WriteMessageToWS(ctx, client.WSConn, msg); err != nil {
		return fmt.Errorf("failed to send reliable message to client %d: %v", clientID, err)
	}

	return nil
}
