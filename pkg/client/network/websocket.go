package network

import (
	"context"
	"fmt"
	"sync"

	"github.com/cbodonnell/mafia/pkg/log"
	"github.com/cbodonnell/mafia/pkg/messages"
	"github.com/cbodonnell/mafia/pkg/queue"
	"nhooyr.io/websocket"
)

// WSClient represents a WebSocket client.
type WSClient struct {
	serverAddr   string
	messageQueue queue.Queue
	conn         *websocket.Conn
	writeLock    sync.Mutex
}

// NewWSClient creates a new WebSocket client that queues every server push it receives.
func NewWSClient(serverAddr string, messageQueue queue.Queue) *WSClient {
	return &WSClient{
		serverAddr:   serverAddr,
		messageQueue: messageQueue,
	}
}

// Connect establishes a connection to the WebSocket server.
func (c *WSClient) Connect(ctx context.Context) error {
	log.Info("Connecting to WebSocket server at %s", c.serverAddr)
	conn, _, err := websocket.Dial(ctx, c.serverAddr, nil)
	if err != nil {
		return fmt.Errorf("failed to connect to server: %v", err)
	}
	conn.SetReadLimit(messages.MessageBufferSize)
	c.conn = conn
	return nil
}

// HandleMessages reads server pushes until the connection closes or ctx is done.
func (c *WSClient) HandleMessages(ctx context.Context) error {
	for {
		_, b, err := c.conn.Read(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			status := websocket.CloseStatus(err)
			if status == websocket.StatusNormalClosure || status == websocket.StatusGoingAway {
				log.Trace("Connection closed for %s", c.serverAddr)
				return nil
			}
			return fmt.Errorf("failed to read WebSocket message: %v", err)
		}

		if err := c.handleMessage(b); err != nil {
			log.Error("Failed to handle message: %v", err)
		}
	}
}

// handleMessage processes a received message.
func (c *WSClient) handleMessage(b []byte) error {
	msg, err := messages.DeserializeMessage(b)
	if err != nil {
		return fmt.Errorf("failed to deserialize message: %v", err)
	}
	log.Trace("Received message from WebSocket server of type %s", msg.Type)

	switch msg.Type {
	case messages.MessageTypeServerGameState,
		messages.MessageTypeServerAnnouncement,
		messages.MessageTypeServerDetectiveReveal,
		messages.MessageTypeServerVictory,
		messages.MessageTypeServerVoteRejected,
		messages.MessageTypeServerError:
		if err := c.messageQueue.Enqueue(msg); err != nil {
			return fmt.Errorf("failed to enqueue message: %v", err)
		}
	default:
		return fmt.Errorf("received unexpected message type from WebSocket server: %s", msg.Type)
	}

	return nil
}

// Close closes the WebSocket connection.
func (c *WSClient) Close() error {
	if c.conn == nil {
		log.Warn("WebSocket connection is already closed")
		return nil
	}
	return c.conn.Close(websocket.StatusNormalClosure, "")
}

// SendMessage sends a message to the WebSocket server.
func (c *WSClient) SendMessage(ctx context.Context, msg *messages.Message) error {
	if c.conn == nil {
		return fmt.Errorf("not connected")
	}
	b, err := messages.SerializeMessage(msg)
	if err != nil {
		return fmt.Errorf("failed to serialize message: %v", err)
	}

	c.writeLock.Lock()
	defer c.writeLock.Unlock()
	if err := c.conn.Write(ctx, websocket.MessageBinary, b); err != nil {
		return fmt.Errorf("failed to write message to WebSocket connection: %v", err)
	}

	return nil
}
