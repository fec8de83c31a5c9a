package messages

import (
	"encoding/json"
	"fmt"

	"github.com/cbodonnell/mafia/pkg/game/types"
)

const (
	// MessageBufferSize represents the maximum size of a message
	MessageBufferSize = 1 << 16
)

type MessageType byte

// Message types
const (
	MessageTypeClientNewGame MessageType = iota + 1
	MessageTypeClientCastVote
	MessageTypeClientAdvancePhase
	MessageTypeClientAcknowledgeAnnouncement
	MessageTypeClientAcknowledgeReveal
	MessageTypeClientReturnToSetup
	MessageTypeServerGameState
	MessageTypeServerAnnouncement
	MessageTypeServerDetectiveReveal
	MessageTypeServerVictory
	MessageTypeServerVoteRejected
	MessageTypeServerError
)

func (t MessageType) String() string {
	switch t {
	case MessageTypeClientNewGame:
		return "ClientNewGame"
	case MessageTypeClientCastVote:
		return "ClientCastVote"
	case MessageTypeClientAdvancePhase:
		return "ClientAdvancePhase"
	case MessageTypeClientAcknowledgeAnnouncement:
		return "ClientAcknowledgeAnnouncement"
	case MessageTypeClientAcknowledgeReveal:
		return "ClientAcknowledgeReveal"
	case MessageTypeClientReturnToSetup:
		return "ClientReturnToSetup"
	case MessageTypeServerGameState:
		return "ServerGameState"
	case MessageTypeServerAnnouncement:
		return "ServerAnnouncement"
	case MessageTypeServerDetectiveReveal:
		return "ServerDetectiveReveal"
	case MessageTypeServerVictory:
		return "ServerVictory"
	case MessageTypeServerVoteRejected:
		return "ServerVoteRejected"
	case MessageTypeServerError:
		return "ServerError"
	default:
		return fmt.Sprintf("MessageType(%d)", byte(t))
	}
}

// Message represents a generic message for serialization/deserialization
type Message struct {
	// ClientID is the sender of a client message. Zero means the server or the HTTP API.
	ClientID uint32          `json:"clientID"`
	Type     MessageType     `json:"type"`
	Payload  json.RawMessage `json:"payload"`
}

// NewMessage marshals payload into a message of type t.
func NewMessage(clientID uint32, t MessageType, payload interface{}) (*Message, error) {
	var raw json.RawMessage
	if payload != nil {
		b, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal %s payload: %v", t, err)
		}
		raw = b
	}
	return &Message{
		ClientID: clientID,
		Type:     t,
		Payload:  raw,
	}, nil
}

// ClientNewGame starts a game with a roster whose roles are already dealt.
type ClientNewGame struct {
	Players []types.Player `json:"players"`
}

type ClientCastVote struct {
	VoterID  string         `json:"voterId"`
	TargetID string         `json:"targetId"`
	Kind     types.VoteKind `json:"kind"`
}

// ServerGameState carries the published snapshot.
type ServerGameState struct {
	Snapshot *types.Snapshot `json:"snapshot"`
}

type ServerAnnouncement struct {
	Announcement types.Announcement `json:"announcement"`
	Headline     types.Headline     `json:"headline"`
	Lines        []string           `json:"lines"`
}

type ServerDetectiveReveal struct {
	Reveal types.DetectiveReveal `json:"reveal"`
}

type ServerVictory struct {
	Victory types.VictoryResult `json:"victory"`
}

type ServerVoteRejected struct {
	VoterID  string         `json:"voterId"`
	TargetID string         `json:"targetId"`
	Kind     types.VoteKind `json:"kind"`
	Reason   string         `json:"reason"`
}

type ServerError struct {
	Message string `json:"message"`
}
