package game

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/cbodonnell/mafia/pkg/log"
	"github.com/cbodonnell/mafia/pkg/messages"
	"github.com/cbodonnell/mafia/pkg/queue"
	"github.com/cbodonnell/mafia/pkg/state"
	"github.com/cbodonnell/mafia/pkg/workers"
)

// GameManager owns the Machine and applies queued commands to it from a single goroutine.
type GameManager struct {
	commandQueue      queue.Queue
	stateManager      state.StateManager
	machine           *Machine
	saveRosterChan    chan<- workers.SaveRosterRequest
	serverMessageChan chan<- workers.ServerMessage
	gameLoopInterval  time.Duration
	version           int64
}

// NewGameManagerOptions contains options for creating a new GameManager.
type NewGameManagerOptions struct {
	CommandQueue      queue.Queue
	StateManager      state.StateManager
	Machine           *Machine
	SaveRosterChan    chan<- workers.SaveRosterRequest
	ServerMessageChan chan<- workers.ServerMessage
	GameLoopInterval  time.Duration
}

func NewGameManager(opts NewGameManagerOptions) *GameManager {
	machine := opts.Machine
	if machine == nil {
		machine = NewMachine(NewMachineOptions{})
	}
	return &GameManager{
		commandQueue:      opts.CommandQueue,
		stateManager:      opts.StateManager,
		machine:           machine,
		saveRosterChan:    opts.SaveRosterChan,
		serverMessageChan: opts.ServerMessageChan,
		gameLoopInterval:  opts.GameLoopInterval,
	}
}

// Start starts the game loop. It blocks until ctx is done.
func (gm *GameManager) Start(ctx context.Context) error {
	if err := gm.publish(ctx); err != nil {
		return fmt.Errorf("failed to publish initial snapshot: %v", err)
	}

	ticker := time.NewTicker(gm.gameLoopInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if err := gm.gameTick(ctx); err != nil {
				log.Error("Failed to run game tick: %v", err)
			}
		}
	}
}

// gameTick runs one iteration of the game loop.
func (gm *GameManager) gameTick(ctx context.Context) error {
	if !gm.processCommands(ctx) {
		return nil
	}
	return gm.publish(ctx)
}

// processCommands applies every pending command in order and reports whether anything changed.
func (gm *GameManager) processCommands(ctx context.Context) bool {
	pending, err := gm.commandQueue.ReadAllMessages()
	if err != nil {
		log.Error("Failed to read commands: %v", err)
		return false
	}

	changed := false
	for _, item := range pending {
		message, ok := item.(*messages.Message)
		if !ok {
			log.Error("Unexpected item in command queue: %T", item)
			continue
		}
		applied, err := gm.processCommand(message)
		if err != nil {
			log.Warn("Failed to process %s from client %d: %v", message.Type, message.ClientID, err)
			if message.ClientID != 0 {
				gm.sendServerMessage(workers.ServerMessage{
					ClientID: message.ClientID,
					Type:     messages.MessageTypeServerError,
					Message:  &messages.ServerError{Message: err.Error()},
				})
			}
			continue
		}
		changed = changed || applied
	}
	return changed
}

func (gm *GameManager) processCommand(message *messages.Message) (bool, error) {
	log.Trace("Processing %s from client %d", message.Type, message.ClientID)

	switch message.Type {
	case messages.MessageTypeClientNewGame:
		cmd := &messages.ClientNewGame{}
		if err := json.Unmarshal(message.Payload, cmd); err != nil {
			return false, fmt.Errorf("failed to unmarshal new game: %v", err)
		}
		if err := gm.machine.NewGame(cmd.Players); err != nil {
			return false, err
		}
		gm.announceVictory()
		return true, nil
	case messages.MessageTypeClientCastVote:
		cmd := &messages.ClientCastVote{}
		if err := json.Unmarshal(message.Payload, cmd); err != nil {
			return false, fmt.Errorf("failed to unmarshal vote: %v", err)
		}
		result := gm.machine.CastVote(cmd.VoterID, cmd.TargetID, cmd.Kind)
		if !result.Accepted {
			if message.ClientID != 0 {
				gm.sendServerMessage(workers.ServerMessage{
					ClientID: message.ClientID,
					Type:     messages.MessageTypeServerVoteRejected,
					Message:  ServerVoteRejectedFromCommand(cmd, result.Reason),
				})
			}
			return false, nil
		}
		if result.Reveal != nil && message.ClientID != 0 {
			gm.sendServerMessage(workers.ServerMessage{
				ClientID: message.ClientID,
				Type:     messages.MessageTypeServerDetectiveReveal,
				Message:  &messages.ServerDetectiveReveal{Reveal: *result.Reveal},
			})
		}
		return true, nil
	case messages.MessageTypeClientAdvancePhase:
		before := gm.machine.CurrentState()
		if !gm.machine.AdvancePhase() {
			log.Debug("Advance requested by client %d but the phase cannot proceed", message.ClientID)
			return false, nil
		}
		// night steps advance within the same phase and resolve nothing
		resolved := before == nil || gm.machine.CurrentState().Phase != before.Phase
		if announcement := gm.machine.PendingAnnouncement(); resolved && announcement != nil {
			gm.sendServerMessage(workers.ServerMessage{
				Type:    messages.MessageTypeServerAnnouncement,
				Message: ServerAnnouncementFromAnnouncement(announcement),
			})
		}
		gm.announceVictory()
		return true, nil
	case messages.MessageTypeClientAcknowledgeAnnouncement:
		gm.machine.AcknowledgeAnnouncement()
		return true, nil
	case messages.MessageTypeClientAcknowledgeReveal:
		gm.machine.AcknowledgeReveal()
		return true, nil
	case messages.MessageTypeClientReturnToSetup:
		gm.machine.ReturnToSetup()
		return true, nil
	default:
		return false, fmt.Errorf("unknown command type %s", message.Type)
	}
}

func (gm *GameManager) announceVictory() {
	victory := gm.machine.Victory()
	if victory == nil {
		return
	}
	gm.sendServerMessage(workers.ServerMessage{
		Type:    messages.MessageTypeServerVictory,
		Message: &messages.ServerVictory{Victory: *victory},
	})
}

// publish stores a new snapshot version, pushes it to clients and requests a save of the roster.
func (gm *GameManager) publish(ctx context.Context) error {
	gm.version++
	snapshot := gm.machine.Snapshot()
	snapshot.Version = gm.version

	if err := gm.stateManager.Set(ctx, snapshot); err != nil {
		return fmt.Errorf("failed to set snapshot: %v", err)
	}

	gm.sendServerMessage(workers.ServerMessage{
		Type:    messages.MessageTypeServerGameState,
		Message: &messages.ServerGameState{Snapshot: snapshot},
	})

	if snapshot.State != nil {
		gm.requestSave(workers.SaveRosterRequest{
			Version: snapshot.Version,
			Players: snapshot.State.Players,
		})
	}
	return nil
}

// sendServerMessage never blocks the game loop.
func (gm *GameManager) sendServerMessage(msg workers.ServerMessage) {
	select {
	case gm.serverMessageChan <- msg:
	default:
		log.Warn("Dropping %s message, channel is full", msg.Type)
	}
}

// requestSave never blocks the game loop. The save worker picks up dropped rosters on its next tick.
func (gm *GameManager) requestSave(req workers.SaveRosterRequest) {
	select {
	case gm.saveRosterChan <- req:
	default:
		log.Debug("Save channel is full, roster version %d left for the periodic save", req.Version)
	}
}
