package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/cbodonnell/mafia/pkg/game/roles"
	"github.com/cbodonnell/mafia/pkg/game/types"
	"github.com/cbodonnell/mafia/pkg/log"
	"github.com/cbodonnell/mafia/pkg/messages"
	"github.com/cbodonnell/mafia/pkg/queue"
	"github.com/cbodonnell/mafia/pkg/repositories"
	"github.com/cbodonnell/mafia/pkg/state"
	"github.com/cbodonnell/mafia/pkg/stores"
	"github.com/google/uuid"
)

// MaxNameLength is the longest player name accepted.
const MaxNameLength = 32

type PutPlayersRequest struct {
	Names []string `json:"names"`
}

func HandleGetPlayers(players *stores.PlayerStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		roster, err := players.LoadSeats(r.Context())
		if err != nil {
			log.Error("failed to load players: %v", err)
			http.Error(w, "Failed to load players", http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusOK, roster)
	}
}

// HandlePutPlayers replaces the seated roster. Every player gets a fresh id and no role.
func HandlePutPlayers(players *stores.PlayerStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req PutPlayersRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Invalid request body", http.StatusBadRequest)
			return
		}

		roster := make([]types.Player, 0, len(req.Names))
		for _, name := range req.Names {
			name = strings.TrimSpace(name)
			if name == "" || utf8.RuneCountInString(name) > MaxNameLength {
				http.Error(w, "Names must be between 1 and 32 characters", http.StatusBadRequest)
				return
			}
			roster = append(roster, types.Player{
				ID:      uuid.NewString(),
				Name:    name,
				IsAlive: true,
			})
		}

		if err := players.Save(r.Context(), roster); err != nil {
			log.Error("failed to save players: %v", err)
			http.Error(w, "Failed to save players", http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusOK, roster)
	}
}

func HandleGetRolesConfig(roleConfigs *stores.RoleConfigStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cfg, err := roleConfigs.Load(r.Context())
		if err != nil {
			if repositories.IsNotFound(err) {
				http.Error(w, "Roles config not found", http.StatusNotFound)
				return
			}
			log.Error("failed to load roles config: %v", err)
			http.Error(w, "Failed to load roles config", http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusOK, cfg)
	}
}

func HandlePutRolesConfig(roleConfigs *stores.RoleConfigStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var cfg types.RoleConfig
		if err := json.NewDecoder(r.Body).Decode(&cfg); err != nil {
			http.Error(w, "Invalid request body", http.StatusBadRequest)
			return
		}
		if err := roles.ValidateCounts(cfg); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		if err := roleConfigs.Save(r.Context(), cfg); err != nil {
			log.Error("failed to save roles config: %v", err)
			http.Error(w, "Failed to save roles config", http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusOK, cfg)
	}
}

type NewStartGameOptions struct {
	Players      *stores.PlayerStore
	RoleConfigs  *stores.RoleConfigStore
	CommandQueue queue.Queue
	Rand         roles.Intn
}

// HandleStartGame deals roles to the seated roster, persists the deal and queues a new game.
func HandleStartGame(opts NewStartGameOptions) http.HandlerFunc {
	// math/rand sources are not safe for concurrent use
	var randLock sync.Mutex
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		seats, err := opts.Players.LoadSeats(ctx)
		if err != nil {
			log.Error("failed to load players: %v", err)
			http.Error(w, "Failed to load players", http.StatusInternalServerError)
			return
		}
		if len(seats) == 0 {
			http.Error(w, "No players are seated", http.StatusBadRequest)
			return
		}

		cfg, err := opts.RoleConfigs.Load(ctx)
		if err != nil {
			if repositories.IsNotFound(err) {
				http.Error(w, "Roles config not set", http.StatusBadRequest)
				return
			}
			log.Error("failed to load roles config: %v", err)
			http.Error(w, "Failed to load roles config", http.StatusInternalServerError)
			return
		}

		randLock.Lock()
		dealt, err := roles.Assign(len(seats), cfg, opts.Rand)
		randLock.Unlock()
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		roster, err := roles.Apply(seats, dealt)
		if err != nil {
			log.Error("failed to apply roles: %v", err)
			http.Error(w, "Failed to apply roles", http.StatusInternalServerError)
			return
		}

		if err := opts.Players.Save(ctx, roster); err != nil {
			log.Error("failed to save players: %v", err)
			http.Error(w, "Failed to save players", http.StatusInternalServerError)
			return
		}
		if err := opts.RoleConfigs.SaveAssignment(ctx, dealt); err != nil {
			log.Error("failed to save role assignment: %v", err)
			http.Error(w, "Failed to save role assignment", http.StatusInternalServerError)
			return
		}

		if !enqueue(w, opts.CommandQueue, messages.MessageTypeClientNewGame, messages.ClientNewGame{Players: roster}) {
			return
		}
		writeJSON(w, http.StatusAccepted, roster)
	}
}

func HandleGetGame(stateManager state.StateManager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		snapshot, err := stateManager.Get(r.Context())
		if err != nil {
			log.Error("failed to get game state: %v", err)
			http.Error(w, "Failed to get game state", http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusOK, snapshot)
	}
}

// HandleCastVote queues a vote. Rules are checked by the game loop, which reports rejections
// over the websocket and leaves the snapshot unchanged.
func HandleCastVote(commandQueue queue.Queue) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var vote messages.ClientCastVote
		if err := json.NewDecoder(r.Body).Decode(&vote); err != nil {
			http.Error(w, "Invalid request body", http.StatusBadRequest)
			return
		}
		if vote.VoterID == "" || vote.TargetID == "" || vote.Kind == "" {
			http.Error(w, "voterId, targetId and kind are required", http.StatusBadRequest)
			return
		}
		if enqueue(w, commandQueue, messages.MessageTypeClientCastVote, vote) {
			w.WriteHeader(http.StatusAccepted)
		}
	}
}

// HandleCommand queues a command that carries no payload.
func HandleCommand(commandQueue queue.Queue, t messages.MessageType) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if enqueue(w, commandQueue, t, nil) {
			w.WriteHeader(http.StatusAccepted)
		}
	}
}

// enqueue writes an error response and returns false if the command could not be queued.
func enqueue(w http.ResponseWriter, commandQueue queue.Queue, t messages.MessageType, payload interface{}) bool {
	msg, err := messages.NewMessage(0, t, payload)
	if err != nil {
		log.Error("failed to create %s command: %v", t, err)
		http.Error(w, "Failed to create command", http.StatusInternalServerError)
		return false
	}
	if err := commandQueue.Enqueue(msg); err != nil {
		if errors.Is(err, queue.ErrQueueFull) {
			http.Error(w, "Command queue is full", http.StatusServiceUnavailable)
			return false
		}
		log.Error("failed to enqueue %s command: %v", t, err)
		http.Error(w, "Failed to enqueue command", http.StatusInternalServerError)
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error("failed to encode response: %v", err)
	}
}
