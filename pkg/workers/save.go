package workers

import (
	"context"
	"time"

	"github.com/cbodonnell/mafia/pkg/game/types"
	"github.com/cbodonnell/mafia/pkg/log"
	"github.com/cbodonnell/mafia/pkg/state"
)

// PlayerSaver persists a roster.
type PlayerSaver interface {
	Save(ctx context.Context, players []types.Player) error
}

type SaveRosterWorker struct {
	playerSaver    PlayerSaver
	saveRosterChan <-chan SaveRosterRequest
	stateManager   state.StateManager
	interval       time.Duration
	lastVersion    int64
}

type NewSaveRosterWorkerOptions struct {
	PlayerSaver    PlayerSaver
	SaveRosterChan <-chan SaveRosterRequest
	StateManager   state.StateManager
	Interval       time.Duration
}

// SaveRosterRequest asks for the roster published at Version to be persisted.
type SaveRosterRequest struct {
	Version int64
	Players []types.Player
}

// NewSaveRosterWorker creates a new SaveRosterWorker.
// The worker processes save requests from the game loop and
// periodically saves the published roster if it changed since the last save.
func NewSaveRosterWorker(opts NewSaveRosterWorkerOptions) *SaveRosterWorker {
	return &SaveRosterWorker{
		playerSaver:    opts.PlayerSaver,
		saveRosterChan: opts.SaveRosterChan,
		stateManager:   opts.StateManager,
		interval:       opts.Interval,
	}
}

func (w *SaveRosterWorker) Start(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case saveRequest := <-w.saveRosterChan:
			w.saveRoster(ctx, saveRequest)
		case <-ticker.C:
			snapshot, err := w.stateManager.Get(ctx)
			if err != nil {
				log.Error("Failed to get current snapshot: %v", err)
				continue
			}
			if snapshot.State == nil {
				continue
			}
			w.saveRoster(ctx, SaveRosterRequest{
				Version: snapshot.Version,
				Players: snapshot.State.Players,
			})
		}
	}
}

// saveRoster skips rosters that are not newer than the last one saved.
// A failed save is logged and retried on the next tick.
func (w *SaveRosterWorker) saveRoster(ctx context.Context, saveRequest SaveRosterRequest) {
	if saveRequest.Version <= w.lastVersion {
		return
	}
	if err := w.playerSaver.Save(ctx, saveRequest.Players); err != nil {
		log.Error("Failed to save roster version %d: %v", saveRequest.Version, err)
		return
	}
	w.lastVersion = saveRequest.Version
	log.Debug("Saved roster version %d", saveRequest.Version)
}
