package types

// GameStatus is the coarse lifecycle of the machine.
type GameStatus string

const (
	StatusSetup    GameStatus = "setup"
	StatusPlaying  GameStatus = "playing"
	StatusGameOver GameStatus = "game_over"
)

// Snapshot is the public view of the game pushed to the presentation layer.
type Snapshot struct {
	// Version increases every time a new snapshot is published
	Version      int64            `json:"version"`
	Status       GameStatus       `json:"status"`
	State        *GameState       `json:"state,omitempty"`
	Announcement *Announcement    `json:"announcement,omitempty"`
	Reveal       *DetectiveReveal `json:"reveal,omitempty"`
	Victory      *VictoryResult   `json:"victory,omitempty"`
	// CanProceed reports whether AdvancePhase would currently succeed
	CanProceed bool `json:"canProceed"`
	// RequiredVotes is the number of votes the active ballot needs
	RequiredVotes int `json:"requiredVotes"`
}

func (s *Snapshot) Copy() *Snapshot {
	c := *s
	if s.State != nil {
		c.State = s.State.Copy()
	}
	if s.Announcement != nil {
		a := *s.Announcement
		a.DeadPlayers = copyPlayers(s.Announcement.DeadPlayers)
		if s.Announcement.SavedByDoctor != nil {
			saved := *s.Announcement.SavedByDoctor
			a.SavedByDoctor = &saved
		}
		c.Announcement = &a
	}
	if s.Reveal != nil {
		r := *s.Reveal
		c.Reveal = &r
	}
	if s.Victory != nil {
		v := *s.Victory
		c.Victory = &v
	}
	return &c
}
