package types

// RoleKind is the secret role dealt to a player.
type RoleKind string

const (
	RoleMafia     RoleKind = "mafia"
	RoleCitizen   RoleKind = "citizen"
	RoleDetective RoleKind = "detective"
	RoleDoctor    RoleKind = "doctor"
)

// Roles lists every known role in dealing order.
var Roles = []RoleKind{RoleMafia, RoleDoctor, RoleDetective, RoleCitizen}

// Valid reports whether r is a known role.
func (r RoleKind) Valid() bool {
	switch r {
	case RoleMafia, RoleCitizen, RoleDetective, RoleDoctor:
		return true
	default:
		return false
	}
}

// IsTown reports whether r plays for the citizens.
func (r RoleKind) IsTown() bool {
	return r == RoleCitizen || r == RoleDetective || r == RoleDoctor
}

type Player struct {
	ID      string   `json:"id"`
	Name    string   `json:"name"`
	Role    RoleKind `json:"role"`
	IsAlive bool     `json:"isAlive"`
}

// RoleConfig is the number of players dealt each role.
type RoleConfig struct {
	Mafia     int `json:"mafia"`
	Doctor    int `json:"doctor"`
	Detective int `json:"detective"`
	Citizen   int `json:"citizen"`
}

// Total returns the number of roles in the configuration.
func (c RoleConfig) Total() int {
	return c.Mafia + c.Doctor + c.Detective + c.Citizen
}

// Count returns the configured count for role.
func (c RoleConfig) Count(role RoleKind) int {
	switch role {
	case RoleMafia:
		return c.Mafia
	case RoleDoctor:
		return c.Doctor
	case RoleDetective:
		return c.Detective
	case RoleCitizen:
		return c.Citizen
	default:
		return 0
	}
}

type Phase string

const (
	PhaseNight Phase = "night"
	PhaseDay   Phase = "day"
)

// NightStep is the role currently acting during the night.
type NightStep string

const (
	NightStepNone      NightStep = ""
	NightStepMafia     NightStep = "mafia"
	NightStepDoctor    NightStep = "doctor"
	NightStepDetective NightStep = "detective"
)

// VoteKind identifies which ballot or choice a vote is cast into.
type VoteKind string

const (
	VoteKindMafia     VoteKind = "mafia"
	VoteKindDoctor    VoteKind = "doctor"
	VoteKindDetective VoteKind = "detective"
	VoteKindDay       VoteKind = "day"
)

type Winner string

const (
	WinnerMafia    Winner = "mafia"
	WinnerCitizens Winner = "citizens"
)

// VictoryResult is the terminal outcome of a game.
type VictoryResult struct {
	Winner Winner `json:"winner"`
}

// SavedPlayer identifies the player the doctor saved from the mafia.
type SavedPlayer struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Announcement summarizes the outcome of a completed phase.
type Announcement struct {
	DeadPlayers   []Player     `json:"deadPlayers"`
	SavedByDoctor *SavedPlayer `json:"savedByDoctor,omitempty"`
}

// DetectiveReveal is the role shown to the detective for the checked player.
type DetectiveReveal struct {
	TargetID string   `json:"targetId"`
	Role     RoleKind `json:"role"`
}
