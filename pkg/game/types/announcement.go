package types

import "fmt"

// Headline is the title shown above an announcement.
type Headline string

const (
	HeadlineDeaths        Headline = "Announcement of the dead"
	HeadlineAttemptedKill Headline = "Attempted murder"
	HeadlineQuiet         Headline = "Nobody died"
)

// Empty reports whether nothing happened.
func (a Announcement) Empty() bool {
	return len(a.DeadPlayers) == 0 && a.SavedByDoctor == nil
}

// Headline picks the title for the announcement.
func (a Announcement) Headline() Headline {
	switch {
	case len(a.DeadPlayers) > 0:
		return HeadlineDeaths
	case a.SavedByDoctor != nil:
		return HeadlineAttemptedKill
	default:
		return HeadlineQuiet
	}
}

// Lines renders one line per dead player with their role revealed,
// followed by the doctor's save.
func (a Announcement) Lines() []string {
	lines := make([]string, 0, len(a.DeadPlayers)+1)
	for _, p := range a.DeadPlayers {
		lines = append(lines, fmt.Sprintf("%s was killed. They were %s.", p.Name, p.Role.Title()))
	}
	if a.SavedByDoctor != nil {
		lines = append(lines, fmt.Sprintf("The mafia tried to kill %s, but the doctor saved them.", a.SavedByDoctor.Name))
	}
	if len(lines) == 0 {
		lines = append(lines, "The town wakes up and everyone is still here.")
	}
	return lines
}

// Title is the role as it reads in a sentence.
func (r RoleKind) Title() string {
	switch r {
	case RoleMafia:
		return "mafia"
	case RoleCitizen:
		return "a citizen"
	case RoleDetective:
		return "the detective"
	case RoleDoctor:
		return "the doctor"
	default:
		return "unknown"
	}
}
