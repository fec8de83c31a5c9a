// Package console parses moderator commands typed at a terminal and renders server pushes as text.
package console

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/cbodonnell/mafia/pkg/game/types"
	"github.com/cbodonnell/mafia/pkg/messages"
)

type CommandKind int

const (
	CommandVote CommandKind = iota
	CommandAdvance
	CommandAckAnnouncement
	CommandAckReveal
	CommandSetup
	CommandHelp
	CommandQuit
)

type Command struct {
	Kind     CommandKind
	VoteKind types.VoteKind
	VoterID  string
	TargetID string
}

const Usage = `commands:
  vote <mafia|doctor|detective|day> <voter> <target>
  advance
  ack       acknowledge the announcement
  reveal    acknowledge the detective reveal
  setup     return to setup
  help
  quit`

// ParseCommand parses one input line.
func ParseCommand(line string) (Command, error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return Command{}, fmt.Errorf("empty command")
	}

	switch strings.ToLower(fields[0]) {
	case "vote":
		if len(fields) != 4 {
			return Command{}, fmt.Errorf("usage: vote <kind> <voter> <target>")
		}
		kind := types.VoteKind(strings.ToLower(fields[1]))
		switch kind {
		case types.VoteKindMafia, types.VoteKindDoctor, types.VoteKindDetective, types.VoteKindDay:
		default:
			return Command{}, fmt.Errorf("unknown vote kind %q", fields[1])
		}
		return Command{Kind: CommandVote, VoteKind: kind, VoterID: fields[2], TargetID: fields[3]}, nil
	case "advance", "next":
		return Command{Kind: CommandAdvance}, nil
	case "ack":
		return Command{Kind: CommandAckAnnouncement}, nil
	case "reveal":
		return Command{Kind: CommandAckReveal}, nil
	case "setup":
		return Command{Kind: CommandSetup}, nil
	case "help", "?":
		return Command{Kind: CommandHelp}, nil
	case "quit", "exit":
		return Command{Kind: CommandQuit}, nil
	default:
		return Command{}, fmt.Errorf("unknown command %q", fields[0])
	}
}

// Render turns a server push into printable lines.
func Render(msg *messages.Message) ([]string, error) {
	switch msg.Type {
	case messages.MessageTypeServerGameState:
		var payload messages.ServerGameState
		if err := json.Unmarshal(msg.Payload, &payload); err != nil {
			return nil, fmt.Errorf("failed to unmarshal game state: %v", err)
		}
		return renderSnapshot(payload.Snapshot), nil
	case messages.MessageTypeServerAnnouncement:
		var payload messages.ServerAnnouncement
		if err := json.Unmarshal(msg.Payload, &payload); err != nil {
			return nil, fmt.Errorf("failed to unmarshal announcement: %v", err)
		}
		lines := []string{fmt.Sprintf("== %s ==", payload.Headline)}
		return append(lines, payload.Lines...), nil
	case messages.MessageTypeServerDetectiveReveal:
		var payload messages.ServerDetectiveReveal
		if err := json.Unmarshal(msg.Payload, &payload); err != nil {
			return nil, fmt.Errorf("failed to unmarshal reveal: %v", err)
		}
		return []string{fmt.Sprintf("detective: %s is a %s", payload.Reveal.TargetID, payload.Reveal.Role)}, nil
	case messages.MessageTypeServerVictory:
		var payload messages.ServerVictory
		if err := json.Unmarshal(msg.Payload, &payload); err != nil {
			return nil, fmt.Errorf("failed to unmarshal victory: %v", err)
		}
		return []string{fmt.Sprintf("*** %s win ***", payload.Victory.Winner)}, nil
	case messages.MessageTypeServerVoteRejected:
		var payload messages.ServerVoteRejected
		if err := json.Unmarshal(msg.Payload, &payload); err != nil {
			return nil, fmt.Errorf("failed to unmarshal rejection: %v", err)
		}
		return []string{fmt.Sprintf("vote rejected (%s %s -> %s): %s", payload.Kind, payload.VoterID, payload.TargetID, payload.Reason)}, nil
	case messages.MessageTypeServerError:
		var payload messages.ServerError
		if err := json.Unmarshal(msg.Payload, &payload); err != nil {
			return nil, fmt.Errorf("failed to unmarshal error: %v", err)
		}
		return []string{"error: " + payload.Message}, nil
	default:
		return nil, fmt.Errorf("unexpected message type %s", msg.Type)
	}
}

func renderSnapshot(s *types.Snapshot) []string {
	if s == nil {
		return []string{"no game state"}
	}
	if s.State == nil {
		return []string{fmt.Sprintf("[v%d] %s", s.Version, s.Status)}
	}

	st := s.State
	header := fmt.Sprintf("[v%d] %s: %s %d", s.Version, s.Status, st.Phase, st.DayCount)
	if st.Phase == types.PhaseNight {
		header += fmt.Sprintf(" (%s)", st.NightStep)
	}
	lines := []string{header}

	ballot := st.DayBallot
	if st.Phase == types.PhaseNight {
		ballot = st.MafiaBallot
	}
	for _, p := range st.Players {
		status := "alive"
		if !p.IsAlive {
			status = "dead"
		}
		line := fmt.Sprintf("  %-10s %-12s %-9s %s", p.ID, p.Name, p.Role, status)
		if n := ballot.Count(p.ID); n > 0 {
			line += fmt.Sprintf("  votes %d/%d", n, s.RequiredVotes)
		}
		lines = append(lines, line)
	}

	var notes []string
	if s.Reveal != nil {
		notes = append(notes, fmt.Sprintf("reveal pending: %s is a %s", s.Reveal.TargetID, s.Reveal.Role))
	}
	if s.Announcement != nil {
		notes = append(notes, fmt.Sprintf("announcement pending: %s", s.Announcement.Headline()))
	}
	if s.Victory != nil {
		notes = append(notes, fmt.Sprintf("winner: %s", s.Victory.Winner))
	}
	if s.CanProceed {
		notes = append(notes, "ready to advance")
	}
	sort.Strings(notes)
	for _, n := range notes {
		lines = append(lines, "  "+n)
	}
	return lines
}
