package game

import (
	"github.com/cbodonnell/mafia/pkg/game/types"
	"github.com/cbodonnell/mafia/pkg/messages"
)

func ServerAnnouncementFromAnnouncement(a *types.Announcement) *messages.ServerAnnouncement {
	return &messages.ServerAnnouncement{
		Announcement: *a,
		Headline:     a.Headline(),
		Lines:        a.Lines(),
	}
}

func ServerVoteRejectedFromCommand(cmd *messages.ClientCastVote, reason RejectReason) *messages.ServerVoteRejected {
	return &messages.ServerVoteRejected{
		VoterID:  cmd.VoterID,
		TargetID: cmd.TargetID,
		Kind:     cmd.Kind,
		Reason:   string(reason),
	}
}
