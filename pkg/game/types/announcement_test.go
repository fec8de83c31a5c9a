package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAnnouncement_Headline(t *testing.T) {
	tests := []struct {
		name         string
		announcement Announcement
		want         Headline
		wantLines    []string
	}{
		{
			name: "death",
			announcement: Announcement{
				DeadPlayers: []Player{{ID: "1", Name: "Ann", Role: RoleDoctor}},
			},
			want:      HeadlineDeaths,
			wantLines: []string{"Ann was killed. They were the doctor."},
		},
		{
			name: "saved",
			announcement: Announcement{
				SavedByDoctor: &SavedPlayer{ID: "2", Name: "Bob"},
			},
			want:      HeadlineAttemptedKill,
			wantLines: []string{"The mafia tried to kill Bob, but the doctor saved them."},
		},
		{
			name:         "quiet",
			announcement: Announcement{},
			want:         HeadlineQuiet,
			wantLines:    []string{"The town wakes up and everyone is still here."},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.announcement.Headline())
			assert.Equal(t, tt.wantLines, tt.announcement.Lines())
		})
	}
}

func TestAnnouncement_Empty(t *testing.T) {
	assert.True(t, Announcement{}.Empty())
	assert.False(t, Announcement{SavedByDoctor: &SavedPlayer{ID: "1"}}.Empty())
}
