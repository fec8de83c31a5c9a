package votes

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBallot_Cast(t *testing.T) {
	tests := []struct {
		name   string
		ballot Ballot
		voter  string
		target string
		want   map[string]int
	}{
		{
			name:   "first vote",
			ballot: Ballot{},
			voter:  "a",
			target: "b",
			want:   map[string]int{"b": 1},
		},
		{
			name:   "revote moves the vote",
			ballot: Ballot{"b": {"a"}},
			voter:  "a",
			target: "c",
			want:   map[string]int{"c": 1},
		},
		{
			name:   "revote keeps other voters",
			ballot: Ballot{"b": {"a", "d"}},
			voter:  "a",
			target: "c",
			want:   map[string]int{"b": 1, "c": 1},
		},
		{
			name:   "same target is a no-op",
			ballot: Ballot{"b": {"a", "d"}},
			voter:  "a",
			target: "b",
			want:   map[string]int{"b": 2},
		},
		{
			name:   "nil ballot",
			ballot: nil,
			voter:  "a",
			target: "b",
			want:   map[string]int{"b": 1},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.ballot.Cast(tt.voter, tt.target)
			assert.Equal(t, tt.want, got.Counts())
		})
	}
}

func TestBallot_CastDoesNotMutate(t *testing.T) {
	b := Ballot{"b": {"a"}}
	_ = b.Cast("a", "c")
	assert.Equal(t, Ballot{"b": {"a"}}, b)
}

func TestBallot_CastIdempotent(t *testing.T) {
	once := Ballot{}.Cast("a", "b").Cast("c", "b")
	twice := once.Cast("a", "b")
	assert.Equal(t, once, twice)
}

func TestBallot_TotalNeverExceedsVoters(t *testing.T) {
	voters := []string{"a", "b", "c"}
	targets := []string{"x", "y", "z", "x", "y"}
	b := Ballot{}
	for i, target := range targets {
		for _, voter := range voters[:1+i%len(voters)] {
			b = b.Cast(voter, target)
			assert.LessOrEqual(t, b.Total(), len(voters))
		}
	}
	assert.Equal(t, len(voters), b.Total())
}

func TestBallot_Leader(t *testing.T) {
	tests := []struct {
		name       string
		ballot     Ballot
		wantLeader string
		wantOK     bool
	}{
		{
			name:   "empty",
			ballot: Ballot{},
		},
		{
			name:       "single vote",
			ballot:     Ballot{"x": {"a"}},
			wantLeader: "x",
			wantOK:     true,
		},
		{
			name:       "clear leader",
			ballot:     Ballot{"x": {"a", "b"}, "y": {"c"}},
			wantLeader: "x",
			wantOK:     true,
		},
		{
			name:   "two-way tie",
			ballot: Ballot{"x": {"a", "b"}, "y": {"c", "d"}},
		},
		{
			name:   "three-way tie",
			ballot: Ballot{"x": {"a"}, "y": {"b"}, "z": {"c"}},
		},
		{
			name:       "empty entries are ignored",
			ballot:     Ballot{"x": {"a"}, "y": {}},
			wantLeader: "x",
			wantOK:     true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			leader, ok := tt.ballot.Leader()
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.wantLeader, leader)
		})
	}
}

func TestBallot_QuorumMet(t *testing.T) {
	tests := []struct {
		name     string
		ballot   Ballot
		eligible int
		want     bool
	}{
		{
			name:     "not everyone voted",
			ballot:   Ballot{"x": {"a", "b"}},
			eligible: 3,
			want:     false,
		},
		{
			name:     "everyone voted with a leader",
			ballot:   Ballot{"x": {"a", "b"}, "y": {"c"}},
			eligible: 3,
			want:     true,
		},
		{
			name:     "everyone voted but tied",
			ballot:   Ballot{"x": {"a", "b"}, "y": {"c", "d"}},
			eligible: 4,
			want:     false,
		},
		{
			name:     "no eligible voters and no votes",
			ballot:   Ballot{},
			eligible: 0,
			want:     false,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.ballot.QuorumMet(tt.eligible))
		})
	}
}

type firstTieBreaker struct{}

func (firstTieBreaker) Break(tied []string) string { return tied[0] }

func TestLeaderWithTieBreak(t *testing.T) {
	tied := Ballot{"y": {"a"}, "x": {"b"}}

	strict := LeaderWithTieBreak(nil)
	_, ok := strict(tied)
	assert.False(t, ok)

	broken := LeaderWithTieBreak(firstTieBreaker{})
	leader, ok := broken(tied)
	assert.True(t, ok)
	assert.Equal(t, "x", leader)

	_, ok = broken(Ballot{})
	assert.False(t, ok)
}

func TestRandomTieBreaker(t *testing.T) {
	tb := NewRandomTieBreaker(42)
	tied := []string{"x", "y", "z"}
	for i := 0; i < 20; i++ {
		assert.Contains(t, tied, tb.Break(tied))
	}
	assert.Equal(t, "", tb.Break(nil))
}
