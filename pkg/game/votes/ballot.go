package votes

import "sort"

// Ballot maps a target player ID to the IDs of the players voting for it.
// A voter holds at most one vote across all targets.
type Ballot map[string][]string

// LeaderFunc picks the winner of a ballot, if any.
type LeaderFunc func(b Ballot) (string, bool)

// Copy returns a deep copy of the ballot.
func (b Ballot) Copy() Ballot {
	c := make(Ballot, len(b))
	for target, voters := range b {
		c[target] = append([]string(nil), voters...)
	}
	return c
}

// Cast returns a new ballot in which voterID votes for targetID.
// Any previous vote by voterID is retracted first.
func (b Ballot) Cast(voterID, targetID string) Ballot {
	if current, ok := b.TargetOf(voterID); ok && current == targetID {
		return b.Copy()
	}

	next := make(Ballot, len(b)+1)
	for target, voters := range b {
		kept := make([]string, 0, len(voters))
		for _, v := range voters {
			if v != voterID {
				kept = append(kept, v)
			}
		}
		if len(kept) > 0 {
			next[target] = kept
		}
	}
	next[targetID] = append(next[targetID], voterID)
	return next
}

// TargetOf returns the target voterID currently votes for.
func (b Ballot) TargetOf(voterID string) (string, bool) {
	for target, voters := range b {
		for _, v := range voters {
			if v == voterID {
				return target, true
			}
		}
	}
	return "", false
}

// Count returns the number of votes for targetID.
func (b Ballot) Count(targetID string) int {
	return len(b[targetID])
}

// Total returns the number of votes cast.
func (b Ballot) Total() int {
	total := 0
	for _, voters := range b {
		total += len(voters)
	}
	return total
}

// Counts returns the vote count per target.
func (b Ballot) Counts() map[string]int {
	counts := make(map[string]int, len(b))
	for target, voters := range b {
		if len(voters) > 0 {
			counts[target] = len(voters)
		}
	}
	return counts
}

// Tied returns the targets sharing the maximum vote count, sorted by ID.
// A single element means there is a clear leader.
func (b Ballot) Tied() []string {
	maxVotes := 0
	var top []string
	for target, voters := range b {
		n := len(voters)
		if n == 0 {
			continue
		}
		if n > maxVotes {
			maxVotes = n
			top = []string{target}
		} else if n == maxVotes {
			top = append(top, target)
		}
	}
	sort.Strings(top)
	return top
}

// Leader returns the target with strictly the most votes.
// There is no leader when the ballot is empty or the maximum is shared.
func (b Ballot) Leader() (string, bool) {
	top := b.Tied()
	if len(top) != 1 {
		return "", false
	}
	return top[0], true
}

// QuorumMet reports whether at least eligible votes were cast and a leader exists.
func (b Ballot) QuorumMet(eligible int) bool {
	if b.Total() < eligible {
		return false
	}
	_, ok := b.Leader()
	return ok
}
