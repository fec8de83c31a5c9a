package votes

import (
	"math/rand"
	"sync"
	"time"
)

// TieBreaker chooses one target among tied leaders.
type TieBreaker interface {
	Break(tied []string) string
}

// RandomTieBreaker picks uniformly among tied targets.
type RandomTieBreaker struct {
	lock sync.Mutex
	rng  *rand.Rand
}

// NewRandomTieBreaker creates a RandomTieBreaker. A zero seed uses the current time.
func NewRandomTieBreaker(seed int64) *RandomTieBreaker {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &RandomTieBreaker{
		rng: rand.New(rand.NewSource(seed)),
	}
}

func (t *RandomTieBreaker) Break(tied []string) string {
	if len(tied) == 0 {
		return ""
	}
	t.lock.Lock()
	defer t.lock.Unlock()
	return tied[t.rng.Intn(len(tied))]
}

// LeaderWithTieBreak returns a LeaderFunc that falls back to breaker when the
// maximum is shared. A nil breaker keeps the strict unique-leader rule.
func LeaderWithTieBreak(breaker TieBreaker) LeaderFunc {
	if breaker == nil {
		return Ballot.Leader
	}
	return func(b Ballot) (string, bool) {
		tied := b.Tied()
		switch len(tied) {
		case 0:
			return "", false
		case 1:
			return tied[0], true
		default:
			return breaker.Break(tied), true
		}
	}
}
