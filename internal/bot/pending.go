package bot

import (
	"sync"
	"time"
)

// pendingTTL bounds how long a /log submission may sit between the slash
// command and its comments modal before it is dropped.
const pendingTTL = 15 * time.Minute

// pendingLog holds the slash command half of a /log submission while the
// comments modal is open. Keyed by user, so a member re-running /log before
// submitting simply replaces their pending entry.
type pendingLog struct {
	taskType string
	proofURL string
	at       time.Time
}

type pendingStore struct {
	mu      sync.Mutex
	entries map[uint64]pendingLog
}

func newPendingStore() *pendingStore {
	return &pendingStore{entries: make(map[uint64]pendingLog)}
}

func (p *pendingStore) put(userID uint64, taskType, proofURL string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	now := time.Now()

	for id, entry := range p.entries {
		if now.Sub(entry.at) > pendingTTL {
			delete(p.entries, id)
		}
	}

	p.entries[userID] = pendingLog{taskType: taskType, proofURL: proofURL, at: now}
}

// take removes and returns the user's pending entry. Expired entries count as
// absent.
func (p *pendingStore) take(userID uint64) (pendingLog, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	entry, ok := p.entries[userID]
	if !ok {
		return pendingLog{}, false
	}

	delete(p.entries, userID)

	if time.Since(entry.at) > pendingTTL {
		return pendingLog{}, false
	}

	return entry, true
}
