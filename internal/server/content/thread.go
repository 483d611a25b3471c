package content

import (
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"
)

// CommentState is where a comment stands in a reader's thread.
type CommentState string

const (
	StatePending   CommentState = "pending"
	StateConfirmed CommentState = "confirmed"
	StateFailed    CommentState = "failed"
)

var ErrInvalidTransition = errors.New("invalid comment state transition")

// ThreadEntry is one comment as the reader sees it.
type ThreadEntry struct {
	Key     string       `json:"key"`
	State   CommentState `json:"state"`
	Comment Comment      `json:"comment"`
	Error   string       `json:"error,omitempty"`
}

// Thread is the comment list shown under a blog post. New comments enter as
// pending with a local timestamp and are either confirmed with the stored
// comment or rolled back.
type Thread struct {
	mu      sync.Mutex
	seq     int
	entries []ThreadEntry
}

// NewThread seeds a thread with already stored comments, newest first.
func NewThread(stored []Comment) *Thread {
	t := &Thread{entries: make([]ThreadEntry, 0, len(stored)+1)}
	for _, c := range stored {
		t.entries = append(t.entries, ThreadEntry{Key: c.ID, State: StateConfirmed, Comment: c})
	}
	return t
}

// AddPending puts c at the top of the thread stamped with now and returns
// the key used to resolve it.
func (t *Thread) AddPending(c Comment, now time.Time) string {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.seq++
	key := fmt.Sprintf("local-%d", t.seq)
	c.Timestamp = now
	t.entries = slices.Insert(t.entries, 0, ThreadEntry{Key: key, State: StatePending, Comment: c})
	return key
}

// Confirm replaces the pending entry with the stored comment, whose id and
// server timestamp win over the local ones.
func (t *Thread) Confirm(key string, stored Comment) (ThreadEntry, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	i, err := t.pendingIndex(key)
	if err != nil {
		return ThreadEntry{}, err
	}
	t.entries[i] = ThreadEntry{Key: key, State: StateConfirmed, Comment: stored}
	return t.entries[i], nil
}

// Fail removes the pending entry and returns it marked failed.
func (t *Thread) Fail(key string, cause error) (ThreadEntry, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	i, err := t.pendingIndex(key)
	if err != nil {
		return ThreadEntry{}, err
	}
	e := t.entries[i]
	e.State = StateFailed
	if cause != nil {
		e.Error = cause.Error()
	}
	t.entries = slices.Delete(t.entries, i, i+1)
	return e, nil
}

// Entries returns a snapshot of the thread.
func (t *Thread) Entries() []ThreadEntry {
	t.mu.Lock()
	defer t.mu.Unlock()
	return slices.Clone(t.entries)
}

func (t *Thread) pendingIndex(key string) (int, error) {
	for i, e := range t.entries {
		if e.Key != key {
			continue
		}
		if e.State != StatePending {
			return -1, fmt.Errorf("%w: %s is %s", ErrInvalidTransition, key, e.State)
		}
		return i, nil
	}
	return -1, fmt.Errorf("%w: unknown entry %s", ErrInvalidTransition, key)
}
