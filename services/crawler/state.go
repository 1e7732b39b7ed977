package crawler

import (
	"encoding/json"
	"log/slog"
	"os"
	"sync"
)

// State records every transcript page already fetched so an
// interrupted run can resume where it stopped instead of refetching
// whole sessions.
type State struct {
	// transcript filename (e.g. "s126001.htm") -> fetched
	Done map[string]bool `json:"done"`
}

func LoadState(path string) (State, error) {
	state := State{Done: map[string]bool{}}
	content, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return state, nil
	}
	if err != nil {
		return state, err
	}
	if err := json.Unmarshal(content, &state); err != nil {
		return state, err
	}
	if state.Done == nil {
		state.Done = map[string]bool{}
	}
	return state, nil
}

func (s State) Save(path string) error {
	content, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, content, 0644)
}

// stateStore wraps State for concurrent sessions and persists it
// after every page, so a kill mid-session loses at most one fetch.
type stateStore struct {
	mu    sync.Mutex
	state State
	path  string
}

func (s *stateStore) isDone(name string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Done[name]
}

func (s *stateStore) markDone(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Done[name] = true
	if err := s.state.Save(s.path); err != nil {
		slog.Warn("failed to save crawl state", "err", err)
	}
}
