package core

import (
	"sync"
	"time"

	"github.com/Rorical/typedconfirm/internal/models"
)

// ActionStatus is the core's record of one action.
type ActionStatus struct {
	State         models.ActionState
	CorrelationID string
	Output        string
	ExitCode      int
	Err           error
	Started       time.Time
	Finished      time.Time
}

// BatchState tracks every action of a batch. It is shared between the event
// loop and the goroutines running commands.
type BatchState struct {
	mu       sync.RWMutex
	statuses map[string]*ActionStatus
	order    []string
}

func NewBatchState(names []string) *BatchState {
	s := &BatchState{
		statuses: make(map[string]*ActionStatus, len(names)),
		order:    append([]string(nil), names...),
	}
	for _, name := range names {
		s.statuses[name] = &ActionStatus{State: models.ActionIdle}
	}
	return s
}

// Sync makes names the tracked set. Known actions keep their status, new
// ones start idle. A running action that was removed keeps being tracked
// until it finishes.
func (s *BatchState) Sync(names []string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	keep := make(map[string]bool, len(names))
	for _, name := range names {
		keep[name] = true
		if _, ok := s.statuses[name]; !ok {
			s.statuses[name] = &ActionStatus{State: models.ActionIdle}
		}
	}

	order := append([]string(nil), names...)
	for _, name := range s.order {
		if keep[name] {
			continue
		}
		if s.statuses[name].State == models.ActionRunning {
			order = append(order, name)
			continue
		}
		delete(s.statuses, name)
	}
	s.order = order
}

// StartRun moves an action to running. It fails when the action is unknown
// or already running.
func (s *BatchState) StartRun(name, correlationID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	st, ok := s.statuses[name]
	if !ok || st.State == models.ActionRunning {
		return false
	}
	*st = ActionStatus{
		State:         models.ActionRunning,
		CorrelationID: correlationID,
		Started:       time.Now(),
	}
	return true
}

func (s *BatchState) Finish(name, output string, exitCode int, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	st, ok := s.statuses[name]
	if !ok {
		return
	}
	st.Output = output
	st.ExitCode = exitCode
	st.Err = err
	st.Finished = time.Now()
	if err != nil {
		st.State = models.ActionFailed
	} else {
		st.State = models.ActionSucceeded
	}
}

func (s *BatchState) Cancel(name, correlationID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	st, ok := s.statuses[name]
	if !ok || st.State == models.ActionRunning {
		return false
	}
	*st = ActionStatus{State: models.ActionCancelled, CorrelationID: correlationID, Finished: time.Now()}
	return true
}

// Get returns a copy of the action's status.
func (s *BatchState) Get(name string) (ActionStatus, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	st, ok := s.statuses[name]
	if !ok {
		return ActionStatus{}, false
	}
	return *st, true
}

// Counts returns how many actions are running, succeeded and failed.
func (s *BatchState) Counts() (running, done, failed int) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, name := range s.order {
		switch s.statuses[name].State {
		case models.ActionRunning:
			running++
		case models.ActionSucceeded:
			done++
		case models.ActionFailed:
			failed++
		}
	}
	return running, done, failed
}

func (s *BatchState) IsProcessing() bool {
	running, _, _ := s.Counts()
	return running > 0
}
