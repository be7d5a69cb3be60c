// Package session tracks the transient per-browser state of the tool: the
// two signature upload slots, the in-flight flag and the last report.
package session

import (
	"errors"
	"sync"
	"time"

	"github.com/sigcheck/signature-compare/internal/compare"
)

// State is the observable lifecycle of one comparison session.
type State string

const (
	StateIdle      State = "idle"      // zero or one image present
	StateReady     State = "ready"     // both images present, compare enabled
	StateAnalyzing State = "analyzing" // request in flight
	StateComplete  State = "complete"  // report available
	StateFailed    State = "failed"    // last attempt failed
)

// ErrBusy is returned when a comparison is already in flight for the
// session. Only one comparison runs at a time.
var ErrBusy = errors.New("a comparison is already in progress")

// ErrBadSlot is returned for a slot outside 1..2.
var ErrBadSlot = errors.New("slot must be 1 or 2")

// Session is the state of one browser session. Uploads are destroyed when a
// new upload replaces them or the session expires; the report lives until
// the next comparison overwrites it. All methods are safe for concurrent
// use.
type Session struct {
	id string

	mu        sync.Mutex
	uploads   [2]*compare.Upload
	analyzing bool
	report    []byte
	lastError string
	touched   time.Time
}

// Snapshot is a point-in-time view of a session, safe to serialize.
type Snapshot struct {
	State     State   `json:"state"`
	Slots     [2]bool `json:"slots"`
	HasReport bool    `json:"hasReport"`
	Error     string  `json:"error,omitempty"`
}

// ID returns the session identifier.
func (s *Session) ID() string { return s.id }

// SetUpload stores an image in the given slot (1 or 2), replacing any
// previous one. A new upload invalidates the last report and error.
func (s *Session) SetUpload(slot int, u *compare.Upload) error {
	if slot < 1 || slot > 2 {
		return ErrBadSlot
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.analyzing {
		return ErrBusy
	}
	s.uploads[slot-1] = u
	s.report = nil
	s.lastError = ""
	s.touched = time.Now()
	return nil
}

// ClearUpload removes the image in the given slot.
func (s *Session) ClearUpload(slot int) error {
	if slot < 1 || slot > 2 {
		return ErrBadSlot
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.analyzing {
		return ErrBusy
	}
	s.uploads[slot-1] = nil
	s.report = nil
	s.lastError = ""
	s.touched = time.Now()
	return nil
}

// BeginCompare marks the session as analyzing and returns the current
// uploads. It fails with ErrBusy if a comparison is already in flight;
// input validation is left to the compare service so the error taxonomy
// stays in one place.
func (s *Session) BeginCompare() ([2]*compare.Upload, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.analyzing {
		return [2]*compare.Upload{}, ErrBusy
	}
	s.analyzing = true
	s.touched = time.Now()
	return s.uploads, nil
}

// FinishCompare records the outcome of the in-flight comparison and clears
// the analyzing flag. On success the raw report bytes are retained for the
// download endpoint.
func (s *Session) FinishCompare(report *compare.Report, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.analyzing = false
	s.touched = time.Now()
	if err != nil {
		s.report = nil
		s.lastError = err.Error()
		return
	}
	s.report = report.Markdown
	s.lastError = ""
}

// Report returns the last report bytes, if any.
func (s *Session) Report() ([]byte, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.report == nil {
		return nil, false
	}
	return s.report, true
}

// Snapshot returns the current observable state.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Snapshot{
		State:     s.stateLocked(),
		Slots:     [2]bool{s.uploads[0] != nil, s.uploads[1] != nil},
		HasReport: s.report != nil,
		Error:     s.lastError,
	}
}

func (s *Session) stateLocked() State {
	switch {
	case s.analyzing:
		return StateAnalyzing
	case s.lastError != "":
		return StateFailed
	case s.report != nil:
		return StateComplete
	case s.uploads[0] != nil && s.uploads[1] != nil:
		return StateReady
	default:
		return StateIdle
	}
}

func (s *Session) expired(ttl time.Duration, now time.Time) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	// Never expire a session mid-comparison.
	return !s.analyzing && now.Sub(s.touched) > ttl
}
