// Package fetch provides the shared loading/ready/error cycle used by the
// dashboard's data-loading units, with stale-response protection and
// debounced dispatch for search-style inputs.
package fetch

import "sync"

// Status is the phase of a fetch cycle.
type Status int

const (
	// StatusLoading means a fetch is in flight (or none has started).
	StatusLoading Status = iota
	// StatusReady means the latest fetch resolved with data.
	StatusReady
	// StatusError means the latest fetch failed.
	StatusError
)

// String returns the status name.
func (s Status) String() string {
	switch s {
	case StatusLoading:
		return "loading"
	case StatusReady:
		return "ready"
	case StatusError:
		return "error"
	default:
		return "unknown"
	}
}

// State is a snapshot of one fetch unit: its status, the data when ready,
// and the error message when failed.
type State[T any] struct {
	Status Status `json:"status"`
	Data   T      `json:"data,omitempty"`
	Err    string `json:"error,omitempty"`
}

// Fetcher is an independent data-loading unit. Each dispatch is tagged
// with a monotonically increasing token; a resolution whose token is not
// the latest issued is discarded, so overlapping fetches settle on the
// most recently dispatched one regardless of arrival order.
type Fetcher[T any] struct {
	mu    sync.Mutex
	seq   uint64
	state State[T]
}

// New creates a Fetcher in the loading state.
func New[T any]() *Fetcher[T] {
	return &Fetcher[T]{}
}

// Begin starts a new fetch cycle: the state returns to loading and a
// fresh token is issued. Any fetch still in flight is superseded.
func (f *Fetcher[T]) Begin() uint64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.seq++
	f.state = State[T]{Status: StatusLoading}
	return f.seq
}

// Resolve completes the cycle identified by token with data. It reports
// whether the result was applied; a stale token leaves state untouched.
func (f *Fetcher[T]) Resolve(token uint64, data T) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	if token != f.seq {
		return false
	}
	f.state = State[T]{Status: StatusReady, Data: data}
	return true
}

// Fail completes the cycle identified by token with an error message.
// Stale tokens are discarded the same way as in Resolve.
func (f *Fetcher[T]) Fail(token uint64, message string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	if token != f.seq {
		return false
	}
	f.state = State[T]{Status: StatusError, Err: message}
	return true
}

// Do runs one full cycle around run: Begin, then Resolve or Fail with
// run's outcome. The run result is returned to the caller either way,
// even when a newer dispatch has superseded it in the meantime.
func (f *Fetcher[T]) Do(run func() (T, error)) (T, error) {
	token := f.Begin()
	data, err := run()
	if err != nil {
		f.Fail(token, err.Error())
		return data, err
	}
	f.Resolve(token, data)
	return data, nil
}

// State returns the current snapshot.
func (f *Fetcher[T]) State() State[T] {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}
