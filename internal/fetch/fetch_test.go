package fetch

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFetcher_StartsLoading(t *testing.T) {
	f := New[string]()
	assert.Equal(t, StatusLoading, f.State().Status)
}

func TestFetcher_ResolveMovesToReady(t *testing.T) {
	f := New[string]()

	token := f.Begin()
	applied := f.Resolve(token, "results")

	require.True(t, applied)
	state := f.State()
	assert.Equal(t, StatusReady, state.Status)
	assert.Equal(t, "results", state.Data)
	assert.Empty(t, state.Err)
}

func TestFetcher_FailMovesToError(t *testing.T) {
	f := New[string]()

	token := f.Begin()
	applied := f.Fail(token, "upstream unavailable")

	require.True(t, applied)
	state := f.State()
	assert.Equal(t, StatusError, state.Status)
	assert.Equal(t, "upstream unavailable", state.Err)
}

func TestFetcher_NewDispatchRestartsCycle(t *testing.T) {
	f := New[string]()

	token := f.Begin()
	f.Resolve(token, "first")
	require.Equal(t, StatusReady, f.State().Status)

	f.Begin()
	assert.Equal(t, StatusLoading, f.State().Status, "a refresh restarts from loading")
}

func TestFetcher_StaleResolutionDiscarded(t *testing.T) {
	// Dispatch "A", then "B"; "A"'s response arrives after "B"'s.
	// Displayed results must reflect "B".
	f := New[string]()

	tokenA := f.Begin()
	tokenB := f.Begin()

	require.True(t, f.Resolve(tokenB, "results for B"))
	assert.False(t, f.Resolve(tokenA, "results for A"), "stale resolution must not apply")

	state := f.State()
	assert.Equal(t, StatusReady, state.Status)
	assert.Equal(t, "results for B", state.Data)
}

func TestFetcher_StaleFailureDiscarded(t *testing.T) {
	f := New[int]()

	tokenA := f.Begin()
	tokenB := f.Begin()

	require.True(t, f.Resolve(tokenB, 7))
	assert.False(t, f.Fail(tokenA, "A timed out"))

	state := f.State()
	assert.Equal(t, StatusReady, state.Status)
	assert.Equal(t, 7, state.Data)
}

func TestFetcher_StaleResultCannotOverwriteNewerLoading(t *testing.T) {
	// "B" is still in flight when "A"'s late response arrives; the
	// in-flight cycle must keep its loading state.
	f := New[string]()

	tokenA := f.Begin()
	f.Begin()

	assert.False(t, f.Resolve(tokenA, "results for A"))
	assert.Equal(t, StatusLoading, f.State().Status)
}

func TestFetcher_Do_Success(t *testing.T) {
	f := New[[]string]()

	data, err := f.Do(func() ([]string, error) {
		return []string{"a", "b"}, nil
	})

	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, data)
	assert.Equal(t, StatusReady, f.State().Status)
}

func TestFetcher_Do_Error(t *testing.T) {
	f := New[[]string]()

	_, err := f.Do(func() ([]string, error) {
		return nil, errors.New("boom")
	})

	require.Error(t, err)
	state := f.State()
	assert.Equal(t, StatusError, state.Status)
	assert.Equal(t, "boom", state.Err)
}

func TestDebouncer_CoalescesBurstIntoOneDispatch(t *testing.T) {
	// Queries "A", "AP", "APP" inside the quiescence window must result
	// in exactly one dispatch, for "APP".
	d := NewDebouncer(30 * time.Millisecond)
	defer d.Stop()

	var mu sync.Mutex
	var dispatched []string
	search := func(q string) func() {
		return func() {
			mu.Lock()
			dispatched = append(dispatched, q)
			mu.Unlock()
		}
	}

	d.Trigger(search("A"))
	d.Trigger(search("AP"))
	d.Trigger(search("APP"))

	time.Sleep(100 * time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, dispatched, 1)
	assert.Equal(t, "APP", dispatched[0])
}

func TestDebouncer_SeparatedTriggersBothFire(t *testing.T) {
	d := NewDebouncer(10 * time.Millisecond)
	defer d.Stop()

	var mu sync.Mutex
	count := 0
	bump := func() {
		mu.Lock()
		count++
		mu.Unlock()
	}

	d.Trigger(bump)
	time.Sleep(50 * time.Millisecond)
	d.Trigger(bump)
	time.Sleep(50 * time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, 2, count)
}

func TestDebouncer_StopCancelsPending(t *testing.T) {
	d := NewDebouncer(20 * time.Millisecond)

	fired := make(chan struct{}, 1)
	d.Trigger(func() { fired <- struct{}{} })
	d.Stop()

	select {
	case <-fired:
		t.Error("action fired after Stop()")
	case <-time.After(80 * time.Millisecond):
	}
}

func TestDebouncer_StopWithoutTrigger(t *testing.T) {
	d := NewDebouncer(time.Millisecond)
	d.Stop() // must not panic
}
