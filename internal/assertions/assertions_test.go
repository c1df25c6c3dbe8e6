package assertions

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// TestScenarioFTriggerCount implements Scenario F: with trigger_count=3,
// the third failing assert calls Fail; a fourth call afterward must not
// deadlock.
func TestScenarioFTriggerCount(t *testing.T) {
	var failCalls int
	acc := NewAccumulator(nil, 3, nil, func() { failCalls++ })

	for i := 0; i < 3; i++ {
		acc.Assert(false, "boom", Location{File: "f.go", Line: i + 1})
	}
	require.True(t, acc.TestFailed(), "expected Fail to have been called at the trigger count")
	require.Equal(t, 1, failCalls)

	// A fourth failing assert after Fail must not deadlock and must not
	// re-invoke the fail callback.
	acc.Assert(false, "boom again", Location{File: "f.go", Line: 99})
	require.Equal(t, 1, failCalls, "Fail callback must only fire once")
	require.Equal(t, 4, acc.FireCount())
}

func TestAssertPassingDoesNotAccumulate(t *testing.T) {
	acc := NewAccumulator(nil, 1, nil, nil)
	acc.Assert(true, "fine", Location{})
	require.Equal(t, 0, acc.FireCount())
	require.Empty(t, acc.GetFailedAssertions(0))
	require.False(t, acc.TestFailed())
}

func TestBoundedFailureList(t *testing.T) {
	acc := NewAccumulator(nil, MaxFailedAssertions+10, nil, nil)
	for i := 0; i < MaxFailedAssertions+5; i++ {
		acc.Assert(false, "overflow", Location{Line: i})
	}
	require.Len(t, acc.GetFailedAssertions(0), MaxFailedAssertions)
	require.Equal(t, MaxFailedAssertions+5, acc.FireCount(), "fire count keeps incrementing past the retained cap")
}

func TestTriggerCallbackRunsOutsideLock(t *testing.T) {
	var acc *Accumulator
	acc = NewAccumulator(nil, 100, func(f Failure, fireCount int) {
		//1.- Reentering Assert (and therefore acc.mu.Lock()) from inside
		// the trigger callback must not deadlock; this is the reentrancy
		// contract from §4.8, satisfied by always calling back outside
		// the lock rather than via a recursive mutex.
		acc.Assert(true, "nested check", Location{})
	}, nil)
	acc.Assert(false, "reentrant", Location{})
	require.Equal(t, 1, acc.FireCount())
}

func TestClearFailedAssertions(t *testing.T) {
	acc := NewAccumulator(nil, 100, nil, nil)
	acc.Assert(false, "one", Location{})
	require.Equal(t, 1, acc.FireCount())
	acc.ClearFailedAssertions()
	require.Equal(t, 0, acc.FireCount())
	require.Empty(t, acc.GetFailedAssertions(0))
}

func TestResetClearsTestFailed(t *testing.T) {
	acc := NewAccumulator(nil, 1, nil, func() {})
	acc.Assert(false, "fails", Location{})
	require.True(t, acc.TestFailed())
	acc.Reset()
	require.False(t, acc.TestFailed())
	require.Equal(t, 0, acc.FireCount())
}
