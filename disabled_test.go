//go:build gmtdisable

package gmtrace

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// TestDisabledBuildIsNoOp confirms the gmtdisable facade accepts the full
// public surface without requiring a Platform and never fails a run.
func TestDisabledBuildIsNoOp(t *testing.T) {
	require.NoError(t, Init(Setup{Mode: ModeRecord, TestPath: "x.gmt"}))
	require.NoError(t, Update())
	Assert(false, "never fires")
	require.False(t, TestFailed())
	require.Equal(t, ModeDisabled, CurrentMode())
	require.NoError(t, Quit())

	var v int32 = 3
	PinInt(1, &v)
	require.Equal(t, int32(3), v)
}
