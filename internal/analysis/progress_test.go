package analysis

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTrackerExtractionProgress(t *testing.T) {
	tr := NewTracker()
	tr.StartTask("t1", "Doc.pdf")
	tr.SetExtracting(3, 10)

	snap := tr.Snapshot()
	assert.True(t, snap.Active)
	assert.Equal(t, PhaseExtracting, snap.Phase)
	assert.Equal(t, 3, snap.CurrentPage)
	assert.Equal(t, 10, snap.TotalPages)
}

func TestTrackerCosmeticTicker(t *testing.T) {
	tr := NewTracker()
	tr.StartTask("t1", "Doc.pdf")
	tr.StartAnalyzing()

	require.Eventually(t, func() bool {
		return tr.Snapshot().Percent > 0
	}, 2*time.Second, 25*time.Millisecond)

	snap := tr.Snapshot()
	assert.Equal(t, PhaseAnalyzing, snap.Phase)
	assert.LessOrEqual(t, snap.Percent, tickCeiling, "ticker never reaches 100")

	tr.Finish()
	assert.False(t, tr.Snapshot().Active)
}

func TestTrackerErrorLifecycle(t *testing.T) {
	tr := NewTracker()
	tr.StartTask("t1", "Doc.pdf")
	tr.SetError("boom")

	snap := tr.Snapshot()
	assert.False(t, snap.Active)
	assert.Equal(t, "boom", snap.Error)

	// the error survives Finish but not Reset
	tr.Finish()
	assert.Equal(t, "boom", tr.Snapshot().Error)
	tr.Reset()
	assert.Empty(t, tr.Snapshot().Error)
	assert.Equal(t, PhaseIdle, tr.Snapshot().Phase)
}
