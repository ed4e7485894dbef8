package telemetry

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordStageAggregates(t *testing.T) {
	tele := New(prometheus.NewRegistry())

	tele.RecordStage("research", "model", 10*time.Millisecond)
	tele.RecordStage("research", "fallback", 30*time.Millisecond)
	tele.RecordStage("generate", "fallback", 5*time.Millisecond)

	snap := tele.Snapshot()
	assert.Equal(t, int64(2), snap.StageExecutions["research"])
	assert.Equal(t, int64(1), snap.StageExecutions["generate"])
	assert.Equal(t, int64(1), snap.FallbackUses["research"])
	assert.Equal(t, int64(1), snap.FallbackUses["generate"])
	assert.Equal(t, 20*time.Millisecond, snap.StageAverageTimes["research"])
}

func TestRecordRequestOutcomes(t *testing.T) {
	tele := New(prometheus.NewRegistry())

	tele.RecordRequest(true, time.Millisecond)
	tele.RecordRequest(true, time.Millisecond)
	tele.RecordRequest(false, time.Millisecond)

	snap := tele.Snapshot()
	assert.Equal(t, int64(3), snap.TotalRequests)
	assert.Equal(t, int64(2), snap.SuccessfulRequests)
	assert.Equal(t, int64(1), snap.FailedRequests)
}

func TestSnapshotIsACopy(t *testing.T) {
	tele := New(nil)
	tele.RecordExtractionMiss("critique")

	snap := tele.Snapshot()
	snap.ExtractionMisses["critique"] = 99

	require.Equal(t, int64(1), tele.Snapshot().ExtractionMisses["critique"])
}
