package observability

import (
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestMakeTransferMetrics(t *testing.T) {
	obs := Make(nil)
	m := MakeTransferMetrics(obs)

	m.Done.Inc()
	m.Done.Inc()
	m.Canceled.Inc()

	assert.Equal(t, float64(2), testutil.ToFloat64(m.Done))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.Canceled))
	assert.Equal(t, float64(0), testutil.ToFloat64(m.Created))

	expected := `
# HELP wallets_transfers_done_total Number of transfers done.
# TYPE wallets_transfers_done_total counter
wallets_transfers_done_total 2
`
	err := testutil.GatherAndCompare(obs.Metrics(), strings.NewReader(expected), "wallets_transfers_done_total")
	require.NoError(t, err)
}

func TestMakeReconcilerMetrics_Names(t *testing.T) {
	obs := Make(nil)
	m := MakeReconcilerMetrics(obs)
	m.MarkersCleared.Inc()

	families, err := obs.Metrics().Gather()
	require.NoError(t, err)

	names := make([]string, 0, len(families))
	for _, f := range families {
		names = append(names, f.GetName())
	}
	assert.ElementsMatch(t, []string{
		"wallets_reconciler_resumed_total",
		"wallets_reconciler_markers_cleared_total",
	}, names)
}

func TestCounter_ReusesRegisteredCollector(t *testing.T) {
	obs := Make(nil)
	opts := prometheus.CounterOpts{Namespace: "wallets", Subsystem: "test", Name: "hits_total", Help: "hits"}

	first := obs.Counter(opts)
	second := obs.Counter(opts)

	assert.Same(t, first, second)
}

func TestToSnake(t *testing.T) {
	assert.Equal(t, "markers_cleared", toSnake("MarkersCleared"))
	assert.Equal(t, "done", toSnake("Done"))
}

func TestNewLogger(t *testing.T) {
	logger, err := NewLogger("debug")
	require.NoError(t, err)
	assert.True(t, logger.Core().Enabled(zapcore.DebugLevel))

	logger, err = NewLogger("")
	require.NoError(t, err)
	assert.False(t, logger.Core().Enabled(zapcore.DebugLevel))
	assert.True(t, logger.Core().Enabled(zapcore.InfoLevel))

	_, err = NewLogger("loud")
	assert.Error(t, err)
}
