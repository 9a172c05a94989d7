package collector

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	apperrors "github.com/syslens/sysreport/internal/common/errors"
)

func newTestParallelCollector(src Source) *ParallelCollector {
	clock := func() time.Time { return time.Date(2026, 10, 19, 14, 30, 15, 0, time.UTC) }
	return NewParallelCollector(
		WithSource(src),
		WithCPUInterval(time.Millisecond),
		WithClock(clock),
	)
}

func TestParallelCollectorMatchesSequential(t *testing.T) {
	sequential, err := newTestCollector(newFakeSource()).Collect(context.Background())
	require.NoError(t, err)

	parallel, err := newTestParallelCollector(newFakeSource()).Collect(context.Background())
	require.NoError(t, err)

	assert.Equal(t, sequential, parallel)
}

func TestParallelCollectorFatalError(t *testing.T) {
	src := newFakeSource()
	src.lookupErr = errors.New("no such host")

	snap, err := newTestParallelCollector(src).Collect(context.Background())
	assert.Nil(t, snap)
	assert.ErrorIs(t, err, apperrors.ErrHostResolution)
}

func TestParallelCollectorImplementsCollector(t *testing.T) {
	var c Collector = NewParallelCollector()
	assert.NotNil(t, c)
}
