package watch

import (
	"context"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRun_LocalFileChange(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cal.ics")
	require.NoError(t, os.WriteFile(path, []byte("BEGIN:VCALENDAR\n"), 0o600))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var calls atomic.Int32
	done := make(chan error, 1)
	go func() {
		done <- Run(ctx, path, "", func(context.Context) { calls.Add(1) })
	}()

	require.Eventually(t, func() bool { return calls.Load() == 1 }, 2*time.Second, 10*time.Millisecond)

	// Keep writing until the watcher picks a change up; the watcher may not
	// be registered yet when the first write happens.
	require.Eventually(t, func() bool {
		_ = os.WriteFile(path, []byte("BEGIN:VCALENDAR\nEND:VCALENDAR\n"), 0o600)
		return calls.Load() >= 2
	}, 5*time.Second, 300*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("watcher did not stop after cancel")
	}
}

func TestRun_InvalidSchedule(t *testing.T) {
	var calls atomic.Int32
	err := Run(context.Background(), "https://example.com/cal.ics", "not a schedule",
		func(context.Context) { calls.Add(1) })
	assert.Error(t, err)
	assert.Equal(t, int32(1), calls.Load())
}

func TestRun_MissingDirectory(t *testing.T) {
	err := Run(context.Background(), filepath.Join(t.TempDir(), "missing", "cal.ics"), "",
		func(context.Context) {})
	assert.Error(t, err)
}
