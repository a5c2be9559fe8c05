//go:build !windows

package cmd

import (
	"os"
	"syscall"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestHandleSignals_ExitsZeroAfterCleanup(t *testing.T) {
	codes := make(chan int, 1)
	exit = func(code int) { codes <- code }
	t.Cleanup(func() { exit = os.Exit })

	cleaned := make(chan struct{})
	stop := handleSignals(func() { close(cleaned) })
	defer stop()

	require.NoError(t, syscall.Kill(os.Getpid(), syscall.SIGTERM))

	select {
	case code := <-codes:
		require.Equal(t, 0, code)
	case <-time.After(5 * time.Second):
		t.Fatal("signal was not handled")
	}
	select {
	case <-cleaned:
	default:
		t.Fatal("cleanup did not run before exit")
	}
}

func TestHandleSignals_StopIsSafe(t *testing.T) {
	stop := handleSignals(func() {})
	stop()
}
