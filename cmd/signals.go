package cmd

import (
	"io"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/zjrosen/cate/internal/log"
)

// exit is os.Exit, replaced in tests.
var exit = os.Exit

// handleSignals makes SIGINT and SIGTERM end the process with status 0, even
// while blocked reading input, after running cleanup. SIGPIPE is ignored so a
// closed stdout shows up as a write error the renderer treats as a normal end.
// The returned function stops the handler.
func handleSignals(cleanup func()) (stop func()) {
	signal.Ignore(syscall.SIGPIPE)

	ch := make(chan os.Signal, 1)
	signal.Notify(ch, os.Interrupt, syscall.SIGTERM)
	done := make(chan struct{})

	go func() {
		select {
		case sig := <-ch:
			log.Debug(log.CatInput, "Interrupted", "signal", sig.String())
			cleanup()
			exit(0)
		case <-done:
		}
	}()

	return func() {
		signal.Stop(ch)
		close(done)
	}
}

// guardedWriter serializes writes to the output so a signal handler can end
// it between two lines. Once finished, every Write fails with os.ErrClosed,
// which the renderer treats as a closed sink.
type guardedWriter struct {
	mu     sync.Mutex
	w      io.Writer
	closed bool
}

func (g *guardedWriter) Write(p []byte) (int, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.closed {
		return 0, os.ErrClosed
	}
	return g.w.Write(p)
}

// finish writes tail, if any, and closes the writer.
func (g *guardedWriter) finish(tail string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.closed {
		return
	}
	if tail != "" {
		_, _ = io.WriteString(g.w, tail)
	}
	g.closed = true
}
