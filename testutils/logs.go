package testutils

import (
	"log"
	"strings"
	"sync"
	"testing"

	"gotest.tools/assert"
	is "gotest.tools/assert/cmp"
)

const LogPrefix = "test logger: "

// Logs collects the output of a *log.Logger. It's safe to write to from the
// goroutines of a running server while a test reads it.
type Logs struct {
	mu  sync.Mutex
	buf strings.Builder
}

func NewLogs() (*Logs, *log.Logger) {
	logs := &Logs{}
	return logs, log.New(logs, LogPrefix, 0)
}

func (tl *Logs) Write(p []byte) (int, error) {
	tl.mu.Lock()
	defer tl.mu.Unlock()
	return tl.buf.Write(p)
}

func (tl *Logs) Logs() string {
	tl.mu.Lock()
	defer tl.mu.Unlock()
	return tl.buf.String()
}

// Lines returns each logged line without the logger prefix.
func (tl *Logs) Lines() []string {
	logs := strings.TrimSuffix(tl.Logs(), "\n")
	if logs == "" {
		return []string{}
	}
	lines := strings.Split(logs, "\n"+LogPrefix)
	lines[0] = strings.TrimPrefix(lines[0], LogPrefix)
	return lines
}

func (tl *Logs) AssertContains(t *testing.T, message string) {
	t.Helper()
	assert.Assert(t, is.Contains(tl.Logs(), message))
}

func (tl *Logs) AssertDoesNotContain(t *testing.T, message string) {
	t.Helper()
	logs := tl.Logs()
	assert.Assert(
		t, !strings.Contains(logs, message), "%q found in logs:\n%s", message, logs,
	)
}
