package worker

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/fluxorio/webpool/pkg/core"
)

// recordingLogger keeps every line in memory. If panicOn is set, logging an
// INFO line containing it panics.
type recordingLogger struct {
	mu      *sync.Mutex
	lines   *[]string
	panicOn string
}

func newRecordingLogger() *recordingLogger {
	return &recordingLogger{mu: &sync.Mutex{}, lines: &[]string{}}
}

func (l *recordingLogger) record(level string, args ...interface{}) {
	line := level + " " + fmt.Sprint(args...)
	l.mu.Lock()
	*l.lines = append(*l.lines, line)
	l.mu.Unlock()
	if l.panicOn != "" && level == "INFO" && strings.Contains(line, l.panicOn) {
		panic("logger: " + l.panicOn)
	}
}

func (l *recordingLogger) Error(args ...interface{}) { l.record("ERROR", args...) }
func (l *recordingLogger) Info(args ...interface{})  { l.record("INFO", args...) }
func (l *recordingLogger) Debug(args ...interface{}) { l.record("DEBUG", args...) }

func (l *recordingLogger) WithFields(map[string]interface{}) core.Logger { return l }
func (l *recordingLogger) WithContext(context.Context) core.Logger       { return l }

func (l *recordingLogger) Lines() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]string, len(*l.lines))
	copy(out, *l.lines)
	return out
}

func (l *recordingLogger) Contains(substr string) bool {
	for _, line := range l.Lines() {
		if strings.Contains(line, substr) {
			return true
		}
	}
	return false
}

func (l *recordingLogger) Index(substr string) int {
	for i, line := range l.Lines() {
		if strings.Contains(line, substr) {
			return i
		}
	}
	return -1
}
