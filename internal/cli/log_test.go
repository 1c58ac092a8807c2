package cli

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/seed/pkg/observability"
)

func TestNewLoggerLevels(t *testing.T) {
	tests := []struct {
		name  string
		level log.Level
		emit  func(*log.Logger)
		want  bool
	}{
		{"info at info", log.InfoLevel, func(l *log.Logger) { l.Info("solved") }, true},
		{"debug at info", log.InfoLevel, func(l *log.Logger) { l.Debug("solved") }, false},
		{"debug at debug", log.DebugLevel, func(l *log.Logger) { l.Debug("solved") }, true},
		{"warn at error", log.ErrorLevel, func(l *log.Logger) { l.Warn("solved") }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			tt.emit(newLogger(&buf, tt.level))
			if got := buf.Len() > 0; got != tt.want {
				t.Errorf("wrote output = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestNewLoggerTimestamp(t *testing.T) {
	var buf bytes.Buffer
	newLogger(&buf, log.InfoLevel).Info("laid out")

	// HH:MM:SS.cc prefix
	line := buf.String()
	if len(line) < 11 || line[2] != ':' || line[5] != ':' || line[8] != '.' {
		t.Errorf("log line = %q, want a 15:04:05.00 timestamp prefix", line)
	}
}

func TestProgress(t *testing.T) {
	var buf bytes.Buffer
	prog := newProgress(newLogger(&buf, log.InfoLevel))
	time.Sleep(5 * time.Millisecond)
	prog.done("Laid out documents", "documents", 3)

	out := buf.String()
	for _, want := range []string{"Laid out documents", "documents=3", "elapsed="} {
		if !strings.Contains(out, want) {
			t.Errorf("done() output = %q, want it to contain %q", out, want)
		}
	}
}

func TestSetLogLevelRegistersHooks(t *testing.T) {
	t.Cleanup(observability.Reset)
	observability.Reset()

	var buf bytes.Buffer
	c := New(&buf, LogInfo)
	if _, ok := observability.Pipeline().(*observability.LogHooks); ok {
		t.Fatal("hooks registered at info level")
	}

	c.SetLogLevel(LogDebug)
	if _, ok := observability.Pipeline().(*observability.LogHooks); !ok {
		t.Errorf("Pipeline() = %T, want *observability.LogHooks", observability.Pipeline())
	}
}
