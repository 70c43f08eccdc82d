package logger

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
)

func TestLogger_LevelFiltering(t *testing.T) {
	tests := []struct {
		name    string
		level   string
		log     func(l *Logger)
		wantOut bool
	}{
		{name: "info passes at info", level: "info", log: func(l *Logger) { l.Info("hello") }, wantOut: true},
		{name: "debug dropped at info", level: "info", log: func(l *Logger) { l.Debug("hello") }, wantOut: false},
		{name: "warn dropped at error", level: "error", log: func(l *Logger) { l.Warn("hello") }, wantOut: false},
		{name: "unknown level defaults to info", level: "loud", log: func(l *Logger) { l.Info("hello") }, wantOut: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			l := New(Config{Level: tt.level, Format: "json", Output: &buf})
			tt.log(l)

			if got := buf.Len() > 0; got != tt.wantOut {
				t.Errorf("output written = %v, want %v (%q)", got, tt.wantOut, buf.String())
			}
		})
	}
}

func TestLogger_WithFields(t *testing.T) {
	var buf bytes.Buffer
	l := New(Config{Level: "debug", Format: "json", Output: &buf})

	l.WithFields(map[string]interface{}{"user_id": "u-1", "kind": "sale"}).Info("recorded")

	var entry map[string]interface{}
	if err := json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &entry); err != nil {
		t.Fatalf("failed to decode log line: %v", err)
	}
	if entry["user_id"] != "u-1" || entry["kind"] != "sale" {
		t.Errorf("fields missing from entry: %v", entry)
	}
	if entry["message"] != "recorded" {
		t.Errorf("message = %v, want recorded", entry["message"])
	}
}

func TestLogger_ConsoleFormat(t *testing.T) {
	var buf bytes.Buffer
	l := New(Config{Level: "info", Format: "console", Output: &buf})
	l.Infof("started on %d", 8080)

	if !strings.Contains(buf.String(), "started on 8080") {
		t.Errorf("console output = %q", buf.String())
	}
}
