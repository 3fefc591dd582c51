package logging

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func TestComponent(t *testing.T) {
	prev := log.Logger
	t.Cleanup(func() { log.Logger = prev })

	var buf bytes.Buffer
	log.Logger = zerolog.New(&buf)

	logger := Component("reminder-service")
	logger.Info().Msg("test message")

	var logEntry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &logEntry); err != nil {
		t.Fatalf("failed to parse log: %v", err)
	}

	if got := logEntry["component"]; got != "reminder-service" {
		t.Errorf("Component() component = %q, want %q", got, "reminder-service")
	}

	if got := logEntry["message"]; got != "test message" {
		t.Errorf("Component() message = %q, want %q", got, "test message")
	}
}
