package validate

import (
	"strings"
	"testing"
	"time"

	"github.com/hay-kot/criterio"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTitle(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"valid title", "Buy milk", false},
		{"surrounding spaces", "  Buy milk  ", false},
		{"empty string", "", true},
		{"only spaces", "   ", true},
		{"only tabs and newlines", "\t\n", true},
		{"long title", strings.Repeat("a", 5000), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Title(tt.input)
			assert.Equal(t, tt.wantErr, err != nil, "Title(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
		})
	}
}

func TestDate(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"valid", "2025-03-10", false},
		{"leap day", "2024-02-29", false},
		{"not a leap year", "2025-02-29", true},
		{"empty", "", true},
		{"wrong layout", "10/03/2025", true},
		{"with time", "2025-03-10T09:00:00Z", true},
		{"near upper bound", "2262-04-01", false},
		{"past upper bound", "2300-01-01", true},
		{"near lower bound", "1678-01-01", false},
		{"past lower bound", "1600-01-01", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Date(tt.input)
			assert.Equal(t, tt.wantErr, err != nil, "Date(%q) error = %v", tt.input, err)
		})
	}
}

func TestInstant(t *testing.T) {
	assert.NoError(t, Instant(time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)))
	assert.NoError(t, Instant(LatestInstant))
	assert.NoError(t, Instant(EarliestInstant))
	assert.Error(t, Instant(LatestInstant.Add(time.Nanosecond)))
	assert.Error(t, Instant(EarliestInstant.Add(-time.Nanosecond)))
	assert.Error(t, Instant(time.Date(2400, 1, 1, 0, 0, 0, 0, time.UTC)))
}

func TestUserID(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"simple", "alice", false},
		{"email", "alice@example.com", false},
		{"empty", "", true},
		{"spaces", "alice smith", true},
		{"leading dash", "-alice", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := UserID(tt.input)
			assert.Equal(t, tt.wantErr, err != nil, "UserID(%q) error = %v", tt.input, err)
		})
	}
}

func TestTitleField(t *testing.T) {
	err := TitleField("title", "  ")

	var fieldErrs criterio.FieldErrors
	require.ErrorAs(t, err, &fieldErrs)
	assert.Len(t, fieldErrs, 1)
	assert.Equal(t, "title", fieldErrs[0].Field)
	assert.Contains(t, fieldErrs[0].Err.Error(), "title required")

	assert.NoError(t, TitleField("title", "ok"))
}
