package analyzer

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseBound(t *testing.T) {
	end := at(600000)
	tests := []struct {
		name  string
		value string
		want  time.Time
	}{
		{"empty uses fallback", "", end},
		{"rfc3339", base.Add(time.Minute).Format(time.RFC3339), base.Add(time.Minute)},
		{"unix millis", "1767258000000", time.UnixMilli(1767258000000).UTC()},
		{"offset", "90s", at(90000)},
		{"compound offset", "2m30s", at(150000)},
		{"padded", "  90s ", at(90000)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseBound(tt.value, base, end)
			require.NoError(t, err)
			assert.True(t, tt.want.Equal(got), "got %s, want %s", got, tt.want)
		})
	}
}

func TestParseBound_Invalid(t *testing.T) {
	_, err := ParseBound("yesterday", base, base)
	assert.Error(t, err)
}
