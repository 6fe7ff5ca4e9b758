package util

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateCronExpr(t *testing.T) {
	tests := []struct {
		expr    string
		wantErr bool
	}{
		{"0 * * * *", false},
		{"*/15 9-17 * * 1-5", false},
		{"@hourly", true},
		{"0 * * *", true},
		{"61 * * * *", true},
		{"", true},
	}

	for _, tt := range tests {
		t.Run(tt.expr, func(t *testing.T) {
			err := ValidateCronExpr(tt.expr)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestNextCronTime(t *testing.T) {
	from := time.Date(2024, 5, 1, 9, 20, 0, 0, time.FixedZone("CEST", 2*60*60))

	next, err := NextCronTime("0 * * * *", from)
	require.NoError(t, err)
	assert.True(t, time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC).Equal(next), "got %s", next)

	_, err = NextCronTime("bogus", from)
	assert.Error(t, err)
}
