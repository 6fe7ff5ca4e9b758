package database

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func TestQueryLogger_Trace(t *testing.T) {
	var buf bytes.Buffer
	l := NewQueryLoggerTo(&buf, logger.Info)

	l.Trace(context.Background(), time.Now(), func() (string, int64) {
		return "SELECT * FROM tasks WHERE customer_id = 'x'", 3
	}, nil)

	var rec map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	assert.Equal(t, "query", rec["message"])
	assert.Equal(t, "SELECT * FROM tasks WHERE customer_id = 'x'", rec["sql"])
	assert.EqualValues(t, 3, rec["rows"])
	assert.Contains(t, rec, "elapsed_ms")
}

func TestQueryLogger_TruncatesSQL(t *testing.T) {
	var buf bytes.Buffer
	l := NewQueryLoggerTo(&buf, logger.Info)

	long := "SELECT " + strings.Repeat("a", 500)
	l.Trace(context.Background(), time.Now(), func() (string, int64) { return long, 0 }, nil)

	var rec map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	assert.Len(t, rec["sql"], maxLoggedSQL+3)
}

func TestTruncateSQL_RuneBoundary(t *testing.T) {
	tests := []struct {
		name string
		sql  string
		want int // bytes kept before the ellipsis
	}{
		{"short unchanged", "SELECT 1", -1},
		{"ascii cut at limit", strings.Repeat("a", maxLoggedSQL+1), maxLoggedSQL},
		// "SELECT " is 7 bytes, so the limit falls on the second byte of an é.
		{"two byte rune backs off", "SELECT " + strings.Repeat("é", 150), maxLoggedSQL - 1},
		{"four byte rune backs off", "SELECT " + strings.Repeat("😀", 60), 199},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := truncateSQL(tt.sql)
			assert.True(t, utf8.ValidString(got))
			if tt.want < 0 {
				assert.Equal(t, tt.sql, got)
				return
			}
			assert.Equal(t, tt.sql[:tt.want]+"...", got)
		})
	}
}

func TestQueryLogger_TruncatesMultibyteSQL(t *testing.T) {
	var buf bytes.Buffer
	l := NewQueryLoggerTo(&buf, logger.Info)

	sql := "SELECT '" + strings.Repeat("ü", 300) + "'"
	l.Trace(context.Background(), time.Now(), func() (string, int64) { return sql, 0 }, nil)

	var rec map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	logged := rec["sql"].(string)
	assert.NotContains(t, logged, "\uFFFD")
	assert.NotContains(t, logged, string(utf8.RuneError))
	assert.True(t, strings.HasSuffix(logged, "ü..."))
}

func TestQueryLogger_Levels(t *testing.T) {
	var buf bytes.Buffer
	l := NewQueryLoggerTo(&buf, logger.Error)

	l.Trace(context.Background(), time.Now(), func() (string, int64) { return "SELECT 1", 1 }, nil)
	assert.Empty(t, buf.String(), "successful queries are not logged at error level")

	l.Trace(context.Background(), time.Now(), func() (string, int64) { return "SELECT 1", 0 }, gorm.ErrRecordNotFound)
	assert.Empty(t, buf.String(), "record not found is not an error")

	l.Trace(context.Background(), time.Now(), func() (string, int64) { return "SELECT 1", 0 }, errors.New("boom"))
	assert.Contains(t, buf.String(), "query failed")

	buf.Reset()
	silent := l.LogMode(logger.Silent)
	silent.Trace(context.Background(), time.Now(), func() (string, int64) { return "SELECT 1", 0 }, errors.New("boom"))
	assert.Empty(t, buf.String())
}
