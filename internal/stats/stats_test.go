package stats_test

import (
	"testing"

	"github.com/hugh/go-planner/internal/stats"
	"github.com/stretchr/testify/assert"
)

func TestCompletionPercentage(t *testing.T) {
	tests := []struct {
		name      string
		completed int64
		total     int64
		want      int
	}{
		{"no subtasks", 0, 0, 0},
		{"none completed", 0, 4, 0},
		{"half", 1, 2, 50},
		{"one third rounds down", 1, 3, 33},
		{"two thirds rounds up", 2, 3, 67},
		{"all completed", 5, 5, 100},
		{"12.5 rounds to even", 1, 8, 12},
		{"37.5 rounds to even", 3, 8, 38},
		{"62.5 rounds to even", 5, 8, 62},
		{"87.5 rounds to even", 7, 8, 88},
		{"completed above total clamps", 3, 2, 100},
		{"negative total", 1, -1, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, stats.CompletionPercentage(tt.completed, tt.total))
		})
	}
}

func TestSubtaskCounts_Percentage(t *testing.T) {
	assert.Equal(t, 75, stats.SubtaskCounts{Completed: 3, Total: 4}.Percentage())
	assert.Equal(t, 0, stats.SubtaskCounts{}.Percentage())
}

func TestNewProjectStats(t *testing.T) {
	s := stats.NewProjectStats(3, 6, 2)
	assert.Equal(t, int64(3), s.TotalTasks)
	assert.Equal(t, int64(6), s.TotalSubtasks)
	assert.Equal(t, int64(2), s.CompletedSubtasks)
	assert.Equal(t, 33, s.CompletionRate)

	empty := stats.NewProjectStats(2, 0, 0)
	assert.Equal(t, 0, empty.CompletionRate)
}

func TestElapsedMinutes(t *testing.T) {
	assert.Equal(t, int64(60), stats.ElapsedMinutes(3600))
	assert.Equal(t, int64(60), stats.ElapsedMinutes(59.5*60))
	assert.Equal(t, int64(58), stats.ElapsedMinutes(58.5*60))
	assert.Equal(t, int64(59), stats.ElapsedMinutes(59.4*60))
	assert.Equal(t, int64(0), stats.ElapsedMinutes(20))
}
