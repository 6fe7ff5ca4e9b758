// Package stats computes derived fields from fetched rows.
package stats

import "math"

// CompletionPercentage returns completed/total as an integer percentage,
// rounded half to even (12.5 -> 12, 37.5 -> 38). A total of zero yields 0.
func CompletionPercentage(completed, total int64) int {
	if total <= 0 {
		return 0
	}
	if completed < 0 {
		completed = 0
	}
	if completed > total {
		completed = total
	}
	return int(math.RoundToEven(float64(completed) * 100 / float64(total)))
}

// SubtaskCounts tallies subtasks for a single task.
type SubtaskCounts struct {
	Completed int64
	Total     int64
}

func (c SubtaskCounts) Percentage() int {
	return CompletionPercentage(c.Completed, c.Total)
}

// ProjectStats is the aggregate view of one project.
type ProjectStats struct {
	TotalTasks        int64 `json:"total_tasks"`
	TotalSubtasks     int64 `json:"total_subtasks"`
	CompletedSubtasks int64 `json:"completed_subtasks"`
	CompletionRate    int   `json:"completion_rate"`
}

// NewProjectStats fills CompletionRate from the raw counts.
func NewProjectStats(tasks, subtasks, completed int64) ProjectStats {
	return ProjectStats{
		TotalTasks:        tasks,
		TotalSubtasks:     subtasks,
		CompletedSubtasks: completed,
		CompletionRate:    CompletionPercentage(completed, subtasks),
	}
}

// ElapsedMinutes converts a span in seconds to whole minutes using the same
// half-to-even rule as CompletionPercentage.
func ElapsedMinutes(seconds float64) int64 {
	return int64(math.RoundToEven(seconds / 60))
}
