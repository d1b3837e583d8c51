package board

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/varshaaa-v/Web-Technology-Project/internal/dto"
)

func dueTask(due string, done bool, priority string) dto.Task {
	t := dto.Task{Title: "Pay rent", Priority: priority, IsComplete: done}
	if due != "" {
		t.DueDate = &due
	}
	return t
}

func TestVisible_FilterStage(t *testing.T) {
	const today = "2024-01-10"

	overdue := dueTask("2024-01-09", false, "medium")
	assert.True(t, Visible(overdue, "Home", today, FilterOverdue, ""))
	assert.True(t, Visible(overdue, "Home", today, FilterAll, ""))
	assert.True(t, Visible(overdue, "Home", today, FilterPending, ""))
	assert.False(t, Visible(overdue, "Home", today, FilterCompleted, ""))
	assert.False(t, Visible(overdue, "Home", today, FilterCurrent, ""))
	assert.False(t, Visible(overdue, "Home", today, FilterHigh, ""))

	dueToday := dueTask(today, false, "high")
	assert.True(t, Visible(dueToday, "Home", today, FilterCurrent, ""))
	assert.True(t, Visible(dueToday, "Home", today, FilterHigh, ""))
	assert.False(t, Visible(dueToday, "Home", today, FilterOverdue, ""))

	doneLate := dueTask("2024-01-01", true, "low")
	assert.False(t, Visible(doneLate, "Home", today, FilterOverdue, ""))
	assert.True(t, Visible(doneLate, "Home", today, FilterCompleted, ""))
	assert.False(t, Visible(doneLate, "Home", today, FilterPending, ""))

	noDue := dueTask("", false, "medium")
	assert.False(t, Visible(noDue, "Home", today, FilterOverdue, ""))
	assert.False(t, Visible(noDue, "Home", today, FilterCurrent, ""))
}

func TestVisible_SearchStage(t *testing.T) {
	const today = "2024-01-10"
	task := dueTask("2024-01-09", false, "medium")

	tests := []struct {
		query string
		want  bool
	}{
		{"", true},
		{"RENT", true},
		{"medium", true},
		{"2024-01-09", true},
		{"home", true},
		{"work", false},
		{"rent m", true},
		{"  pay ", false},
		{"   ", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Visible(task, "Home", today, FilterAll, tt.query), "query %q", tt.query)
	}

	rental := dto.Task{Title: "Rental car", Priority: "low"}
	assert.False(t, Visible(rental, "Travel", today, FilterAll, "rent "))
	assert.True(t, Visible(rental, "Travel", today, FilterAll, "rent"))

	// search only runs when the filter passes
	assert.False(t, Visible(task, "Home", today, FilterCompleted, "rent"))
}

func TestParseFilter(t *testing.T) {
	f, ok := ParseFilter(" Overdue ")
	assert.True(t, ok)
	assert.Equal(t, FilterOverdue, f)

	f, ok = ParseFilter("someday")
	assert.False(t, ok)
	assert.Equal(t, FilterAll, f)
}
