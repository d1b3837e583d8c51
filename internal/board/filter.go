package board

import (
	"strings"

	"github.com/varshaaa-v/Web-Technology-Project/internal/dto"
	"github.com/varshaaa-v/Web-Technology-Project/internal/models"
)

type Filter string

const (
	FilterAll       Filter = "all"
	FilterPending   Filter = "pending"
	FilterCompleted Filter = "completed"
	FilterOverdue   Filter = "overdue"
	FilterCurrent   Filter = "current"
	FilterHigh      Filter = "high"
)

var Filters = []Filter{FilterAll, FilterPending, FilterCompleted, FilterOverdue, FilterCurrent, FilterHigh}

// ParseFilter accepts a filter tag case-insensitively.
func ParseFilter(s string) (Filter, bool) {
	f := Filter(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Filters {
		if f == known {
			return f, true
		}
	}
	return FilterAll, false
}

// Matches applies the filter stage. today is a YYYY-MM-DD date.
func (f Filter) Matches(t dto.Task, today string) bool {
	switch f {
	case FilterPending:
		return !t.IsComplete
	case FilterCompleted:
		return t.IsComplete
	case FilterOverdue:
		return t.HasDueDate() && *t.DueDate < today && !t.IsComplete
	case FilterCurrent:
		return t.HasDueDate() && *t.DueDate == today && !t.IsComplete
	case FilterHigh:
		return t.Priority == models.PriorityHigh
	default:
		return true
	}
}

// MatchesQuery is a case-insensitive substring search over the task title,
// priority, due date and category name. An empty query matches everything.
func MatchesQuery(t dto.Task, categoryName, query string) bool {
	query = strings.ToLower(query)
	if query == "" {
		return true
	}
	fields := []string{t.Title, t.Priority}
	if t.HasDueDate() {
		fields = append(fields, *t.DueDate)
	}
	fields = append(fields, categoryName)
	return strings.Contains(strings.ToLower(strings.Join(fields, " ")), query)
}

// Visible reports whether a task passes both the filter and the search.
func Visible(t dto.Task, categoryName, today string, f Filter, query string) bool {
	return f.Matches(t, today) && MatchesQuery(t, categoryName, query)
}
