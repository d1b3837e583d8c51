package services

import (
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/varshaaa-v/Web-Technology-Project/internal/models"
)

// TaskInput is a decoded JSON task body. Field types are checked at
// normalization time so loosely typed clients behave the same as typed ones.
type TaskInput map[string]interface{}

var dueDateLayouts = []string{
	"2006-01-02",
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006/01/02",
	"01/02/2006",
	time.RFC1123Z,
	time.RFC1123,
}

// ParseDueDate turns a loosely formatted date into a calendar date at UTC
// midnight. ok is false when nothing could be parsed.
func ParseDueDate(v interface{}) (time.Time, bool) {
	var t time.Time
	switch val := v.(type) {
	case string:
		s := strings.TrimSpace(val)
		if s == "" {
			return time.Time{}, false
		}
		parsed := false
		for _, layout := range dueDateLayouts {
			if p, err := time.Parse(layout, s); err == nil {
				t, parsed = p, true
				break
			}
		}
		if !parsed {
			return time.Time{}, false
		}
	case float64:
		// epoch milliseconds
		if math.IsNaN(val) || math.IsInf(val, 0) {
			return time.Time{}, false
		}
		t = time.UnixMilli(int64(val))
	default:
		return time.Time{}, false
	}

	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), true
}

// truthy mirrors loose JSON truthiness: nil, false, 0 and "" are falsy.
func truthy(v interface{}) bool {
	switch val := v.(type) {
	case nil:
		return false
	case bool:
		return val
	case string:
		return val != ""
	case float64:
		return val != 0 && !math.IsNaN(val)
	default:
		return true
	}
}

func stringOf(v interface{}) (string, bool) {
	switch val := v.(type) {
	case string:
		return val, true
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64), true
	case bool:
		return strconv.FormatBool(val), true
	default:
		return "", false
	}
}

// normalizeNewTask builds a task from a create body, applying defaults.
func normalizeNewTask(in TaskInput) (*models.Task, error) {
	rawTitle := in["title"]
	if !truthy(rawTitle) {
		rawTitle = in["name"]
	}
	title, ok := rawTitle.(string)
	title = strings.TrimSpace(title)
	if !ok || title == "" {
		return nil, newValidationError("Title is required")
	}

	if !truthy(in["userId"]) {
		return nil, newValidationError("userId is required")
	}
	userID, ok := stringOf(in["userId"])
	if !ok {
		return nil, newValidationError("userId is required")
	}

	task := &models.Task{
		Title:    title,
		UserID:   userID,
		Category: models.DefaultCategory,
		Priority: models.PriorityMedium,
	}

	if c, ok := in["category"].(string); ok && strings.TrimSpace(c) != "" {
		task.Category = strings.TrimSpace(c)
	}
	if p, ok := in["priority"].(string); ok && models.IsValidPriority(p) {
		task.Priority = p
	}
	if done, ok := in["isComplete"].(bool); ok {
		task.IsComplete = done
	}
	if truthy(in["dueDate"]) {
		if due, ok := ParseDueDate(in["dueDate"]); ok {
			task.DueDate = &due
		}
	}
	if truthy(in["image"]) {
		if img, ok := stringOf(in["image"]); ok {
			task.Image = img
		}
	}

	return task, nil
}

// normalizeTaskUpdate returns the column updates for a partial body. Unknown
// keys and values of the wrong type are dropped; a present but empty dueDate
// clears it.
func normalizeTaskUpdate(in TaskInput) map[string]interface{} {
	updates := make(map[string]interface{})

	rawTitle := in["title"]
	if !truthy(rawTitle) {
		rawTitle = in["name"]
	}
	if title, ok := rawTitle.(string); ok && strings.TrimSpace(title) != "" {
		updates["title"] = strings.TrimSpace(title)
	}
	if c, ok := in["category"].(string); ok {
		c = strings.TrimSpace(c)
		if c == "" {
			c = models.DefaultCategory
		}
		updates["category"] = c
	}
	if p, ok := in["priority"].(string); ok {
		if !models.IsValidPriority(p) {
			p = models.PriorityMedium
		}
		updates["priority"] = p
	}
	if done, ok := in["isComplete"].(bool); ok {
		updates["is_complete"] = done
	}
	if raw, present := in["dueDate"]; present {
		if !truthy(raw) {
			updates["due_date"] = nil
		} else if due, ok := ParseDueDate(raw); ok {
			updates["due_date"] = due
		}
	}
	if img, ok := in["image"].(string); ok {
		updates["image"] = img
	}

	return updates
}
