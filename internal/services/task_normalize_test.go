package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDueDate(t *testing.T) {
	jan10 := time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		in   interface{}
		want time.Time
		ok   bool
	}{
		{name: "date only", in: "2024-01-10", want: jan10, ok: true},
		{name: "rfc3339", in: "2024-01-10T15:30:00Z", want: jan10, ok: true},
		{name: "rfc3339 with offset", in: "2024-01-10T23:30:00-02:00", want: jan10.AddDate(0, 0, 1), ok: true},
		{name: "slashes", in: "2024/01/10", want: jan10, ok: true},
		{name: "us format", in: "01/10/2024", want: jan10, ok: true},
		{name: "epoch millis", in: float64(jan10.Add(5 * time.Hour).UnixMilli()), want: jan10, ok: true},
		{name: "garbage", in: "next tuesday"},
		{name: "empty", in: ""},
		{name: "bool", in: true},
		{name: "nil", in: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseDueDate(tt.in)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.True(t, tt.want.Equal(got), "got %s", got)
			}
		})
	}
}

func TestNormalizeNewTask_Defaults(t *testing.T) {
	task, err := normalizeNewTask(TaskInput{"title": "  Buy milk ", "userId": "a@x.io"})
	require.NoError(t, err)

	assert.Equal(t, "Buy milk", task.Title)
	assert.Equal(t, "a@x.io", task.UserID)
	assert.Equal(t, "General", task.Category)
	assert.Equal(t, "medium", task.Priority)
	assert.False(t, task.IsComplete)
	assert.Nil(t, task.DueDate)
	assert.Empty(t, task.Image)
}

func TestNormalizeNewTask_Fields(t *testing.T) {
	task, err := normalizeNewTask(TaskInput{
		"name":       "Alias title",
		"userId":     float64(42),
		"category":   " Work ",
		"priority":   "high",
		"isComplete": true,
		"dueDate":    "2024-01-10",
		"image":      "data:image/png;base64,AAAA",
	})
	require.NoError(t, err)

	assert.Equal(t, "Alias title", task.Title)
	assert.Equal(t, "42", task.UserID)
	assert.Equal(t, "Work", task.Category)
	assert.Equal(t, "high", task.Priority)
	assert.True(t, task.IsComplete)
	require.NotNil(t, task.DueDate)
	assert.Equal(t, "2024-01-10", task.DueDate.Format("2006-01-02"))
	assert.Equal(t, "data:image/png;base64,AAAA", task.Image)
}

func TestNormalizeNewTask_Coercions(t *testing.T) {
	task, err := normalizeNewTask(TaskInput{
		"title":      "t",
		"userId":     "a@x.io",
		"category":   "   ",
		"priority":   "urgent",
		"isComplete": "yes",
		"dueDate":    "not a date",
	})
	require.NoError(t, err)

	assert.Equal(t, "General", task.Category)
	assert.Equal(t, "medium", task.Priority)
	assert.False(t, task.IsComplete)
	assert.Nil(t, task.DueDate)
}

func TestNormalizeNewTask_Validation(t *testing.T) {
	tests := []struct {
		name string
		in   TaskInput
		msg  string
	}{
		{name: "no title", in: TaskInput{"userId": "a@x.io"}, msg: "Title is required"},
		{name: "blank title", in: TaskInput{"title": "   ", "userId": "a@x.io"}, msg: "Title is required"},
		{name: "numeric title", in: TaskInput{"title": float64(5), "userId": "a@x.io"}, msg: "Title is required"},
		{name: "no user", in: TaskInput{"title": "t"}, msg: "userId is required"},
		{name: "empty user", in: TaskInput{"title": "t", "userId": ""}, msg: "userId is required"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := normalizeNewTask(tt.in)
			require.True(t, IsValidation(err))
			assert.Equal(t, tt.msg, err.Error())
		})
	}
}

func TestNormalizeTaskUpdate(t *testing.T) {
	t.Run("only recognised fields", func(t *testing.T) {
		updates := normalizeTaskUpdate(TaskInput{"title": " New ", "userId": "evil@x.io", "id": "x"})
		assert.Equal(t, map[string]interface{}{"title": "New"}, updates)
	})

	t.Run("name is a title alias", func(t *testing.T) {
		assert.Equal(t, map[string]interface{}{"title": "Renamed"}, normalizeTaskUpdate(TaskInput{"name": " Renamed "}))
		assert.Equal(t, "Kept", normalizeTaskUpdate(TaskInput{"title": "Kept", "name": "Other"})["title"])
		assert.Equal(t, "Alias", normalizeTaskUpdate(TaskInput{"title": "", "name": "Alias"})["title"])
	})

	t.Run("blank title is ignored", func(t *testing.T) {
		assert.Empty(t, normalizeTaskUpdate(TaskInput{"title": "  "}))
	})

	t.Run("blank category falls back", func(t *testing.T) {
		assert.Equal(t, "General", normalizeTaskUpdate(TaskInput{"category": " "})["category"])
	})

	t.Run("invalid priority coerced", func(t *testing.T) {
		assert.Equal(t, "medium", normalizeTaskUpdate(TaskInput{"priority": "urgent"})["priority"])
	})

	t.Run("isComplete only when boolean", func(t *testing.T) {
		assert.Equal(t, true, normalizeTaskUpdate(TaskInput{"isComplete": true})["is_complete"])
		assert.NotContains(t, normalizeTaskUpdate(TaskInput{"isComplete": "true"}), "is_complete")
	})

	t.Run("empty dueDate clears", func(t *testing.T) {
		for _, v := range []interface{}{nil, ""} {
			updates := normalizeTaskUpdate(TaskInput{"dueDate": v})
			require.Contains(t, updates, "due_date")
			assert.Nil(t, updates["due_date"])
		}
	})

	t.Run("omitted dueDate untouched", func(t *testing.T) {
		assert.NotContains(t, normalizeTaskUpdate(TaskInput{"title": "x"}), "due_date")
	})

	t.Run("unparseable dueDate ignored", func(t *testing.T) {
		assert.NotContains(t, normalizeTaskUpdate(TaskInput{"dueDate": "soon"}), "due_date")
	})

	t.Run("image may be cleared", func(t *testing.T) {
		assert.Equal(t, "", normalizeTaskUpdate(TaskInput{"image": ""})["image"])
	})
}
