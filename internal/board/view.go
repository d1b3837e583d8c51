// Package board holds the client side of the task board: the grouped view
// model, the filter predicate, streak tracking and the controller that keeps
// the view and the server in step.
package board

import (
	"github.com/varshaaa-v/Web-Technology-Project/internal/dto"
)

// Group is one column of the board. CategoryID is nil for an orphan group,
// synthesized for tasks whose category name has no category record.
type Group struct {
	CategoryID *string    `json:"categoryId"`
	Name       string     `json:"name"`
	Tasks      []dto.Task `json:"tasks"`
}

func (g Group) IsOrphan() bool {
	return g.CategoryID == nil
}

// View is the ordered board. Task order inside a group and group order are
// local only; a reload rebuilds both from server order.
type View struct {
	Groups []Group `json:"groups"`
}

// BuildView groups tasks under categories by name. Categories keep their
// given order; orphan groups follow in order of first appearance.
func BuildView(categories []dto.Category, tasks []dto.Task) View {
	v := View{Groups: make([]Group, 0, len(categories))}
	for _, cat := range categories {
		id := cat.ID
		v.Groups = append(v.Groups, Group{CategoryID: &id, Name: cat.Name, Tasks: []dto.Task{}})
	}
	for _, t := range tasks {
		gi := v.groupIndex(t.Category)
		if gi < 0 {
			v.Groups = append(v.Groups, Group{Name: t.Category, Tasks: []dto.Task{}})
			gi = len(v.Groups) - 1
		}
		v.Groups[gi].Tasks = append(v.Groups[gi].Tasks, t)
	}
	return v
}

// Clone returns a deep copy safe to hand out of the controller.
func (v View) Clone() View {
	out := View{Groups: make([]Group, len(v.Groups))}
	for i, g := range v.Groups {
		cp := g
		if g.CategoryID != nil {
			id := *g.CategoryID
			cp.CategoryID = &id
		}
		cp.Tasks = make([]dto.Task, len(g.Tasks))
		for j, t := range g.Tasks {
			cp.Tasks[j] = cloneTask(t)
		}
		out.Groups[i] = cp
	}
	return out
}

func cloneTask(t dto.Task) dto.Task {
	if t.DueDate != nil {
		d := *t.DueDate
		t.DueDate = &d
	}
	return t
}

// TaskCount is the number of tasks across all groups.
func (v View) TaskCount() int {
	n := 0
	for _, g := range v.Groups {
		n += len(g.Tasks)
	}
	return n
}

// groupIndex returns the first group with the given name, or -1.
func (v *View) groupIndex(name string) int {
	for i, g := range v.Groups {
		if g.Name == name {
			return i
		}
	}
	return -1
}

func (v *View) categoryIndex(id string) int {
	for i, g := range v.Groups {
		if g.CategoryID != nil && *g.CategoryID == id {
			return i
		}
	}
	return -1
}

// FindTask locates a task by id.
func (v *View) FindTask(id string) (gi, ti int, ok bool) {
	for gi, g := range v.Groups {
		for ti, t := range g.Tasks {
			if t.ID == id {
				return gi, ti, true
			}
		}
	}
	return -1, -1, false
}

// insertTask puts t at the top of its category's group, synthesizing an
// orphan group when needed.
func (v *View) insertTask(t dto.Task) {
	gi := v.groupIndex(t.Category)
	if gi < 0 {
		v.Groups = append(v.Groups, Group{Name: t.Category})
		gi = len(v.Groups) - 1
	}
	v.Groups[gi].Tasks = append([]dto.Task{t}, v.Groups[gi].Tasks...)
}

func (v *View) removeTask(id string) (dto.Task, bool) {
	gi, ti, ok := v.FindTask(id)
	if !ok {
		return dto.Task{}, false
	}
	t := v.Groups[gi].Tasks[ti]
	v.Groups[gi].Tasks = append(v.Groups[gi].Tasks[:ti], v.Groups[gi].Tasks[ti+1:]...)
	return t, true
}

// replaceTask swaps in t, moving it when its category changed.
func (v *View) replaceTask(t dto.Task) bool {
	gi, ti, ok := v.FindTask(t.ID)
	if !ok {
		return false
	}
	if v.Groups[gi].Name == t.Category {
		v.Groups[gi].Tasks[ti] = t
		return true
	}
	v.removeTask(t.ID)
	v.insertTask(t)
	return true
}

// renameTaskID rewrites a task id in place, used once a temporary id is
// confirmed by the server.
func (v *View) renameTaskID(from, to string) {
	if gi, ti, ok := v.FindTask(from); ok {
		v.Groups[gi].Tasks[ti].ID = to
	}
}

// MoveGroup reorders groups locally.
func (v *View) MoveGroup(from, to int) bool {
	if !inRange(from, len(v.Groups)) || !inRange(to, len(v.Groups)) {
		return false
	}
	v.Groups = move(v.Groups, from, to)
	return true
}

// MoveTask reorders tasks inside one group locally.
func (v *View) MoveTask(group, from, to int) bool {
	if !inRange(group, len(v.Groups)) {
		return false
	}
	tasks := v.Groups[group].Tasks
	if !inRange(from, len(tasks)) || !inRange(to, len(tasks)) {
		return false
	}
	v.Groups[group].Tasks = move(tasks, from, to)
	return true
}

func inRange(i, n int) bool {
	return i >= 0 && i < n
}

func move[T any](s []T, from, to int) []T {
	item := s[from]
	s = append(s[:from], s[from+1:]...)
	s = append(s[:to], append([]T{item}, s[to:]...)...)
	return s
}
