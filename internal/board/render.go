package board

import (
	"fmt"
	"io"
	"strings"

	"github.com/varshaaa-v/Web-Technology-Project/internal/dto"
)

// RenderedTask is a task as drawn, with its date status precomputed.
type RenderedTask struct {
	dto.Task
	Overdue  bool `json:"overdue"`
	DueToday bool `json:"dueToday"`
}

type RenderedGroup struct {
	CategoryID *string        `json:"categoryId"`
	Name       string         `json:"name"`
	Orphan     bool           `json:"orphan"`
	Tasks      []RenderedTask `json:"tasks"`
	Hidden     int            `json:"hidden"`
}

// Frame is everything needed to draw the board once.
type Frame struct {
	Today     string          `json:"today"`
	Filter    Filter          `json:"filter"`
	Query     string          `json:"query"`
	Theme     string          `json:"theme"`
	Streak    Streak          `json:"streak"`
	Groups    []RenderedGroup `json:"groups"`
	Total     int             `json:"total"`
	Completed int             `json:"completed"`
	Visible   int             `json:"visible"`
}

// Render computes a frame from the state. It performs no I/O.
func Render(s State, today string) Frame {
	f := Frame{
		Today:  today,
		Filter: s.Filter,
		Query:  s.Query,
		Theme:  s.Theme,
		Streak: s.Streak,
		Groups: make([]RenderedGroup, 0, len(s.View.Groups)),
	}

	for _, g := range s.View.Groups {
		rg := RenderedGroup{
			CategoryID: g.CategoryID,
			Name:       g.Name,
			Orphan:     g.IsOrphan(),
			Tasks:      []RenderedTask{},
		}
		for _, t := range g.Tasks {
			f.Total++
			if t.IsComplete {
				f.Completed++
			}
			if !Visible(t, g.Name, today, s.Filter, s.Query) {
				rg.Hidden++
				continue
			}
			rg.Tasks = append(rg.Tasks, RenderedTask{
				Task:     t,
				Overdue:  FilterOverdue.Matches(t, today),
				DueToday: FilterCurrent.Matches(t, today),
			})
		}
		f.Visible += len(rg.Tasks)
		f.Groups = append(f.Groups, rg)
	}
	return f
}

// WriteText draws a frame as plain text.
func WriteText(w io.Writer, f Frame) error {
	var b strings.Builder

	fmt.Fprintf(&b, "%s  filter=%s", f.Today, f.Filter)
	if f.Query != "" {
		fmt.Fprintf(&b, " search=%q", f.Query)
	}
	fmt.Fprintf(&b, "  %d/%d done  streak %d (best %d)\n", f.Completed, f.Total, f.Streak.Current, f.Streak.Best)

	for gi, g := range f.Groups {
		name := g.Name
		if g.Orphan {
			name += " (no category)"
		}
		fmt.Fprintf(&b, "\n[%d] %s\n", gi, name)
		for ti, t := range g.Tasks {
			check := " "
			if t.IsComplete {
				check = "x"
			}
			fmt.Fprintf(&b, "  %d. [%s] %s  (%s)", ti, check, t.Title, t.Priority)
			if t.HasDueDate() {
				fmt.Fprintf(&b, "  due %s", *t.DueDate)
			}
			switch {
			case t.Overdue:
				b.WriteString("  OVERDUE")
			case t.DueToday:
				b.WriteString("  TODAY")
			}
			fmt.Fprintf(&b, "  #%s\n", t.ID)
		}
		if g.Hidden > 0 {
			fmt.Fprintf(&b, "  ... %d hidden\n", g.Hidden)
		}
	}

	_, err := io.WriteString(w, b.String())
	return err
}
