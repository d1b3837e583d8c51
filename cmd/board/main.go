// Package main is a command-line client for the task board.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/varshaaa-v/Web-Technology-Project/internal/board"
	"github.com/varshaaa-v/Web-Technology-Project/internal/client"
)

func usage() {
	fmt.Println("Usage:")
	fmt.Println("  board register <name> <email> <password>")
	fmt.Println("  board login <email> <password>")
	fmt.Println("  board logout")
	fmt.Println("  board show [filter] [search...]        - filter: all|pending|completed|overdue|current|high")
	fmt.Println("  board add <title> [category] [priority] [YYYY-MM-DD]")
	fmt.Println("  board edit <task_id> key=value...      - keys: title, category, priority, due, image")
	fmt.Println("  board done <task_id>")
	fmt.Println("  board undo <task_id>")
	fmt.Println("  board rm <task_id>")
	fmt.Println("  board complete-all")
	fmt.Println("  board cat-add <name>")
	fmt.Println("  board cat-rename <category_id> <name>")
	fmt.Println("  board cat-rm <name>")
	fmt.Println("  board theme <name>")
	fmt.Println("  board streak")
	fmt.Println("  board health")
}

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}
	_ = godotenv.Load()

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
	slog.SetDefault(logger)

	statePath := os.Getenv("TASKBOARD_STATE")
	if statePath == "" {
		var err error
		if statePath, err = client.DefaultStatePath(); err != nil {
			fatal("Failed to locate state file: %v", err)
		}
	}
	baseURL := os.Getenv("TASKBOARD_URL")
	if baseURL == "" {
		baseURL = "http://localhost:5000"
	}

	api := client.New(baseURL, client.WithLogger(logger))
	ctrl := board.NewController(api, client.NewFileStore(statePath),
		board.WithLogger(logger),
		board.WithNotifier(printNotice),
	)
	api.OnRefresh(ctrl.SessionRefreshed)

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	err := run(ctx, ctrl, api, os.Args[1], os.Args[2:])
	ctrl.Close()
	cancel()
	if err != nil {
		fatal("%v", err)
	}
}

func run(ctx context.Context, ctrl *board.Controller, api *client.Client, command string, args []string) error {
	switch command {
	case "register":
		if len(args) < 3 {
			return usageErr("register <name> <email> <password>")
		}
		if err := ctrl.Register(ctx, args[0], args[1], args[2]); err != nil {
			return err
		}
		fmt.Printf("Signed in as %s\n", ctrl.Snapshot().Identity.Email)
		return nil

	case "login":
		if len(args) < 2 {
			return usageErr("login <email> <password>")
		}
		if err := ctrl.Login(ctx, args[0], args[1]); err != nil {
			return err
		}
		fmt.Printf("Signed in as %s\n", ctrl.Snapshot().Identity.Email)
		return nil

	case "health":
		h, err := api.Health(ctx)
		if err != nil {
			return err
		}
		fmt.Printf("status=%s db=%s at %s\n", h.Status, h.DB, h.Timestamp)
		return nil
	}

	if err := ctrl.Start(ctx); err != nil {
		return err
	}

	switch command {
	case "logout":
		if err := ctrl.Logout(ctx); err != nil {
			return err
		}
		fmt.Println("Signed out")
		return nil

	case "streak":
		s := ctrl.Snapshot().Streak
		fmt.Printf("Current streak %d, best %d (last %s)\n", s.Current, s.Best, orDash(s.LastDate))
		return nil

	case "theme":
		if len(args) < 1 {
			fmt.Println(orDash(ctrl.Snapshot().Theme))
			return nil
		}
		return ctrl.SetTheme(args[0])
	}

	if ctrl.Snapshot().Screen != board.ScreenBoard {
		return board.ErrNotSignedIn
	}

	switch command {
	case "show":
		if len(args) > 0 {
			if f, ok := board.ParseFilter(args[0]); ok {
				ctrl.SetFilter(f)
				args = args[1:]
			}
		}
		ctrl.SetSearch(strings.Join(args, " "))
		return board.WriteText(os.Stdout, ctrl.Frame())

	case "add":
		if len(args) < 1 {
			return usageErr("add <title> [category] [priority] [YYYY-MM-DD]")
		}
		draft := board.TaskDraft{Title: args[0]}
		if len(args) > 1 {
			draft.Category = args[1]
		}
		if len(args) > 2 {
			draft.Priority = args[2]
		}
		if len(args) > 3 {
			draft.DueDate = args[3]
		}
		_, err := ctrl.AddTask(draft)
		return err

	case "edit":
		if len(args) < 2 {
			return usageErr("edit <task_id> key=value...")
		}
		edit, err := parseEdit(args[1:])
		if err != nil {
			return err
		}
		return ctrl.EditTask(args[0], edit)

	case "done", "undo":
		if len(args) < 1 {
			return usageErr(command + " <task_id>")
		}
		return setComplete(ctrl, args[0], command == "done")

	case "rm":
		if len(args) < 1 {
			return usageErr("rm <task_id>")
		}
		return ctrl.DeleteTask(args[0])

	case "complete-all":
		n, err := ctrl.CompleteAll()
		if err != nil {
			return err
		}
		fmt.Printf("Completed %d task(s)\n", n)
		return nil

	case "cat-add":
		if len(args) < 1 {
			return usageErr("cat-add <name>")
		}
		return ctrl.AddCategory(strings.Join(args, " "))

	case "cat-rename":
		if len(args) < 2 {
			return usageErr("cat-rename <category_id> <name>")
		}
		c, err := api.RenameCategory(ctx, args[0], strings.Join(args[1:], " "))
		if err != nil {
			return err
		}
		fmt.Printf("Renamed category to %s\n", c.Name)
		return nil

	case "cat-rm":
		if len(args) < 1 {
			return usageErr("cat-rm <name>")
		}
		return ctrl.DeleteCategory(strings.Join(args, " "))

	default:
		usage()
		return fmt.Errorf("unknown command: %s", command)
	}
}

// setComplete toggles the task only when it is not already in the wanted
// state.
func setComplete(ctrl *board.Controller, id string, complete bool) error {
	s := ctrl.Snapshot()
	gi, ti, ok := s.View.FindTask(id)
	if !ok {
		return board.ErrTaskNotFound
	}
	if s.View.Groups[gi].Tasks[ti].IsComplete == complete {
		return nil
	}
	return ctrl.ToggleComplete(id)
}

func parseEdit(pairs []string) (board.TaskEdit, error) {
	var e board.TaskEdit
	for _, pair := range pairs {
		key, value, ok := strings.Cut(pair, "=")
		if !ok {
			return e, fmt.Errorf("expected key=value, got %q", pair)
		}
		v := value
		switch strings.ToLower(key) {
		case "title":
			e.Title = &v
		case "category":
			e.Category = &v
		case "priority":
			e.Priority = &v
		case "due":
			e.DueDate = &v
		case "image":
			e.Image = &v
		default:
			return e, fmt.Errorf("unknown field %q", key)
		}
	}
	return e, nil
}

func printNotice(n board.Notice) {
	fmt.Fprintf(os.Stderr, "[%s] %s\n", n.Kind, n.Message)
}

func usageErr(form string) error {
	return fmt.Errorf("usage: board %s", form)
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func fatal(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}
