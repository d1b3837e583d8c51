package board

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/varshaaa-v/Web-Technology-Project/internal/dto"
	"github.com/varshaaa-v/Web-Technology-Project/internal/models"
	"golang.org/x/sync/errgroup"
)

var (
	ErrNotSignedIn      = errors.New("sign in first")
	ErrTitleRequired    = errors.New("task title is required")
	ErrNameRequired     = errors.New("category name is required")
	ErrInvalidDueDate   = errors.New("due date must be YYYY-MM-DD")
	ErrTaskNotFound     = errors.New("task not found on the board")
	ErrCategoryNotFound = errors.New("category not found on the board")
	ErrOutOfRange       = errors.New("position out of range")
)

type NoticeKind string

const (
	NoticeError NoticeKind = "error"
	NoticeKudos NoticeKind = "kudos"
	NoticeInfo  NoticeKind = "info"
)

const kudosMessage = "Ahead of schedule, nice work!"

// Notice is a transient message for the user. It never blocks the board.
type Notice struct {
	Kind    NoticeKind
	Message string
}

type Option func(*Controller)

// WithClock sets the source of "today".
func WithClock(now func() time.Time) Option {
	return func(c *Controller) { c.now = now }
}

func WithNotifier(fn func(Notice)) Option {
	return func(c *Controller) { c.notify = fn }
}

func WithLogger(l *slog.Logger) Option {
	return func(c *Controller) { c.logger = l }
}

// WithTimeout bounds each remote mutation.
func WithTimeout(d time.Duration) Option {
	return func(c *Controller) { c.timeout = d }
}

// Controller owns the board state. Local changes apply immediately; the
// matching server calls go through a FIFO queue served by one goroutine.
type Controller struct {
	api     API
	store   LocalStore
	now     func() time.Time
	notify  func(Notice)
	logger  *slog.Logger
	timeout time.Duration

	mu       sync.Mutex
	idle     *sync.Cond
	state    State
	ids      map[string]string
	queue    []*mutation
	active   int
	nextSeq  int
	nextTemp int
	closed   bool

	wake   chan struct{}
	ctx    context.Context
	cancel context.CancelFunc
	done   chan struct{}
}

func NewController(api API, store LocalStore, opts ...Option) *Controller {
	ctx, cancel := context.WithCancel(context.Background())
	c := &Controller{
		api:     api,
		store:   store,
		now:     time.Now,
		notify:  func(Notice) {},
		logger:  slog.Default(),
		timeout: 30 * time.Second,
		state:   State{Filter: FilterAll},
		ids:     make(map[string]string),
		wake:    make(chan struct{}, 1),
		ctx:     ctx,
		cancel:  cancel,
		done:    make(chan struct{}),
	}
	c.idle = sync.NewCond(&c.mu)
	for _, opt := range opts {
		opt(c)
	}
	c.logger = c.logger.With("component", "board")

	go c.worker()
	return c
}

// Close waits for queued calls and stops the worker.
func (c *Controller) Close() {
	c.Flush()
	c.mu.Lock()
	c.closed = true
	c.idle.Broadcast()
	c.mu.Unlock()
	c.cancel()
	<-c.done
}

// Start restores the remembered identity. With one, the board screen is
// entered and loaded; without one, the sign-in screen is shown.
func (c *Controller) Start(ctx context.Context) error {
	id, err := c.store.LoadIdentity()
	if err != nil {
		c.logger.Warn("failed to load remembered identity", "error", err)
		id = nil
	}

	c.mu.Lock()
	c.state = State{Screen: ScreenUnauthenticated, Filter: FilterAll}
	if id != nil && id.UserID != "" {
		c.state.Identity = id
		c.state.Screen = ScreenBoard
		c.api.SetSession(id.AccessToken, id.RefreshToken)
	}
	c.loadProfileLocked()
	onBoard := c.state.Screen == ScreenBoard
	c.mu.Unlock()

	if onBoard {
		return c.Reload(ctx)
	}
	return nil
}

func (c *Controller) Register(ctx context.Context, name, email, password string) error {
	resp, err := c.api.Register(ctx, name, email, password)
	if err != nil {
		return err
	}
	return c.enterBoard(ctx, resp)
}

func (c *Controller) Login(ctx context.Context, email, password string) error {
	resp, err := c.api.Login(ctx, email, password)
	if err != nil {
		return err
	}
	return c.enterBoard(ctx, resp)
}

func (c *Controller) enterBoard(ctx context.Context, resp *dto.AuthResponse) error {
	id := Identity{
		UserID:       resp.ID,
		Name:         resp.Name,
		Email:        resp.Email,
		AccessToken:  resp.AccessToken,
		RefreshToken: resp.RefreshToken,
	}
	c.api.SetSession(id.AccessToken, id.RefreshToken)
	if err := c.store.SaveIdentity(id); err != nil {
		c.logger.Warn("failed to remember identity", "error", err)
	}

	c.mu.Lock()
	c.state.Identity = &id
	c.state.Screen = ScreenBoard
	c.state.View = View{}
	c.state.Filter = FilterAll
	c.state.Query = ""
	c.loadProfileLocked()
	c.mu.Unlock()

	return c.Reload(ctx)
}

// Logout forgets the identity locally. Server data is untouched.
func (c *Controller) Logout(ctx context.Context) error {
	c.Flush()

	c.mu.Lock()
	id := c.state.Identity
	c.state = State{Screen: ScreenUnauthenticated, Filter: FilterAll}
	c.ids = make(map[string]string)
	c.loadProfileLocked()
	c.mu.Unlock()

	if id != nil && id.RefreshToken != "" {
		if err := c.api.Logout(ctx, id.RefreshToken); err != nil {
			c.logger.Warn("server logout failed", "error", err)
		}
	}
	c.api.SetSession("", "")
	return c.store.ClearIdentity()
}

// SessionRefreshed stores a rotated token pair.
func (c *Controller) SessionRefreshed(accessToken, refreshToken string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state.Identity == nil {
		return
	}
	c.state.Identity.AccessToken = accessToken
	c.state.Identity.RefreshToken = refreshToken
	if err := c.store.SaveIdentity(*c.state.Identity); err != nil {
		c.logger.Warn("failed to remember refreshed session", "error", err)
	}
}

// Reload waits for queued calls, fetches categories and tasks concurrently
// and rebuilds the view. Failed queue entries are dropped.
func (c *Controller) Reload(ctx context.Context) error {
	c.Flush()

	c.mu.Lock()
	if c.state.Screen != ScreenBoard || c.state.Identity == nil {
		c.mu.Unlock()
		return ErrNotSignedIn
	}
	userID := c.state.Identity.UserID
	c.mu.Unlock()

	var (
		categories []dto.Category
		tasks      []dto.Task
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		categories, err = c.api.ListCategories(gctx, userID)
		return err
	})
	g.Go(func() error {
		var err error
		tasks, err = c.api.ListTasks(gctx, userID)
		return err
	})
	if err := g.Wait(); err != nil {
		c.logger.Warn("board reload failed", "error", err)
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.state.View = BuildView(categories, tasks)
	kept := c.state.Pending[:0]
	for _, p := range c.state.Pending {
		if !p.Failed {
			kept = append(kept, p)
		}
	}
	c.state.Pending = kept
	if c.active == 0 {
		c.ids = make(map[string]string)
	}
	return nil
}

// Snapshot returns a copy of the current state.
func (c *Controller) Snapshot() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.clone()
}

// Frame renders the current state for today.
func (c *Controller) Frame() Frame {
	c.mu.Lock()
	defer c.mu.Unlock()
	return Render(c.state.clone(), c.todayLocked())
}

func (c *Controller) todayLocked() string {
	return c.now().Format(dto.DateLayout)
}

func (c *Controller) requireBoardLocked() error {
	if c.state.Screen != ScreenBoard || c.state.Identity == nil {
		return ErrNotSignedIn
	}
	return nil
}

// TaskDraft is the user's input for a new task.
type TaskDraft struct {
	Title    string
	Category string
	Priority string
	DueDate  string
	Image    string
}

// AddTask shows the task at once under a temporary id and queues its
// creation. The returned id is the temporary one.
func (c *Controller) AddTask(d TaskDraft) (string, error) {
	title := strings.TrimSpace(d.Title)
	if title == "" {
		return "", ErrTitleRequired
	}
	due, err := normalizeDueDate(d.DueDate)
	if err != nil {
		return "", err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.requireBoardLocked(); err != nil {
		return "", err
	}

	category := strings.TrimSpace(d.Category)
	if category == "" {
		category = models.DefaultCategory
	}
	priority := d.Priority
	if !models.IsValidPriority(priority) {
		priority = models.PriorityMedium
	}

	now := c.now()
	tempID := c.newTempIDLocked()
	task := dto.Task{
		ID:        tempID,
		Title:     title,
		Category:  category,
		Priority:  priority,
		UserID:    c.state.Identity.UserID,
		DueDate:   due,
		Image:     d.Image,
		CreatedAt: now,
		UpdatedAt: now,
	}
	c.state.View.insertTask(task)

	req := dto.CreateTaskRequest{
		Title:    title,
		UserID:   task.UserID,
		Category: category,
		Priority: priority,
		DueDate:  due,
		Image:    d.Image,
	}
	c.enqueueLocked(fmt.Sprintf("add task %q", title), func(ctx context.Context) error {
		created, err := c.api.CreateTask(ctx, req)

		c.mu.Lock()
		defer c.mu.Unlock()
		if err != nil {
			c.ids[tempID] = ""
			return err
		}
		c.ids[tempID] = created.ID
		c.state.View.renameTaskID(tempID, created.ID)
		return nil
	})
	return tempID, nil
}

// TaskEdit holds the fields to change; nil means unchanged. An empty DueDate
// clears it.
type TaskEdit struct {
	Title    *string
	Category *string
	Priority *string
	DueDate  *string
	Image    *string
}

func (c *Controller) EditTask(id string, e TaskEdit) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.requireBoardLocked(); err != nil {
		return err
	}

	gi, ti, ok := c.state.View.FindTask(id)
	if !ok {
		return ErrTaskNotFound
	}
	task := cloneTask(c.state.View.Groups[gi].Tasks[ti])
	patch := dto.TaskPatch{}

	if e.Title != nil {
		title := strings.TrimSpace(*e.Title)
		if title == "" {
			return ErrTitleRequired
		}
		task.Title = title
		patch["title"] = title
	}
	if e.Category != nil {
		category := strings.TrimSpace(*e.Category)
		if category == "" {
			category = models.DefaultCategory
		}
		task.Category = category
		patch["category"] = category
	}
	if e.Priority != nil {
		priority := *e.Priority
		if !models.IsValidPriority(priority) {
			priority = models.PriorityMedium
		}
		task.Priority = priority
		patch["priority"] = priority
	}
	if e.DueDate != nil {
		due, err := normalizeDueDate(*e.DueDate)
		if err != nil {
			return err
		}
		task.DueDate = due
		if due == nil {
			patch["dueDate"] = nil
		} else {
			patch["dueDate"] = *due
		}
	}
	if e.Image != nil {
		task.Image = *e.Image
		patch["image"] = *e.Image
	}
	if len(patch) == 0 {
		return nil
	}

	task.UpdatedAt = c.now()
	c.state.View.replaceTask(task)
	c.enqueueUpdateLocked(fmt.Sprintf("update task %q", task.Title), id, patch)
	return nil
}

func (c *Controller) enqueueUpdateLocked(label, id string, patch dto.TaskPatch) {
	c.enqueueLocked(label, func(ctx context.Context) error {
		serverID, err := c.resolveID(id)
		if err != nil {
			return err
		}
		_, err = c.api.UpdateTask(ctx, serverID, patch)
		return err
	})
}

// ToggleComplete flips a task. Completing one counts toward the streak and
// earns kudos when the task was due after today.
func (c *Controller) ToggleComplete(id string) error {
	var notices []Notice

	c.mu.Lock()
	if err := c.requireBoardLocked(); err != nil {
		c.mu.Unlock()
		return err
	}
	gi, ti, ok := c.state.View.FindTask(id)
	if !ok {
		c.mu.Unlock()
		return ErrTaskNotFound
	}

	task := &c.state.View.Groups[gi].Tasks[ti]
	task.IsComplete = !task.IsComplete
	task.UpdatedAt = c.now()
	if task.IsComplete {
		today := c.todayLocked()
		c.recordStreakLocked(today)
		if dueAfter(*task, today) {
			notices = append(notices, Notice{Kind: NoticeKudos, Message: kudosMessage})
		}
	}
	c.enqueueUpdateLocked(fmt.Sprintf("update task %q", task.Title), id, dto.TaskPatch{"isComplete": task.IsComplete})
	c.mu.Unlock()

	c.emit(notices)
	return nil
}

// CompleteAll completes every open task and returns how many changed. Kudos
// is shown at most once for the batch.
func (c *Controller) CompleteAll() (int, error) {
	var notices []Notice

	c.mu.Lock()
	if err := c.requireBoardLocked(); err != nil {
		c.mu.Unlock()
		return 0, err
	}

	today := c.todayLocked()
	changed := 0
	kudos := false
	for gi := range c.state.View.Groups {
		for ti := range c.state.View.Groups[gi].Tasks {
			task := &c.state.View.Groups[gi].Tasks[ti]
			if task.IsComplete {
				continue
			}
			task.IsComplete = true
			task.UpdatedAt = c.now()
			changed++
			kudos = kudos || dueAfter(*task, today)
			c.enqueueUpdateLocked(fmt.Sprintf("complete task %q", task.Title), task.ID, dto.TaskPatch{"isComplete": true})
		}
	}
	if changed > 0 {
		c.recordStreakLocked(today)
	}
	if kudos {
		notices = append(notices, Notice{Kind: NoticeKudos, Message: kudosMessage})
	}
	c.mu.Unlock()

	c.emit(notices)
	return changed, nil
}

func (c *Controller) DeleteTask(id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.requireBoardLocked(); err != nil {
		return err
	}

	task, ok := c.state.View.removeTask(id)
	if !ok {
		return ErrTaskNotFound
	}
	c.enqueueDeleteTaskLocked(task)
	return nil
}

func (c *Controller) enqueueDeleteTaskLocked(task dto.Task) {
	id := task.ID
	c.enqueueLocked(fmt.Sprintf("delete task %q", task.Title), func(ctx context.Context) error {
		serverID, err := c.resolveID(id)
		if errors.Is(err, ErrNotSynced) {
			// never created, nothing to delete
			return nil
		}
		if err != nil {
			return err
		}
		return c.api.DeleteTask(ctx, serverID)
	})
}

// AddCategory adds an empty group, or adopts the orphan group of the same
// name, and queues the category's creation.
func (c *Controller) AddCategory(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return ErrNameRequired
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.requireBoardLocked(); err != nil {
		return err
	}

	tempID := c.newTempIDLocked()
	if gi := c.state.View.groupIndex(name); gi >= 0 && c.state.View.Groups[gi].IsOrphan() {
		c.state.View.Groups[gi].CategoryID = &tempID
	} else {
		id := tempID
		c.state.View.Groups = append(c.state.View.Groups, Group{CategoryID: &id, Name: name, Tasks: []dto.Task{}})
	}

	userID := c.state.Identity.UserID
	c.enqueueLocked(fmt.Sprintf("add category %q", name), func(ctx context.Context) error {
		created, err := c.api.CreateCategory(ctx, name, userID)

		c.mu.Lock()
		defer c.mu.Unlock()
		if err != nil {
			c.ids[tempID] = ""
			return err
		}
		c.ids[tempID] = created.ID
		if gi := c.state.View.categoryIndex(tempID); gi >= 0 {
			id := created.ID
			c.state.View.Groups[gi].CategoryID = &id
		}
		return nil
	})
	return nil
}

// DeleteCategory removes the first group with the given name. For a real
// category the server cascade is mirrored locally: every task filed under
// that name goes. An orphan group has no record, so its tasks are deleted
// one by one.
func (c *Controller) DeleteCategory(name string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.requireBoardLocked(); err != nil {
		return err
	}

	gi := c.state.View.groupIndex(name)
	if gi < 0 {
		return ErrCategoryNotFound
	}
	group := c.state.View.Groups[gi]
	c.state.View.Groups = append(c.state.View.Groups[:gi], c.state.View.Groups[gi+1:]...)

	if group.IsOrphan() {
		for _, t := range group.Tasks {
			c.enqueueDeleteTaskLocked(t)
		}
		return nil
	}

	for i := range c.state.View.Groups {
		kept := c.state.View.Groups[i].Tasks[:0]
		for _, t := range c.state.View.Groups[i].Tasks {
			if t.Category != name {
				kept = append(kept, t)
			}
		}
		c.state.View.Groups[i].Tasks = kept
	}

	categoryID := *group.CategoryID
	c.enqueueLocked(fmt.Sprintf("delete category %q", name), func(ctx context.Context) error {
		serverID, err := c.resolveID(categoryID)
		if errors.Is(err, ErrNotSynced) {
			return nil
		}
		if err != nil {
			return err
		}
		return c.api.DeleteCategory(ctx, serverID)
	})
	return nil
}

// MoveCategory reorders groups. The order is local and lost on reload.
func (c *Controller) MoveCategory(from, to int) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.state.View.MoveGroup(from, to) {
		return ErrOutOfRange
	}
	return nil
}

// MoveTask reorders tasks inside a group. The order is local and lost on
// reload.
func (c *Controller) MoveTask(group, from, to int) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.state.View.MoveTask(group, from, to) {
		return ErrOutOfRange
	}
	return nil
}

func (c *Controller) SetFilter(f Filter) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state.Filter = f
}

func (c *Controller) SetSearch(query string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state.Query = query
}

// SetTheme switches and remembers the theme for the current identity.
func (c *Controller) SetTheme(theme string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state.Theme = theme
	return c.saveProfileLocked()
}

func (c *Controller) recordStreakLocked(today string) {
	next, changed := c.state.Streak.Record(today)
	if !changed {
		return
	}
	c.state.Streak = next
	if err := c.saveProfileLocked(); err != nil {
		c.logger.Warn("failed to save streak", "error", err)
	}
}

func (c *Controller) loadProfileLocked() {
	p, err := c.store.LoadProfile(c.state.profileKey())
	if err != nil {
		c.logger.Warn("failed to load local profile", "key", c.state.profileKey(), "error", err)
	}
	c.state.Streak = p.Streak
	c.state.Theme = p.Theme
}

func (c *Controller) saveProfileLocked() error {
	return c.store.SaveProfile(c.state.profileKey(), Profile{Streak: c.state.Streak, Theme: c.state.Theme})
}

func (c *Controller) emit(notices []Notice) {
	for _, n := range notices {
		c.notify(n)
	}
}

func dueAfter(t dto.Task, today string) bool {
	return t.HasDueDate() && *t.DueDate > today
}

// normalizeDueDate accepts YYYY-MM-DD or an empty string, which means none.
func normalizeDueDate(s string) (*string, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	d, err := time.Parse(dto.DateLayout, s)
	if err != nil {
		return nil, ErrInvalidDueDate
	}
	out := d.Format(dto.DateLayout)
	return &out, nil
}
