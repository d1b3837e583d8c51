package board

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/varshaaa-v/Web-Technology-Project/internal/dto"
)

var errServer = errors.New("server unavailable")

// fakeAPI is an in-memory server. Calls are recorded in order.
type fakeAPI struct {
	mu         sync.Mutex
	categories []dto.Category
	tasks      []dto.Task
	calls      []string
	fail       map[string]error
	gate       chan struct{}
	nextID     int
	access     string
	refresh    string
}

func newFakeAPI() *fakeAPI {
	return &fakeAPI{fail: map[string]error{}}
}

func (f *fakeAPI) record(call string) error {
	f.mu.Lock()
	f.calls = append(f.calls, call)
	gate := f.gate
	err := f.fail[call]
	f.mu.Unlock()
	if gate != nil {
		<-gate
	}
	return err
}

func (f *fakeAPI) failOn(call string, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.fail[call] = err
}

func (f *fakeAPI) callLog() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

func (f *fakeAPI) id() string {
	f.nextID++
	return fmt.Sprintf("srv-%d", f.nextID)
}

func (f *fakeAPI) Register(_ context.Context, name, email, _ string) (*dto.AuthResponse, error) {
	if err := f.record("Register"); err != nil {
		return nil, err
	}
	return &dto.AuthResponse{ID: email, Name: name, Email: email, AccessToken: "access", RefreshToken: "refresh"}, nil
}

func (f *fakeAPI) Login(_ context.Context, email, _ string) (*dto.AuthResponse, error) {
	if err := f.record("Login"); err != nil {
		return nil, err
	}
	return &dto.AuthResponse{ID: email, Name: "Ada", Email: email, AccessToken: "access", RefreshToken: "refresh"}, nil
}

func (f *fakeAPI) Logout(context.Context, string) error {
	return f.record("Logout")
}

func (f *fakeAPI) SetSession(access, refresh string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.access, f.refresh = access, refresh
}

func (f *fakeAPI) ListCategories(context.Context, string) ([]dto.Category, error) {
	if err := f.record("ListCategories"); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]dto.Category(nil), f.categories...), nil
}

func (f *fakeAPI) CreateCategory(_ context.Context, name, userID string) (*dto.Category, error) {
	if err := f.record("CreateCategory"); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	c := dto.Category{ID: f.id(), Name: name, UserID: userID}
	f.categories = append(f.categories, c)
	return &c, nil
}

func (f *fakeAPI) DeleteCategory(_ context.Context, id string) error {
	if err := f.record("DeleteCategory " + id); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, c := range f.categories {
		if c.ID != id {
			continue
		}
		f.categories = append(f.categories[:i], f.categories[i+1:]...)
		kept := f.tasks[:0]
		for _, t := range f.tasks {
			if t.Category != c.Name {
				kept = append(kept, t)
			}
		}
		f.tasks = kept
		return nil
	}
	return errors.New("category not found")
}

func (f *fakeAPI) ListTasks(context.Context, string) ([]dto.Task, error) {
	if err := f.record("ListTasks"); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]dto.Task(nil), f.tasks...), nil
}

func (f *fakeAPI) CreateTask(_ context.Context, req dto.CreateTaskRequest) (*dto.Task, error) {
	if err := f.record("CreateTask"); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	t := dto.Task{ID: f.id(), Title: req.Title, Category: req.Category, Priority: req.Priority, UserID: req.UserID, DueDate: req.DueDate}
	f.tasks = append([]dto.Task{t}, f.tasks...)
	return &t, nil
}

func (f *fakeAPI) UpdateTask(_ context.Context, id string, patch dto.TaskPatch) (*dto.Task, error) {
	if err := f.record("UpdateTask " + id); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.tasks {
		if f.tasks[i].ID != id {
			continue
		}
		if v, ok := patch["isComplete"].(bool); ok {
			f.tasks[i].IsComplete = v
		}
		if v, ok := patch["title"].(string); ok {
			f.tasks[i].Title = v
		}
		if v, ok := patch["category"].(string); ok {
			f.tasks[i].Category = v
		}
		t := f.tasks[i]
		return &t, nil
	}
	return nil, errors.New("task not found")
}

func (f *fakeAPI) DeleteTask(_ context.Context, id string) error {
	if err := f.record("DeleteTask " + id); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, t := range f.tasks {
		if t.ID == id {
			f.tasks = append(f.tasks[:i], f.tasks[i+1:]...)
			return nil
		}
	}
	return errors.New("task not found")
}

// memStore is an in-memory LocalStore.
type memStore struct {
	mu       sync.Mutex
	identity *Identity
	profiles map[string]Profile
}

func newMemStore() *memStore {
	return &memStore{profiles: map[string]Profile{}}
}

func (s *memStore) LoadIdentity() (*Identity, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.identity == nil {
		return nil, nil
	}
	id := *s.identity
	return &id, nil
}

func (s *memStore) SaveIdentity(id Identity) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.identity = &id
	return nil
}

func (s *memStore) ClearIdentity() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.identity = nil
	return nil
}

func (s *memStore) LoadProfile(key string) (Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.profiles[key], nil
}

func (s *memStore) SaveProfile(key string, p Profile) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.profiles[key] = p
	return nil
}

// hold blocks every later call until the returned func is called.
func (f *fakeAPI) hold() func() {
	gate := make(chan struct{})
	f.mu.Lock()
	f.gate = gate
	f.mu.Unlock()
	return func() { close(gate) }
}
