package board

import (
	"context"

	"github.com/varshaaa-v/Web-Technology-Project/internal/dto"
)

type Screen int

const (
	ScreenUnauthenticated Screen = iota
	ScreenBoard
)

func (s Screen) String() string {
	if s == ScreenBoard {
		return "board"
	}
	return "unauthenticated"
}

// GuestKey is the local profile key used while nobody is signed in.
const GuestKey = "guest"

// Identity is the remembered sign-in. The password is never kept.
type Identity struct {
	UserID       string `json:"userId"`
	Name         string `json:"name"`
	Email        string `json:"email"`
	AccessToken  string `json:"accessToken,omitempty"`
	RefreshToken string `json:"refreshToken,omitempty"`
}

// Profile is the per-identity local state.
type Profile struct {
	Streak Streak `json:"streak"`
	Theme  string `json:"theme,omitempty"`
}

// PendingMutation is a queued remote call. Failed entries stay visible until
// the next reload.
type PendingMutation struct {
	Seq    int    `json:"seq"`
	Label  string `json:"label"`
	Failed bool   `json:"failed"`
	Err    string `json:"error,omitempty"`
}

// State is everything the board owns. The controller holds the only live
// copy; callers get clones.
type State struct {
	Screen   Screen
	Identity *Identity
	View     View
	Filter   Filter
	Query    string
	Streak   Streak
	Theme    string
	Pending  []PendingMutation
}

func (s State) profileKey() string {
	if s.Identity == nil || s.Identity.UserID == "" {
		return GuestKey
	}
	return s.Identity.UserID
}

func (s State) clone() State {
	out := s
	out.View = s.View.Clone()
	if s.Identity != nil {
		id := *s.Identity
		out.Identity = &id
	}
	out.Pending = append([]PendingMutation(nil), s.Pending...)
	return out
}

// API is the server surface the controller needs.
type API interface {
	Register(ctx context.Context, name, email, password string) (*dto.AuthResponse, error)
	Login(ctx context.Context, email, password string) (*dto.AuthResponse, error)
	Logout(ctx context.Context, refreshToken string) error
	SetSession(accessToken, refreshToken string)

	ListCategories(ctx context.Context, userID string) ([]dto.Category, error)
	CreateCategory(ctx context.Context, name, userID string) (*dto.Category, error)
	DeleteCategory(ctx context.Context, id string) error

	ListTasks(ctx context.Context, userID string) ([]dto.Task, error)
	CreateTask(ctx context.Context, req dto.CreateTaskRequest) (*dto.Task, error)
	UpdateTask(ctx context.Context, id string, patch dto.TaskPatch) (*dto.Task, error)
	DeleteTask(ctx context.Context, id string) error
}

// LocalStore persists the remembered identity and per-identity profiles.
type LocalStore interface {
	LoadIdentity() (*Identity, error)
	SaveIdentity(id Identity) error
	ClearIdentity() error
	LoadProfile(key string) (Profile, error)
	SaveProfile(key string, p Profile) error
}
