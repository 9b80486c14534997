package api

import (
	"context"
	"time"

	"taskboard-api/domain"
)

// Storage abstracts persistence for handlers.
type Storage interface {
	Ping(ctx context.Context) error

	CreateUser(ctx context.Context, name, email, passwordHash string) (domain.User, error)
	UserByEmail(ctx context.Context, email string) (domain.User, error)
	UserByID(ctx context.Context, id string) (domain.User, error)
	UpdateUser(ctx context.Context, id string, upd domain.UserUpdate) (domain.User, error)
	AddBoardEmail(ctx context.Context, id, email string) error

	InsertTask(ctx context.Context, t domain.Task) (domain.Task, error)
	TaskByID(ctx context.Context, id string) (domain.Task, error)
	TasksInWindow(ctx context.Context, userID, email string, from, to time.Time) ([]domain.ListedTask, error)
	UpdateTask(ctx context.Context, id, userID, email string, patch domain.TaskPatch) (domain.Task, error)
	DeleteTask(ctx context.Context, id, userID string) error
	TasksCreatedBy(ctx context.Context, userID string) ([]domain.Task, error)
	TasksAssignedTo(ctx context.Context, email string) ([]domain.Task, error)
}

// Authenticator issues and verifies session tokens.
type Authenticator interface {
	Issue(id, email string) (string, error)
	Verify(token string) (domain.Identity, error)
}

// envelope is the response body shared by most endpoints.
type envelope struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
	Data    any    `json:"data,omitempty"`
	Token   string `json:"token,omitempty"`
}

// userData is the public projection of a user returned after auth
// operations.
type userData struct {
	ID    string   `json:"id"`
	Name  string   `json:"name"`
	Email string   `json:"email"`
	Board []string `json:"board,omitempty"`
}
