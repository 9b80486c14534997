package api

import (
	"context"
	"time"

	"taskboard-api/domain"
)

func pastTime() time.Time { return time.Now().Add(-24 * time.Hour) }

// mockStore implements Storage for handler tests. Each operation
// returns the configured value/error pair and records the arguments it
// was called with.
type mockStore struct {
	pingErr error

	userByEmail    domain.User
	userByEmailErr error
	userByID       domain.User
	userByIDErr    error
	createdUser    domain.User
	createUserErr  error
	updatedUser    domain.User
	updateUserErr  error
	boardErr       error

	insertedTask  domain.Task
	insertErr     error
	task          domain.Task
	taskErr       error
	listed        []domain.ListedTask
	listErr       error
	updatedTask   domain.Task
	updateTaskErr error
	deleteErr     error
	createdTasks  []domain.Task
	assignedTasks []domain.Task
	tasksErr      error

	lastCreatedName  string
	lastCreatedEmail string
	lastCreatedHash  string
	lastUserUpdate   domain.UserUpdate
	lastBoardUser    string
	lastBoardEmail   string

	lastInsert     domain.Task
	lastTaskID     string
	lastFrom       time.Time
	lastTo         time.Time
	lastPatch      domain.TaskPatch
	lastPatchID    string
	lastPatchUser  string
	lastPatchEmail string
	lastDeleteID   string
	lastDeleteUser string
}

func (m *mockStore) Ping(_ context.Context) error { return m.pingErr }

func (m *mockStore) CreateUser(_ context.Context, name, email, passwordHash string) (domain.User, error) {
	m.lastCreatedName = name
	m.lastCreatedEmail = email
	m.lastCreatedHash = passwordHash
	return m.createdUser, m.createUserErr
}

func (m *mockStore) UserByEmail(_ context.Context, email string) (domain.User, error) {
	return m.userByEmail, m.userByEmailErr
}

func (m *mockStore) UserByID(_ context.Context, id string) (domain.User, error) {
	return m.userByID, m.userByIDErr
}

func (m *mockStore) UpdateUser(_ context.Context, id string, upd domain.UserUpdate) (domain.User, error) {
	m.lastUserUpdate = upd
	return m.updatedUser, m.updateUserErr
}

func (m *mockStore) AddBoardEmail(_ context.Context, id, email string) error {
	m.lastBoardUser = id
	m.lastBoardEmail = email
	return m.boardErr
}

func (m *mockStore) InsertTask(_ context.Context, t domain.Task) (domain.Task, error) {
	m.lastInsert = t
	return m.insertedTask, m.insertErr
}

func (m *mockStore) TaskByID(_ context.Context, id string) (domain.Task, error) {
	m.lastTaskID = id
	return m.task, m.taskErr
}

func (m *mockStore) TasksInWindow(_ context.Context, userID, email string, from, to time.Time) ([]domain.ListedTask, error) {
	m.lastFrom = from
	m.lastTo = to
	return m.listed, m.listErr
}

func (m *mockStore) UpdateTask(_ context.Context, id, userID, email string, patch domain.TaskPatch) (domain.Task, error) {
	m.lastPatchID = id
	m.lastPatchUser = userID
	m.lastPatchEmail = email
	m.lastPatch = patch
	return m.updatedTask, m.updateTaskErr
}

func (m *mockStore) DeleteTask(_ context.Context, id, userID string) error {
	m.lastDeleteID = id
	m.lastDeleteUser = userID
	return m.deleteErr
}

func (m *mockStore) TasksCreatedBy(_ context.Context, userID string) ([]domain.Task, error) {
	return m.createdTasks, m.tasksErr
}

func (m *mockStore) TasksAssignedTo(_ context.Context, email string) ([]domain.Task, error) {
	return m.assignedTasks, m.tasksErr
}
