// Package testutil provides testing utilities.
package testutil

import (
	"context"
	"slices"
	"sync"

	"todoctl/internal/service"
)

// FakeService is an in-memory implementation of service.Service for testing.
type FakeService struct {
	mu       sync.RWMutex
	todos    []service.Todo
	users    map[string]string
	token    string
	calls    int
	lastAuth service.Credentials

	// Error injection for testing
	LoginErr  error
	ListErr   error
	AddErr    error
	UpdateErr error
	DeleteErr error
}

// NewFakeService creates a FakeService that accepts the given users and
// returns token on successful login.
func NewFakeService(users map[string]string, token string) *FakeService {
	if users == nil {
		users = make(map[string]string)
	}
	return &FakeService{users: users, token: token}
}

// Seed replaces the stored tasks.
func (f *FakeService) Seed(todos ...service.Todo) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.todos = slices.Clone(todos)
}

// Todos returns a copy of the stored tasks.
func (f *FakeService) Todos() []service.Todo {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return slices.Clone(f.todos)
}

// Calls returns the number of service calls made.
func (f *FakeService) Calls() int {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.calls
}

// LastCredentials returns the credentials of the most recent login.
func (f *FakeService) LastCredentials() service.Credentials {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.lastAuth
}

// Login implements service.Service.
func (f *FakeService) Login(ctx context.Context, creds service.Credentials) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	f.lastAuth = creds
	if f.LoginErr != nil {
		return "", f.LoginErr
	}
	if pw, ok := f.users[creds.Username]; !ok || pw != creds.Password {
		return "", &service.LoginError{Status: 401}
	}
	return f.token, nil
}

// ListTodos implements service.Service.
func (f *FakeService) ListTodos(ctx context.Context) ([]service.Todo, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.ListErr != nil {
		return nil, f.ListErr
	}
	return slices.Clone(f.todos), nil
}

// AddTodo implements service.Service.
func (f *FakeService) AddTodo(ctx context.Context, in service.TodoInput) error {
	if err := service.ValidateTodo(&in); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.AddErr != nil {
		return f.AddErr
	}

	var next int64
	for _, t := range f.todos {
		next = max(next, t.ID)
	}
	f.todos = append(f.todos, todoFromInput(next+1, in, false))
	return nil
}

// UpdateTodo implements service.Service.
func (f *FakeService) UpdateTodo(ctx context.Context, id int64, in service.TodoInput) error {
	service.NormalizeTodo(&in)
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.UpdateErr != nil {
		return f.UpdateErr
	}

	i := f.index(id)
	if i < 0 {
		return &service.RequestError{Action: service.ActionUpdate, Status: 404, Message: "todo not found"}
	}
	f.todos[i] = todoFromInput(id, in, in.Completed)
	return nil
}

// DeleteTodo implements service.Service.
func (f *FakeService) DeleteTodo(ctx context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.DeleteErr != nil {
		return f.DeleteErr
	}

	i := f.index(id)
	if i < 0 {
		return &service.RequestError{Action: service.ActionDelete, Status: 404, Message: "todo not found"}
	}
	f.todos = slices.Delete(f.todos, i, i+1)
	return nil
}

func (f *FakeService) index(id int64) int {
	return slices.IndexFunc(f.todos, func(t service.Todo) bool { return t.ID == id })
}

func todoFromInput(id int64, in service.TodoInput, completed bool) service.Todo {
	t := service.Todo{ID: id, Task: in.Task, Completed: completed}
	if in.Assignee != "" {
		a := in.Assignee
		t.Assignee = &a
	}
	if in.Creator != "" {
		c := in.Creator
		t.Creator = &c
	}
	return t
}
