// Package service defines the backend-agnostic interface for TODO operations.
package service

import (
	"context"
	"fmt"
)

// Service defines the interface for TODO backend operations.
// Commands never talk HTTP directly; all backend calls go through this interface.
type Service interface {
	// Login exchanges credentials for a bearer token.
	// It does not use or modify the stored session.
	Login(ctx context.Context, creds Credentials) (string, error)

	// ListTodos returns all tasks in backend order.
	ListTodos(ctx context.Context) ([]Todo, error)

	// AddTodo creates a new, not completed task.
	AddTodo(ctx context.Context, in TodoInput) error

	// UpdateTodo replaces the task with the given ID.
	UpdateTodo(ctx context.Context, id int64, in TodoInput) error

	// DeleteTodo deletes the task with the given ID.
	DeleteTodo(ctx context.Context, id int64) error
}

// FindTodo returns the task with the given ID from todos.
// Returns ErrNotFound if no task matches.
func FindTodo(todos []Todo, id int64) (Todo, error) {
	for _, t := range todos {
		if t.ID == id {
			return t, nil
		}
	}
	return Todo{}, fmt.Errorf("%w: %d", ErrNotFound, id)
}
