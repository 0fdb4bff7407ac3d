package commands

import (
	"errors"
	"fmt"
	"strconv"
)

// ErrIDRequired indicates no task ID was provided.
var ErrIDRequired = errors.New("task id required")

// ParseTodoID parses the single task ID argument.
// IDs are the backend's positive integers as shown by list.
func ParseTodoID(args []string) (int64, error) {
	if len(args) == 0 {
		return 0, ErrIDRequired
	}
	if len(args) > 1 {
		return 0, fmt.Errorf("unexpected argument: %s", args[1])
	}

	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil || id < 1 {
		return 0, fmt.Errorf("invalid task id: %s", args[0])
	}
	return id, nil
}
