package service

// Todo is a task record as stored by the backend.
type Todo struct {
	ID        int64   `json:"id"`
	Task      string  `json:"task"`
	Assignee  *string `json:"assignee"`
	Creator   *string `json:"creator"`
	Completed bool    `json:"completed"`
}

// Input returns the editable fields of t.
func (t Todo) Input() TodoInput {
	return TodoInput{
		Task:      t.Task,
		Assignee:  deref(t.Assignee),
		Creator:   deref(t.Creator),
		Completed: t.Completed,
	}
}

// TodoInput holds the user-editable fields of a task.
// Empty text fields are sent to the backend as null.
type TodoInput struct {
	Task      string `json:"task" validate:"required"`
	Assignee  string `json:"assignee"`
	Creator   string `json:"creator"`
	Completed bool   `json:"completed"`
}

// Credentials are the login form fields.
type Credentials struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// Action names a task operation, used for error reporting.
type Action string

const (
	ActionFetch  Action = "fetch"
	ActionAdd    Action = "add"
	ActionUpdate Action = "update"
	ActionDelete Action = "delete"
)

// Failure returns the user-facing prefix for a failed action.
func (a Action) Failure() string {
	switch a {
	case ActionFetch:
		return "failed to fetch tasks"
	case ActionAdd:
		return "failed to add task"
	case ActionUpdate:
		return "failed to update task"
	case ActionDelete:
		return "failed to delete task"
	default:
		return "request failed"
	}
}

// FallbackMessage is shown when the backend gives no usable error message.
func (a Action) FallbackMessage() string {
	switch a {
	case ActionFetch:
		return "could not load the task list, please try again later"
	case ActionAdd:
		return "please check the input or try again later"
	default:
		return "please try again later"
	}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
