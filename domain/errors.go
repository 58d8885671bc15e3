package domain

import "fmt"

// NotFoundError reports an absent project or task. Caller-facing.
type NotFoundError struct {
	Resource string // "Project" or "Task"
	Key      string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s does not exist", e.Resource, e.Key)
}

// ConflictError reports a name collision: a project name taken globally, or
// a task name taken within its project. Caller-facing.
type ConflictError struct {
	Resource string
	Name     string
	Scope    string // owning project name for task collisions, empty otherwise
}

func (e *ConflictError) Error() string {
	if e.Scope != "" {
		return fmt.Sprintf("%s %s already exists in project %s", e.Resource, e.Name, e.Scope)
	}
	return fmt.Sprintf("%s %s already exists", e.Resource, e.Name)
}

// InvariantError reports a mirror entry that should exist but does not.
// It means the tasks collection and the project's embedded mirror had
// already diverged before the current operation ran. Not caller-facing:
// log it and surface a generic failure.
type InvariantError struct {
	ProjectID string
	TaskName  string
}

func (e *InvariantError) Error() string {
	return fmt.Sprintf("no mirror entry for task %s in project %s", e.TaskName, e.ProjectID)
}

// ValidationError reports a request field outside its allowed set.
type ValidationError struct {
	Field string
	Value string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("bad %s: %s", e.Field, e.Value)
}
