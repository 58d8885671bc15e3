package domain

import (
	"context"
	"time"
)

const (
	TASK_STATUS_NEW         = "NEW"
	TASK_STATUS_IN_PROGRESS = "IN_PROGRESS"
	TASK_STATUS_COMPLETED   = "COMPLETED"
	TASK_STATUS_CANCELED    = "CANCELED"
)

func ValidTaskStatus(status string) bool {
	switch status {
	case TASK_STATUS_NEW, TASK_STATUS_IN_PROGRESS, TASK_STATUS_COMPLETED, TASK_STATUS_CANCELED:
		return true
	}
	return false
}

type Task struct {
	ID        string     `json:"id"`
	ProjectID string     `json:"projectId"`
	Name      string     `json:"name"`
	Status    string     `json:"status"`
	DateTo    *time.Time `json:"dateTo,omitempty"`
	CreatedAt *time.Time `json:"createdAt,omitempty"`
	UpdatedAt *time.Time `json:"updatedAt,omitempty"`
}

// Mirror projects the task onto its embedded representation.
func (t *Task) Mirror() TaskMirror {
	return TaskMirror{
		Name:   t.Name,
		Status: t.Status,
		DateTo: t.DateTo,
	}
}

// TaskUpdate is a partial update: nil fields are left untouched.
type TaskUpdate struct {
	Name   *string
	Status *string
	DateTo *time.Time
}

// TaskQuery filters and sorts task listings. Zero-value filter fields mean
// no constraint on that field.
type TaskQuery struct {
	Status    string
	ProjectID string
	SortBy    string // "createdAt" or "name"
	SortOrder string // "asc" or "desc"
}

func (q *TaskQuery) Validate() error {
	if q.Status != "" && !ValidTaskStatus(q.Status) {
		return &ValidationError{Field: "status", Value: q.Status}
	}
	switch q.SortBy {
	case "", "createdAt", "name":
	default:
		return &ValidationError{Field: "sortBy", Value: q.SortBy}
	}
	switch q.SortOrder {
	case "", "asc", "desc":
	default:
		return &ValidationError{Field: "sortOrder", Value: q.SortOrder}
	}
	return nil
}

// WhereClause returns the SQL conditions for the query along with their
// positional arguments. An empty string means no filtering.
func (q *TaskQuery) WhereClause() (string, []interface{}) {
	clause := ""
	args := make([]interface{}, 0, 2)
	if q.Status != "" {
		args = append(args, q.Status)
		clause = "status = $1"
	}
	if q.ProjectID != "" {
		args = append(args, q.ProjectID)
		if clause != "" {
			clause += " AND project_id = $2"
		} else {
			clause = "project_id = $1"
		}
	}
	return clause, args
}

// OrderByClause returns the SQL ordering for the query.
// Default is created_at descending.
func (q *TaskQuery) OrderByClause() string {
	field := "created_at"
	if q.SortBy == "name" {
		field = "name"
	}
	direction := "DESC"
	if q.SortOrder == "asc" {
		direction = "ASC"
	}
	return field + " " + direction
}

type TaskRepository interface {
	GetByID(ctx context.Context, id string) (*Task, error)
	GetByProjectAndName(ctx context.Context, projectID string, name string) (*Task, error)
	GetAllFiltered(ctx context.Context, query *TaskQuery) ([]Task, error)
	ExistsByName(ctx context.Context, name string) (bool, error)
	Insert(ctx context.Context, task *Task) error
	Update(ctx context.Context, id string, update *TaskUpdate) (*Task, error)
	Delete(ctx context.Context, id string) error
	DeleteAllByProjectID(ctx context.Context, projectID string) error
}
