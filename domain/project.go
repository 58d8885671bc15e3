package domain

import (
	"context"
	"time"
)

// TaskMirror is the denormalized copy of a task embedded in its project.
// It carries display fields only; the authoritative record lives in the
// tasks collection and is matched to a mirror entry by name.
type TaskMirror struct {
	Name   string     `json:"name"`
	Status string     `json:"status"`
	DateTo *time.Time `json:"dateTo,omitempty"`
}

type Project struct {
	ID        string       `json:"id"`
	Name      string       `json:"name"`
	Tasks     []TaskMirror `json:"tasks"`
	CreatedAt *time.Time   `json:"createdAt,omitempty"`
	UpdatedAt *time.Time   `json:"updatedAt,omitempty"`
}

// ProjectUpdate is a partial update: nil fields are left untouched.
// Tasks replaces the whole mirror sequence in one write.
type ProjectUpdate struct {
	Name  *string
	Tasks *[]TaskMirror
}

type ProjectRepository interface {
	GetByID(ctx context.Context, id string) (*Project, error)
	GetAll(ctx context.Context) ([]Project, error)
	ExistsByName(ctx context.Context, name string) (bool, error)
	Insert(ctx context.Context, project *Project) error
	Update(ctx context.Context, id string, update *ProjectUpdate) (*Project, error)
	Delete(ctx context.Context, id string) error
}

type ProjectCache interface {
	GetByID(ctx context.Context, id string) (*Project, error)
	Update(ctx context.Context, project *Project) error
	Delete(ctx context.Context, id string) error
}
