package pg

import (
	"context"
	"fmt"
	"strings"

	"github.com/ArtemSydun/KIT-GLOBAL/domain"
	"github.com/jackc/pgtype"
	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"
)

type ProjectPostgresRepository struct {
	pool *pgxpool.Pool
}

func CreateProjectTable() string {
	return `CREATE TABLE IF NOT EXISTS projects
(
	id VARCHAR(36) NOT NULL PRIMARY KEY,
	name VARCHAR(200) NOT NULL UNIQUE,
	tasks JSONB NOT NULL DEFAULT '[]'::JSONB,
	created_at TIMESTAMP WITH TIME ZONE DEFAULT CURRENT_TIMESTAMP,
	updated_at TIMESTAMP WITH TIME ZONE DEFAULT CURRENT_TIMESTAMP
);`
}

func scanProject(row pgx.Row) (*domain.Project, error) {
	project := domain.Project{}
	var tasks pgtype.JSONB
	if err := row.Scan(&project.ID, &project.Name, &tasks, &project.CreatedAt, &project.UpdatedAt); err != nil {
		return nil, err
	}
	project.Tasks = make([]domain.TaskMirror, 0)
	if err := tasks.AssignTo(&project.Tasks); err != nil {
		return nil, err
	}
	return &project, nil
}

func (pr *ProjectPostgresRepository) GetByID(ctx context.Context, id string) (*domain.Project, error) {
	row := pr.pool.QueryRow(ctx, "SELECT id, name, tasks, created_at, updated_at FROM projects WHERE id = $1", id)
	return scanProject(row)
}

func (pr *ProjectPostgresRepository) GetAll(ctx context.Context) ([]domain.Project, error) {
	rows, err := pr.pool.Query(ctx, "SELECT id, name, tasks, created_at, updated_at FROM projects ORDER BY created_at DESC")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	ret := make([]domain.Project, 0)
	for rows.Next() {
		project, err := scanProject(rows)
		if err != nil {
			return nil, err
		}
		ret = append(ret, *project)
	}
	return ret, rows.Err()
}

func (pr *ProjectPostgresRepository) ExistsByName(ctx context.Context, name string) (bool, error) {
	var exists bool
	row := pr.pool.QueryRow(ctx, "SELECT EXISTS (SELECT 1 FROM projects WHERE name = $1)", name)
	if err := row.Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

func (pr *ProjectPostgresRepository) Insert(ctx context.Context, project *domain.Project) error {
	tasks := &pgtype.JSONB{}
	if err := tasks.Set(project.Tasks); err != nil {
		return err
	}
	row := pr.pool.QueryRow(
		ctx,
		"INSERT INTO projects (id, name, tasks) VALUES ($1, $2, $3) RETURNING created_at, updated_at",
		project.ID,
		project.Name,
		tasks,
	)
	return row.Scan(&project.CreatedAt, &project.UpdatedAt)
}

func (pr *ProjectPostgresRepository) Update(ctx context.Context, id string, update *domain.ProjectUpdate) (*domain.Project, error) {
	set := []string{"updated_at = CURRENT_TIMESTAMP"}
	args := make([]interface{}, 0, 3)
	if update.Name != nil {
		args = append(args, *update.Name)
		set = append(set, fmt.Sprintf("name = $%d", len(args)))
	}
	if update.Tasks != nil {
		tasks := &pgtype.JSONB{}
		if err := tasks.Set(*update.Tasks); err != nil {
			return nil, err
		}
		args = append(args, tasks)
		set = append(set, fmt.Sprintf("tasks = $%d", len(args)))
	}
	args = append(args, id)
	row := pr.pool.QueryRow(
		ctx,
		fmt.Sprintf(
			"UPDATE projects SET %s WHERE id = $%d RETURNING id, name, tasks, created_at, updated_at",
			strings.Join(set, ", "),
			len(args),
		),
		args...,
	)
	return scanProject(row)
}

func (pr *ProjectPostgresRepository) Delete(ctx context.Context, id string) error {
	result, err := pr.pool.Exec(ctx, "DELETE FROM projects WHERE id = $1", id)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func NewProjectPostgresRepository(pool *pgxpool.Pool) *ProjectPostgresRepository {
	return &ProjectPostgresRepository{
		pool: pool,
	}
}
