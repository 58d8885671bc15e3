package pg

import (
	"context"
	"fmt"
	"strings"

	"github.com/ArtemSydun/KIT-GLOBAL/domain"
	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"
)

const taskColumns = "id, project_id, name, status, date_to, created_at, updated_at"

type TaskPostgresRepository struct {
	pool *pgxpool.Pool
}

func CreateTaskTable() string {
	return `CREATE TABLE IF NOT EXISTS tasks
(
	id VARCHAR(36) NOT NULL PRIMARY KEY,
	project_id VARCHAR(36) NOT NULL,
	name VARCHAR(200) NOT NULL,
	status VARCHAR(20) NOT NULL DEFAULT 'NEW' CHECK (status IN ('NEW', 'IN_PROGRESS', 'COMPLETED', 'CANCELED')),
	date_to TIMESTAMP WITH TIME ZONE,
	created_at TIMESTAMP WITH TIME ZONE DEFAULT CURRENT_TIMESTAMP,
	updated_at TIMESTAMP WITH TIME ZONE DEFAULT CURRENT_TIMESTAMP,
	UNIQUE (project_id, name)
);`
}

func scanTask(row pgx.Row) (*domain.Task, error) {
	task := domain.Task{}
	if err := row.Scan(&task.ID, &task.ProjectID, &task.Name, &task.Status, &task.DateTo, &task.CreatedAt, &task.UpdatedAt); err != nil {
		return nil, err
	}
	return &task, nil
}

func (tr *TaskPostgresRepository) GetByID(ctx context.Context, id string) (*domain.Task, error) {
	row := tr.pool.QueryRow(ctx, "SELECT "+taskColumns+" FROM tasks WHERE id = $1", id)
	return scanTask(row)
}

func (tr *TaskPostgresRepository) GetByProjectAndName(ctx context.Context, projectID string, name string) (*domain.Task, error) {
	row := tr.pool.QueryRow(ctx, "SELECT "+taskColumns+" FROM tasks WHERE project_id = $1 AND name = $2", projectID, name)
	return scanTask(row)
}

func (tr *TaskPostgresRepository) GetAllFiltered(ctx context.Context, query *domain.TaskQuery) ([]domain.Task, error) {
	q := "SELECT " + taskColumns + " FROM tasks"
	where, args := query.WhereClause()
	if where != "" {
		q += " WHERE " + where
	}
	q += " ORDER BY " + query.OrderByClause()
	rows, err := tr.pool.Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	ret := make([]domain.Task, 0)
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		ret = append(ret, *task)
	}
	return ret, rows.Err()
}

func (tr *TaskPostgresRepository) ExistsByName(ctx context.Context, name string) (bool, error) {
	var exists bool
	row := tr.pool.QueryRow(ctx, "SELECT EXISTS (SELECT 1 FROM tasks WHERE name = $1)", name)
	if err := row.Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

func (tr *TaskPostgresRepository) Insert(ctx context.Context, task *domain.Task) error {
	row := tr.pool.QueryRow(
		ctx,
		"INSERT INTO tasks (id, project_id, name, status, date_to) VALUES ($1, $2, $3, $4, $5) RETURNING created_at, updated_at",
		task.ID,
		task.ProjectID,
		task.Name,
		task.Status,
		task.DateTo,
	)
	return row.Scan(&task.CreatedAt, &task.UpdatedAt)
}

func (tr *TaskPostgresRepository) Update(ctx context.Context, id string, update *domain.TaskUpdate) (*domain.Task, error) {
	set := []string{"updated_at = CURRENT_TIMESTAMP"}
	args := make([]interface{}, 0, 4)
	if update.Name != nil {
		args = append(args, *update.Name)
		set = append(set, fmt.Sprintf("name = $%d", len(args)))
	}
	if update.Status != nil {
		args = append(args, *update.Status)
		set = append(set, fmt.Sprintf("status = $%d", len(args)))
	}
	if update.DateTo != nil {
		args = append(args, *update.DateTo)
		set = append(set, fmt.Sprintf("date_to = $%d", len(args)))
	}
	args = append(args, id)
	row := tr.pool.QueryRow(
		ctx,
		fmt.Sprintf(
			"UPDATE tasks SET %s WHERE id = $%d RETURNING %s",
			strings.Join(set, ", "),
			len(args),
			taskColumns,
		),
		args...,
	)
	return scanTask(row)
}

func (tr *TaskPostgresRepository) Delete(ctx context.Context, id string) error {
	result, err := tr.pool.Exec(ctx, "DELETE FROM tasks WHERE id = $1", id)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (tr *TaskPostgresRepository) DeleteAllByProjectID(ctx context.Context, projectID string) error {
	_, err := tr.pool.Exec(ctx, "DELETE FROM tasks WHERE project_id = $1", projectID)
	return err
}

func NewTaskPostgresRepository(pool *pgxpool.Pool) *TaskPostgresRepository {
	return &TaskPostgresRepository{
		pool: pool,
	}
}
