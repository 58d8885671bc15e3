package service

import (
	"context"
	"time"

	"github.com/ArtemSydun/KIT-GLOBAL/domain"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v4"
)

// TaskService is the single entry point for task mutations. Every write
// happens twice: first against the tasks collection, then against the
// owning project's embedded mirror. The two writes are not atomic; the
// task write always commits first, so after a failure in between the
// tasks collection is ahead of the mirror, never behind it. Callers see
// such failures and may retry the whole operation against current state.
type TaskService struct {
	prService *ProjectService
	taskRepo  domain.TaskRepository
}

func NewTaskService(prService *ProjectService, taskRepo domain.TaskRepository) *TaskService {
	return &TaskService{
		prService: prService,
		taskRepo:  taskRepo,
	}
}

func (s *TaskService) FindTaskByID(ctx context.Context, id string) (*domain.Task, error) {
	task, err := s.taskRepo.GetByID(ctx, id)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, &domain.NotFoundError{Resource: "Task", Key: id}
		}
		return nil, err
	}
	return task, nil
}

func (s *TaskService) FindTaskInProjectByName(ctx context.Context, projectID string, name string) (*domain.Task, error) {
	task, err := s.taskRepo.GetByProjectAndName(ctx, projectID, name)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, &domain.NotFoundError{Resource: "Task", Key: name}
		}
		return nil, err
	}
	return task, nil
}

func (s *TaskService) FindAllTasks(ctx context.Context, query *domain.TaskQuery) ([]domain.Task, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}
	return s.taskRepo.GetAllFiltered(ctx, query)
}

// CreateTask adds a task to an existing project. Uniqueness of the name
// within the project is checked against the mirror, which is assumed
// current at this point.
func (s *TaskService) CreateTask(ctx context.Context, projectID string, name string, status string, dateTo *time.Time) (*domain.Task, error) {
	project, err := s.prService.FindProjectByID(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if mirrorIndex(project.Tasks, name) >= 0 {
		return nil, &domain.ConflictError{Resource: "Task", Name: name, Scope: project.Name}
	}
	if status == "" {
		status = domain.TASK_STATUS_NEW
	} else if !domain.ValidTaskStatus(status) {
		return nil, &domain.ValidationError{Field: "status", Value: status}
	}
	task := &domain.Task{
		ID:        uuid.NewString(),
		ProjectID: project.ID,
		Name:      name,
		Status:    status,
		DateTo:    dateTo,
	}
	if err := s.taskRepo.Insert(ctx, task); err != nil {
		return nil, err
	}
	if err := s.prService.AddTaskToProject(ctx, project.ID, task.Mirror()); err != nil {
		return nil, err
	}
	return task, nil
}

// UpdateTaskByID applies a partial update to the task record, then
// rewrites the matching mirror entry, located by the pre-update name.
func (s *TaskService) UpdateTaskByID(ctx context.Context, id string, update *domain.TaskUpdate) (*domain.Task, error) {
	task, err := s.FindTaskByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if update.Name != nil && *update.Name != task.Name {
		existing, err := s.taskRepo.GetByProjectAndName(ctx, task.ProjectID, *update.Name)
		if err != nil && err != pgx.ErrNoRows {
			return nil, err
		}
		if existing != nil {
			return nil, &domain.ConflictError{Resource: "Task", Name: *update.Name, Scope: task.ProjectID}
		}
	}
	if update.Status != nil && !domain.ValidTaskStatus(*update.Status) {
		return nil, &domain.ValidationError{Field: "status", Value: *update.Status}
	}
	updated, err := s.taskRepo.Update(ctx, task.ID, update)
	if err != nil {
		return nil, err
	}
	if err := s.prService.UpdateProjectTask(ctx, task.ProjectID, task.Name, updated); err != nil {
		return nil, err
	}
	return updated, nil
}

// RemoveTaskByID deletes the task record, then its mirror entry.
func (s *TaskService) RemoveTaskByID(ctx context.Context, id string) error {
	task, err := s.FindTaskByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.taskRepo.Delete(ctx, task.ID); err != nil {
		return err
	}
	return s.prService.RemoveTaskFromProject(ctx, task.ProjectID, task.Name)
}
