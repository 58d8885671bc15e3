package service

import (
	"context"
	"log"

	"github.com/ArtemSydun/KIT-GLOBAL/domain"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v4"
)

// ProjectService owns the projects collection and the embedded task
// mirror inside each project document. Mirror entries are the only place
// task data is duplicated; all rewrites of the sequence go through the
// primitives below so the tasks collection stays the source of truth.
type ProjectService struct {
	prRepo   domain.ProjectRepository
	taskRepo domain.TaskRepository
	prCache  domain.ProjectCache
}

func NewProjectService(prRepo domain.ProjectRepository, taskRepo domain.TaskRepository, prCache domain.ProjectCache) *ProjectService {
	return &ProjectService{
		prRepo:   prRepo,
		taskRepo: taskRepo,
		prCache:  prCache,
	}
}

// invalidate drops the cached project view. Cache failures are not
// fatal: the entry expires on its own and the loop worker refreshes it.
func (s *ProjectService) invalidate(ctx context.Context, projectID string) {
	if err := s.prCache.Delete(ctx, projectID); err != nil {
		log.Println("failed to invalidate project cache:", projectID, err)
	}
}

func (s *ProjectService) FindProjectByID(ctx context.Context, id string) (*domain.Project, error) {
	project, err := s.prRepo.GetByID(ctx, id)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, &domain.NotFoundError{Resource: "Project", Key: id}
		}
		return nil, err
	}
	return project, nil
}

func (s *ProjectService) FindAllProjects(ctx context.Context) ([]domain.Project, error) {
	return s.prRepo.GetAll(ctx)
}

func (s *ProjectService) CreateProject(ctx context.Context, name string) (*domain.Project, error) {
	exists, err := s.prRepo.ExistsByName(ctx, name)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, &domain.ConflictError{Resource: "Project", Name: name}
	}
	project := &domain.Project{
		ID:    uuid.NewString(),
		Name:  name,
		Tasks: make([]domain.TaskMirror, 0),
	}
	if err := s.prRepo.Insert(ctx, project); err != nil {
		return nil, err
	}
	return project, nil
}

func (s *ProjectService) UpdateProjectByID(ctx context.Context, id string, name string) (*domain.Project, error) {
	project, err := s.FindProjectByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if name != project.Name {
		exists, err := s.prRepo.ExistsByName(ctx, name)
		if err != nil {
			return nil, err
		}
		if exists {
			return nil, &domain.ConflictError{Resource: "Project", Name: name}
		}
	}
	updated, err := s.prRepo.Update(ctx, project.ID, &domain.ProjectUpdate{Name: &name})
	if err != nil {
		return nil, err
	}
	s.invalidate(ctx, project.ID)
	return updated, nil
}

// RemoveProject deletes a project and every task that belongs to it.
// Tasks are purged first: a crash in between leaves orphaned task rows,
// which the loop worker can detect, instead of a project whose mirror
// points at nothing.
func (s *ProjectService) RemoveProject(ctx context.Context, id string) error {
	project, err := s.FindProjectByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.taskRepo.DeleteAllByProjectID(ctx, project.ID); err != nil {
		return err
	}
	if err := s.prRepo.Delete(ctx, project.ID); err != nil {
		return err
	}
	s.invalidate(ctx, project.ID)
	return nil
}

// AddTaskToProject appends a mirror entry to the project's sequence.
func (s *ProjectService) AddTaskToProject(ctx context.Context, projectID string, mirror domain.TaskMirror) error {
	project, err := s.FindProjectByID(ctx, projectID)
	if err != nil {
		return err
	}
	tasks := append(project.Tasks, mirror)
	if _, err := s.prRepo.Update(ctx, project.ID, &domain.ProjectUpdate{Tasks: &tasks}); err != nil {
		return err
	}
	s.invalidate(ctx, project.ID)
	return nil
}

// UpdateProjectTask replaces the mirror entry matching oldName with the
// projection of task. Matching is exact and first-match-wins. A missing
// entry means the mirror had already drifted from the tasks collection.
func (s *ProjectService) UpdateProjectTask(ctx context.Context, projectID string, oldName string, task *domain.Task) error {
	project, err := s.FindProjectByID(ctx, projectID)
	if err != nil {
		return err
	}
	index := mirrorIndex(project.Tasks, oldName)
	if index < 0 {
		return &domain.InvariantError{ProjectID: projectID, TaskName: oldName}
	}
	tasks := make([]domain.TaskMirror, len(project.Tasks))
	copy(tasks, project.Tasks)
	tasks[index] = task.Mirror()
	if _, err := s.prRepo.Update(ctx, project.ID, &domain.ProjectUpdate{Tasks: &tasks}); err != nil {
		return err
	}
	s.invalidate(ctx, project.ID)
	return nil
}

// RemoveTaskFromProject drops the first mirror entry matching name. An
// already-absent entry is logged as drift but not an error: the task row
// is gone and the desired end state holds.
func (s *ProjectService) RemoveTaskFromProject(ctx context.Context, projectID string, name string) error {
	project, err := s.FindProjectByID(ctx, projectID)
	if err != nil {
		return err
	}
	index := mirrorIndex(project.Tasks, name)
	if index < 0 {
		log.Println("mirror already missing entry:", name, "in project:", projectID)
		return nil
	}
	tasks := make([]domain.TaskMirror, 0, len(project.Tasks)-1)
	tasks = append(tasks, project.Tasks[:index]...)
	tasks = append(tasks, project.Tasks[index+1:]...)
	if _, err := s.prRepo.Update(ctx, project.ID, &domain.ProjectUpdate{Tasks: &tasks}); err != nil {
		return err
	}
	s.invalidate(ctx, project.ID)
	return nil
}

// RebuildProjectMirror recomputes the mirror from the tasks collection,
// ordered by creation time. This is the reconciliation path for the
// window where a task write committed but the mirror write did not.
func (s *ProjectService) RebuildProjectMirror(ctx context.Context, projectID string) (*domain.Project, error) {
	project, err := s.FindProjectByID(ctx, projectID)
	if err != nil {
		return nil, err
	}
	taskList, err := s.taskRepo.GetAllFiltered(ctx, &domain.TaskQuery{
		ProjectID: project.ID,
		SortBy:    "createdAt",
		SortOrder: "asc",
	})
	if err != nil {
		return nil, err
	}
	tasks := make([]domain.TaskMirror, 0, len(taskList))
	for i := range taskList {
		tasks = append(tasks, taskList[i].Mirror())
	}
	updated, err := s.prRepo.Update(ctx, project.ID, &domain.ProjectUpdate{Tasks: &tasks})
	if err != nil {
		return nil, err
	}
	s.invalidate(ctx, project.ID)
	return updated, nil
}

func mirrorIndex(tasks []domain.TaskMirror, name string) int {
	for i := range tasks {
		if tasks[i].Name == name {
			return i
		}
	}
	return -1
}
