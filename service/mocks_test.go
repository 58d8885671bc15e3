package service

import (
	"context"
	"time"

	"github.com/ArtemSydun/KIT-GLOBAL/domain"
	"github.com/jackc/pgx/v4"
)

type fakeProjectRepo struct {
	projects  map[string]*domain.Project
	updateErr error
}

func newFakeProjectRepo() *fakeProjectRepo {
	return &fakeProjectRepo{projects: make(map[string]*domain.Project)}
}

func cloneProject(p *domain.Project) *domain.Project {
	clone := *p
	clone.Tasks = make([]domain.TaskMirror, len(p.Tasks))
	copy(clone.Tasks, p.Tasks)
	return &clone
}

func (f *fakeProjectRepo) GetByID(ctx context.Context, id string) (*domain.Project, error) {
	p, ok := f.projects[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return cloneProject(p), nil
}

func (f *fakeProjectRepo) GetAll(ctx context.Context) ([]domain.Project, error) {
	ret := make([]domain.Project, 0, len(f.projects))
	for _, p := range f.projects {
		ret = append(ret, *cloneProject(p))
	}
	return ret, nil
}

func (f *fakeProjectRepo) ExistsByName(ctx context.Context, name string) (bool, error) {
	for _, p := range f.projects {
		if p.Name == name {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeProjectRepo) Insert(ctx context.Context, project *domain.Project) error {
	now := time.Now()
	project.CreatedAt = &now
	project.UpdatedAt = &now
	f.projects[project.ID] = cloneProject(project)
	return nil
}

func (f *fakeProjectRepo) Update(ctx context.Context, id string, update *domain.ProjectUpdate) (*domain.Project, error) {
	if f.updateErr != nil {
		return nil, f.updateErr
	}
	p, ok := f.projects[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	if update.Name != nil {
		p.Name = *update.Name
	}
	if update.Tasks != nil {
		p.Tasks = make([]domain.TaskMirror, len(*update.Tasks))
		copy(p.Tasks, *update.Tasks)
	}
	now := time.Now()
	p.UpdatedAt = &now
	return cloneProject(p), nil
}

func (f *fakeProjectRepo) Delete(ctx context.Context, id string) error {
	if _, ok := f.projects[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(f.projects, id)
	return nil
}

// corruptMirror overwrites a project's mirror directly, bypassing the
// engine, to simulate prior drift.
func (f *fakeProjectRepo) corruptMirror(id string, tasks []domain.TaskMirror) {
	f.projects[id].Tasks = tasks
}

type fakeTaskRepo struct {
	tasks map[string]*domain.Task
	clock time.Time
}

func newFakeTaskRepo() *fakeTaskRepo {
	return &fakeTaskRepo{
		tasks: make(map[string]*domain.Task),
		clock: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

func (f *fakeTaskRepo) tick() time.Time {
	f.clock = f.clock.Add(time.Second)
	return f.clock
}

func cloneTask(t *domain.Task) *domain.Task {
	clone := *t
	return &clone
}

func (f *fakeTaskRepo) GetByID(ctx context.Context, id string) (*domain.Task, error) {
	t, ok := f.tasks[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return cloneTask(t), nil
}

func (f *fakeTaskRepo) GetByProjectAndName(ctx context.Context, projectID string, name string) (*domain.Task, error) {
	for _, t := range f.tasks {
		if t.ProjectID == projectID && t.Name == name {
			return cloneTask(t), nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (f *fakeTaskRepo) GetAllFiltered(ctx context.Context, query *domain.TaskQuery) ([]domain.Task, error) {
	ret := make([]domain.Task, 0)
	for _, t := range f.tasks {
		if query.Status != "" && t.Status != query.Status {
			continue
		}
		if query.ProjectID != "" && t.ProjectID != query.ProjectID {
			continue
		}
		ret = append(ret, *cloneTask(t))
	}
	asc := query.SortOrder == "asc"
	byName := query.SortBy == "name"
	for i := 0; i < len(ret); i++ {
		for j := i + 1; j < len(ret); j++ {
			var less bool
			if byName {
				less = ret[j].Name < ret[i].Name
			} else {
				less = ret[j].CreatedAt.Before(*ret[i].CreatedAt)
			}
			if asc == less {
				ret[i], ret[j] = ret[j], ret[i]
			}
		}
	}
	return ret, nil
}

func (f *fakeTaskRepo) ExistsByName(ctx context.Context, name string) (bool, error) {
	for _, t := range f.tasks {
		if t.Name == name {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeTaskRepo) Insert(ctx context.Context, task *domain.Task) error {
	now := f.tick()
	task.CreatedAt = &now
	task.UpdatedAt = &now
	f.tasks[task.ID] = cloneTask(task)
	return nil
}

func (f *fakeTaskRepo) Update(ctx context.Context, id string, update *domain.TaskUpdate) (*domain.Task, error) {
	t, ok := f.tasks[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	if update.Name != nil {
		t.Name = *update.Name
	}
	if update.Status != nil {
		t.Status = *update.Status
	}
	if update.DateTo != nil {
		t.DateTo = update.DateTo
	}
	now := f.tick()
	t.UpdatedAt = &now
	return cloneTask(t), nil
}

func (f *fakeTaskRepo) Delete(ctx context.Context, id string) error {
	if _, ok := f.tasks[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(f.tasks, id)
	return nil
}

func (f *fakeTaskRepo) DeleteAllByProjectID(ctx context.Context, projectID string) error {
	for id, t := range f.tasks {
		if t.ProjectID == projectID {
			delete(f.tasks, id)
		}
	}
	return nil
}

type fakeProjectCache struct {
	deleted []string
}

func (f *fakeProjectCache) GetByID(ctx context.Context, id string) (*domain.Project, error) {
	return nil, pgx.ErrNoRows
}

func (f *fakeProjectCache) Update(ctx context.Context, project *domain.Project) error {
	return nil
}

func (f *fakeProjectCache) Delete(ctx context.Context, id string) error {
	f.deleted = append(f.deleted, id)
	return nil
}

func newTestServices() (*ProjectService, *TaskService, *fakeProjectRepo, *fakeTaskRepo, *fakeProjectCache) {
	prRepo := newFakeProjectRepo()
	taskRepo := newFakeTaskRepo()
	prCache := &fakeProjectCache{}
	prService := NewProjectService(prRepo, taskRepo, prCache)
	taskService := NewTaskService(prService, taskRepo)
	return prService, taskService, prRepo, taskRepo, prCache
}
