package handler

import (
	"context"
	"time"

	"github.com/ArtemSydun/KIT-GLOBAL/domain"
	"github.com/ArtemSydun/KIT-GLOBAL/service"
	"github.com/ArtemSydun/KIT-GLOBAL/util/middleware"
	"github.com/go-redis/redis/v8"
	"github.com/gorilla/mux"
	"github.com/jackc/pgx/v4"
)

type fakeProjectRepo struct {
	projects map[string]*domain.Project
}

func (f *fakeProjectRepo) GetByID(ctx context.Context, id string) (*domain.Project, error) {
	p, ok := f.projects[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	clone := *p
	return &clone, nil
}

func (f *fakeProjectRepo) GetAll(ctx context.Context) ([]domain.Project, error) {
	ret := make([]domain.Project, 0, len(f.projects))
	for _, p := range f.projects {
		ret = append(ret, *p)
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
	clone := *project
	f.projects[project.ID] = &clone
	return nil
}

func (f *fakeProjectRepo) Update(ctx context.Context, id string, update *domain.ProjectUpdate) (*domain.Project, error) {
	p, ok := f.projects[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	if update.Name != nil {
		p.Name = *update.Name
	}
	if update.Tasks != nil {
		p.Tasks = *update.Tasks
	}
	clone := *p
	return &clone, nil
}

func (f *fakeProjectRepo) Delete(ctx context.Context, id string) error {
	if _, ok := f.projects[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(f.projects, id)
	return nil
}

type fakeTaskRepo struct {
	tasks map[string]*domain.Task
	clock time.Time
}

func (f *fakeTaskRepo) tick() time.Time {
	f.clock = f.clock.Add(time.Second)
	return f.clock
}

func (f *fakeTaskRepo) GetByID(ctx context.Context, id string) (*domain.Task, error) {
	t, ok := f.tasks[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	clone := *t
	return &clone, nil
}

func (f *fakeTaskRepo) GetByProjectAndName(ctx context.Context, projectID string, name string) (*domain.Task, error) {
	for _, t := range f.tasks {
		if t.ProjectID == projectID && t.Name == name {
			clone := *t
			return &clone, nil
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
		ret = append(ret, *t)
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
	clone := *task
	f.tasks[task.ID] = &clone
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
	clone := *t
	return &clone, nil
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
	entries map[string]*domain.Project
}

func (f *fakeProjectCache) GetByID(ctx context.Context, id string) (*domain.Project, error) {
	p, ok := f.entries[id]
	if !ok {
		return nil, redis.Nil
	}
	return p, nil
}

func (f *fakeProjectCache) Update(ctx context.Context, project *domain.Project) error {
	f.entries[project.ID] = project
	return nil
}

func (f *fakeProjectCache) Delete(ctx context.Context, id string) error {
	delete(f.entries, id)
	return nil
}

type fakeAuthCache struct {
	tokens map[string]string
}

func (f *fakeAuthCache) GetEmailByToken(ctx context.Context, token string) (string, error) {
	email, ok := f.tokens[token]
	if !ok {
		return "", redis.Nil
	}
	return email, nil
}

type testEnv struct {
	router   *mux.Router
	prRepo   *fakeProjectRepo
	taskRepo *fakeTaskRepo
	prCache  *fakeProjectCache
}

const testToken = "token-1"

func newTestEnv() *testEnv {
	prRepo := &fakeProjectRepo{projects: make(map[string]*domain.Project)}
	taskRepo := &fakeTaskRepo{
		tasks: make(map[string]*domain.Task),
		clock: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}
	prCache := &fakeProjectCache{entries: make(map[string]*domain.Project)}
	authCache := &fakeAuthCache{tokens: map[string]string{testToken: "admin@example.com"}}

	prService := service.NewProjectService(prRepo, taskRepo, prCache)
	taskService := service.NewTaskService(prService, taskRepo)

	r := mux.NewRouter()
	authMiddleware := middleware.AuthMiddleware(authCache, "admin@example.com")
	NewProjectHandler(r, authMiddleware, prService, prCache)
	NewTaskHandler(r, authMiddleware, taskService)

	return &testEnv{
		router:   r,
		prRepo:   prRepo,
		taskRepo: taskRepo,
		prCache:  prCache,
	}
}
