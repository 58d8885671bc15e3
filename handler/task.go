package handler

import (
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/ArtemSydun/KIT-GLOBAL/domain"
	"github.com/ArtemSydun/KIT-GLOBAL/service"
	"github.com/ArtemSydun/KIT-GLOBAL/util"
	"github.com/ArtemSydun/KIT-GLOBAL/util/middleware"

	"github.com/gorilla/mux"
)

type TaskHandler struct {
	taskService *service.TaskService
	router      *mux.Router
}

func (t *TaskHandler) GetAllTasksHandler(w http.ResponseWriter, r *http.Request) {
	query := &domain.TaskQuery{
		Status:    util.GetUrlQueryParam(r, "status"),
		ProjectID: util.GetUrlQueryParam(r, "projectId"),
		SortBy:    util.GetUrlQueryParam(r, "sortBy"),
		SortOrder: util.GetUrlQueryParam(r, "sortOrder"),
	}

	ctx, cancel := util.GetContextWithTimeout(r.Context())
	defer cancel()
	tasks, err := t.taskService.FindAllTasks(ctx, query)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	util.WriteJson(w, "Tasks list", tasks)
}

func (t *TaskHandler) GetTaskHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := mux.Vars(r)["id"]
	if !ok {
		util.WriteInternalServerError(w)
		return
	}

	ctx, cancel := util.GetContextWithTimeout(r.Context())
	defer cancel()
	task, err := t.taskService.FindTaskByID(ctx, id)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	util.WriteJson(w, fmt.Sprintf("Task %s", task.Name), task)
}

func (t *TaskHandler) CreateTaskHandler(w http.ResponseWriter, r *http.Request) {
	jsonBody := r.Context().Value("json")

	pid, ok := mux.Vars(r)["projectId"]
	if !ok {
		util.WriteInternalServerError(w)
		return
	}

	body, ok := jsonBody.(map[string]interface{})
	if !ok {
		util.WriteStatus(w, http.StatusBadRequest)
		return
	}
	name, ok := body["name"].(string)
	if !ok || name == "" {
		log.Println("no name")
		util.WriteStatus(w, http.StatusBadRequest)
		return
	}
	status := ""
	if s, ok := body["status"].(string); ok {
		if !domain.ValidTaskStatus(s) {
			util.WriteError(w, http.StatusBadRequest, fmt.Sprintf("bad status: %s", s))
			return
		}
		status = s
	}
	var dateTo *time.Time
	if d, ok := body["dateTo"].(string); ok {
		parsed, err := time.Parse(time.RFC3339, d)
		if err != nil {
			util.WriteError(w, http.StatusBadRequest, fmt.Sprintf("bad dateTo: %s", d))
			return
		}
		dateTo = &parsed
	}

	ctx, cancel := util.GetContextWithTimeout(r.Context())
	defer cancel()
	task, err := t.taskService.CreateTask(ctx, pid, name, status, dateTo)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	util.WriteJson(w, fmt.Sprintf("Task %s created successfully", task.Name), task)
}

func (t *TaskHandler) UpdateTaskHandler(w http.ResponseWriter, r *http.Request) {
	jsonBody := r.Context().Value("json")

	id, ok := mux.Vars(r)["id"]
	if !ok {
		util.WriteInternalServerError(w)
		return
	}

	body, ok := jsonBody.(map[string]interface{})
	if !ok {
		util.WriteStatus(w, http.StatusBadRequest)
		return
	}

	update := &domain.TaskUpdate{}
	if name, ok := body["name"].(string); ok {
		if name == "" {
			util.WriteError(w, http.StatusBadRequest, "bad name")
			return
		}
		update.Name = &name
	}
	if status, ok := body["status"].(string); ok {
		if !domain.ValidTaskStatus(status) {
			util.WriteError(w, http.StatusBadRequest, fmt.Sprintf("bad status: %s", status))
			return
		}
		update.Status = &status
	}
	if d, ok := body["dateTo"].(string); ok {
		parsed, err := time.Parse(time.RFC3339, d)
		if err != nil {
			util.WriteError(w, http.StatusBadRequest, fmt.Sprintf("bad dateTo: %s", d))
			return
		}
		update.DateTo = &parsed
	}
	if update.Name == nil && update.Status == nil && update.DateTo == nil {
		util.WriteError(w, http.StatusBadRequest, "nothing to update")
		return
	}

	ctx, cancel := util.GetContextWithTimeout(r.Context())
	defer cancel()
	task, err := t.taskService.UpdateTaskByID(ctx, id, update)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	util.WriteJson(w, fmt.Sprintf("Task %s updated successfully", task.ID), task)
}

func (t *TaskHandler) DeleteTaskHandler(w http.ResponseWriter, r *http.Request) {
	authUser := r.Context().Value("user").(middleware.AuthUserValue)

	id, ok := mux.Vars(r)["id"]
	if !ok {
		util.WriteInternalServerError(w)
		return
	}

	ctx, cancel := util.GetContextWithTimeout(r.Context())
	defer cancel()
	if err := t.taskService.RemoveTaskByID(ctx, id); err != nil {
		writeServiceError(w, err)
		return
	}
	log.Println("task", id, "deleted by", authUser.Email)
	util.WriteJson(w, fmt.Sprintf("Task %s deleted successfully", id), nil)
}

func NewTaskHandler(r *mux.Router, authMiddleware mux.MiddlewareFunc, taskService *service.TaskService) *TaskHandler {
	t := &TaskHandler{
		taskService: taskService,
		router:      r.NewRoute().Subrouter(),
	}

	t.router.Use(authMiddleware)
	t.router.HandleFunc("/tasks/all", t.GetAllTasksHandler).Methods("GET")
	t.router.HandleFunc("/tasks/{id}", t.GetTaskHandler).Methods("GET")
	t.router.HandleFunc("/tasks/{id}", t.DeleteTaskHandler).Methods("DELETE")

	subrouter := t.router.NewRoute().Subrouter()
	subrouter.Use(middleware.JsonBodyMiddleware)
	subrouter.HandleFunc("/tasks/{projectId}", t.CreateTaskHandler).Methods("POST")
	subrouter.HandleFunc("/tasks/{id}", t.UpdateTaskHandler).Methods("PATCH")
	return t
}
