package handler

import (
	"fmt"
	"log"
	"net/http"

	"github.com/ArtemSydun/KIT-GLOBAL/domain"
	"github.com/ArtemSydun/KIT-GLOBAL/service"
	"github.com/ArtemSydun/KIT-GLOBAL/util"
	"github.com/ArtemSydun/KIT-GLOBAL/util/middleware"

	"github.com/go-redis/redis/v8"
	"github.com/gorilla/mux"
)

type ProjectHandler struct {
	prService *service.ProjectService
	prCache   domain.ProjectCache
	router    *mux.Router
}

func (p *ProjectHandler) GetAllProjectsHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := util.GetContextWithTimeout(r.Context())
	defer cancel()
	projects, err := p.prService.FindAllProjects(ctx)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	util.WriteJson(w, "Projects list", projects)
}

// GetProjectHandler serves the denormalized project view: cache first,
// database on miss, the way clients read per-project task lists cheaply.
func (p *ProjectHandler) GetProjectHandler(w http.ResponseWriter, r *http.Request) {
	pid, ok := mux.Vars(r)["id"]
	if !ok {
		util.WriteInternalServerError(w)
		return
	}

	ctx, cancel := util.GetContextWithTimeout(r.Context())
	defer cancel()
	project, err := p.prCache.GetByID(ctx, pid)
	if err != nil {
		if err != redis.Nil {
			log.Println(err)
		}
		ctx, cancel = util.GetContextWithTimeout(r.Context())
		defer cancel()
		project, err = p.prService.FindProjectByID(ctx, pid)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		ctx, cancel = util.GetContextWithTimeout(r.Context())
		defer cancel()
		if err := p.prCache.Update(ctx, project); err != nil {
			log.Println(err)
		}
	}
	util.WriteJson(w, fmt.Sprintf("Project %s", project.Name), project)
}

func (p *ProjectHandler) CreateProjectHandler(w http.ResponseWriter, r *http.Request) {
	jsonBody := r.Context().Value("json")

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

	ctx, cancel := util.GetContextWithTimeout(r.Context())
	defer cancel()
	project, err := p.prService.CreateProject(ctx, name)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	util.WriteJson(w, fmt.Sprintf("Project %s created successfully", project.Name), project)
}

func (p *ProjectHandler) UpdateProjectHandler(w http.ResponseWriter, r *http.Request) {
	jsonBody := r.Context().Value("json")

	pid, ok := mux.Vars(r)["id"]
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

	ctx, cancel := util.GetContextWithTimeout(r.Context())
	defer cancel()
	project, err := p.prService.UpdateProjectByID(ctx, pid, name)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	util.WriteJson(w, fmt.Sprintf("Project %s updated successfully", project.Name), project)
}

func (p *ProjectHandler) DeleteProjectHandler(w http.ResponseWriter, r *http.Request) {
	authUser := r.Context().Value("user").(middleware.AuthUserValue)

	pid, ok := mux.Vars(r)["id"]
	if !ok {
		util.WriteInternalServerError(w)
		return
	}

	ctx, cancel := util.GetContextWithTimeout(r.Context())
	defer cancel()
	if err := p.prService.RemoveProject(ctx, pid); err != nil {
		writeServiceError(w, err)
		return
	}
	log.Println("project", pid, "deleted by", authUser.Email)
	util.WriteJson(w, fmt.Sprintf("Project %s and all related tasks deleted successfully", pid), nil)
}

func NewProjectHandler(r *mux.Router, authMiddleware mux.MiddlewareFunc, prService *service.ProjectService, prCache domain.ProjectCache) *ProjectHandler {
	p := &ProjectHandler{
		prService: prService,
		prCache:   prCache,
		router:    r.NewRoute().Subrouter(),
	}

	p.router.Use(authMiddleware)
	p.router.HandleFunc("/projects/all", p.GetAllProjectsHandler).Methods("GET")
	p.router.HandleFunc("/projects/{id}", p.GetProjectHandler).Methods("GET")
	p.router.HandleFunc("/projects/{id}", p.DeleteProjectHandler).Methods("DELETE")

	subrouter := p.router.NewRoute().Subrouter()
	subrouter.Use(middleware.JsonBodyMiddleware)
	subrouter.HandleFunc("/projects", p.CreateProjectHandler).Methods("POST")
	subrouter.HandleFunc("/projects/{id}", p.UpdateProjectHandler).Methods("PATCH")
	return p
}
