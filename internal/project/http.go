package project

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"teamboard/internal/httputil"
	"teamboard/internal/model"
	"teamboard/internal/pagination"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
)

const (
	msgInvalidBody    = "Invalid request body."
	msgNameRequired   = "You have to specify a 'name' parameter."
	msgAsManager      = "You have to specify an 'asManager' parameter as boolean."
	msgCreated        = "Project created successfully!"
	msgModified       = "Project modified successfully!"
	msgDeleted        = "Project deleted successfully!"
	msgAssigned       = "The requested user was successfully assigned to this project."
	msgUnassigned     = "The requested user was successfully removed from this project."
	msgCreateFailed   = "Failed while creating a new project, please contact the owner of this site."
	msgModifyFailed   = "Failed while modifying this project, please make sure it exists and try again, or contact the owner of this site."
	msgDeleteFailed   = "Failed while trying to delete this project, please make sure it exists and try again, or contact the owner of this site."
	msgAssignFailed   = "The requested user couldn't be assigned to this project, please contact the owner of this site for more information."
	msgUnassignFailed = "The requested user couldn't be removed from this project, please check if it's assigned to this project and try again."
	msgListFailed     = "Failed while fetching projects, please contact the owner of this site."
)

type Handler struct {
	service  Service
	validate *validator.Validate
	logger   *slog.Logger
}

func NewHandler(service Service, logger *slog.Logger) *Handler {
	return &Handler{
		service:  service,
		validate: validator.New(),
		logger:   logger,
	}
}

func (h *Handler) RegisterRoutes(router chi.Router) {
	router.Route("/projects", func(r chi.Router) {
		r.Get("/", h.ListProjects)
		r.Post("/", h.CreateProject)
		r.Post("/assign/{id}", h.AssignUser)
		r.Post("/unassign/{id}", h.UnassignUser)
		r.Get("/{id}", h.GetProject)
		r.Post("/{id}", h.ModifyProject)
		r.Delete("/{id}", h.DeleteProject)
	})
}

type createRequest struct {
	Name        json.RawMessage `json:"name"`
	Description json.RawMessage `json:"description"`
	Status      json.RawMessage `json:"status"`
}

type assignmentRequest struct {
	TargetUser json.RawMessage `json:"targetUser"`
	AsManager  json.RawMessage `json:"asManager"`
}

func (h *Handler) ListProjects(w http.ResponseWriter, r *http.Request) {
	query := ListQuery{
		Name: r.URL.Query().Get("name"),
		Page: pagination.ParsePage(r.URL.Query().Get("page")),
	}

	h.logger.Info("fetching projects", "name", query.Name, "page", query.Page)
	projects, err := h.service.List(r.Context(), query)
	if err != nil {
		h.handleServiceError(w, err, msgListFailed)
		return
	}

	details := make([]model.ProjectDetail, 0, len(projects))
	for _, p := range projects {
		details = append(details, p.Detail())
	}
	httputil.RespondWithJSON(w, http.StatusOK, details)
}

func (h *Handler) GetProject(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParseID(r, "id")
	if !ok {
		httputil.RespondWithError(w, http.StatusBadRequest, "You have to specify an valid ID of the project you want to retrieve.")
		return
	}

	h.logger.Info("fetching project by ID", "id", id)
	project, err := h.service.Get(r.Context(), id)
	if err != nil {
		h.handleServiceError(w, err, msgListFailed)
		return
	}

	httputil.RespondWithJSON(w, http.StatusOK, project.Detail())
}

func (h *Handler) CreateProject(w http.ResponseWriter, r *http.Request) {
	var req createRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.RespondWithError(w, http.StatusBadRequest, msgInvalidBody)
		return
	}

	input := CreateInput{Status: httputil.OptionalBool(req.Status)}
	if name := httputil.OptionalString(req.Name); name != nil {
		input.Name = *name
	}
	if description := httputil.OptionalString(req.Description); description != nil {
		input.Description = *description
	}
	if err := h.validate.Struct(&input); err != nil {
		httputil.RespondWithError(w, http.StatusBadRequest, msgNameRequired)
		return
	}

	h.logger.Info("creating project", "name", input.Name)
	if _, err := h.service.Create(r.Context(), input); err != nil {
		h.handleServiceError(w, err, msgCreateFailed)
		return
	}

	httputil.RespondWithMessage(w, http.StatusOK, msgCreated)
}

func (h *Handler) ModifyProject(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParseID(r, "id")
	if !ok {
		httputil.RespondWithError(w, http.StatusBadRequest, "You have to specify an valid ID of the project you want to modify.")
		return
	}

	var req createRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.RespondWithError(w, http.StatusBadRequest, msgInvalidBody)
		return
	}
	patch := Patch{
		Name:        httputil.OptionalString(req.Name),
		Description: httputil.OptionalString(req.Description),
		Status:      httputil.OptionalBool(req.Status),
	}

	h.logger.Info("modifying project", "id", id)
	err := h.service.Modify(r.Context(), id, patch)
	if errors.Is(err, ErrProjectNotFound) {
		// a missing project is reported as a failed write, not a 404
		h.logger.Info("project to modify not found", "id", id)
		httputil.RespondWithError(w, http.StatusInternalServerError, msgModifyFailed)
		return
	}
	if err != nil {
		h.handleServiceError(w, err, msgModifyFailed)
		return
	}

	httputil.RespondWithMessage(w, http.StatusOK, msgModified)
}

func (h *Handler) AssignUser(w http.ResponseWriter, r *http.Request) {
	a, ok := h.parseAssignment(w, r, "assign an user to", "assign the project to")
	if !ok {
		return
	}

	h.logger.Info("assigning user to project", "project_id", a.ProjectID, "user_id", a.UserID, "as_manager", a.AsManager)
	if err := h.service.Assign(r.Context(), a); err != nil {
		h.handleServiceError(w, err, msgAssignFailed)
		return
	}

	httputil.RespondWithMessage(w, http.StatusOK, msgAssigned)
}

func (h *Handler) UnassignUser(w http.ResponseWriter, r *http.Request) {
	a, ok := h.parseAssignment(w, r, "unassign an user to", "unassign the project to")
	if !ok {
		return
	}

	h.logger.Info("unassigning user from project", "project_id", a.ProjectID, "user_id", a.UserID, "as_manager", a.AsManager)
	if err := h.service.Unassign(r.Context(), a); err != nil {
		h.handleServiceError(w, err, msgUnassignFailed)
		return
	}

	httputil.RespondWithMessage(w, http.StatusOK, msgUnassigned)
}

// parseAssignment validates the route id, then targetUser, then asManager,
// writing a 400 for the first one that is wrong.
func (h *Handler) parseAssignment(w http.ResponseWriter, r *http.Request, idAction, userAction string) (Assignment, bool) {
	id, ok := httputil.ParseID(r, "id")
	if !ok {
		httputil.RespondWithError(w, http.StatusBadRequest, "You have to specify an valid ID of the project you want to "+idAction+".")
		return Assignment{}, false
	}

	var req assignmentRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.RespondWithError(w, http.StatusBadRequest, msgInvalidBody)
		return Assignment{}, false
	}

	userID, ok := httputil.PositiveInt(req.TargetUser)
	if !ok {
		httputil.RespondWithError(w, http.StatusBadRequest, "You have to specify a 'targetUser' parameter with the User ID you want to "+userAction+".")
		return Assignment{}, false
	}

	asManager := httputil.OptionalBool(req.AsManager)
	if asManager == nil {
		httputil.RespondWithError(w, http.StatusBadRequest, msgAsManager)
		return Assignment{}, false
	}

	return Assignment{ProjectID: id, UserID: userID, AsManager: *asManager}, true
}

func (h *Handler) DeleteProject(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParseID(r, "id")
	if !ok {
		httputil.RespondWithError(w, http.StatusBadRequest, "You have to specify an valid ID of the project you want to delete.")
		return
	}

	h.logger.Info("deleting project", "id", id)
	if err := h.service.Delete(r.Context(), id); err != nil {
		if errors.Is(err, ErrProjectNotFound) {
			h.logger.Info("project to delete not found", "id", id)
			httputil.RespondWithError(w, http.StatusInternalServerError, msgDeleteFailed)
			return
		}
		h.handleServiceError(w, err, msgDeleteFailed)
		return
	}

	httputil.RespondWithMessage(w, http.StatusOK, msgDeleted)
}

// handleServiceError maps service errors to responses. Anything unrecognized
// is a 500 carrying fallback.
func (h *Handler) handleServiceError(w http.ResponseWriter, err error, fallback string) {
	switch {
	case errors.Is(err, ErrNoProjects):
		httputil.RespondWithError(w, http.StatusNotFound, "No projects on database.")
	case errors.Is(err, ErrProjectNotFound):
		httputil.RespondWithError(w, http.StatusNotFound, "Couldn't find the requested project.")
	case errors.Is(err, ErrNoMatches):
		httputil.RespondWithError(w, http.StatusNotFound, "Couldn't find the requested project(s).")
	case errors.Is(err, ErrPageNotFound):
		httputil.RespondWithError(w, http.StatusNotFound, "The requested page does not exist.")
	case errors.Is(err, ErrDuplicateName):
		httputil.RespondWithError(w, http.StatusConflict, "There's already an project with this name.")
	case errors.Is(err, ErrActiveProjectNotFound):
		httputil.RespondWithError(w, http.StatusNotFound, "Couldn't find the requested project or it's not active.")
	case errors.Is(err, ErrUserNotFound):
		httputil.RespondWithError(w, http.StatusNotFound, "Couldn't find the targeted user.")
	case errors.Is(err, ErrNotAssigned):
		h.logger.Info("user not assigned to project")
		httputil.RespondWithError(w, http.StatusInternalServerError, fallback)
	default:
		h.logger.Error("internal error", "error", err)
		httputil.RespondWithError(w, http.StatusInternalServerError, fallback)
	}
}
