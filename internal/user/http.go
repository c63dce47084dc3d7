package user

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
	msgModifyFailed = "Failed while modifying this user, please make sure it exists and try again, or contact the owner of this site."
	msgDeleteFailed = "Failed while trying to delete this user, please make sure it exists and try again, or contact the owner of this site."
	msgCreateFailed = "Failed while creating a new user, please contact the owner of this site."
	msgListFailed   = "Failed while fetching users, please contact the owner of this site."
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
	router.Route("/users", func(r chi.Router) {
		r.Get("/", h.ListUsers)
		r.Post("/", h.CreateUser)
		r.Get("/{id}", h.GetUser)
		r.Patch("/{id}", h.ModifyUser)
		r.Delete("/{id}", h.DeleteUser)
	})
}

type userRequest struct {
	Name       json.RawMessage `json:"name"`
	PictureURL json.RawMessage `json:"pictureURL"`
}

func (h *Handler) ListUsers(w http.ResponseWriter, r *http.Request) {
	page := pagination.ParsePage(r.URL.Query().Get("page"))

	h.logger.Info("fetching users", "page", page)
	users, err := h.service.List(r.Context(), page)
	if err != nil {
		h.handleServiceError(w, err, msgListFailed)
		return
	}

	details := make([]model.UserDetail, 0, len(users))
	for _, u := range users {
		details = append(details, u.Detail())
	}
	httputil.RespondWithJSON(w, http.StatusOK, details)
}

func (h *Handler) GetUser(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParseID(r, "id")
	if !ok {
		httputil.RespondWithError(w, http.StatusBadRequest, "You have to specify an valid ID of the user you want to retrieve.")
		return
	}

	h.logger.Info("fetching user by ID", "id", id)
	user, err := h.service.Get(r.Context(), id)
	if err != nil {
		h.handleServiceError(w, err, msgListFailed)
		return
	}

	httputil.RespondWithJSON(w, http.StatusOK, user.Detail())
}

func (h *Handler) CreateUser(w http.ResponseWriter, r *http.Request) {
	var req userRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.RespondWithError(w, http.StatusBadRequest, "Invalid request body.")
		return
	}

	var input CreateInput
	if name := httputil.OptionalString(req.Name); name != nil {
		input.Name = *name
	}
	if picture := httputil.OptionalString(req.PictureURL); picture != nil {
		input.PictureURL = *picture
	}
	if err := h.validate.Struct(&input); err != nil {
		httputil.RespondWithError(w, http.StatusBadRequest, "You have to specify a 'name' parameter.")
		return
	}

	h.logger.Info("creating user", "name", input.Name)
	if _, err := h.service.Create(r.Context(), input); err != nil {
		h.handleServiceError(w, err, msgCreateFailed)
		return
	}

	httputil.RespondWithMessage(w, http.StatusOK, "User created successfully!")
}

func (h *Handler) ModifyUser(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParseID(r, "id")
	if !ok {
		httputil.RespondWithError(w, http.StatusBadRequest, "You have to specify an valid ID of the user you want to modify.")
		return
	}

	var req userRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.RespondWithError(w, http.StatusBadRequest, "Invalid request body.")
		return
	}

	h.logger.Info("modifying user", "id", id)
	err := h.service.Modify(r.Context(), id, Patch{
		Name:       httputil.OptionalString(req.Name),
		PictureURL: httputil.OptionalString(req.PictureURL),
	})
	if errors.Is(err, ErrUserNotFound) {
		h.logger.Info("user to modify not found", "id", id)
		httputil.RespondWithError(w, http.StatusInternalServerError, msgModifyFailed)
		return
	}
	if err != nil {
		h.handleServiceError(w, err, msgModifyFailed)
		return
	}

	httputil.RespondWithMessage(w, http.StatusOK, "User modified successfully!")
}

func (h *Handler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParseID(r, "id")
	if !ok {
		httputil.RespondWithError(w, http.StatusBadRequest, "You have to specify an valid ID of the user you want to delete.")
		return
	}

	h.logger.Info("deleting user", "id", id)
	err := h.service.Delete(r.Context(), id)
	if errors.Is(err, ErrUserNotFound) {
		h.logger.Info("user to delete not found", "id", id)
		httputil.RespondWithError(w, http.StatusInternalServerError, msgDeleteFailed)
		return
	}
	if err != nil {
		h.handleServiceError(w, err, msgDeleteFailed)
		return
	}

	httputil.RespondWithMessage(w, http.StatusOK, "User deleted successfully!")
}

func (h *Handler) handleServiceError(w http.ResponseWriter, err error, fallback string) {
	if errors.Is(err, ErrNoUsers) {
		httputil.RespondWithError(w, http.StatusNotFound, "No users on database.")
		return
	}
	if errors.Is(err, ErrUserNotFound) {
		httputil.RespondWithError(w, http.StatusNotFound, "Couldn't find the requested user.")
		return
	}
	if errors.Is(err, ErrPageNotFound) {
		httputil.RespondWithError(w, http.StatusNotFound, "The requested page does not exist.")
		return
	}
	if errors.Is(err, ErrDuplicateName) {
		httputil.RespondWithError(w, http.StatusConflict, "There's already an user with this name.")
		return
	}
	h.logger.Error("internal error", "error", err)
	httputil.RespondWithError(w, http.StatusInternalServerError, fallback)
}
