package routehandlers

import (
	"errors"
	"net/http"

	"github.com/coreybb/tasktracker/auth"
	"github.com/coreybb/tasktracker/models"
	"github.com/coreybb/tasktracker/tasks"
	"github.com/coreybb/tasktracker/webutil"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

type TaskHandler struct {
	Service *tasks.Service
}

func NewTaskHandler(service *tasks.Service) *TaskHandler {
	return &TaskHandler{Service: service}
}

type taskResponse struct {
	Message string       `json:"message,omitempty"`
	Task    *models.Task `json:"task"`
}

type deletedTaskResponse struct {
	Message     string       `json:"message"`
	DeletedTask *models.Task `json:"deletedTask"`
}

type statsResponse struct {
	Stats *models.TaskStats `json:"stats"`
}

func (h *TaskHandler) HandleGetTasks(w http.ResponseWriter, r *http.Request) error {
	owner, err := ownerID(r)
	if err != nil {
		return err
	}

	query := r.URL.Query()
	result, err := h.Service.List(r.Context(), owner, tasks.ListOptions{
		Status:    query.Get("status"),
		Priority:  query.Get("priority"),
		SortBy:    query.Get("sortBy"),
		SortOrder: query.Get("sortOrder"),
	})
	if err != nil {
		return err
	}

	webutil.RespondWithJSON(w, http.StatusOK, result)
	return nil
}

func (h *TaskHandler) HandleGetTaskStats(w http.ResponseWriter, r *http.Request) error {
	owner, err := ownerID(r)
	if err != nil {
		return err
	}

	stats, err := h.Service.Stats(r.Context(), owner)
	if err != nil {
		return err
	}

	webutil.RespondWithJSON(w, http.StatusOK, statsResponse{Stats: stats})
	return nil
}

func (h *TaskHandler) HandleCreateTask(w http.ResponseWriter, r *http.Request) error {
	owner, err := ownerID(r)
	if err != nil {
		return err
	}

	var in tasks.TaskInput
	if err := webutil.DecodeJSON(r, &in); err != nil {
		return err
	}

	task, err := h.Service.Create(r.Context(), owner, in)
	if err != nil {
		return err
	}

	webutil.RespondWithJSON(w, http.StatusCreated, taskResponse{Message: "Task created successfully", Task: task})
	return nil
}

func (h *TaskHandler) HandleUpdateTask(w http.ResponseWriter, r *http.Request) error {
	owner, taskID, err := ownerAndTaskID(r)
	if err != nil {
		return err
	}

	var in tasks.TaskInput
	if err := webutil.DecodeJSON(r, &in); err != nil {
		return err
	}

	task, err := h.Service.Update(r.Context(), owner, taskID, in)
	if err != nil {
		return taskError(err)
	}

	webutil.RespondWithJSON(w, http.StatusOK, taskResponse{Message: "Task updated successfully", Task: task})
	return nil
}

func (h *TaskHandler) HandleDeleteTask(w http.ResponseWriter, r *http.Request) error {
	owner, taskID, err := ownerAndTaskID(r)
	if err != nil {
		return err
	}

	task, err := h.Service.Delete(r.Context(), owner, taskID)
	if err != nil {
		return taskError(err)
	}

	webutil.RespondWithJSON(w, http.StatusOK, deletedTaskResponse{Message: "Task deleted successfully", DeletedTask: task})
	return nil
}

func (h *TaskHandler) HandleToggleTask(w http.ResponseWriter, r *http.Request) error {
	owner, taskID, err := ownerAndTaskID(r)
	if err != nil {
		return err
	}

	task, err := h.Service.ToggleStatus(r.Context(), owner, taskID)
	if err != nil {
		return taskError(err)
	}

	webutil.RespondWithJSON(w, http.StatusOK, taskResponse{Message: "Task status updated successfully", Task: task})
	return nil
}

func ownerID(r *http.Request) (string, error) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok {
		return "", webutil.ErrUnauthorized("")
	}
	return user.ID, nil
}

func ownerAndTaskID(r *http.Request) (string, string, error) {
	owner, err := ownerID(r)
	if err != nil {
		return "", "", err
	}
	taskID := chi.URLParam(r, "id")
	if _, err := uuid.Parse(taskID); err != nil {
		return "", "", webutil.PathParamError("task ID")
	}
	return owner, taskID, nil
}

func taskError(err error) error {
	if errors.Is(err, tasks.ErrNotFound) {
		return webutil.ErrNotFoundWrap("Task not found", err)
	}
	return err
}
