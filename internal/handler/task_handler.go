package handler

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"taskcrafter/internal/model"
	"taskcrafter/internal/store"

	"github.com/gin-gonic/gin"
)

type TaskHandler struct {
	store *store.Store
}

func NewTaskHandler(s *store.Store) *TaskHandler {
	return &TaskHandler{store: s}
}

type subtaskRequest struct {
	Title string `json:"title" binding:"required"`
}

type reminderRequest struct {
	Reminder *time.Time `json:"reminder" binding:"required"`
}

type bulkDeleteRequest struct {
	IDs []string `json:"ids" binding:"required"`
}

// respondError maps store errors to HTTP statuses.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, store.ErrTaskNotFound), errors.Is(err, store.ErrSubtaskNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, model.ErrInvalidTask):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, store.ErrDependencyCycle):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		log.Printf("❌ Unhandled store error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal error"})
	}
}

// Create godoc
// @Summary  Create a task
// @Tags     Tasks
// @Accept   json
// @Produce  json
// @Param    task body model.TaskInput true "Task"
// @Success  201 {object} model.Task
// @Failure  400 {object} map[string]string
// @Router   /tasks [post]
func (h *TaskHandler) Create(c *gin.Context) {
	var in model.TaskInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	task, err := h.store.Create(in)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, task)
}

// GetByID godoc
// @Summary  Get a task
// @Tags     Tasks
// @Produce  json
// @Param    id path string true "Task ID"
// @Success  200 {object} model.Task
// @Failure  404 {object} map[string]string
// @Router   /tasks/{id} [get]
func (h *TaskHandler) GetByID(c *gin.Context) {
	task, err := h.store.Get(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, task)
}

// Update godoc
// @Summary  Patch a task
// @Description Absent fields are left alone; null clears optional fields.
// @Tags     Tasks
// @Accept   json
// @Produce  json
// @Param    id   path string          true "Task ID"
// @Param    patch body model.TaskPatch true "Changes"
// @Success  200 {object} model.Task
// @Failure  400 {object} map[string]string
// @Failure  404 {object} map[string]string
// @Router   /tasks/{id} [patch]
func (h *TaskHandler) Update(c *gin.Context) {
	var patch model.TaskPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	task, err := h.store.Update(c.Param("id"), patch)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, task)
}

// Delete godoc
// @Summary  Delete a task
// @Tags     Tasks
// @Param    id path string true "Task ID"
// @Success  204
// @Failure  404 {object} map[string]string
// @Router   /tasks/{id} [delete]
func (h *TaskHandler) Delete(c *gin.Context) {
	if _, err := h.store.Delete(c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ToggleCompletion godoc
// @Summary  Flip a task's completion flag
// @Tags     Tasks
// @Produce  json
// @Param    id path string true "Task ID"
// @Success  200 {object} model.Task
// @Router   /tasks/{id}/toggle [post]
func (h *TaskHandler) ToggleCompletion(c *gin.Context) {
	h.respond(c)(h.store.ToggleCompletion(c.Param("id")))
}

// Duplicate godoc
// @Summary  Copy a task under a new id
// @Tags     Tasks
// @Produce  json
// @Param    id path string true "Task ID"
// @Success  201 {object} model.Task
// @Router   /tasks/{id}/duplicate [post]
func (h *TaskHandler) Duplicate(c *gin.Context) {
	task, err := h.store.Duplicate(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, task)
}

func (h *TaskHandler) Archive(c *gin.Context) {
	h.respond(c)(h.store.Archive(c.Param("id")))
}

func (h *TaskHandler) SetReminder(c *gin.Context) {
	var req reminderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid reminder"})
		return
	}
	h.respond(c)(h.store.SetReminder(c.Param("id"), *req.Reminder))
}

// SetRecurrence replaces the recurrence rule; a JSON null body clears it.
func (h *TaskHandler) SetRecurrence(c *gin.Context) {
	body, err := c.GetRawData()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid recurrence"})
		return
	}
	var rule *model.Recurrence
	if err := json.Unmarshal(body, &rule); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid recurrence"})
		return
	}
	h.respond(c)(h.store.SetRecurrence(c.Param("id"), rule))
}

func (h *TaskHandler) AddTag(c *gin.Context) {
	h.respond(c)(h.store.AddTag(c.Param("id"), c.Param("tag")))
}

func (h *TaskHandler) RemoveTag(c *gin.Context) {
	h.respond(c)(h.store.RemoveTag(c.Param("id"), c.Param("tag")))
}

func (h *TaskHandler) AddSubtask(c *gin.Context) {
	var req subtaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Subtask title is required"})
		return
	}
	task, err := h.store.AddSubtask(c.Param("id"), req.Title)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, task)
}

func (h *TaskHandler) ToggleSubtask(c *gin.Context) {
	h.respond(c)(h.store.ToggleSubtask(c.Param("id"), c.Param("subtask_id")))
}

// AddDependency godoc
// @Summary  Make a task depend on another
// @Tags     Tasks
// @Produce  json
// @Param    id            path string true "Task ID"
// @Param    dependency_id path string true "Prerequisite task ID"
// @Success  200 {object} model.Task
// @Failure  409 {object} map[string]string "Would create a cycle"
// @Router   /tasks/{id}/dependencies/{dependency_id} [post]
func (h *TaskHandler) AddDependency(c *gin.Context) {
	h.respond(c)(h.store.AddDependency(c.Param("id"), c.Param("dependency_id")))
}

func (h *TaskHandler) RemoveDependency(c *gin.Context) {
	h.respond(c)(h.store.RemoveDependency(c.Param("id"), c.Param("dependency_id")))
}

func (h *TaskHandler) AddCollaborator(c *gin.Context) {
	h.respond(c)(h.store.AddCollaborator(c.Param("id"), c.Param("user_id")))
}

func (h *TaskHandler) RemoveCollaborator(c *gin.Context) {
	h.respond(c)(h.store.RemoveCollaborator(c.Param("id"), c.Param("user_id")))
}

// ClearCompleted godoc
// @Summary  Delete every completed task
// @Tags     Tasks
// @Produce  json
// @Success  200 {object} map[string]interface{}
// @Router   /tasks/clear-completed [post]
func (h *TaskHandler) ClearCompleted(c *gin.Context) {
	removed := h.store.ClearCompleted()
	c.JSON(http.StatusOK, gin.H{"removed": len(removed), "tasks": removed})
}

func (h *TaskHandler) BulkDelete(c *gin.Context) {
	var req bulkDeleteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ids are required"})
		return
	}
	removed := h.store.DeleteMany(req.IDs)
	c.JSON(http.StatusOK, gin.H{"removed": len(removed), "tasks": removed})
}

// respond writes the result of a single-task store call.
func (h *TaskHandler) respond(c *gin.Context) func(model.Task, error) {
	return func(task model.Task, err error) {
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, task)
	}
}
