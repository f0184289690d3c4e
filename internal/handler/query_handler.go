package handler

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"taskcrafter/internal/model"
	"taskcrafter/internal/store"

	"github.com/gin-gonic/gin"
)

const defaultUpcomingDays = 7

type QueryHandler struct {
	store *store.Store
}

func NewQueryHandler(s *store.Store) *QueryHandler {
	return &QueryHandler{store: s}
}

// List godoc
// @Summary  List tasks
// @Description All filters are combined with AND. A task matches tags when it carries at least one of them.
// @Tags     Queries
// @Produce  json
// @Param    status       query string false "todo, in_progress, completed or archived"
// @Param    completed    query bool   false "Completion flag"
// @Param    priority     query string false "low, medium or high"
// @Param    tags         query string false "Comma-separated tags"
// @Param    search       query string false "Case-insensitive text in title or description"
// @Param    category     query string false "Exact category"
// @Param    collaborator query string false "Collaborator id"
// @Param    due_from     query string false "RFC3339 lower bound"
// @Param    due_to       query string false "RFC3339 upper bound"
// @Param    sort_by      query string false "priority, dueDate, createdAt or lastModified"
// @Param    order        query string false "asc or desc"
// @Success  200 {array}  model.Task
// @Failure  400 {object} map[string]string
// @Router   /tasks [get]
func (h *QueryHandler) List(c *gin.Context) {
	filter, err := parseFilter(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	tasks := h.store.Filter(filter)

	if raw := c.Query("sort_by"); raw != "" {
		key := model.SortKey(raw)
		if !key.Valid() {
			c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("unknown sort key %q", raw)})
			return
		}
		order := model.SortOrder(c.DefaultQuery("order", string(model.Asc)))
		if order != model.Asc && order != model.Desc {
			c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("unknown order %q", order)})
			return
		}
		tasks = store.Sort(tasks, key, order)
	}

	c.JSON(http.StatusOK, tasks)
}

func (h *QueryHandler) ByCategory(c *gin.Context) {
	c.JSON(http.StatusOK, h.store.ByCategory(c.Param("category")))
}

// Upcoming godoc
// @Summary  Tasks due within the next N days
// @Tags     Queries
// @Produce  json
// @Param    days query int false "Window in days" default(7)
// @Success  200 {array} model.Task
// @Router   /deadlines/upcoming [get]
func (h *QueryHandler) Upcoming(c *gin.Context) {
	days := defaultUpcomingDays
	if raw := c.Query("days"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "days must be a non-negative integer"})
			return
		}
		days = n
	}
	c.JSON(http.StatusOK, h.store.UpcomingDeadlines(days))
}

func (h *QueryHandler) Overdue(c *gin.Context) {
	c.JSON(http.StatusOK, h.store.Overdue())
}

// Stats godoc
// @Summary  Collection statistics
// @Tags     Queries
// @Produce  json
// @Success  200 {object} model.Stats
// @Router   /stats [get]
func (h *QueryHandler) Stats(c *gin.Context) {
	c.JSON(http.StatusOK, h.store.Stats())
}

func parseFilter(c *gin.Context) (model.TaskFilter, error) {
	var f model.TaskFilter

	if raw := c.Query("status"); raw != "" {
		st := model.Status(raw)
		if !st.Valid() {
			return f, fmt.Errorf("unknown status %q", raw)
		}
		f.Status = &st
	}
	if raw := c.Query("completed"); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			return f, fmt.Errorf("completed must be true or false")
		}
		f.Completed = &v
	}
	if raw := c.Query("priority"); raw != "" {
		p := model.Priority(raw)
		if !p.Valid() {
			return f, fmt.Errorf("unknown priority %q", raw)
		}
		f.Priority = &p
	}
	for _, raw := range c.QueryArray("tags") {
		for _, tag := range strings.Split(raw, ",") {
			if tag = strings.TrimSpace(tag); tag != "" {
				f.Tags = append(f.Tags, tag)
			}
		}
	}
	f.Search = c.Query("search")
	f.Category = c.Query("category")
	f.Collaborator = c.Query("collaborator")

	var err error
	if f.DueFrom, err = queryTime(c, "due_from"); err != nil {
		return f, err
	}
	if f.DueTo, err = queryTime(c, "due_to"); err != nil {
		return f, err
	}
	return f, nil
}

func queryTime(c *gin.Context, key string) (*time.Time, error) {
	raw := c.Query(key)
	if raw == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return nil, fmt.Errorf("%s must be an RFC3339 timestamp", key)
	}
	return &t, nil
}
