package handler

import "github.com/gin-gonic/gin"

// RegisterTaskRoutes mounts the task API on r.
func RegisterTaskRoutes(r gin.IRouter, tasks *TaskHandler, queries *QueryHandler) {
	r.GET("/tasks", queries.List)
	r.POST("/tasks", tasks.Create)
	r.POST("/tasks/clear-completed", tasks.ClearCompleted)
	r.POST("/tasks/bulk-delete", tasks.BulkDelete)

	r.GET("/tasks/:id", tasks.GetByID)
	r.PATCH("/tasks/:id", tasks.Update)
	r.DELETE("/tasks/:id", tasks.Delete)
	r.POST("/tasks/:id/toggle", tasks.ToggleCompletion)
	r.POST("/tasks/:id/duplicate", tasks.Duplicate)
	r.POST("/tasks/:id/archive", tasks.Archive)
	r.PUT("/tasks/:id/reminder", tasks.SetReminder)
	r.PUT("/tasks/:id/recurrence", tasks.SetRecurrence)

	r.POST("/tasks/:id/tags/:tag", tasks.AddTag)
	r.DELETE("/tasks/:id/tags/:tag", tasks.RemoveTag)
	r.POST("/tasks/:id/subtasks", tasks.AddSubtask)
	r.POST("/tasks/:id/subtasks/:subtask_id/toggle", tasks.ToggleSubtask)
	r.POST("/tasks/:id/dependencies/:dependency_id", tasks.AddDependency)
	r.DELETE("/tasks/:id/dependencies/:dependency_id", tasks.RemoveDependency)
	r.POST("/tasks/:id/collaborators/:user_id", tasks.AddCollaborator)
	r.DELETE("/tasks/:id/collaborators/:user_id", tasks.RemoveCollaborator)

	r.GET("/categories/:category/tasks", queries.ByCategory)
	r.GET("/deadlines/upcoming", queries.Upcoming)
	r.GET("/deadlines/overdue", queries.Overdue)
	r.GET("/stats", queries.Stats)
}
