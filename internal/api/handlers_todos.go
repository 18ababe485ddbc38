package api

import (
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/eleven-am/keep/internal/domain"
	"github.com/eleven-am/keep/internal/service"
)

type createTodoRequest struct {
	Title       string  `json:"title"`
	Description *string `json:"description"`
	CategoryID  *string `json:"categoryId"`
}

// updateTodoRequest keeps categoryId as raw JSON so an explicit null
// (clear the association) is distinguishable from an absent key.
type updateTodoRequest struct {
	Title       *string         `json:"title"`
	Description *string         `json:"description"`
	Completed   *bool           `json:"completed"`
	CategoryID  json.RawMessage `json:"categoryId"`
}

type bulkCompletedRequest struct {
	IDs       []string `json:"ids"`
	Completed *bool    `json:"completed"`
}

func (s *Server) listTodos(c *gin.Context) {
	caller, ok, unseen := s.lookupCaller(c)
	if unseen {
		c.JSON(http.StatusOK, []domain.Todo{})
		return
	}
	if !ok {
		return
	}

	todos, err := s.todos.List(c.Request.Context(), caller)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, todos)
}

func (s *Server) listTodosByCategory(c *gin.Context) {
	caller, ok, unseen := s.lookupCaller(c)
	if unseen {
		writeError(c, domain.NewNotFound("User", ""))
		return
	}
	if !ok {
		return
	}

	var categoryID *string
	if value := c.Query("categoryId"); value != "" {
		categoryID = &value
	}

	todos, err := s.todos.ListByCategory(c.Request.Context(), caller, categoryID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, todos)
}

func (s *Server) getTodo(c *gin.Context) {
	caller, ok, unseen := s.lookupCaller(c)
	if unseen {
		writeError(c, domain.NewNotFound("User", ""))
		return
	}
	if !ok {
		return
	}

	todo, err := s.todos.Get(c.Request.Context(), caller, c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, todo)
}

func (s *Server) createTodo(c *gin.Context) {
	var req createTodoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeInvalidJSON(c)
		return
	}

	caller, ok := s.resolveCaller(c)
	if !ok {
		return
	}

	todo, err := s.todos.Create(c.Request.Context(), caller, service.TodoCreate{
		Title:       req.Title,
		Description: req.Description,
		CategoryID:  req.CategoryID,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, todo)
}

func (s *Server) updateTodo(c *gin.Context) {
	var req updateTodoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeInvalidJSON(c)
		return
	}

	update := service.TodoUpdate{
		Title:       req.Title,
		Description: req.Description,
		Completed:   req.Completed,
	}
	if len(req.CategoryID) > 0 {
		update.HasCategoryID = true
		if string(req.CategoryID) != "null" {
			var id string
			if err := json.Unmarshal(req.CategoryID, &id); err != nil {
				writeInvalidJSON(c)
				return
			}
			update.CategoryID = &id
		}
	}

	caller, ok := s.resolveCaller(c)
	if !ok {
		return
	}

	todo, err := s.todos.Update(c.Request.Context(), caller, c.Param("id"), update)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, todo)
}

func (s *Server) deleteTodo(c *gin.Context) {
	caller, ok := s.resolveCaller(c)
	if !ok {
		return
	}

	if err := s.todos.Delete(c.Request.Context(), caller, c.Param("id")); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (s *Server) bulkSetCompleted(c *gin.Context) {
	var req bulkCompletedRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeInvalidJSON(c)
		return
	}
	if req.Completed == nil {
		writeError(c, domain.NewValidation("completed", "Completed is required"))
		return
	}

	caller, ok := s.resolveCaller(c)
	if !ok {
		return
	}

	count, err := s.todos.BulkSetCompleted(c.Request.Context(), caller, req.IDs, *req.Completed)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "updatedCount": count})
}

func (s *Server) deleteCompletedTodos(c *gin.Context) {
	caller, ok := s.resolveCaller(c)
	if !ok {
		return
	}

	count, err := s.todos.DeleteCompleted(c.Request.Context(), caller)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "deletedCount": count})
}
