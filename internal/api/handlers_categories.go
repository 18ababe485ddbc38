package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/eleven-am/keep/internal/domain"
	"github.com/eleven-am/keep/internal/service"
)

type createCategoryRequest struct {
	Name  string `json:"name"`
	Color string `json:"color"`
}

type updateCategoryRequest struct {
	Name  *string `json:"name"`
	Color *string `json:"color"`
}

func (s *Server) listCategories(c *gin.Context) {
	caller, ok, unseen := s.lookupCaller(c)
	if unseen {
		c.JSON(http.StatusOK, []domain.Category{})
		return
	}
	if !ok {
		return
	}

	categories, err := s.categories.List(c.Request.Context(), caller)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, categories)
}

func (s *Server) getCategory(c *gin.Context) {
	caller, ok, unseen := s.lookupCaller(c)
	if unseen {
		writeError(c, domain.NewNotFound("User", ""))
		return
	}
	if !ok {
		return
	}

	category, err := s.categories.Get(c.Request.Context(), caller, c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, category)
}

func (s *Server) createCategory(c *gin.Context) {
	var req createCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeInvalidJSON(c)
		return
	}

	caller, ok := s.resolveCaller(c)
	if !ok {
		return
	}

	category, err := s.categories.Create(c.Request.Context(), caller, req.Name, req.Color)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, category)
}

func (s *Server) updateCategory(c *gin.Context) {
	var req updateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeInvalidJSON(c)
		return
	}

	caller, ok := s.resolveCaller(c)
	if !ok {
		return
	}

	category, err := s.categories.Update(c.Request.Context(), caller, c.Param("id"), service.CategoryUpdate{
		Name:  req.Name,
		Color: req.Color,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, category)
}

func (s *Server) deleteCategory(c *gin.Context) {
	caller, ok := s.resolveCaller(c)
	if !ok {
		return
	}

	if err := s.categories.Delete(c.Request.Context(), caller, c.Param("id")); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (s *Server) createDefaultCategories(c *gin.Context) {
	caller, ok := s.resolveCaller(c)
	if !ok {
		return
	}

	ids, err := s.categories.CreateDefaults(c.Request.Context(), caller)
	if err != nil {
		writeError(c, err)
		return
	}
	if ids == nil {
		ids = []string{}
	}
	c.JSON(http.StatusOK, gin.H{"ids": ids})
}
