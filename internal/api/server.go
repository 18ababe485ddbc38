// Package api exposes the store operations as an authenticated HTTP/JSON
// API, one named route per operation. It owns identity resolution at the
// boundary: handlers resolve the caller and pass an explicit CallerContext
// into the services.
package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/eleven-am/keep/internal/auth"
	"github.com/eleven-am/keep/internal/domain"
	"github.com/eleven-am/keep/internal/logger"
	"github.com/eleven-am/keep/internal/service"
)

// Server wires the HTTP boundary to the services.
type Server struct {
	engine     *gin.Engine
	identity   *service.Identity
	categories *service.Categories
	todos      *service.Todos
	log        logger.Logger
}

// NewServer assembles the router. Debug mode keeps gin's default verbosity;
// otherwise the engine runs in release mode.
func NewServer(verifier *auth.Verifier, identity *service.Identity, categories *service.Categories, todos *service.Todos, debug bool) *Server {
	if !debug {
		gin.SetMode(gin.ReleaseMode)
	}

	s := &Server{
		engine:     gin.New(),
		identity:   identity,
		categories: categories,
		todos:      todos,
		log:        logger.API(),
	}
	s.engine.Use(gin.Recovery())
	s.initRouters(verifier)
	return s
}

// Handler returns the assembled http.Handler.
func (s *Server) Handler() http.Handler {
	return s.engine
}

func (s *Server) initRouters(verifier *auth.Verifier) {
	s.engine.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	v1 := s.engine.Group("/api/v1", TokenAuthMiddleware(verifier))

	v1.GET("/categories", s.listCategories)
	v1.GET("/categories/:id", s.getCategory)
	v1.POST("/categories", s.createCategory)
	v1.PATCH("/categories/:id", s.updateCategory)
	v1.DELETE("/categories/:id", s.deleteCategory)
	v1.POST("/categories/defaults", s.createDefaultCategories)

	v1.GET("/todos", s.listTodos)
	v1.GET("/todos/by-category", s.listTodosByCategory)
	v1.GET("/todos/:id", s.getTodo)
	v1.POST("/todos", s.createTodo)
	v1.PATCH("/todos/:id", s.updateTodo)
	v1.DELETE("/todos/:id", s.deleteTodo)
	v1.POST("/todos/bulk/completed", s.bulkSetCompleted)
	v1.DELETE("/todos/completed", s.deleteCompletedTodos)
}

// resolveCaller resolves the caller for mutations, creating the user row on
// first contact.
func (s *Server) resolveCaller(c *gin.Context) (domain.CallerContext, bool) {
	ident, err := callerIdentity(c)
	if err != nil {
		writeError(c, err)
		return domain.CallerContext{}, false
	}

	caller, err := s.identity.ResolveCaller(c.Request.Context(), ident.Subject, ident.Email, ident.Name)
	if err != nil {
		writeError(c, err)
		return domain.CallerContext{}, false
	}
	return caller, true
}

// lookupCaller resolves the caller for queries without creating a user row.
// When the caller has no user row yet, unseen is true so list handlers can
// answer with an empty result instead of an error.
func (s *Server) lookupCaller(c *gin.Context) (caller domain.CallerContext, ok, unseen bool) {
	ident, err := callerIdentity(c)
	if err != nil {
		writeError(c, err)
		return domain.CallerContext{}, false, false
	}

	caller, err = s.identity.LookupCaller(c.Request.Context(), ident.Subject)
	if err != nil {
		var notFound *domain.NotFoundError
		if errors.As(err, &notFound) {
			return domain.CallerContext{}, false, true
		}
		writeError(c, err)
		return domain.CallerContext{}, false, false
	}
	return caller, true, false
}
