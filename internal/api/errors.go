package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/eleven-am/keep/internal/domain"
)

// errorBody is the JSON envelope every failed request carries.
type errorBody struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
	Field   string `json:"field,omitempty"`
}

type errorResponse struct {
	Error errorBody `json:"error"`
}

// writeError maps domain errors onto HTTP statuses:
// authentication 401, not found 404, authorization 403, validation 422,
// conflict 409, everything else 500.
func writeError(c *gin.Context, err error) {
	var (
		notFound   *domain.NotFoundError
		authz      *domain.AuthorizationError
		validation *domain.ValidationError
		conflict   *domain.ConflictError
	)

	switch {
	case errors.Is(err, domain.ErrNotAuthenticated):
		c.AbortWithStatusJSON(http.StatusUnauthorized, errorResponse{
			Error: errorBody{Kind: "authentication_error", Message: "Not authenticated"},
		})
	case errors.As(err, &notFound):
		c.AbortWithStatusJSON(http.StatusNotFound, errorResponse{
			Error: errorBody{Kind: "not_found", Message: notFound.Error()},
		})
	case errors.As(err, &authz):
		c.AbortWithStatusJSON(http.StatusForbidden, errorResponse{
			Error: errorBody{Kind: "authorization_error", Message: authz.Error()},
		})
	case errors.As(err, &validation):
		c.AbortWithStatusJSON(http.StatusUnprocessableEntity, errorResponse{
			Error: errorBody{Kind: "validation_error", Message: validation.Message, Field: validation.Field},
		})
	case errors.As(err, &conflict):
		c.AbortWithStatusJSON(http.StatusConflict, errorResponse{
			Error: errorBody{Kind: "conflict", Message: conflict.Error()},
		})
	default:
		c.AbortWithStatusJSON(http.StatusInternalServerError, errorResponse{
			Error: errorBody{Kind: "operation_failed", Message: err.Error()},
		})
	}
}

// writeInvalidJSON reports an unparseable request body.
func writeInvalidJSON(c *gin.Context) {
	c.AbortWithStatusJSON(http.StatusUnprocessableEntity, errorResponse{
		Error: errorBody{Kind: "validation_error", Message: "Invalid JSON body"},
	})
}
