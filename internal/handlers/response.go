package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/openlms/authoring-backend/internal/drip"
	pkgerrors "github.com/openlms/authoring-backend/internal/pkg/errors"
	"github.com/openlms/authoring-backend/internal/tree"
)

type APIError struct {
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

type ErrorEnvelope struct {
	Error APIError `json:"error"`
}

func RespondError(c *gin.Context, status int, code string, err error) {
	msg := "unknown error"
	if err != nil {
		msg = err.Error()
	}
	c.JSON(status, ErrorEnvelope{
		Error: APIError{
			Message: msg,
			Code:    code,
		},
	})
}

func RespondOK(c *gin.Context, payload any) {
	c.JSON(http.StatusOK, payload)
}

// respondMapped translates domain errors into HTTP statuses: validation
// failures are the client's fault, mutation failures mean the write could not
// be confirmed upstream, everything else is a 500.
func respondMapped(c *gin.Context, code string, err error) {
	var vErr *drip.ValidationError
	var mErr *tree.MutationError
	switch {
	case errors.As(err, &vErr):
		RespondError(c, http.StatusUnprocessableEntity, code, err)
	case errors.As(err, &mErr):
		RespondError(c, http.StatusBadGateway, code, err)
	case errors.Is(err, pkgerrors.ErrNotFound):
		RespondError(c, http.StatusNotFound, code, err)
	case errors.Is(err, pkgerrors.ErrInvalidArgument):
		RespondError(c, http.StatusBadRequest, code, err)
	case errors.Is(err, pkgerrors.ErrUnauthorized):
		RespondError(c, http.StatusUnauthorized, code, err)
	default:
		RespondError(c, http.StatusInternalServerError, code, err)
	}
}
