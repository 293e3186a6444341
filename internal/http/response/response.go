package response

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/itigeeks/itigeeks-backend/internal/platform/apierr"
)

type APIError struct {
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

type ErrorEnvelope struct {
	Error APIError `json:"error"`
}

func RespondError(c *gin.Context, status int, code string, err error) {
	msg := http.StatusText(status)
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

// RespondAPIError resolves err through the mappings and writes the
// envelope. 5xx bodies carry the mapping's Message or the status text; the
// cause is only logged.
func RespondAPIError(c *gin.Context, err error, mappings ...apierr.Mapping) *apierr.Error {
	ae := apierr.From(err, mappings...)
	var public error
	if ae.Message != "" {
		public = errors.New(ae.Message)
	}
	if ae.Status >= http.StatusInternalServerError {
		_ = c.Error(err)
		RespondError(c, ae.Status, ae.Code, public)
		return ae
	}
	if public == nil {
		public = ae.Err
	}
	RespondError(c, ae.Status, ae.Code, public)
	return ae
}

func RespondOK(c *gin.Context, payload any) {
	c.JSON(http.StatusOK, payload)
}
