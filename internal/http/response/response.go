package response

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/kreators-dev/easyslang-backend/internal/domain"
	"github.com/kreators-dev/easyslang-backend/internal/pkg/apierr"
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

// RespondAppError maps an error to the flow-chat error envelope, using the
// embedded status and code when the error is an *apierr.Error.
func RespondAppError(c *gin.Context, err error) {
	var apiErr *apierr.Error
	if errors.As(err, &apiErr) {
		RespondError(c, apiErr.Status, apiErr.Code, apiErr)
		return
	}
	RespondError(c, http.StatusInternalServerError, "internal_error", err)
}

// RespondEnvelopeOK and RespondEnvelopeError wrap the success/data/error
// shape the non-flow AI endpoints use. Generator failures on those routes
// keep HTTP 200 with success=false, which their clients rely on.
func RespondEnvelopeOK(c *gin.Context, data any) {
	c.JSON(http.StatusOK, domain.Envelope{Success: true, Data: data})
}

func RespondEnvelopeError(c *gin.Context, status int, code, message string) {
	c.JSON(status, domain.Envelope{
		Success: false,
		Error:   &domain.APIError{Code: code, Message: message},
	})
}
