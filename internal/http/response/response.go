package response

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/gamehub-backend/internal/platform/apierr"
)

// ErrorBody is the only error shape the services return.
type ErrorBody struct {
	Message string `json:"message"`
	Error   string `json:"error,omitempty"`
}

type MessageBody struct {
	Message string `json:"message"`
}

func RespondError(c *gin.Context, status int, message string, err error) {
	body := ErrorBody{Message: message}
	if err != nil && err.Error() != message {
		body.Error = err.Error()
	}
	c.AbortWithStatusJSON(status, body)
}

// RespondAPIError translates a service error. Auth failures carry only the
// message so a bad username and a bad password look the same.
func RespondAPIError(c *gin.Context, err error) {
	status := apierr.Status(err)
	message := http.StatusText(status)
	var apiErr *apierr.Error
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		message = apiErr.Message
	}
	if status == http.StatusUnauthorized || status == http.StatusForbidden {
		c.AbortWithStatusJSON(status, ErrorBody{Message: message})
		return
	}
	RespondError(c, status, message, err)
}

func RespondMessage(c *gin.Context, status int, message string) {
	c.JSON(status, MessageBody{Message: message})
}

func RespondOK(c *gin.Context, payload any) {
	c.JSON(http.StatusOK, payload)
}

func RespondCreated(c *gin.Context, payload any) {
	c.JSON(http.StatusCreated, payload)
}
