package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/nekogravitycat/appointment-booking-backend/internal/pkg/apperror"
)

// Envelope is the uniform JSON body of every response.
type Envelope struct {
	Status string `json:"status"`
	Data   any    `json:"data,omitempty"`
	Error  string `json:"error,omitempty"`
}

const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// Success sends data wrapped in a success envelope.
func Success(c *gin.Context, code int, data any) {
	c.JSON(code, Envelope{Status: StatusSuccess, Data: data})
}

// Error sends an error envelope.
// It checks if the error is an AppError to determine the status code.
// If it's not an AppError, it defaults to 500 Internal Server Error and hides the message.
func Error(c *gin.Context, err error) {
	if code := apperror.StatusOf(err, 0); code != 0 {
		c.JSON(code, Envelope{Status: StatusError, Error: err.Error()})
		return
	}

	_ = c.Error(err)
	c.JSON(http.StatusInternalServerError, Envelope{Status: StatusError, Error: "internal server error"})
}

// Fail sends an error envelope with an explicit status and message.
func Fail(c *gin.Context, code int, message string) {
	c.JSON(code, Envelope{Status: StatusError, Error: message})
}

// Abort is like Fail but stops the handler chain.
func Abort(c *gin.Context, code int, message string) {
	c.AbortWithStatusJSON(code, Envelope{Status: StatusError, Error: message})
}
