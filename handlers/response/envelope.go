package response

import (
	"net/http"

	customerrors "hotel-server/customErrors"
	"hotel-server/logger"

	"github.com/gin-gonic/gin"
)

// Envelope wraps every API response. The transport status is always 200;
// the semantic status travels in Code.
type Envelope struct {
	Code    int         `json:"code"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

func OK(c *gin.Context, message string, data interface{}) {
	c.JSON(http.StatusOK, Envelope{Code: http.StatusOK, Message: message, Data: data})
}

// Fail writes err into the envelope. Internal failures are logged with
// their detail and reported to the caller as fallback only.
func Fail(c *gin.Context, err error, fallback string) {
	code := customerrors.GetCode(err)
	if customerrors.IsInternal(err) {
		logger.ErrorContext(c.Request.Context(), fallback,
			"method", c.Request.Method,
			"path", c.FullPath(),
			"error", err,
		)
	}
	c.JSON(http.StatusOK, Envelope{Code: code, Message: customerrors.GetMessage(err, fallback)})
}
