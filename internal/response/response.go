package response

import (
	"github.com/gin-gonic/gin"
)

// JSON sends data as the bare JSON body with the given status code.
func JSON(c *gin.Context, statusCode int, data interface{}) {
	c.JSON(statusCode, data)
}

// Text sends a plain-text body with the given status code.
func Text(c *gin.Context, statusCode int, body string) {
	c.String(statusCode, body)
}

// Fail pushes err onto the context and aborts the chain; the error
// translator renders it once the handler returns.
func Fail(c *gin.Context, err error) {
	_ = c.Error(err)
	c.Abort()
}

// Render writes err as a plain-text response. Internal errors never leak
// their detail to the client.
func Render(c *gin.Context, err *Error) {
	body := err.Error()
	if err.Code == ErrInternal {
		body = GetMessage(ErrInternal)
	}
	c.String(err.Status(), body)
}
