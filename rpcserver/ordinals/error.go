package ordinals

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ordview-labs/ordview/common"
)

type errorKind int

const (
	kindInternal errorKind = iota
	kindNotFound
	kindBadRequest
)

// ServerError is the only error type handlers produce. Every failure is
// classified at the point it occurs: entity absence is NotFound, input
// shape violations are BadRequest, everything else is Internal.
type ServerError struct {
	kind    errorKind
	message string
	cause   error
}

func (e *ServerError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.message, e.cause)
	}
	return e.message
}

func errInternal(cause error, format string, args ...any) *ServerError {
	return &ServerError{kind: kindInternal, message: fmt.Sprintf(format, args...), cause: cause}
}

func errNotFound(format string, args ...any) *ServerError {
	return &ServerError{kind: kindNotFound, message: fmt.Sprintf(format, args...)}
}

func errBadRequest(format string, args ...any) *ServerError {
	return &ServerError{kind: kindBadRequest, message: fmt.Sprintf(format, args...)}
}

// abortWithError writes the response for a ServerError. NotFound and
// BadRequest bodies carry the component's literal message; Internal
// bodies never leak the cause, it is only logged.
func abortWithError(c *gin.Context, err *ServerError) {
	switch err.kind {
	case kindNotFound:
		c.String(http.StatusNotFound, err.message)
	case kindBadRequest:
		c.String(http.StatusBadRequest, err.message)
	default:
		common.Log.Errorf("%s %s: %v", c.Request.Method, c.Request.URL.Path, err)
		c.String(http.StatusInternalServerError, "Internal Server Error")
	}
	c.Abort()
}
