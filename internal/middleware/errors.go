package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/yungbote/company-registry-backend/internal/platform/apierr"
	"github.com/yungbote/company-registry-backend/internal/platform/logger"
)

// FaultResponse is the wire shape of every failed request. Internal error
// detail stays in the logs; the client only sees kind, message and the
// correlation id.
type FaultResponse struct {
	StatusCode   int    `json:"statusCode"`
	ErrorType    string `json:"errorType"`
	ErrorMessage string `json:"errorMessage"`
	TraceID      string `json:"traceId"`
}

// Translator is the outermost edge of the pipeline: it assigns a correlation
// id to the request and turns whatever escapes the handler chain into a
// structured fault response.
func Translator(baseLog *logger.Logger) gin.HandlerFunc {
	log := baseLog.With("middleware", "Translator")
	return func(c *gin.Context) {
		traceID := uuid.New().String()
		c.Writer.Header().Set("X-Request-ID", traceID)

		defer func() {
			if r := recover(); r != nil {
				log.Error("panic recovered", "trace_id", traceID, "panic", r)
				writeFault(c, http.StatusInternalServerError, "InternalServerError", "unexpected error", traceID)
			}
		}()

		c.Next()

		if len(c.Errors) == 0 {
			return
		}
		err := c.Errors[0].Err
		if apiErr, ok := apierr.From(err); ok {
			log.Warn("request failed",
				"trace_id", traceID,
				"kind", apiErr.Kind,
				"status", apiErr.Status,
				"error", apiErr.Error(),
				"cause", apiErr.Unwrap(),
			)
			writeFault(c, apiErr.Status, apiErr.Kind, apiErr.Message, traceID)
			return
		}
		log.Error("unexpected error", "trace_id", traceID, "error", err)
		writeFault(c, http.StatusInternalServerError, "InternalServerError", "unexpected error", traceID)
	}
}

func writeFault(c *gin.Context, status int, kind, message string, traceID string) {
	if c.Writer.Written() {
		return
	}
	c.JSON(status, FaultResponse{
		StatusCode:   status,
		ErrorType:    kind,
		ErrorMessage: message,
		TraceID:      traceID,
	})
}
