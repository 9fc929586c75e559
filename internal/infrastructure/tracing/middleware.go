package tracing

import (
	"github.com/gin-gonic/gin"

	"github.com/zebras-launcher/backend/internal/shared/id"
)

// HTTPMiddleware creates Gin middleware that traces each request
func HTTPMiddleware(tracer *Tracer) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		if incoming := c.GetHeader(Header); incoming != "" {
			ctx = WithRequestID(ctx, id.RequestID(incoming))
		}

		name := c.FullPath()
		if name == "" {
			name = c.Request.URL.Path
		}
		span, ctx := tracer.StartSpan(ctx, c.Request.Method+" "+name)
		c.Request = c.Request.WithContext(ctx)
		c.Header(Header, span.RequestID.String())

		c.Next()

		span.StatusCode = c.Writer.Status()
		span.SetTag("client_ip", c.ClientIP())
		if len(c.Errors) > 0 {
			span.SetError(c.Errors.Last())
		}

		span.Finish()
		tracer.Submit(span)
	}
}
