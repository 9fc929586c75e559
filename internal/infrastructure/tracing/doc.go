/*
Package tracing tags every API request with a request ID and logs a span
for it when the handler returns.

The ID is taken from an incoming X-Request-ID header or generated with the
req_ prefix, stored on the request context and echoed back in the response.
Finished spans go through a buffered collector (1000 spans) and are logged
with zap; errors at error level, everything else at debug.

	tracer := tracing.New(logger)
	defer tracer.Close()
	router.Use(tracing.HTTPMiddleware(tracer))
*/
package tracing
