package httpx

import (
	"fmt"
	"net/http"

	"go.uber.org/zap"
)

// RecoveryMiddleware turns a handler panic into a 500 response. It must run
// inside AccessLogMiddleware so it can tell whether a response has already
// been started.
func RecoveryMiddleware(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				v := recover()
				if v == nil {
					return
				}
				if v == http.ErrAbortHandler {
					panic(v)
				}

				err, ok := v.(error)
				if !ok {
					err = fmt.Errorf("%v", v)
				}
				logger.Error("panic recovered",
					zap.String("request.id", RequestIDFrom(r)),
					zap.String("method", r.Method),
					zap.String("path", r.URL.Path),
					zap.Error(err),
					zap.Stack("stack"),
				)

				if rec, ok := w.(*statusRecorder); ok && rec.committed() {
					return
				}
				InternalError(w, r)
			}()
			next.ServeHTTP(w, r)
		})
	}
}
