package middleware

import (
	"fmt"
	"net/http"
)

func (app *Middleware) Recover(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if p := recover(); p != nil {
				err := fmt.Errorf("%v", p)
				app.log.Error(r.Context(), "panic recovered", err, "path", r.URL.Path)
				w.Header().Set("Connection", "close")
				errorResponse(w, http.StatusInternalServerError, "internal server error")
			}
		}()

		next.ServeHTTP(w, r)
	})
}
