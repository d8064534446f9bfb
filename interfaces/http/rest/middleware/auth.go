package middleware

import (
	"errors"
	"net/http"
	"strings"

	"supramolecular/pkg/auth"
	"supramolecular/pkg/common"
	pkgerrors "supramolecular/pkg/errors"
)

// Authenticate requires a valid bearer token. A nil validator disables the
// check.
func Authenticate(validator *auth.JWTValidator, errs *pkgerrors.ErrorHandler) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if validator == nil {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if header == "" {
				errs.Handle(w, r, pkgerrors.NewUnauthorizedError("missing authorization header"))
				return
			}
			scheme, token, ok := strings.Cut(header, " ")
			if !ok || !strings.EqualFold(scheme, "Bearer") {
				errs.Handle(w, r, pkgerrors.NewUnauthorizedError("invalid authorization header format"))
				return
			}

			claims, err := validator.ValidateToken(token)
			if err != nil {
				msg := "invalid token"
				if errors.Is(err, auth.ErrExpiredToken) {
					msg = "token has expired"
				}
				errs.Handle(w, r, pkgerrors.NewUnauthorizedError(msg).WithCause(err))
				return
			}

			next.ServeHTTP(w, r.WithContext(common.WithSubject(r.Context(), claims.Subject)))
		})
	}
}
