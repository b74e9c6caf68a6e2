package middleware

import (
	"net/http"
	"strings"

	"github.com/julienschmidt/httprouter"

	apperrors "dentalave/pkg/errors"
	apphttp "dentalave/pkg/http"
	"dentalave/pkg/logger"
	"dentalave/pkg/model"
)

// TokenVerifier checks a bearer token and returns the admin identity it
// carries.
type TokenVerifier interface {
	Verify(token string) (*model.AdminToken, error)
}

// RequireAdmin gates a route behind a valid admin bearer token.
func RequireAdmin(verifier TokenVerifier, log *logger.Logger, next httprouter.Handle) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		token, ok := bearerToken(r)
		if !ok {
			apphttp.WriteError(w, apperrors.Unauthorized("Missing or invalid Authorization header"))
			return
		}

		admin, err := verifier.Verify(token)
		if err != nil {
			log.Warn("Token verification failed",
				"request_id", RequestID(r.Context()),
				"path", r.URL.Path,
				"error", err,
			)
			apphttp.WriteError(w, err)
			return
		}

		log.Debug("Admin authenticated",
			"request_id", RequestID(r.Context()),
			"subject", admin.Subject,
		)

		next(w, r, ps)
	}
}

func bearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	if header == "" {
		return "", false
	}

	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || parts[1] == "" {
		return "", false
	}

	return parts[1], true
}
