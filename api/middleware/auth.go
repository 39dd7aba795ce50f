package middleware

import (
	"context"
	"net/http"
	"strings"

	fbauth "firebase.google.com/go/v4/auth"

	"github.com/HYPERLOOPFIVER/lakes/api/responses"
	pkgauth "github.com/HYPERLOOPFIVER/lakes/pkg/auth"
	"github.com/HYPERLOOPFIVER/lakes/pkg/config"
	pkgerrors "github.com/HYPERLOOPFIVER/lakes/pkg/errors"
	"github.com/HYPERLOOPFIVER/lakes/pkg/logger"
)

// TokenVerifier is satisfied by the Firebase auth client.
type TokenVerifier interface {
	VerifyIDToken(ctx context.Context, idToken string) (*fbauth.Token, error)
}

// Auth validates a bearer token and seeds the request context with the
// authenticated user. Production traffic carries Firebase ID tokens;
// when no verifier is wired the locally minted HS256 token is accepted
// so the stack runs without Firebase credentials.
func Auth(cfg config.JWTConfig, verifier TokenVerifier, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := bearerToken(r)
			if token == "" {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials"))
				return
			}

			userID, email, err := identify(r.Context(), cfg, verifier, token)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}

			ctx := WithUserID(r.Context(), userID)
			if email != "" {
				ctx = WithUserEmail(ctx, email)
			}
			if logg != nil {
				ctx = logg.WithUserID(ctx, userID)
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func identify(ctx context.Context, cfg config.JWTConfig, verifier TokenVerifier, token string) (userID, email string, err error) {
	if verifier != nil {
		decoded, verifyErr := verifier.VerifyIDToken(ctx, token)
		if verifyErr != nil {
			return "", "", pkgerrors.Wrap(pkgerrors.CodeUnauthorized, verifyErr, "invalid token")
		}
		if e, ok := decoded.Claims["email"].(string); ok {
			email = e
		}
		return decoded.UID, email, nil
	}

	if cfg.Secret == "" {
		return "", "", pkgerrors.New(pkgerrors.CodeDependency, "token verification unavailable")
	}
	claims, parseErr := pkgauth.ParseDevToken(cfg, token)
	if parseErr != nil {
		return "", "", pkgerrors.Wrap(pkgerrors.CodeUnauthorized, parseErr, "invalid token")
	}
	if claims.UserID == "" {
		return "", "", pkgerrors.New(pkgerrors.CodeUnauthorized, "missing user id")
	}
	return claims.UserID, claims.Email, nil
}

func bearerToken(r *http.Request) string {
	raw := strings.TrimSpace(r.Header.Get("Authorization"))
	if raw == "" {
		return ""
	}
	if strings.HasPrefix(strings.ToLower(raw), "bearer ") {
		return strings.TrimSpace(raw[7:])
	}
	return raw
}
