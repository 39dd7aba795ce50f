package controllers

import (
	"net/http"
	"time"

	"github.com/HYPERLOOPFIVER/lakes/api/responses"
	"github.com/HYPERLOOPFIVER/lakes/api/validators"
	pkgauth "github.com/HYPERLOOPFIVER/lakes/pkg/auth"
	"github.com/HYPERLOOPFIVER/lakes/pkg/config"
	pkgerrors "github.com/HYPERLOOPFIVER/lakes/pkg/errors"
	"github.com/HYPERLOOPFIVER/lakes/pkg/logger"
)

type devTokenRequest struct {
	UserID string `json:"userId" validate:"required"`
	Email  string `json:"email,omitempty" validate:"omitempty,email"`
	Name   string `json:"name,omitempty"`
}

// DevToken mints a local HS256 token. The route is only mounted outside
// production.
func DevToken(cfg config.JWTConfig, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload devTokenRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		token, err := pkgauth.MintDevToken(cfg, time.Now(), pkgauth.TokenPayload{
			UserID: payload.UserID,
			Email:  payload.Email,
			Name:   payload.Name,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "mint dev token"))
			return
		}
		responses.WriteSuccess(w, map[string]string{"token": token})
	}
}
