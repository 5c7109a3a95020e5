package auth

import (
	"context"

	apperrors "github.com/dist-ecom/product-service/pkg/errors"
	"github.com/dist-ecom/product-service/pkg/middleware"

	"github.com/dist-ecom/product-service/internal/domain"
)

// ActorFromContext resolves the authenticated actor from the request
// context populated by the auth middleware. Role strings are matched
// case-insensitively; unknown roles are rejected rather than defaulted.
func ActorFromContext(ctx context.Context) (domain.Actor, error) {
	userID := middleware.UserIDFromContext(ctx)
	if userID == "" {
		return domain.Actor{}, apperrors.Unauthorized("authentication required")
	}

	role, ok := domain.ParseRole(middleware.RoleFromContext(ctx))
	if !ok {
		return domain.Actor{}, apperrors.Forbidden("unrecognized role")
	}

	return domain.Actor{ID: userID, Role: role}, nil
}
