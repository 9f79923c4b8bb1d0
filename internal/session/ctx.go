package session

import (
	"context"

	"github.com/and161185/starostahub/internal/model"
)

type ctxKey string

const identityKey ctxKey = "starosta.identity"

// WithIdentity stores the acting identity in context.
func WithIdentity(ctx context.Context, id model.Identity) context.Context {
	return context.WithValue(ctx, identityKey, id)
}

// IdentityFromCtx fetches the acting identity from context.
func IdentityFromCtx(ctx context.Context) (model.Identity, bool) {
	v := ctx.Value(identityKey)
	if v == nil {
		return model.Identity{}, false
	}
	id, ok := v.(model.Identity)
	return id, ok && !id.Empty()
}
