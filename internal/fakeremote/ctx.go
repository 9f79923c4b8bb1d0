package fakeremote

import (
	"context"

	"github.com/and161185/starostahub/internal/model"
)

type bodyKey struct{}

func withBody(ctx context.Context, b []byte) context.Context {
	return context.WithValue(ctx, bodyKey{}, b)
}

func bodyFrom(ctx context.Context) []byte {
	b, _ := ctx.Value(bodyKey{}).([]byte)
	return b
}

func withUser(ctx context.Context, id model.ID) context.Context {
	return context.WithValue(ctx, userKey{}, id)
}

func userFrom(ctx context.Context) model.ID {
	id, _ := ctx.Value(userKey{}).(model.ID)
	return id
}
