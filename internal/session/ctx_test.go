package session

import (
	"context"
	"testing"

	"github.com/and161185/starostahub/internal/model"
)

func TestWithIdentity_And_IdentityFromCtx(t *testing.T) {
	t.Parallel()

	if _, ok := IdentityFromCtx(context.Background()); ok {
		t.Fatalf("expected no identity in empty ctx")
	}

	want := model.Identity{UserID: 3, AccessToken: "A"}
	got, ok := IdentityFromCtx(WithIdentity(context.Background(), want))
	if !ok || got != want {
		t.Fatalf("mismatch: got %+v ok=%v", got, ok)
	}

	if _, ok := IdentityFromCtx(WithIdentity(context.Background(), model.Identity{})); ok {
		t.Fatalf("empty identity must not count as a session")
	}

	bad := context.WithValue(context.Background(), identityKey, "not-identity")
	if _, ok := IdentityFromCtx(bad); ok {
		t.Fatalf("expected miss on wrong typed value")
	}
}
