package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"online-voting-backend/internal/domain"
	"online-voting-backend/internal/testutil"
)

func TestRegisterLoginRoundTrip(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	u, err := f.accounts.Register(ctx, RegisterInput{Email: "a@x.com", Name: "A", Password: "pw1"})
	require.NoError(t, err)
	assert.NotEmpty(t, u.ID)
	assert.True(t, u.IsActive)
	assert.NotEqual(t, "pw1", u.PasswordHash)

	tok, err := f.accounts.Login(ctx, "a@x.com", "pw1")
	require.NoError(t, err)

	claims, err := f.jwter.Parse(tok)
	require.NoError(t, err)
	assert.Equal(t, "a@x.com", claims.Email)
	assert.Equal(t, u.ID, claims.UserID)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.register(t, "dup@x.com")

	_, err := f.accounts.Register(ctx, RegisterInput{Email: "dup@x.com", Name: "B", Password: "other"})
	requireKind(t, domain.KindConflict, err)

	assert.Equal(t, int64(1), testutil.CountRows(t, f.db, &domain.User{}, ""))
}

func TestLoginFailures(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.register(t, "a@x.com")

	_, err := f.accounts.Login(ctx, "nobody@x.com", "pw")
	requireKind(t, domain.KindNotFound, err)

	_, err = f.accounts.Login(ctx, "a@x.com", "wrong")
	requireKind(t, domain.KindUnauthorized, err)
}

func TestUpdateProfile(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	a := f.register(t, "a@x.com")
	f.register(t, "b@x.com")

	name := "Alice"
	got, err := f.accounts.UpdateProfile(ctx, a.ID, UpdateInput{Name: &name})
	require.NoError(t, err)
	assert.Equal(t, "Alice", got.Name)
	assert.Equal(t, "a@x.com", got.Email)
	assert.True(t, got.IsActive)

	taken := "b@x.com"
	_, err = f.accounts.UpdateProfile(ctx, a.ID, UpdateInput{Email: &taken})
	requireKind(t, domain.KindConflict, err)

	// 改成自己原来的邮箱不算冲突
	own := "a@x.com"
	inactive := false
	got, err = f.accounts.UpdateProfile(ctx, a.ID, UpdateInput{Email: &own, IsActive: &inactive})
	require.NoError(t, err)
	assert.False(t, got.IsActive)

	fresh := "alice@x.com"
	got, err = f.accounts.UpdateProfile(ctx, a.ID, UpdateInput{Email: &fresh})
	require.NoError(t, err)
	assert.Equal(t, "alice@x.com", got.Email)

	stored, err := f.store.Users().FindByID(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, "Alice", stored.Name)
	assert.Equal(t, "alice@x.com", stored.Email)
	assert.False(t, stored.IsActive)

	_, err = f.accounts.UpdateProfile(ctx, "missing", UpdateInput{Name: &name})
	requireKind(t, domain.KindNotFound, err)
}

func TestDeleteAccountKeepsVote(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	u := f.register(t, "a@x.com")
	f.addCandidate(t, 1, "C1")
	_, err := f.ballots.Cast(ctx, u.ID, 1)
	require.NoError(t, err)

	require.NoError(t, f.accounts.DeleteAccount(ctx, u.ID))
	requireKind(t, domain.KindNotFound, f.accounts.DeleteAccount(ctx, u.ID))

	_, err = f.accounts.Login(ctx, "a@x.com", "pw")
	requireKind(t, domain.KindNotFound, err)

	tally, err := f.candidates.Tally(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(1), tally.VoteCount)
}
