package users

import (
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/voltmart/voltmart/internal/platform/httpx"
)

type memoryRepo struct {
	users  map[int64]User
	nextID int64
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{users: map[int64]User{}}
}

func (r *memoryRepo) Create(ctx context.Context, u User) (User, error) {
	r.nextID++
	u.ID = r.nextID
	u.IsActive = true
	r.users[u.ID] = u
	return u, nil
}

func (r *memoryRepo) FindByEmail(ctx context.Context, email string) (*User, error) {
	for _, u := range r.users {
		if u.Email == email {
			u := u
			return &u, nil
		}
	}
	return nil, httpx.ErrNotFound
}

func (r *memoryRepo) FindByID(ctx context.Context, id int64) (*User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, httpx.ErrNotFound
	}
	return &u, nil
}

func (r *memoryRepo) UpdateProfile(ctx context.Context, id int64, update ProfileUpdate) error {
	u, ok := r.users[id]
	if !ok {
		return httpx.Errf(httpx.ErrNotFound, "User not found")
	}
	if update.FirstName != nil {
		u.FirstName = *update.FirstName
	}
	if update.LastName != nil {
		u.LastName = *update.LastName
	}
	if update.Phone != nil {
		u.Phone = update.Phone
	}
	r.users[id] = u
	return nil
}

func (r *memoryRepo) UpdatePassword(ctx context.Context, id int64, passwordHash string) error {
	u, ok := r.users[id]
	if !ok {
		return httpx.Errf(httpx.ErrNotFound, "User not found")
	}
	u.PasswordHash = passwordHash
	r.users[id] = u
	return nil
}

func TestChangePassword(t *testing.T) {
	repo := newMemoryRepo()
	hash, err := bcrypt.GenerateFromPassword([]byte("old-password"), bcrypt.MinCost)
	require.NoError(t, err)
	u, err := repo.Create(context.Background(), User{Email: "dana@example.com", PasswordHash: string(hash)})
	require.NoError(t, err)

	svc := NewService(slog.New(slog.DiscardHandler), repo)
	ctx := context.Background()

	err = svc.ChangePassword(ctx, u.ID, "wrong-password", "new-password-1")
	require.ErrorIs(t, err, httpx.ErrValidation)
	require.EqualError(t, err, "Current password is incorrect")

	require.NoError(t, svc.ChangePassword(ctx, u.ID, "old-password", "new-password-1"))

	stored, err := repo.FindByID(ctx, u.ID)
	require.NoError(t, err)
	require.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("new-password-1")))
}

func TestUpdateProfilePartial(t *testing.T) {
	repo := newMemoryRepo()
	u, err := repo.Create(context.Background(), User{FirstName: "Dana", LastName: "Volt", Email: "dana@example.com"})
	require.NoError(t, err)

	svc := NewService(slog.New(slog.DiscardHandler), repo)
	first := "Daniela"
	updated, err := svc.UpdateProfile(context.Background(), u.ID, ProfileUpdate{FirstName: &first})
	require.NoError(t, err)
	require.Equal(t, "Daniela", updated.FirstName)
	require.Equal(t, "Volt", updated.LastName)
}
