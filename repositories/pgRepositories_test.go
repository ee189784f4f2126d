package repositories

import (
	"context"
	"fmt"
	"testing"
	"time"

	"hotel-server/db"
	"hotel-server/entities"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupTestDB creates an in-memory SQLite database for testing
func setupTestDB(t *testing.T) db.Database {
	t.Helper()

	database, err := db.OpenInMemory()
	if err != nil {
		t.Fatalf("failed to connect database: %v", err)
	}
	t.Cleanup(func() { _ = database.Close() })
	return database
}

func TestUserRepository_CreateAndFind(t *testing.T) {
	ctx := context.Background()
	repo := NewUserPgRepository(setupTestDB(t))

	user := &entities.User{Username: "alice", Email: "alice@example.com", PasswordHash: "hash"}
	require.NoError(t, repo.Create(ctx, user))
	assert.NotEmpty(t, user.ID)
	assert.Equal(t, entities.RoleUser, user.Role)
	assert.Equal(t, entities.UserStatusActive, user.Status)

	tests := []struct {
		name     string
		email    string
		username string
		wantErr  error
	}{
		{"by email", "alice@example.com", "nobody", nil},
		{"by username", "nobody@example.com", "alice", nil},
		{"no match", "bob@example.com", "bob", ErrNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			found, err := repo.FindByEmailOrUsername(ctx, tt.email, tt.username)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, user.ID, found.ID)
		})
	}
}

func TestUserRepository_UniqueUsername(t *testing.T) {
	ctx := context.Background()
	repo := NewUserPgRepository(setupTestDB(t))

	require.NoError(t, repo.Create(ctx, &entities.User{Username: "alice", Email: "a@example.com", PasswordHash: "h"}))
	err := repo.Create(ctx, &entities.User{Username: "alice", Email: "b@example.com", PasswordHash: "h"})
	assert.Error(t, err)
}

func TestUserRepository_UpdateToken(t *testing.T) {
	ctx := context.Background()
	repo := NewUserPgRepository(setupTestDB(t))

	user := &entities.User{Username: "alice", Email: "a@example.com", PasswordHash: "h"}
	require.NoError(t, repo.Create(ctx, user))

	require.NoError(t, repo.UpdateToken(ctx, user.ID, "tok-1"))
	found, err := repo.FindByUsername(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, "tok-1", found.Token)

	assert.ErrorIs(t, repo.UpdateToken(ctx, "missing", "tok"), ErrNotFound)
}

func seedHotels(t *testing.T, repo HotelRepository, n int) []*entities.Hotel {
	t.Helper()
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	out := make([]*entities.Hotel, 0, n)
	for i := 0; i < n; i++ {
		h := &entities.Hotel{
			Name:      fmt.Sprintf("Hotel %02d", i),
			City:      []string{"Xi'an", "Beijing"}[i%2],
			Price:     float64(100 + i),
			OwnerID:   "u1",
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		}
		require.NoError(t, repo.Create(context.Background(), h))
		out = append(out, h)
	}
	return out
}

func TestHotelRepository_ListPagination(t *testing.T) {
	repo := NewHotelPgRepository(setupTestDB(t))
	seeded := seedHotels(t, repo, 12)

	items, total, err := repo.List(context.Background(), HotelFilter{}, 5, 5)
	require.NoError(t, err)
	assert.EqualValues(t, 12, total)
	require.Len(t, items, 5)

	// newest first: the 6th..10th most recent are seeded[6]..seeded[2]
	for i, h := range items {
		assert.Equal(t, seeded[11-5-i].ID, h.ID)
	}
}

func TestHotelRepository_ListFilter(t *testing.T) {
	repo := NewHotelPgRepository(setupTestDB(t))
	seedHotels(t, repo, 6)

	items, total, err := repo.List(context.Background(), HotelFilter{City: "Beijing", OwnerID: "u1"}, 0, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 3, total)
	for _, h := range items {
		assert.Equal(t, "Beijing", h.City)
	}

	_, total, err = repo.List(context.Background(), HotelFilter{Status: entities.HotelStatusApproved}, 0, 10)
	require.NoError(t, err)
	assert.Zero(t, total)

	total, err = repo.Count(context.Background(), HotelFilter{City: "Beijing", OwnerID: "u1"})
	require.NoError(t, err)
	assert.EqualValues(t, 3, total)
}

func TestHotelRepository_RoundTripsLists(t *testing.T) {
	ctx := context.Background()
	repo := NewHotelPgRepository(setupTestDB(t))

	h := &entities.Hotel{
		Name: "Lotus Inn", City: "Xi'an", Price: 299, OwnerID: "u1",
		Images:    []string{"/uploads/1-a.jpg"},
		Amenities: []string{"wifi", "parking"},
		RoomTypes: []entities.RoomType{{Name: "Twin", Price: 199, Capacity: 2, Count: 4}},
	}
	require.NoError(t, repo.Create(ctx, h))

	got, err := repo.GetByID(ctx, h.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"/uploads/1-a.jpg"}, got.Images)
	assert.Equal(t, []string{"wifi", "parking"}, got.Amenities)
	require.Len(t, got.RoomTypes, 1)
	assert.Equal(t, "Twin", got.RoomTypes[0].Name)
	assert.Equal(t, []string{}, got.RoomTypes[0].Amenities)
}

func TestHotelRepository_UpdateAndDelete(t *testing.T) {
	ctx := context.Background()
	repo := NewHotelPgRepository(setupTestDB(t))
	h := seedHotels(t, repo, 1)[0]

	h.Rating = 4
	h.Images = []string{}
	require.NoError(t, repo.Update(ctx, h))

	got, err := repo.GetByID(ctx, h.ID)
	require.NoError(t, err)
	assert.Equal(t, 4.0, got.Rating)
	assert.Equal(t, h.CreatedAt.Unix(), got.CreatedAt.Unix())

	assert.ErrorIs(t, repo.Update(ctx, &entities.Hotel{ID: "missing"}), ErrNotFound)

	require.NoError(t, repo.Delete(ctx, h.ID))
	assert.ErrorIs(t, repo.Delete(ctx, h.ID), ErrNotFound)
	_, err = repo.GetByID(ctx, h.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}
