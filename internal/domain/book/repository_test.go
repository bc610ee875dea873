package book

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"bookshelf/internal/database"
)

func setupRepo(t *testing.T) (Repository, *gorm.DB) {
	t.Helper()

	db, err := database.Connect(":memory:")
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&Book{}))

	return NewRepository(db), db
}

func mustCreate(t *testing.T, repo Repository, title string, size int64, createdAt time.Time) Book {
	t.Helper()
	b := Book{
		Title:      title,
		StoredName: title + ".pdf",
		SizeBytes:  size,
		Status:     StatusNotStarted,
		PublicURL:  "https://blobs.test/" + title,
		CreatedAt:  createdAt,
	}
	require.NoError(t, repo.Create(context.Background(), &b))
	require.NotEmpty(t, b.ID, "id is assigned at insert")
	return b
}

func TestRepository_ListAll_NewestFirst(t *testing.T) {
	repo, _ := setupRepo(t)
	ctx := context.Background()

	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	b1 := mustCreate(t, repo, "first", 100, base)
	b2 := mustCreate(t, repo, "second", 200, base.Add(time.Minute))
	b3 := mustCreate(t, repo, "third", 300, base.Add(2*time.Minute))

	books, err := repo.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, books, 3)
	assert.Equal(t, b3.ID, books[0].ID)
	assert.Equal(t, b2.ID, books[1].ID)
	assert.Equal(t, b1.ID, books[2].ID)
}

func TestRepository_UpdateStatus_TouchesOnlyStatus(t *testing.T) {
	repo, _ := setupRepo(t)
	ctx := context.Background()

	created := mustCreate(t, repo, "manual", 2097152, time.Now().UTC())

	require.NoError(t, repo.UpdateStatus(ctx, created.ID, StatusDone))
	// idempotent: the second call yields the same observable state
	require.NoError(t, repo.UpdateStatus(ctx, created.ID, StatusDone))

	books, err := repo.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, books, 1)

	got := books[0]
	assert.Equal(t, StatusDone, got.Status)
	assert.Equal(t, created.Title, got.Title)
	assert.Equal(t, created.StoredName, got.StoredName)
	assert.Equal(t, created.SizeBytes, got.SizeBytes)
	assert.Equal(t, created.PublicURL, got.PublicURL)
}

func TestRepository_UpdateStatus_UnknownID(t *testing.T) {
	repo, _ := setupRepo(t)

	err := repo.UpdateStatus(context.Background(), "no-such-id", StatusStarted)
	assert.ErrorIs(t, err, ErrBookNotFound)
}

func TestRepository_Delete(t *testing.T) {
	repo, _ := setupRepo(t)
	ctx := context.Background()

	created := mustCreate(t, repo, "manual", 100, time.Now().UTC())

	require.NoError(t, repo.Delete(ctx, created.ID))
	assert.ErrorIs(t, repo.Delete(ctx, created.ID), ErrBookNotFound)

	books, err := repo.ListAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, books)
}

func TestRepository_TotalSizeAndStoredNames(t *testing.T) {
	repo, _ := setupRepo(t)
	ctx := context.Background()

	total, err := repo.TotalSize(ctx)
	require.NoError(t, err)
	assert.Zero(t, total, "empty catalog uses no storage")

	mustCreate(t, repo, "a", 100, time.Now().UTC())
	mustCreate(t, repo, "b", 250, time.Now().UTC())

	total, err = repo.TotalSize(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(350), total)

	names, err := repo.StoredNames(ctx)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"a.pdf", "b.pdf"}, names)
}

func TestRepository_DeleteAll(t *testing.T) {
	repo, _ := setupRepo(t)
	ctx := context.Background()

	mustCreate(t, repo, "a", 100, time.Now().UTC())
	mustCreate(t, repo, "b", 250, time.Now().UTC())

	require.NoError(t, repo.DeleteAll(ctx))

	books, err := repo.ListAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, books)
}
