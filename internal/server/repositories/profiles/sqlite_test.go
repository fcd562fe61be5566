package profiles

import (
	"context"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/truproof/internal/common"
	"github.com/dmitrijs2005/truproof/internal/server/models"
	"github.com/dmitrijs2005/truproof/internal/server/repositories/repotest"
)

func TestSQLite_GetMissing(t *testing.T) {
	repo := NewSQLiteRepository(repotest.NewSQLite(t))

	_, err := repo.Get(context.Background(), common.DefaultProfileOwner)
	assert.ErrorIs(t, err, common.ErrorNotFound)
}

func TestSQLite_UpsertInsertsThenUpdates(t *testing.T) {
	ctx := context.Background()
	repo := NewSQLiteRepository(repotest.NewSQLite(t))

	first := &models.Profile{
		OwnerID:     common.DefaultProfileOwner,
		GivenName:   "Jean",
		FamilyName:  "Dupont",
		BirthDate:   "1990-01-01",
		Email:       "jean@example.com",
		Phone:       "+33 1 23 45 67 89",
		Profession:  "Engineer",
		ZipCode:     "75001",
		City:        "Paris",
		Country:     "France",
		Fingerprint: "tru-0123456789abcdef0123456789abcdef",
		CodeImage:   []byte("png-1"),
		UpdatedAt:   time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}
	require.NoError(t, repo.Upsert(ctx, first))

	got, err := repo.Get(ctx, common.DefaultProfileOwner)
	require.NoError(t, err)
	if diff := cmp.Diff(first, got); diff != "" {
		t.Fatalf("profile mismatch (-want +got):\n%s", diff)
	}

	second := *first
	second.Email = ""
	second.City = "Lyon"
	second.Fingerprint = "tru-ffffffffffffffffffffffffffffffff"
	second.CodeImage = []byte("png-2")
	second.UpdatedAt = first.UpdatedAt.Add(time.Hour)
	require.NoError(t, repo.Upsert(ctx, &second))

	got, err = repo.Get(ctx, common.DefaultProfileOwner)
	require.NoError(t, err)
	if diff := cmp.Diff(&second, got); diff != "" {
		t.Fatalf("profile mismatch after update (-want +got):\n%s", diff)
	}
}

func TestSQLite_UpsertWithoutCodeImage(t *testing.T) {
	ctx := context.Background()
	repo := NewSQLiteRepository(repotest.NewSQLite(t))

	p := &models.Profile{OwnerID: "o", BirthDate: "2000-01-01", UpdatedAt: time.Now()}
	require.NoError(t, repo.Upsert(ctx, p))

	got, err := repo.Get(ctx, "o")
	require.NoError(t, err)
	assert.Empty(t, got.Fingerprint)
	assert.Empty(t, got.CodeImage)
}
