package postgres_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/saltmarsh/adventure/internal/game/state"
	"github.com/saltmarsh/adventure/internal/storage/postgres"
	"github.com/saltmarsh/adventure/internal/testutil"
)

func setupSaveRepo(t *testing.T) *postgres.SaveRepository {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping container test in short mode")
	}
	pc := testutil.NewPostgresContainer(t)
	pc.ApplyMigrations(t)
	return postgres.NewSaveRepository(pc.RawPool, "Derelict")
}

func sampleSnapshot() state.Snapshot {
	return state.Snapshot{
		CurrentRoom: "corridor",
		Inventory:   []string{"keycard"},
		Flags:       map[string]any{"hasCard": true},
		Visited:     []string{"bridge", "corridor"},
		ItemLocations: map[string]string{
			"keycard": state.LocationCarried,
			"anchor":  "bridge",
		},
		DialogueNodes: map[string]string{"engineer": "ask"},
	}
}

func TestSaveRepository_SaveAndLoad(t *testing.T) {
	repo := setupSaveRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.Save(ctx, "slot1", sampleSnapshot()))

	got, err := repo.Load(ctx, "slot1")
	require.NoError(t, err)
	assert.Equal(t, "corridor", got.CurrentRoom)
	assert.Equal(t, []string{"keycard"}, got.Inventory)
	assert.Equal(t, true, got.Flags["hasCard"])
	assert.ElementsMatch(t, []string{"bridge", "corridor"}, got.Visited)
	assert.Equal(t, state.LocationCarried, got.ItemLocations["keycard"])
	assert.Equal(t, "ask", got.DialogueNodes["engineer"])
}

func TestSaveRepository_SaveOverwritesSlot(t *testing.T) {
	repo := setupSaveRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.Save(ctx, "slot1", sampleSnapshot()))

	updated := sampleSnapshot()
	updated.CurrentRoom = "vault"
	updated.Completed = true
	require.NoError(t, repo.Save(ctx, "slot1", updated))

	got, err := repo.Load(ctx, "slot1")
	require.NoError(t, err)
	assert.Equal(t, "vault", got.CurrentRoom)
	assert.True(t, got.Completed)

	saves, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Len(t, saves, 1, "upsert must not create a second row")
}

func TestSaveRepository_LoadMissingSlot(t *testing.T) {
	repo := setupSaveRepo(t)
	_, err := repo.Load(context.Background(), "nope")
	assert.ErrorIs(t, err, postgres.ErrSaveNotFound)
}

func TestSaveRepository_List(t *testing.T) {
	repo := setupSaveRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.Save(ctx, "a", sampleSnapshot()))
	require.NoError(t, repo.Save(ctx, "b", sampleSnapshot()))

	saves, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, saves, 2)
	for _, s := range saves {
		assert.Equal(t, "Derelict", s.GameTitle)
		assert.NotZero(t, s.ID)
		assert.False(t, s.CreatedAt.IsZero())
	}
}

func TestSaveRepository_Delete(t *testing.T) {
	repo := setupSaveRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.Save(ctx, "slot1", sampleSnapshot()))
	require.NoError(t, repo.Delete(ctx, "slot1"))

	_, err := repo.Load(ctx, "slot1")
	assert.ErrorIs(t, err, postgres.ErrSaveNotFound)

	assert.ErrorIs(t, repo.Delete(ctx, "slot1"), postgres.ErrSaveNotFound)
}

func TestSaveRepository_SlotsScopedByGameTitle(t *testing.T) {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping container test in short mode")
	}
	pc := testutil.NewPostgresContainer(t)
	pc.ApplyMigrations(t)

	repoA := postgres.NewSaveRepository(pc.RawPool, "Derelict")
	repoB := postgres.NewSaveRepository(pc.RawPool, "Other Game")
	ctx := context.Background()

	require.NoError(t, repoA.Save(ctx, "slot1", sampleSnapshot()))

	_, err := repoB.Load(ctx, "slot1")
	assert.ErrorIs(t, err, postgres.ErrSaveNotFound)
}
