package postgres_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/yahtzee/internal/storage/postgres"
	"github.com/cory-johannsen/yahtzee/internal/testutil"
)

func uniqueTable(prefix string) string {
	return fmt.Sprintf("%s_%d", prefix, time.Now().UnixNano())
}

func TestResultRepository_SaveAndGet(t *testing.T) {
	repo := postgres.NewResultRepository(testutil.NewPool(t))
	ctx := context.Background()

	saved, err := repo.Save(ctx, postgres.Result{
		TableID: uniqueTable("table"),
		Server:  "test",
		Players: []postgres.ResultPlayer{
			{Seat: 1, Name: "Bo", Score: 212, Rank: 1},
			{Seat: 0, Name: "Al", Score: 175, Rank: 2},
		},
	})
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, saved.ID)
	assert.False(t, saved.FinishedAt.IsZero())

	got, err := repo.Get(ctx, saved.ID)
	require.NoError(t, err)
	assert.Equal(t, saved.TableID, got.TableID)
	assert.Equal(t, "test", got.Server)
	require.Len(t, got.Players, 2)
	assert.Equal(t, "Al", got.Players[0].Name, "players come back in seat order")
	assert.Equal(t, 212, got.Players[1].Score)
}

func TestResultRepository_SaveEmpty(t *testing.T) {
	repo := postgres.NewResultRepository(testutil.NewPool(t))
	_, err := repo.Save(context.Background(), postgres.Result{TableID: "t"})
	assert.ErrorIs(t, err, postgres.ErrEmptyResult)
}

func TestResultRepository_SaveRollsBackOnBadPlayer(t *testing.T) {
	repo := postgres.NewResultRepository(testutil.NewPool(t))
	ctx := context.Background()

	id := uuid.New()
	_, err := repo.Save(ctx, postgres.Result{
		ID:      id,
		TableID: uniqueTable("table"),
		Players: []postgres.ResultPlayer{
			{Seat: 0, Name: "Al", Score: 10, Rank: 1},
			{Seat: 0, Name: "Dup", Score: 5, Rank: 2},
		},
	})
	require.Error(t, err)

	_, err = repo.Get(ctx, id)
	assert.ErrorIs(t, err, pgx.ErrNoRows)
}

func TestResultRepository_TopScores(t *testing.T) {
	repo := postgres.NewResultRepository(testutil.NewPool(t))
	ctx := context.Background()

	_, err := repo.Save(ctx, postgres.Result{
		TableID: "a",
		Players: []postgres.ResultPlayer{
			{Seat: 0, Name: "Al", Score: 120, Rank: 2},
			{Seat: 1, Name: "Bo", Score: 300, Rank: 1},
		},
	})
	require.NoError(t, err)
	_, err = repo.Save(ctx, postgres.Result{
		TableID: "b",
		Players: []postgres.ResultPlayer{{Seat: 0, Name: "Cy", Score: 175, Rank: 1}},
	})
	require.NoError(t, err)

	top, err := repo.TopScores(ctx, 2)
	require.NoError(t, err)
	require.Len(t, top, 2)
	assert.Equal(t, "Bo", top[0].Name)
	assert.Equal(t, 300, top[0].Score)
	assert.Equal(t, "Cy", top[1].Name)

	_, err = repo.TopScores(ctx, 0)
	assert.Error(t, err)
}

// Property: TopScores is always sorted by score, highest first.
func TestPropertyTopScoresSorted(t *testing.T) {
	repo := postgres.NewResultRepository(testutil.NewPool(t))
	ctx := context.Background()

	rapid.Check(t, func(rt *rapid.T) {
		n := rapid.IntRange(1, 4).Draw(rt, "players")
		players := make([]postgres.ResultPlayer, n)
		for i := range players {
			players[i] = postgres.ResultPlayer{
				Seat:  i,
				Name:  fmt.Sprintf("P%d", i+1),
				Score: rapid.IntRange(0, 1575).Draw(rt, "score"),
				Rank:  1,
			}
		}
		_, err := repo.Save(ctx, postgres.Result{TableID: uniqueTable("prop"), Players: players})
		require.NoError(rt, err)

		top, err := repo.TopScores(ctx, 10)
		require.NoError(rt, err)
		for i := 1; i < len(top); i++ {
			assert.GreaterOrEqual(rt, top[i-1].Score, top[i].Score)
		}
	})
}
