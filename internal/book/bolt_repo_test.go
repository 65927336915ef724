package book

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bookstore/internal/testutil"
)

func TestBoltRepo(t *testing.T) {
	db := testutil.OpenBolt(t)
	testutil.PutBoltUser(t, db, "u1")
	repo := NewBoltRepo(db)
	ctx := context.Background()

	var created []Book
	for _, fb := range fixtureBooks() {
		b := Book{Name: fb.Name, Price: fb.Price, AuthorName: fb.AuthorName, OwnerID: "u1"}
		require.NoError(t, repo.Create(ctx, &b))
		created = append(created, b)
	}
	assert.Equal(t, []int64{1, 2, 3, 4}, ids(created))

	t.Run("get", func(t *testing.T) {
		b, err := repo.Get(ctx, 2)
		require.NoError(t, err)
		assert.Equal(t, "Dune", b.Name)
		assert.Equal(t, "150.00", b.Price.String())
		assert.Equal(t, "u1", b.OwnerID)

		_, err = repo.Get(ctx, 99)
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("list applies the query", func(t *testing.T) {
		books, err := repo.List(ctx, Query{Search: []string{"tolkien"}, Ordering: []OrderKey{{Field: OrderPrice, Desc: true}}})
		require.NoError(t, err)
		assert.Equal(t, []int64{4, 1, 3}, ids(books))
	})

	t.Run("update keeps the owner", func(t *testing.T) {
		b := Book{ID: 2, Name: "Dune Messiah", Price: MustPrice("99.5"), AuthorName: "Frank Herbert", OwnerID: "someone"}
		require.NoError(t, repo.Update(ctx, &b))

		got, err := repo.Get(ctx, 2)
		require.NoError(t, err)
		assert.Equal(t, "Dune Messiah", got.Name)
		assert.Equal(t, "99.50", got.Price.String())
		assert.Equal(t, "u1", got.OwnerID)

		assert.ErrorIs(t, repo.Update(ctx, &Book{ID: 99}), ErrNotFound)
	})

	t.Run("delete", func(t *testing.T) {
		require.NoError(t, repo.Delete(ctx, 1))
		_, err := repo.Get(ctx, 1)
		assert.ErrorIs(t, err, ErrNotFound)
		assert.ErrorIs(t, repo.Delete(ctx, 1), ErrNotFound)

		books, err := repo.List(ctx, Query{})
		require.NoError(t, err)
		assert.Len(t, books, 3)
	})

	t.Run("ids are not reused", func(t *testing.T) {
		b := Book{Name: "New", Price: MustPrice("1"), AuthorName: "A", OwnerID: "u1"}
		require.NoError(t, repo.Create(ctx, &b))
		assert.Equal(t, int64(5), b.ID)
	})

	t.Run("unknown owner", func(t *testing.T) {
		b := Book{Name: "Orphan", Price: MustPrice("1"), AuthorName: "A", OwnerID: "ghost"}
		assert.ErrorIs(t, repo.Create(ctx, &b), ErrNotAuthenticated)
	})
}

func TestBoltRepo_AuthorOrdering(t *testing.T) {
	db := testutil.OpenBolt(t)
	testutil.PutBoltUser(t, db, "u1")
	assertAuthorOrder(t, NewBoltRepo(db), "u1")
}
