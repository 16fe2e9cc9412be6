package stores

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mrlokans/bookshelf/internal/entities"
)

func TestBooksStore_DerivedFlags(t *testing.T) {
	store := NewBooksStore()
	assert.False(t, store.HasResults())
	assert.False(t, store.IsEmpty(), "nothing searched yet")

	store.SetSearchResults([]entities.Book{{ID: "1", Title: "Dune", Author: "Herbert"}}, "dune")
	assert.True(t, store.HasResults())
	assert.False(t, store.IsEmpty())
	assert.Equal(t, "1", store.SearchResults()[0].ID)
	assert.Equal(t, "dune", store.CurrentQuery())

	store.SetSearchResults(nil, "zzz")
	assert.True(t, store.IsEmpty())

	store.SetLoading(true)
	assert.False(t, store.IsEmpty())
	store.SetLoading(false)

	store.SetError("network error")
	assert.False(t, store.IsEmpty())
}

func TestBooksStore_Cached(t *testing.T) {
	store := NewBooksStore()
	store.SetSearchResults([]entities.Book{{ID: "1"}}, "dune")

	books, ok := store.Cached("dune")
	assert.True(t, ok)
	assert.Len(t, books, 1)

	_, ok = store.Cached("Dune")
	assert.False(t, ok, "match is exact")
	_, ok = store.Cached(" dune")
	assert.False(t, ok, "no trimming")

	store.SetSearchResults(nil, "empty")
	_, ok = store.Cached("empty")
	assert.False(t, ok, "empty results are not reused")
}

func TestBooksStore_SetSearchResultsClearsError(t *testing.T) {
	store := NewBooksStore()
	store.SetError("boom")
	store.SetSearchResults([]entities.Book{{ID: "1"}}, "q")
	assert.Empty(t, store.Error())
}

func TestBooksStore_ClearSearch(t *testing.T) {
	store := NewBooksStore()
	store.SetSearchResults([]entities.Book{{ID: "1"}}, "q")
	store.SetLoading(true)

	store.ClearSearch()

	assert.Empty(t, store.SearchResults())
	assert.Empty(t, store.CurrentQuery())
	assert.False(t, store.HasSearched())
	assert.False(t, store.Loading())
}

func TestBooksStore_FindByID(t *testing.T) {
	store := NewBooksStore()
	store.SetSearchResults([]entities.Book{{ID: "1", Title: "Dune"}, {ID: "2", Title: "Emma"}}, "q")

	book, ok := store.FindByID("2")
	assert.True(t, ok)
	assert.Equal(t, "Emma", book.Title)

	_, ok = store.FindByID("3")
	assert.False(t, ok)
}
