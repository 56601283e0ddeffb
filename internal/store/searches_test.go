package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/starford/laguz/internal/apperr"
	"github.com/starford/laguz/internal/models"
)

func savedSearch(id, name, query string) models.SavedSearch {
	return models.SavedSearch{
		ID:         id,
		Name:       name,
		Query:      query,
		SearchType: models.SearchTypeText,
		CreatedAt:  time.Now().UTC(),
	}
}

func TestSaveAndGetSearch(t *testing.T) {
	st := testStore(t)
	ctx := context.Background()

	ss := savedSearch("s1", "My Search", "golang tips")
	if err := st.SaveSearch(ctx, ss); err != nil {
		t.Fatalf("SaveSearch: %v", err)
	}

	got, err := st.GetSavedSearch(ctx, "s1")
	if err != nil {
		t.Fatalf("GetSavedSearch: %v", err)
	}
	if got.Name != "My Search" || got.Query != "golang tips" {
		t.Errorf("saved search = %+v", got)
	}
}

func TestSaveSearchUpdatePreservesUsage(t *testing.T) {
	st := testStore(t)
	ctx := context.Background()
	now := time.Now().UTC()

	if err := st.SaveSearch(ctx, savedSearch("s1", "Old", "old query")); err != nil {
		t.Fatal(err)
	}
	if err := st.TouchSavedSearch(ctx, "s1", now); err != nil {
		t.Fatal(err)
	}

	// Re-saving the definition must not reset usage tracking.
	if err := st.SaveSearch(ctx, savedSearch("s1", "New", "new query")); err != nil {
		t.Fatal(err)
	}

	got, _ := st.GetSavedSearch(ctx, "s1")
	if got.Name != "New" || got.Query != "new query" {
		t.Errorf("definition not updated: %+v", got)
	}
	if got.UsageCount != 1 {
		t.Errorf("usage_count = %d, want 1", got.UsageCount)
	}
	if got.LastUsedAt == nil {
		t.Error("last_used_at reset on update")
	}
}

func TestListSavedSearchesRankedByUsage(t *testing.T) {
	st := testStore(t)
	ctx := context.Background()
	now := time.Now().UTC()

	for _, id := range []string{"rare", "popular"} {
		if err := st.SaveSearch(ctx, savedSearch(id, id, "q")); err != nil {
			t.Fatal(err)
		}
	}
	for i := 0; i < 3; i++ {
		if err := st.TouchSavedSearch(ctx, "popular", now.Add(time.Duration(i)*time.Second)); err != nil {
			t.Fatal(err)
		}
	}
	if err := st.TouchSavedSearch(ctx, "rare", now); err != nil {
		t.Fatal(err)
	}

	list, err := st.ListSavedSearches(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(list) != 2 || list[0].ID != "popular" {
		t.Errorf("order = %+v, want popular first", list)
	}
	if list[0].UsageCount != 3 {
		t.Errorf("usage_count = %d, want 3", list[0].UsageCount)
	}
}

func TestTouchMissingSearch(t *testing.T) {
	st := testStore(t)
	if err := st.TouchSavedSearch(context.Background(), "nope", time.Now()); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestDeleteSavedSearch(t *testing.T) {
	st := testStore(t)
	ctx := context.Background()

	if err := st.SaveSearch(ctx, savedSearch("s1", "S", "q")); err != nil {
		t.Fatal(err)
	}
	if err := st.DeleteSavedSearch(ctx, "s1"); err != nil {
		t.Fatalf("DeleteSavedSearch: %v", err)
	}
	if _, err := st.GetSavedSearch(ctx, "s1"); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("deleted search still present: %v", err)
	}
	if err := st.DeleteSavedSearch(ctx, "s1"); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("double delete = %v, want ErrNotFound", err)
	}
}
