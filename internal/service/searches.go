package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/starford/laguz/internal/apperr"
	"github.com/starford/laguz/internal/models"
)

// SaveSearch validates and persists a named search definition.
func (s *Service) SaveSearch(ctx context.Context, in SavedSearchInput) (*models.SavedSearch, error) {
	if err := in.Validate(); err != nil {
		return nil, apperr.Validation(err)
	}

	id := in.ID
	if id == "" {
		id = uuid.NewString()
	}
	searchType := in.SearchType
	if searchType == "" {
		searchType = models.SearchTypeText
	}
	ss := models.SavedSearch{
		ID:         id,
		Name:       in.Name,
		Query:      in.Query,
		SearchType: searchType,
		Parameters: in.Parameters,
		CreatedAt:  time.Now().UTC(),
	}
	if err := s.store.SaveSearch(ctx, ss); err != nil {
		return nil, err
	}
	return &ss, nil
}

// ListSavedSearches returns saved searches ranked by usage.
func (s *Service) ListSavedSearches(ctx context.Context) ([]models.SavedSearch, error) {
	return s.store.ListSavedSearches(ctx)
}

// UseSavedSearch records a use of the search and runs it.
func (s *Service) UseSavedSearch(ctx context.Context, id string, limit int) ([]models.Note, error) {
	ss, err := s.store.GetSavedSearch(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.store.TouchSavedSearch(ctx, id, time.Now().UTC()); err != nil {
		return nil, err
	}
	query := ss.Query
	if ss.SearchType == models.SearchTypeTag && query != "" && query[0] != '#' {
		query = "#" + query
	}
	return s.store.SearchNotes(ctx, query, limit)
}

// DeleteSavedSearch removes a saved search.
func (s *Service) DeleteSavedSearch(ctx context.Context, id string) error {
	return s.store.DeleteSavedSearch(ctx, id)
}
