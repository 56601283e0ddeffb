package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/starford/laguz/internal/apperr"
	"github.com/starford/laguz/internal/models"
)

// UpsertFolder validates and writes a folder, recomputing cached paths.
func (s *Service) UpsertFolder(ctx context.Context, in FolderInput) (*models.Folder, error) {
	if err := in.Validate(); err != nil {
		return nil, apperr.Validation(err)
	}

	id := in.ID
	if id == "" {
		id = uuid.NewString()
	}
	f := models.Folder{
		ID:        id,
		Name:      in.Name,
		ParentID:  in.ParentID,
		SortOrder: in.SortOrder,
		UpdatedAt: time.Now().UTC(),
	}
	if err := s.store.UpsertFolder(ctx, f); err != nil {
		return nil, err
	}

	// Re-read for the computed path.
	out, err := s.store.GetFolder(ctx, id)
	if err != nil {
		return nil, err
	}
	s.notifyChange(ctx, "folder", "upserted", id)
	return out, nil
}

// DeleteFolderTree cascades a soft delete over a folder, its descendants,
// and the notes filed in them.
func (s *Service) DeleteFolderTree(ctx context.Context, id string) error {
	if err := s.store.DeleteFolderTree(ctx, id); err != nil {
		return err
	}
	s.notifyChange(ctx, "folder", "deleted", id)
	return nil
}

// GetFolder returns a folder by id.
func (s *Service) GetFolder(ctx context.Context, id string) (*models.Folder, error) {
	return s.store.GetFolder(ctx, id)
}

// ListFolders lists the children of a folder (roots for empty parentID).
func (s *Service) ListFolders(ctx context.Context, parentID string) ([]models.Folder, error) {
	return s.store.ListFolders(ctx, parentID)
}

// FolderSubtree returns a folder and all its descendants.
func (s *Service) FolderSubtree(ctx context.Context, rootID string) ([]models.Folder, error) {
	return s.store.FolderSubtree(ctx, rootID)
}

// FolderPath returns the root-anchored path of a folder.
func (s *Service) FolderPath(ctx context.Context, id string) (string, error) {
	return s.store.FolderPath(ctx, id)
}

// MoveNoteToFolder files a note (empty folderID unfiles it).
func (s *Service) MoveNoteToFolder(ctx context.Context, noteID, folderID string) error {
	if _, err := s.store.GetNote(ctx, noteID); err != nil {
		return err
	}
	if err := s.store.MoveNoteToFolder(ctx, noteID, folderID); err != nil {
		return err
	}
	s.notifyChange(ctx, "note", "upserted", noteID)
	return nil
}

// NotesInFolder returns the notes filed in a folder.
func (s *Service) NotesInFolder(ctx context.Context, folderID string) ([]models.Note, error) {
	return s.store.NotesInFolder(ctx, folderID)
}
