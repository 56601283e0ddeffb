package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/starford/laguz/internal/apperr"
	"github.com/starford/laguz/internal/models"
	"github.com/starford/laguz/internal/parser"
	"github.com/starford/laguz/internal/store"
)

// UpsertNote validates the input, assigns an id when the client supplied
// none, derives title/tags/links from the body where absent, and writes the
// note (with its outbox entry) in one transaction.
func (s *Service) UpsertNote(ctx context.Context, in NoteInput) (*models.Note, error) {
	if err := in.Validate(); err != nil {
		return nil, apperr.Validation(err)
	}

	id := in.ID
	if id == "" {
		id = uuid.NewString()
	}

	parsed := parser.Parse(in.Body)

	title := in.Title
	if title == "" {
		title = parsed.Title
	}
	tags := in.Tags
	if tags == nil {
		// Materialize so a body without tags clears the stored set instead
		// of keeping it.
		tags = append([]string{}, parsed.Tags...)
	}

	var links []models.NoteLink
	targets := in.Links
	if targets == nil {
		targets = parsed.Links
	}
	links = make([]models.NoteLink, 0, len(targets))
	for _, t := range targets {
		links = append(links, models.NoteLink{SourceID: id, TargetTitle: t})
	}

	n := models.Note{
		ID:                id,
		Title:             title,
		Body:              in.Body,
		EncryptedMetadata: in.EncryptedMetadata,
		IsPinned:          in.IsPinned,
		UpdatedAt:         time.Now().UTC(),
	}
	if err := s.store.UpsertNote(ctx, n, tags, links); err != nil {
		return nil, err
	}

	s.notifyChange(ctx, "note", "upserted", id)
	return &n, nil
}

// DeleteNote soft-deletes a note and records the tombstone for sync.
func (s *Service) DeleteNote(ctx context.Context, id string) error {
	if err := s.store.SoftDeleteNote(ctx, id); err != nil {
		return err
	}
	s.notifyChange(ctx, "note", "deleted", id)
	return nil
}

// NoteDetail is the full read shape: the note plus its tags, links, and
// folder.
type NoteDetail struct {
	models.Note
	Tags   []string          `json:"tags"`
	Links  []models.NoteLink `json:"links"`
	Folder *models.Folder    `json:"folder,omitempty"`
}

// GetNote returns a note enriched with tags, outgoing links, and folder.
func (s *Service) GetNote(ctx context.Context, id string) (*NoteDetail, error) {
	n, err := s.store.GetNote(ctx, id)
	if err != nil {
		return nil, err
	}
	tags, err := s.store.TagsForNote(ctx, id)
	if err != nil {
		return nil, err
	}
	links, err := s.store.LinksFromNote(ctx, id)
	if err != nil {
		return nil, err
	}
	folder, err := s.store.FolderForNote(ctx, id)
	if err != nil {
		return nil, err
	}
	if tags == nil {
		tags = []string{}
	}
	if links == nil {
		links = []models.NoteLink{}
	}
	return &NoteDetail{Note: *n, Tags: tags, Links: links, Folder: folder}, nil
}

// ListNotes returns a page of non-deleted notes, newest first. A non-zero
// cursor selects keyset pagination; otherwise offset pagination applies.
func (s *Service) ListNotes(ctx context.Context, cursor time.Time, limit, offset int) ([]models.Note, error) {
	if !cursor.IsZero() {
		return s.store.NotesAfter(ctx, cursor, limit)
	}
	if limit <= 0 && offset == 0 {
		return s.store.AllNotes(ctx)
	}
	return s.store.PagedNotes(ctx, limit, offset)
}

// Search runs a text or tag query over the store.
func (s *Service) Search(ctx context.Context, query string, limit int) ([]models.Note, error) {
	return s.store.SearchNotes(ctx, query, limit)
}

// ReplaceTags atomically replaces the tag set of a note.
func (s *Service) ReplaceTags(ctx context.Context, noteID string, tags []string) error {
	if _, err := s.store.GetNote(ctx, noteID); err != nil {
		return err
	}
	if err := s.store.ReplaceTagsForNote(ctx, noteID, tags); err != nil {
		return err
	}
	s.notifyChange(ctx, "note", "upserted", noteID)
	return nil
}

// ReplaceLinks atomically replaces the outgoing links of a note.
func (s *Service) ReplaceLinks(ctx context.Context, noteID string, targets []string) error {
	if _, err := s.store.GetNote(ctx, noteID); err != nil {
		return err
	}
	links := make([]models.NoteLink, 0, len(targets))
	for _, t := range targets {
		links = append(links, models.NoteLink{SourceID: noteID, TargetTitle: t})
	}
	if err := s.store.ReplaceLinksForNote(ctx, noteID, links); err != nil {
		return err
	}
	s.notifyChange(ctx, "note", "upserted", noteID)
	return nil
}

// Backlinks returns the links pointing at a title, each with its resolved
// (possibly nil) source note.
func (s *Service) Backlinks(ctx context.Context, targetTitle string) ([]models.Backlink, error) {
	return s.store.Backlinks(ctx, targetTitle)
}

// ListTags returns all tags with usage counts.
func (s *Service) ListTags(ctx context.Context) ([]models.TagCount, error) {
	return s.store.ListTags(ctx)
}

// Graph returns the note graph for visualization.
func (s *Service) Graph(ctx context.Context) ([]store.GraphNode, []store.GraphLink, error) {
	return s.store.Graph(ctx)
}
