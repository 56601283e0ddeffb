package store

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/starford/laguz/internal/apperr"
	"github.com/starford/laguz/internal/models"
)

func TestUpsertAndGetNote(t *testing.T) {
	st := testStore(t)
	ctx := context.Background()
	at := time.Now().UTC().Truncate(time.Millisecond)

	mustUpsert(t, st, "n1", "Hello World", "some body", at, []string{"go", "test"}, nil)

	n, err := st.GetNote(ctx, "n1")
	if err != nil {
		t.Fatalf("GetNote: %v", err)
	}
	if n.Title != "Hello World" || n.Body != "some body" {
		t.Errorf("note = %+v", n)
	}
	if !n.UpdatedAt.Equal(at) {
		t.Errorf("updated_at = %v, want %v", n.UpdatedAt, at)
	}

	tags, err := st.TagsForNote(ctx, "n1")
	if err != nil {
		t.Fatalf("TagsForNote: %v", err)
	}
	if len(tags) != 2 {
		t.Errorf("tags = %v, want 2", tags)
	}
}

func TestUpsertReplacesExisting(t *testing.T) {
	st := testStore(t)
	ctx := context.Background()
	now := time.Now().UTC()

	mustUpsert(t, st, "n1", "Old", "old body", now, []string{"a", "b"}, nil)
	mustUpsert(t, st, "n1", "New", "new body", now.Add(time.Second), []string{"b", "c"}, nil)

	n, err := st.GetNote(ctx, "n1")
	if err != nil {
		t.Fatal(err)
	}
	if n.Title != "New" {
		t.Errorf("title = %q, want New", n.Title)
	}

	// Replacement leaves no residue from the old tag set.
	tags, _ := st.TagsForNote(ctx, "n1")
	if len(tags) != 2 || tags[0] != "b" || tags[1] != "c" {
		t.Errorf("tags = %v, want [b c]", tags)
	}

	if count, _ := st.CountNotes(ctx); count != 1 {
		t.Errorf("count = %d, want 1", count)
	}
}

func TestUpsertNilTagsKeepsExisting(t *testing.T) {
	st := testStore(t)
	ctx := context.Background()
	now := time.Now().UTC()

	mustUpsert(t, st, "n1", "T", "b", now, []string{"keep"}, nil)
	mustUpsert(t, st, "n1", "T2", "b2", now.Add(time.Second), nil, nil)

	tags, _ := st.TagsForNote(ctx, "n1")
	if len(tags) != 1 || tags[0] != "keep" {
		t.Errorf("tags = %v, want [keep]", tags)
	}
}

func TestReplaceTagsLeavesNoResidue(t *testing.T) {
	st := testStore(t)
	ctx := context.Background()

	mustUpsert(t, st, "n1", "T", "b", time.Now().UTC(), []string{"a", "b"}, nil)

	if err := st.ReplaceTagsForNote(ctx, "n1", []string{"b", "c"}); err != nil {
		t.Fatalf("ReplaceTagsForNote: %v", err)
	}
	tags, err := st.TagsForNote(ctx, "n1")
	if err != nil {
		t.Fatal(err)
	}
	if len(tags) != 2 || tags[0] != "b" || tags[1] != "c" {
		t.Errorf("tags = %v, want exactly [b c]", tags)
	}

	// Replacing with the empty set clears everything.
	if err := st.ReplaceTagsForNote(ctx, "n1", []string{}); err != nil {
		t.Fatal(err)
	}
	tags, _ = st.TagsForNote(ctx, "n1")
	if len(tags) != 0 {
		t.Errorf("tags after empty replace = %v, want none", tags)
	}
}

func TestSoftDeleteNote(t *testing.T) {
	st := testStore(t)
	ctx := context.Background()

	mustUpsert(t, st, "n1", "Bye", "gone", time.Now().UTC(), nil, nil)

	if err := st.SoftDeleteNote(ctx, "n1"); err != nil {
		t.Fatalf("SoftDeleteNote: %v", err)
	}

	if _, err := st.GetNote(ctx, "n1"); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("get after delete = %v, want ErrNotFound", err)
	}

	// The row is retained as a tombstone.
	var deleted bool
	if err := st.conn.QueryRow(`SELECT deleted FROM notes WHERE id = 'n1'`).Scan(&deleted); err != nil {
		t.Fatalf("tombstone row gone: %v", err)
	}
	if !deleted {
		t.Error("tombstone not marked deleted")
	}

	// Deleting again reports not found.
	if err := st.SoftDeleteNote(ctx, "n1"); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("double delete = %v, want ErrNotFound", err)
	}
}

func TestDeleteMissingNote(t *testing.T) {
	st := testStore(t)
	if err := st.SoftDeleteNote(context.Background(), "ghost"); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestUndeleteViaUpsert(t *testing.T) {
	st := testStore(t)
	ctx := context.Background()
	now := time.Now().UTC()

	mustUpsert(t, st, "n1", "Phoenix", "rises", now, nil, nil)
	if err := st.SoftDeleteNote(ctx, "n1"); err != nil {
		t.Fatal(err)
	}

	// A sync pull can resurrect the same id with Deleted=false.
	mustUpsert(t, st, "n1", "Phoenix", "rises again", now.Add(time.Second), nil, nil)

	n, err := st.GetNote(ctx, "n1")
	if err != nil {
		t.Fatalf("resurrected note not visible: %v", err)
	}
	if n.Body != "rises again" {
		t.Errorf("body = %q", n.Body)
	}

	results, err := st.SearchNotes(ctx, "rises", 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 1 {
		t.Errorf("resurrected note not searchable, got %d results", len(results))
	}
}

func TestKeysetPaginationEnumeratesAll(t *testing.T) {
	st := testStore(t)
	ctx := context.Background()
	base := time.Now().UTC().Truncate(time.Millisecond)

	// Distinct timestamps so the ordering is total.
	const total = 25
	for i := 0; i < total; i++ {
		mustUpsert(t, st, fmt.Sprintf("n%02d", i), fmt.Sprintf("Note %d", i), "body", base.Add(time.Duration(i)*time.Millisecond), nil, nil)
	}

	seen := map[string]bool{}
	cursor := time.Now().UTC().Add(time.Hour)
	for {
		page, err := st.NotesAfter(ctx, cursor, 7)
		if err != nil {
			t.Fatalf("NotesAfter: %v", err)
		}
		if len(page) == 0 {
			break
		}
		for _, n := range page {
			if seen[n.ID] {
				t.Fatalf("note %s returned twice", n.ID)
			}
			seen[n.ID] = true
		}
		cursor = page[len(page)-1].UpdatedAt
	}
	if len(seen) != total {
		t.Errorf("enumerated %d notes, want %d", len(seen), total)
	}
}

func TestPagedNotesOrdering(t *testing.T) {
	st := testStore(t)
	ctx := context.Background()
	base := time.Now().UTC().Truncate(time.Millisecond)

	mustUpsert(t, st, "old", "Old", "b", base, nil, nil)
	mustUpsert(t, st, "new", "New", "b", base.Add(time.Second), nil, nil)

	notes, err := st.PagedNotes(ctx, 10, 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(notes) != 2 || notes[0].ID != "new" || notes[1].ID != "old" {
		t.Errorf("order = %v, want [new old]", notes)
	}

	notes, err = st.PagedNotes(ctx, 1, 1)
	if err != nil {
		t.Fatal(err)
	}
	if len(notes) != 1 || notes[0].ID != "old" {
		t.Errorf("offset page = %v, want [old]", notes)
	}
}

func TestLinkResolution(t *testing.T) {
	st := testStore(t)
	ctx := context.Background()
	now := time.Now().UTC()

	// Forward reference: link target does not exist yet.
	mustUpsert(t, st, "src", "Source", "see [[Target Note]]", now,
		nil, []models.NoteLink{{SourceID: "src", TargetTitle: "Target Note"}})

	links, err := st.LinksFromNote(ctx, "src")
	if err != nil {
		t.Fatal(err)
	}
	if len(links) != 1 || links[0].TargetID != "" {
		t.Fatalf("links = %+v, want 1 unresolved", links)
	}

	// Creating the target resolves the cached id.
	mustUpsert(t, st, "tgt", "Target Note", "i exist", now.Add(time.Second), nil, nil)

	links, _ = st.LinksFromNote(ctx, "src")
	if links[0].TargetID != "tgt" {
		t.Errorf("target_id = %q, want tgt", links[0].TargetID)
	}

	// Deleting the target invalidates the cache but keeps the link row.
	if err := st.SoftDeleteNote(ctx, "tgt"); err != nil {
		t.Fatal(err)
	}
	links, _ = st.LinksFromNote(ctx, "src")
	if len(links) != 1 || links[0].TargetID != "" {
		t.Errorf("links after target delete = %+v, want 1 unresolved", links)
	}
}

func TestBacklinks(t *testing.T) {
	st := testStore(t)
	ctx := context.Background()
	now := time.Now().UTC()

	mustUpsert(t, st, "hub", "Hub", "central", now, nil, nil)
	mustUpsert(t, st, "a", "A", "to [[Hub]]", now.Add(time.Second),
		nil, []models.NoteLink{{SourceID: "a", TargetTitle: "Hub"}})
	mustUpsert(t, st, "b", "B", "to [[Hub]]", now.Add(2*time.Second),
		nil, []models.NoteLink{{SourceID: "b", TargetTitle: "Hub"}})

	bl, err := st.Backlinks(ctx, "Hub")
	if err != nil {
		t.Fatalf("Backlinks: %v", err)
	}
	if len(bl) != 2 {
		t.Fatalf("backlinks = %d, want 2", len(bl))
	}
	for _, b := range bl {
		if b.Source == nil {
			t.Errorf("backlink %q missing source note", b.Link.SourceID)
		}
	}

	// Deleting a source drops its backlink's source note.
	if err := st.SoftDeleteNote(ctx, "a"); err != nil {
		t.Fatal(err)
	}
	bl, _ = st.Backlinks(ctx, "Hub")
	resolved := 0
	for _, b := range bl {
		if b.Source != nil {
			resolved++
		}
	}
	if resolved != 1 {
		t.Errorf("resolved backlinks after delete = %d, want 1", resolved)
	}
}

func TestGraphSkipsDeleted(t *testing.T) {
	st := testStore(t)
	ctx := context.Background()
	now := time.Now().UTC()

	mustUpsert(t, st, "a", "A", "to [[B]]", now,
		nil, []models.NoteLink{{SourceID: "a", TargetTitle: "B"}})
	mustUpsert(t, st, "b", "B", "to [[A]]", now.Add(time.Second),
		nil, []models.NoteLink{{SourceID: "b", TargetTitle: "A"}})

	nodes, links, err := st.Graph(ctx)
	if err != nil {
		t.Fatalf("Graph: %v", err)
	}
	if len(nodes) != 2 || len(links) != 2 {
		t.Fatalf("graph = %d nodes / %d links, want 2/2", len(nodes), len(links))
	}

	if err := st.SoftDeleteNote(ctx, "b"); err != nil {
		t.Fatal(err)
	}
	nodes, _, err = st.Graph(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(nodes) != 1 {
		t.Errorf("nodes after delete = %d, want 1", len(nodes))
	}
}

func TestListTagsCounts(t *testing.T) {
	st := testStore(t)
	ctx := context.Background()
	now := time.Now().UTC()

	mustUpsert(t, st, "a", "A", "b", now, []string{"shared", "only-a"}, nil)
	mustUpsert(t, st, "b", "B", "b", now.Add(time.Second), []string{"shared"}, nil)

	tags, err := st.ListTags(ctx)
	if err != nil {
		t.Fatal(err)
	}
	counts := map[string]int{}
	for _, tc := range tags {
		counts[tc.Tag] = tc.Count
	}
	if counts["shared"] != 2 || counts["only-a"] != 1 {
		t.Errorf("counts = %v", counts)
	}

	// Deleted notes stop contributing.
	if err := st.SoftDeleteNote(ctx, "b"); err != nil {
		t.Fatal(err)
	}
	tags, _ = st.ListTags(ctx)
	counts = map[string]int{}
	for _, tc := range tags {
		counts[tc.Tag] = tc.Count
	}
	if counts["shared"] != 1 {
		t.Errorf("shared count after delete = %d, want 1", counts["shared"])
	}
}
