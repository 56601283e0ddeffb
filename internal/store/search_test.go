package store

import (
	"context"
	"reflect"
	"testing"
	"time"
)

func TestSearchBasic(t *testing.T) {
	st := testStore(t)
	ctx := context.Background()

	mustUpsert(t, st, "s1", "Search Me", "uniqueword appears here", time.Now().UTC(), nil, nil)

	results, err := st.SearchNotes(ctx, "uniqueword", 10)
	if err != nil {
		t.Fatalf("SearchNotes: %v", err)
	}
	if len(results) != 1 || results[0].ID != "s1" {
		t.Errorf("results = %+v, want 1 hit for s1", results)
	}
}

func TestSearchAllTermsMustMatch(t *testing.T) {
	st := testStore(t)
	ctx := context.Background()
	now := time.Now().UTC()

	mustUpsert(t, st, "both", "Hello", "world below", now, nil, nil)
	mustUpsert(t, st, "one", "Hello", "only greetings", now.Add(time.Second), nil, nil)

	results, err := st.SearchNotes(ctx, "hello world", 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 1 || results[0].ID != "both" {
		t.Errorf("results = %+v, want only note containing both terms", results)
	}
}

func TestSearchMatchesTitleOrBody(t *testing.T) {
	st := testStore(t)
	ctx := context.Background()
	now := time.Now().UTC()

	mustUpsert(t, st, "title-hit", "Zephyr Notes", "nothing here", now, nil, nil)
	mustUpsert(t, st, "body-hit", "Plain", "a zephyr blows", now.Add(time.Second), nil, nil)

	results, err := st.SearchNotes(ctx, "zephyr", 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 2 {
		t.Errorf("results = %d, want 2", len(results))
	}
}

func TestSearchOrderedByRecency(t *testing.T) {
	st := testStore(t)
	ctx := context.Background()
	base := time.Now().UTC().Truncate(time.Millisecond)

	mustUpsert(t, st, "older", "Match", "common term", base, nil, nil)
	mustUpsert(t, st, "newer", "Match", "common term", base.Add(time.Second), nil, nil)

	results, err := st.SearchNotes(ctx, "common", 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 2 || results[0].ID != "newer" {
		t.Errorf("order = %+v, want newest first", results)
	}
}

func TestSearchExcludesDeleted(t *testing.T) {
	st := testStore(t)
	ctx := context.Background()

	mustUpsert(t, st, "gone", "Hidden", "findable text", time.Now().UTC(), nil, nil)
	if err := st.SoftDeleteNote(ctx, "gone"); err != nil {
		t.Fatal(err)
	}

	results, err := st.SearchNotes(ctx, "findable", 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 0 {
		t.Errorf("deleted note surfaced in search: %+v", results)
	}
}

func TestSearchEmptyQuery(t *testing.T) {
	st := testStore(t)
	mustUpsert(t, st, "n", "N", "b", time.Now().UTC(), nil, nil)

	for _, q := range []string{"", "   ", `""`} {
		results, err := st.SearchNotes(context.Background(), q, 10)
		if err != nil {
			t.Fatalf("query %q: %v", q, err)
		}
		if len(results) != 0 {
			t.Errorf("query %q returned %d results, want 0", q, len(results))
		}
	}
}

func TestTagSearch(t *testing.T) {
	st := testStore(t)
	ctx := context.Background()
	now := time.Now().UTC()

	mustUpsert(t, st, "p1", "P1", "body", now, []string{"project-x"}, nil)
	mustUpsert(t, st, "p2", "P2", "body", now.Add(time.Second), []string{"PROJECT-y"}, nil)
	mustUpsert(t, st, "other", "Other", "project mentioned in body only", now.Add(2*time.Second), nil, nil)

	// '#' prefix switches to case-insensitive tag substring matching; body
	// text does not count.
	results, err := st.SearchNotes(ctx, "#project", 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 2 {
		t.Fatalf("tag search = %d results, want 2", len(results))
	}
	for _, n := range results {
		if n.ID == "other" {
			t.Error("body-only match surfaced in tag search")
		}
	}

	// Empty tag query matches nothing.
	results, _ = st.SearchNotes(ctx, "#", 10)
	if len(results) != 0 {
		t.Errorf("'#' alone = %d results, want 0", len(results))
	}
}

func TestSearchEscapesLikeMetacharacters(t *testing.T) {
	st := testStore(t)
	ctx := context.Background()
	now := time.Now().UTC()

	mustUpsert(t, st, "pct", "Percent", "progress at 100% done", now, nil, nil)
	mustUpsert(t, st, "plain", "Plain", "progress at 100 done", now.Add(time.Second), nil, nil)

	results, err := st.SearchNotes(ctx, "100%", 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 1 || results[0].ID != "pct" {
		t.Errorf("results = %+v, want only the literal %% match", results)
	}
}

func TestSearchLimit(t *testing.T) {
	st := testStore(t)
	ctx := context.Background()
	base := time.Now().UTC().Truncate(time.Millisecond)

	for i := 0; i < 5; i++ {
		mustUpsert(t, st, string(rune('a'+i)), "Common", "term", base.Add(time.Duration(i)*time.Millisecond), nil, nil)
	}

	results, err := st.SearchNotes(ctx, "common", 3)
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 3 {
		t.Errorf("limit ignored: %d results", len(results))
	}
}

func TestTokenize(t *testing.T) {
	cases := []struct {
		in   string
		want []string
	}{
		{"hello world", []string{"hello", "world"}},
		{`"quoted phrase"`, []string{"quoted", "phrase"}},
		{"  spaced   out  ", []string{"spaced", "out"}},
		{`''`, nil},
		{"", nil},
	}
	for _, c := range cases {
		if got := tokenize(c.in); !reflect.DeepEqual(got, c.want) {
			t.Errorf("tokenize(%q) = %v, want %v", c.in, got, c.want)
		}
	}
}

func TestEscapeLike(t *testing.T) {
	cases := map[string]string{
		"plain":   "plain",
		"100%":    `100\%`,
		"under_x": `under\_x`,
		`back\`:   `back\\`,
	}
	for in, want := range cases {
		if got := escapeLike(in); got != want {
			t.Errorf("escapeLike(%q) = %q, want %q", in, got, want)
		}
	}
}
