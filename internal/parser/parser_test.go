package parser

import (
	"reflect"
	"strings"
	"testing"
)

func TestExtractLinks(t *testing.T) {
	cases := []struct {
		body string
		want []string
	}{
		{"plain text, no links", nil},
		{"see [[Other Note]]", []string{"Other Note"}},
		{"[[A]] and [[B]] and [[A]] again", []string{"A", "B"}},
		{"aliased [[Target Note|display text]]", []string{"Target Note"}},
		{"empty [[]] is ignored", nil},
		{"[[ padded ]]", []string{"padded"}},
	}
	for _, c := range cases {
		if got := ExtractLinks(c.body); !reflect.DeepEqual(got, c.want) {
			t.Errorf("ExtractLinks(%q) = %v, want %v", c.body, got, c.want)
		}
	}
}

func TestExtractTags(t *testing.T) {
	cases := []struct {
		body string
		want []string
	}{
		{"no tags here", nil},
		{"work on #project-x today", []string{"project-x"}},
		{"#a #b #a", []string{"a", "b"}},
		{"#nested/tag works", []string{"nested/tag"}},
		{"not#a#tag mid-word", nil},
		{"#123 digits only is not a tag", nil},
		{"#Tag starts line", []string{"Tag"}},
	}
	for _, c := range cases {
		if got := ExtractTags(c.body); !reflect.DeepEqual(got, c.want) {
			t.Errorf("ExtractTags(%q) = %v, want %v", c.body, got, c.want)
		}
	}
}

func TestDeriveTitle(t *testing.T) {
	cases := []struct {
		name string
		body string
		want string
	}{
		{"h1", "# Heading Title\n\nbody", "Heading Title"},
		{"h1 after text", "intro line\n# Real Title\nbody", "Real Title"},
		{"first line fallback", "just a line\nsecond line", "just a line"},
		{"skips blank lines", "\n\n  \nactual content", "actual content"},
		{"empty", "", ""},
		{"long line truncated", strings.Repeat("x", 200), strings.Repeat("x", 80)},
		{"multibyte truncated on rune boundary", strings.Repeat("ü", 200), strings.Repeat("ü", 80)},
	}
	for _, c := range cases {
		if got := DeriveTitle(c.body); got != c.want {
			t.Errorf("%s: DeriveTitle = %q, want %q", c.name, got, c.want)
		}
	}
}

func TestParse(t *testing.T) {
	body := "# Standup\n\nDiscussed [[Roadmap]] with the team. #meeting #project-x\nFollowup in [[Roadmap|the roadmap]]."
	res := Parse(body)
	if res.Title != "Standup" {
		t.Errorf("title = %q", res.Title)
	}
	if !reflect.DeepEqual(res.Links, []string{"Roadmap"}) {
		t.Errorf("links = %v", res.Links)
	}
	if !reflect.DeepEqual(res.Tags, []string{"meeting", "project-x"}) {
		t.Errorf("tags = %v", res.Tags)
	}
}
