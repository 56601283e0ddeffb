// Package parser extracts wikilinks, tags, and a title from note bodies.
package parser

import (
	"regexp"
	"strings"
)

var (
	wikilinkRe = regexp.MustCompile(`\[\[(.*?)\]\]`)
	tagRe      = regexp.MustCompile(`(?:^|\s)#([A-Za-z][A-Za-z0-9_/-]*)`)
)

// Result holds what was extracted from a note body.
type Result struct {
	Title string
	Links []string
	Tags  []string
}

// Parse extracts the derived title, wikilink targets, and inline tags from
// a note body.
func Parse(body string) *Result {
	return &Result{
		Title: DeriveTitle(body),
		Links: ExtractLinks(body),
		Tags:  ExtractTags(body),
	}
}

// ExtractLinks returns deduplicated wikilink targets, normalising the alias
// form [[Target|Alias]] to Target.
func ExtractLinks(body string) []string {
	matches := wikilinkRe.FindAllStringSubmatch(body, -1)
	seen := make(map[string]struct{}, len(matches))
	var out []string
	for _, m := range matches {
		target := m[1]
		if i := strings.Index(target, "|"); i >= 0 {
			target = target[:i]
		}
		target = strings.TrimSpace(target)
		if target == "" {
			continue
		}
		if _, ok := seen[target]; ok {
			continue
		}
		seen[target] = struct{}{}
		out = append(out, target)
	}
	return out
}

// ExtractTags collects deduplicated inline #tags from a body.
func ExtractTags(body string) []string {
	matches := tagRe.FindAllStringSubmatch(body, -1)
	seen := make(map[string]struct{}, len(matches))
	var out []string
	for _, m := range matches {
		if _, ok := seen[m[1]]; ok {
			continue
		}
		seen[m[1]] = struct{}{}
		out = append(out, m[1])
	}
	return out
}

// DeriveTitle returns the first H1 heading, else the first non-empty line
// truncated to a sane length, else empty.
func DeriveTitle(body string) string {
	var firstLine string
	for _, line := range strings.Split(body, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		if strings.HasPrefix(trimmed, "# ") {
			return strings.TrimSpace(trimmed[2:])
		}
		if firstLine == "" {
			firstLine = trimmed
		}
	}
	const maxTitle = 80
	if runes := []rune(firstLine); len(runes) > maxTitle {
		firstLine = string(runes[:maxTitle])
	}
	return firstLine
}
