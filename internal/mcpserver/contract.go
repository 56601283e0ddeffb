package mcpserver

// NoteFormatContract describes the canonical Markdown note format that
// LLM consumers should follow when creating or updating notes.
const NoteFormatContract = `# Laguz Note Format Contract

Every note stored in Laguz SHOULD follow this structure.

## Structure

` + "```" + `markdown
# Human-readable title

Body text in standard Markdown.

Use [[wikilinks]] to reference other notes by title.
Use [[Target Title|alias]] for display text that differs from the target.
Use inline #tags anywhere in the body.
` + "```" + `

## Rules

1. **The first heading is the title.** When no explicit title is supplied,
   the first ` + "`" + `# heading` + "`" + ` (or the first non-empty line) becomes the note title.
2. **Wikilinks** use double brackets: ` + "`" + `[[Other Note]]` + "`" + `. The target is the
   title of another note, not a file path. Links to titles that do not
   exist yet are kept and resolve automatically once the target is created.
3. **Tags** are inline hashtags: lowercase, kebab-case
   (e.g. ` + "`" + `#project-x` + "`" + `, ` + "`" + `#meeting-notes` + "`" + `).
4. **Identity is the note id**, not the title. Pass the id to replace an
   existing note; omit it to create a new one. Titles may repeat.
5. **Encoding** is UTF-8.
6. **No HTML** unless absolutely necessary; prefer Markdown equivalents.

## Example

` + "```" + `markdown
# Weekly standup 2026-01-20

Attendees: Alice, Bob. #meeting-notes #project-x

## Action items

- [[Alice]] to review the [[Design Doc]]
- Bob to update [[Project X Roadmap|the roadmap]]
` + "```" + `
`
