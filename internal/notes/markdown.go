package notes

import (
	"bytes"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

var unsafeFilenameChars = regexp.MustCompile(`[^a-z0-9]+`)

type noteFrontmatter struct {
	ID      int64  `yaml:"id,omitempty"`
	Title   string `yaml:"title"`
	Color   string `yaml:"color,omitempty"`
	Checked *bool  `yaml:"checked,omitempty"`
	Trashed bool   `yaml:"trashed,omitempty"`
}

// MarshalMarkdown renders a note as markdown with YAML frontmatter
func MarshalMarkdown(n NoteModel) ([]byte, error) {
	var buf bytes.Buffer

	fm := noteFrontmatter{
		Title:   n.Title,
		Color:   n.Color.Name,
		Checked: n.IsCheckedOff,
		Trashed: n.InTrash,
	}
	if !n.IsNew() {
		fm.ID = n.ID
	}

	yamlBytes, err := yaml.Marshal(fm)
	if err != nil {
		return nil, err
	}

	buf.WriteString("---\n")
	buf.Write(yamlBytes)
	buf.WriteString("---\n\n")
	buf.WriteString(n.Content)
	// UnmarshalMarkdown strips exactly this newline
	buf.WriteString("\n")
	return buf.Bytes(), nil
}

// UnmarshalMarkdown parses a note written by MarshalMarkdown. Color names are
// resolved against colors, falling back to DefaultColor. Files without
// frontmatter become a draft whose content is the whole file.
func UnmarshalMarkdown(content []byte, colors []ColorModel) (NoteModel, error) {
	note := NewNote()
	lines := bytes.Split(content, []byte("\n"))

	if len(lines) == 0 || !bytes.Equal(bytes.TrimSpace(lines[0]), []byte("---")) {
		note.Content = string(content)
		return note, nil
	}

	var fmEnd int
	for i := 1; i < len(lines); i++ {
		if bytes.Equal(bytes.TrimSpace(lines[i]), []byte("---")) {
			fmEnd = i
			break
		}
	}
	if fmEnd == 0 {
		return note, fmt.Errorf("unterminated frontmatter")
	}

	var fm noteFrontmatter
	if err := yaml.Unmarshal(bytes.Join(lines[1:fmEnd], []byte("\n")), &fm); err != nil {
		return note, fmt.Errorf("parse frontmatter: %w", err)
	}

	body := bytes.Join(lines[fmEnd+1:], []byte("\n"))
	body = bytes.TrimPrefix(body, []byte("\n"))
	body = bytes.TrimSuffix(body, []byte("\n"))

	if fm.ID > 0 {
		note.ID = fm.ID
	}
	note.Title = fm.Title
	note.Content = string(body)
	note.IsCheckedOff = fm.Checked
	note.InTrash = fm.Trashed
	if c, ok := ColorByName(colors, fm.Color); ok {
		note.Color = c
	}
	return note, nil
}

// Filename returns a stable markdown filename for an exported note
func Filename(n NoteModel) string {
	slug := unsafeFilenameChars.ReplaceAllString(strings.ToLower(n.Title), "-")
	slug = strings.Trim(slug, "-")
	if len(slug) > 40 {
		slug = strings.TrimRight(slug[:40], "-")
	}
	if slug == "" {
		slug = "note"
	}
	return strconv.FormatInt(n.ID, 10) + "-" + slug + ".md"
}
