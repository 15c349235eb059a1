package shared

import "strings"

// PinHints fills height lines with content at the top and hints pinned to
// the bottom line(s). Content that does not fit is cut from the bottom.
func PinHints(content, hints string, height int) string {
	content = strings.TrimRight(content, "\n")
	hints = strings.TrimRight(hints, "\n")

	var contentLines []string
	if content != "" {
		contentLines = strings.Split(content, "\n")
	}
	hintLines := strings.Split(hints, "\n")

	room := height - len(hintLines)
	if room < 0 {
		room = 0
	}
	if len(contentLines) > room {
		contentLines = contentLines[:room]
	}

	lines := make([]string, 0, height)
	lines = append(lines, contentLines...)
	for len(lines) < room {
		lines = append(lines, "")
	}
	lines = append(lines, hintLines...)
	return strings.Join(lines, "\n")
}

// Window returns the [start, end) range of a list of n rows that keeps
// cursor visible in rows lines, given the previous scroll offset.
func Window(n, cursor, offset, rows int) (int, int) {
	if rows < 1 {
		rows = 1
	}
	if cursor < offset {
		offset = cursor
	}
	if cursor >= offset+rows {
		offset = cursor - rows + 1
	}
	if offset < 0 {
		offset = 0
	}
	end := offset + rows
	if end > n {
		end = n
	}
	return offset, end
}
