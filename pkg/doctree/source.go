package doctree

import "sort"

// Source is an immutable view of the collated manuscript with a precomputed
// line index. Warning positions (TK audit, ToC level jumps, filter
// diagnostics) resolve through it.
type Source struct {
	// Content is the full manuscript bytes.
	Content []byte

	lines []lineSpan
}

// lineSpan records where one line starts, where its newline characters
// begin, and where the next line starts.
type lineSpan struct {
	start   int
	newline int
	end     int
}

// NewSource builds the line index for content.
// It handles both LF and CRLF line endings.
func NewSource(content []byte) *Source {
	src := &Source{Content: content}

	if len(content) == 0 {
		return src
	}

	lineStart := 0
	for idx, char := range content {
		if char == '\n' {
			newlineStart := idx
			if idx > 0 && content[idx-1] == '\r' {
				newlineStart = idx - 1
			}
			src.lines = append(src.lines, lineSpan{
				start:   lineStart,
				newline: newlineStart,
				end:     idx + 1,
			})
			lineStart = idx + 1
		}
	}

	// Last line may not have a trailing newline.
	if lineStart <= len(content) {
		src.lines = append(src.lines, lineSpan{
			start:   lineStart,
			newline: len(content),
			end:     len(content),
		})
	}

	return src
}

// LineCount returns the number of lines.
func (s *Source) LineCount() int {
	return len(s.lines)
}

// LineOf converts a byte offset to a 1-based line number.
// Returns 0 if the offset is out of range.
func (s *Source) LineOf(offset int) int {
	if offset < 0 || len(s.lines) == 0 {
		return 0
	}

	if offset >= len(s.Content) {
		return len(s.lines)
	}

	idx := sort.Search(len(s.lines), func(i int) bool {
		return s.lines[i].end > offset
	})
	if idx >= len(s.lines) {
		idx = len(s.lines) - 1
	}

	return idx + 1
}

// LineContent returns the content of a 1-based line, excluding the newline.
// Returns nil if the line number is out of range.
func (s *Source) LineContent(line int) []byte {
	if line < 1 || line > len(s.lines) {
		return nil
	}
	span := s.lines[line-1]
	return s.Content[span.start:span.newline]
}
