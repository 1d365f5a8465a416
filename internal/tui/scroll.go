package tui

// Selection is the highlighted row of the feed list. Scrolling itself
// belongs to the ScrollView; Selection only says where the viewport has to
// be for the cursor to stay visible.
type Selection struct {
	Cursor int
}

// Up moves the cursor up by one. Returns true if the cursor changed.
func (s *Selection) Up() bool {
	if s.Cursor <= 0 {
		return false
	}
	s.Cursor--
	return true
}

// Down moves the cursor down by one. Returns true if the cursor changed.
func (s *Selection) Down(count int) bool {
	if s.Cursor >= count-1 {
		return false
	}
	s.Cursor++
	return true
}

func (s *Selection) First() {
	s.Cursor = 0
}

func (s *Selection) Last(count int) {
	if count <= 0 {
		return
	}
	s.Cursor = count - 1
}

// Shift moves the cursor by n rows, used when rows are inserted above it.
func (s *Selection) Shift(n, count int) {
	s.Cursor += n
	s.Clamp(count)
}

// Clamp keeps the cursor inside [0, count).
func (s *Selection) Clamp(count int) {
	if s.Cursor >= count {
		s.Cursor = count - 1
	}
	if s.Cursor < 0 {
		s.Cursor = 0
	}
}

// Reveal returns the viewport offset closest to offset that keeps the cursor
// on one of rows visible rows.
func (s Selection) Reveal(offset, rows int) int {
	if rows <= 0 {
		return offset
	}
	if s.Cursor < offset {
		return s.Cursor
	}
	if s.Cursor >= offset+rows {
		return s.Cursor - rows + 1
	}
	return offset
}

// VisibleRange returns the start (inclusive) and end (exclusive) item
// indices drawn by a viewport of rows rows at offset. The offset may be
// negative while the list is pulled past its top.
func VisibleRange(offset, rows, count int) (start, end int) {
	start = max(offset, 0)
	end = min(offset+rows, count)
	if start > end {
		start = end
	}
	if start < 0 {
		start, end = 0, 0
	}
	return start, end
}
