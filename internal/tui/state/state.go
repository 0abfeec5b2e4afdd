package state

// ClampCursor keeps a list cursor inside [0, size).
func ClampCursor(cursor, size int) int {
	if size <= 0 {
		return 0
	}
	if cursor >= size {
		return size - 1
	}
	if cursor < 0 {
		return 0
	}
	return cursor
}

// PageStep is the cursor jump for pgup/pgdown given the terminal height
// and the fixed chrome around the list.
func PageStep(height, chromeLines int) int {
	if height <= 0 {
		return 10
	}
	step := height - chromeLines
	if step < 3 {
		step = 3
	}
	return step
}

// Window returns the [start, end) slice of rows keeping the cursor
// centered when the list overflows the viewport.
func Window(totalRows, cursor, height int) (int, int) {
	if totalRows <= 0 {
		return 0, 0
	}
	if height <= 0 || totalRows <= height {
		return 0, totalRows
	}
	cursor = ClampCursor(cursor, totalRows)
	start := cursor - height/2
	if start < 0 {
		start = 0
	}
	maxStart := totalRows - height
	if start > maxStart {
		start = maxStart
	}
	return start, start + height
}
