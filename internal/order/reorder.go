package order

// Box is the measured vertical geometry of one list item in the drag UI.
// Boxes passed to InsertionIndex must not include the dragged item itself.
type Box struct {
	ID     string
	Top    float64
	Height float64
}

// InsertionIndex computes where a dragged item lands for a pointer at the
// given vertical position: among the candidates whose midpoint lies below
// the pointer (negative pointer-to-midpoint offset), the nearest one wins
// and the item is inserted before it. When no candidate midpoint is below
// the pointer, the item is appended after all items.
func InsertionIndex(pointerY float64, boxes []Box) int {
	closest := len(boxes)
	closestOffset := -1e18
	for i, b := range boxes {
		offset := pointerY - (b.Top + b.Height/2)
		if offset < 0 && offset > closestOffset {
			closestOffset = offset
			closest = i
		}
	}
	return closest
}

// Move removes id from the order and reinserts it at index, where index is
// relative to the list without the moved item (insertion-before semantics).
// An unknown id or out-of-range index leaves the order unchanged.
func Move(ids []string, id string, index int) []string {
	at := -1
	for i, v := range ids {
		if v == id {
			at = i
			break
		}
	}
	if at < 0 {
		return ids
	}
	rest := make([]string, 0, len(ids)-1)
	rest = append(rest, ids[:at]...)
	rest = append(rest, ids[at+1:]...)
	if index < 0 || index > len(rest) {
		return ids
	}
	out := make([]string, 0, len(ids))
	out = append(out, rest[:index]...)
	out = append(out, id)
	out = append(out, rest[index:]...)
	return out
}
