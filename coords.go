package fieldpdf

// ToDrawingSpace converts a stored field position into drawing space: origin
// at the page's bottom-left corner, Y growing upward, the point naming the
// field box's bottom-left corner. This is the convention of the PDF drawing
// primitives every placed coordinate ultimately reaches.
//
// Records tagged PositionTopEdge store the top-left corner in screen space
// (Y downward from the page top) and are flipped here. Records tagged
// PositionLegacy are already in drawing space and pass through unchanged.
// A missing field height counts as 0. Pure function; never fails.
func ToDrawingSpace(pos Position, fieldHeight, pageHeight float64, v PositionVersion) Position {
	if v == PositionTopEdge {
		return Position{X: pos.X, Y: pageHeight - pos.Y - fieldHeight}
	}
	return pos
}

// FromDrawingSpace is the inverse of ToDrawingSpace for top-edge records:
// it recovers the stored screen-space position from a drawing-space point.
// Legacy positions are returned unchanged.
func FromDrawingSpace(pos Position, fieldHeight, pageHeight float64, v PositionVersion) Position {
	if v == PositionTopEdge {
		return Position{X: pos.X, Y: pageHeight - pos.Y - fieldHeight}
	}
	return pos
}
