package tensor

// Layout tags how a tensor's elements are arranged in memory.
type Layout int

// Supported memory layouts.
const (
	// Dense is the generic row-major layout every backend op understands.
	Dense Layout = iota

	// Blocked is the accelerated layout. The tensor is viewed as a
	// [Rows, Last] matrix whose columns are split into panels of BlockWidth
	// lanes; panels are stored one after another, each holding every row's
	// lanes contiguously. The final panel is zero padded.
	//
	//	element (r, c) lives at ((c/bw)*rows + r)*bw + c%bw
	//
	// Only backends implementing Accelerator can produce or consume it.
	Blocked
)

// String returns a human-readable layout name.
func (l Layout) String() string {
	switch l {
	case Dense:
		return "dense"
	case Blocked:
		return "blocked"
	default:
		return "unknown"
	}
}

// BlockedIndex returns the storage index of logical element (row, col) of a
// blocked tensor with the given row count and block width.
func BlockedIndex(row, col, rows, blockWidth int) int {
	return ((col/blockWidth)*rows+row)*blockWidth + col%blockWidth
}

// NumPanels returns how many blockWidth-wide panels cover cols columns.
func NumPanels(cols, blockWidth int) int {
	return (cols + blockWidth - 1) / blockWidth
}
