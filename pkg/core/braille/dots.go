package braille

// Unicode braille patterns occupy U+2800..U+28FF. Bit n of the offset is
// dot n+1.
const (
	cellBase = 0x2800
	cellLast = 0x28ff
)

// IsCell reports whether r is a Unicode braille pattern.
func IsCell(r rune) bool { return r >= cellBase && r <= cellLast }

// Dots returns the raised dots of cell r in ascending order, numbered 1-8.
// Non-cells and the blank cell return nil.
func Dots(r rune) []int {
	if !IsCell(r) {
		return nil
	}
	bits := int(r - cellBase)
	var dots []int
	for n := 0; n < 8; n++ {
		if bits&(1<<n) != 0 {
			dots = append(dots, n+1)
		}
	}
	return dots
}

// DotPosition returns the column (0 or 1) and row (0-3) of dot n within a
// cell. Dots 1-3 run down the left column, 4-6 down the right, and 7 and 8
// sit on the bottom row.
func DotPosition(n int) (col, row int) {
	switch {
	case n >= 1 && n <= 3:
		return 0, n - 1
	case n >= 4 && n <= 6:
		return 1, n - 4
	case n == 7:
		return 0, 3
	case n == 8:
		return 1, 3
	}
	return -1, -1
}
