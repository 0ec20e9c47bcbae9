package placement

// Symbols hands out symbol tokens in the order a..z, aa..az, ba..zz, aaa...
// The zero value starts at "a". A Symbols must not be shared between jobs.
type Symbols struct {
	next int
}

// Peek returns the next token without consuming it.
func (s *Symbols) Peek() string { return Token(s.next) }

// Next consumes and returns the next token.
func (s *Symbols) Next() string {
	t := Token(s.next)
	s.next++
	return t
}

// Count returns the number of tokens consumed.
func (s *Symbols) Count() int { return s.next }

// Token returns the i-th token (zero-based) in bijective base 26.
func Token(i int) string {
	if i < 0 {
		return ""
	}
	var buf [16]byte
	n := len(buf)
	for i++; i > 0; i = (i - 1) / 26 {
		n--
		buf[n] = byte('a' + (i-1)%26)
	}
	return string(buf[n:])
}
