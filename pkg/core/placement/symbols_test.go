package placement

import "testing"

func TestToken(t *testing.T) {
	tests := []struct {
		i    int
		want string
	}{
		{0, "a"},
		{1, "b"},
		{25, "z"},
		{26, "aa"},
		{27, "ab"},
		{51, "az"},
		{52, "ba"},
		{701, "zz"},
		{702, "aaa"},
	}
	for _, tt := range tests {
		if got := Token(tt.i); got != tt.want {
			t.Errorf("Token(%d) = %q, want %q", tt.i, got, tt.want)
		}
	}
}

func TestSymbolsUnique(t *testing.T) {
	var s Symbols
	seen := make(map[string]bool)
	for i := 0; i < 2000; i++ {
		if p := s.Peek(); p != s.Peek() {
			t.Fatal("Peek consumed a token")
		}
		tok := s.Next()
		if seen[tok] {
			t.Fatalf("token %q repeated at %d", tok, i)
		}
		seen[tok] = true
	}
	if s.Count() != 2000 {
		t.Errorf("Count() = %d", s.Count())
	}
}
