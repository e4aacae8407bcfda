// Package effecttest provides scripted random sources for effect tests.
package effecttest

// Script is a Rand that replays fixed values. Intn returns the next scripted
// value reduced modulo n; once exhausted it keeps returning Fallback modulo n.
// Shuffle leaves the order untouched.
type Script struct {
	Values   []int
	Fallback int
}

func (s *Script) Intn(n int) int {
	v := s.Fallback
	if len(s.Values) > 0 {
		v = s.Values[0]
		s.Values = s.Values[1:]
	}
	if n <= 0 {
		return 0
	}
	return ((v % n) + n) % n
}

func (s *Script) Shuffle(n int, swap func(i, j int)) {}
