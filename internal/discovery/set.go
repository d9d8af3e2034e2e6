package discovery

// StringSet is a hash set of strings with O(1) membership checks.
type StringSet map[string]struct{}

func NewStringSet(values ...string) StringSet {
	s := make(StringSet, len(values))
	for _, v := range values {
		s.Add(v)
	}
	return s
}

func (s StringSet) Add(value string) {
	s[value] = struct{}{}
}

func (s StringSet) AddAll(values []string) {
	for _, v := range values {
		s.Add(v)
	}
}

func (s StringSet) Has(value string) bool {
	_, ok := s[value]
	return ok
}

func (s StringSet) Len() int {
	return len(s)
}
