package chapters

import (
	"fmt"
	"strconv"
	"strings"
)

// Selection picks chapters by their 1-based position in the listing. Chapters
// are discovered lazily, so it answers per index instead of slicing a list.
// A nil *Selection selects everything.
type Selection struct {
	// indices is set for lists; ranges only keep their bounds.
	indices    map[int]bool
	start, end int
}

// ParseSelection builds a selection from a single index, a range "a-b" or a
// list "1,3,5". The first non-empty argument wins; all empty selects all.
func ParseSelection(chapter, rng, list string) (*Selection, error) {
	switch {
	case strings.TrimSpace(chapter) != "":
		idx, err := atoi(chapter)
		if err != nil || idx <= 0 {
			return nil, fmt.Errorf("invalid chapter index %q", chapter)
		}
		return newSelection(idx), nil
	case strings.TrimSpace(rng) != "":
		return parseRange(rng)
	case strings.TrimSpace(list) != "":
		return parseList(list)
	}

	return nil, nil
}

func newSelection(idx ...int) *Selection {
	s := &Selection{indices: make(map[int]bool, len(idx))}
	for _, i := range idx {
		s.indices[i] = true
		s.end = max(s.end, i)
	}
	return s
}

func parseRange(rng string) (*Selection, error) {
	parts := strings.Split(rng, "-")
	if len(parts) != 2 {
		return nil, fmt.Errorf("invalid range %q, expected start-end", rng)
	}

	start, err1 := atoi(parts[0])
	end, err2 := atoi(parts[1])
	if err1 != nil || err2 != nil {
		return nil, fmt.Errorf("invalid range %q, expected start-end", rng)
	}
	if start <= 0 || end <= 0 || start > end {
		return nil, fmt.Errorf("invalid range %q", rng)
	}

	return &Selection{start: start, end: end}, nil
}

func parseList(list string) (*Selection, error) {
	var idx []int
	for _, n := range strings.Split(list, ",") {
		n = strings.TrimSpace(n)
		if n == "" {
			continue
		}
		i, err := atoi(n)
		if err != nil || i <= 0 {
			return nil, fmt.Errorf("invalid chapter index %q in list", n)
		}
		idx = append(idx, i)
	}

	if len(idx) == 0 {
		return nil, fmt.Errorf("empty chapter list %q", list)
	}

	return newSelection(idx...), nil
}

// Contains reports whether the chapter at 1-based position idx is selected.
func (s *Selection) Contains(idx int) bool {
	if s == nil {
		return true
	}
	if s.indices != nil {
		return s.indices[idx]
	}
	return s.start <= idx && idx <= s.end
}

// Past reports whether no chapter at or after idx can be selected.
func (s *Selection) Past(idx int) bool {
	return s != nil && idx > s.end
}

func (s *Selection) Len() int {
	if s == nil {
		return -1
	}
	if s.indices != nil {
		return len(s.indices)
	}
	return s.end - s.start + 1
}

func atoi(s string) (int, error) {
	return strconv.Atoi(strings.TrimSpace(s))
}
