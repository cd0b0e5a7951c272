package entity

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Selection is the set of record numbers an entity run is limited to.
// The zero value selects nothing; use SelectAll for the unrestricted set.
type Selection struct {
	all bool
	ids map[int]struct{}
}

// SelectAll matches every record.
var SelectAll = Selection{all: true}

// SelectIDs builds a selection matching exactly the given numbers.
func SelectIDs(ids ...int) Selection {
	m := make(map[int]struct{}, len(ids))
	for _, id := range ids {
		m[id] = struct{}{}
	}
	return Selection{ids: m}
}

// All reports whether the selection is unrestricted.
func (s Selection) All() bool { return s.all }

// Includes reports whether record number n is selected.
func (s Selection) Includes(n int) bool {
	if s.all {
		return true
	}
	_, ok := s.ids[n]
	return ok
}

// Len returns the number of explicitly selected IDs (0 when All).
func (s Selection) Len() int { return len(s.ids) }

// IDs returns the selected numbers in ascending order.
func (s Selection) IDs() []int {
	out := make([]int, 0, len(s.ids))
	for id := range s.ids {
		out = append(out, id)
	}
	sort.Ints(out)
	return out
}

func (s Selection) String() string {
	if s.all {
		return "all"
	}
	parts := make([]string, 0, len(s.ids))
	for _, id := range s.IDs() {
		parts = append(parts, strconv.Itoa(id))
	}
	return strings.Join(parts, ",")
}

// ParseBool parses the tolerant boolean grammar accepted by entity variables:
// true/false/1/0/yes/no/on/off, case-insensitive.
func ParseBool(v string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "true", "1", "yes", "on":
		return true, nil
	case "false", "0", "no", "off":
		return false, nil
	}
	return false, fmt.Errorf("invalid boolean %q (want true/false/1/0/yes/no/on/off)", v)
}

// ParseSelection parses the value of a selectable entity variable: either a
// boolean (whole-entity on/off) or a comma-separated list of positive integers
// and inclusive ranges such as "1,5,10-20".
//
// The returned bool is false only when the value parsed as boolean false.
func ParseSelection(v string) (Selection, bool, error) {
	if b, err := ParseBool(v); err == nil {
		if b {
			return SelectAll, true, nil
		}
		return Selection{}, false, nil
	}
	ids := make(map[int]struct{})
	for _, part := range strings.Split(v, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			return Selection{}, false, fmt.Errorf("empty selection element")
		}
		lo, hi, isRange := strings.Cut(part, "-")
		if !isRange {
			n, err := strconv.Atoi(lo)
			if err != nil || n <= 0 {
				return Selection{}, false, fmt.Errorf("invalid id %q", part)
			}
			ids[n] = struct{}{}
			continue
		}
		a, err1 := strconv.Atoi(strings.TrimSpace(lo))
		b, err2 := strconv.Atoi(strings.TrimSpace(hi))
		if err1 != nil || err2 != nil || a <= 0 || b < a {
			return Selection{}, false, fmt.Errorf("invalid range %q", part)
		}
		for n := a; n <= b; n++ {
			ids[n] = struct{}{}
		}
	}
	if len(ids) == 0 {
		return Selection{}, false, fmt.Errorf("empty selection")
	}
	return Selection{ids: ids}, true, nil
}
