package role

import "sort"

// Hierarchy lists the tiers most senior first. Holding a tier implies holding
// every tier after it.
var Hierarchy = []Name{Admin, Lecturer, Student}

// DefaultRole is granted when nothing is requested
const DefaultRole = Student

// tier returns the index of n in Hierarchy, or -1
func tier(n Name) int {
	for i, h := range Hierarchy {
		if h == n {
			return i
		}
	}
	return -1
}

// Implies reports whether holding senior grants junior
func Implies(senior, junior Name) bool {
	s, j := tier(senior), tier(junior)
	return s >= 0 && j >= 0 && s <= j
}

// Close returns the closed set of role names to grant for the requested set,
// ordered most senior first. An empty request yields just DefaultRole.
// Closing an already closed set returns it unchanged.
func Close(requested []Name) ([]Name, error) {
	if len(requested) == 0 {
		return []Name{DefaultRole}, nil
	}

	highest := len(Hierarchy)
	for _, n := range requested {
		t := tier(n)
		if t < 0 {
			return nil, invalidRoleError(n)
		}
		if t < highest {
			highest = t
		}
	}

	closed := make([]Name, len(Hierarchy)-highest)
	copy(closed, Hierarchy[highest:])
	return closed, nil
}

// SortBySeniority orders roles most senior first. Unknown names sort last.
func SortBySeniority(roles []Role) {
	sort.SliceStable(roles, func(i, j int) bool {
		return rank(roles[i].Name) < rank(roles[j].Name)
	})
}

func rank(n Name) int {
	if t := tier(n); t >= 0 {
		return t
	}
	return len(Hierarchy)
}
