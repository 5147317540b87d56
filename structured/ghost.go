package structured

import "sort"

// IndexSet is an ascending set of flat indices.
type IndexSet []int

func (s IndexSet) Contains(i int) bool {
	n := sort.SearchInts(s, i)
	return n < len(s) && s[n] == i
}

func (s IndexSet) Len() int { return len(s) }

// IsGhost reports whether ijk sits in the ghost padding of extent n.
// Degenerate axes carry no ghosts.
func IsGhost(ijk, n IntVec, ng int) bool {
	for _, a := range Axes {
		if n[a] > 1 && (ijk[a] < ng || ijk[a] >= n[a]-ng) {
			return true
		}
	}
	return false
}

// GhostSet lists the flat indices of loc's ghost points.
func GhostSet(loc Location, dim IntVec, plusFaces [3]bool) (set IndexSet) {
	ng := loc.Ghost()
	if ng == 0 {
		return IndexSet{}
	}
	n := Extent(loc, dim, plusFaces)
	set = make(IndexSet, 0, n.Prod()-interiorCount(n, ng))
	for flat := 0; flat < n.Prod(); flat++ {
		if IsGhost(FlatToIJK(loc, dim, flat, plusFaces), n, ng) {
			set = append(set, flat)
		}
	}
	return
}

func interiorCount(n IntVec, ng int) int {
	c := 1
	for _, a := range Axes {
		if n[a] > 1 {
			c *= max(n[a]-2*ng, 0)
		} else {
			c *= n[a]
		}
	}
	return c
}
