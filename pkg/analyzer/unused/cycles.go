package unused

import (
	"slices"

	"gonum.org/v1/gonum/graph/simple"
	"gonum.org/v1/gonum/graph/topo"
)

// ImportCycles returns the import cycles among the edges recorded in u.
// Each cycle is a sorted list of paths; cycles are ordered by their first path.
// A file importing itself forms a cycle of one.
func ImportCycles(u *Universe) [][]string {
	g := simple.NewDirectedGraph()
	for i := range u.files {
		g.AddNode(simple.Node(i))
	}

	// Referrers outside the universe (an entry point outside the scan folder) get ids past the end.
	extra := make(map[string]int64)
	idOf := func(path string) int64 {
		if idx, ok := u.index[path]; ok {
			return int64(idx)
		}
		if id, ok := extra[path]; ok {
			return id
		}
		id := int64(len(u.files) + len(extra))
		extra[path] = id
		g.AddNode(simple.Node(id))
		return id
	}
	pathOf := func(id int64) string {
		if int(id) < len(u.files) {
			return u.files[id].Path
		}
		for p, eid := range extra {
			if eid == id {
				return p
			}
		}
		return ""
	}

	var cycles [][]string
	for i, f := range u.files {
		for _, from := range f.ReferencedBy {
			fid := idOf(from)
			if fid == int64(i) {
				// simple graphs reject self edges
				cycles = append(cycles, []string{f.Path})
				continue
			}
			g.SetEdge(g.NewEdge(simple.Node(fid), simple.Node(i)))
		}
	}

	for _, scc := range topo.TarjanSCC(g) {
		if len(scc) < 2 {
			continue
		}
		cycle := make([]string, 0, len(scc))
		for _, n := range scc {
			cycle = append(cycle, pathOf(n.ID()))
		}
		slices.Sort(cycle)
		cycles = append(cycles, cycle)
	}

	slices.SortFunc(cycles, func(a, b []string) int {
		return slices.Compare(a, b)
	})
	return cycles
}
