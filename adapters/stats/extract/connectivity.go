package extract

import (
	"lotogrid/domain/grid"
)

// connectedComponents counts the components of the adjacency graph induced
// by the drawn positions. With diagonal=false edges follow 4-connectivity,
// with diagonal=true 8-connectivity. Union-find over the handful of drawn
// cells; 8-adjacency edges are a superset of 4-adjacency edges, so the
// 8-connected count can never exceed the 4-connected count.
func connectedComponents(positions []grid.Position, diagonal bool) int {
	n := len(positions)
	parent := make([]int, n)
	for i := range parent {
		parent[i] = i
	}

	var find func(int) int
	find = func(x int) int {
		for parent[x] != x {
			parent[x] = parent[parent[x]] // path halving
			x = parent[x]
		}
		return x
	}

	components := n
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			dr := absInt(positions[i].Row - positions[j].Row)
			dc := absInt(positions[i].Col - positions[j].Col)
			adjacent := false
			if diagonal {
				adjacent = dr <= 1 && dc <= 1
			} else {
				adjacent = dr+dc == 1
			}
			if !adjacent {
				continue
			}
			ri, rj := find(i), find(j)
			if ri != rj {
				parent[ri] = rj
				components--
			}
		}
	}
	return components
}
