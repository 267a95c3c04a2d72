package datastructure

import "fmt"

// StronglyConnectedComponents. runs kosaraju's algorithm and returns the component id of every node.
// component ids are assigned in the order the second pass discovers them.
func (g *RoadNetwork) StronglyConnectedComponents() ([]int, int) {
	n := len(g.nodes)

	inEdges := make([][]Index, n)
	for i := range g.edges {
		e := &g.edges[i]
		inEdges[e.to] = append(inEdges[e.to], e.edgeId)
	}

	order := make([]Index, 0, n)
	visited := make([]bool, n)
	for v := 0; v < n; v++ {
		if !visited[v] {
			g.dfs(Index(v), visited, &order, func(u Index) []Index { return g.outEdges[u] },
				func(e *Edge) Index { return e.to })
		}
	}

	components := make([]int, n)
	visited = make([]bool, n)
	numComponents := 0
	for i := len(order) - 1; i >= 0; i-- {
		v := order[i]
		if visited[v] {
			continue
		}
		component := make([]Index, 0, 8)
		g.dfs(v, visited, &component, func(u Index) []Index { return inEdges[u] },
			func(e *Edge) Index { return e.from })
		for _, u := range component {
			components[u] = numComponents
		}
		numComponents++
	}

	return components, numComponents
}

// dfs. iterative post-order dfs, road networks are too deep for recursion.
func (g *RoadNetwork) dfs(s Index, visited []bool, output *[]Index, adj func(u Index) []Index,
	next func(e *Edge) Index) {
	type frame struct {
		u   Index
		pos int
	}

	visited[s] = true
	stack := []frame{{u: s}}
	for len(stack) > 0 {
		top := &stack[len(stack)-1]
		edges := adj(top.u)
		if top.pos < len(edges) {
			v := next(&g.edges[edges[top.pos]])
			top.pos++
			if !visited[v] {
				visited[v] = true
				stack = append(stack, frame{u: v})
			}
			continue
		}
		*output = append(*output, top.u)
		stack = stack[:len(stack)-1]
	}
}

// LargestStronglyConnectedComponent. subgraph induced by the biggest scc, nodes & edges keep their relative order.
// ties go to the component holding the lowest node index. endpoints are carried over.
func (g *RoadNetwork) LargestStronglyConnectedComponent() (*RoadNetwork, error) {
	if g.IsEmpty() {
		return g, nil
	}

	components, numComponents := g.StronglyConnectedComponents()
	if numComponents == 1 {
		return g, nil
	}

	size := make([]int, numComponents)
	for _, c := range components {
		size[c]++
	}
	best := components[0]
	for _, c := range components {
		if size[c] > size[best] {
			best = c
		}
	}

	sub := NewRoadNetworkWithSize(size[best], len(g.edges))
	for u := range g.nodes {
		if components[u] == best {
			n := &g.nodes[u]
			sub.AddNode(n.id, n.lat, n.lon)
		}
	}
	for i := range g.edges {
		e := &g.edges[i]
		if components[e.from] != best || components[e.to] != best {
			continue
		}
		err := sub.AddEdgeWithKey(g.nodes[e.from].id, g.nodes[e.to].id, e.key, e.weight, e.length, e.hwType)
		if err != nil {
			return nil, fmt.Errorf("copy edge %d into component: %w", e.edgeId, err)
		}
	}
	sub.endpoints = g.endpoints
	return sub, nil
}
