package compiler

import (
	"fmt"
	"sort"
	"strings"
)

// RewriteCycle describes rewrite rules that never reach a canonical form.
type RewriteCycle struct {
	Path    []string `json:"path"`    // Cycle path: ["+a", "+b", "+a"]
	Message string   `json:"message"` // Human-readable description
}

// AnalyzeRewriteCycles reports every cycle in the rewrite graph.
//
// Nodes are base-form identifiers; each rewrite adds an edge From → To.
// Tarjan's algorithm finds strongly connected components and every SCC with
// more than one node, or a self-loop, is a cycle. Unlike sync-rule cycles,
// a rewrite cycle is always an error: the canonical walk would never end.
//
// A DAG returns an empty list.
func AnalyzeRewriteCycles(rewrites []Rewrite) []RewriteCycle {
	if len(rewrites) == 0 {
		return []RewriteCycle{}
	}

	graph := buildRewriteGraph(rewrites)
	sccs := tarjanSCC(graph)

	var cycles []RewriteCycle
	for _, scc := range sccs {
		if len(scc) > 1 || (len(scc) == 1 && hasSelfLoop(scc[0], graph)) {
			cycles = append(cycles, sccToCycle(scc, graph))
		}
	}

	// Map iteration makes SCC discovery order random; sort for stable output.
	sort.Slice(cycles, func(i, j int) bool {
		return strings.Join(cycles[i].Path, " ") < strings.Join(cycles[j].Path, " ")
	})
	return cycles
}

// rewriteGraph maps identifier → identifiers it is rewritten to.
type rewriteGraph map[string][]string

func buildRewriteGraph(rewrites []Rewrite) rewriteGraph {
	graph := make(rewriteGraph)
	for _, rw := range rewrites {
		from := rw.From.Base().String()
		to := rw.To.Base().String()
		graph[from] = append(graph[from], to)
		if graph[to] == nil {
			graph[to] = []string{}
		}
	}
	return graph
}

func hasSelfLoop(node string, graph rewriteGraph) bool {
	for _, neighbor := range graph[node] {
		if neighbor == node {
			return true
		}
	}
	return false
}

// tarjanSCC finds strongly connected components using Tarjan's algorithm.
// Single-node SCCs without self-loops are NOT cycles.
func tarjanSCC(graph rewriteGraph) [][]string {
	var (
		index   = 0
		stack   []string
		indices = make(map[string]int)
		lowlink = make(map[string]int)
		onStack = make(map[string]bool)
		sccs    [][]string
	)

	var strongConnect func(string)
	strongConnect = func(v string) {
		indices[v] = index
		lowlink[v] = index
		index++
		stack = append(stack, v)
		onStack[v] = true

		for _, w := range graph[v] {
			if _, visited := indices[w]; !visited {
				strongConnect(w)
				lowlink[v] = min(lowlink[v], lowlink[w])
			} else if onStack[w] {
				lowlink[v] = min(lowlink[v], indices[w])
			}
		}

		if lowlink[v] == indices[v] {
			var scc []string
			for {
				w := stack[len(stack)-1]
				stack = stack[:len(stack)-1]
				onStack[w] = false
				scc = append(scc, w)
				if w == v {
					break
				}
			}
			sccs = append(sccs, scc)
		}
	}

	for node := range graph {
		if _, visited := indices[node]; !visited {
			strongConnect(node)
		}
	}

	return sccs
}

func sccToCycle(scc []string, graph rewriteGraph) RewriteCycle {
	if len(scc) == 1 {
		id := scc[0]
		return RewriteCycle{
			Path:    []string{id, id},
			Message: fmt.Sprintf("identifier rewritten to itself: %s → %s", id, id),
		}
	}

	path := reconstructCyclePath(scc, graph)
	return RewriteCycle{
		Path:    path,
		Message: fmt.Sprintf("rewrite cycle detected: %s", strings.Join(path, " → ")),
	}
}

// reconstructCyclePath follows edges inside the SCC from its smallest member
// until it returns to the start.
func reconstructCyclePath(scc []string, graph rewriteGraph) []string {
	if len(scc) == 0 {
		return []string{}
	}

	sccSet := make(map[string]bool)
	for _, node := range scc {
		sccSet[node] = true
	}

	start := scc[0]
	for _, node := range scc {
		if node < start {
			start = node
		}
	}

	current := start
	path := []string{current}
	visited := make(map[string]bool)

	for {
		visited[current] = true

		var next string
		for _, neighbor := range graph[current] {
			if sccSet[neighbor] && (!visited[neighbor] || neighbor == start) {
				next = neighbor
				break
			}
		}

		if next == "" {
			break
		}

		path = append(path, next)

		if next == start {
			break
		}

		current = next
	}

	return path
}
