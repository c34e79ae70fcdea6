// Package pathgraph implements an incrementally maintained shortest-path
// structure: for every node, it tracks the distance and next-hop along a
// shortest path to a fixed set of sink nodes, and repairs that information
// in sublinear time as edges are cut and uncut.
//
// Grounded on graph_util.py's PathGraph (sever + multi-source Dijkstra
// reconnect), with the recursive sever and update_uphill walks rewritten as
// iterative worklists per spec.md's redesign note, so a long cut chain
// can't blow the stack; update_downhill stays recursive.
package pathgraph

import (
	"container/heap"

	"github.com/wrongu/QuoridorV2/internal/board"
)

type node = board.Location

// PathGraph mutates the adjacency graph it was constructed with. When a
// Game owns two PathGraphs sharing one board.AdjacencyGraph, every wall
// must be cut/uncut on both.
type PathGraph struct {
	graph board.AdjacencyGraph
	sinks map[node]struct{}

	dist   map[node]int
	next   map[node]node
	hasNxt map[node]bool
	uphill map[node]map[node]struct{}
}

// New builds a PathGraph over graph (which it takes ownership of -- Cut and
// Uncut mutate it) for the given sink set. graph must be connected.
func New(graph board.AdjacencyGraph, sinks []node) *PathGraph {
	pg := &PathGraph{
		graph:  graph,
		sinks:  make(map[node]struct{}, len(sinks)),
		dist:   make(map[node]int, len(graph)),
		next:   make(map[node]node, len(graph)),
		hasNxt: make(map[node]bool, len(graph)),
		uphill: make(map[node]map[node]struct{}, len(graph)),
	}
	for n := range graph {
		pg.dist[n] = -1
		pg.uphill[n] = make(map[node]struct{})
	}
	for _, s := range sinks {
		pg.sinks[s] = struct{}{}
		pg.dist[s] = 0
	}

	toReconnect := make([]node, 0, len(graph)-len(sinks))
	for n := range graph {
		if _, isSink := pg.sinks[n]; !isSink {
			toReconnect = append(toReconnect, n)
		}
	}
	pg.reconnect(toReconnect)
	return pg
}

// Distance returns the number of steps from n to the nearest sink, or -1 if
// n cannot currently reach any sink.
func (pg *PathGraph) Distance(n node) int {
	return pg.dist[n]
}

// HasPath reports whether n can currently reach a sink.
func (pg *PathGraph) HasPath(n node) bool {
	return pg.dist[n] != -1
}

// Next returns the neighbor one step downhill from n along a shortest path,
// and false if n is a sink or unreachable.
func (pg *PathGraph) Next(n node) (node, bool) {
	if !pg.hasNxt[n] {
		return node{}, false
	}
	return pg.next[n], true
}

// PathIter lazily walks a shortest path from a starting node to a sink,
// inclusive of the sink and exclusive of the start. It is restartable: call
// GetPath again for a fresh walk.
type PathIter struct {
	pg   *PathGraph
	cur  node
	done bool
}

// GetPath returns a fresh, restartable iterator over the shortest path from
// n (exclusive) to a sink (inclusive). If n is unreachable, the first call
// to Next reports done.
func (pg *PathGraph) GetPath(n node) *PathIter {
	return &PathIter{pg: pg, cur: n}
}

// Next advances the iterator and returns the next cell on the path, or
// ok=false once the sink has already been yielded or the path is broken.
func (it *PathIter) Next() (n node, ok bool) {
	if it.done {
		return node{}, false
	}
	if _, isSink := it.pg.sinks[it.cur]; isSink {
		it.done = true
		return node{}, false
	}
	nxt, has := it.pg.Next(it.cur)
	if !has {
		it.done = true
		return node{}, false
	}
	it.cur = nxt
	if _, isSink := it.pg.sinks[nxt]; isSink {
		it.done = true
	}
	return nxt, true
}

// Cut removes each undirected edge in pairs from the graph and repairs any
// shortest-path information that depended on it. Cutting an edge twice
// without an intervening Uncut is undefined, per spec.md.
func (pg *PathGraph) Cut(pairs [][2]node) {
	var toSever []node
	for _, pair := range pairs {
		a, b := pair[0], pair[1]
		pg.graph.Cut(a, b)

		if na, ok := pg.Next(a); ok && na == b {
			delete(pg.uphill[b], a)
			toSever = append(toSever, a)
		} else if nb, ok := pg.Next(b); ok && nb == a {
			delete(pg.uphill[a], b)
			toSever = append(toSever, b)
		}
	}
	if len(toSever) > 0 {
		severed := pg.sever(toSever)
		pg.reconnect(severed)
	}
}

// Uncut restores each undirected edge in pairs, reconnecting any severed
// component and propagating any resulting shortening of paths. Uncutting an
// edge that was never cut is undefined.
func (pg *PathGraph) Uncut(pairs [][2]node) {
	for _, pair := range pairs {
		pg.uncutOne(pair[0], pair[1])
	}
}

func (pg *PathGraph) uncutOne(a, b node) {
	pg.graph.Uncut(a, b)

	aUnreachable, bUnreachable := !pg.HasPath(a), !pg.HasPath(b)
	if aUnreachable || bUnreachable {
		start := a
		if !aUnreachable {
			start = b
		}
		severed := map[node]struct{}{start: {}}
		fringe := []node{start}
		for len(fringe) > 0 {
			n := fringe[len(fringe)-1]
			fringe = fringe[:len(fringe)-1]
			for nb := range pg.graph.Neighbors(n) {
				if !pg.HasPath(nb) {
					if _, seen := severed[nb]; !seen {
						severed[nb] = struct{}{}
						fringe = append(fringe, nb)
					}
				}
			}
		}
		list := make([]node, 0, len(severed))
		for n := range severed {
			list = append(list, n)
		}
		pg.reconnect(list)
		return
	}

	distA, distB := pg.dist[a], pg.dist[b]
	diff := distA - distB
	if diff < -1 || diff > 1 {
		closer, farther := a, b
		if distB < distA {
			closer, farther = b, a
		}
		closerDist := distA
		if distB < distA {
			closerDist = distB
		}
		pg.updateDownhill(closer, farther, closerDist)
		pg.updateUphill(closer, farther, closerDist)
	}
}

// updateDownhill reverses the shortest-path direction of nodes downhill from
// `n`, routing them through `parent` instead, as long as doing so shortens
// them. Recursion depth is at most the length of `n`'s current path, which
// the 81-cell board bounds, so this is expressed directly as in
// graph_util.py; sever and updateUphill use iterative worklists instead
// (see below).
func (pg *PathGraph) updateDownhill(parent, n node, parentDist int) {
	nodeDist := pg.dist[n]
	if nodeDist <= parentDist+1 {
		return
	}
	nodeChild, _ := pg.Next(n)
	pg.updateDownhill(n, nodeChild, parentDist+1)

	if oldNext, ok := pg.Next(n); ok {
		delete(pg.uphill[oldNext], n)
	}
	pg.setNext(n, parent, parentDist+1)
	pg.uphill[parent][n] = struct{}{}
	delete(pg.uphill[n], parent)
}

// updateUphill routes `n` through `parent` at distance parentDist+1, then
// spreads the shortening outward breadth-first from `n`: every neighbor whose
// distance drops by stepping onto an already-updated node is re-pointed at
// it. This covers `n`'s uphill subtree as well as nodes that hung off some
// other branch but are now closer via `n`. Runs after updateDownhill.
func (pg *PathGraph) updateUphill(parent, n node, parentDist int) {
	pg.setNext(n, parent, parentDist+1)
	queue := []node{n}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		d := pg.dist[cur]
		for nb := range pg.graph.Neighbors(cur) {
			if pg.dist[nb] <= d+1 {
				continue
			}
			if old, ok := pg.Next(nb); ok {
				delete(pg.uphill[old], nb)
			}
			pg.setNext(nb, cur, d+1)
			pg.uphill[cur][nb] = struct{}{}
			queue = append(queue, nb)
		}
	}
}

func (pg *PathGraph) setNext(n, to node, dist int) {
	pg.dist[n] = dist
	pg.next[n] = to
	pg.hasNxt[n] = true
}

// sever walks uphill (iteratively) from each start node, detaching every
// node found from dist/next/uphill. Returns the set of severed nodes.
func (pg *PathGraph) sever(starts []node) []node {
	var severed []node
	seen := make(map[node]struct{})
	stack := append([]node(nil), starts...)
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if _, ok := seen[n]; ok {
			continue
		}
		seen[n] = struct{}{}
		severed = append(severed, n)

		for up := range pg.uphill[n] {
			stack = append(stack, up)
		}

		if _, isSink := pg.sinks[n]; isSink {
			pg.dist[n] = 0
		} else {
			pg.dist[n] = -1
		}
		pg.hasNxt[n] = false
		pg.uphill[n] = make(map[node]struct{})
	}
	return severed
}

// borderItem is a (distance, node) pair ordered by distance for the
// reconnect min-heap -- multi-source Dijkstra on unit-weight edges, i.e.
// multi-source BFS.
type borderItem struct {
	dist int
	n    node
}

type borderHeap []borderItem

func (h borderHeap) Len() int            { return len(h) }
func (h borderHeap) Less(i, j int) bool  { return h[i].dist < h[j].dist }
func (h borderHeap) Swap(i, j int)       { h[i], h[j] = h[j], h[i] }
func (h *borderHeap) Push(x interface{}) { *h = append(*h, x.(borderItem)) }
func (h *borderHeap) Pop() interface{} {
	old := *h
	n := len(old)
	item := old[n-1]
	*h = old[:n-1]
	return item
}

// reconnect recomputes dist/next/uphill for every node in severed, via a
// multi-source Dijkstra seeded from the reachable border around the set.
func (pg *PathGraph) reconnect(severedList []node) {
	if len(severedList) == 0 {
		return
	}
	severed := make(map[node]struct{}, len(severedList))
	for _, n := range severedList {
		severed[n] = struct{}{}
	}

	h := &borderHeap{}
	seenBorder := make(map[node]struct{})
	for n := range severed {
		for nb := range pg.graph.Neighbors(n) {
			if _, isSevered := severed[nb]; isSevered {
				continue
			}
			if !pg.HasPath(nb) {
				continue
			}
			if _, dup := seenBorder[nb]; dup {
				continue
			}
			seenBorder[nb] = struct{}{}
			heap.Push(h, borderItem{dist: pg.dist[nb], n: nb})
		}
	}

	for len(severed) > 0 && h.Len() > 0 {
		b := heap.Pop(h).(borderItem)
		for nb := range pg.graph.Neighbors(b.n) {
			if _, isSevered := severed[nb]; !isSevered {
				continue
			}
			delete(severed, nb)
			pg.setNext(nb, b.n, b.dist+1)
			pg.uphill[b.n][nb] = struct{}{}
			heap.Push(h, borderItem{dist: b.dist + 1, n: nb})
		}
	}
}
