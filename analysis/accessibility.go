package analysis

import (
	"container/heap"
	"sort"

	"github.com/theoremus-urban-solutions/gtfs-to-gmns/gmns"
)

// AccessibilityRow describes what one station reaches inside a time budget.
type AccessibilityRow struct {
	NodeID         int
	StopID         string
	AgencyName     string
	ServiceCount   int
	ReachableStops int
}

// StopAccessibility runs a shortest-path pass from every physical node over
// the link travel times (boarding wait plus in-vehicle plus transfer walk)
// and counts the stations reachable within budgetMin. ServiceCount is the
// number of distinct directed services calling at the station.
func StopAccessibility(nodes []gmns.Node, links []gmns.Link, budgetMin float64) []AccessibilityRow {
	adj := make(map[int][]edge, len(nodes))
	for _, l := range links {
		adj[l.FromNodeID] = append(adj[l.FromNodeID], edge{to: l.ToNodeID, cost: l.FFTT})
	}

	servicesAt := make(map[int]map[string]struct{})
	for _, n := range nodes {
		if n.IsPhysical() || n.DirectedServiceID == "" {
			continue
		}
		set := servicesAt[n.PhysicalNodeID]
		if set == nil {
			set = make(map[string]struct{})
			servicesAt[n.PhysicalNodeID] = set
		}
		set[n.DirectedServiceID] = struct{}{}
	}

	physical := make(map[int]bool, len(nodes))
	for _, n := range nodes {
		if n.IsPhysical() {
			physical[n.NodeID] = true
		}
	}

	var rows []AccessibilityRow
	for _, n := range nodes {
		if !n.IsPhysical() {
			continue
		}
		dist := shortestTimes(adj, n.NodeID, budgetMin)
		reachable := 0
		for id := range dist {
			if id != n.NodeID && physical[id] {
				reachable++
			}
		}
		rows = append(rows, AccessibilityRow{
			NodeID:         n.NodeID,
			StopID:         n.Name,
			AgencyName:     n.AgencyName,
			ServiceCount:   len(servicesAt[n.NodeID]),
			ReachableStops: reachable,
		})
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].NodeID < rows[j].NodeID })
	return rows
}

type edge struct {
	to   int
	cost float64
}

type pqItem struct {
	node int
	dist float64
}

type priorityQueue []pqItem

func (pq priorityQueue) Len() int            { return len(pq) }
func (pq priorityQueue) Less(i, j int) bool  { return pq[i].dist < pq[j].dist }
func (pq priorityQueue) Swap(i, j int)       { pq[i], pq[j] = pq[j], pq[i] }
func (pq *priorityQueue) Push(x interface{}) { *pq = append(*pq, x.(pqItem)) }
func (pq *priorityQueue) Pop() interface{} {
	old := *pq
	n := len(old)
	item := old[n-1]
	*pq = old[:n-1]
	return item
}

// shortestTimes is Dijkstra bounded by the budget; nodes past the budget
// are never expanded, so runs stay small even on metro-scale networks.
func shortestTimes(adj map[int][]edge, source int, budget float64) map[int]float64 {
	dist := map[int]float64{source: 0}
	pq := &priorityQueue{{node: source, dist: 0}}
	for pq.Len() > 0 {
		cur := heap.Pop(pq).(pqItem)
		if cur.dist > dist[cur.node] {
			continue
		}
		for _, e := range adj[cur.node] {
			nd := cur.dist + e.cost
			if nd > budget {
				continue
			}
			if prev, seen := dist[e.to]; !seen || nd < prev {
				dist[e.to] = nd
				heap.Push(pq, pqItem{node: e.to, dist: nd})
			}
		}
	}
	return dist
}
