package routing

import (
	"github.com/lintang-b-s/navtraffic/pkg"
	"github.com/lintang-b-s/navtraffic/pkg/costfunction"
	da "github.com/lintang-b-s/navtraffic/pkg/datastructure"
)

type vertexInfo struct {
	travelTime float64
	parentEdge da.Index
	heapNode   *da.PriorityQueueNode[da.Index]
	settled    bool
}

// Dijkstra. single-source single-target query on a RoadNetwork with non-negative weights.
// a Dijkstra value holds per-query buffers and must not be shared between goroutines.
type Dijkstra struct {
	graph        *da.RoadNetwork
	costFunction costfunction.CostFunction

	info []vertexInfo
	pq   *da.MinHeap[da.Index]

	numSettledNodes int
}

func NewDijkstra(graph *da.RoadNetwork, costFunction costfunction.CostFunction) *Dijkstra {
	return &Dijkstra{
		graph:        graph,
		costFunction: costFunction,
		pq:           da.NewFourAryHeap[da.Index](),
	}
}

func (us *Dijkstra) Preallocate() {
	n := us.graph.NumberOfNodes()
	us.info = make([]vertexInfo, n)
	for i := range us.info {
		us.info[i] = vertexInfo{travelTime: pkg.INF_WEIGHT, parentEdge: da.INVALID_NODE_INDEX}
	}
	us.pq.Preallocate(n)
	us.numSettledNodes = 0
}

/*
ShortestPath. least cost path s -> t.

returns (cost, node path, found). if t is unreachable returns (INF_WEIGHT, empty path, false).
tie-breaking: a label is only replaced by a strictly smaller one, so among equal-cost paths the one whose
last edge was relaxed first wins. out edges are relaxed in insertion order, which makes the result stable
for a fixed graph (and for a graph decoded from its snapshot).
*/
func (us *Dijkstra) ShortestPath(s, t da.Index) (float64, []da.Index, bool) {
	us.Preallocate()

	if s == t {
		return 0, []da.Index{s}, true
	}

	sNode := da.NewPriorityQueueNode(0, s)
	us.info[s].travelTime = 0
	us.info[s].heapNode = sNode
	us.pq.Insert(sNode)

	for !us.pq.IsEmpty() {
		item, _ := us.pq.ExtractMin()
		u := item.GetItem()
		us.info[u].settled = true
		us.info[u].heapNode = nil
		us.numSettledNodes++

		if u == t {
			break
		}

		us.relax(u)
	}

	if !us.info[t].settled {
		return pkg.INF_WEIGHT, []da.Index{}, false
	}

	return us.info[t].travelTime, us.retrievePath(s, t), true
}

func (us *Dijkstra) relax(u da.Index) {
	uTravelTime := us.info[u].travelTime

	us.graph.ForOutEdgesOf(u, func(e *da.Edge) {
		v := e.GetTo()
		if us.info[v].settled {
			return
		}

		edgeWeight := us.costFunction.GetWeight(e)
		newTravelTime := uTravelTime + edgeWeight
		if newTravelTime >= pkg.INF_WEIGHT {
			return
		}

		if newTravelTime >= us.info[v].travelTime {
			// newTravelTime is not better, do nothing
			return
		}

		us.info[v].travelTime = newTravelTime
		us.info[v].parentEdge = e.GetEdgeId()

		if us.info[v].heapNode != nil {
			// key already in the priority queue, decrease its key
			us.pq.DecreaseKey(us.info[v].heapNode, newTravelTime)
			return
		}

		vNode := da.NewPriorityQueueNode(newTravelTime, v)
		us.info[v].heapNode = vNode
		us.pq.Insert(vNode)
	})
}

func (us *Dijkstra) retrievePath(s, t da.Index) []da.Index {
	path := make([]da.Index, 0)
	for cur := t; cur != s; {
		path = append(path, cur)
		cur = us.graph.GetEdge(us.info[cur].parentEdge).GetFrom()
	}
	path = append(path, s)
	return reverse(path)
}

func (us *Dijkstra) GetNumSettledNodes() int {
	return us.numSettledNodes
}

func reverse[T any](arr []T) []T {
	for i, j := 0, len(arr)-1; i < j; i, j = i+1, j-1 {
		arr[i], arr[j] = arr[j], arr[i]
	}
	return arr
}
