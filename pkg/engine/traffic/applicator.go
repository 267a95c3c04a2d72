package traffic

import (
	da "github.com/lintang-b-s/navtraffic/pkg/datastructure"
	"go.uber.org/zap"
)

type NodeResolver interface {
	Nearest(graph *da.RoadNetwork, lat, lon float64) (da.Index, error)
}

// Applicator. mutates edge weights of a road network from a trajectory of delay reports.
type Applicator struct {
	resolver NodeResolver
	log      *zap.Logger
}

func NewApplicator(resolver NodeResolver, log *zap.Logger) *Applicator {
	return &Applicator{
		resolver: resolver,
		log:      log,
	}
}

/*
ApplyTraffic. for every consecutive pair (reports[i], reports[i+1]) snap both reports to their nearest nodes u, v.
if a direct edge u -> v exists, its weight is increased by reports[i+1].delay.
if several parallel edges u -> v exist, the cheapest one receives the delay (equal weights: lowest key),
that is the edge the planner would route over.

pairs without a direct edge (including u == v) are skipped, no edge is ever created.
weights only grow: negative delays are ignored. topology is never changed.

returns the number of edge updates applied.
*/
func (a *Applicator) ApplyTraffic(graph *da.RoadNetwork, reports []da.DelayReport) (int, error) {
	if len(reports) < 2 {
		return 0, nil
	}

	nodes := make([]da.Index, len(reports))
	for i, r := range reports {
		u, err := a.resolver.Nearest(graph, r.GetLat(), r.GetLon())
		if err != nil {
			return 0, err
		}
		nodes[i] = u
	}

	updated := 0
	for i := 0; i+1 < len(reports); i++ {
		u, v := nodes[i], nodes[i+1]
		delay := reports[i+1].GetDelay()

		if u == v {
			continue
		}
		if delay < 0 {
			a.log.Warn("skipping negative traffic delay", zap.Float64("delay", delay))
			continue
		}

		e := graph.FindEdge(u, v)
		if e == nil {
			a.log.Debug("no direct edge between consecutive traffic reports",
				zap.Int64("from", graph.GetNode(u).GetID()), zap.Int64("to", graph.GetNode(v).GetID()))
			continue
		}

		graph.AddDelay(e.GetEdgeId(), delay)
		updated++
	}

	return updated, nil
}
