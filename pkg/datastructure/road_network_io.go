package datastructure

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/dsnet/compress/bzip2"
	"github.com/google/uuid"
	"github.com/lintang-b-s/navtraffic/pkg"
	"github.com/lintang-b-s/navtraffic/pkg/util"
)

// snapshot layout (bzip2 compressed text):
//
//	numNodes numEdges hasEndpoints topologyId
//	origLat origLon dstLat dstLon        (only if hasEndpoints == 1)
//	nodeId lat lon                       (numNodes lines)
//	fromNodeId toNodeId key weight length hwType   (numEdges lines)
//
// floats are written with the shortest representation that parses back to the same value.

func (g *RoadNetwork) WriteSnapshot(out io.Writer) error {
	bz, err := bzip2.NewWriter(out, &bzip2.WriterConfig{})
	if err != nil {
		return err
	}

	w := bufio.NewWriter(bz)

	hasEndpoints := 0
	if g.endpoints != nil {
		hasEndpoints = 1
	}
	fmt.Fprintf(w, "%d %d %d %s\n", len(g.nodes), len(g.edges), hasEndpoints, g.topologyId)

	if g.endpoints != nil {
		fmt.Fprintf(w, "%s %s %s %s\n",
			formatFloat(g.endpoints.Origin.Lat), formatFloat(g.endpoints.Origin.Lon),
			formatFloat(g.endpoints.Destination.Lat), formatFloat(g.endpoints.Destination.Lon))
	}

	for _, n := range g.nodes {
		fmt.Fprintf(w, "%d %s %s\n", n.id, formatFloat(n.lat), formatFloat(n.lon))
	}

	for _, e := range g.edges {
		fmt.Fprintf(w, "%d %d %d %s %s %d\n",
			g.nodes[e.from].id, g.nodes[e.to].id, e.key, formatFloat(e.weight), formatFloat(e.length), e.hwType)
	}

	if err := w.Flush(); err != nil {
		bz.Close()
		return err
	}
	return bz.Close()
}

// MarshalBinary. encode graph snapshot to bytes
func (g *RoadNetwork) MarshalBinary() ([]byte, error) {
	var buf bytes.Buffer
	if err := g.WriteSnapshot(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func UnmarshalRoadNetwork(data []byte) (*RoadNetwork, error) {
	return ReadSnapshot(bytes.NewReader(data))
}

func ReadSnapshot(in io.Reader) (*RoadNetwork, error) {
	bz, err := bzip2.NewReader(in, nil)
	if err != nil {
		return nil, err
	}
	defer bz.Close()

	br := bufio.NewReader(bz)

	line, err := util.ReadLine(br)
	if err != nil {
		return nil, err
	}

	tokens := fields(line)
	if len(tokens) != 4 {
		return nil, fmt.Errorf("invalid snapshot header: %q", line)
	}

	numNodes, err := strconv.Atoi(tokens[0])
	if err != nil {
		return nil, err
	}
	numEdges, err := strconv.Atoi(tokens[1])
	if err != nil {
		return nil, err
	}
	hasEndpoints := tokens[2] == "1"
	topologyId, err := uuid.Parse(tokens[3])
	if err != nil {
		return nil, fmt.Errorf("invalid snapshot topology id: %w", err)
	}

	g := NewRoadNetworkWithSize(numNodes, numEdges)

	if hasEndpoints {
		line, err = util.ReadLine(br)
		if err != nil {
			return nil, err
		}
		vals, err := parseFloats(fields(line), 4)
		if err != nil {
			return nil, fmt.Errorf("invalid snapshot endpoints: %w", err)
		}
		g.SetEndpoints(NewRouteEndpoints(vals[0], vals[1], vals[2], vals[3]))
	}

	for i := 0; i < numNodes; i++ {
		line, err = util.ReadLine(br)
		if err != nil {
			return nil, err
		}
		tokens = fields(line)
		if len(tokens) != 3 {
			return nil, fmt.Errorf("invalid snapshot node line: %q", line)
		}
		id, err := strconv.ParseInt(tokens[0], 10, 64)
		if err != nil {
			return nil, err
		}
		coord, err := parseFloats(tokens[1:], 2)
		if err != nil {
			return nil, err
		}
		g.AddNode(id, coord[0], coord[1])
	}

	for i := 0; i < numEdges; i++ {
		line, err = util.ReadLine(br)
		if err != nil {
			return nil, err
		}
		tokens = fields(line)
		if len(tokens) != 6 {
			return nil, fmt.Errorf("invalid snapshot edge line: %q", line)
		}
		from, err := strconv.ParseInt(tokens[0], 10, 64)
		if err != nil {
			return nil, err
		}
		to, err := strconv.ParseInt(tokens[1], 10, 64)
		if err != nil {
			return nil, err
		}
		key, err := strconv.ParseUint(tokens[2], 10, 32)
		if err != nil {
			return nil, err
		}
		wl, err := parseFloats(tokens[3:5], 2)
		if err != nil {
			return nil, err
		}
		hwType, err := strconv.ParseUint(tokens[5], 10, 8)
		if err != nil {
			return nil, err
		}
		if err := g.AddEdgeWithKey(from, to, uint32(key), wl[0], wl[1], pkg.OsmHighwayType(hwType)); err != nil {
			return nil, err
		}
	}

	g.topologyId = topologyId
	g.sharedTopology = true
	return g, nil
}

func fields(s string) []string {
	return strings.Fields(s)
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

func parseFloats(tokens []string, n int) ([]float64, error) {
	if len(tokens) != n {
		return nil, fmt.Errorf("expected %d values, got %d", n, len(tokens))
	}
	vals := make([]float64, n)
	for i, tok := range tokens {
		v, err := strconv.ParseFloat(tok, 64)
		if err != nil {
			return nil, err
		}
		vals[i] = v
	}
	return vals, nil
}
