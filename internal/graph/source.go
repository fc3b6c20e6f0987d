package graph

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/hit-leiden/internal/storage"
	"github.com/hit-leiden/pkg/errors"
	"github.com/hit-leiden/pkg/model"
)

// ============================================================================
// Graph sources - edge-list files and Neo4j snapshot projections
// ============================================================================

// LoadEdgeListFile reads a whitespace-separated edge list: one "u v [w]"
// triple per line, '#' comments allowed. The node count is one past the
// largest endpoint unless a "# nodes: N" header raises it.
func LoadEdgeListFile(path string) (*model.GraphInput, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(errors.CodeBackend, "failed to open edge list", err)
	}
	defer file.Close()

	in, err := parseEdgeList(file)
	if err != nil {
		return nil, err
	}
	in.DatasetID = fmt.Sprintf("file:%s", path)
	return in, nil
}

func parseEdgeList(r io.Reader) (*model.GraphInput, error) {
	in := &model.GraphInput{}
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)

	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if strings.HasPrefix(line, "#") {
			if rest, ok := strings.CutPrefix(line, "# nodes:"); ok {
				if n, err := strconv.Atoi(strings.TrimSpace(rest)); err == nil && n > in.NodeCount {
					in.NodeCount = n
				}
			}
			continue
		}

		fields := strings.Fields(line)
		if len(fields) < 2 {
			return nil, errors.Newf(errors.CodeInvalidInput, "line %d: expected 'u v [w]'", lineNo)
		}
		u, err := strconv.Atoi(fields[0])
		if err != nil {
			return nil, errors.Newf(errors.CodeInvalidInput, "line %d: bad endpoint %q", lineNo, fields[0])
		}
		v, err := strconv.Atoi(fields[1])
		if err != nil {
			return nil, errors.Newf(errors.CodeInvalidInput, "line %d: bad endpoint %q", lineNo, fields[1])
		}

		edge := model.NewEdge(u, v)
		if len(fields) >= 3 {
			w, err := strconv.ParseFloat(fields[2], 64)
			if err != nil {
				return nil, errors.Newf(errors.CodeInvalidInput, "line %d: bad weight %q", lineNo, fields[2])
			}
			edge = model.NewWeightedEdge(u, v, w)
		}

		if u >= in.NodeCount {
			in.NodeCount = u + 1
		}
		if v >= in.NodeCount {
			in.NodeCount = v + 1
		}
		in.Edges = append(in.Edges, edge)
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrap(errors.CodeBackend, "failed to read edge list", err)
	}
	return in, nil
}

// snapshotRelationship is one relationship row of a Neo4j graph export.
type snapshotRelationship struct {
	Start  int      `json:"start"`
	End    int      `json:"end"`
	Weight *float64 `json:"weight,omitempty"`
}

// neo4jSnapshot is the JSON layout of an exported Neo4j projection.
type neo4jSnapshot struct {
	SnapshotID    string                 `json:"snapshot_id"`
	NodeCount     int                    `json:"node_count"`
	Relationships []snapshotRelationship `json:"relationships"`
}

// ProjectionConfig identifies a Neo4j snapshot to project from.
type ProjectionConfig struct {
	SnapshotID string
	Key        string // storage key of the exported snapshot
}

// ProjectFromNeo4jSnapshot loads an exported Neo4j snapshot from the given
// storage and projects it into a graph input. Live Neo4j queries are not
// projected here; a live source disqualifies the run from the release gate.
func ProjectFromNeo4jSnapshot(ctx context.Context, store storage.Storage, cfg *ProjectionConfig) (*model.GraphInput, error) {
	key := cfg.Key
	if key == "" {
		key = storage.SnapshotKey(cfg.SnapshotID)
	}

	body, err := store.Download(ctx, key)
	if err != nil {
		return nil, errors.Wrap(errors.CodeBackend, "failed to fetch neo4j snapshot", err)
	}
	defer body.Close()

	var snap neo4jSnapshot
	if err := json.NewDecoder(body).Decode(&snap); err != nil {
		return nil, errors.Wrap(errors.CodeBackend, "failed to decode neo4j snapshot", err)
	}

	in := &model.GraphInput{
		DatasetID: fmt.Sprintf("neo4j:%s", snap.SnapshotID),
		NodeCount: snap.NodeCount,
	}
	for _, rel := range snap.Relationships {
		edge := model.Edge{U: rel.Start, V: rel.End, Weight: rel.Weight}
		if rel.Start >= in.NodeCount {
			in.NodeCount = rel.Start + 1
		}
		if rel.End >= in.NodeCount {
			in.NodeCount = rel.End + 1
		}
		in.Edges = append(in.Edges, edge)
	}
	return in, nil
}
