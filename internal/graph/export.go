package graph

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
)

// Display palette for the frontend force-graph.
const (
	colorBook    = "#4287f5"
	colorAuthor  = "#42f554"
	colorGenre   = "#f54242"
	colorTag     = "#f5d742"
	colorUnknown = "#999999"
)

// ExportNode is one node of the visualization payload.
type ExportNode struct {
	ID         string         `json:"id"`
	Type       string         `json:"type"`
	Name       string         `json:"name"`
	Properties map[string]any `json:"properties"`
	Color      string         `json:"color"`
}

// ExportLink is one edge of the visualization payload. Value is a constant
// display weight.
type ExportLink struct {
	Source string `json:"source"`
	Target string `json:"target"`
	Type   string `json:"type"`
	Value  int    `json:"value"`
}

// ExportResult is the full graph-export payload.
type ExportResult struct {
	Nodes []ExportNode `json:"nodes"`
	Links []ExportLink `json:"links"`
}

// ExportFilter narrows a graph export. Empty fields mean no filtering on
// that axis. Value matches either a node's display name or its key.
type ExportFilter struct {
	NodeType string
	Value    string
}

// Export returns the graph as a node/link payload for visualization. Links
// are included only when both endpoints survive the filter, so filtered
// exports can contain isolated nodes and zero links. Both slices are always
// non-nil so empty exports serialize as [].
func (s *Store) Export(ctx context.Context, filter ExportFilter) (*ExportResult, error) {
	tx, err := s.db.BeginTx(ctx, &sql.TxOptions{ReadOnly: true})
	if err != nil {
		return nil, fmt.Errorf("begin export tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	rows, err := tx.QueryContext(ctx, `
		SELECT id, label, node_key, COALESCE(title, ''), COALESCE(author, '')
		FROM nodes
		WHERE (? = '' OR label = ?)
		  AND (? = '' OR title = ? OR node_key = ?)`,
		filter.NodeType, filter.NodeType,
		filter.Value, filter.Value, filter.Value)
	if err != nil {
		return nil, fmt.Errorf("query nodes: %w", err)
	}
	defer rows.Close()

	result := &ExportResult{Nodes: []ExportNode{}, Links: []ExportLink{}}
	included := map[int64]bool{}

	for rows.Next() {
		var (
			id            int64
			label, key    string
			title, author string
		)
		if err := rows.Scan(&id, &label, &key, &title, &author); err != nil {
			return nil, fmt.Errorf("scan node: %w", err)
		}
		included[id] = true
		result.Nodes = append(result.Nodes, exportNode(id, label, key, title, author))
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	edgeRows, err := tx.QueryContext(ctx, `SELECT source_id, target_id, type FROM edges`)
	if err != nil {
		return nil, fmt.Errorf("query edges: %w", err)
	}
	defer edgeRows.Close()

	for edgeRows.Next() {
		var (
			sourceID, targetID int64
			edgeType           string
		)
		if err := edgeRows.Scan(&sourceID, &targetID, &edgeType); err != nil {
			return nil, fmt.Errorf("scan edge: %w", err)
		}
		if !included[sourceID] || !included[targetID] {
			continue
		}
		result.Links = append(result.Links, ExportLink{
			Source: strconv.FormatInt(sourceID, 10),
			Target: strconv.FormatInt(targetID, 10),
			Type:   edgeType,
			Value:  1,
		})
	}
	return result, edgeRows.Err()
}

func exportNode(id int64, label, key, title, author string) ExportNode {
	node := ExportNode{
		ID:    strconv.FormatInt(id, 10),
		Type:  label,
		Color: nodeColor(label),
	}

	if label == LabelBook {
		node.Name = title
		node.Properties = map[string]any{
			"id":     key,
			"title":  title,
			"author": author,
		}
	} else {
		node.Name = key
		node.Properties = map[string]any{"name": key}
	}
	if node.Name == "" {
		node.Name = "Unknown"
	}
	return node
}

func nodeColor(label string) string {
	switch label {
	case LabelBook:
		return colorBook
	case LabelAuthor:
		return colorAuthor
	case LabelGenre:
		return colorGenre
	case LabelTag:
		return colorTag
	default:
		return colorUnknown
	}
}
