package analytics

import (
	"context"
	"fmt"
)

// Node is a customer vertex in the co-purchase graph.
type Node struct {
	ID      int64  `json:"id"`
	Name    string `json:"name"`
	Address string `json:"address"`
}

// Edge links two customers who bought at least one common product in
// different orders. The weight counts the distinct shared products.
type Edge struct {
	CustomerA int64 `json:"customerA"`
	CustomerB int64 `json:"customerB"`
	Weight    int   `json:"weight"`
}

// Graph is an undirected weighted customer graph.
type Graph struct {
	Nodes []Node `json:"nodes"`
	Edges []Edge `json:"edges"`
}

// CustomerNetwork builds the co-purchase graph. All customers appear as
// nodes. The pair query keeps customer_id strictly ordered so each undirected
// pair is produced exactly once and self-pairs never appear.
func (a *Analyzer) CustomerNetwork(ctx context.Context) (*Graph, error) {
	graph := &Graph{}

	nodeRows, err := a.db.QueryContext(ctx, `SELECT id, name, COALESCE(address, '') FROM customers`)
	if err != nil {
		a.logger.Error().Err(err).Msg("failed to query customer nodes")
		return nil, fmt.Errorf("failed to query customer nodes: %w", err)
	}
	defer nodeRows.Close()

	for nodeRows.Next() {
		var n Node
		if err := nodeRows.Scan(&n.ID, &n.Name, &n.Address); err != nil {
			return nil, fmt.Errorf("failed to scan customer node: %w", err)
		}
		graph.Nodes = append(graph.Nodes, n)
	}
	if err := nodeRows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating customer nodes: %w", err)
	}

	edgeQuery := `
		SELECT o1.customer_id AS cust1, o2.customer_id AS cust2,
		       COUNT(DISTINCT oi1.product_id) AS common_products
		FROM order_items oi1
		JOIN order_items oi2 ON oi1.product_id = oi2.product_id
		    AND oi1.order_id != oi2.order_id
		JOIN orders o1 ON oi1.order_id = o1.id
		JOIN orders o2 ON oi2.order_id = o2.id
		WHERE o1.customer_id < o2.customer_id
		GROUP BY o1.customer_id, o2.customer_id
		ORDER BY o1.customer_id, o2.customer_id
	`

	edgeRows, err := a.db.QueryContext(ctx, edgeQuery)
	if err != nil {
		a.logger.Error().Err(err).Msg("failed to query co-purchase edges")
		return nil, fmt.Errorf("failed to query co-purchase edges: %w", err)
	}
	defer edgeRows.Close()

	for edgeRows.Next() {
		var e Edge
		if err := edgeRows.Scan(&e.CustomerA, &e.CustomerB, &e.Weight); err != nil {
			return nil, fmt.Errorf("failed to scan co-purchase edge: %w", err)
		}
		graph.Edges = append(graph.Edges, e)
	}
	if err := edgeRows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating co-purchase edges: %w", err)
	}

	a.logger.Debug().
		Int("nodes", len(graph.Nodes)).
		Int("edges", len(graph.Edges)).
		Msg("customer network built")

	return graph, nil
}
