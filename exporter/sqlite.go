package exporter

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/theoremus-urban-solutions/gtfs-to-gmns/gmns"
)

//go:embed schema.sql
var schemaSQL string

// DB wraps a SQLite database holding one or more exported networks.
type DB struct {
	conn *sql.DB
}

// OpenDB opens (or creates) a SQLite database with WAL mode enabled and
// ensures the network schema exists.
func OpenDB(ctx context.Context, path string) (*DB, error) {
	dsn := path + "?_journal=WAL&_fk=1&_busy_timeout=5000"
	conn, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	conn.SetMaxOpenConns(1)

	if err := conn.PingContext(ctx); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	if _, err := conn.ExecContext(ctx, schemaSQL); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}
	return &DB{conn: conn}, nil
}

// Close closes the database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}

// Conn exposes the underlying connection for ad-hoc queries.
func (db *DB) Conn() *sql.DB {
	return db.conn
}

// WriteNetwork stores the node and link tables under a fresh run id, all
// in one transaction, and returns the run id.
func (db *DB) WriteNetwork(ctx context.Context, timeWindow string, nodes []gmns.Node, links []gmns.Link) (string, error) {
	runID := uuid.NewString()

	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO runs (run_id, created_at, time_window, node_count, link_count)
		 VALUES (?, ?, ?, ?, ?)`,
		runID, time.Now().UTC().Format(time.RFC3339), timeWindow, len(nodes), len(links),
	); err != nil {
		return "", fmt.Errorf("insert run: %w", err)
	}

	nodeStmt, err := tx.PrepareContext(ctx,
		`INSERT INTO nodes (run_id, name, node_id, physical_node_id, x_coord,
		 y_coord, route_type, route_id, node_type, directed_route_id,
		 directed_service_id, zone_id, agency_name, geometry, terminal_flag)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return "", fmt.Errorf("prepare nodes: %w", err)
	}
	defer nodeStmt.Close()
	for _, n := range nodes {
		if _, err := nodeStmt.ExecContext(ctx,
			runID, n.Name, n.NodeID, n.PhysicalNodeID, n.XCoord, n.YCoord,
			n.RouteType, n.RouteID, n.NodeType, n.DirectedRouteID,
			n.DirectedServiceID, n.ZoneID, n.AgencyName, n.Geometry,
			n.TerminalFlag,
		); err != nil {
			return "", fmt.Errorf("insert node %d: %w", n.NodeID, err)
		}
	}

	linkStmt, err := tx.PrepareContext(ctx,
		`INSERT INTO links (run_id, link_id, from_node_id, to_node_id,
		 facility_type, dir_flag, directed_route_id, link_type,
		 link_type_name, length, lanes, capacity, free_speed, cost,
		 vdf_fftt1, vdf_cap1, vdf_alpha1, vdf_beta1, vdf_penalty1, geometry,
		 vdf_allowed_uses1, agency_name, stop_sequence, directed_service_id)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return "", fmt.Errorf("prepare links: %w", err)
	}
	defer linkStmt.Close()
	for _, l := range links {
		if _, err := linkStmt.ExecContext(ctx,
			runID, l.LinkID, l.FromNodeID, l.ToNodeID, l.FacilityType,
			l.DirFlag, l.DirectedRouteID, l.LinkType, l.LinkTypeName,
			l.Length, l.Lanes, l.Capacity, l.FreeSpeed, l.Cost, l.FFTT,
			l.VDFCap, l.VDFAlpha, l.VDFBeta, l.VDFPenalty, l.Geometry,
			l.AllowedUses, l.AgencyName, l.StopSequence, l.DirectedServiceID,
		); err != nil {
			return "", fmt.Errorf("insert link %d: %w", l.LinkID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("commit: %w", err)
	}
	return runID, nil
}
