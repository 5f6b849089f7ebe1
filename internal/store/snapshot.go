package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/roach88/allfiledmap/internal/compiler"
	"github.com/roach88/allfiledmap/internal/xri"
)

// ErrNotFound is returned when a snapshot does not exist.
var ErrNotFound = errors.New("snapshot not found")

// StatementKind distinguishes the two statement tables of a definition.
type StatementKind string

const (
	KindEquivalence StatementKind = "equivalence"
	KindRewrite     StatementKind = "rewrite"
)

// Statement is one stored pair. For equivalences Subject is the vendor
// triple and Object the canonical identifier; for rewrites Subject is
// rewritten to Object.
type Statement struct {
	Kind    StatementKind `json:"kind"`
	Subject string        `json:"subject"`
	Object  string        `json:"object"`
}

// Snapshot is a stored compiled definition.
type Snapshot struct {
	ID          string `json:"id"`
	Version     string `json:"version"`
	Namespace   string `json:"namespace"`
	ContentHash string `json:"content_hash"`
	Seq         int64  `json:"seq"`

	// Statements is populated by ReadSnapshot and LatestSnapshot only.
	Statements []Statement `json:"statements,omitempty"`
}

// WriteSnapshot stores def and returns its snapshot. A definition whose
// content hash is already stored is not written again; the existing
// snapshot is returned with inserted=false.
func (s *Store) WriteSnapshot(ctx context.Context, def *compiler.Definition) (snap Snapshot, inserted bool, err error) {
	hash, err := def.Hash()
	if err != nil {
		return Snapshot{}, false, fmt.Errorf("write snapshot: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return Snapshot{}, false, fmt.Errorf("write snapshot: begin tx: %w", err)
	}
	defer tx.Rollback() // No-op if committed

	existing, err := scanSnapshot(tx.QueryRowContext(ctx, `
		SELECT id, version, namespace, content_hash, seq
		FROM snapshots
		WHERE content_hash = ?
	`, hash))
	if err == nil {
		return existing, false, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return Snapshot{}, false, fmt.Errorf("write snapshot: %w", err)
	}

	var seq int64
	if err := tx.QueryRowContext(ctx, `SELECT COALESCE(MAX(seq), 0) + 1 FROM snapshots`).Scan(&seq); err != nil {
		return Snapshot{}, false, fmt.Errorf("write snapshot: next seq: %w", err)
	}

	snap = Snapshot{
		ID:          uuid.Must(uuid.NewV7()).String(),
		Version:     def.Version,
		Namespace:   def.Namespace.String(),
		ContentHash: hash,
		Seq:         seq,
		Statements:  statementsOf(def),
	}

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO snapshots (id, version, namespace, content_hash, seq)
		VALUES (?, ?, ?, ?, ?)
	`, snap.ID, snap.Version, snap.Namespace, snap.ContentHash, snap.Seq); err != nil {
		return Snapshot{}, false, fmt.Errorf("write snapshot: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO statements (snapshot_id, seq, kind, subject, object)
		VALUES (?, ?, ?, ?, ?)
	`)
	if err != nil {
		return Snapshot{}, false, fmt.Errorf("write snapshot: prepare statements: %w", err)
	}
	defer stmt.Close()

	for i, st := range snap.Statements {
		if _, err := stmt.ExecContext(ctx, snap.ID, i, string(st.Kind), st.Subject, st.Object); err != nil {
			return Snapshot{}, false, fmt.Errorf("write snapshot: statement %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return Snapshot{}, false, fmt.Errorf("write snapshot: commit: %w", err)
	}

	return snap, true, nil
}

// statementsOf flattens a definition: equivalences first, then rewrites,
// each in declaration order.
func statementsOf(def *compiler.Definition) []Statement {
	out := make([]Statement, 0, len(def.Equivalences)+len(def.Rewrites))
	for _, eq := range def.Equivalences {
		out = append(out, Statement{Kind: KindEquivalence, Subject: eq.Vendor.String(), Object: eq.Canonical.String()})
	}
	for _, rw := range def.Rewrites {
		out = append(out, Statement{Kind: KindRewrite, Subject: rw.From.String(), Object: rw.To.String()})
	}
	return out
}

// ReadSnapshot returns the snapshot with the given id and its statements.
// Returns ErrNotFound if no such snapshot exists.
func (s *Store) ReadSnapshot(ctx context.Context, id string) (Snapshot, error) {
	snap, err := scanSnapshot(s.db.QueryRowContext(ctx, `
		SELECT id, version, namespace, content_hash, seq
		FROM snapshots
		WHERE id = ?
	`, id))
	if err != nil {
		return Snapshot{}, fmt.Errorf("read snapshot %s: %w", id, err)
	}

	snap.Statements, err = s.readStatements(ctx, snap.ID)
	if err != nil {
		return Snapshot{}, err
	}
	return snap, nil
}

// LatestSnapshot returns the most recently written snapshot.
// Returns ErrNotFound if the store is empty.
func (s *Store) LatestSnapshot(ctx context.Context) (Snapshot, error) {
	snap, err := scanSnapshot(s.db.QueryRowContext(ctx, `
		SELECT id, version, namespace, content_hash, seq
		FROM snapshots
		ORDER BY seq DESC
		LIMIT 1
	`))
	if err != nil {
		return Snapshot{}, fmt.Errorf("latest snapshot: %w", err)
	}

	snap.Statements, err = s.readStatements(ctx, snap.ID)
	if err != nil {
		return Snapshot{}, err
	}
	return snap, nil
}

// ListSnapshots returns every snapshot without statements, oldest first.
// Returns an empty slice (not nil) if the store is empty.
func (s *Store) ListSnapshots(ctx context.Context) ([]Snapshot, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, version, namespace, content_hash, seq
		FROM snapshots
		ORDER BY seq ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("query snapshots: %w", err)
	}
	defer rows.Close()

	snapshots := []Snapshot{}
	for rows.Next() {
		snap, err := scanSnapshot(rows)
		if err != nil {
			return nil, err
		}
		snapshots = append(snapshots, snap)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate snapshots: %w", err)
	}

	return snapshots, nil
}

func (s *Store) readStatements(ctx context.Context, snapshotID string) ([]Statement, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT kind, subject, object
		FROM statements
		WHERE snapshot_id = ?
		ORDER BY seq ASC
	`, snapshotID)
	if err != nil {
		return nil, fmt.Errorf("query statements: %w", err)
	}
	defer rows.Close()

	statements := []Statement{}
	for rows.Next() {
		var st Statement
		var kind string
		if err := rows.Scan(&kind, &st.Subject, &st.Object); err != nil {
			return nil, fmt.Errorf("scan statement: %w", err)
		}
		st.Kind = StatementKind(kind)
		statements = append(statements, st)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate statements: %w", err)
	}

	return statements, nil
}

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanSnapshot(row rowScanner) (Snapshot, error) {
	var snap Snapshot
	err := row.Scan(&snap.ID, &snap.Version, &snap.Namespace, &snap.ContentHash, &snap.Seq)
	if errors.Is(err, sql.ErrNoRows) {
		return Snapshot{}, ErrNotFound
	}
	if err != nil {
		return Snapshot{}, fmt.Errorf("scan snapshot: %w", err)
	}
	return snap, nil
}

// Definition rebuilds the compiled definition from a snapshot read with
// its statements. The rebuilt definition must hash to ContentHash.
func (snap Snapshot) Definition() (*compiler.Definition, error) {
	ns, err := xri.Parse(snap.Namespace)
	if err != nil {
		return nil, fmt.Errorf("snapshot %s: namespace: %w", snap.ID, err)
	}

	def := &compiler.Definition{Version: snap.Version, Namespace: ns}
	for i, st := range snap.Statements {
		subject, err := xri.Parse(st.Subject)
		if err != nil {
			return nil, fmt.Errorf("snapshot %s: statement %d: %w", snap.ID, i, err)
		}
		object, err := xri.Parse(st.Object)
		if err != nil {
			return nil, fmt.Errorf("snapshot %s: statement %d: %w", snap.ID, i, err)
		}

		switch st.Kind {
		case KindEquivalence:
			def.Equivalences = append(def.Equivalences, compiler.Equivalence{Vendor: subject, Canonical: object})
		case KindRewrite:
			def.Rewrites = append(def.Rewrites, compiler.Rewrite{From: subject, To: object})
		default:
			return nil, fmt.Errorf("snapshot %s: statement %d: unknown kind %q", snap.ID, i, st.Kind)
		}
	}

	hash, err := def.Hash()
	if err != nil {
		return nil, err
	}
	if hash != snap.ContentHash {
		return nil, fmt.Errorf("snapshot %s: content hash mismatch: stored %s, computed %s", snap.ID, snap.ContentHash, hash)
	}

	return def, nil
}
