// Package store keeps a local SQLite history of benchmark runs.
package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/weiihann/zkbench/harness"
	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS job_runs (
    id                INTEGER PRIMARY KEY AUTOINCREMENT,
    run_id            TEXT NOT NULL,
    host              TEXT NOT NULL DEFAULT '',
    job_name          TEXT NOT NULL,
    job_size          INTEGER NOT NULL,
    host_ns           INTEGER NOT NULL,
    proof_ns          INTEGER NOT NULL,
    verify_ns         INTEGER NOT NULL,
    falsify_ns        INTEGER NOT NULL DEFAULT 0,
    output_bytes      INTEGER NOT NULL,
    proof_bytes       INTEGER NOT NULL,
    cycles            INTEGER NOT NULL DEFAULT 0,
    host_reference    INTEGER NOT NULL DEFAULT 0,
    falsified         INTEGER NOT NULL DEFAULT 0,
    created_at        TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_job_runs_job ON job_runs(job_name, job_size);
CREATE INDEX IF NOT EXISTS idx_job_runs_run ON job_runs(run_id);
`

// Record is one stored job run.
type Record struct {
	ID        int64
	Host      string
	CreatedAt time.Time
	harness.Metrics
}

// Store provides SQLite-backed storage for job metrics.
type Store struct {
	db  *sql.DB
	now func() time.Time
}

// OpenStore opens (or creates) the history database at dbPath and runs
// migrations.
func OpenStore(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open history db: %w", err)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enable WAL: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &Store{db: db, now: time.Now}, nil
}

const insertSQL = `
	INSERT INTO job_runs (
		run_id, host, job_name, job_size,
		host_ns, proof_ns, verify_ns, falsify_ns,
		output_bytes, proof_bytes, cycles,
		host_reference, falsified, created_at
	) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

// Insert stores the metrics of one job. Every call adds a row: a run may
// hold several jobs of the same family and size, for example from two plan
// batches.
func (s *Store) Insert(host string, m harness.Metrics) error {
	return s.InsertBatch(host, []harness.Metrics{m})
}

// InsertBatch stores the metrics of several jobs in one transaction.
func (s *Store) InsertBatch(host string, metrics []harness.Metrics) error {
	if len(metrics) == 0 {
		return nil
	}

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(insertSQL)
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	created := s.now().UTC().Format(time.RFC3339Nano)

	for _, m := range metrics {
		if _, err := stmt.Exec(
			m.RunID, host, m.JobName, m.JobSize,
			int64(m.HostDuration), int64(m.ProofDuration),
			int64(m.VerifyDuration), int64(m.FalsifyDuration),
			m.OutputBytes, m.ProofBytes, int64(m.Cycles),
			m.HostReference, m.Falsified, created,
		); err != nil {
			return fmt.Errorf("insert %s size %d: %w", m.JobName, m.JobSize, err)
		}
	}

	return tx.Commit()
}

// Recent returns up to limit records, newest first. A non-empty job
// restricts the result to that workload.
func (s *Store) Recent(job string, limit int) ([]Record, error) {
	rows, err := s.db.Query(`
		SELECT id, run_id, host, job_name, job_size,
		       host_ns, proof_ns, verify_ns, falsify_ns,
		       output_bytes, proof_bytes, cycles,
		       host_reference, falsified, created_at
		FROM job_runs
		WHERE ? = '' OR job_name = ?
		ORDER BY id DESC
		LIMIT ?`, job, job, limit)
	if err != nil {
		return nil, fmt.Errorf("query recent: %w", err)
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		var (
			r                                   Record
			hostNS, proofNS, verifyNS, falsifNS int64
			cycles                              int64
			createdAt                           string
		)

		if err := rows.Scan(
			&r.ID, &r.RunID, &r.Host, &r.JobName, &r.JobSize,
			&hostNS, &proofNS, &verifyNS, &falsifNS,
			&r.OutputBytes, &r.ProofBytes, &cycles,
			&r.HostReference, &r.Falsified, &createdAt,
		); err != nil {
			return nil, fmt.Errorf("scan row: %w", err)
		}

		r.HostDuration = time.Duration(hostNS)
		r.ProofDuration = time.Duration(proofNS)
		r.VerifyDuration = time.Duration(verifyNS)
		r.FalsifyDuration = time.Duration(falsifNS)
		r.Cycles = uint64(cycles)

		if t, err := time.Parse(time.RFC3339Nano, createdAt); err == nil {
			r.CreatedAt = t
		}

		records = append(records, r)
	}

	return records, rows.Err()
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}
