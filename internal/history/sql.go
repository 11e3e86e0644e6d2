package history

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/go-sql-driver/mysql"

	"gsplit/internal/domain"
)

// DefaultTable is the table SQLStore uses unless told otherwise.
const DefaultTable = "gsplit_test_runs"

// SQLStore keeps history in a MySQL table, one row per run.
// ReplaceAll swaps the whole table content in a single transaction.
type SQLStore struct {
	db    *sql.DB
	table string
}

// OpenSQLStore connects to the MySQL database described by dsn and makes sure
// the history table exists.
func OpenSQLStore(ctx context.Context, dsn string) (*SQLStore, error) {
	cfg, err := ParseDSN(dsn)
	if err != nil {
		return nil, err
	}
	connector, err := mysql.NewConnector(cfg)
	if err != nil {
		return nil, fmt.Errorf("create mysql connector: %w", err)
	}
	db := sql.OpenDB(connector)
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database server: %w", err)
	}
	s := NewSQLStore(db, DefaultTable)
	if err := s.ensureTable(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// NewSQLStore wraps an open database handle.
func NewSQLStore(db *sql.DB, table string) *SQLStore {
	if table == "" {
		table = DefaultTable
	}
	return &SQLStore{db: db, table: table}
}

// ParseDSN parses a MySQL DSN and applies the options the store relies on.
func ParseDSN(dsn string) (*mysql.Config, error) {
	cfg, err := mysql.ParseDSN(dsn)
	if err != nil {
		return nil, fmt.Errorf("invalid history dsn: %w", err)
	}
	if cfg.DBName == "" {
		return nil, fmt.Errorf("invalid history dsn: database name is required")
	}
	cfg.ParseTime = true
	cfg.MultiStatements = false
	return cfg, nil
}

// Close releases the database handle
func (s *SQLStore) Close() error {
	return s.db.Close()
}

func (s *SQLStore) ensureTable(ctx context.Context) error {
	query := fmt.Sprintf("CREATE TABLE IF NOT EXISTS `%s` ("+
		"module_path VARCHAR(255) NOT NULL, "+
		"class_name VARCHAR(512) NOT NULL, "+
		"test_name VARCHAR(512) NOT NULL, "+
		"parameters VARCHAR(512) NOT NULL DEFAULT '', "+
		"seq INT NOT NULL, "+
		"build_id VARCHAR(64) NOT NULL, "+
		"duration_ms BIGINT NOT NULL, "+
		"status VARCHAR(16) NOT NULL, "+
		"finished_at BIGINT NOT NULL"+
		")", s.table)
	if _, err := s.db.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("create history table: %w", err)
	}
	return nil
}

// LoadAll reads every row, ordered so that each test's runs come back oldest first.
func (s *SQLStore) LoadAll(ctx context.Context) (domain.History, error) {
	query := fmt.Sprintf("SELECT module_path, class_name, test_name, parameters, build_id, duration_ms, status, finished_at "+
		"FROM `%s` ORDER BY module_path, class_name, test_name, parameters, seq", s.table)
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%w: query: %v", domain.ErrHistoryLoad, err)
	}
	defer rows.Close()

	var records []domain.TestRunRecord
	for rows.Next() {
		var r domain.TestRunRecord
		var status string
		if err := rows.Scan(
			&r.Identity.ModulePath, &r.Identity.ClassName, &r.Identity.TestName, &r.Identity.Parameters,
			&r.BuildID, &r.DurationMillis, &status, &r.FinishedAtMillis,
		); err != nil {
			return nil, fmt.Errorf("%w: scan: %v", domain.ErrHistoryLoad, err)
		}
		r.Outcome = domain.Outcome(status)
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrHistoryLoad, err)
	}
	return fromRows(records), nil
}

// fromRows groups ordered rows into a history.
func fromRows(records []domain.TestRunRecord) domain.History {
	h := make(domain.History)
	for _, r := range records {
		h[r.Identity] = append(h[r.Identity], r)
	}
	return h
}

// ReplaceAll deletes all rows and inserts h inside one transaction.
func (s *SQLStore) ReplaceAll(ctx context.Context, h domain.History) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin history transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, fmt.Sprintf("DELETE FROM `%s`", s.table)); err != nil {
		return fmt.Errorf("clear history: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, fmt.Sprintf("INSERT INTO `%s` "+
		"(module_path, class_name, test_name, parameters, seq, build_id, duration_ms, status, finished_at) "+
		"VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)", s.table))
	if err != nil {
		return fmt.Errorf("prepare history insert: %w", err)
	}
	defer stmt.Close()

	for _, id := range h.Identities() {
		for seq, r := range h[id] {
			if _, err := stmt.ExecContext(ctx,
				id.ModulePath, id.ClassName, id.TestName, id.Parameters,
				seq, r.BuildID, r.DurationMillis, string(r.Outcome), r.FinishedAtMillis,
			); err != nil {
				return fmt.Errorf("insert history row: %w", err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit history: %w", err)
	}
	return nil
}
