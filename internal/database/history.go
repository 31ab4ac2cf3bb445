package database

import (
	"context"
	"database/sql"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"golang.org/x/crypto/sha3"
	_ "modernc.org/sqlite" // SQLite driver

	"github.com/nao1215/lexscan/internal/model"
)

// DBFileName is the name of the history database file inside the DB directory.
const DBFileName = "lexscan.db"

// ErrNotFound is returned when a history record does not exist.
var ErrNotFound = errors.New("history record not found")

// HistoryDB stores the outcome of past checks in SQLite.
type HistoryDB struct {
	// db is the underlying SQL database connection.
	db *sql.DB

	// dbPath is the path to the SQLite database file.
	dbPath string
}

// Options configures HistoryDB behavior.
type Options struct {
	// CreateIfNotExists creates the database file if it doesn't exist.
	CreateIfNotExists bool

	// EnableWAL enables Write-Ahead Logging for better concurrent performance.
	EnableWAL bool
}

// DefaultOptions returns the default database options.
func DefaultOptions() Options {
	return Options{
		CreateIfNotExists: true,
		EnableWAL:         true,
	}
}

// Open opens or creates a HistoryDB in dbDir.
// If CreateIfNotExists is false and the database doesn't exist, an error is returned.
func Open(dbDir string, opts Options) (*HistoryDB, error) {
	dbPath := filepath.Join(dbDir, DBFileName)

	if !opts.CreateIfNotExists {
		if _, err := os.Stat(dbPath); os.IsNotExist(err) {
			return nil, fmt.Errorf("database not found at %s (use CreateIfNotExists option to create)", dbPath)
		} else if err != nil {
			return nil, fmt.Errorf("failed to check database path: %w", err)
		}
	} else if err := os.MkdirAll(dbDir, 0750); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	// mode=rw refuses to create a missing file, mode=rwc allows it.
	dsn := dbPath + "?mode=rw"
	if opts.CreateIfNotExists {
		dsn = dbPath + "?mode=rwc"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite only supports one writer.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	hdb := &HistoryDB{
		db:     db,
		dbPath: dbPath,
	}

	if opts.EnableWAL {
		if _, err := db.ExecContext(context.Background(), "PRAGMA journal_mode=WAL"); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
		}
	}

	if err := hdb.createTables(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	return hdb, nil
}

// Path returns the database file path.
func (h *HistoryDB) Path() string {
	return h.dbPath
}

// Close closes the database connection.
func (h *HistoryDB) Close() error {
	return h.db.Close()
}

// createTables creates the database schema if it doesn't exist.
func (h *HistoryDB) createTables() error {
	schema := `
	-- One row per checked document
	CREATE TABLE IF NOT EXISTS checks (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL,
		title TEXT,
		content_hash TEXT NOT NULL,
		checked_at TEXT NOT NULL,
		verdict TEXT NOT NULL,
		failed_categories TEXT,
		match_count INTEGER DEFAULT 0,
		result_json TEXT,
		error TEXT
	);

	CREATE INDEX IF NOT EXISTS idx_checks_hash ON checks(content_hash);
	CREATE INDEX IF NOT EXISTS idx_checks_checked_at ON checks(checked_at);
	CREATE INDEX IF NOT EXISTS idx_checks_verdict ON checks(verdict);
	`

	_, err := h.db.ExecContext(context.Background(), schema)
	return err
}

// ContentHash returns the hex SHA3-256 digest identifying a title/content
// pair. The same document checked twice has the same hash.
func ContentHash(title, content string) string {
	sum := sha3.Sum256([]byte(title + "\x00" + content))
	return hex.EncodeToString(sum[:])
}

// Record is one stored check.
type Record struct {
	ID               int64         `json:"id"`
	Name             string        `json:"name"`
	Title            string        `json:"title"`
	ContentHash      string        `json:"content_hash"`
	CheckedAt        time.Time     `json:"checked_at"`
	Verdict          model.Verdict `json:"verdict"`
	FailedCategories []string      `json:"failed_categories"`
	MatchCount       int           `json:"match_count"`
	Result           *model.Result `json:"result,omitempty"`
	Error            string        `json:"error,omitempty"`
}

// Document converts the record back to a Document for report writers.
// The content itself is not stored, so Content is empty.
func (r *Record) Document() *model.Document {
	return &model.Document{
		Name:      r.Name,
		Title:     r.Title,
		CheckedAt: r.CheckedAt,
		Result:    r.Result,
		Error:     r.Error,
	}
}

// SaveResult stores a checked document and returns the new record ID.
func (h *HistoryDB) SaveResult(ctx context.Context, doc *model.Document) (int64, error) {
	checkedAt := doc.CheckedAt
	if checkedAt.IsZero() {
		checkedAt = time.Now()
	}

	failed := []string{}
	matchCount := 0
	var resultJSON sql.NullString
	if doc.Result != nil {
		failed = doc.Result.FailedCategories
		matchCount = len(doc.Result.Matches)
		data, err := json.Marshal(doc.Result)
		if err != nil {
			return 0, fmt.Errorf("failed to serialize result: %w", err)
		}
		resultJSON = sql.NullString{String: string(data), Valid: true}
	}
	failedJSON, err := json.Marshal(failed)
	if err != nil {
		return 0, fmt.Errorf("failed to serialize categories: %w", err)
	}

	query := `
	INSERT INTO checks (name, title, content_hash, checked_at, verdict, failed_categories, match_count, result_json, error)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	res, err := h.db.ExecContext(ctx, query,
		doc.Name,
		doc.Title,
		ContentHash(doc.Title, doc.Content),
		checkedAt.UTC().Format(storedTimeLayout),
		string(doc.Verdict()),
		string(failedJSON),
		matchCount,
		resultJSON,
		doc.Error,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to save check result: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get record id: %w", err)
	}
	return id, nil
}

const selectRecord = `
	SELECT id, name, title, content_hash, checked_at, verdict, failed_categories, match_count, result_json, error
	FROM checks
`

// scanner is implemented by *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanRecord(s scanner) (*Record, error) {
	var (
		r          Record
		title      sql.NullString
		checkedAt  string
		verdict    string
		failedJSON sql.NullString
		resultJSON sql.NullString
		errText    sql.NullString
	)
	if err := s.Scan(&r.ID, &r.Name, &title, &r.ContentHash, &checkedAt, &verdict,
		&failedJSON, &r.MatchCount, &resultJSON, &errText); err != nil {
		return nil, err
	}

	r.Title = title.String
	r.CheckedAt = parseTimestamp(checkedAt)
	r.Verdict = model.Verdict(verdict)
	r.Error = errText.String

	r.FailedCategories = []string{}
	if failedJSON.Valid && failedJSON.String != "" {
		if err := json.Unmarshal([]byte(failedJSON.String), &r.FailedCategories); err != nil {
			return nil, fmt.Errorf("failed to deserialize categories: %w", err)
		}
	}
	if resultJSON.Valid {
		var result model.Result
		if err := json.Unmarshal([]byte(resultJSON.String), &result); err != nil {
			return nil, fmt.Errorf("failed to deserialize result: %w", err)
		}
		r.Result = &result
	}
	return &r, nil
}

// GetResult retrieves one record by ID. ErrNotFound is returned when no
// record has that ID.
func (h *HistoryDB) GetResult(ctx context.Context, id int64) (*Record, error) {
	r, err := scanRecord(h.db.QueryRowContext(ctx, selectRecord+" WHERE id = ?", id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: id=%d", ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get check result: %w", err)
	}
	return r, nil
}

// ListResults returns the most recent records, newest first.
// A limit of zero or less returns every record.
func (h *HistoryDB) ListResults(ctx context.Context, limit int) ([]*Record, error) {
	query := selectRecord + " ORDER BY checked_at DESC, id DESC"
	args := []any{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}
	return h.queryRecords(ctx, query, args...)
}

// FindByHash returns every record of the given content hash, newest first.
func (h *HistoryDB) FindByHash(ctx context.Context, contentHash string) ([]*Record, error) {
	return h.queryRecords(ctx, selectRecord+" WHERE content_hash = ? ORDER BY checked_at DESC, id DESC", contentHash)
}

func (h *HistoryDB) queryRecords(ctx context.Context, query string, args ...any) ([]*Record, error) {
	rows, err := h.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query check results: %w", err)
	}
	defer rows.Close()

	records := make([]*Record, 0)
	for rows.Next() {
		r, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan check result: %w", err)
		}
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate check results: %w", err)
	}
	return records, nil
}

// HistoryStats summarizes the stored checks.
type HistoryStats struct {
	Total             int       `json:"total"`
	Passed            int       `json:"passed"`
	Failed            int       `json:"failed"`
	Skipped           int       `json:"skipped"`
	Errors            int       `json:"errors"`
	DistinctDocuments int       `json:"distinct_documents"`
	LastCheckedAt     time.Time `json:"last_checked_at,omitzero"`
}

// Stats returns counts per verdict over all stored checks.
func (h *HistoryDB) Stats(ctx context.Context) (*HistoryStats, error) {
	rows, err := h.db.QueryContext(ctx, "SELECT verdict, COUNT(*) FROM checks GROUP BY verdict")
	if err != nil {
		return nil, fmt.Errorf("failed to query stats: %w", err)
	}
	defer rows.Close()

	st := &HistoryStats{}
	for rows.Next() {
		var verdict string
		var n int
		if err := rows.Scan(&verdict, &n); err != nil {
			return nil, fmt.Errorf("failed to scan stats: %w", err)
		}
		st.Total += n
		switch model.Verdict(verdict) {
		case model.VerdictPassed:
			st.Passed = n
		case model.VerdictFailed:
			st.Failed = n
		case model.VerdictSkipped:
			st.Skipped = n
		case model.VerdictError:
			st.Errors = n
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate stats: %w", err)
	}

	var last sql.NullString
	if err := h.db.QueryRowContext(ctx,
		"SELECT COUNT(DISTINCT content_hash), MAX(checked_at) FROM checks",
	).Scan(&st.DistinctDocuments, &last); err != nil {
		return nil, fmt.Errorf("failed to query stats: %w", err)
	}
	if last.Valid {
		st.LastCheckedAt = parseTimestamp(last.String)
	}
	return st, nil
}

// storedTimeLayout is fixed width so checked_at sorts as text.
const storedTimeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// timestampFormats lists the formats parseTimestamp accepts.
var timestampFormats = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02 15:04:05",
}

// parseTimestamp parses a stored timestamp, returning zero time when no
// format matches.
func parseTimestamp(s string) time.Time {
	for _, format := range timestampFormats {
		if t, err := time.Parse(format, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
