// Package store provides SQLite persistence for briefd: raw signals, weekly
// friction snapshots, per-theme snapshots and the product registry. Snapshot
// tables are append-only; a rerun inside the same week adds rows, and latest/
// trend queries always read the most recently created ones.
package store

import (
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"github.com/infblueocean/briefd/internal/signal"
)

// ErrInsufficientHistory is returned when a trend needs more snapshots than
// the product has.
var ErrInsufficientHistory = errors.New("insufficient snapshot history")

// ErrMissingSnapshot is returned when a product has never been synthesized.
var ErrMissingSnapshot = errors.New("no snapshot for product")

// Store handles SQLite persistence. NOT an interface - concrete type.
// Thread-safety: all methods are safe for concurrent use via internal mutex.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

// WeeklySnapshot is one product-week friction rollup row.
type WeeklySnapshot struct {
	ID           int64
	Product      string
	WeekID       string
	PFI          float64 // product friction index
	NegativeRate float64
	TotalSignals int
	RunID        string
	CreatedAt    time.Time
}

// ThemeSnapshot is one (product, week, theme) frequency/intensity row.
type ThemeSnapshot struct {
	ID        int64
	Product   string
	WeekID    string
	ThemeName string
	Frequency int
	Intensity float64
	RunID     string
	CreatedAt time.Time
}

// SignalRow is a persisted raw signal.
type SignalRow struct {
	ID        int64
	Product   string
	Source    string
	Term      string
	Text      string
	URL       string
	Sentiment string
	CreatedAt time.Time
}

// Product is a registry entry with store identities.
type Product struct {
	ID                int64
	Name              string
	NormalizedName    string
	Category          string
	PlayStoreID       string
	PlayStoreInstalls string
	PlayStoreRating   float64
	AppStoreID        string
	AppStoreRating    float64
	CreatedAt         time.Time
	Active            bool
}

// Trend is the delta between the two most recent snapshots of a product.
type Trend struct {
	PFIChange          float64
	NegativeRateChange float64
}

// Open creates a new Store with the given database path.
// Creates tables if they don't exist.
// Uses WAL mode for better concurrent read performance (file-based DBs only).
func Open(dbPath string) (*Store, error) {
	connStr := dbPath
	if dbPath == ":memory:" {
		// Shared cache so all pooled connections see the same database
		connStr = "file::memory:?cache=shared"
	}

	db, err := sql.Open("sqlite", connStr)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if dbPath == ":memory:" {
		db.SetMaxOpenConns(1)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if dbPath != ":memory:" {
		if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
			db.Close()
			return nil, fmt.Errorf("enable WAL mode: %w", err)
		}
	}

	s := &Store{db: db}

	if err := s.createTables(); err != nil {
		db.Close()
		return nil, fmt.Errorf("create tables: %w", err)
	}

	return s, nil
}

// createTables creates the required tables and indexes if they don't exist.
func (s *Store) createTables() error {
	schema := `
	CREATE TABLE IF NOT EXISTS products (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL,
		normalized_name TEXT NOT NULL UNIQUE,
		category TEXT,
		playstore_id TEXT,
		playstore_installs TEXT,
		playstore_rating REAL,
		appstore_id TEXT,
		appstore_rating REAL,
		active INTEGER DEFAULT 1,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_products_name ON products(name);

	CREATE TABLE IF NOT EXISTS signals (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		product TEXT NOT NULL,
		source TEXT,
		term TEXT,
		text TEXT,
		url TEXT,
		sentiment TEXT,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_signals_product ON signals(product);

	CREATE TABLE IF NOT EXISTS weekly_snapshots (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		product TEXT NOT NULL,
		week_id TEXT NOT NULL,
		pfi_score REAL NOT NULL,
		negative_rate REAL NOT NULL,
		total_signals INTEGER NOT NULL,
		run_id TEXT,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_weekly_product ON weekly_snapshots(product, created_at DESC);

	CREATE TABLE IF NOT EXISTS theme_snapshots (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		product TEXT NOT NULL,
		week_id TEXT NOT NULL,
		theme_name TEXT NOT NULL,
		frequency INTEGER NOT NULL,
		intensity REAL NOT NULL,
		run_id TEXT,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_theme_product_week ON theme_snapshots(product, week_id);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// InsertSignal appends one raw signal row.
func (s *Store) InsertSignal(row SignalRow) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.Exec(`
		INSERT INTO signals (product, source, term, text, url, sentiment)
		VALUES (?, ?, ?, ?, ?, ?)`,
		row.Product, row.Source, row.Term, row.Text, row.URL, row.Sentiment)
	if err != nil {
		return fmt.Errorf("insert signal: %w", err)
	}
	return nil
}

// InsertSignals appends raw signal rows in one transaction.
func (s *Store) InsertSignals(rows []SignalRow) error {
	if len(rows) == 0 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`
		INSERT INTO signals (product, source, term, text, url, sentiment)
		VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare: %w", err)
	}
	defer stmt.Close()

	for _, row := range rows {
		if _, err := stmt.Exec(row.Product, row.Source, row.Term, row.Text, row.URL, row.Sentiment); err != nil {
			return fmt.Errorf("insert signal: %w", err)
		}
	}

	return tx.Commit()
}

// InsertWeeklySnapshot appends one weekly snapshot row. Never updates.
func (s *Store) InsertWeeklySnapshot(snap WeeklySnapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.Exec(`
		INSERT INTO weekly_snapshots (product, week_id, pfi_score, negative_rate, total_signals, run_id)
		VALUES (?, ?, ?, ?, ?, ?)`,
		snap.Product, snap.WeekID, snap.PFI, snap.NegativeRate, snap.TotalSignals, snap.RunID)
	if err != nil {
		return fmt.Errorf("insert weekly snapshot: %w", err)
	}
	return nil
}

// InsertThemeSnapshot appends one theme snapshot row. Never updates.
func (s *Store) InsertThemeSnapshot(snap ThemeSnapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.Exec(`
		INSERT INTO theme_snapshots (product, week_id, theme_name, frequency, intensity, run_id)
		VALUES (?, ?, ?, ?, ?, ?)`,
		snap.Product, snap.WeekID, snap.ThemeName, snap.Frequency, snap.Intensity, snap.RunID)
	if err != nil {
		return fmt.Errorf("insert theme snapshot: %w", err)
	}
	return nil
}

// SaveSnapshot persists one run's weekly rollup plus its theme rows,
// computing the friction index from the summary and themes.
func (s *Store) SaveSnapshot(product, weekID, runID string, summary signal.Summary, themes []signal.Theme) error {
	err := s.InsertWeeklySnapshot(WeeklySnapshot{
		Product:      product,
		WeekID:       weekID,
		PFI:          PFI(summary.NegativeRate, themes),
		NegativeRate: summary.NegativeRate,
		TotalSignals: summary.Total,
		RunID:        runID,
	})
	if err != nil {
		return err
	}

	for _, th := range themes {
		err := s.InsertThemeSnapshot(ThemeSnapshot{
			Product:   product,
			WeekID:    weekID,
			ThemeName: th.Name,
			Frequency: th.Frequency,
			Intensity: float64(th.EmotionalIntensity),
			RunID:     runID,
		})
		if err != nil {
			return err
		}
	}
	return nil
}

// PFI is the product friction index for one run: half the negative rate
// (in percent) plus five times the mean theme intensity. No themes means
// no measurable friction, so the index is zero.
func PFI(negativeRate float64, ts []signal.Theme) float64 {
	if len(ts) == 0 {
		return 0
	}
	var sum float64
	for _, th := range ts {
		sum += float64(th.EmotionalIntensity)
	}
	avg := sum / float64(len(ts))
	return 0.5*negativeRate + 5*avg
}

// LatestSnapshot returns the most recently created weekly snapshot for a
// product. Creation order, not week_id, so out-of-order backfills still
// resolve to the latest run.
func (s *Store) LatestSnapshot(product string) (WeeklySnapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRow(`
		SELECT id, product, week_id, pfi_score, negative_rate, total_signals, COALESCE(run_id, ''), created_at
		FROM weekly_snapshots
		WHERE product = ?
		ORDER BY created_at DESC, id DESC
		LIMIT 1`, product)

	var snap WeeklySnapshot
	err := row.Scan(&snap.ID, &snap.Product, &snap.WeekID, &snap.PFI,
		&snap.NegativeRate, &snap.TotalSignals, &snap.RunID, &snap.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return WeeklySnapshot{}, fmt.Errorf("%w: %s", ErrMissingSnapshot, product)
	}
	if err != nil {
		return WeeklySnapshot{}, fmt.Errorf("query latest snapshot: %w", err)
	}
	return snap, nil
}

// RecentSnapshots returns up to limit weekly snapshots for a product, most
// recently created first.
func (s *Store) RecentSnapshots(product string, limit int) ([]WeeklySnapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.Query(`
		SELECT id, product, week_id, pfi_score, negative_rate, total_signals, COALESCE(run_id, ''), created_at
		FROM weekly_snapshots
		WHERE product = ?
		ORDER BY created_at DESC, id DESC
		LIMIT ?`, product, limit)
	if err != nil {
		return nil, fmt.Errorf("query recent snapshots: %w", err)
	}
	defer rows.Close()

	var snaps []WeeklySnapshot
	for rows.Next() {
		var snap WeeklySnapshot
		if err := rows.Scan(&snap.ID, &snap.Product, &snap.WeekID, &snap.PFI,
			&snap.NegativeRate, &snap.TotalSignals, &snap.RunID, &snap.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan snapshot: %w", err)
		}
		snaps = append(snaps, snap)
	}
	return snaps, rows.Err()
}

// ThemeSnapshots returns the theme rows for a product-week. When the same
// week holds multiple runs, only the rows of the latest run are returned so
// a rerun never double-counts.
func (s *Store) ThemeSnapshots(product, weekID string) ([]ThemeSnapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.Query(`
		SELECT id, product, week_id, theme_name, frequency, intensity, COALESCE(run_id, ''), created_at
		FROM theme_snapshots
		WHERE product = ? AND week_id = ?
		  AND COALESCE(run_id, '') = (
			SELECT COALESCE(run_id, '') FROM theme_snapshots
			WHERE product = ? AND week_id = ?
			ORDER BY created_at DESC, id DESC LIMIT 1)
		ORDER BY id`, product, weekID, product, weekID)
	if err != nil {
		return nil, fmt.Errorf("query theme snapshots: %w", err)
	}
	defer rows.Close()

	var snaps []ThemeSnapshot
	for rows.Next() {
		var snap ThemeSnapshot
		if err := rows.Scan(&snap.ID, &snap.Product, &snap.WeekID, &snap.ThemeName,
			&snap.Frequency, &snap.Intensity, &snap.RunID, &snap.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan theme snapshot: %w", err)
		}
		snaps = append(snaps, snap)
	}
	return snaps, rows.Err()
}

// Trend compares the two most recently created snapshots of a product.
// Returns ErrInsufficientHistory when fewer than two exist.
func (s *Store) Trend(product string) (Trend, error) {
	snaps, err := s.RecentSnapshots(product, 2)
	if err != nil {
		return Trend{}, err
	}
	if len(snaps) < 2 {
		return Trend{}, fmt.Errorf("%w: %s has %d snapshots", ErrInsufficientHistory, product, len(snaps))
	}

	current, previous := snaps[0], snaps[1]
	return Trend{
		PFIChange:          current.PFI - previous.PFI,
		NegativeRateChange: current.NegativeRate - previous.NegativeRate,
	}, nil
}

// GetProduct looks up a registry entry by normalized name.
func (s *Store) GetProduct(normalizedName string) (Product, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRow(`
		SELECT id, name, normalized_name, COALESCE(category, ''),
		       COALESCE(playstore_id, ''), COALESCE(playstore_installs, ''), COALESCE(playstore_rating, 0),
		       COALESCE(appstore_id, ''), COALESCE(appstore_rating, 0), active, created_at
		FROM products WHERE normalized_name = ?`, normalizedName)

	var p Product
	err := row.Scan(&p.ID, &p.Name, &p.NormalizedName, &p.Category,
		&p.PlayStoreID, &p.PlayStoreInstalls, &p.PlayStoreRating,
		&p.AppStoreID, &p.AppStoreRating, &p.Active, &p.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return Product{}, false, nil
	}
	if err != nil {
		return Product{}, false, fmt.Errorf("query product: %w", err)
	}
	return p, true, nil
}

// SaveProduct inserts or updates a registry entry keyed by normalized name.
func (s *Store) SaveProduct(p Product) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.Exec(`
		INSERT INTO products (name, normalized_name, category, playstore_id, playstore_installs,
		                      playstore_rating, appstore_id, appstore_rating, active)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, 1)
		ON CONFLICT(normalized_name) DO UPDATE SET
			category = excluded.category,
			playstore_id = excluded.playstore_id,
			playstore_installs = excluded.playstore_installs,
			playstore_rating = excluded.playstore_rating,
			appstore_id = excluded.appstore_id,
			appstore_rating = excluded.appstore_rating`,
		p.Name, p.NormalizedName, p.Category, p.PlayStoreID, p.PlayStoreInstalls,
		p.PlayStoreRating, p.AppStoreID, p.AppStoreRating)
	if err != nil {
		return fmt.Errorf("save product: %w", err)
	}
	return nil
}

// CountSignals returns the signal row count for a product.
func (s *Store) CountSignals(product string) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var n int
	err := s.db.QueryRow(`SELECT COUNT(*) FROM signals WHERE product = ?`, product).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count signals: %w", err)
	}
	return n, nil
}

// Products returns all registry entries ordered by name.
func (s *Store) Products() ([]Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.Query(`
		SELECT id, name, normalized_name, COALESCE(category, ''),
		       COALESCE(playstore_id, ''), COALESCE(playstore_installs, ''), COALESCE(playstore_rating, 0),
		       COALESCE(appstore_id, ''), COALESCE(appstore_rating, 0), active, created_at
		FROM products ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("query products: %w", err)
	}
	defer rows.Close()

	var products []Product
	for rows.Next() {
		var p Product
		if err := rows.Scan(&p.ID, &p.Name, &p.NormalizedName, &p.Category,
			&p.PlayStoreID, &p.PlayStoreInstalls, &p.PlayStoreRating,
			&p.AppStoreID, &p.AppStoreRating, &p.Active, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		products = append(products, p)
	}
	return products, rows.Err()
}
