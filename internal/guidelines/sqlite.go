package guidelines

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/jonathan/brand-compliance/internal/guidelines/migrations"
)

// SQLiteStore is a file-backed guideline store
type SQLiteStore struct {
	db   *sql.DB
	path string
}

var _ Store = (*SQLiteStore)(nil)

// OpenSQLite opens (creating if needed) the guideline database at path and
// applies pending migrations.
func OpenSQLite(path string) (*SQLiteStore, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return nil, fmt.Errorf("creating guideline directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening guideline database: %w", err)
	}

	s := &SQLiteStore{db: db, path: path}
	if err := s.migrate(migrations.FS); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}
	return s, nil
}

// Close closes the database connection
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// Path returns the database file path
func (s *SQLiteStore) Path() string {
	return s.path
}

func (s *SQLiteStore) migrate(fsys fs.FS) error {
	if _, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`); err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	var current int
	if err := s.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations").Scan(&current); err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}
	var upFiles []string
	for _, entry := range entries {
		if strings.HasSuffix(entry.Name(), ".up.sql") {
			upFiles = append(upFiles, entry.Name())
		}
	}
	sort.Strings(upFiles)

	for _, name := range upFiles {
		var version int
		if _, err := fmt.Sscanf(name, "%d_", &version); err != nil || version <= current {
			continue
		}
		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", name, err)
		}
		if _, err := s.db.Exec(string(content)); err != nil {
			return fmt.Errorf("executing migration %s: %w", name, err)
		}
		if _, err := s.db.Exec("INSERT INTO schema_migrations (version) VALUES (?)", version); err != nil {
			return fmt.Errorf("recording migration %s: %w", name, err)
		}
	}
	return nil
}

// Import upserts a guideline data set in one transaction. Brand palettes are
// replaced wholesale.
func (s *SQLiteStore) Import(ctx context.Context, g Guidelines) (err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning import: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	for brandID, b := range g.Brands {
		if _, err = tx.ExecContext(ctx, `DELETE FROM brand_colors WHERE brand_id = ?`, brandID); err != nil {
			return fmt.Errorf("clearing colors for %s: %w", brandID, err)
		}
		for i, hex := range b.Colors {
			if _, err = tx.ExecContext(ctx,
				`INSERT INTO brand_colors (brand_id, position, hex) VALUES (?, ?, ?)`,
				brandID, i, hex); err != nil {
				return fmt.Errorf("saving color for %s: %w", brandID, err)
			}
		}
		for _, slot := range []Slot{SlotHeading, SlotBody} {
			family, hasFamily := b.Fonts[slot]
			size, hasSize := b.FontSizes[slot]
			if !hasFamily && !hasSize {
				continue
			}
			if _, err = tx.ExecContext(ctx, `
				INSERT INTO brand_fonts (brand_id, slot, family, size) VALUES (?, ?, ?, ?)
				ON CONFLICT(brand_id, slot) DO UPDATE SET family = excluded.family, size = excluded.size`,
				brandID, string(slot), nullString(family), nullFloat(size)); err != nil {
				return fmt.Errorf("saving %s font for %s: %w", slot, brandID, err)
			}
		}
		if b.Logo != nil {
			if _, err = tx.ExecContext(ctx, `
				INSERT INTO brand_logos (brand_id, min_width, min_height, clear_space) VALUES (?, ?, ?, ?)
				ON CONFLICT(brand_id) DO UPDATE SET min_width = excluded.min_width,
					min_height = excluded.min_height, clear_space = excluded.clear_space`,
				brandID, b.Logo.MinWidth, b.Logo.MinHeight, b.Logo.ClearSpace); err != nil {
				return fmt.Errorf("saving logo specs for %s: %w", brandID, err)
			}
		}
		if b.SpacingUnit > 0 {
			if _, err = tx.ExecContext(ctx, `
				INSERT INTO brand_spacing (brand_id, unit) VALUES (?, ?)
				ON CONFLICT(brand_id) DO UPDATE SET unit = excluded.unit`,
				brandID, b.SpacingUnit); err != nil {
				return fmt.Errorf("saving spacing for %s: %w", brandID, err)
			}
		}
	}

	for industry, std := range g.Industries {
		if _, err = tx.ExecContext(ctx, `
			INSERT INTO industry_standards (industry, min_contrast_ratio, min_font_size) VALUES (?, ?, ?)
			ON CONFLICT(industry) DO UPDATE SET min_contrast_ratio = excluded.min_contrast_ratio,
				min_font_size = excluded.min_font_size`,
			NormalizeIndustry(industry), nullFloat(std.MinContrastRatio), nullFloat(std.MinFontSize)); err != nil {
			return fmt.Errorf("saving industry %s: %w", industry, err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("committing import: %w", err)
	}
	return nil
}

// BrandColors returns the brand palette in stored order
func (s *SQLiteStore) BrandColors(ctx context.Context, brandID string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT hex FROM brand_colors WHERE brand_id = ? ORDER BY position`, brandID)
	if err != nil {
		return nil, fmt.Errorf("querying brand colors: %w", err)
	}
	defer rows.Close()

	var colors []string
	for rows.Next() {
		var hex string
		if err := rows.Scan(&hex); err != nil {
			return nil, fmt.Errorf("scanning brand color: %w", err)
		}
		colors = append(colors, hex)
	}
	return colors, rows.Err()
}

// RecommendedFontFamily returns the brand font for a slot
func (s *SQLiteStore) RecommendedFontFamily(ctx context.Context, brandID string, slot Slot) (string, bool, error) {
	var family sql.NullString
	err := s.db.QueryRowContext(ctx,
		`SELECT family FROM brand_fonts WHERE brand_id = ? AND slot = ?`, brandID, string(slot)).Scan(&family)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("querying font family: %w", err)
	}
	return family.String, family.Valid && family.String != "", nil
}

// RecommendedFontSize returns the brand font size for a slot
func (s *SQLiteStore) RecommendedFontSize(ctx context.Context, brandID string, slot Slot) (float64, bool, error) {
	var size sql.NullFloat64
	err := s.db.QueryRowContext(ctx,
		`SELECT size FROM brand_fonts WHERE brand_id = ? AND slot = ?`, brandID, string(slot)).Scan(&size)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("querying font size: %w", err)
	}
	return size.Float64, size.Valid && size.Float64 > 0, nil
}

// BrandLogoSpecs returns the logo rules, or nil
func (s *SQLiteStore) BrandLogoSpecs(ctx context.Context, brandID string) (*LogoSpecs, error) {
	var specs LogoSpecs
	err := s.db.QueryRowContext(ctx,
		`SELECT min_width, min_height, clear_space FROM brand_logos WHERE brand_id = ?`, brandID).
		Scan(&specs.MinWidth, &specs.MinHeight, &specs.ClearSpace)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("querying logo specs: %w", err)
	}
	return &specs, nil
}

// BrandSpacing returns the base spacing unit
func (s *SQLiteStore) BrandSpacing(ctx context.Context, brandID string) (float64, bool, error) {
	var unit float64
	err := s.db.QueryRowContext(ctx,
		`SELECT unit FROM brand_spacing WHERE brand_id = ?`, brandID).Scan(&unit)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("querying spacing: %w", err)
	}
	return unit, unit > 0, nil
}

// RecommendedSpacing returns multiplier times the base spacing unit
func (s *SQLiteStore) RecommendedSpacing(ctx context.Context, brandID string, multiplier float64) (float64, bool, error) {
	unit, ok, err := s.BrandSpacing(ctx, brandID)
	if err != nil || !ok {
		return 0, false, err
	}
	return unit * multiplier, true, nil
}

// MinimumContrastRatio returns the industry minimum, falling back to general
func (s *SQLiteStore) MinimumContrastRatio(ctx context.Context, industry string) (float64, bool, error) {
	return s.industryValue(ctx, "min_contrast_ratio", industry)
}

// MinimumFontSize returns the industry minimum, falling back to general
func (s *SQLiteStore) MinimumFontSize(ctx context.Context, industry string) (float64, bool, error) {
	return s.industryValue(ctx, "min_font_size", industry)
}

// industryValue reads one column; column is always a package constant
func (s *SQLiteStore) industryValue(ctx context.Context, column, industry string) (float64, bool, error) {
	query := fmt.Sprintf(`SELECT %s FROM industry_standards WHERE industry = ?`, column)
	for _, key := range IndustryCandidates(industry) {
		var value sql.NullFloat64
		err := s.db.QueryRowContext(ctx, query, key).Scan(&value)
		if errors.Is(err, sql.ErrNoRows) {
			continue
		}
		if err != nil {
			return 0, false, fmt.Errorf("querying %s: %w", column, err)
		}
		if value.Valid && value.Float64 > 0 {
			return value.Float64, true, nil
		}
	}
	return 0, false, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func nullFloat(f float64) sql.NullFloat64 {
	return sql.NullFloat64{Float64: f, Valid: f > 0}
}
