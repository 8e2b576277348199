package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jonathan/brand-compliance/internal/guidelines"
)

// -----------------------------------------------------------------------------
// Guideline Store
// -----------------------------------------------------------------------------

var _ guidelines.Store = (*DB)(nil)

// ImportGuidelines upserts a guideline data set in one transaction.
// Brand palettes are replaced wholesale.
func (db *DB) ImportGuidelines(ctx context.Context, g guidelines.Guidelines) error {
	tx, err := db.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin import: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	for brandID, b := range g.Brands {
		if _, err := tx.Exec(ctx, `DELETE FROM brand_colors WHERE brand_id = $1`, brandID); err != nil {
			return fmt.Errorf("failed to clear colors for %s: %w", brandID, err)
		}
		for i, hex := range b.Colors {
			if _, err := tx.Exec(ctx,
				`INSERT INTO brand_colors (brand_id, position, hex) VALUES ($1, $2, $3)`,
				brandID, i, hex); err != nil {
				return fmt.Errorf("failed to save color for %s: %w", brandID, err)
			}
		}
		for _, slot := range []guidelines.Slot{guidelines.SlotHeading, guidelines.SlotBody} {
			family, hasFamily := b.Fonts[slot]
			size, hasSize := b.FontSizes[slot]
			if !hasFamily && !hasSize {
				continue
			}
			if _, err := tx.Exec(ctx,
				`INSERT INTO brand_fonts (brand_id, slot, family, size) VALUES ($1, $2, $3, $4)
				 ON CONFLICT (brand_id, slot) DO UPDATE SET family = $3, size = $4`,
				brandID, string(slot), optionalString(family), optionalFloat(size)); err != nil {
				return fmt.Errorf("failed to save %s font for %s: %w", slot, brandID, err)
			}
		}
		if b.Logo != nil {
			if _, err := tx.Exec(ctx,
				`INSERT INTO brand_logos (brand_id, min_width, min_height, clear_space) VALUES ($1, $2, $3, $4)
				 ON CONFLICT (brand_id) DO UPDATE SET min_width = $2, min_height = $3, clear_space = $4`,
				brandID, b.Logo.MinWidth, b.Logo.MinHeight, b.Logo.ClearSpace); err != nil {
				return fmt.Errorf("failed to save logo specs for %s: %w", brandID, err)
			}
		}
		if b.SpacingUnit > 0 {
			if _, err := tx.Exec(ctx,
				`INSERT INTO brand_spacing (brand_id, unit) VALUES ($1, $2)
				 ON CONFLICT (brand_id) DO UPDATE SET unit = $2`,
				brandID, b.SpacingUnit); err != nil {
				return fmt.Errorf("failed to save spacing for %s: %w", brandID, err)
			}
		}
	}

	for industry, std := range g.Industries {
		if _, err := tx.Exec(ctx,
			`INSERT INTO industry_standards (industry, min_contrast_ratio, min_font_size) VALUES ($1, $2, $3)
			 ON CONFLICT (industry) DO UPDATE SET min_contrast_ratio = $2, min_font_size = $3`,
			guidelines.NormalizeIndustry(industry), optionalFloat(std.MinContrastRatio), optionalFloat(std.MinFontSize)); err != nil {
			return fmt.Errorf("failed to save industry %s: %w", industry, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit import: %w", err)
	}
	return nil
}

// BrandColors returns the brand palette in stored order
func (db *DB) BrandColors(ctx context.Context, brandID string) ([]string, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT hex FROM brand_colors WHERE brand_id = $1 ORDER BY position`, brandID)
	if err != nil {
		return nil, fmt.Errorf("failed to get brand colors: %w", err)
	}
	colors, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, fmt.Errorf("failed to read brand colors: %w", err)
	}
	return colors, nil
}

// RecommendedFontFamily returns the brand font for a slot
func (db *DB) RecommendedFontFamily(ctx context.Context, brandID string, slot guidelines.Slot) (string, bool, error) {
	var family *string
	err := db.pool.QueryRow(ctx,
		`SELECT family FROM brand_fonts WHERE brand_id = $1 AND slot = $2`, brandID, string(slot)).Scan(&family)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to get font family: %w", err)
	}
	if family == nil || *family == "" {
		return "", false, nil
	}
	return *family, true, nil
}

// RecommendedFontSize returns the brand font size for a slot
func (db *DB) RecommendedFontSize(ctx context.Context, brandID string, slot guidelines.Slot) (float64, bool, error) {
	var size *float64
	err := db.pool.QueryRow(ctx,
		`SELECT size FROM brand_fonts WHERE brand_id = $1 AND slot = $2`, brandID, string(slot)).Scan(&size)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("failed to get font size: %w", err)
	}
	if size == nil || *size <= 0 {
		return 0, false, nil
	}
	return *size, true, nil
}

// BrandLogoSpecs returns the logo rules, or nil
func (db *DB) BrandLogoSpecs(ctx context.Context, brandID string) (*guidelines.LogoSpecs, error) {
	var specs guidelines.LogoSpecs
	err := db.pool.QueryRow(ctx,
		`SELECT min_width, min_height, clear_space FROM brand_logos WHERE brand_id = $1`, brandID).
		Scan(&specs.MinWidth, &specs.MinHeight, &specs.ClearSpace)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get logo specs: %w", err)
	}
	return &specs, nil
}

// BrandSpacing returns the base spacing unit
func (db *DB) BrandSpacing(ctx context.Context, brandID string) (float64, bool, error) {
	var unit float64
	err := db.pool.QueryRow(ctx,
		`SELECT unit FROM brand_spacing WHERE brand_id = $1`, brandID).Scan(&unit)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("failed to get spacing: %w", err)
	}
	return unit, unit > 0, nil
}

// RecommendedSpacing returns multiplier times the base spacing unit
func (db *DB) RecommendedSpacing(ctx context.Context, brandID string, multiplier float64) (float64, bool, error) {
	unit, ok, err := db.BrandSpacing(ctx, brandID)
	if err != nil || !ok {
		return 0, false, err
	}
	return unit * multiplier, true, nil
}

// MinimumContrastRatio returns the industry minimum, falling back to general
func (db *DB) MinimumContrastRatio(ctx context.Context, industry string) (float64, bool, error) {
	return db.industryValue(ctx,
		`SELECT min_contrast_ratio FROM industry_standards WHERE industry = $1`, industry)
}

// MinimumFontSize returns the industry minimum, falling back to general
func (db *DB) MinimumFontSize(ctx context.Context, industry string) (float64, bool, error) {
	return db.industryValue(ctx,
		`SELECT min_font_size FROM industry_standards WHERE industry = $1`, industry)
}

func (db *DB) industryValue(ctx context.Context, query, industry string) (float64, bool, error) {
	for _, key := range guidelines.IndustryCandidates(industry) {
		var value *float64
		err := db.pool.QueryRow(ctx, query, key).Scan(&value)
		if errors.Is(err, pgx.ErrNoRows) {
			continue
		}
		if err != nil {
			return 0, false, fmt.Errorf("failed to get industry standard: %w", err)
		}
		if value != nil && *value > 0 {
			return *value, true, nil
		}
	}
	return 0, false, nil
}

func optionalString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func optionalFloat(f float64) *float64 {
	if f <= 0 {
		return nil
	}
	return &f
}
