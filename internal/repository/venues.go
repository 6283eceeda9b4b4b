package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/evently-app/evently/internal/model"
	"github.com/jackc/pgx/v5/pgxpool"
)

// VenueRepository handles persistence for venues. Venues are administered
// out of band and immutable during booking evaluation.
type VenueRepository struct {
	db *pgxpool.Pool
}

// NewVenueRepository constructs a VenueRepository.
func NewVenueRepository(db *pgxpool.Pool) *VenueRepository {
	return &VenueRepository{db: db}
}

// List returns all venues ordered by name.
func (r *VenueRepository) List(ctx context.Context) ([]model.Venue, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, name, COALESCE(location, ''), capacity
		 FROM venues
		 ORDER BY name`,
	)
	if err != nil {
		return nil, fmt.Errorf("list venues: %w", err)
	}
	defer rows.Close()

	var venues []model.Venue
	for rows.Next() {
		var v model.Venue
		if err := rows.Scan(&v.ID, &v.Name, &v.Location, &v.Capacity); err != nil {
			return nil, fmt.Errorf("scan venue: %w", err)
		}
		venues = append(venues, v)
	}
	return venues, rows.Err()
}

// GetByID returns a single venue or ErrNotFound.
func (r *VenueRepository) GetByID(ctx context.Context, id string) (*model.Venue, error) {
	var v model.Venue
	err := r.db.QueryRow(ctx,
		`SELECT id, name, COALESCE(location, ''), capacity FROM venues WHERE id = $1`,
		id,
	).Scan(&v.ID, &v.Name, &v.Location, &v.Capacity)
	if err != nil {
		if terr := translate(err); errors.Is(terr, ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get venue: %w", err)
	}
	return &v, nil
}
