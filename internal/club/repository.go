package club

import (
	"context"

	"github.com/jmoiron/sqlx"
	"github.com/mmcloughlin/geohash"
)

const geohashPrecision = 8

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, name, email, passwordHash, phoneNumber, description string) (*Club, error) {
	query := `
		INSERT INTO clubs (name, email, password_hash, phone_number, description)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, name, email, password_hash, phone_number, description, created_at
	`

	var cl Club
	err := r.db.GetContext(ctx, &cl, query, name, email, passwordHash, phoneNumber, description)
	if err != nil {
		return nil, err
	}

	return &cl, nil
}

func (r *repository) FindByEmail(ctx context.Context, email string) (*Club, error) {
	query := `
		SELECT id, name, email, password_hash, phone_number, description, created_at
		FROM clubs
		WHERE email = $1
	`

	var cl Club
	err := r.db.GetContext(ctx, &cl, query, email)
	if err != nil {
		return nil, err
	}

	return &cl, nil
}

func (r *repository) FindByID(ctx context.Context, id int) (*Club, error) {
	query := `
		SELECT id, name, email, password_hash, phone_number, description, created_at
		FROM clubs
		WHERE id = $1
	`

	var cl Club
	err := r.db.GetContext(ctx, &cl, query, id)
	if err != nil {
		return nil, err
	}

	return &cl, nil
}

func (r *repository) EmailExists(ctx context.Context, email string) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM clubs WHERE email = $1)`

	var exists bool
	err := r.db.GetContext(ctx, &exists, query, email)
	if err != nil {
		return false, err
	}

	return exists, nil
}

func (r *repository) GetAll(ctx context.Context) ([]Club, error) {
	query := `
		SELECT id, name, email, password_hash, phone_number, description, created_at
		FROM clubs
		ORDER BY created_at DESC
	`

	var clubs []Club
	err := r.db.SelectContext(ctx, &clubs, query)
	if err != nil {
		return nil, err
	}

	return clubs, nil
}

func (r *repository) UpsertLocation(ctx context.Context, loc *Location) (*Location, error) {
	loc.Geohash = geohash.EncodeWithPrecision(loc.Latitude, loc.Longitude, geohashPrecision)

	query := `
		INSERT INTO club_locations (club_id, latitude, longitude, geohash, address, locality)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (club_id) DO UPDATE
		SET latitude = EXCLUDED.latitude,
		    longitude = EXCLUDED.longitude,
		    geohash = EXCLUDED.geohash,
		    address = EXCLUDED.address,
		    locality = EXCLUDED.locality
		RETURNING id, club_id, latitude, longitude, geohash, address, locality
	`

	var saved Location
	err := r.db.GetContext(ctx, &saved, query,
		loc.ClubID, loc.Latitude, loc.Longitude, loc.Geohash, loc.Address, loc.Locality)
	if err != nil {
		return nil, err
	}

	return &saved, nil
}

func (r *repository) GetLocation(ctx context.Context, clubID int) (*Location, error) {
	query := `
		SELECT id, club_id, latitude, longitude, geohash, address, locality
		FROM club_locations
		WHERE club_id = $1
	`

	var loc Location
	err := r.db.GetContext(ctx, &loc, query, clubID)
	if err != nil {
		return nil, err
	}

	return &loc, nil
}

func (r *repository) LocationsWithinBox(ctx context.Context, minLat, maxLat, minLon, maxLon float64) ([]NearbyClub, error) {
	query := `
		SELECT cl.id, cl.club_id, cl.latitude, cl.longitude, cl.geohash, cl.address, cl.locality,
		       c.name AS club_name, c.email AS club_email
		FROM club_locations cl
		JOIN clubs c ON cl.club_id = c.id
		WHERE cl.latitude BETWEEN $1 AND $2
		  AND cl.longitude BETWEEN $3 AND $4
	`

	var locations []NearbyClub
	err := r.db.SelectContext(ctx, &locations, query, minLat, maxLat, minLon, maxLon)
	if err != nil {
		return nil, err
	}

	return locations, nil
}

func (r *repository) FindLocationByLocality(ctx context.Context, locality string) (*Location, error) {
	query := `
		SELECT id, club_id, latitude, longitude, geohash, address, locality
		FROM club_locations
		WHERE LOWER(locality) = LOWER($1)
		LIMIT 1
	`

	var loc Location
	err := r.db.GetContext(ctx, &loc, query, locality)
	if err != nil {
		return nil, err
	}

	return &loc, nil
}
