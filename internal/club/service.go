package club

import (
	"context"
	"database/sql"
	"errors"

	"github.com/FranciscoFerrutti/sportsmatch-back/internal/apperr"
	"github.com/FranciscoFerrutti/sportsmatch-back/internal/auth"
)

var (
	ErrEmailExists        = errors.New("email already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// Geocoder resolves a free-form location name to coordinates.
type Geocoder interface {
	Resolve(ctx context.Context, name string) (lat, lon float64, err error)
}

type Service interface {
	Register(ctx context.Context, req RegisterRequest) (*Club, string, string, error)
	Login(ctx context.Context, req LoginRequest) (*Club, string, string, error)
	GetByID(ctx context.Context, id int) (*Club, error)
	GetAll(ctx context.Context) ([]Club, error)
	UpdateLocation(ctx context.Context, clubID int, req UpdateLocationRequest) (*Location, error)
	GetLocation(ctx context.Context, clubID int) (*Location, error)
	// NearbyClubs enumerates club locations within radiusKm of the named
	// location: bounding-box prefilter, exact haversine cut at the radius.
	NearbyClubs(ctx context.Context, location string, radiusKm float64) ([]NearbyClub, error)
}

type service struct {
	repo            Repository
	geocoder        Geocoder
	jwtSecret       string
	defaultRadiusKm float64
}

func NewService(repo Repository, geocoder Geocoder, jwtSecret string, defaultRadiusKm float64) Service {
	return &service{
		repo:            repo,
		geocoder:        geocoder,
		jwtSecret:       jwtSecret,
		defaultRadiusKm: defaultRadiusKm,
	}
}

func (s *service) Register(ctx context.Context, req RegisterRequest) (*Club, string, string, error) {
	exists, err := s.repo.EmailExists(ctx, req.Email)
	if err != nil {
		return nil, "", "", err
	}
	if exists {
		return nil, "", "", ErrEmailExists
	}

	passwordHash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, "", "", err
	}

	cl, err := s.repo.Create(ctx, req.Name, req.Email, passwordHash, req.PhoneNumber, req.Description)
	if err != nil {
		return nil, "", "", err
	}

	accessToken, refreshToken, err := auth.GenerateTokens(cl.ID, cl.Email, auth.RoleClub, s.jwtSecret)
	if err != nil {
		return nil, "", "", err
	}

	return cl, accessToken, refreshToken, nil
}

func (s *service) Login(ctx context.Context, req LoginRequest) (*Club, string, string, error) {
	cl, err := s.repo.FindByEmail(ctx, req.Email)
	if err != nil {
		return nil, "", "", ErrInvalidCredentials
	}

	if !auth.CheckPassword(cl.PasswordHash, req.Password) {
		return nil, "", "", ErrInvalidCredentials
	}

	accessToken, refreshToken, err := auth.GenerateTokens(cl.ID, cl.Email, auth.RoleClub, s.jwtSecret)
	if err != nil {
		return nil, "", "", err
	}

	return cl, accessToken, refreshToken, nil
}

func (s *service) GetByID(ctx context.Context, id int) (*Club, error) {
	cl, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperr.NotFound("Club")
		}
		return nil, err
	}
	return cl, nil
}

func (s *service) GetAll(ctx context.Context) ([]Club, error) {
	return s.repo.GetAll(ctx)
}

func (s *service) UpdateLocation(ctx context.Context, clubID int, req UpdateLocationRequest) (*Location, error) {
	return s.repo.UpsertLocation(ctx, &Location{
		ClubID:    clubID,
		Latitude:  req.Latitude,
		Longitude: req.Longitude,
		Address:   req.Address,
		Locality:  req.Locality,
	})
}

func (s *service) GetLocation(ctx context.Context, clubID int) (*Location, error) {
	loc, err := s.repo.GetLocation(ctx, clubID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperr.NotFound("Club location")
		}
		return nil, err
	}
	return loc, nil
}

func (s *service) NearbyClubs(ctx context.Context, location string, radiusKm float64) ([]NearbyClub, error) {
	if radiusKm <= 0 {
		radiusKm = s.defaultRadiusKm
	}

	lat, lon, err := s.geocoder.Resolve(ctx, location)
	if err != nil {
		return nil, err
	}

	minLat, maxLat, minLon, maxLon := BoundingBox(lat, lon, radiusKm)

	candidates, err := s.repo.LocationsWithinBox(ctx, minLat, maxLat, minLon, maxLon)
	if err != nil {
		return nil, err
	}

	nearby := make([]NearbyClub, 0, len(candidates))
	for _, candidate := range candidates {
		distance := Haversine(lat, lon, candidate.Latitude, candidate.Longitude)
		if distance <= radiusKm {
			candidate.DistanceKm = distance
			nearby = append(nearby, candidate)
		}
	}

	return nearby, nil
}

// localityGeocoder resolves a locality name against stored club locations.
// It stands in for a real geocoding provider, which the deployment can swap
// in through the Geocoder interface.
type localityGeocoder struct {
	repo Repository
}

func NewLocalityGeocoder(repo Repository) Geocoder {
	return &localityGeocoder{repo: repo}
}

func (g *localityGeocoder) Resolve(ctx context.Context, name string) (float64, float64, error) {
	loc, err := g.repo.FindLocationByLocality(ctx, name)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, 0, apperr.NotFound("Location")
		}
		return 0, 0, err
	}
	return loc.Latitude, loc.Longitude, nil
}
