package club

import "context"

type Repository interface {
	Create(ctx context.Context, name, email, passwordHash, phoneNumber, description string) (*Club, error)
	FindByEmail(ctx context.Context, email string) (*Club, error)
	FindByID(ctx context.Context, id int) (*Club, error)
	EmailExists(ctx context.Context, email string) (bool, error)
	GetAll(ctx context.Context) ([]Club, error)

	UpsertLocation(ctx context.Context, loc *Location) (*Location, error)
	GetLocation(ctx context.Context, clubID int) (*Location, error)
	LocationsWithinBox(ctx context.Context, minLat, maxLat, minLon, maxLon float64) ([]NearbyClub, error)
	FindLocationByLocality(ctx context.Context, locality string) (*Location, error)
}
