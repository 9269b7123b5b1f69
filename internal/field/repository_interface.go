package field

import "context"

type Repository interface {
	Create(ctx context.Context, f *Field) (*Field, error)
	GetByID(ctx context.Context, id int) (*Field, error)
	GetByClub(ctx context.Context, clubID int) ([]Field, error)
	GetByClubAndSport(ctx context.Context, clubID, sportID int) ([]Field, error)
	Update(ctx context.Context, f *Field) error
	HasSlots(ctx context.Context, fieldID int) (bool, error)
}
