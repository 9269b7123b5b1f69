package club

import "time"

type Club struct {
	ID           int       `db:"id" json:"id"`
	Name         string    `db:"name" json:"name"`
	Email        string    `db:"email" json:"email"`
	PasswordHash string    `db:"password_hash" json:"-"`
	PhoneNumber  string    `db:"phone_number" json:"phone_number"`
	Description  string    `db:"description" json:"description"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}

type Location struct {
	ID        int     `db:"id" json:"id"`
	ClubID    int     `db:"club_id" json:"club_id"`
	Latitude  float64 `db:"latitude" json:"latitude"`
	Longitude float64 `db:"longitude" json:"longitude"`
	Geohash   string  `db:"geohash" json:"geohash"`
	Address   string  `db:"address" json:"address"`
	Locality  string  `db:"locality" json:"locality"`
}

// NearbyClub is a club location that survived the radius filter,
// annotated with its great-circle distance from the query point.
type NearbyClub struct {
	Location
	ClubName   string  `db:"club_name" json:"club_name"`
	ClubEmail  string  `db:"club_email" json:"club_email"`
	DistanceKm float64 `json:"distance_km"`
}

type RegisterRequest struct {
	Name        string `json:"name" binding:"required"`
	Email       string `json:"email" binding:"required,email"`
	Password    string `json:"password" binding:"required,min=8"`
	PhoneNumber string `json:"phone_number" binding:"required"`
	Description string `json:"description"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type LoginResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	Club         Club   `json:"club"`
}

type UpdateLocationRequest struct {
	Latitude  float64 `json:"latitude" binding:"required,gte=-90,lte=90"`
	Longitude float64 `json:"longitude" binding:"required,gte=-180,lte=180"`
	Address   string  `json:"address" binding:"required"`
	Locality  string  `json:"locality" binding:"required"`
}
