package sport

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
)

type Sport struct {
	ID   int    `db:"id" json:"id"`
	Name string `db:"name" json:"name"`
}

type Repository interface {
	GetAll(ctx context.Context) ([]Sport, error)
	GetByID(ctx context.Context, id int) (*Sport, error)
}

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) GetAll(ctx context.Context) ([]Sport, error) {
	var sports []Sport
	err := r.db.SelectContext(ctx, &sports, `SELECT id, name FROM sports ORDER BY name ASC`)
	if err != nil {
		return nil, err
	}
	return sports, nil
}

func (r *repository) GetByID(ctx context.Context, id int) (*Sport, error) {
	var s Sport
	err := r.db.GetContext(ctx, &s, `SELECT id, name FROM sports WHERE id = $1`, id)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

type Handler struct {
	repo Repository
}

func NewHandler(repo Repository) *Handler {
	return &Handler{repo: repo}
}

// ListSports godoc
// @Summary      List sports
// @Tags         sports
// @Produce      json
// @Success      200  {array}  Sport
// @Router       /sports [get]
func (h *Handler) ListSports(c *gin.Context) {
	sports, err := h.repo.GetAll(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch sports"})
		return
	}

	c.JSON(http.StatusOK, sports)
}
