package club

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/FranciscoFerrutti/sportsmatch-back/internal/api"
	"github.com/FranciscoFerrutti/sportsmatch-back/internal/auth"
)

type Handler struct {
	svc Service
}

func NewHandler(svc Service) *Handler {
	return &Handler{svc: svc}
}

// Register godoc
// @Summary      Register new club
// @Tags         club-auth
// @Accept       json
// @Produce      json
// @Param        request  body      RegisterRequest  true  "Club registration data"
// @Success      201      {object}  LoginResponse
// @Failure      400      {object}  gin.H
// @Failure      409      {object}  gin.H
// @Router       /club-auth/register [post]
func (h *Handler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	cl, accessToken, refreshToken, err := h.svc.Register(c.Request.Context(), req)
	if err != nil {
		if errors.Is(err, ErrEmailExists) {
			c.JSON(http.StatusConflict, gin.H{"error": "Email already registered"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create club"})
		return
	}

	c.JSON(http.StatusCreated, LoginResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		Club:         *cl,
	})
}

// Login godoc
// @Summary      Club login
// @Tags         club-auth
// @Accept       json
// @Produce      json
// @Param        request  body      LoginRequest  true  "Credentials"
// @Success      200      {object}  LoginResponse
// @Failure      401      {object}  gin.H
// @Router       /club-auth/login [post]
func (h *Handler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	cl, accessToken, refreshToken, err := h.svc.Login(c.Request.Context(), req)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid email or password"})
		return
	}

	c.JSON(http.StatusOK, LoginResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		Club:         *cl,
	})
}

// ListClubs godoc
// @Summary      List clubs
// @Tags         clubs
// @Security     BearerAuth
// @Produce      json
// @Success      200  {array}  Club
// @Router       /clubs [get]
func (h *Handler) ListClubs(c *gin.Context) {
	clubs, err := h.svc.GetAll(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch clubs"})
		return
	}

	c.JSON(http.StatusOK, clubs)
}

// GetClub godoc
// @Summary      Get club by id
// @Tags         clubs
// @Security     BearerAuth
// @Produce      json
// @Param        clubID  path      int  true  "Club ID"
// @Success      200     {object}  Club
// @Failure      404     {object}  api.ErrorResponse
// @Router       /clubs/{clubID} [get]
func (h *Handler) GetClub(c *gin.Context) {
	clubID, err := strconv.Atoi(c.Param("clubID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid club ID"})
		return
	}

	cl, err := h.svc.GetByID(c.Request.Context(), clubID)
	if err != nil {
		api.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, cl)
}

// UpdateLocation godoc
// @Summary      Update the authenticated club's location
// @Tags         clubs
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        request  body      UpdateLocationRequest  true  "Coordinates and address"
// @Success      200      {object}  Location
// @Failure      400      {object}  gin.H
// @Router       /clubs/me/location [put]
func (h *Handler) UpdateLocation(c *gin.Context) {
	clubID, exists := auth.GetSubjectID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Club not authenticated"})
		return
	}

	var req UpdateLocationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	loc, err := h.svc.UpdateLocation(c.Request.Context(), clubID, req)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update location"})
		return
	}

	c.JSON(http.StatusOK, loc)
}
