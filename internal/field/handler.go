package field

import (
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

// CreateField godoc
// @Summary      Create field
// @Description  Creates a field owned by the authenticated club.
// @Tags         fields
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        request  body      CreateFieldRequest  true  "Field data"
// @Success      201      {object}  Field
// @Failure      400      {object}  api.ErrorResponse
// @Router       /clubs/me/fields [post]
func (h *Handler) CreateField(c *gin.Context) {
	clubID, exists := auth.GetSubjectID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Club not authenticated"})
		return
	}

	var req CreateFieldRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	f, err := h.svc.Create(c.Request.Context(), clubID, req)
	if err != nil {
		api.RespondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, f)
}

// ListMyFields godoc
// @Summary      List the authenticated club's fields
// @Tags         fields
// @Security     BearerAuth
// @Produce      json
// @Success      200  {array}  Field
// @Router       /clubs/me/fields [get]
func (h *Handler) ListMyFields(c *gin.Context) {
	clubID, exists := auth.GetSubjectID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Club not authenticated"})
		return
	}

	fields, err := h.svc.GetByClub(c.Request.Context(), clubID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch fields"})
		return
	}

	c.JSON(http.StatusOK, fields)
}

// GetField godoc
// @Summary      Get field by id
// @Tags         fields
// @Security     BearerAuth
// @Produce      json
// @Param        fieldID  path      int  true  "Field ID"
// @Success      200      {object}  Field
// @Failure      404      {object}  api.ErrorResponse
// @Router       /fields/{fieldID} [get]
func (h *Handler) GetField(c *gin.Context) {
	fieldID, err := strconv.Atoi(c.Param("fieldID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid field ID"})
		return
	}

	f, err := h.svc.GetByID(c.Request.Context(), fieldID)
	if err != nil {
		api.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, f)
}

// UpdateField godoc
// @Summary      Update field
// @Tags         fields
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        fieldID  path      int                 true  "Field ID"
// @Param        request  body      UpdateFieldRequest  true  "Fields to update"
// @Success      200      {object}  Field
// @Failure      403      {object}  api.ErrorResponse
// @Failure      409      {object}  api.ErrorResponse
// @Router       /clubs/me/fields/{fieldID} [patch]
func (h *Handler) UpdateField(c *gin.Context) {
	clubID, exists := auth.GetSubjectID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Club not authenticated"})
		return
	}

	fieldID, err := strconv.Atoi(c.Param("fieldID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid field ID"})
		return
	}

	var req UpdateFieldRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	f, err := h.svc.Update(c.Request.Context(), clubID, fieldID, req)
	if err != nil {
		api.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, f)
}
