package event

import (
	"net/http"
	"strconv"
	"time"

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

func organizerFromRole(role string) OrganizerType {
	if role == auth.RoleClub {
		return OrganizerClub
	}
	return OrganizerUser
}

// CreateEvent godoc
// @Summary      Create an event
// @Tags         events
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        request  body      CreateEventRequest  true  "Event data"
// @Success      201      {object}  Event
// @Failure      400      {object}  gin.H
// @Router       /events [post]
func (h *Handler) CreateEvent(c *gin.Context) {
	ownerID, exists := auth.GetSubjectID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return
	}
	role, _ := auth.GetRole(c)

	var req CreateEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	e, err := h.svc.Create(c.Request.Context(), organizerFromRole(role), ownerID, req)
	if err != nil {
		api.RespondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, e)
}

// GetEvent godoc
// @Summary      Get event with resolved owner
// @Tags         events
// @Security     BearerAuth
// @Produce      json
// @Param        eventID  path      int  true  "Event ID"
// @Success      200      {object}  Detail
// @Failure      404      {object}  api.ErrorResponse
// @Router       /events/{eventID} [get]
func (h *Handler) GetEvent(c *gin.Context) {
	eventID, err := strconv.Atoi(c.Param("eventID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid event ID"})
		return
	}

	detail, err := h.svc.GetDetail(c.Request.Context(), eventID)
	if err != nil {
		api.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, detail)
}

// SearchEvents godoc
// @Summary      Search events
// @Tags         events
// @Security     BearerAuth
// @Produce      json
// @Param        sport_id        query     int     false  "Sport filter"
// @Param        location        query     string  false  "Location filter"
// @Param        organizer_type  query     string  false  "USER or CLUB"
// @Param        from            query     string  false  "RFC3339 lower bound on schedule"
// @Param        to              query     string  false  "RFC3339 upper bound on schedule"
// @Success      200             {array}   Event
// @Router       /events [get]
func (h *Handler) SearchEvents(c *gin.Context) {
	var f Filters

	if raw := c.Query("sport_id"); raw != "" {
		sportID, err := strconv.Atoi(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid sport_id"})
			return
		}
		f.SportID = &sportID
	}
	if raw := c.Query("location"); raw != "" {
		f.Location = &raw
	}
	if raw := c.Query("organizer_type"); raw != "" {
		ot := OrganizerType(raw)
		if ot != OrganizerUser && ot != OrganizerClub {
			c.JSON(http.StatusBadRequest, gin.H{"error": "organizer_type must be USER or CLUB"})
			return
		}
		f.OrganizerType = &ot
	}
	if raw := c.Query("from"); raw != "" {
		from, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid from timestamp"})
			return
		}
		f.From = &from
	}
	if raw := c.Query("to"); raw != "" {
		to, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid to timestamp"})
			return
		}
		f.To = &to
	}

	events, err := h.svc.Search(c.Request.Context(), f)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to search events"})
		return
	}

	c.JSON(http.StatusOK, events)
}
