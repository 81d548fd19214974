package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
)

// dogResponse is the flattened structure for a listed dog.
type dogResponse struct {
	Name        string    `json:"name"`
	Breed       string    `json:"breed"`
	Age         string    `json:"age"`
	Sex         string    `json:"sex"`
	ListedSince time.Time `json:"listedSince"`
	FirstSeenAt time.Time `json:"firstSeenAt"`
	LastSeenAt  time.Time `json:"lastSeenAt"`
}

// GetDogs handles the GET /api/dogs request: the current listing.
func (h *Handler) GetDogs(c *gin.Context) {
	listed, err := h.store.CurrentListing(c.Request.Context())
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve listing"})
		return
	}

	response := make([]dogResponse, 0, len(listed))
	for _, d := range listed {
		response = append(response, dogResponse{
			Name:        d.Name,
			Breed:       d.Breed,
			Age:         d.Age,
			Sex:         d.Sex,
			ListedSince: d.ListedSince,
			FirstSeenAt: d.FirstSeenAt,
			LastSeenAt:  d.LastSeenAt,
		})
	}
	c.JSON(http.StatusOK, response)
}

// GetEvents handles the GET /api/events request: arrival/adoption history.
// Optional query params: since (RFC3339) and limit.
func (h *Handler) GetEvents(c *gin.Context) {
	var since time.Time
	if sinceParam := c.Query("since"); sinceParam != "" {
		parsed, err := time.Parse(time.RFC3339, sinceParam)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid 'since' timestamp format. Use RFC3339."})
			return
		}
		since = parsed
	}

	limit := 100
	if limitParam := c.Query("limit"); limitParam != "" {
		parsed, err := strconv.Atoi(limitParam)
		if err != nil || parsed <= 0 {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid 'limit' value"})
			return
		}
		limit = parsed
	}

	events, err := h.store.RecentEvents(c.Request.Context(), since, limit)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve events"})
		return
	}

	type eventResponse struct {
		DogName     string    `json:"dogName"`
		Event       string    `json:"event"`
		ObservedAt  time.Time `json:"observedAt"`
		PeriodStart time.Time `json:"periodStart"`
		PeriodEnd   time.Time `json:"periodEnd"`
	}
	response := make([]eventResponse, 0, len(events))
	for _, e := range events {
		response = append(response, eventResponse{
			DogName:     e.DogName,
			Event:       e.Event,
			ObservedAt:  e.ObservedAt,
			PeriodStart: e.PeriodStart,
			PeriodEnd:   e.PeriodEnd,
		})
	}
	c.JSON(http.StatusOK, response)
}
