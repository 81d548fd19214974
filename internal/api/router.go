package api

import (
	"time"

	"github.com/SherClockHolmes/webpush-go"
	"github.com/gin-gonic/gin"
	"github.com/patrickmn/go-cache"
	"golang.org/x/time/rate"

	"doggo-watch-backend/internal/mw"
	"doggo-watch-backend/internal/store"
)

// NewRouter creates and configures a new Gin router.
func NewRouter(s store.Store, webpushOptions *webpush.Options, cacheTTL time.Duration, rateLimitPerSec float64) *gin.Engine {
	r := gin.Default()

	handler := NewHandler(s, webpushOptions)

	if rateLimitPerSec <= 0 {
		rateLimitPerSec = 10
	}
	rateLimiter := mw.RateLimiter(rate.Limit(rateLimitPerSec), 5)

	if cacheTTL <= 0 {
		cacheTTL = time.Minute
	}
	cacheStore := cache.New(cacheTTL, 2*cacheTTL)
	caching := mw.Cache(cacheStore, cacheTTL)

	api := r.Group("/api")
	api.Use(rateLimiter)
	{
		// GET /api/dogs — the current listing
		api.GET("/dogs", caching, handler.GetDogs)

		// GET /api/events — arrival/adoption history
		api.GET("/events", caching, handler.GetEvents)

		api.GET("/subscriptions", handler.GetSubscription)
		api.PUT("/subscriptions", handler.PutSubscription)
		api.DELETE("/subscriptions", handler.DeleteSubscription)
		api.GET("/vapid_public_key", handler.GetVAPIDPublicKey)
	}

	return r
}
