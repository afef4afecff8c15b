package api

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/cassiama/ProjectLISA/internal/auth"
	"github.com/cassiama/ProjectLISA/internal/config"
)

// NewRouter assembles the HTTP surface. Registration and metrics are public;
// everything else sits behind the bearer-token middleware.
func NewRouter(app App, provider auth.Provider, cfg *config.Config) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(RequestIDMiddleware())

	r.POST("/users", PostUser(app))
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	protected := r.Group("/", auth.AuthMiddleware(provider, cfg))
	{
		protected.GET("/users/me", GetMe(app))
		protected.POST("/devices", PostDevice(app))
		protected.GET("/devices", GetDevices(app))
		protected.GET("/devices/:id", GetDevice(app))
		protected.DELETE("/devices/:id", DeleteDevice(app))
		protected.PUT("/devices/:id/goals", PutDeviceGoals(app))
		protected.POST("/reconcile", PostReconcile(app))
		protected.GET("/points", GetPoints(app))
		protected.POST("/points/redeem", PostRedeem(app))
		protected.GET("/leaderboard", GetLeaderboard(app))
		protected.GET("/goals", GetGoalCatalog(app))
		protected.GET("/tips", GetTips(app))
		protected.GET("/facts", GetFacts(app))
	}

	return r
}
