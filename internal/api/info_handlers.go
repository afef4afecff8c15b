package api

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/cassiama/ProjectLISA/internal/catalog"
)

func GetGoalCatalog(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		HandleSuccess(c, app.Logger(), catalog.All(), nil)
	}
}

func GetLeaderboard(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		limit := 10
		if v := c.Query("limit"); v != "" {
			if n, err := strconv.Atoi(v); err == nil && n > 0 {
				limit = n
			}
		}

		users, err := app.Users().TopUsers(c.Request.Context(), limit)
		if err != nil {
			HandleServiceError(c, app.Logger(), err, "Failed to fetch leaderboard")
			return
		}

		type entry struct {
			Rank        int    `json:"rank"`
			FirstName   string `json:"first_name"`
			LastName    string `json:"last_name"`
			TotalPoints int    `json:"total_points"`
		}
		entries := make([]entry, 0, len(users))
		for i, u := range users {
			entries = append(entries, entry{Rank: i + 1, FirstName: u.FirstName, LastName: u.LastName, TotalPoints: u.TotalPoints})
		}

		HandleSuccess(c, app.Logger(), entries, nil)
	}
}

func GetTips(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		HandleSuccess(c, app.Logger(), nil, map[string]any{"tips": catalog.RandomTips(3)})
	}
}

func GetFacts(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		HandleSuccess(c, app.Logger(), nil, map[string]any{"facts": catalog.RandomFacts(2)})
	}
}
