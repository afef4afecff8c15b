package api

import (
	"github.com/gin-gonic/gin"

	"github.com/cassiama/ProjectLISA/internal/service"
)

func PostUser(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req service.RegisterUserRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			HandleError(c, app.Logger(), err, 400, "Invalid JSON")
			return
		}

		if err := service.ValidateRegisterUserRequest(&req); err != nil {
			HandleError(c, app.Logger(), err, 400, "User validation failed")
			return
		}

		user, err := service.RegisterUser(c.Request.Context(), app.Users(), &req)
		if err != nil {
			HandleServiceError(c, app.Logger(), err, "Failed to register user")
			return
		}

		HandleSuccess(c, app.Logger(), user, nil)
	}
}

func GetMe(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := currentUser(c)

		// Re-read so the response reflects the latest ledger and devices,
		// not the snapshot cached by the auth middleware.
		fresh, err := app.Users().GetUser(c.Request.Context(), user.ID)
		if err != nil {
			HandleServiceError(c, app.Logger(), err, "Failed to fetch user")
			return
		}

		HandleSuccess(c, app.Logger(), fresh, nil)
	}
}
