package api

import (
	"github.com/gin-gonic/gin"

	"github.com/cassiama/ProjectLISA/internal/catalog"
	"github.com/cassiama/ProjectLISA/internal/service"
)

func PostDevice(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := currentUser(c)

		var req service.DeviceRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			HandleError(c, app.Logger(), err, 400, "Invalid JSON")
			return
		}

		if err := service.ValidateDeviceRequest(&req); err != nil {
			HandleError(c, app.Logger(), err, 400, "Device validation failed")
			return
		}

		device, err := service.RegisterDevice(c.Request.Context(), app.Devices(), app.Generator(), user, &req)
		if err != nil {
			HandleServiceError(c, app.Logger(), err, "Failed to register device")
			return
		}

		HandleSuccess(c, app.Logger(), device, nil)
	}
}

func GetDevices(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := currentUser(c)

		devices, err := app.Devices().ListDevices(c.Request.Context(), user.ID)
		if err != nil {
			HandleServiceError(c, app.Logger(), err, "Failed to list devices")
			return
		}

		HandleSuccess(c, app.Logger(), devices, nil)
	}
}

func GetDevice(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := currentUser(c)

		device, err := app.Devices().GetDevice(c.Request.Context(), user.ID, c.Param("id"))
		if err != nil {
			HandleServiceError(c, app.Logger(), err, "Failed to fetch device")
			return
		}

		// The device view shows two random emissions facts alongside it.
		meta := map[string]any{"facts": catalog.RandomFacts(2)}
		HandleSuccess(c, app.Logger(), device, meta)
	}
}

func DeleteDevice(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := currentUser(c)

		if err := app.Devices().RemoveDevice(c.Request.Context(), user.ID, c.Param("id")); err != nil {
			HandleServiceError(c, app.Logger(), err, "Failed to remove device")
			return
		}

		HandleSuccess(c, app.Logger(), gin.H{"deleted": true}, nil)
	}
}

func PutDeviceGoals(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := currentUser(c)

		var req service.GoalEditRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			HandleError(c, app.Logger(), err, 400, "Invalid JSON")
			return
		}

		if err := service.ValidateGoalEditRequest(&req); err != nil {
			HandleError(c, app.Logger(), err, 400, "Goal validation failed")
			return
		}

		goals, err := service.ReplaceDeviceGoals(c.Request.Context(), app.Devices(), user.ID, c.Param("id"), req.Goals)
		if err != nil {
			HandleServiceError(c, app.Logger(), err, "Failed to update device goals")
			return
		}

		HandleSuccess(c, app.Logger(), goals, nil)
	}
}
