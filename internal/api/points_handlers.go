package api

import (
	"github.com/gin-gonic/gin"

	"github.com/cassiama/ProjectLISA/internal/service"
)

type ReconcileRequest struct {
	DeviceIDs []string `json:"device_ids"`
}

type RedeemRequest struct {
	Points int `json:"points"`
}

// PostReconcile runs the session-boundary reconciliation pass. Device IDs are
// passed explicitly; an empty list means every device the user owns.
func PostReconcile(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := currentUser(c)

		var req ReconcileRequest
		if c.Request.ContentLength > 0 {
			if err := c.ShouldBindJSON(&req); err != nil {
				HandleError(c, app.Logger(), err, 400, "Invalid JSON")
				return
			}
		}

		deviceIDs := req.DeviceIDs
		if len(deviceIDs) == 0 {
			devices, err := app.Devices().ListDevices(c.Request.Context(), user.ID)
			if err != nil {
				HandleServiceError(c, app.Logger(), err, "Failed to list devices for reconciliation")
				return
			}
			for _, d := range devices {
				deviceIDs = append(deviceIDs, d.ID)
			}
		}

		summary := app.Reconciler().ReconcileUser(c.Request.Context(), user.ID, deviceIDs)
		HandleSuccess(c, app.Logger(), summary, nil)
	}
}

func GetPoints(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := currentUser(c)

		fresh, err := app.Users().GetUser(c.Request.Context(), user.ID)
		if err != nil {
			HandleServiceError(c, app.Logger(), err, "Failed to fetch user")
			return
		}

		HandleSuccess(c, app.Logger(), gin.H{"total_points": fresh.TotalPoints}, nil)
	}
}

func PostRedeem(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := currentUser(c)

		var req RedeemRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			HandleError(c, app.Logger(), err, 400, "Invalid JSON")
			return
		}
		if req.Points <= 0 {
			HandleError(c, app.Logger(), errFieldRequired("points"), 400, "Redemption validation failed")
			return
		}

		if err := service.RedeemPoints(c.Request.Context(), app.Users(), user.ID, req.Points); err != nil {
			HandleServiceError(c, app.Logger(), err, "Failed to redeem points")
			return
		}

		HandleSuccess(c, app.Logger(), gin.H{"redeemed": req.Points}, nil)
	}
}
