package internal

import "time"

type User struct {
	ID          string    `json:"id"`
	Token       string    `json:"token"`
	FirstName   string    `json:"first_name"`
	LastName    string    `json:"last_name"`
	Email       string    `json:"email"`
	Age         int       `json:"age"`
	Occupation  string    `json:"occupation"`
	Geography   string    `json:"geography"`
	DeviceCount int       `json:"device_count"`
	OS          string    `json:"os"`
	PhoneSystem string    `json:"phone_system"`
	TotalPoints int       `json:"total_points"`
	Devices     []Device  `json:"devices"`
	CreatedAt   time.Time `json:"created_at"`
}

type Device struct {
	ID           string    `json:"id"`
	Owner        string    `json:"owner"`
	SerialNumber string    `json:"serial_number"`
	Name         string    `json:"name"`
	Goals        []Goal    `json:"goals"`
	PreviousLog  UsageLog  `json:"previous_log"`
	CurrentLog   UsageLog  `json:"current_log"`
	CreatedAt    time.Time `json:"created_at"`
}

// Goal is a sustainability target attached to a device. PointCap is resolved
// from the catalog at registration time; AccruedPoints stays within
// [0, PointCap].
type Goal struct {
	Description   string `json:"description"`
	PointCap      int    `json:"point_cap"`
	AccruedPoints int    `json:"accrued_points"`
}

type ChargeCycle struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// UsageLog is one telemetry snapshot for a device. Exactly two live per
// device: the previous and the current log, bounding one reconciliation
// interval. The baseline log is all-zero with Baseline set.
type UsageLog struct {
	Baseline               bool        `json:"baseline"`
	BatteryLevel           int         `json:"battery_level"`
	ScreenTimeMinutes      int         `json:"screen_time_minutes"`
	NormalModeMinutes      int         `json:"normal_mode_minutes"`
	PerformanceModeMinutes int         `json:"performance_mode_minutes"`
	EnergySaverModeMinutes int         `json:"energy_saver_mode_minutes"`
	AppsDownloaded         int         `json:"apps_downloaded"`
	StreamingMinutes       int         `json:"streaming_minutes"`
	IdleMinutes            int         `json:"idle_minutes"`
	ChargeCycle            ChargeCycle `json:"charge_cycle"`
	ChargingTimeMinutes    int         `json:"charging_time_minutes"`
	DeletedItems           int         `json:"deleted_items"`
	AverageBrightness      int         `json:"average_brightness"`
}
