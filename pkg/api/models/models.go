package models

const (
	NotificationDisplayUpdated  = "display.updated"
	NotificationSettingsUpdated = "settings.updated"
	NotificationClockSynced     = "clock.synced"
)

// Notification is a state change event fanned out to the websocket
// event stream and any configured publishers.
type Notification struct {
	Params any
	Method string
}

// EventObject is the wire format for notifications sent to websocket
// clients and published over MQTT.
type EventObject struct {
	Params any    `json:"params,omitempty"`
	Method string `json:"method"`
}

type DisplayUpdatedParams struct {
	Text string `json:"text"`
}

type SettingsUpdatedParams struct {
	TimeZoneSpec     string `json:"timeZoneSpec"`
	TemperatureUnit  string `json:"temperatureUnit"`
	ScrollIntervalMS int    `json:"scrollIntervalMs"`
}

type ClockSyncedParams struct {
	Time string `json:"time"`
}

// DisplayRequest is the POST /display body. Text is a pointer so a
// missing field can be told apart from an empty string.
type DisplayRequest struct {
	Text *string `json:"text" validate:"required,max=40"`
}

// DisplayResponse is the GET / body.
type DisplayResponse struct {
	Display string `json:"display"`
}

// StatusResponse is the GET /api/v0/status body.
type StatusResponse struct {
	Version          string `json:"version"`
	DeviceName       string `json:"deviceName"`
	IP               string `json:"ip"`
	Display          string `json:"display"`
	TimeZoneSpec     string `json:"timeZoneSpec"`
	TemperatureUnit  string `json:"temperatureUnit"`
	Time             string `json:"time"`
	ScrollIntervalMS int    `json:"scrollIntervalMs"`
	ClockSynced      bool   `json:"clockSynced"`
}
