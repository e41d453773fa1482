package notifications

import (
	"github.com/MarqueeProject/marquee-core/pkg/api/models"
	"github.com/rs/zerolog/log"
)

// sendNotification delivers without blocking. When the channel is full
// the notification is dropped, so a stalled consumer can never freeze
// the render loop or an HTTP handler.
func sendNotification(ns chan<- models.Notification, method string, params any) {
	select {
	case ns <- models.Notification{Method: method, Params: params}:
	default:
		log.Warn().Str("method", method).Msg("notification channel full, dropping notification")
	}
}

func DisplayUpdated(ns chan<- models.Notification, text string) {
	sendNotification(ns, models.NotificationDisplayUpdated, models.DisplayUpdatedParams{Text: text})
}

func SettingsUpdated(ns chan<- models.Notification, payload models.SettingsUpdatedParams) {
	sendNotification(ns, models.NotificationSettingsUpdated, payload)
}

func ClockSynced(ns chan<- models.Notification, timeStr string) {
	sendNotification(ns, models.NotificationClockSynced, models.ClockSyncedParams{Time: timeStr})
}
