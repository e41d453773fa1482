package helpers

import (
	"context"

	"github.com/MarqueeProject/marquee-core/pkg/api/client"
	"github.com/MarqueeProject/marquee-core/pkg/config"
	"github.com/rs/zerolog/log"
)

// IsServiceRunning reports whether a service instance is already
// answering on the configured API port.
func IsServiceRunning(cfg *config.Instance) bool {
	_, err := client.Status(context.Background(), cfg)
	if err != nil {
		log.Debug().Err(err).Msg("error checking if service running")
		return false
	}
	return true
}
