package webhook

import (
	"fmt"

	"github.com/mattjoyce/usergate/internal/config"
)

// FromGlobalConfig converts config.WebhookConfig to webhook.Config,
// parsing the max body size.
func FromGlobalConfig(wc *config.WebhookConfig) (Config, error) {
	if wc == nil {
		return Config{}, fmt.Errorf("webhook config is nil")
	}

	maxBodySize, err := config.ParseMaxBodySize(wc.MaxBodySize)
	if err != nil {
		return Config{}, fmt.Errorf("invalid max_body_size %q: %w", wc.MaxBodySize, err)
	}
	if maxBodySize == 0 {
		maxBodySize = DefaultMaxBodySize
	}

	return Config{
		Listen:      wc.Listen,
		Path:        wc.Path,
		Secret:      wc.Secret,
		MaxBodySize: maxBodySize,
	}, nil
}
