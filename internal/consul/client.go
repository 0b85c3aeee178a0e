// Package consul registers the feed service with HashiCorp Consul so other
// services and the health checker can find it.
package consul

import (
	"fmt"

	consulapi "github.com/hashicorp/consul/api"

	"moments/internal/config"
)

// Client wraps the Consul API client
type Client struct {
	api *consulapi.Client
}

// NewClient creates a Consul client for cfg.Addr, authenticating with cfg.Token when set
func NewClient(cfg config.ConsulConfig) (*Client, error) {
	apiCfg := consulapi.DefaultConfig()
	apiCfg.Address = cfg.Addr
	if cfg.Token != "" {
		apiCfg.Token = cfg.Token
	}

	client, err := consulapi.NewClient(apiCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create consul client: %w", err)
	}

	return &Client{api: client}, nil
}
