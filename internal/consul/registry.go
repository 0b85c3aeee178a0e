package consul

import (
	"fmt"

	consulapi "github.com/hashicorp/consul/api"
)

// ServiceName is the name the feed service registers under
const ServiceName = "feed-service"

// ServiceConfig contains configuration for service registration
type ServiceConfig struct {
	ID      string
	Name    string
	Address string
	Port    int
	Tags    []string
	Check   *HealthCheck
}

// HealthCheck defines health check configuration
type HealthCheck struct {
	HTTP     string
	Interval string
	Timeout  string
}

// Registrar registers and removes service instances
type Registrar interface {
	Register(cfg *ServiceConfig) error
	Deregister(serviceID string) error
}

// FeedService describes this process. The ID is derived from host so a
// restarted instance replaces its previous registration.
func FeedService(host string, port int) *ServiceConfig {
	return &ServiceConfig{
		ID:      fmt.Sprintf("%s-%s", ServiceName, host),
		Name:    ServiceName,
		Address: host,
		Port:    port,
		Tags:    []string{"feed", "posts", "api"},
		Check: &HealthCheck{
			HTTP:     fmt.Sprintf("http://%s:%d/health", host, port),
			Interval: "10s",
			Timeout:  "3s",
		},
	}
}

func toRegistration(cfg *ServiceConfig) *consulapi.AgentServiceRegistration {
	reg := &consulapi.AgentServiceRegistration{
		ID:      cfg.ID,
		Name:    cfg.Name,
		Address: cfg.Address,
		Port:    cfg.Port,
		Tags:    cfg.Tags,
	}
	if cfg.Check != nil {
		reg.Check = &consulapi.AgentServiceCheck{
			HTTP:     cfg.Check.HTTP,
			Interval: cfg.Check.Interval,
			Timeout:  cfg.Check.Timeout,
		}
	}
	return reg
}

// Register registers a service with the local Consul agent
func (c *Client) Register(cfg *ServiceConfig) error {
	if err := c.api.Agent().ServiceRegister(toRegistration(cfg)); err != nil {
		return fmt.Errorf("failed to register service: %w", err)
	}
	return nil
}

// Deregister removes a service from Consul
func (c *Client) Deregister(serviceID string) error {
	if err := c.api.Agent().ServiceDeregister(serviceID); err != nil {
		return fmt.Errorf("failed to deregister service: %w", err)
	}
	return nil
}
