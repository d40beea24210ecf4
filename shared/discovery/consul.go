// Package discovery resolves service addresses registered in Consul.
package discovery

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"net"
	"strconv"

	"github.com/hashicorp/consul/api"
)

var ErrNoHealthyInstance = errors.New("no healthy service instance")

// Resolver looks up healthy instances of a service in the Consul catalog.
type Resolver struct {
	health *api.Health
}

// NewResolver connects to the Consul agent at address ("host:port" or a URL).
func NewResolver(address string) (*Resolver, error) {
	cfg := api.DefaultConfig()
	if address != "" {
		cfg.Address = address
	}

	client, err := api.NewClient(cfg)
	if err != nil {
		return nil, fmt.Errorf("create consul client: %w", err)
	}

	return &Resolver{health: client.Health()}, nil
}

// ResolveHTTP returns "http://host:port" for one passing instance of service, picked at random.
func (r *Resolver) ResolveHTTP(ctx context.Context, service string) (string, error) {
	entries, _, err := r.health.Service(service, "", true, (&api.QueryOptions{}).WithContext(ctx))
	if err != nil {
		return "", fmt.Errorf("query consul for %s: %w", service, err)
	}

	if len(entries) == 0 {
		return "", fmt.Errorf("%w: %s", ErrNoHealthyInstance, service)
	}

	entry := entries[rand.IntN(len(entries))]

	host := entry.Service.Address
	if host == "" {
		host = entry.Node.Address
	}

	return "http://" + net.JoinHostPort(host, strconv.Itoa(entry.Service.Port)), nil
}
