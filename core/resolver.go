package core

import (
	"context"
	"fmt"
	"net"
)

// Resolver maps a host name or address literal to an IPv4 address.
type Resolver interface {
	Resolve(ctx context.Context, host string) (net.IP, error)
}

// SystemResolver resolves through the system resolver.
type SystemResolver struct {
	// Resolver is the underlying resolver, nil means net.DefaultResolver.
	Resolver *net.Resolver
}

// Resolve returns the first IPv4 address of host. Every failure wraps ErrResolution.
func (r *SystemResolver) Resolve(ctx context.Context, host string) (net.IP, error) {
	if ip := net.ParseIP(host); ip != nil {
		if !isIPv4(ip) {
			return nil, fmt.Errorf("%w: %s is not an IPv4 address", ErrResolution, host)
		}
		return ip.To4(), nil
	}

	resolver := r.Resolver
	if resolver == nil {
		resolver = net.DefaultResolver
	}

	ips, err := resolver.LookupIP(ctx, "ip4", host)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %s", ErrResolution, host, err.Error())
	}

	for _, ip := range ips {
		if isIPv4(ip) {
			return ip.To4(), nil
		}
	}

	return nil, fmt.Errorf("%w: %s has no IPv4 address", ErrResolution, host)
}
