package utils

import (
	"context"
	"fmt"
	"net"
	"net/url"
	"time"
)

var defaultPorts = map[string]string{
	"https": "443",
	"http":  "80",
	"redis": "6379",
}

// PingEndpoint opens and closes a TCP connection to the host of endpoint.
// It stops at timeout or when ctx is done, whichever comes first.
func PingEndpoint(ctx context.Context, endpoint string, timeout time.Duration) error {
	parsed, err := url.Parse(endpoint)
	if err != nil {
		return fmt.Errorf("invalid URL: %w", err)
	}
	host := parsed.Hostname()
	if host == "" {
		return fmt.Errorf("invalid URL %q: missing host", endpoint)
	}

	port := parsed.Port()
	if port == "" {
		if port = defaultPorts[parsed.Scheme]; port == "" {
			port = "80"
		}
	}
	address := net.JoinHostPort(host, port)

	dialer := net.Dialer{Timeout: timeout}
	conn, err := dialer.DialContext(ctx, "tcp", address)
	if err != nil {
		return fmt.Errorf("failed to connect to %s: %w", address, err)
	}
	return conn.Close()
}
