package utils

import (
	"context"
	"net"
	"net/http/httptest"
	"testing"
	"time"
)

func TestPingEndpoint(t *testing.T) {
	srv := httptest.NewServer(nil)
	defer srv.Close()

	if err := PingEndpoint(context.Background(), srv.URL+"/models/x", time.Second); err != nil {
		t.Errorf("Expected reachable endpoint, got %v", err)
	}
}

func TestPingEndpointUnreachable(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("Failed to listen: %v", err)
	}
	addr := ln.Addr().String()
	ln.Close()

	if err := PingEndpoint(context.Background(), "http://"+addr, time.Second); err == nil {
		t.Error("Expected an error for a closed port")
	}
}

func TestPingEndpointRejectsBadURL(t *testing.T) {
	for _, endpoint := range []string{"://nope", "not a url", ""} {
		if err := PingEndpoint(context.Background(), endpoint, time.Second); err == nil {
			t.Errorf("Expected an error for %q", endpoint)
		}
	}
}
