package gateway

import (
	"testing"
	"time"

	"github.com/luckyonesl/frigate-mqtt-pricure-viewer/pkg/snapshot"
)

func TestCreateHTTPServerDefaults(t *testing.T) {
	server := createHTTPServer("0.0.0.0:8080", nil, ServerTLSConfig{})

	// Verify timeouts are set correctly
	if server.ReadTimeout != 30*time.Second {
		t.Errorf("Expected ReadTimeout 30s, got %v", server.ReadTimeout)
	}
	if server.WriteTimeout != 30*time.Second {
		t.Errorf("Expected WriteTimeout 30s, got %v", server.WriteTimeout)
	}
	if server.ReadHeaderTimeout != 10*time.Second {
		t.Errorf("Expected ReadHeaderTimeout 10s, got %v", server.ReadHeaderTimeout)
	}
	if server.IdleTimeout != 120*time.Second {
		t.Errorf("Expected IdleTimeout 120s, got %v", server.IdleTimeout)
	}
	if server.MaxHeaderBytes != 1<<20 {
		t.Errorf("Expected MaxHeaderBytes 1MB, got %v", server.MaxHeaderBytes)
	}
	if server.Addr != "0.0.0.0:8080" {
		t.Errorf("Expected Addr 0.0.0.0:8080, got %v", server.Addr)
	}
}

func TestCreateHTTPServerWithTLS(t *testing.T) {
	tlsConfig := ServerTLSConfig{
		Enabled:  true,
		CertFile: "/path/to/cert.pem",
		KeyFile:  "/path/to/key.pem",
	}
	server := createHTTPServer("0.0.0.0:443", nil, tlsConfig)

	// Server should have TLS config enabled
	if server.TLSConfig == nil {
		t.Error("Expected TLSConfig to be set when TLS is enabled")
	}
	if server.Addr != "0.0.0.0:443" {
		t.Errorf("Expected Addr 0.0.0.0:443, got %v", server.Addr)
	}
}

func TestCreateHTTPServerWithoutTLS(t *testing.T) {
	tlsConfig := ServerTLSConfig{
		Enabled: false,
	}
	server := createHTTPServer("0.0.0.0:8080", nil, tlsConfig)

	// Server should not have TLS config
	if server.TLSConfig != nil {
		t.Error("Expected TLSConfig to be nil when TLS is disabled")
	}
}

func TestServerTLSConfigValidation(t *testing.T) {
	tests := []struct {
		name        string
		config      ServerTLSConfig
		expectError bool
	}{
		{
			name:        "disabled TLS is always valid",
			config:      ServerTLSConfig{Enabled: false},
			expectError: false,
		},
		{
			name:        "enabled TLS without cert is invalid",
			config:      ServerTLSConfig{Enabled: true, KeyFile: "/path/to/key.pem"},
			expectError: true,
		},
		{
			name:        "enabled TLS without key is invalid",
			config:      ServerTLSConfig{Enabled: true, CertFile: "/path/to/cert.pem"},
			expectError: true,
		},
		{
			name:        "enabled TLS with both files is valid",
			config:      ServerTLSConfig{Enabled: true, CertFile: "/path/to/cert.pem", KeyFile: "/path/to/key.pem"},
			expectError: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if tt.expectError && err == nil {
				t.Error("Expected error but got nil")
			}
			if !tt.expectError && err != nil {
				t.Errorf("Expected no error but got: %v", err)
			}
		})
	}
}

func TestNewServerRejectsInvalidTLS(t *testing.T) {
	opts := Opts{
		Host: "0.0.0.0",
		Port: 8443,
		TLS:  ServerTLSConfig{Enabled: true},
	}

	if _, err := NewServer(opts, snapshot.NewStore(), nil); err == nil {
		t.Error("Expected an error for TLS without cert and key files")
	}
}
