// Package grpc exposes the standard gRPC health service, reporting whether the
// ledger connection is up.
package grpc

import (
	"errors"
	"fmt"
	"net"
	"time"
)

const defaultMsgSize = 4 << 20

// ServerConfig configures the health server.
type ServerConfig struct {
	Address string

	// PollInterval is how often ledger connectivity is sampled.
	PollInterval time.Duration

	MaxRecvMsgSize int
	MaxSendMsgSize int
}

func DefaultServerConfig() *ServerConfig {
	return &ServerConfig{
		Address:        "127.0.0.1:50051",
		PollInterval:   2 * time.Second,
		MaxRecvMsgSize: defaultMsgSize,
		MaxSendMsgSize: defaultMsgSize,
	}
}

// Validate requires a host:port address with both parts set.
func (c *ServerConfig) Validate() error {
	if c.Address == "" {
		return errors.New("grpc: address is empty")
	}
	host, port, err := net.SplitHostPort(c.Address)
	if err != nil {
		return fmt.Errorf("grpc: address %q: %w", c.Address, err)
	}
	if host == "" || port == "" {
		return fmt.Errorf("grpc: address %q needs both host and port", c.Address)
	}
	if c.PollInterval <= 0 {
		return errors.New("grpc: poll interval must be positive")
	}
	if c.MaxRecvMsgSize <= 0 || c.MaxSendMsgSize <= 0 {
		return errors.New("grpc: message size limits must be positive")
	}
	return nil
}
