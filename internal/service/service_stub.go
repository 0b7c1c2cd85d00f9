//go:build !windows

// Package service provides a stub implementation for non-Windows platforms.
// On macOS and Linux the simulators run as foreground processes under the
// init system of choice; no service wrapper is needed.
package service

import (
	"context"

	"go.uber.org/zap"
)

// SimService is a pass-through wrapper for non-Windows platforms.
type SimService struct {
	name   string
	logger *zap.Logger
	runFn  func(ctx context.Context) error
}

// New creates a stub service wrapper.
func New(name string, logger *zap.Logger, runFn func(ctx context.Context) error) *SimService {
	return &SimService{
		name:   name,
		logger: logger,
		runFn:  runFn,
	}
}

// IsWindowsService always returns false on non-Windows platforms.
func IsWindowsService() bool {
	return false
}

// Run executes the run function directly.
func (s *SimService) Run() error {
	s.logger.Debug("Running without service manager", zap.String("service", s.name))
	return s.runFn(context.Background())
}
