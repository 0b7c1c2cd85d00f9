//go:build windows

// Package service provides Windows Service integration for the simulators.
// When started by the SCM the binary enters the service control loop;
// when started from a terminal it runs in the foreground.
package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sys/windows/svc"
)

// stopGrace is how long Stop waits for the run function to drain.
const stopGrace = 10 * time.Second

// SimService implements svc.Handler around a blocking run function.
type SimService struct {
	name   string
	logger *zap.Logger
	runFn  func(ctx context.Context) error
}

// New creates a service wrapper registered under name. runFn is called with
// a context that is cancelled when the SCM asks the service to stop.
func New(name string, logger *zap.Logger, runFn func(ctx context.Context) error) *SimService {
	return &SimService{
		name:   name,
		logger: logger,
		runFn:  runFn,
	}
}

// IsWindowsService checks if the process is running as a Windows service.
func IsWindowsService() bool {
	isService, err := svc.IsWindowsService()
	if err != nil {
		return false
	}
	return isService
}

// Run starts the Windows service control loop.
func (s *SimService) Run() error {
	return svc.Run(s.name, s)
}

// Execute implements svc.Handler. It reports Running once the run function
// has been started and waits for it to return after Stop or Shutdown.
func (s *SimService) Execute(args []string, r <-chan svc.ChangeRequest, changes chan<- svc.Status) (ssec bool, errno uint32) {
	changes <- svc.Status{State: svc.StartPending}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan error, 1)
	go func() { done <- s.runFn(ctx) }()

	changes <- svc.Status{
		State:   svc.Running,
		Accepts: svc.AcceptStop | svc.AcceptShutdown,
	}
	s.logger.Info("Windows service started", zap.String("service", s.name))

	for {
		select {
		case err := <-done:
			if err != nil {
				s.logger.Error("Service run failed", zap.Error(err))
				return false, 1
			}
			return false, 0
		case c := <-r:
			switch c.Cmd {
			case svc.Interrogate:
				changes <- c.CurrentStatus
			case svc.Stop, svc.Shutdown:
				s.logger.Info("Windows service stopping")
				changes <- svc.Status{State: svc.StopPending}
				cancel()
				select {
				case <-done:
				case <-time.After(stopGrace):
					s.logger.Warn("Service did not stop in time")
				}
				return false, 0
			default:
				s.logger.Warn("Unexpected service control request",
					zap.Uint32("cmd", uint32(c.Cmd)))
			}
		}
	}
}

// Install provides instructions for installing the service.
func Install(name, exePath string) error {
	return fmt.Errorf("use 'sc create %s binPath= \"%s\"' to install", name, exePath)
}
