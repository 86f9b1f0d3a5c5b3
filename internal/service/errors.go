package service

import "errors"

var (
	// ErrSimulationRunning is returned when a lifecycle simulation is
	// already active for the ride.
	ErrSimulationRunning = errors.New("simulation already running for ride")

	// ErrSimulationStopped is returned when the simulator has been shut down.
	ErrSimulationStopped = errors.New("simulator stopped")
)
