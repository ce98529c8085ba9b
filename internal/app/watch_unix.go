//go:build !windows

package app

import (
	"os"
	"syscall"
)

// shutdownSignals are the OS signals that trigger graceful shutdown.
var shutdownSignals = []os.Signal{syscall.SIGINT, syscall.SIGTERM}

// terminate asks the daemon to shut down gracefully.
func terminate(pid int) error {
	return syscall.Kill(pid, syscall.SIGTERM)
}

// processExists checks whether a process with the given PID is running.
func processExists(pid int) bool {
	// Signal 0 checks for existence without delivering anything.
	return syscall.Kill(pid, 0) == nil
}
