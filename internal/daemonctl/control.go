package daemonctl

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"playbridge/internal/hostclient"
)

// DaemonBinary is the executable name of the host daemon.
const DaemonBinary = "playbridged"

const pollInterval = 200 * time.Millisecond

// ErrDaemonNotRunning indicates the daemon API is unreachable.
var ErrDaemonNotRunning = errors.New("daemon not running")

type StartState string

const (
	StartStateStarted        StartState = "started"
	StartStateAlreadyRunning StartState = "already_running"
)

// StartResult captures daemon start orchestration state.
type StartResult struct {
	State StartState `json:"state"`
	PID   int        `json:"pid,omitempty"`
}

// StopResult captures daemon stop outcome.
type StopResult struct {
	PID        int  `json:"pid"`
	ForcedKill bool `json:"forcedKill"`
}

// ResolveExecutable finds the daemon binary next to the running executable,
// falling back to PATH.
func ResolveExecutable() (string, error) {
	if self, err := os.Executable(); err == nil {
		candidate := filepath.Join(filepath.Dir(self), DaemonBinary)
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return candidate, nil
		}
	}
	path, err := exec.LookPath(DaemonBinary)
	if err != nil {
		return "", fmt.Errorf("locate %s: %w", DaemonBinary, err)
	}
	return path, nil
}

// Launch starts a detached daemon process. configPath, when set, is passed
// through PLAYBRIDGE_CONFIG.
func Launch(executablePath, configPath string) error {
	if strings.TrimSpace(executablePath) == "" {
		return fmt.Errorf("resolve executable: executable path is empty")
	}
	proc := exec.Command(executablePath)
	proc.Env = os.Environ()
	if cfg := strings.TrimSpace(configPath); cfg != "" {
		proc.Env = append(proc.Env, "PLAYBRIDGE_CONFIG="+cfg)
	}
	proc.SysProcAttr = &syscall.SysProcAttr{Setsid: true}
	if err := proc.Start(); err != nil {
		return fmt.Errorf("launch daemon: %w", err)
	}
	return proc.Process.Release()
}

// WaitHealthy polls the daemon health endpoint until it answers or timeout
// elapses.
func WaitHealthy(ctx context.Context, client *hostclient.Client, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	var lastErr error
	for {
		_, err := client.Healthy(ctx)
		if err == nil {
			return nil
		}
		lastErr = err
		select {
		case <-ctx.Done():
			return fmt.Errorf("daemon failed to start: %w", lastErr)
		case <-time.After(pollInterval):
		}
	}
}

// EnsureStarted launches the daemon unless it already answers.
func EnsureStarted(ctx context.Context, client *hostclient.Client, executablePath, configPath string, waitTimeout time.Duration) (StartResult, error) {
	if status, err := client.Status(ctx); err == nil && status.Running {
		return StartResult{State: StartStateAlreadyRunning, PID: status.PID}, nil
	}
	if err := Launch(executablePath, configPath); err != nil {
		return StartResult{}, err
	}
	if err := WaitHealthy(ctx, client, waitTimeout); err != nil {
		return StartResult{}, err
	}
	result := StartResult{State: StartStateStarted}
	if status, err := client.Status(ctx); err == nil {
		result.PID = status.PID
	}
	return result, nil
}

// WaitForShutdown waits until the daemon stops answering.
func WaitForShutdown(ctx context.Context, client *hostclient.Client, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	for {
		if _, err := client.Healthy(ctx); err != nil {
			if ctx.Err() != nil {
				return fmt.Errorf("daemon did not stop: %w", ctx.Err())
			}
			return nil
		}
		select {
		case <-ctx.Done():
			return fmt.Errorf("daemon did not stop: %w", ctx.Err())
		case <-time.After(pollInterval):
		}
	}
}

// Stop sends SIGTERM to the daemon and SIGKILL if it is still answering
// after gracePeriod.
func Stop(ctx context.Context, client *hostclient.Client, gracePeriod time.Duration) (StopResult, error) {
	status, err := client.Status(ctx)
	if err != nil {
		return StopResult{}, ErrDaemonNotRunning
	}
	pid := status.PID
	if pid <= 0 {
		return StopResult{}, fmt.Errorf("daemon did not report a pid")
	}
	if pid == os.Getpid() {
		return StopResult{}, fmt.Errorf("refusing to signal current process (pid %d)", pid)
	}
	proc, err := os.FindProcess(pid)
	if err != nil {
		return StopResult{}, fmt.Errorf("locate daemon process %d: %w", pid, err)
	}
	if err := proc.Signal(syscall.SIGTERM); err != nil {
		return StopResult{}, fmt.Errorf("signal daemon process %d: %w", pid, err)
	}
	result := StopResult{PID: pid}
	if err := WaitForShutdown(ctx, client, gracePeriod); err == nil {
		return result, nil
	}
	if err := proc.Kill(); err != nil {
		return result, fmt.Errorf("kill daemon process %d: %w", pid, err)
	}
	result.ForcedKill = true
	return result, nil
}
