package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strconv"
	"strings"
	"syscall"
)

var errNotRunning = errors.New("service is not running")

// startDaemon re-executes this binary as a detached "run" process and
// records its PID. A live PID file refuses the start; a stale one is removed.
// runArgs are appended to the child's command line so flag overrides
// survive the re-exec.
func startDaemon(cfg config, runArgs []string, out io.Writer) error {
	if pid, err := readPIDFile(cfg.PIDFile); err == nil {
		if processAlive(pid) {
			return fmt.Errorf("service is already running (PID %d); to stop it, run: cfddns stop", pid)
		}
		os.Remove(cfg.PIDFile)
	}

	exe, err := os.Executable()
	if err != nil {
		return fmt.Errorf("error locating executable: %w", err)
	}

	logf, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("error opening log file %q: %w", cfg.LogFile, err)
	}
	defer logf.Close()

	daemon := exec.Command(exe, append([]string{"run"}, runArgs...)...)
	daemon.Stdout = logf
	daemon.Stderr = logf
	daemon.SysProcAttr = &syscall.SysProcAttr{Setsid: true}
	if err := daemon.Start(); err != nil {
		return fmt.Errorf("error starting daemon: %w", err)
	}
	pid := daemon.Process.Pid
	if err := writePIDFile(cfg.PIDFile, pid); err != nil {
		daemon.Process.Kill()
		return err
	}
	daemon.Process.Release()

	fmt.Fprintf(out, "Service started (PID %d)\n", pid)
	fmt.Fprintf(out, "Log file: %s\n", cfg.LogFile)
	fmt.Fprintf(out, "To stop: cfddns stop\n")
	fmt.Fprintf(out, "To check status: cfddns status\n")
	return nil
}

func stopDaemon(cfg config, out io.Writer) error {
	pid, err := readPIDFile(cfg.PIDFile)
	if err != nil {
		return errNotRunning
	}
	if !processAlive(pid) {
		os.Remove(cfg.PIDFile)
		return fmt.Errorf("%w (stale PID file removed)", errNotRunning)
	}

	proc, err := os.FindProcess(pid)
	if err != nil {
		return fmt.Errorf("error finding process %d: %w", pid, err)
	}
	if err := proc.Signal(syscall.SIGTERM); err != nil {
		return fmt.Errorf("error stopping process %d: %w", pid, err)
	}
	os.Remove(cfg.PIDFile)
	fmt.Fprintf(out, "Service stopped (PID %d)\n", pid)
	return nil
}

func statusDaemon(cfg config, out io.Writer) error {
	pid, err := readPIDFile(cfg.PIDFile)
	if err != nil {
		return errNotRunning
	}
	if !processAlive(pid) {
		os.Remove(cfg.PIDFile)
		return fmt.Errorf("%w (stale PID file removed)", errNotRunning)
	}

	record := cfg.RecordName
	if record == "" {
		record = "(not configured)"
	}
	fmt.Fprintf(out, "Service is running (PID %d)\n", pid)
	fmt.Fprintf(out, "Monitoring: %s\n", record)
	fmt.Fprintf(out, "Check interval: %s\n", cfg.Interval)
	fmt.Fprintf(out, "Log file: %s\n", cfg.LogFile)
	if b, err := os.ReadFile(cfg.CacheFile); err == nil {
		fmt.Fprintf(out, "Last known IP: %s\n", strings.TrimSpace(string(b)))
	}
	return nil
}

func writePIDFile(path string, pid int) error {
	if err := os.WriteFile(path, []byte(strconv.Itoa(pid)+"\n"), 0644); err != nil {
		return fmt.Errorf("error writing PID file %q: %w", path, err)
	}
	return nil
}

func readPIDFile(path string) (int, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return 0, err
	}
	pid, err := strconv.Atoi(strings.TrimSpace(string(b)))
	if err != nil {
		return 0, fmt.Errorf("error parsing PID file %q: %w", path, err)
	}
	return pid, nil
}

// processAlive reports whether a process with the given PID exists.
// Signal 0 performs the existence check without delivering anything.
func processAlive(pid int) bool {
	if pid <= 0 {
		return false
	}
	proc, err := os.FindProcess(pid)
	if err != nil {
		return false
	}
	return proc.Signal(syscall.Signal(0)) == nil
}
