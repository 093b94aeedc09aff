package main

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestPIDFileRoundtrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pid")
	if err := writePIDFile(path, 4242); err != nil {
		t.Fatalf("writePIDFile failed: %s", err)
	}
	pid, err := readPIDFile(path)
	if err != nil {
		t.Fatalf("readPIDFile failed: %s", err)
	}
	if pid != 4242 {
		t.Fatalf("pid = %d; want 4242", pid)
	}
}

func TestReadPIDFileGarbage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pid")
	if err := os.WriteFile(path, []byte("not a pid"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := readPIDFile(path); err == nil {
		t.Fatal("expected an error for a garbage PID file")
	}
}

func TestProcessAlive(t *testing.T) {
	if !processAlive(os.Getpid()) {
		t.Fatal("the test process should be alive")
	}
	// PIDs above the kernel's pid_max cannot exist.
	if processAlive(1 << 30) {
		t.Fatal("an impossible PID should not be alive")
	}
	if processAlive(0) || processAlive(-1) {
		t.Fatal("non-positive PIDs should never be alive")
	}
}

func TestStopDaemonNotRunning(t *testing.T) {
	cfg := defaultConfig()
	cfg.PIDFile = filepath.Join(t.TempDir(), "pid")

	err := stopDaemon(cfg, new(bytes.Buffer))
	if !errors.Is(err, errNotRunning) {
		t.Fatalf("expected errNotRunning; got %v", err)
	}
}

func TestStopDaemonStalePIDFile(t *testing.T) {
	cfg := defaultConfig()
	cfg.PIDFile = filepath.Join(t.TempDir(), "pid")
	if err := writePIDFile(cfg.PIDFile, 1<<30); err != nil {
		t.Fatal(err)
	}

	err := stopDaemon(cfg, new(bytes.Buffer))
	if !errors.Is(err, errNotRunning) {
		t.Fatalf("expected errNotRunning; got %v", err)
	}
	if _, err := os.Stat(cfg.PIDFile); !errors.Is(err, os.ErrNotExist) {
		t.Fatal("stale PID file should have been removed")
	}
}

func TestStatusDaemonRunning(t *testing.T) {
	cfg := defaultConfig()
	cfg.PIDFile = filepath.Join(t.TempDir(), "pid")
	cfg.CacheFile = filepath.Join(t.TempDir(), "ip.txt")
	cfg.RecordName = "home.example.com"
	if err := writePIDFile(cfg.PIDFile, os.Getpid()); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(cfg.CacheFile, []byte("203.0.113.5"), 0644); err != nil {
		t.Fatal(err)
	}

	var out bytes.Buffer
	if err := statusDaemon(cfg, &out); err != nil {
		t.Fatalf("statusDaemon failed: %s", err)
	}
	for _, want := range []string{"Service is running", "home.example.com", "203.0.113.5"} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("status output missing %q:\n%s", want, out.String())
		}
	}
}

func TestStatusDaemonUnconfiguredRecord(t *testing.T) {
	cfg := defaultConfig()
	cfg.PIDFile = filepath.Join(t.TempDir(), "pid")
	cfg.RecordName = ""
	if err := writePIDFile(cfg.PIDFile, os.Getpid()); err != nil {
		t.Fatal(err)
	}

	var out bytes.Buffer
	if err := statusDaemon(cfg, &out); err != nil {
		t.Fatalf("statusDaemon failed: %s", err)
	}
	if !strings.Contains(out.String(), "Monitoring: (not configured)") {
		t.Fatalf("status output should flag an unconfigured record:\n%s", out.String())
	}
}
