package main

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

// The "run" child rebuilds its config from scratch, so any flag overrides
// given to "start" or "restart" must be replayed on its command line.
func TestForwardedFlags(t *testing.T) {
	root := rootCmd()
	start, _, err := root.Find([]string{"start"})
	if err != nil {
		t.Fatalf("finding start command: %s", err)
	}
	if err := start.ParseFlags([]string{
		"--record", "home.example.com",
		"--interval", "30s",
		"--cache-file", "/tmp/ip.txt",
		"--verbose",
	}); err != nil {
		t.Fatalf("parsing flags: %s", err)
	}

	got := forwardedFlags(start)
	want := []string{
		"--record", "home.example.com",
		"--interval", "30s",
		"--cache-file", "/tmp/ip.txt",
		"--verbose",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("forwarded flags mismatch (-want +got):\n%s", diff)
	}
}

func TestForwardedFlagsEmptyByDefault(t *testing.T) {
	root := rootCmd()
	start, _, err := root.Find([]string{"start"})
	if err != nil {
		t.Fatalf("finding start command: %s", err)
	}
	if err := start.ParseFlags(nil); err != nil {
		t.Fatalf("parsing flags: %s", err)
	}

	if got := forwardedFlags(start); len(got) != 0 {
		t.Fatalf("expected no forwarded flags; got %v", got)
	}
}
