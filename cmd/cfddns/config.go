package main

import (
	"bufio"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	ddns "github.com/AhmedDS10/CF-DNS"
	"github.com/joho/godotenv"
)

// Placeholder values from the sample configuration; treated the same as unset.
const (
	placeholderToken = "your_cloudflare_api_token_here"
	placeholderZone  = "your_zone_id_here"
)

type config struct {
	APIToken   string
	ZoneID     string
	RecordName string
	Interval   time.Duration
	Endpoints  []string

	CacheFile string
	PIDFile   string
	LogFile   string
	TokenFile string
	Verbose   bool
}

func defaultConfig() config {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	return config{
		Interval:  5 * time.Minute,
		Endpoints: ddns.DefaultEndpoints,
		CacheFile: ddns.DefaultCacheFile(),
		PIDFile:   filepath.Join(home, ".cloudflare_ddns.pid"),
		LogFile:   filepath.Join(home, ".cloudflare_ddns.log"),
		TokenFile: filepath.Join(home, ".cloudflare_ddns_token"),
	}
}

// loadConfig merges an optional .env file and the process environment over
// the defaults. Command flags are applied afterwards and take precedence.
func loadConfig() (config, error) {
	godotenv.Load()

	cfg := defaultConfig()
	cfg.APIToken = os.Getenv("CF_API_TOKEN")
	cfg.ZoneID = os.Getenv("CF_ZONE_ID")
	cfg.RecordName = os.Getenv("CF_RECORD_NAME")
	if v := os.Getenv("CHECK_INTERVAL"); v != "" {
		d, err := parseInterval(v)
		if err != nil {
			return cfg, fmt.Errorf("invalid CHECK_INTERVAL %q: %w", v, err)
		}
		cfg.Interval = d
	}
	if v := os.Getenv("IP_ECHO_ENDPOINTS"); v != "" {
		cfg.Endpoints = splitEndpoints(v)
	}
	return cfg, nil
}

// parseInterval accepts a bare number of seconds or a Go duration string.
func parseInterval(s string) (time.Duration, error) {
	if secs, err := strconv.Atoi(s); err == nil {
		if secs <= 0 {
			return 0, errors.New("interval must be positive")
		}
		return time.Duration(secs) * time.Second, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, err
	}
	if d <= 0 {
		return 0, errors.New("interval must be positive")
	}
	return d, nil
}

func splitEndpoints(s string) []string {
	var endpoints []string
	for _, e := range strings.Split(s, ",") {
		if e = strings.TrimSpace(e); e != "" {
			endpoints = append(endpoints, e)
		}
	}
	return endpoints
}

// resolveToken falls back to the token file written by "cfddns setup"
// when the environment does not supply a usable token.
func (cfg *config) resolveToken() error {
	if cfg.APIToken != "" && cfg.APIToken != placeholderToken {
		return nil
	}
	if _, err := os.Stat(cfg.TokenFile); err != nil {
		return nil
	}
	if err := verifyPermissions(cfg.TokenFile); err != nil {
		return err
	}
	key, err := readKey(cfg.TokenFile)
	if err != nil {
		return err
	}
	cfg.APIToken = key
	return nil
}

func (cfg *config) validate() error {
	if cfg.APIToken == "" || cfg.APIToken == placeholderToken {
		return errors.New("CF_API_TOKEN is not configured: set the environment variable or run \"cfddns setup\"")
	}
	if cfg.ZoneID == "" || cfg.ZoneID == placeholderZone {
		return errors.New("CF_ZONE_ID is not configured: find the Zone ID on your Cloudflare dashboard")
	}
	if cfg.RecordName == "" {
		return errors.New("CF_RECORD_NAME is not configured")
	}
	if !strings.Contains(cfg.RecordName, ".") {
		return errors.New("record name must have at least one dot")
	}
	if len(cfg.Endpoints) == 0 {
		return errors.New("at least one IP echo endpoint is required")
	}
	return nil
}

func readKey(path string) (key string, err error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("error reading key: %w", err)
	}
	defer f.Close()

	r := bufio.NewReader(f)
	keyb, _, err := r.ReadLine()
	if err != nil {
		return "", fmt.Errorf("error reading line: %w", err)
	}
	return string(keyb), nil
}

func verifyPermissions(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("error checking token file permissions: %w", err)
	}

	perms := info.Mode().Perm()
	// Error messages will state that we want 0600,
	// but we'll also accept 0400 which is even more restricted.
	// The file might be provided by some secrets managing software as readonly.
	if perms != 0600 && perms != 0400 {
		return fmt.Errorf("invalid permissions for \"%s\": expected file permissions \"-rw-------\"; found \"%s\"", path, fs.FileMode(perms))
	}

	return nil
}
