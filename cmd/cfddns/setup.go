package main

import (
	"context"
	"fmt"
	"os"
	"syscall"
	"time"

	"github.com/cloudflare/cloudflare-go"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

func setupCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "setup",
		Short: "Store a Cloudflare API token for later runs",
		Long: `Prompt for a Cloudflare API token, verify it against the API,
and write it to the token file with restricted permissions.

To get your API token:
 1. Go to https://dash.cloudflare.com/profile/api-tokens
 2. Create a token with 'Edit DNS' permissions`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			return runSetup(cfg)
		},
	}
}

func runSetup(cfg config) error {
	time.Sleep(200 * time.Millisecond) // dirty timer hack to try to get stderr and stdout output lines to display in order
	fmt.Printf("Enter Cloudflare API token: \n")
	bytekey, err := term.ReadPassword(int(syscall.Stdin))
	if err != nil {
		return fmt.Errorf("runSetup: error reading from stdin: %w", err)
	}
	key := string(bytekey)

	api, err := cloudflare.NewWithAPIToken(key)
	if err != nil {
		return fmt.Errorf("error creating api client: %w", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	result, err := api.VerifyAPIToken(ctx)
	if err != nil {
		return fmt.Errorf("unable to verify api token: %w", err)
	}
	if result.Status != "active" {
		return fmt.Errorf("expected api token status to be \"active\"; got \"%s\"", result.Status)
	}

	f, err := os.OpenFile(cfg.TokenFile, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0600)
	if err != nil {
		return fmt.Errorf("unable to create \"%s\": %w", cfg.TokenFile, err)
	}
	defer f.Close()
	fmt.Fprintln(f, key)
	fmt.Printf("Token verified and written to %s\n", cfg.TokenFile)
	return nil
}
