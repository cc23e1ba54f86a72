package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/mmcdole/reel/internal/adapter"
	"github.com/mmcdole/reel/internal/adapter/source"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "Configure the movies backend",
	Long: `Prompt for the backend connection details, check that the movies table
can be reached, and save them to the config file.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := adapter.LoadConfig(configFile)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		return runSetupFlow(cmd.Context(), cfg)
	},
}

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Manage the local snapshot cache",
}

var cacheClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove all local snapshots",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := adapter.LoadConfig(configFile)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		if err := adapter.ClearCache(cfg.Cache.Dir); err != nil {
			return err
		}
		fmt.Printf("✓ Cleared %s\n", cfg.Cache.Dir)
		return nil
	},
}

func init() {
	cacheCmd.AddCommand(cacheClearCmd)
}

// runSetupFlow prompts for the backend settings and saves them
func runSetupFlow(ctx context.Context, cfg *adapter.Config) error {
	reader := bufio.NewReader(os.Stdin)

	fmt.Println()
	fmt.Println("Welcome to reel!")
	fmt.Println("━━━━━━━━━━━━━━━━")
	fmt.Println()

	driver, err := prompt(reader, "Backend (rest/postgres)", string(cfg.Backend.Driver))
	if err != nil {
		return err
	}

	switch adapter.Driver(driver) {
	case adapter.DriverPostgres:
		cfg.Backend.Driver = adapter.DriverPostgres
		dsn, err := promptSecret("Connection string (postgres://...): ")
		if err != nil {
			return err
		}
		if dsn == "" {
			return fmt.Errorf("connection string cannot be empty")
		}
		cfg.Backend.DSN = dsn

	case adapter.DriverREST:
		cfg.Backend.Driver = adapter.DriverREST
		url, err := prompt(reader, "Endpoint URL (e.g., https://xyz.supabase.co)", cfg.Backend.URL)
		if err != nil {
			return err
		}
		if url == "" {
			return fmt.Errorf("endpoint URL cannot be empty")
		}
		cfg.Backend.URL = strings.TrimRight(url, "/")

		key, err := promptSecret("Access key: ")
		if err != nil {
			return err
		}
		if key != "" {
			cfg.Backend.Key = key
		}
		if cfg.Backend.Key == "" {
			return fmt.Errorf("access key cannot be empty")
		}

	default:
		return fmt.Errorf("unknown backend driver: %s", driver)
	}

	cache, err := prompt(reader, "Keep a local snapshot for offline use? (y/n)", yesNo(cfg.Cache.Enabled))
	if err != nil {
		return err
	}
	cfg.Cache.Enabled = strings.HasPrefix(strings.ToLower(cache), "y")

	fmt.Println()
	fmt.Println("Checking connection...")
	if n, err := checkBackend(ctx, cfg); err != nil {
		fmt.Printf("✗ Could not reach the movies table: %v\n", err)
		fmt.Println("Saving anyway; reel will work offline until the backend is reachable.")
	} else {
		fmt.Printf("✓ Connected, %d movies in the table\n", n)
	}

	if err := adapter.SaveConfig(cfg); err != nil {
		return err
	}
	fmt.Println("✓ Configuration saved")
	return nil
}

// checkBackend counts the rows in the configured table
func checkBackend(ctx context.Context, cfg *adapter.Config) (int, error) {
	table, err := source.NewTable(&cfg.Backend, adapter.NullLogger())
	if err != nil {
		return 0, err
	}
	if c, ok := table.(interface{ Close() error }); ok {
		defer c.Close()
	}

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	return table.Count(ctx)
}

func prompt(reader *bufio.Reader, label, def string) (string, error) {
	if def != "" {
		fmt.Printf("%s [%s]: ", label, def)
	} else {
		fmt.Printf("%s: ", label)
	}
	input, err := reader.ReadString('\n')
	if err != nil {
		return "", fmt.Errorf("failed to read input: %w", err)
	}
	if input = strings.TrimSpace(input); input == "" {
		return def, nil
	}
	return input, nil
}

// promptSecret reads a value without echoing it
func promptSecret(label string) (string, error) {
	fmt.Print(label)
	b, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Println() // Add newline after hidden input
	if err != nil {
		return "", fmt.Errorf("failed to read input: %w", err)
	}
	return strings.TrimSpace(string(b)), nil
}

func yesNo(b bool) string {
	if b {
		return "y"
	}
	return "n"
}
