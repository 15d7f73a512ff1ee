package main

import (
	"fmt"
	"os"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/tagay1n/yadisk-client/internal/app"
	"github.com/tagay1n/yadisk-client/internal/config"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// newApp reads the config and creates an App. The caller must defer a.Close().
// operation identifies the CLI command being run (e.g. "Push", "Link").
func newApp(cmd *cobra.Command, operation string) (*app.App, error) {
	defaults, err := app.GetDefaults()
	if err != nil {
		return nil, fmt.Errorf("getting defaults: %w", err)
	}

	cfg, err := config.ReadFromFile(defaults["config_path"])
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	a, err := app.NewApp(cmd.Context(), cfg, operation)
	if err != nil {
		return nil, fmt.Errorf("initializing app: %w", err)
	}

	return a, nil
}

var rootCmd = &cobra.Command{
	Use:   "ydisk",
	Short: "Upload files to remote disk storage with change detection",
}

// config command
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration",
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		storeType, _ := cmd.Flags().GetString("store")

		defaults, err := app.GetDefaults()
		if err != nil {
			return fmt.Errorf("failed to get defaults: %w", err)
		}

		cfg := config.NewConfig(defaults["base_dir"])

		switch storeType {
		case "", "filesystem":
			// NewConfig defaults already point at a filesystem store.
		case "memory":
			cfg.Store = config.StoreConfig{Type: "memory"}
		case "s3":
			s3cfg, err := promptS3Config(cmd)
			if err != nil {
				return err
			}
			cfg.Store = *s3cfg
		default:
			return fmt.Errorf("unknown store type: %s", storeType)
		}

		if err := config.Init(defaults["config_path"], cfg); err != nil {
			return fmt.Errorf("failed to initialize config: %w", err)
		}

		fmt.Printf("Configuration initialized at %s\n", defaults["config_path"])
		fmt.Printf("Store:    %s\n", cfg.Store.Type)
		fmt.Printf("Base Dir: %s\n", defaults["base_dir"])
		return nil
	},
}

// promptS3Config collects S3 settings interactively. The secret key is
// read without echo and never written to the config file; the user is
// told to export it instead.
func promptS3Config(cmd *cobra.Command) (*config.StoreConfig, error) {
	cfg := &config.StoreConfig{Type: "s3"}

	prompts := []struct {
		label string
		dst   *string
	}{
		{"S3 bucket", &cfg.S3Bucket},
		{"S3 prefix (optional)", &cfg.S3Prefix},
		{"S3 region", &cfg.S3Region},
		{"S3 endpoint (blank for AWS)", &cfg.S3Endpoint},
		{"S3 access key", &cfg.S3AccessKey},
	}
	for _, p := range prompts {
		fmt.Printf("%s: ", p.label)
		if _, err := fmt.Fscanln(cmd.InOrStdin(), p.dst); err != nil && err.Error() != "unexpected newline" {
			return nil, fmt.Errorf("reading %s: %w", p.label, err)
		}
	}
	if cfg.S3Bucket == "" {
		return nil, fmt.Errorf("s3 store requires a bucket")
	}

	fmt.Print("S3 secret key (not stored): ")
	secret, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Println()
	if err != nil {
		return nil, fmt.Errorf("reading secret key: %w", err)
	}
	if len(secret) > 0 {
		fmt.Println("Export it before running commands:")
		fmt.Println("  export YDISK_S3_SECRET_KEY=<secret>")
	}

	return cfg, nil
}

var configListCmd = &cobra.Command{
	Use:   "list",
	Short: "View configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		defaults, err := app.GetDefaults()
		if err != nil {
			return fmt.Errorf("failed to get defaults: %w", err)
		}

		cfg, err := config.ReadFromFile(defaults["config_path"])
		if err != nil {
			return fmt.Errorf("failed to read config: %w", err)
		}

		fmt.Printf("Configuration from %s:\n\n", defaults["config_path"])
		fmt.Printf("Store:          %s\n", cfg.Store.Type)
		fmt.Printf("Journal:        %s\n", cfg.Journal.Type)
		fmt.Printf("Default Policy: %s\n", cfg.DefaultPolicy)
		fmt.Printf("Log Dir:        %s\n", cfg.LogDir)
		return nil
	},
}

// push command
var pushCmd = &cobra.Command{
	Use:   "push LOCAL_FILE REMOTE_DIR",
	Short: "Upload a file, replacing the remote copy per the conflict policy",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		policy, _ := cmd.Flags().GetString("policy")

		a, err := newApp(cmd, "Push")
		if err != nil {
			return err
		}
		defer a.Close()

		localFile, err := filepath.Abs(args[0])
		if err != nil {
			return fmt.Errorf("resolving path: %w", err)
		}

		result, err := a.Push(cmd.Context(), localFile, args[1], policy)
		if err != nil {
			return fmt.Errorf("push failed: %w", err)
		}

		action := "unchanged"
		if result.Uploaded() {
			action = "uploaded"
		}
		fmt.Printf("%s  %s  %s\n", action, result.RemotePath, result.MD5)
		return nil
	},
}

// link command
var linkCmd = &cobra.Command{
	Use:   "link REMOTE_PATH",
	Short: "Print a shareable download link for a remote path",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd, "Link")
		if err != nil {
			return err
		}
		defer a.Close()

		url, err := a.Link(cmd.Context(), args[0])
		if err != nil {
			return err
		}

		fmt.Println(url)
		return nil
	},
}

// history command
var historyCmd = &cobra.Command{
	Use:   "history REMOTE_PATH",
	Short: "View transfer history for a remote path",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")

		a, err := newApp(cmd, "History")
		if err != nil {
			return err
		}
		defer a.Close()

		records, err := a.History(cmd.Context(), args[0], limit)
		if err != nil {
			return err
		}

		if len(records) == 0 {
			fmt.Println("No transfers recorded.")
			return nil
		}

		for _, rec := range records {
			fmt.Printf("%s  %-8s  %-20s  %s\n",
				rec.CreatedAt.Format("2006-01-02 15:04:05"),
				rec.Action,
				rec.Policy,
				rec.MD5,
			)
		}
		return nil
	},
}

func init() {
	// config subcommands
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configListCmd)
	configInitCmd.Flags().String("store", "filesystem", "Store backend: memory, filesystem or s3")

	// root commands
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(pushCmd)
	pushCmd.Flags().StringP("policy", "p", "", "Conflict policy: replace-if-different, always-replace or skip")
	rootCmd.AddCommand(linkCmd)
	rootCmd.AddCommand(historyCmd)
	historyCmd.Flags().IntP("limit", "n", 50, "Maximum number of records to show")
}
