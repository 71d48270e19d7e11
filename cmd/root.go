// Package cmd implements the command-line interface for newsdesk.
// It provides the root command and the pipeline subcommands.
package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	cmdcontent "github.com/jonesrussell/north-cloud/newsdesk/cmd/content"
	cmdcrawl "github.com/jonesrussell/north-cloud/newsdesk/cmd/crawl"
	cmdcurate "github.com/jonesrussell/north-cloud/newsdesk/cmd/curate"
	cmddedup "github.com/jonesrussell/north-cloud/newsdesk/cmd/dedup"
	cmddeliver "github.com/jonesrussell/north-cloud/newsdesk/cmd/deliver"
	cmdsources "github.com/jonesrussell/north-cloud/newsdesk/cmd/sources"
	"github.com/jonesrussell/north-cloud/newsdesk/internal/config"
)

var (
	// cfgFile holds the path to the configuration file.
	cfgFile string

	// Debug enables debug mode for all commands
	Debug bool

	// rootCmd represents the root command for the newsdesk CLI.
	rootCmd = &cobra.Command{
		Use:   "newsdesk",
		Short: "Crawl AI news sources and curate a weekly selection",
		Long: `newsdesk crawls a fixed table of AI news sources, suppresses articles
already delivered in recent newsletters, hands the rest to an external
selector and caches the bodies of the selected articles.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}
)

// Execute runs the root command
func Execute() error {
	// Load .env file early so environment variables are available
	_ = godotenv.Load()

	// Parse flags early to get debug flag before creating logger
	_ = rootCmd.ParseFlags(os.Args[1:])

	if err := initConfig(); err != nil {
		return fmt.Errorf("failed to initialize configuration: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return rootCmd.ExecuteContext(ctx)
}

func init() {
	rootCmd.PersistentFlags().StringVar(
		&cfgFile,
		"config",
		"",
		"config file (default is ./config.yml or ./configs/config.yml)",
	)
	rootCmd.PersistentFlags().BoolVar(&Debug, "debug", false, "enable debug mode")

	rootCmd.AddCommand(cmdcrawl.Command())
	rootCmd.AddCommand(cmdcurate.Command())
	rootCmd.AddCommand(cmdcontent.Command())
	rootCmd.AddCommand(cmddedup.Command())
	rootCmd.AddCommand(cmddeliver.Command())
	rootCmd.AddCommand(cmdsources.Command())
}

// initConfig reads in config file and ENV variables if set.
func initConfig() error {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")
		viper.AddConfigPath("./configs")
	}

	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	config.SetDefaults(viper.GetViper())

	// Config file is optional: defaults and environment are enough to run.
	if err := viper.ReadInConfig(); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: Config file not found: %v (using defaults and environment variables)\n", err)
	}

	if err := bindCommandLineFlags(); err != nil {
		return err
	}

	if err := bindAppEnvVars(); err != nil {
		return err
	}

	setupDevelopmentLogging()

	return nil
}

// bindCommandLineFlags binds command-line flags to Viper.
func bindCommandLineFlags() error {
	if err := viper.BindPFlag("app.debug", rootCmd.PersistentFlags().Lookup("debug")); err != nil {
		return fmt.Errorf("failed to bind debug flag: %w", err)
	}
	return nil
}

// bindAppEnvVars binds application, logger and credential environment variables to config keys.
func bindAppEnvVars() error {
	bindings := []struct {
		key string
		env string
	}{
		{"app.environment", "APP_ENV"},
		{"app.debug", "APP_DEBUG"},
		{"logger.level", "LOG_LEVEL"},
		{"logger.encoding", "LOG_FORMAT"},
		{"curation.api_key", "GEMINI_API_KEY"},
		{"metrics.textfile", "NEWSDESK_METRICS_TEXTFILE"},
	}

	for _, b := range bindings {
		if err := viper.BindEnv(b.key, b.env); err != nil {
			return fmt.Errorf("failed to bind %s: %w", b.env, err)
		}
	}
	return nil
}

// setupDevelopmentLogging configures development logging settings based on environment and debug flag.
func setupDevelopmentLogging() {
	debugFlag := Debug || viper.GetBool("app.debug")

	if debugFlag {
		viper.Set("logger.level", "debug")
	}

	if viper.GetString("app.environment") == "development" {
		viper.Set("logger.development", true)
		viper.Set("logger.encoding", "console")
	}

	Debug = debugFlag
}
