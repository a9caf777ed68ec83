package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var Version = "development"

func Prepare() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:          "intakegate",
		Short:        "Quality gate for newly uploaded car price files",
		SilenceUsage: true,
		Version:      Version,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := loadConfig(); err != nil {
				return fmt.Errorf("loading configuration: %w", err)
			}
			return nil
		},
	}

	initViper()

	// root cmd
	rootCmd.PersistentFlags().StringP("config", "c", "", ".env, .yaml or .toml config file to use with intakegate if any")
	rootCmd.PersistentFlags().String("log-level", "info", "log level for the application. One of trace, debug, info, warn, error, fatal, panic")
	rootCmd.PersistentFlags().String("rules", "", "YAML or TOML rules file. The built-in car price rules are used when empty")
	rootCmd.PersistentFlags().String("destination-bucket", "", "Bucket cleaned files are written to")

	// serve cmd
	serveCmd.Flags().Int("port", defaultPort, "Port the HTTP and Dapr binding endpoints listen on")
	serveCmd.Flags().String("binding", defaultBinding, "Name of the Dapr input binding delivering object notifications")

	// process cmd
	processCmd.Flags().String("bucket", "", "Bucket of the file to process")
	processCmd.Flags().String("key", "", "Key of the file to process")
	processCmd.Flags().String("event", "", "File holding an object notification to process, - for stdin")
	processCmd.Flags().Int("profile", 0, "Print a profile of the cleaned table to stderr, listing this many frequent values per string column")

	rootFlagBinding(rootCmd)

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(processCmd)
	rootCmd.AddCommand(rulesCmd)
	return rootCmd
}

// Execute executes the root command.
func Execute() error {
	return Prepare().Execute()
}

func rootFlagBinding(cmd *cobra.Command) {
	viper.BindPFlag("config", cmd.PersistentFlags().Lookup("config"))
	viper.BindPFlag("log-level", cmd.PersistentFlags().Lookup("log-level"))
	viper.BindPFlag("rules", cmd.PersistentFlags().Lookup("rules"))
	viper.BindPFlag("destination.bucket", cmd.PersistentFlags().Lookup("destination-bucket"))
}

func withSignalWatcher(fn func(ctx context.Context, cmd *cobra.Command, args []string) error) func(cmd *cobra.Command, args []string) error {
	return func(cmd *cobra.Command, args []string) error {
		ctx, cancel := signal.NotifyContext(context.Background(),
			syscall.SIGHUP,
			syscall.SIGINT,
			syscall.SIGTERM,
			syscall.SIGQUIT)
		defer cancel()
		return fn(ctx, cmd, args)
	}
}
