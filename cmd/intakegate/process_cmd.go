package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/wdm0006/intakegate/internal/json"
	"github.com/wdm0006/intakegate/pkg/gate"
	loglib "github.com/wdm0006/intakegate/pkg/log"
	"github.com/wdm0006/intakegate/pkg/store"
	"github.com/wdm0006/intakegate/pkg/trigger"
)

var processCmd = &cobra.Command{
	Use:   "process",
	Short: "Process runs a single file through the gate and prints the result payload",
	RunE:  withSignalWatcher(processFile),
	Example: `
	intakegate process --bucket raw --key uploads/cars.csv --destination-bucket curated
	intakegate process --event notification.json --profile 5
	cat notification.json | intakegate process --event -`,
}

func processFile(ctx context.Context, cmd *cobra.Command, args []string) error {
	logger := newLogger()
	loc, err := processLocation(cmd, logger)
	if err != nil {
		return err
	}

	var opts []gate.Option
	topK, _ := cmd.Flags().GetInt("profile")
	if topK > 0 {
		opts = append(opts, gate.WithProfile(topK))
	}

	g, closeStore, err := newGate(logger, nil, opts...)
	if err != nil {
		return err
	}
	defer closeStore()

	res := g.Process(ctx, loc)
	out, err := json.MarshalIndent(res.Payload(), "", "  ")
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(out))
	if res.Summary != nil && res.Summary.Profile != nil {
		fmt.Fprint(cmd.ErrOrStderr(), res.Summary.Profile.Text())
	}
	return res.Err()
}

// processLocation reads the file location from --event, or else from
// --bucket and --key.
func processLocation(cmd *cobra.Command, logger loglib.Logger) (store.Location, error) {
	eventFile, _ := cmd.Flags().GetString("event")
	if eventFile == "" {
		bucket, _ := cmd.Flags().GetString("bucket")
		key, _ := cmd.Flags().GetString("key")
		loc := store.Location{Bucket: bucket, Key: key}
		if err := loc.Validate(); err != nil {
			return loc, errors.New("either --event or both --bucket and --key are required")
		}
		return loc, nil
	}

	var (
		b   []byte
		err error
	)
	if eventFile == "-" {
		b, err = io.ReadAll(cmd.InOrStdin())
	} else {
		b, err = os.ReadFile(eventFile)
	}
	if err != nil {
		return store.Location{}, fmt.Errorf("reading event: %w", err)
	}
	ev, err := trigger.Parse(b)
	if err != nil {
		return store.Location{}, err
	}
	if ev.Records > 1 {
		logger.Warn(nil, "notification carries several records, only the first is processed", loglib.Fields{"records": ev.Records})
	}
	return ev.Location, nil
}
