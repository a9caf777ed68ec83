package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	daprd "github.com/dapr/go-sdk/service/http"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	loglib "github.com/wdm0006/intakegate/pkg/log"
)

var serveCmd = &cobra.Command{
	Use:     "serve",
	Short:   "Serve processes every file announced on the Dapr input binding and on POST /v1/process",
	PreRunE: serveFlagBinding,
	RunE:    withSignalWatcher(serve),
	Example: `
	intakegate serve --destination-bucket curated
	intakegate serve --config intakegate.yaml --binding raw-uploads --port 3000
	CURATED_BUCKET=curated intakegate serve --rules rules.toml`,
}

func serve(ctx context.Context, cmd *cobra.Command, args []string) error {
	logger := newLogger()

	g, closeStore, err := newGate(logger, prometheus.DefaultRegisterer)
	if err != nil {
		return err
	}
	defer closeStore()

	addr := ":" + strconv.Itoa(viper.GetInt("serve.port"))
	mux := newRouter(g, logger, promhttp.Handler())
	s := daprd.NewServiceWithMux(addr, mux)
	binding := viper.GetString("trigger.binding")
	if err := s.AddBindingInvocationHandler(binding, bindingHandler(g, logger)); err != nil {
		return fmt.Errorf("registering binding %s: %w", binding, err)
	}

	errc := make(chan error, 1)
	go func() {
		errc <- s.Start()
	}()
	logger.Info("serving", loglib.Fields{"address": addr, "binding": binding})

	select {
	case <-ctx.Done():
		logger.Info("shutting down")
		return s.GracefulStop()
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

func serveFlagBinding(cmd *cobra.Command, args []string) error {
	if err := viper.BindPFlag("serve.port", cmd.Flags().Lookup("port")); err != nil {
		return err
	}
	return viper.BindPFlag("trigger.binding", cmd.Flags().Lookup("binding"))
}
