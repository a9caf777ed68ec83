package main

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"unicode/utf8"

	dapr "github.com/dapr/go-sdk/client"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/viper"

	"github.com/wdm0006/intakegate/internal/log/zerolog"
	"github.com/wdm0006/intakegate/pkg/gate"
	"github.com/wdm0006/intakegate/pkg/io/csvio"
	loglib "github.com/wdm0006/intakegate/pkg/log"
	"github.com/wdm0006/intakegate/pkg/rules"
	"github.com/wdm0006/intakegate/pkg/store"
	"github.com/wdm0006/intakegate/pkg/store/daprstore"
	"github.com/wdm0006/intakegate/pkg/store/filestore"
)

const (
	envPrefix      = "INTAKEGATE"
	defaultPort    = 8080
	defaultBinding = "incoming"

	storeDapr = "dapr"
	storeFile = "file"
)

var errUnsupportedStore = errors.New("unsupported store kind")

func initViper() {
	viper.SetEnvPrefix(envPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	viper.AutomaticEnv()
	// CURATED_BUCKET is the name deployments used before the prefix existed.
	viper.BindEnv("destination.bucket", envPrefix+"_DESTINATION_BUCKET", "CURATED_BUCKET")

	viper.SetDefault("log-level", "info")
	viper.SetDefault("store.kind", storeDapr)
	viper.SetDefault("serve.port", defaultPort)
	viper.SetDefault("trigger.binding", defaultBinding)
	viper.SetDefault("csv.delimiter", ",")
}

func loadConfig() error {
	file := viper.GetString("config")
	if file == "" {
		return nil
	}
	viper.SetConfigFile(file)
	viper.SetConfigType(strings.TrimPrefix(filepath.Ext(file), "."))
	if err := viper.ReadInConfig(); err != nil {
		return fmt.Errorf("reading config: %w", err)
	}
	return nil
}

func newLogger() loglib.Logger {
	logger := zerolog.NewLogger(&zerolog.Config{
		LogLevel: viper.GetString("log-level"),
		JSON:     viper.GetBool("log.json"),
	})
	zerolog.SetGlobalLogger(logger)
	return zerolog.NewStdLogger(logger)
}

func destinationBucket() (string, error) {
	b := strings.TrimSpace(viper.GetString("destination.bucket"))
	if b == "" {
		return "", fmt.Errorf("destination bucket not configured: set --destination-bucket, %s_DESTINATION_BUCKET or CURATED_BUCKET", envPrefix)
	}
	return b, nil
}

// csvOptions maps csv.delimiter to reader options. "auto" sniffs the
// delimiter from the first line.
func csvOptions() (csvio.ReaderOptions, error) {
	opt := csvio.ReaderOptions{HasHeader: true}
	switch d := viper.GetString("csv.delimiter"); d {
	case "auto":
	case "", ",":
		opt.Delimiter = ','
	case `\t`, "tab":
		opt.Delimiter = '\t'
	default:
		r, size := utf8.DecodeRuneInString(d)
		if size != len(d) || r == '"' || r == '\n' || r == '\r' || r == utf8.RuneError {
			return opt, fmt.Errorf("invalid csv delimiter %q", d)
		}
		opt.Delimiter = r
	}
	return opt, nil
}

// newStore builds the configured object store. The returned close function
// releases any connection it holds.
func newStore() (store.Store, func(), error) {
	switch kind := viper.GetString("store.kind"); kind {
	case storeDapr:
		client, err := dapr.NewClient()
		if err != nil {
			return nil, nil, fmt.Errorf("connecting to dapr sidecar: %w", err)
		}
		s := daprstore.New(client, daprstore.WithBindings(viper.GetStringMapString("store.bindings")))
		return s, client.Close, nil
	case storeFile:
		s, err := filestore.New(viper.GetString("store.root"))
		if err != nil {
			return nil, nil, err
		}
		return s, func() {}, nil
	default:
		return nil, nil, fmt.Errorf("%w: %q", errUnsupportedStore, kind)
	}
}

// newGate wires the gate from configuration. Metrics are registered on reg
// when it is not nil.
func newGate(logger loglib.Logger, reg prometheus.Registerer, opts ...gate.Option) (*gate.Gate, func(), error) {
	r, err := rules.Load(viper.GetString("rules"))
	if err != nil {
		return nil, nil, err
	}
	dest, err := destinationBucket()
	if err != nil {
		return nil, nil, err
	}
	opt, err := csvOptions()
	if err != nil {
		return nil, nil, err
	}
	s, closeStore, err := newStore()
	if err != nil {
		return nil, nil, err
	}
	opts = append([]gate.Option{
		gate.WithLogger(logger),
		gate.WithMetrics(gate.NewMetrics(reg)),
		gate.WithCSVOptions(opt),
	}, opts...)
	g, err := gate.New(r, s, s, dest, opts...)
	if err != nil {
		closeStore()
		return nil, nil, err
	}
	return g, closeStore, nil
}
