// Package cli implements the silkcache operator tool.
package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/unkn0wn-root/silkcache"
	"github.com/unkn0wn-root/silkcache/config"
)

func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:          "silkcache",
		Short:        "Inspect, dump and remove silkcache cache files",
		SilenceUsage: true,
	}
	cmd.PersistentFlags().String("config", "", "YAML config file (backend, dir, codec, log)")
	cmd.PersistentFlags().String("dir", "", "cache directory (default "+silkcache.DefaultDir()+")")
	cmd.PersistentFlags().String("codec", "", "item codec: msgpack/cbor/json")
	cmd.PersistentFlags().String("log-level", "", "log level: off/debug/info/warn/error")

	cmd.AddCommand(NewInspectCmd(), NewDumpCmd(), NewRmCmd())
	return cmd
}

// env is what every subcommand works against.
type env struct {
	cfg    *config.Config
	stores *config.Stores
	log    silkcache.Logger
}

func (e *env) Close(ctx context.Context) error { return e.stores.Close(ctx) }

// loadEnv resolves the config file (if any), applies flag overrides and opens
// the backend.
func loadEnv(cmd *cobra.Command) (*env, error) {
	var (
		cfg *config.Config
		err error
	)
	if path, _ := cmd.Flags().GetString("config"); path != "" {
		cfg, err = config.Load(path)
	} else {
		cfg, err = config.Parse(nil)
	}
	if err != nil {
		return nil, err
	}

	flags := cmd.Flags()
	if flags.Changed("dir") {
		cfg.Dir, _ = flags.GetString("dir")
	}
	if flags.Changed("codec") {
		cfg.Codec, _ = flags.GetString("codec")
	}
	if flags.Changed("log-level") {
		lvl, _ := flags.GetString("log-level")
		cfg.Log.Level = config.LogLevel(lvl)
	}
	cfg.Log.Output = cmd.ErrOrStderr()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	logger, err := cfg.Log.Logger()
	if err != nil {
		return nil, err
	}
	stores, err := cfg.Open(cmd.Context())
	if err != nil {
		return nil, err
	}
	logger.Debug("backend opened", silkcache.Fields{"backend": cfg.Backend.Type, "dir": cfg.Dir})
	return &env{cfg: cfg, stores: stores, log: logger}, nil
}
