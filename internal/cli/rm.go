package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/unkn0wn-root/silkcache"
	"github.com/unkn0wn-root/silkcache/internal/util"
	pr "github.com/unkn0wn-root/silkcache/provider"
)

func NewRmCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rm <name>...",
		Short: "Delete cache files",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := loadEnv(cmd)
			if err != nil {
				return err
			}
			defer e.Close(cmd.Context())

			ctx := cmd.Context()
			for _, name := range args {
				key := util.FileName(name)
				if err := e.stores.Provider.Del(ctx, key); err != nil {
					return fmt.Errorf("remove %s: %w", key, err)
				}
				// managers elsewhere holding this cache now report Stale
				if e.stores.GenStore != nil {
					if _, err := e.stores.GenStore.Bump(ctx, pr.Locate(e.stores.Provider, key)); err != nil {
						e.log.Warn("gen bump error", silkcache.Fields{"cache": key, "err": err})
					}
				}
				e.log.Info("cache removed", silkcache.Fields{"cache": key})
				fmt.Fprintf(cmd.OutOrStdout(), "removed %s\n", key)
			}
			return nil
		},
	}
}
