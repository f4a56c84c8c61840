package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/unkn0wn-root/silkcache/internal/util"
	"github.com/unkn0wn-root/silkcache/internal/wire"
	pr "github.com/unkn0wn-root/silkcache/provider"
)

type report struct {
	Key      string
	Location string
	Exists   bool
	Size     int
	Records  int
	Payload  int
	Err      error
}

func inspect(raw []byte) (records, payload int, err error) {
	for p, err := range wire.Records(raw) {
		if err != nil {
			return records, payload, err
		}
		records++
		payload += len(p)
	}
	return records, payload, nil
}

func NewInspectCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "inspect <name>",
		Short: "Show where a cache lives, its size and record integrity",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := loadEnv(cmd)
			if err != nil {
				return err
			}
			defer e.Close(cmd.Context())

			key := util.FileName(args[0])
			r := report{Key: key, Location: pr.Locate(e.stores.Provider, key)}
			raw, ok, err := e.stores.Provider.Get(cmd.Context(), key)
			if err != nil {
				return fmt.Errorf("read %s: %w", r.Location, err)
			}
			if ok {
				r.Exists, r.Size = true, len(raw)
				r.Records, r.Payload, r.Err = inspect(raw)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "cache:     %s\n", r.Key)
			fmt.Fprintf(out, "location:  %s\n", r.Location)
			if !r.Exists {
				fmt.Fprintln(out, "exists:    no")
				return nil
			}
			fmt.Fprintln(out, "exists:    yes")
			fmt.Fprintf(out, "size:      %d bytes\n", r.Size)
			fmt.Fprintf(out, "records:   %d\n", r.Records)
			fmt.Fprintf(out, "payload:   %d bytes\n", r.Payload)
			if r.Err != nil {
				fmt.Fprintf(out, "integrity: CORRUPT after record %d (%v)\n", r.Records, r.Err)
				return fmt.Errorf("%s is corrupt: %w", key, r.Err)
			}
			fmt.Fprintln(out, "integrity: ok")
			return nil
		},
	}
}
