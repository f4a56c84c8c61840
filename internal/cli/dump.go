package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/unkn0wn-root/silkcache"
	c "github.com/unkn0wn-root/silkcache/codec"
	"github.com/unkn0wn-root/silkcache/config"
	"github.com/unkn0wn-root/silkcache/internal/util"
	"github.com/unkn0wn-root/silkcache/internal/wire"
)

// decoder turns one record payload into a value encoding/json can print.
type decoder func([]byte) (any, error)

func decoderFor(codec string) (decoder, error) {
	switch codec {
	case config.CodecMsgpack:
		return func(b []byte) (any, error) {
			var v any
			err := msgpack.Unmarshal(b, &v)
			return v, err
		}, nil
	case config.CodecCBOR:
		dm, err := c.DecMode()
		if err != nil {
			return nil, err
		}
		return func(b []byte) (any, error) {
			var v any
			err := dm.Unmarshal(b, &v)
			return v, err
		}, nil
	case config.CodecJSON:
		return func(b []byte) (any, error) {
			var v any
			err := json.Unmarshal(b, &v)
			return v, err
		}, nil
	default:
		return nil, fmt.Errorf("unknown codec %q", codec)
	}
}

func NewDumpCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "dump <name>",
		Short: "Print every record of a cache as one JSON document per line",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := loadEnv(cmd)
			if err != nil {
				return err
			}
			defer e.Close(cmd.Context())

			decode, err := decoderFor(e.cfg.Codec)
			if err != nil {
				return err
			}
			key := util.FileName(args[0])
			raw, ok, err := e.stores.Provider.Get(cmd.Context(), key)
			if err != nil {
				return err
			}
			if !ok {
				e.log.Info("cache does not exist", silkcache.Fields{"cache": key})
				return nil
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			i := 0
			for payload, err := range wire.Records(raw) {
				if err != nil {
					return fmt.Errorf("record %d: %w", i, err)
				}
				v, err := decode(payload)
				if err != nil {
					return fmt.Errorf("record %d: decode %s: %w", i, e.cfg.Codec, err)
				}
				if err := enc.Encode(v); err != nil {
					return err
				}
				i++
			}
			e.log.Debug("dumped records", silkcache.Fields{"cache": key, "count": i})
			return nil
		},
	}
}
