package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	goredis "github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/unkn0wn-root/varcache"
	"github.com/unkn0wn-root/varcache/codec"
	"github.com/unkn0wn-root/varcache/config"
	vzap "github.com/unkn0wn-root/varcache/log/zap"
	redisstore "github.com/unkn0wn-root/varcache/store/redis"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:], openRedis, os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// run executes one command and always closes the client it opened.
func run(ctx context.Context, args []string, open opener, out io.Writer) error {
	a := &app{}
	root := newRootCmd(a, open)
	root.SetArgs(args)
	root.SetOut(out)
	err := root.ExecuteContext(ctx)
	if cerr := a.close(ctx); err == nil {
		err = cerr
	}
	return err
}

// app is the per-invocation client and its logger.
type app struct {
	client varcache.Client
	log    *zap.Logger
}

func (a *app) close(ctx context.Context) error {
	if a.client == nil {
		return nil
	}
	defer func() { _ = a.log.Sync() }()
	return a.client.Close(ctx)
}

// opener builds the client for a loaded config; tests swap it.
type opener func(cfg config.Config, log *zap.Logger) (varcache.Client, error)

func openRedis(cfg config.Config, log *zap.Logger) (varcache.Client, error) {
	vc, err := codec.New(cfg.CodecOptions())
	if err != nil {
		return nil, err
	}
	st, err := redisstore.New(redisstore.Config{
		Client:      goredis.NewUniversalClient(cfg.RedisOptions()),
		CloseClient: true,
	})
	if err != nil {
		return nil, err
	}
	return varcache.New(varcache.Options{
		Store:          st,
		Codec:          vc,
		Logger:         vzap.ZapLogger{L: log},
		EvictBatchSize: cfg.Evict.BatchSize,
		ScanCount:      cfg.Evict.ScanCount,
	})
}

func newLogger(level string) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, err
	}
	zc := zap.NewProductionConfig()
	zc.Level = zap.NewAtomicLevelAt(lvl)
	zc.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	return zc.Build()
}

func newRootCmd(a *app, open opener) *cobra.Command {
	var (
		cfgPath string
		format  string
	)

	root := &cobra.Command{
		Use:           "varcache",
		Short:         "varcache - shape-preserving values on Redis",
		Long:          "Reads and writes scalars, arrays and matrices on a Redis-compatible store.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(*cobra.Command, []string) error {
			cfg, err := config.Load(cfgPath)
			if err != nil {
				return err
			}
			if format != "" {
				cfg.Codec.Format = format
				if err := cfg.Validate(); err != nil {
					return err
				}
			}
			log, err := newLogger(cfg.Log.Level)
			if err != nil {
				return err
			}
			c, err := open(cfg, log)
			if err != nil {
				return err
			}
			a.client, a.log = c, log
			return nil
		},
	}
	root.PersistentFlags().StringVar(&cfgPath, "config", os.Getenv("VARCACHE_CONFIG"), "YAML config file")
	root.PersistentFlags().StringVar(&format, "format", "", "document format for writes (json, msgpack, cbor, protobuf)")

	root.AddCommand(commands(a)...)
	return root
}
