package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"hati/internal/config"
	"hati/internal/feed"
	"hati/internal/market"
	"hati/internal/net"
)

func main() {
	configPath := flag.String("config", os.Getenv("HATI_CONFIG"), "path to yaml config")
	flag.Parse()

	// Local env files are optional.
	_ = godotenv.Load()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal().Err(err).Msg("unable to load config")
	}
	log.Logger = config.NewLogger(cfg)

	ctx, stop := signal.NotifyContext(
		context.Background(),
		syscall.SIGTERM,
		syscall.SIGINT,
	)
	defer stop()

	mkt, err := market.New(cfg.Feed.Symbols, cfg.Book.PriceDecimals, cfg.Book.QuantityDecimals)
	if err != nil {
		log.Fatal().Err(err).Msg("unable to build market")
	}

	// Setup the depth feed and the query server. The feed is the sole
	// writer; the server only reads.
	client := feed.New(cfg.Feed.URL, cfg.Feed.Symbols, mkt)
	srv := net.New(cfg.Server.Address, cfg.Server.Port, mkt)

	go func() {
		if err := client.Run(ctx); err != nil {
			log.Error().Err(err).Msg("feed stopped")
		}
	}()
	go srv.Run(ctx)

	// Block on running the server.
	<-ctx.Done()
}
