package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jessevdk/go-flags"

	"github.com/halcyonmkt/halcyon/broker"
	"github.com/halcyonmkt/halcyon/config"
	"github.com/halcyonmkt/halcyon/logging"
	"github.com/halcyonmkt/halcyon/markets"
	"github.com/halcyonmkt/halcyon/metrics"
	"github.com/halcyonmkt/halcyon/monitor/price"
	"github.com/halcyonmkt/halcyon/schedule"
	"github.com/halcyonmkt/halcyon/types"
	"github.com/halcyonmkt/halcyon/types/num"
)

type options struct {
	Config   string `short:"c" long:"config" description:"path to the TOML configuration file"`
	MarketID string `long:"market" default:"HAL-DEMO" description:"identifier of the demo market"`
}

func main() {
	if err := run(); err != nil {
		os.Exit(1)
	}
}

func run() error {
	var opts options
	if _, err := flags.Parse(&opts); err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg := config.NewDefaultConfig()
	log := logging.NewLoggerFromConfig(cfg.Logging)
	if opts.Config != "" {
		watcher, err := config.NewWatcher(ctx, log, opts.Config)
		if err != nil {
			log.Error("could not load configuration", logging.Error(err))
			return err
		}
		cfg = watcher.Get()
		log = logging.NewLoggerFromConfig(cfg.Logging)
	}
	defer log.AtExit()

	if cfg.MetricsAddr != "" {
		go func() {
			if err := metrics.Start(cfg.MetricsAddr); err != nil {
				log.Error("metrics endpoint failed", logging.Error(err))
			}
		}()
	}

	brk := broker.New(ctx, log, cfg.Broker)

	ref := num.DecimalFromInt64(100)
	guard, err := price.NewGuard(log, cfg.Monitor,
		types.NewPriceRange(ref, num.DecimalFromInt64(10)),
		types.NewPriceRange(ref, num.DecimalFromInt64(2)),
	)
	if err != nil {
		log.Error("could not build volatility guard", logging.Error(err))
		return err
	}

	market := markets.NewMarket(log, cfg.Markets, opts.MarketID, brk, guard, time.Now)
	market.SetValidators(
		markets.MinimumSizeValidator{MinimumSize: 1},
		markets.GoodTilDateValidator{MaxWindow: 90 * 24 * time.Hour},
		markets.OrderTypeValidator{Accepted: []types.OrderType{
			types.OrderTypeLimit, types.OrderTypeMarket, types.OrderTypeMidpoint,
		}},
	)

	calendar, err := demoCalendar(market.ID(), time.Now())
	if err != nil {
		log.Error("could not build trading calendar", logging.Error(err))
		return err
	}

	runner := schedule.NewRunner(log, cfg.Schedule, market, calendar, brk,
		schedule.WallClock{}, schedule.NewSerialExecutor())
	if err := runner.Start(); err != nil {
		log.Error("could not start trading schedule", logging.Error(err))
		return err
	}
	defer runner.Stop()

	log.Info("halcyon started", logging.String("market-id", market.ID()))

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	select {
	case s := <-sig:
		log.Info("shutting down", logging.String("signal", s.String()))
	case <-ctx.Done():
	}
	return nil
}

// demoCalendar declares a single session for today: an opening auction
// followed by continuous trading until the stop time.
func demoCalendar(marketID string, now time.Time) (*schedule.TradingCalendar, error) {
	calendar := schedule.NewTradingCalendar([]time.Time{now})

	auctionTriggers, err := schedule.NewAuctionScheduleBuilder(marketID + "-auction").
		WithRunType(types.RunTypeOpeningAuction).
		WithCallStart(now.Add(2 * time.Second)).
		WithMinimumCallDuration(30 * time.Second).
		WithMaxRandomExtension(15_000).
		WithOrderbookBalancing(true).
		Build()
	if err != nil {
		return nil, err
	}
	if err := calendar.AddSchedule(marketID+"-auction", auctionTriggers); err != nil {
		return nil, err
	}

	continuousTriggers, err := schedule.NewContinuousScheduleBuilder(marketID + "-continuous").
		WithStart(now.Add(2 * time.Minute)).
		WithStop(now.Add(8 * time.Hour)).
		Build()
	if err != nil {
		return nil, err
	}
	if err := calendar.AddSchedule(marketID+"-continuous", continuousTriggers); err != nil {
		return nil, err
	}
	return calendar, nil
}
