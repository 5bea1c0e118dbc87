package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/wkchen/steelwatch/internal/config"
	"github.com/wkchen/steelwatch/internal/engine"
	"github.com/wkchen/steelwatch/internal/logger"
	"github.com/wkchen/steelwatch/internal/market"
	"github.com/wkchen/steelwatch/internal/models"
	"github.com/wkchen/steelwatch/internal/notify"
	"github.com/wkchen/steelwatch/internal/storage"
)

var (
	configPath = flag.String("config", "configs/config.yaml", "Path to configuration file")
	runOnce    = flag.Bool("once", false, "Run a single bulletin cycle and exit, ignoring the schedule")
	historyN   = flag.Int("history", 0, "Print the last N archived bulletins and exit")
)

func main() {
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	logger.Init(cfg.Logging.Level, cfg.Logging.Format)
	logger.Info("Configuration loaded from %s", *configPath)

	var store *storage.Storage
	if cfg.Storage.Enabled {
		store, err = storage.New(cfg.Storage.MaxRecords, cfg.Storage.DBPath)
		if err != nil {
			logger.Fatal("Failed to initialize storage: %v", err)
		}
		defer func() {
			if err := store.Close(); err != nil {
				logger.Error("Failed to close storage: %v", err)
			}
		}()
	}

	if *historyN > 0 {
		if store == nil {
			logger.Fatal("Cannot print history: storage is disabled")
		}
		printHistory(store, *historyN)
		return
	}

	commoditySrc, assetSrc, err := buildSources(cfg)
	if err != nil {
		logger.Fatal("Failed to build sources: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		logger.Info("Shutdown signal received, cleaning up...")
		cancel()
	}()

	runNow := make(chan struct{}, 1)
	trigger := func() {
		select {
		case runNow <- struct{}{}:
		default:
		}
	}

	sinks := buildSinks(ctx, cfg, trigger)

	if cfg.Schedule.Cron == "" || *runOnce {
		runCycle(ctx, cfg, commoditySrc, assetSrc, sinks, store)
		return
	}

	scheduler := cron.New()
	if _, err := scheduler.AddFunc(cfg.Schedule.Cron, trigger); err != nil {
		logger.Fatal("Invalid cron schedule %q: %v", cfg.Schedule.Cron, err)
	}
	scheduler.Start()
	defer scheduler.Stop()

	logger.Info("Bulletin service started (schedule: %q, basket: %d assets, price threshold: %.1f%%)",
		cfg.Schedule.Cron, len(cfg.Engine.Basket), cfg.Engine.PriceThreshold)

	for {
		select {
		case <-ctx.Done():
			logger.Info("Service stopped")
			return
		case <-runNow:
			runCycle(ctx, cfg, commoditySrc, assetSrc, sinks, store)
		}
	}
}

// buildSources wires the configured commodity fallback chain and the asset
// history source.
func buildSources(cfg *config.Config) (market.Source, *market.YahooSource, error) {
	opts := market.Options{
		PageURL:      cfg.Market.InsiderURL,
		YahooBaseURL: cfg.Market.YahooBaseURL,
		Ticker:       cfg.Market.CommodityTicker,
		Timeout:      cfg.Market.Timeout,
		MaxRetries:   cfg.Market.MaxRetries,
	}

	var sources []market.Source
	for _, variant := range cfg.Market.QuoteVariants {
		variantOpts := opts
		if variant == "moneydj" {
			variantOpts.PageURL = cfg.Market.MoneyDJURL
		}
		src, err := market.ForVariant(variant, variantOpts)
		if err != nil {
			return nil, nil, err
		}
		sources = append(sources, src)
	}

	assetSrc := market.NewYahooSource(cfg.Market.YahooBaseURL, cfg.Market.CommodityTicker,
		cfg.Market.Timeout, cfg.Market.MaxRetries)
	return market.NewChain(sources...), assetSrc, nil
}

func buildSinks(ctx context.Context, cfg *config.Config, onNow func()) []notify.Sink {
	var sinks []notify.Sink

	if cfg.Notify.Discord.Enabled {
		sinks = append(sinks, notify.NewDiscordSink(
			cfg.Notify.Discord.WebhookURL,
			cfg.Notify.Discord.Username,
			cfg.Notify.Timeout,
			cfg.Notify.MaxRetries,
			cfg.Notify.RetryDelayBase,
		))
		logger.Info("Discord sink initialized")
	}

	if cfg.Notify.Telegram.Enabled {
		tg, err := notify.NewTelegramSink(
			cfg.Notify.Telegram.BotToken,
			cfg.Notify.Telegram.ChatID,
			cfg.Notify.MaxRetries,
			cfg.Notify.RetryDelayBase,
		)
		if err != nil {
			logger.Fatal("Failed to initialize Telegram sink: %v", err)
		}
		tg.ListenForCommands(ctx, onNow)
		sinks = append(sinks, tg)
		logger.Info("Telegram sink initialized")
	}

	if len(sinks) == 0 {
		logger.Warn("No delivery sinks enabled; bulletins will only be logged")
	}
	return sinks
}

// runCycle executes one run-to-completion bulletin cycle: quote, trend,
// fusion, basket table, composition, delivery, archive. Every retrieval
// failure degrades its own section and nothing else.
func runCycle(
	ctx context.Context,
	cfg *config.Config,
	commoditySrc market.Source,
	assetSrc *market.YahooSource,
	sinks []notify.Sink,
	store *storage.Storage,
) {
	startTime := time.Now()
	logger.Info("Starting bulletin cycle")

	quote, err := commoditySrc.FetchQuote(ctx)
	if err != nil {
		logger.Warn("Primary quote unavailable: %v", err)
		quote = nil
	} else {
		logger.Info("Nickel quote: %.2f (%+.2f%%)", quote.Price, quote.PercentChange)
	}

	// A failed history fetch short-circuits classification entirely; the
	// classifier never sees a partial series.
	var trend *models.TrendResult
	series, err := assetSrc.FetchSeries(ctx, cfg.Market.CommodityTicker, cfg.Engine.TrendLookback)
	if err != nil {
		logger.Warn("Trend series unavailable: %v", err)
	} else {
		result := engine.Classify(series, cfg.Engine.ShortWindow, cfg.Engine.MediumWindow, cfg.Engine.LongWindow)
		trend = &result
		logger.Info("Trend classified as %s (%d observations)", result.Label, len(series))
	}

	composite := engine.Fuse(quote, trend, cfg.Engine.PriceThreshold)
	logger.Info("Composite signal: tier=%s price_bullish=%v trend_bullish=%v",
		composite.Tier, composite.PriceBullish, composite.TrendBullish)

	rows := engine.BuildRows(ctx, assetSrc, cfg.Engine.Basket, cfg.Engine.AssetLookback)
	tableText := engine.RenderTable(rows)

	sourceURL := cfg.Market.InsiderURL
	if quote != nil && quote.SourceURL != "" {
		sourceURL = quote.SourceURL
	}

	bulletin := engine.Compose(quote, trend, composite, tableText, engine.AnyUsable(rows), sourceURL)
	message := bulletin.Render()

	delivered := notify.DeliverAll(ctx, sinks, message)

	if store != nil {
		rec := models.BulletinRecord{
			RanAt:     startTime,
			Tier:      composite.Tier.String(),
			Delivered: delivered,
			Message:   message,
		}
		if quote != nil {
			rec.NickelPrice = quote.Price
			rec.NickelChangePct = quote.PercentChange
		}
		if trend != nil {
			rec.TrendLabel = trend.Label.String()
		} else {
			rec.TrendLabel = models.TrendInsufficientData.String()
		}
		if err := store.AddRecord(&rec); err != nil {
			logger.Warn("Failed to archive bulletin: %v", err)
		}
	}

	logger.Info("Bulletin cycle completed in %v", time.Since(startTime))
}

func printHistory(store *storage.Storage, n int) {
	records, err := store.RecentRecords(n)
	if err != nil {
		logger.Fatal("Failed to read bulletin history: %v", err)
	}
	for _, rec := range records {
		fmt.Printf("%s  tier=%-6s trend=%-17s price=%.2f change=%+.2f%% delivered=%v\n",
			rec.RanAt.Format("2006-01-02 15:04:05"), rec.Tier, rec.TrendLabel,
			rec.NickelPrice, rec.NickelChangePct, rec.Delivered)
	}
}
