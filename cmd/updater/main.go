package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/golang/glog"
	"github.com/joho/godotenv"

	"github.com/atcwiz/xrp-dashboard/internal/adapter/coingecko"
	grpcadapter "github.com/atcwiz/xrp-dashboard/internal/adapter/grpc"
	"github.com/atcwiz/xrp-dashboard/internal/adapter/repository/jsonfile"
	redisrepo "github.com/atcwiz/xrp-dashboard/internal/adapter/repository/redis"
	"github.com/atcwiz/xrp-dashboard/internal/adapter/web"
	"github.com/atcwiz/xrp-dashboard/internal/config"
	"github.com/atcwiz/xrp-dashboard/internal/domain"
	"github.com/atcwiz/xrp-dashboard/internal/usecase/dashboard"
	"github.com/atcwiz/xrp-dashboard/internal/usecase/status"
	"github.com/atcwiz/xrp-dashboard/internal/usecase/updater"
)

var (
	continuous = flag.Bool("continuous", false, "keep updating every interval until interrupted")
	interval   = flag.Int("interval", 0, "minutes between updates in continuous mode (default UPDATE_INTERVAL_MINUTES or 15)")
	serve      = flag.Bool("serve", false, "serve the dashboard over HTTP and the updater health over gRPC (implies --continuous)")
	summary    = flag.Bool("summary", false, "print the scenario and trigger summary of the dashboard and exit")
	horizon    = flag.String("horizon", dashboard.DefaultHorizon, "price-target horizon used by --summary")
)

func usage() {
	out := flag.CommandLine.Output()
	fmt.Fprintln(out, "XRP Dashboard Updater")
	fmt.Fprintln(out, "\nUsage:")
	fmt.Fprintln(out, "  updater                          # Single update")
	fmt.Fprintln(out, "  updater --continuous [minutes]   # Continuous updates")
	fmt.Fprintln(out, "  updater --continuous --serve     # Continuous updates plus HTTP dashboard and gRPC health")
	fmt.Fprintln(out, "  updater --summary                # Show scenario and trigger summary")
	fmt.Fprintln(out, "  updater --help                   # Show this help")
	fmt.Fprintln(out, "\nFlags must come before the minutes value.")
	fmt.Fprintln(out, "\nFlags:")
	flag.PrintDefaults()
}

func main() {
	flag.Usage = usage
	_ = flag.Set("alsologtostderr", "true")
	flag.Parse()

	code := run()
	glog.Flush()
	os.Exit(code)
}

// run wires and runs the selected mode and returns the process exit code.
// Deferred cleanup completes before main exits.
func run() int {
	if err := godotenv.Load(); err != nil {
		glog.V(1).Info("No .env file found, relying on environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		glog.Errorf("Invalid configuration: %v", err)
		return 2
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// 1. Initialize Repositories
	dashboardRepo := jsonfile.NewDashboardRepository(cfg.DashboardPath, cfg.VsCurrency)
	dashboardService := dashboard.NewDashboardService(dashboardRepo)

	if *summary {
		return runSummary(ctx, dashboardService)
	}

	var cache domain.QuoteCache
	if cfg.CacheEnabled() {
		client, err := redisrepo.NewClient(ctx, redisrepo.Options{
			Host:     cfg.RedisHost,
			Port:     cfg.RedisPort,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		if err != nil {
			glog.Warningf("Redis connection failed: %v. Proceeding without quote cache.", err)
		} else {
			defer client.Close()
			cache = redisrepo.NewQuoteCache(client, cfg.CoinID, cfg.VsCurrency, cfg.QuoteCacheTTL)
			glog.Info("Quote cache initialized with Redis")
		}
	}

	// 2. Initialize Services
	fetcher := coingecko.NewClient(cfg.QuoteAPIURL, cfg.CoinID, cfg.VsCurrency, cfg.QuoteTimeout)
	tracker := status.NewTracker(status.DefaultHistoryLimit)
	updaterService := updater.NewUpdaterService(fetcher, dashboardRepo, cache, tracker)

	if !*continuous && !*serve {
		if flag.NArg() > 0 {
			glog.Errorf("Unexpected arguments %q: minutes are only accepted with --continuous", flag.Args())
			return 2
		}
		return runOnce(ctx, updaterService, cfg.DashboardPath)
	}

	every, err := resolveInterval(flag.Args(), *interval, cfg.UpdateInterval)
	if err != nil {
		glog.Errorf("Invalid interval: %v", err)
		return 2
	}

	// 3. Start servers
	if *serve {
		shutdown, err := startServers(cfg, web.NewHandler(dashboardService, dashboardRepo, tracker, cache, cfg.VsCurrency), tracker)
		if err != nil {
			glog.Errorf("Failed to start servers: %v", err)
			return 1
		}
		defer shutdown()
	}

	// 4. Update loop
	fmt.Println("Press Ctrl+C to stop")
	if err := updaterService.RunContinuous(ctx, every, 0); err != nil && !errors.Is(err, context.Canceled) {
		glog.Errorf("Update loop stopped: %v", err)
		return 1
	}
	glog.Info("Update loop stopped by user")
	return 0
}

func runOnce(ctx context.Context, svc *updater.UpdaterService, path string) int {
	printBanner(os.Stdout, time.Now())
	fmt.Println("Fetching live XRP data...")

	quote, err := svc.RunOnce(ctx)
	if err != nil {
		glog.Errorf("Update failed: %v", err)
		fmt.Fprintf(os.Stderr, "Update failed: %v\n", err)
		return 1
	}

	printQuote(os.Stdout, quote)
	fmt.Printf("\nDashboard updated successfully!\nFile: %s\n", path)
	return 0
}

func runSummary(ctx context.Context, svc *dashboard.DashboardService) int {
	result, err := svc.GetSummary(ctx, *horizon)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Summary failed: %v\n", err)
		return 1
	}
	printSummary(os.Stdout, result)
	return 0
}

// resolveInterval picks the loop interval: the positional minutes argument
// (updater --continuous 30) wins over --interval, which wins over the config.
// Flag parsing stops at the minutes value, so anything after it is rejected.
func resolveInterval(args []string, flagMinutes int, fallback time.Duration) (time.Duration, error) {
	if len(args) > 1 {
		return 0, fmt.Errorf("unexpected arguments after minutes %q: flags must come before the minutes value", args[1:])
	}
	if len(args) > 0 {
		minutes, err := strconv.Atoi(args[0])
		if err != nil {
			return 0, fmt.Errorf("minutes must be a whole number, got %q", args[0])
		}
		if minutes <= 0 {
			return 0, fmt.Errorf("minutes must be positive, got %d", minutes)
		}
		return time.Duration(minutes) * time.Minute, nil
	}
	if flagMinutes < 0 {
		return 0, fmt.Errorf("minutes must be positive, got %d", flagMinutes)
	}
	if flagMinutes > 0 {
		return time.Duration(flagMinutes) * time.Minute, nil
	}
	if fallback <= 0 {
		return updater.DefaultInterval, nil
	}
	return fallback, nil
}

// startServers starts the HTTP dashboard and the gRPC health server in the
// background and returns a function that stops both.
func startServers(cfg *config.Config, handler *web.Handler, tracker *status.Tracker) (func(), error) {
	grpcServer := grpcadapter.NewServer(tracker, cfg.APIToken)

	lis, err := net.Listen("tcp", cfg.GRPCAddr)
	if err != nil {
		return nil, fmt.Errorf("failed to listen on %s: %w", cfg.GRPCAddr, err)
	}

	go func() {
		glog.Infof("gRPC server listening on %s", cfg.GRPCAddr)
		if err := grpcServer.Serve(lis); err != nil {
			glog.Errorf("gRPC server stopped: %v", err)
		}
	}()

	httpServer := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           web.NewRouter(handler),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		glog.Infof("HTTP dashboard listening on %s", cfg.HTTPAddr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			glog.Errorf("HTTP server stopped: %v", err)
		}
	}()

	return func() {
		glog.Info("Shutting down servers...")
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(ctx); err != nil {
			glog.Warningf("HTTP shutdown: %v", err)
		}
		grpcServer.GracefulStop()
		glog.Info("Servers stopped")
	}, nil
}
