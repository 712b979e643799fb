package config

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds application level configuration loaded from environment and flags.
type Config struct {
	RunAddress      string
	DatabaseURI     string
	RatesURL        string
	StripeAPIURL    string
	StripeSecretKey string
	CRMAddress      string
	NotifyAddress   string

	NotifyTemplateID   string
	CheckoutSuccessURL string
	CheckoutCancelURL  string
	ProductName        string

	ProductionLockWindow time.Duration
	ContactPollInterval  time.Duration
	ContactPollAttempts  int
	NotifySweepInterval  time.Duration
	NotifyBatchSize      int
	WorkerPoolSize       int
	ShutdownTimeout      time.Duration
}

const (
	defaultRunAddress           = ":8080"
	defaultRatesURL             = "https://open.er-api.com/v6/latest/GBP"
	defaultStripeAPIURL         = "https://api.stripe.com"
	defaultNotifyTemplateID     = "UiHkvUw"
	defaultCheckoutSuccessURL   = "https://paperontime.online/payment-success"
	defaultCheckoutCancelURL    = "https://paperontime.online/order"
	defaultProductName          = "Custom Drafting Service"
	defaultProductionLockWindow = 3 * time.Hour
	defaultContactPollInterval  = 200 * time.Millisecond
	defaultContactPollAttempts  = 5
	defaultNotifySweepInterval  = time.Minute
	defaultNotifyBatchSize      = 32
	defaultWorkerPoolSize       = 4
	defaultShutdownTimeout      = 10 * time.Second
)

// Load parses configuration from flags and environment variables.
func Load() (*Config, error) {
	return load(os.Args[1:], os.LookupEnv)
}

type envLookup func(string) (string, bool)

func load(args []string, lookup envLookup) (*Config, error) {
	cfg := &Config{
		RunAddress:           getString(lookup, "RUN_ADDRESS", defaultRunAddress),
		DatabaseURI:          getString(lookup, "DATABASE_URI", ""),
		RatesURL:             getString(lookup, "RATES_URL", defaultRatesURL),
		StripeAPIURL:         getString(lookup, "STRIPE_API_URL", defaultStripeAPIURL),
		StripeSecretKey:      getString(lookup, "STRIPE_SECRET_KEY", ""),
		CRMAddress:           getString(lookup, "CRM_ADDRESS", ""),
		NotifyAddress:        getString(lookup, "NOTIFY_ADDRESS", ""),
		NotifyTemplateID:     getString(lookup, "NOTIFY_TEMPLATE_ID", defaultNotifyTemplateID),
		CheckoutSuccessURL:   getString(lookup, "CHECKOUT_SUCCESS_URL", defaultCheckoutSuccessURL),
		CheckoutCancelURL:    getString(lookup, "CHECKOUT_CANCEL_URL", defaultCheckoutCancelURL),
		ProductName:          getString(lookup, "PRODUCT_NAME", defaultProductName),
		ProductionLockWindow: getDuration(lookup, "PRODUCTION_LOCK_WINDOW", defaultProductionLockWindow),
		ContactPollInterval:  getDuration(lookup, "CONTACT_POLL_INTERVAL", defaultContactPollInterval),
		ContactPollAttempts:  getInt(lookup, "CONTACT_POLL_ATTEMPTS", defaultContactPollAttempts),
		NotifySweepInterval:  getDuration(lookup, "NOTIFY_SWEEP_INTERVAL", defaultNotifySweepInterval),
		NotifyBatchSize:      getInt(lookup, "NOTIFY_BATCH_SIZE", defaultNotifyBatchSize),
		WorkerPoolSize:       getInt(lookup, "WORKER_POOL_SIZE", defaultWorkerPoolSize),
		ShutdownTimeout:      getDuration(lookup, "SHUTDOWN_TIMEOUT", defaultShutdownTimeout),
	}

	fs := flag.NewFlagSet("orderdesk", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	var (
		lockWindowStr      = cfg.ProductionLockWindow.String()
		sweepIntervalStr   = cfg.NotifySweepInterval.String()
		shutdownTimeoutStr = cfg.ShutdownTimeout.String()
	)

	fs.StringVar(&cfg.RunAddress, "a", cfg.RunAddress, "HTTP server listen address")
	fs.StringVar(&cfg.DatabaseURI, "d", cfg.DatabaseURI, "PostgreSQL DSN")
	fs.StringVar(&cfg.RatesURL, "rates-url", cfg.RatesURL, "Exchange rate feed URL")
	fs.StringVar(&cfg.StripeAPIURL, "stripe-url", cfg.StripeAPIURL, "Stripe API base URL")
	fs.StringVar(&cfg.StripeSecretKey, "stripe-key", cfg.StripeSecretKey, "Stripe secret key")
	fs.StringVar(&cfg.CRMAddress, "crm", cfg.CRMAddress, "CRM collaborator base URL")
	fs.StringVar(&cfg.NotifyAddress, "notify", cfg.NotifyAddress, "Notification collaborator base URL")
	fs.StringVar(&cfg.NotifyTemplateID, "notify-template", cfg.NotifyTemplateID, "Triggered email template id")
	fs.StringVar(&cfg.CheckoutSuccessURL, "success-url", cfg.CheckoutSuccessURL, "Checkout success redirect URL")
	fs.StringVar(&cfg.CheckoutCancelURL, "cancel-url", cfg.CheckoutCancelURL, "Checkout cancel redirect URL")
	fs.StringVar(&lockWindowStr, "lock-window", lockWindowStr, "Production lock window after payment")
	fs.StringVar(&sweepIntervalStr, "sweep-interval", sweepIntervalStr, "Interval between notification sweeps")
	fs.IntVar(&cfg.NotifyBatchSize, "sweep-batch", cfg.NotifyBatchSize, "Maximum orders per notification sweep")
	fs.IntVar(&cfg.WorkerPoolSize, "worker-pool", cfg.WorkerPoolSize, "Number of concurrent notification workers")
	fs.StringVar(&shutdownTimeoutStr, "shutdown-timeout", shutdownTimeoutStr, "Graceful shutdown timeout")

	if err := fs.Parse(args); err != nil {
		return nil, fmt.Errorf("parse flags: %w", err)
	}

	var err error

	if cfg.ProductionLockWindow, err = time.ParseDuration(lockWindowStr); err != nil {
		return nil, fmt.Errorf("invalid lock window: %w", err)
	}

	if cfg.NotifySweepInterval, err = time.ParseDuration(sweepIntervalStr); err != nil {
		return nil, fmt.Errorf("invalid sweep interval: %w", err)
	}

	if cfg.ShutdownTimeout, err = time.ParseDuration(shutdownTimeoutStr); err != nil {
		return nil, fmt.Errorf("invalid shutdown timeout: %w", err)
	}

	if keyFile, ok := lookup("STRIPE_SECRET_KEY_FILE"); ok && keyFile != "" {
		content, err := os.ReadFile(keyFile)
		if err != nil {
			return nil, fmt.Errorf("read stripe secret key file: %w", err)
		}
		// Mounted secret files usually end with a newline.
		cfg.StripeSecretKey = strings.TrimSpace(string(content))
	}

	if cfg.ProductionLockWindow <= 0 {
		cfg.ProductionLockWindow = defaultProductionLockWindow
	}

	if cfg.ContactPollInterval <= 0 {
		cfg.ContactPollInterval = defaultContactPollInterval
	}

	if cfg.ContactPollAttempts <= 0 {
		cfg.ContactPollAttempts = defaultContactPollAttempts
	}

	if cfg.NotifySweepInterval <= 0 {
		cfg.NotifySweepInterval = defaultNotifySweepInterval
	}

	if cfg.NotifyBatchSize <= 0 {
		cfg.NotifyBatchSize = defaultNotifyBatchSize
	}

	if cfg.WorkerPoolSize <= 0 {
		cfg.WorkerPoolSize = defaultWorkerPoolSize
	}

	if cfg.ShutdownTimeout <= 0 {
		cfg.ShutdownTimeout = defaultShutdownTimeout
	}

	if cfg.DatabaseURI == "" {
		return nil, fmt.Errorf("database URI must be provided")
	}

	if cfg.StripeSecretKey == "" {
		return nil, fmt.Errorf("stripe secret key must be provided")
	}

	if cfg.CRMAddress == "" {
		return nil, fmt.Errorf("CRM address must be provided")
	}

	if cfg.NotifyAddress == "" {
		return nil, fmt.Errorf("notification address must be provided")
	}

	return cfg, nil
}

func getString(lookup envLookup, key, def string) string {
	if v, ok := lookup(key); ok && v != "" {
		return v
	}
	return def
}

func getInt(lookup envLookup, key string, def int) int {
	if v, ok := lookup(key); ok && v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func getDuration(lookup envLookup, key string, def time.Duration) time.Duration {
	if v, ok := lookup(key); ok && v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}
