package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"starsbot/games"

	"github.com/joho/godotenv"
)

// Config holds all application configuration. Money values are in minor
// units (1 STAR = 100 units).
type Config struct {
	// Telegram configuration
	TelegramToken string
	AdminID       int64

	// Database configuration
	DatabaseURL string

	// Click rewards
	ClickReward   int64
	ClickCooldown time.Duration

	// Referral accrual
	ReferrerBonus        int64
	RefereeBonus         int64
	ClickReferralPercent int

	// Withdrawals
	WithdrawalTiers    []int64
	MinActiveReferrals int

	// Per-game probability and payout tables
	Games games.Config

	// Environment
	Environment string // "development", "production" or "test"
}

var (
	instance *Config
	once     sync.Once
	mu       sync.Mutex
)

// Get returns the global configuration instance
func Get() *Config {
	once.Do(func() {
		mu.Lock()
		defer mu.Unlock()
		if instance != nil {
			// A test config was installed before first use.
			return
		}
		loaded, err := load()
		if err != nil {
			panic(fmt.Sprintf("failed to load config: %v", err))
		}
		instance = loaded
	})
	mu.Lock()
	defer mu.Unlock()
	return instance
}

// load loads configuration from the environment, with .env as a fallback
// source for local development.
func load() (*Config, error) {
	// Missing .env is fine; real deployments set the environment directly.
	_ = godotenv.Load()

	config := &Config{
		TelegramToken: os.Getenv("TELEGRAM_TOKEN"),
		DatabaseURL:   os.Getenv("DATABASE_URL"),

		// Defaults in minor units
		ClickReward:          20, // 0.20 STAR
		ClickCooldown:        time.Hour,
		ReferrerBonus:        300, // 3.00 STAR
		RefereeBonus:         200, // 2.00 STAR
		ClickReferralPercent: 10,
		WithdrawalTiers:      []int64{1500, 2500, 5000, 10000},
		MinActiveReferrals:   3,

		Games: games.DefaultConfig(),

		Environment: os.Getenv("ENVIRONMENT"),
	}

	if adminID := os.Getenv("ADMIN_ID"); adminID != "" {
		parsed, err := strconv.ParseInt(adminID, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid ADMIN_ID %q: %w", adminID, err)
		}
		config.AdminID = parsed
	}

	if reward := os.Getenv("CLICK_REWARD"); reward != "" {
		if parsed, err := strconv.ParseInt(reward, 10, 64); err == nil {
			config.ClickReward = parsed
		}
	}
	if cooldown := os.Getenv("CLICK_COOLDOWN_SECONDS"); cooldown != "" {
		if parsed, err := strconv.Atoi(cooldown); err == nil {
			config.ClickCooldown = time.Duration(parsed) * time.Second
		}
	}
	if minRefs := os.Getenv("MIN_ACTIVE_REFERRALS"); minRefs != "" {
		if parsed, err := strconv.Atoi(minRefs); err == nil {
			config.MinActiveReferrals = parsed
		}
	}
	if tiers := os.Getenv("WITHDRAWAL_TIERS"); tiers != "" {
		var parsed []int64
		for _, tier := range strings.Split(tiers, ",") {
			tier = strings.TrimSpace(tier)
			if tier == "" {
				continue
			}
			amount, err := strconv.ParseInt(tier, 10, 64)
			if err != nil {
				return nil, fmt.Errorf("invalid withdrawal tier %q: %w", tier, err)
			}
			parsed = append(parsed, amount)
		}
		if len(parsed) > 0 {
			config.WithdrawalTiers = parsed
		}
	}

	if config.Environment == "" {
		config.Environment = "development"
	}

	if config.Environment != "test" {
		if config.TelegramToken == "" {
			return nil, fmt.Errorf("TELEGRAM_TOKEN is required")
		}
		if config.DatabaseURL == "" {
			return nil, fmt.Errorf("DATABASE_URL is required")
		}
	}

	if err := config.Games.Validate(); err != nil {
		return nil, fmt.Errorf("invalid game configuration: %w", err)
	}

	return config, nil
}

// IsWithdrawalTier reports whether amount is one of the configured tiers.
func (c *Config) IsWithdrawalTier(amount int64) bool {
	for _, tier := range c.WithdrawalTiers {
		if tier == amount {
			return true
		}
	}
	return false
}

// SetTestConfig overrides the global config instance for testing.
// This should only be called from test files.
func SetTestConfig(testConfig *Config) {
	mu.Lock()
	defer mu.Unlock()
	instance = testConfig
}

// ResetConfig resets the global config instance and sync.Once for testing.
func ResetConfig() {
	mu.Lock()
	defer mu.Unlock()
	instance = nil
	once = sync.Once{}
}

// NewTestConfig creates a minimal config suitable for unit tests.
func NewTestConfig() *Config {
	return &Config{
		Environment:          "test",
		ClickReward:          20,
		ClickCooldown:        time.Hour,
		ReferrerBonus:        300,
		RefereeBonus:         200,
		ClickReferralPercent: 10,
		WithdrawalTiers:      []int64{1500, 2500, 5000, 10000},
		MinActiveReferrals:   3,
		Games:                games.DefaultConfig(),
	}
}
