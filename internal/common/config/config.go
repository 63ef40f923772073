package config

import (
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
)

type Config struct {
	Debug bool `env:"DEBUG" envDefault:"false"`

	Server struct {
		Port   int    `env:"PORT" envDefault:"8080"`
		Origin string `env:"ORIGIN" envDefault:"http://localhost:3000"`
	}

	Redis struct {
		Host     string `env:"REDIS_HOST" envDefault:"localhost"`
		Port     int    `env:"REDIS_PORT" envDefault:"6379"`
		Password string `env:"REDIS_PASSWORD" envDefault:""`
		DB       int    `env:"REDIS_DB" envDefault:"0"`
	}

	Telegram struct {
		BotToken string `env:"BOT_TOKEN,required"`
	}

	Raffle struct {
		// Entrance fee in TON, e.g. "0.01"
		EntranceFee string `env:"RAFFLE_ENTRANCE_FEE_TON" envDefault:"0.01"`
		// Minimum round duration before a draw can start
		IntervalSec int64 `env:"RAFFLE_INTERVAL_SEC" envDefault:"300"`
		// How often the upkeep worker polls the draw conditions
		UpkeepPollSec int `env:"RAFFLE_UPKEEP_POLL_SEC" envDefault:"10"`
	}

	Oracle struct {
		// "local" runs the in-process dev oracle, "stream" expects an
		// external oracle wired through Redis streams
		Mode             string `env:"ORACLE_MODE" envDefault:"local"`
		KeyHash          string `env:"ORACLE_KEY_HASH" envDefault:""`
		SubscriptionID   uint64 `env:"ORACLE_SUBSCRIPTION_ID" envDefault:"0"`
		Confirmations    int    `env:"ORACLE_CONFIRMATIONS" envDefault:"3"`
		CallbackGasLimit uint32 `env:"ORACLE_CALLBACK_GAS_LIMIT" envDefault:"100000"`
		// Simulated block time for the local oracle's confirmation delay
		BlockTimeMs int `env:"ORACLE_BLOCK_TIME_MS" envDefault:"1000"`
	}

	Ton struct {
		// 24-word wallet seed; when empty, payouts run in dry-run mode
		WalletSeed    string `env:"TON_WALLET_SEED" envDefault:""`
		LiteConfigURL string `env:"TON_LITE_CONFIG_URL" envDefault:"https://ton.org/global-config.json"`
		TonAPIBaseURL string `env:"TONAPI_BASE_URL" envDefault:"https://tonapi.io"`
		TonAPIToken   string `env:"TONAPI_TOKEN" envDefault:""`
	}
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		// Ignore a missing .env file; in production the variables
		// are expected to be set directly.
	}

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		panic(err)
	}

	return cfg
}

// RaffleInterval returns the configured round interval as a duration.
func (c *Config) RaffleInterval() time.Duration {
	return time.Duration(c.Raffle.IntervalSec) * time.Second
}

// UpkeepPollInterval returns the upkeep worker tick as a duration.
func (c *Config) UpkeepPollInterval() time.Duration {
	return time.Duration(c.Raffle.UpkeepPollSec) * time.Second
}

// OracleBlockTime returns the simulated block time for the local oracle.
func (c *Config) OracleBlockTime() time.Duration {
	return time.Duration(c.Oracle.BlockTimeMs) * time.Millisecond
}
