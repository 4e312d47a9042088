// Package configpkg provides parsing functionality for environment variables.
package configpkg

import (
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config stores all configuration of the application.
//
// The values are read by viper from a config file or environment variables.
type Config struct {
	DBDriver      string `mapstructure:"DB_DRIVER"`
	DBSource      string `mapstructure:"DB_SOURCE"`
	MigrationURL  string `mapstructure:"MIGRATION_URL"`
	ServerAddress string `mapstructure:"SERVER_ADDRESS"`
	Environment   string `mapstructure:"GO_ENV"`

	TokenKind           string        `mapstructure:"TOKEN_KIND"`
	TokenSymmetricKey   string        `mapstructure:"TOKEN_SYMMETRIC_KEY"`
	AccessTokenDuration time.Duration `mapstructure:"ACCESS_TOKEN_DURATION"`

	RateProviderURL     string        `mapstructure:"RATE_PROVIDER_URL"`
	RateProviderKey     string        `mapstructure:"RATE_PROVIDER_KEY"`
	RateProviderTimeout time.Duration `mapstructure:"RATE_PROVIDER_TIMEOUT"`
	RateTTL             time.Duration `mapstructure:"RATE_TTL"`
	RateRefreshInterval time.Duration `mapstructure:"RATE_REFRESH_INTERVAL"`
	RateRefreshPairs    []string      `mapstructure:"RATE_REFRESH_PAIRS"`

	KafkaBrokers       []string      `mapstructure:"KAFKA_BROKERS"`
	KafkaTopic         string        `mapstructure:"KAFKA_TOPIC"`
	KafkaConsumerGroup string        `mapstructure:"KAFKA_CONSUMER_GROUP"`
	PublishTimeout     time.Duration `mapstructure:"PUBLISH_TIMEOUT"`

	LockTimeout    time.Duration `mapstructure:"LOCK_TIMEOUT"`
	SettleRetries  int           `mapstructure:"SETTLE_RETRIES"`
	BankName       string        `mapstructure:"BANK_NAME"`
	SupportedBanks []string      `mapstructure:"SUPPORTED_BANKS"`
}

// DefaultSupportedBanks lists the external banks transfers can be simulated to.
var DefaultSupportedBanks = []string{
	"Ceska Sporitelna",
	"CSOB",
	"Fio Banka",
	"Komercni Banka",
	"Moneta Money Bank",
	"Raiffeisenbank",
	"Monobank",
	"Privatbank",
	"Slovenska Sporitelna",
	"Unicredit Bank",
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("DB_DRIVER", "postgres")
	v.SetDefault("SERVER_ADDRESS", "0.0.0.0:8080")
	v.SetDefault("GO_ENV", "production")
	v.SetDefault("TOKEN_KIND", "paseto")
	v.SetDefault("ACCESS_TOKEN_DURATION", 15*time.Minute)
	v.SetDefault("RATE_PROVIDER_URL", "https://v6.exchangerate-api.com")
	v.SetDefault("RATE_PROVIDER_TIMEOUT", 3*time.Second)
	v.SetDefault("RATE_TTL", time.Hour)
	v.SetDefault("RATE_REFRESH_INTERVAL", 24*time.Hour)
	v.SetDefault("KAFKA_TOPIC", "messages")
	v.SetDefault("KAFKA_CONSUMER_GROUP", "messagesId")
	v.SetDefault("PUBLISH_TIMEOUT", 5*time.Second)
	v.SetDefault("LOCK_TIMEOUT", 3*time.Second)
	v.SetDefault("SETTLE_RETRIES", 3)
	v.SetDefault("BANK_NAME", "Pet Bank")
	v.SetDefault("SUPPORTED_BANKS", strings.Join(DefaultSupportedBanks, ","))
}

// Load read configuration from file or environment variables.
func Load(path string) (Config, error) {
	var c Config

	v := viper.New()
	v.AddConfigPath(path)
	v.SetConfigName("app")
	v.SetConfigType("env")

	setDefaults(v)
	v.AutomaticEnv()

	err := v.ReadInConfig()
	if err != nil {
		return c, err
	}

	err = v.Unmarshal(&c)
	if err != nil {
		return c, err
	}

	c.KafkaBrokers = splitList(c.KafkaBrokers)
	c.SupportedBanks = splitList(c.SupportedBanks)
	c.RateRefreshPairs = splitList(c.RateRefreshPairs)

	return c, nil
}

// splitList normalizes list values that come from env files as a single comma separated string.
func splitList(items []string) []string {
	var out []string

	for _, item := range items {
		for _, part := range strings.Split(item, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}

	return out
}
