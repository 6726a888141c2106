package config

import (
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	// App mode & server
	Mode       string
	ServerAddr string
	SeedDemo   bool

	// Fan-out pipeline
	FanoutWorkers int
	FanoutDelay   time.Duration

	// Kafka (server/worker modes only)
	KafkaBroker    string
	KafkaTopic     string
	KafkaGroupID   string
	KafkaPartition int
	KafkaReadTO    time.Duration
	KafkaWriteTO   time.Duration
}

var cfg *Config

// Init loads the config using Viper and returns it
func Init() *Config {
	viper.SetDefault("MODE", "local")
	viper.SetDefault("SERVER_ADDR", ":8080")
	viper.SetDefault("SEED_DEMO", false)

	viper.SetDefault("FANOUT_WORKERS", 5)
	viper.SetDefault("FANOUT_DELAY", "100ms")

	viper.SetDefault("KAFKA_BROKER", "localhost:29092")
	viper.SetDefault("KAFKA_TOPIC", "fanout-jobs")
	viper.SetDefault("KAFKA_GROUP_ID", "fanout-workers")
	viper.SetDefault("KAFKA_PARTITION", 0)
	viper.SetDefault("KAFKA_READ_TIMEOUT", "10s")
	viper.SetDefault("KAFKA_WRITE_TIMEOUT", "10s")

	// Load env variables
	viper.AutomaticEnv()

	// Optional config file support
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")
	_ = viper.ReadInConfig() // ignore error if no file

	cfg = &Config{
		Mode:           viper.GetString("MODE"),
		ServerAddr:     viper.GetString("SERVER_ADDR"),
		SeedDemo:       viper.GetBool("SEED_DEMO"),
		FanoutWorkers:  viper.GetInt("FANOUT_WORKERS"),
		FanoutDelay:    parseDuration(viper.GetString("FANOUT_DELAY"), 100*time.Millisecond),
		KafkaBroker:    viper.GetString("KAFKA_BROKER"),
		KafkaTopic:     viper.GetString("KAFKA_TOPIC"),
		KafkaGroupID:   viper.GetString("KAFKA_GROUP_ID"),
		KafkaPartition: viper.GetInt("KAFKA_PARTITION"),
		KafkaReadTO:    parseDuration(viper.GetString("KAFKA_READ_TIMEOUT"), 10*time.Second),
		KafkaWriteTO:   parseDuration(viper.GetString("KAFKA_WRITE_TIMEOUT"), 10*time.Second),
	}

	return cfg
}

func parseDuration(s string, def time.Duration) time.Duration {
	if d, err := time.ParseDuration(s); err == nil {
		return d
	}
	return def
}

// Get returns the loaded config instance
func Get() *Config {
	return cfg
}
