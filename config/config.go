// Initializing common application configuration
package config

import (
	"log"
	"os"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Redis     RedisConfig     `mapstructure:"redis"`
	RabbitMQ  RabbitMQConfig  `mapstructure:"rabbitmq"`
	Booking   BookingConfig   `mapstructure:"booking"`
	Generator GeneratorConfig `mapstructure:"generator"`
	CheckIn   CheckInConfig   `mapstructure:"checkin"`
	Worker    WorkerConfig    `mapstructure:"worker"`
	MemberDir MemberDirConfig `mapstructure:"memberdir"`
}

type MemberDirConfig struct {
	BaseURL string `mapstructure:"base_url"`
}

type ServerConfig struct {
	AppVersion  string        `mapstructure:"appVersion"`
	Host        string        `mapstructure:"host" validate:"required"`
	Port        string        `mapstructure:"port" validate:"required"`
	Timeout     time.Duration `mapstructure:"timeout"`
	IdleTimeout time.Duration `mapstructure:"idle_timeout"`
	Env         string        `mapstructure:"environment"`
	Mode        string        `mapstructure:"mode"`
}

type DatabaseConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	User            string        `mapstructure:"user"`
	Password        string        `mapstructure:"password"`
	DBName          string        `mapstructure:"dbname"`
	SSLMode         string        `mapstructure:"sslmode"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
}

type RedisConfig struct {
	Addr     string        `mapstructure:"addr"`
	Password string        `mapstructure:"password"`
	DB       int           `mapstructure:"db"`
	CacheTTL time.Duration `mapstructure:"cache_ttl"`

	PoolSize     int           `mapstructure:"pool_size"`
	MinIdleConns int           `mapstructure:"min_idle_conns"`
	DialTimeout  time.Duration `mapstructure:"dial_timeout"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
}

type RabbitMQConfig struct {
	URL      string `mapstructure:"url"`
	Exchange string `mapstructure:"exchange"`
	Enabled  bool   `mapstructure:"enabled"`
}

type BookingConfig struct {
	Horizon      time.Duration `mapstructure:"horizon"`       // booking opens this long before session start
	CancelCutoff time.Duration `mapstructure:"cancel_cutoff"` // cancellation refused inside this window
}

type GeneratorConfig struct {
	WindowDays    int           `mapstructure:"window_days"`    // rolling generation window, today inclusive
	LookaheadDays int           `mapstructure:"lookahead_days"` // minimum-availability check depth
	SlotLength    time.Duration `mapstructure:"slot_length"`
	Interval      time.Duration `mapstructure:"interval"` // scheduler tick
}

type CheckInConfig struct {
	Secret    string        `mapstructure:"secret"`
	EntryLead time.Duration `mapstructure:"entry_lead"` // token valid this long before session start
}

type WorkerConfig struct {
	SweepInterval time.Duration `mapstructure:"sweep_interval"`
}

func LoadConfig() (*viper.Viper, error) {

	viperInstance := viper.New()

	viperInstance.AddConfigPath("./config")
	viperInstance.SetConfigName("config")
	viperInstance.SetConfigType("yaml")

	setDefaults(viperInstance)

	err := viperInstance.ReadInConfig()

	if err != nil {
		return nil, err
	}
	return viperInstance, nil
}

func ParseConfig(v *viper.Viper) (*Config, error) {

	var c Config

	err := v.Unmarshal(&c)
	if err != nil {
		log.Fatalf("unable to decode config into struct, %v", err)
		return nil, err
	}
	return &c, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.appVersion", "1.0.0")
	v.SetDefault("server.host", "localhost")
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.timeout", 30*time.Second)
	v.SetDefault("server.idle_timeout", 60*time.Second)
	v.SetDefault("server.environment", "development")
	v.SetDefault("server.mode", "debug")

	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "poolpass_user")
	v.SetDefault("database.password", "password")
	v.SetDefault("database.dbname", "poolpass")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("database.max_open_conns", 25)
	v.SetDefault("database.max_idle_conns", 5)
	v.SetDefault("database.conn_max_lifetime", 5*time.Minute)

	v.SetDefault("redis.cache_ttl", 15*time.Minute)
	v.SetDefault("redis.pool_size", 10)
	v.SetDefault("redis.dial_timeout", 5*time.Second)
	v.SetDefault("redis.read_timeout", 3*time.Second)
	v.SetDefault("redis.write_timeout", 3*time.Second)

	v.SetDefault("rabbitmq.exchange", "poolpass.reservations")
	v.SetDefault("rabbitmq.enabled", false)

	v.SetDefault("booking.horizon", 72*time.Hour)
	v.SetDefault("booking.cancel_cutoff", 3*time.Hour)

	v.SetDefault("generator.window_days", 14)
	v.SetDefault("generator.lookahead_days", 3)
	v.SetDefault("generator.slot_length", time.Hour)
	v.SetDefault("generator.interval", time.Hour)

	v.SetDefault("checkin.entry_lead", 5*time.Minute)

	v.SetDefault("worker.sweep_interval", 30*time.Minute)

	v.SetDefault("memberdir.base_url", "")
}

func GetEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
