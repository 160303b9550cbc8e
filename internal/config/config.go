// Package config
package config

import (
	"flag"
	"log"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

/*
YAML config example:
server: "203.0.113.10:443"
login: 900
password: ""          # prefer MT4_PASSWORD env var
buffer_size: 8192
listen_addr: ":8080"
journal_driver: "sqlite"   # sqlite | postgres | memory
journal_dsn: "mt4-gateway-journal.db"
settle_delay_ms: 100
mock: true
*/

type Config struct {
	Server         string        `yaml:"server"`
	Login          int           `yaml:"login"`
	Password       string        `yaml:"password"`
	BufferSize     int           `yaml:"buffer_size"`
	ListenAddr     string        `yaml:"listen_addr"`
	JournalDriver  string        `yaml:"journal_driver"`
	JournalDSN     string        `yaml:"journal_dsn"`
	JournalMaxOpen int           `yaml:"journal_max_open"`
	JournalMaxIdle int           `yaml:"journal_max_idle"`
	SettleDelayMS  int           `yaml:"settle_delay_ms"`
	SettleDelay    time.Duration `yaml:"-"`
	Mock           bool          `yaml:"mock"`
}

// Load reads flags and, when -config is given, overrides the defaults with
// the YAML file. The password and a Postgres DSN may come from the
// environment instead of either.
func Load() Config {
	server := flag.String("server", "", "Trading server address (host:port)")
	login := flag.Int("login", 0, "Manager login id")
	password := flag.String("password", "", "Manager password (prefer MT4_PASSWORD)")
	bufferSize := flag.Int("buffer-size", 8192, "Serialization buffer capacity in bytes")
	listenAddr := flag.String("listen", ":8080", "HTTP listen address")
	journalDriver := flag.String("journal-driver", "sqlite", "Operation journal backend: sqlite, postgres or memory")
	journalDSN := flag.String("journal-dsn", "mt4-gateway-journal.db", "Journal DSN: file path for sqlite, conn string for postgres")
	settleDelay := flag.Duration("settle-delay", 100*time.Millisecond, "Delay applied before connecting (e.g., 100ms)")
	mock := flag.Bool("mock", false, "Run against the in-process mock manager")
	configFile := flag.String("config", "", "Path to YAML config file")
	flag.Parse()

	cfg := Config{
		Server:         *server,
		Login:          *login,
		Password:       *password,
		BufferSize:     *bufferSize,
		ListenAddr:     *listenAddr,
		JournalDriver:  *journalDriver,
		JournalDSN:     *journalDSN,
		JournalMaxOpen: 10,
		JournalMaxIdle: 5,
		SettleDelay:    *settleDelay,
		Mock:           *mock,
	}

	if *configFile != "" {
		data, err := os.ReadFile(*configFile)
		if err != nil {
			log.Fatalf("Failed to read config file: %v", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			log.Fatalf("Failed to parse config file: %v", err)
		}
		if cfg.SettleDelayMS > 0 {
			cfg.SettleDelay = time.Duration(cfg.SettleDelayMS) * time.Millisecond
		}
	}

	if cfg.Password == "" {
		cfg.Password = os.Getenv("MT4_PASSWORD")
	}
	if cfg.JournalDriver == "postgres" && cfg.JournalDSN == "" {
		cfg.JournalDSN = os.Getenv("DB_CONN_STR")
	}
	if cfg.BufferSize <= 0 {
		cfg.BufferSize = 8192
	}
	if cfg.SettleDelay < 0 {
		cfg.SettleDelay = 0
	}

	return cfg
}
