package config

import (
	"errors"
	"os"
	"sync"
)

type Config struct {
	Env            string
	LogLevel       string
	ListenAddr     string
	DBType         string
	DBDSN          string
	UsersFile      string
	AuthServiceURL string
	LogGenerator   string
	// CreditLocalOnlyBelowCap pins the historical award rule: the goal-local
	// counter is only credited when the award would stay below the cap, even
	// though the global ledger is always credited. Disable to apply the
	// capped credit instead.
	CreditLocalOnlyBelowCap bool
}

var (
	cfg  *Config
	once sync.Once
)

func Load() *Config {
	once.Do(func() {
		_ = loadDotEnv()
		cfg = &Config{
			Env:                     getEnv("APP_ENV", "development"),
			LogLevel:                getEnv("LOG_LEVEL", "info"),
			ListenAddr:              getEnv("LISTEN_ADDR", ":8088"),
			DBType:                  getEnv("STORAGE_BACKEND", "file"),
			DBDSN:                   getEnv("POSTGRES_DSN", ""),
			UsersFile:               getEnv("USERS_FILE", "data/users.json"),
			AuthServiceURL:          getEnv("AUTH_SERVICE_URL", ""),
			LogGenerator:            getEnv("LOG_GENERATOR", "noclamp"),
			CreditLocalOnlyBelowCap: getEnvBool("CREDIT_LOCAL_ONLY_BELOW_CAP", true),
		}
		if err := cfg.Validate(); err != nil {
			panic("Invalid config: " + err.Error())
		}
	})
	return cfg
}

func (c *Config) Validate() error {
	if c.DBType == "postgres" && c.DBDSN == "" {
		return errors.New("POSTGRES_DSN is required when STORAGE_BACKEND=postgres")
	}
	if c.DBType == "file" && c.UsersFile == "" {
		return errors.New("File storage requires USERS_FILE to be set")
	}
	if c.DBType != "file" && c.DBType != "postgres" {
		return errors.New("STORAGE_BACKEND must be one of: file, postgres")
	}
	if c.Env != "development" && c.Env != "staging" && c.Env != "production" {
		return errors.New("APP_ENV must be one of: development, staging, production")
	}
	if c.Env != "development" && c.AuthServiceURL == "" {
		return errors.New("AUTH_SERVICE_URL is required outside development")
	}
	if c.LogGenerator != "noclamp" && c.LogGenerator != "smoothed" {
		return errors.New("LOG_GENERATOR must be one of: noclamp, smoothed")
	}
	return nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	switch os.Getenv(key) {
	case "true", "1", "yes":
		return true
	case "false", "0", "no":
		return false
	default:
		return fallback
	}
}

func loadDotEnv() error {
	if _, err := os.Stat(".env"); err == nil {
		f, err := os.Open(".env")
		if err != nil {
			return err
		}
		defer f.Close()
		var lines []string
		buf := make([]byte, 4096)
		for {
			n, err := f.Read(buf)
			if n > 0 {
				lines = append(lines, string(buf[:n]))
			}
			if err != nil {
				break
			}
		}
		for _, line := range lines {
			for _, l := range splitLines(line) {
				if len(l) == 0 || l[0] == '#' {
					continue
				}
				kv := splitKV(l)
				if len(kv) == 2 {
					os.Setenv(kv[0], kv[1])
				}
			}
		}
	}
	return nil
}

func splitLines(s string) []string {
	var lines []string
	start := 0
	for i, c := range s {
		if c == '\n' || c == '\r' {
			if i > start {
				lines = append(lines, s[start:i])
			}
			start = i + 1
		}
	}
	if start < len(s) {
		lines = append(lines, s[start:])
	}
	return lines
}

func splitKV(s string) []string {
	for i, c := range s {
		if c == '=' {
			return []string{s[:i], s[i+1:]}
		}
	}
	return nil
}
