package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// settings are the tunables that can come from the environment and be overridden by flags.
type settings struct {
	Capacity uint
	Bound    int
	// Grace zero keeps the simulation's default grace period.
	Grace    time.Duration
	Seed     uint64
	Drain    bool
	LogLevel string
}

func defaultSettings() settings {
	return settings{
		Capacity: 10,
		Bound:    1000,
		Seed:     uint64(time.Now().UnixNano()),
		LogLevel: "info",
	}
}

// loadSettings reads RIDESIM_* variables on top of the defaults. When envFile is
// not empty it is loaded first; a missing file is not an error. Variables already
// set in the process environment win over the file.
func loadSettings(envFile string) (settings, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return settings{}, fmt.Errorf("config: loading %s: %w", envFile, err)
		}
	}

	s := defaultSettings()
	if err := parseEnv("RIDESIM_CAPACITY", func(v string) error {
		n, err := strconv.ParseUint(v, 10, 32)
		s.Capacity = uint(n)
		return err
	}); err != nil {
		return settings{}, err
	}
	if err := parseEnv("RIDESIM_BOUND", func(v string) (err error) { s.Bound, err = strconv.Atoi(v); return }); err != nil {
		return settings{}, err
	}
	if err := parseEnv("RIDESIM_GRACE", func(v string) (err error) { s.Grace, err = time.ParseDuration(v); return }); err != nil {
		return settings{}, err
	}
	if err := parseEnv("RIDESIM_SEED", func(v string) (err error) { s.Seed, err = strconv.ParseUint(v, 10, 64); return }); err != nil {
		return settings{}, err
	}
	if err := parseEnv("RIDESIM_DRAIN", func(v string) (err error) { s.Drain, err = strconv.ParseBool(v); return }); err != nil {
		return settings{}, err
	}
	if v := os.Getenv("RIDESIM_LOG_LEVEL"); v != "" {
		s.LogLevel = v
	}
	return s, nil
}

func parseEnv(key string, set func(string) error) error {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	if err := set(v); err != nil {
		return fmt.Errorf("config: %s=%q: %w", key, v, err)
	}
	return nil
}
