package env

import (
	"encoding/hex"
	"fmt"
	"strconv"

	"minigames_backend/internal/config"
)

const (
	serviceNameEnvName    = "SERVICE_NAME"
	envEnvName            = "ENV"
	storageEnvName        = "STORAGE"
	initialBalanceEnvName = "INITIAL_BALANCE"
	rngSeedEnvName        = "RNG_SEED"

	StoragePostgres = "postgres"
	StorageMemory   = "memory"

	defaultInitialBalance = 100
)

type appConfig struct {
	serviceName    string
	env            string
	storage        string
	initialBalance int64
	rngSeed        []byte
}

func NewAppConfig() (config.AppConfig, error) {
	storage := getEnv(storageEnvName, StoragePostgres)
	if storage != StoragePostgres && storage != StorageMemory {
		return nil, fmt.Errorf("unknown storage %q", storage)
	}

	initialBalance, err := strconv.ParseInt(getEnv(initialBalanceEnvName, strconv.Itoa(defaultInitialBalance)), 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid initial balance: %w", err)
	}
	if initialBalance < 0 {
		return nil, fmt.Errorf("initial balance %d is negative", initialBalance)
	}

	var seed []byte
	if s := getEnv(rngSeedEnvName, ""); s != "" {
		seed, err = hex.DecodeString(s)
		if err != nil {
			return nil, fmt.Errorf("invalid rng seed: %w", err)
		}
		if len(seed) != 32 {
			return nil, fmt.Errorf("rng seed must be 32 bytes, got %d", len(seed))
		}
	}

	return &appConfig{
		serviceName:    getEnv(serviceNameEnvName, "minigames"),
		env:            getEnv(envEnvName, "local"),
		storage:        storage,
		initialBalance: initialBalance,
		rngSeed:        seed,
	}, nil
}

func (cfg *appConfig) ServiceName() string {
	return cfg.serviceName
}

func (cfg *appConfig) Env() string {
	return cfg.env
}

func (cfg *appConfig) Storage() string {
	return cfg.storage
}

func (cfg *appConfig) InitialBalance() int64 {
	return cfg.initialBalance
}

func (cfg *appConfig) RNGSeed() []byte {
	return cfg.rngSeed
}
