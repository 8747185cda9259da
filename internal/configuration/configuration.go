package configuration

import (
	"time"
)

const (
	BackendMemory   = "memory"
	BackendMongo    = "mongo"
	BackendPostgres = "postgres"
)

type Configuration struct {
	LogLevel   string
	GRPC       GRPC
	Metrics    Metrics
	Store      Store
	Mongo      Mongo
	Postgres   Postgres
	Reconciler Reconciler
	Seed       []SeedBalance
}

type GRPC struct {
	Listen   string
	APIToken string
}

type Metrics struct {
	Listen string
}

type Store struct {
	Backend string // memory|mongo|postgres
}

type Mongo struct {
	URI                 string
	Database            string
	TransfersCollection string
	WalletsCollection   string
	Timeout             time.Duration
}

type Postgres struct {
	URL string
}

type Reconciler struct {
	Interval    time.Duration
	GracePeriod time.Duration
}

// SeedBalance is an opening balance applied on start; Amount is a decimal string
type SeedBalance struct {
	Address  string
	Currency string
	Amount   string
}

func Default() *Configuration {
	return &Configuration{
		LogLevel: "info",
		GRPC: GRPC{
			Listen:   ":8080",
			APIToken: "dev-token",
		},
		Metrics: Metrics{
			Listen: ":9090",
		},
		Store: Store{
			Backend: BackendMemory,
		},
		Mongo: Mongo{
			URI:                 "mongodb://localhost:27017",
			Database:            "wallets",
			TransfersCollection: "transfers",
			WalletsCollection:   "wallets",
			Timeout:             10 * time.Second,
		},
		Postgres: Postgres{
			URL: "postgres://postgres@localhost/wallets?sslmode=disable",
		},
		Reconciler: Reconciler{
			Interval:    30 * time.Second,
			GracePeriod: time.Minute,
		},
	}
}
