package main

import (
	"context"
	"fmt"
	"net"
	"os"
	"strconv"

	"github.com/johnewart/go-clubmember/club/events"
	"github.com/johnewart/go-clubmember/club/registry"
	"github.com/johnewart/go-clubmember/club/storage"
	"github.com/johnewart/go-clubmember/metrics"
	"github.com/johnewart/go-clubmember/services"
	"github.com/joho/godotenv"
	"google.golang.org/grpc"
	"zombiezen.com/go/log"
)

type ServerConfig struct {
	ServicePort   int
	MetricsPort   int
	ClubName      string
	RootToken     string
	DatabaseURL   string
	RedisHostPort string
}

func configFromEnv() (ServerConfig, error) {
	config := ServerConfig{
		ServicePort:   envInt("PORT", 9090),
		MetricsPort:   envInt("METRICS_PORT", 9091),
		ClubName:      envString("CLUB_NAME", "default"),
		RootToken:     os.Getenv("CLUB_ROOT_TOKEN"),
		DatabaseURL:   os.Getenv("DATABASE_URL"),
		RedisHostPort: os.Getenv("REDIS_HOST_PORT"),
	}

	if config.RootToken == "" {
		return config, fmt.Errorf("CLUB_ROOT_TOKEN must be set")
	}
	return config, nil
}

func envString(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v, err := strconv.Atoi(os.Getenv(key)); err == nil {
		return v
	}
	return fallback
}

func openStore(ctx context.Context, config ServerConfig) (storage.MemberStore, error) {
	switch {
	case config.DatabaseURL != "":
		log.Infof(ctx, "storing members in postgresql")
		store, err := storage.NewPostgresqlMemberStore(config.DatabaseURL, config.ClubName)
		if err != nil {
			return nil, fmt.Errorf("unable to open postgresql store: %v", err)
		}
		if err := store.Migrate(); err != nil {
			return nil, err
		}
		return store, nil
	case config.RedisHostPort != "":
		log.Infof(ctx, "storing members in redis at %s", config.RedisHostPort)
		store := storage.NewRedisMemberStore(config.RedisHostPort, config.ClubName)
		if !store.Healthy(ctx) {
			return nil, fmt.Errorf("unable to connect to redis at %v", config.RedisHostPort)
		}
		return store, nil
	default:
		log.Warnf(ctx, "no DATABASE_URL or REDIS_HOST_PORT, members are kept in memory only")
		return storage.NewMemoryMemberStore(), nil
	}
}

func main() {
	ctx := context.Background()

	if err := godotenv.Load(); err != nil {
		log.Debugf(ctx, "no .env loaded: %v", err)
	}

	config, err := configFromEnv()
	if err != nil {
		log.Errorf(ctx, "invalid configuration: %v", err)
		os.Exit(-1)
	}

	log.Infof(ctx, "clubd starting up...")
	log.Infof(ctx, "PORT: %d", config.ServicePort)
	log.Infof(ctx, "METRICS_PORT: %d", config.MetricsPort)
	log.Infof(ctx, "CLUB_NAME: %s", config.ClubName)
	log.Infof(ctx, "REDIS_HOST_PORT: %s", config.RedisHostPort)

	store, err := openStore(ctx, config)
	if err != nil {
		log.Errorf(ctx, "failed to open member store: %v", err)
		os.Exit(-1)
	}

	emitter := events.MultiEmitter{events.LogEmitter{}}
	if config.RedisHostPort != "" {
		emitter = append(emitter, events.NewRedisEmitter(config.RedisHostPort, config.ClubName))
	}

	metricsRegistry := metrics.NewMetricRegistry(config.MetricsPort)
	defer metricsRegistry.Close()

	reg := registry.NewRegistry(store, emitter, registry.Config{Metrics: metricsRegistry})
	if members, err := reg.Members(ctx); err != nil {
		log.Warnf(ctx, "unable to read current members: %v", err)
	} else {
		metricsRegistry.UpdateMemberCount(members.Len())
		log.Infof(ctx, "club %s has members %v", config.ClubName, members)
	}

	clubService, svcErr := services.NewClubService(ctx, services.ServiceConfig{
		Registry:  reg,
		Metrics:   metricsRegistry,
		RootToken: config.RootToken,
	})
	if svcErr != nil {
		log.Errorf(ctx, "failed to create club service: %v", svcErr)
		os.Exit(-1)
	}

	go func() {
		log.Infof(ctx, "Starting metrics service")
		if err := metricsRegistry.Serve(); err != nil {
			log.Warnf(ctx, "Unable to start metrics service: %v", err)
		}
	}()

	lis, listenErr := net.Listen("tcp", fmt.Sprintf(":%d", config.ServicePort))
	if listenErr != nil {
		log.Errorf(ctx, "failed to listen: %v", listenErr)
		os.Exit(-1)
	}
	s := grpc.NewServer()

	log.Infof(ctx, "server listening at %v", lis.Addr())
	services.RegisterClubServiceServer(s, clubService)
	if sErr := s.Serve(lis); sErr != nil {
		log.Errorf(ctx, "unable to serve: %v", sErr)
		os.Exit(-1)
	}
}
