package main

import (
	"strconv"
	"time"

	"alice-display-api/src/config"
	"alice-display-api/src/db"
	"alice-display-api/src/images"
	"alice-display-api/src/server"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	_ = godotenv.Load()

	if err := config.Init(); err != nil {
		log.Fatal().Msgf("failed to load config: %v", err)
	}

	if level, err := strconv.Atoi(config.LogLevel); err == nil {
		zerolog.SetGlobalLevel(zerolog.Level(level))
	}

	conn, err := db.Init(config.DBName)
	if err != nil {
		log.Fatal().Msgf("failed to connect to postgres: %v", err)
	}
	defer conn.Close()

	var store images.Store = images.NewPGStore(conn)

	if config.RedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{
			Addr:         config.RedisAddr,
			DialTimeout:  5 * time.Second,
			ReadTimeout:  3 * time.Second,
			WriteTimeout: 3 * time.Second,
		})
		store = images.NewCachedStore(store, rdb, time.Duration(config.CacheTTLSeconds)*time.Second)
		log.Info().Msgf("caching selectable images in redis at %s", config.RedisAddr)
	}

	server.InitServer(config.Port, store)
}
