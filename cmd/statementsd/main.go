package main

import (
	"context"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/Bushaija/studious-potato-sub008/internal/api"
	"github.com/Bushaija/studious-potato-sub008/internal/pkg/constants"
	"github.com/Bushaija/studious-potato-sub008/internal/pkg/logger"
	"github.com/Bushaija/studious-potato-sub008/internal/pkg/store"
	"github.com/Bushaija/studious-potato-sub008/internal/pkg/store/xpgx"
	"github.com/Bushaija/studious-potato-sub008/internal/service/generator"
)

func main() {
	ctx := context.Background()

	_ = godotenv.Load()

	viper.SetEnvPrefix("STATEMENTS")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	viper.SetDefault(constants.ViperListenAddr, ":8080")
	viper.SetDefault(constants.ViperLogLevel, "info")
	viper.SetDefault(constants.ViperCacheSize, 256)
	viper.SetDefault(constants.ViperCacheTTL, 10*time.Minute)
	viper.SetDefault(constants.ViperGenerateTimeout, 30*time.Second)

	logger.Init(viper.GetString(constants.ViperLogLevel))

	pool, err := xpgx.NewPool(ctx, viper.GetString(constants.ViperDatabaseDSN))
	if err != nil {
		logger.Fatal(ctx, err)
	}
	defer pool.Close()

	// the engine never retries reads, so connectivity is probed once at
	// startup instead
	err = backoff.Retry(
		func() error { return pool.Ping(ctx) },
		backoff.WithContext(
			backoff.WithMaxRetries(backoff.NewConstantBackOff(time.Second), 10),
			ctx,
		),
	)
	if err != nil {
		logger.Fatal(ctx, err)
	}

	svc, err := api.NewAPIService(store.NewStore(pool), generator.Options{
		Strict:    viper.GetBool(constants.ViperStrictMode),
		CacheSize: viper.GetInt(constants.ViperCacheSize),
		CacheTTL:  viper.GetDuration(constants.ViperCacheTTL),
	})
	if err != nil {
		logger.Fatal(ctx, err)
	}

	go svc.Serve(viper.GetString(constants.ViperListenAddr))

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if err := svc.Shutdown(shutdownCtx); err != nil {
		logger.Errorf(shutdownCtx, "shutdown: %s", err.Error())
	}
}
