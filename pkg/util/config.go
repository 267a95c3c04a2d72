package util

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/viper"
)

func ReadConfig() error {
	setDefaults()
	viper.AutomaticEnv()

	viper.SetConfigName("config")
	viper.AddConfigPath("./data/")

	err := viper.ReadInConfig()
	if err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			// env vars & defaults only
			return nil
		}
		return fmt.Errorf("fatal error config file: %w", err)
	}
	return nil
}

func setDefaults() {
	viper.SetDefault("API_PORT", 6060)
	viper.SetDefault("WEBSOCKET_PORT", 6666)
	viper.SetDefault("PROXY_PORT", 6767)
	viper.SetDefault("API_TIMEOUT", "60s")

	viper.SetDefault("HTTP_SERVER_READ_TIMEOUT", "15s")
	viper.SetDefault("HTTP_SERVER_WRITE_TIMEOUT", "15s")
	viper.SetDefault("HTTP_SERVER_IDLE_TIMEOUT", "60s")
	viper.SetDefault("HTTP_SERVER_READ_HEADER_TIMEOUT", "5s")

	viper.SetDefault("BBOX_MARGIN", 0.01)
	viper.SetDefault("ROUTE_WEIGHT", "weight")
	viper.SetDefault("OVERPASS_URL", "https://overpass-api.de/api/interpreter")
	viper.SetDefault("OVERPASS_TIMEOUT", 60*time.Second)
	viper.SetDefault("OSM_PBF_PATH", "")
	viper.SetDefault("REGION_CACHE_SIZE", 64)

	viper.SetDefault("BADGER_DIR", "./data/badger")
	viper.SetDefault("BADGER_IN_MEMORY", false)
	viper.SetDefault("SNAPSHOT_TTL", 24*time.Hour)

	viper.SetDefault("USE_RATE_LIMIT", false)
	viper.SetDefault("RATE_LIMIT_RPS", 50)
	viper.SetDefault("RATE_LIMIT_BURST", 100)

	viper.SetDefault("WS_POOL_SIZE", 64)
	viper.SetDefault("WS_POOL_QUEUE", 16)

	viper.SetDefault("LOG_LEVEL", "info")
}
