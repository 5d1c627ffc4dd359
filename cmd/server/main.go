package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/qugu2427/alienpls-api/internal/app"
)

type configVar[T any] struct {
	envKey       string
	flagKey      string
	defaultValue T
}

var (
	host = configVar[string]{
		envKey:       "SERVER_HOST",
		flagKey:      "host",
		defaultValue: "0.0.0.0",
	}
	port = configVar[int]{
		envKey:       "SERVER_PORT",
		flagKey:      "port",
		defaultValue: 3000,
	}
	logLevel = configVar[string]{
		envKey:       "SERVER_LOG_LEVEL",
		flagKey:      "log-level",
		defaultValue: "INFO",
	}
	queueLimit = configVar[int]{
		envKey:       "SERVER_QUEUE_LIMIT",
		flagKey:      "queue-limit",
		defaultValue: 25,
	}
	bufferTimeMs = configVar[int]{
		envKey:       "SERVER_BUFFER_TIME_MS",
		flagKey:      "buffer-time-ms",
		defaultValue: 5000,
	}
	refreshIntervalMs = configVar[int]{
		envKey:       "SERVER_REFRESH_INTERVAL_MS",
		flagKey:      "refresh-interval-ms",
		defaultValue: 10000,
	}
	adminUser = configVar[string]{
		envKey:       "SERVER_ADMIN_USER",
		flagKey:      "admin-user",
		defaultValue: "erobb15",
	}
	redisHost = configVar[string]{
		envKey:       "REDIS_HOST",
		flagKey:      "redis-host",
		defaultValue: "localhost",
	}
	redisPort = configVar[int]{
		envKey:       "REDIS_PORT",
		flagKey:      "redis-port",
		defaultValue: 6379,
	}
	redisPassword = configVar[string]{
		envKey:       "REDIS_PASSWORD",
		flagKey:      "redis-password",
		defaultValue: "",
	}
	twitchClientId = configVar[string]{
		envKey:       "TWITCH_CLIENT_ID",
		flagKey:      "twitch-client-id",
		defaultValue: "",
	}
	twitchClientSecret = configVar[string]{
		envKey:       "TWITCH_CLIENT_SECRET",
		flagKey:      "twitch-client-secret",
		defaultValue: "",
	}
	twitchRedirectURI = configVar[string]{
		envKey:       "TWITCH_REDIRECT_URI",
		flagKey:      "twitch-redirect-uri",
		defaultValue: "http://localhost:8080/signIn",
	}
	twitchScope = configVar[string]{
		envKey:       "TWITCH_SCOPE",
		flagKey:      "twitch-scope",
		defaultValue: "",
	}
	youtubeKey = configVar[string]{
		envKey:       "YOUTUBE_KEY",
		flagKey:      "youtube-key",
		defaultValue: "",
	}
)

func loadAppConfig() *app.AppConfig {
	pflag.String(host.flagKey, host.defaultValue, "Server host")
	pflag.Int(port.flagKey, port.defaultValue, "Server port")
	pflag.String(logLevel.flagKey, logLevel.defaultValue, "Logging level")
	pflag.Int(queueLimit.flagKey, queueLimit.defaultValue, "Maximum number of items in a room's queue")
	pflag.Int(bufferTimeMs.flagKey, bufferTimeMs.defaultValue, "Grace period added to every playback deadline")
	pflag.Int(refreshIntervalMs.flagKey, refreshIntervalMs.defaultValue, "Period of the playback sweep")
	pflag.String(adminUser.flagKey, adminUser.defaultValue, "Privileged user who may create rooms and force skips")
	pflag.String(redisHost.flagKey, redisHost.defaultValue, "Redis host")
	pflag.Int(redisPort.flagKey, redisPort.defaultValue, "Redis port")
	pflag.String(redisPassword.flagKey, redisPassword.defaultValue, "Redis password")
	pflag.String(twitchClientId.flagKey, twitchClientId.defaultValue, "Twitch application client id")
	pflag.String(twitchClientSecret.flagKey, twitchClientSecret.defaultValue, "Twitch application client secret")
	pflag.String(twitchRedirectURI.flagKey, twitchRedirectURI.defaultValue, "Twitch oauth redirect uri")
	pflag.String(twitchScope.flagKey, twitchScope.defaultValue, "Twitch oauth scope")
	pflag.String(youtubeKey.flagKey, youtubeKey.defaultValue, "Youtube data api key")
	pflag.Parse()

	viper.BindPFlags(pflag.CommandLine)

	viper.BindEnv(host.flagKey, host.envKey)
	viper.BindEnv(port.flagKey, port.envKey)
	viper.BindEnv(logLevel.flagKey, logLevel.envKey)
	viper.BindEnv(queueLimit.flagKey, queueLimit.envKey)
	viper.BindEnv(bufferTimeMs.flagKey, bufferTimeMs.envKey)
	viper.BindEnv(refreshIntervalMs.flagKey, refreshIntervalMs.envKey)
	viper.BindEnv(adminUser.flagKey, adminUser.envKey)
	viper.BindEnv(redisHost.flagKey, redisHost.envKey)
	viper.BindEnv(redisPort.flagKey, redisPort.envKey)
	viper.BindEnv(redisPassword.flagKey, redisPassword.envKey)
	viper.BindEnv(twitchClientId.flagKey, twitchClientId.envKey)
	viper.BindEnv(twitchClientSecret.flagKey, twitchClientSecret.envKey)
	viper.BindEnv(twitchRedirectURI.flagKey, twitchRedirectURI.envKey)
	viper.BindEnv(twitchScope.flagKey, twitchScope.envKey)
	viper.BindEnv(youtubeKey.flagKey, youtubeKey.envKey)

	return &app.AppConfig{
		Host:               viper.GetString(host.flagKey),
		Port:               viper.GetInt(port.flagKey),
		LogLevel:           viper.GetString(logLevel.flagKey),
		QueueLimit:         viper.GetInt(queueLimit.flagKey),
		BufferTimeMs:       viper.GetInt(bufferTimeMs.flagKey),
		RefreshIntervalMs:  viper.GetInt(refreshIntervalMs.flagKey),
		AdminUser:          viper.GetString(adminUser.flagKey),
		RedisHost:          viper.GetString(redisHost.flagKey),
		RedisPort:          viper.GetInt(redisPort.flagKey),
		RedisPassword:      viper.GetString(redisPassword.flagKey),
		TwitchClientId:     viper.GetString(twitchClientId.flagKey),
		TwitchClientSecret: viper.GetString(twitchClientSecret.flagKey),
		TwitchRedirectURI:  viper.GetString(twitchRedirectURI.flagKey),
		TwitchScope:        viper.GetString(twitchScope.flagKey),
		YoutubeKey:         viper.GetString(youtubeKey.flagKey),
	}
}

func main() {
	ctx := context.Background()

	appConfig := loadAppConfig()

	jsonConfig, _ := json.MarshalIndent(appConfig, "", "  ")
	fmt.Printf("starting app with config: %s\n", jsonConfig)

	log.Fatal(app.Run(ctx, appConfig))
}
