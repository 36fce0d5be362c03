package config

import (
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

type Config struct {
	App struct {
		Env       string `env:"APP_ENV" env-default:"development"`
		SentryUrl string `env:"SENTRY_URL"`
	}
	Facebook struct {
		PageID      string `env:"FACEBOOK_PAGE_ID"`
		AccessToken string `env:"FACEBOOK_ACCESS_TOKEN"`
		APIVersion  string `env:"FACEBOOK_API_VERSION" env-default:"v21.0"`
		MaxPosts    int    `env:"FACEBOOK_MAX_POSTS" env-default:"25"`
	}
	Pipeline struct {
		MaxEvents     int    `env:"PIPELINE_MAX_EVENTS" env-default:"15"`
		MaxAlbumItems int    `env:"PIPELINE_MAX_ALBUM_ITEMS" env-default:"12"`
		MinMessageLen int    `env:"PIPELINE_MIN_MESSAGE_LEN" env-default:"20"`
		Cron          string `env:"INGEST_CRON"`
	}
	Media struct {
		Dir             string        `env:"MEDIA_DIR" env-default:"public/images/facebook-events"`
		PublicPrefix    string        `env:"MEDIA_PUBLIC_PREFIX" env-default:"/images/facebook-events"`
		Concurrency     int           `env:"MEDIA_CONCURRENCY" env-default:"4"`
		DownloadTimeout time.Duration `env:"MEDIA_DOWNLOAD_TIMEOUT" env-default:"30s"`
		MaxWidth        int           `env:"MEDIA_MAX_WIDTH" env-default:"1200"`
		JPEGQuality     int           `env:"MEDIA_JPEG_QUALITY" env-default:"80"`
		RetryAttempts   uint64        `env:"MEDIA_RETRY_ATTEMPTS" env-default:"2"`
		RetryDelay      time.Duration `env:"MEDIA_RETRY_DELAY" env-default:"2s"`
	}
	Output struct {
		File string `env:"OUTPUT_FILE" env-default:"src/data/facebook-events.json"`
	}
	Lock struct {
		File       string        `env:"LOCK_FILE" env-default:".fb-events.lock"`
		StaleAfter time.Duration `env:"LOCK_STALE_AFTER" env-default:"30m"`
	}
	Telegram struct {
		Token  string `env:"TELEGRAM_TOKEN"`
		ChatID int64  `env:"TELEGRAM_CHAT_ID"`
	}
}

func New() (*Config, error) {
	cfg := &Config{}
	if err := cleanenv.ReadEnv(cfg); err != nil {
		help, _ := cleanenv.GetDescription(cfg, nil)
		return nil, &ReadError{Err: err, Help: help}
	}
	return cfg, nil
}

// ReadError carries the generated env var description so startup failures
// print the full list of supported variables.
type ReadError struct {
	Err  error
	Help string
}

func (e *ReadError) Error() string {
	return e.Err.Error() + "\n" + e.Help
}

func (e *ReadError) Unwrap() error {
	return e.Err
}
