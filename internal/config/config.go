package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"github.com/mitchellh/mapstructure"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

type Config struct {
	App      App      `mapstructure:",squash"`
	Server   Server   `mapstructure:",squash"`
	Database Database `mapstructure:",squash"`
	Meta     Meta     `mapstructure:",squash"`
	Fetch    Fetch    `mapstructure:",squash"`
	Report   Report   `mapstructure:",squash"`
	Backfill Backfill `mapstructure:",squash"`
	Sync     Sync     `mapstructure:",squash"`
}

type App struct {
	LogLevel string `mapstructure:"log_level"`
	RunMode  string `mapstructure:"run_mode"`
}

type Server struct {
	Host string `mapstructure:"host"`
	Port string `mapstructure:"port"`
}

type Database struct {
	DSN      string `mapstructure:"-"`
	Driver   string `mapstructure:"database_driver"`
	Password string `mapstructure:"database_password"`
	URL      string `mapstructure:"database_url"`
	User     string `mapstructure:"database_user"`
}

type Meta struct {
	BaseURL      string   `mapstructure:"meta_base_url"`
	URL          string   `mapstructure:"meta_url"`
	Version      string   `mapstructure:"meta_version"`
	AccessToken  string   `mapstructure:"meta_access_token"`
	AdAccountIDs []string `mapstructure:"meta_ad_account_ids"`
}

type Fetch struct {
	TimeoutSeconds       int `mapstructure:"fetch_timeout_seconds"`
	MaxRetries           int `mapstructure:"fetch_max_retries"`
	RetryDelaySeconds    int `mapstructure:"fetch_retry_delay_seconds"`
	MaxConcurrentFetches int `mapstructure:"fetch_max_concurrent"`
}

type Report struct {
	Timezone       string `mapstructure:"report_timezone"`
	HourlyTableID  string `mapstructure:"report_hourly_table_id"`
	DailyTableID   string `mapstructure:"report_daily_table_id"`
	AdLevelTableID string `mapstructure:"report_ad_level_table_id"`

	// Location é carregado a partir de Timezone em NewConfig
	Location *time.Location `mapstructure:"-"`
}

type Backfill struct {
	Enabled       bool `mapstructure:"backfill_enabled"`
	MaxHours      int  `mapstructure:"backfill_max_hours"`
	OverrideHours int  `mapstructure:"backfill_override_hours"`
}

type Sync struct {
	CronSchedule       string `mapstructure:"report_sync_cron"`
	Enabled            bool   `mapstructure:"report_sync_enabled"`
	BucketDelaySeconds int    `mapstructure:"report_sync_bucket_delay_seconds"`
}

func SetDefaults() {
	viper.SetDefault("LOG_LEVEL", "debug")
	viper.SetDefault("RUN_MODE", "once")

	viper.SetDefault("HOST", "localhost")
	viper.SetDefault("PORT", 8000)

	viper.SetDefault("DATABASE_DRIVER", "postgres")
	viper.SetDefault("DATABASE_URL", "")
	viper.SetDefault("DATABASE_USER", "postgres")
	viper.SetDefault("DATABASE_PASSWORD", "root")

	viper.SetDefault("META_BASE_URL", "https://graph.facebook.com")
	viper.SetDefault("META_VERSION", "v21.0")
	viper.SetDefault("META_ACCESS_TOKEN", "")
	viper.SetDefault("META_AD_ACCOUNT_IDS", "")

	viper.SetDefault("FETCH_TIMEOUT_SECONDS", 60)
	viper.SetDefault("FETCH_MAX_RETRIES", 3)
	viper.SetDefault("FETCH_RETRY_DELAY_SECONDS", 5)
	viper.SetDefault("FETCH_MAX_CONCURRENT", 3)

	viper.SetDefault("REPORT_TIMEZONE", "Asia/Kolkata")
	viper.SetDefault("REPORT_HOURLY_TABLE_ID", "hourly_data")
	viper.SetDefault("REPORT_DAILY_TABLE_ID", "daily_sales_report")
	viper.SetDefault("REPORT_AD_LEVEL_TABLE_ID", "ad_level_daily_sales")

	viper.SetDefault("BACKFILL_ENABLED", true)
	viper.SetDefault("BACKFILL_MAX_HOURS", 24)
	viper.SetDefault("BACKFILL_OVERRIDE_HOURS", 0)

	viper.SetDefault("REPORT_SYNC_CRON", "0 * * * *") // Toda hora cheia
	viper.SetDefault("REPORT_SYNC_ENABLED", true)
	viper.SetDefault("REPORT_SYNC_BUCKET_DELAY_SECONDS", 2)
}

func NewConfig() (*Config, error) {
	// Primeiro carregar o arquivo .env usando godotenv
	loadEnvFile() // ONLY LOCAL

	config := &Config{}

	// Configurar valores padrão
	SetDefaults()

	// Configurar o Viper
	viper.SetConfigType("env")
	viper.SetConfigFile(".env")
	viper.AutomaticEnv() // Isso permite que o Viper leia variáveis de ambiente

	// Tentar ler o arquivo .env com o Viper (opcional, já que usamos godotenv)
	if err := viper.ReadInConfig(); err != nil {
		logrus.Info("Usando variáveis carregadas pelo godotenv (viper não conseguiu ler .env):", err)
	} else {
		logrus.Info("Arquivo .env lido pelo Viper com sucesso")
	}

	err := viper.Unmarshal(&config, viper.DecodeHook(
		mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		),
	))
	if err != nil {
		return nil, err
	}

	config.Meta.URL = fmt.Sprintf("%s/%s", config.Meta.BaseURL, config.Meta.Version)

	if config.Database.URL != "" {
		config.Database.DSN = fmt.Sprintf(
			"%s://%s:%s@%s",
			config.Database.Driver,
			config.Database.User,
			config.Database.Password,
			config.Database.URL,
		)
	}

	if config.Backfill.OverrideHours < 0 {
		return nil, fmt.Errorf("BACKFILL_OVERRIDE_HOURS não pode ser negativo: %d", config.Backfill.OverrideHours)
	}

	if config.Fetch.MaxRetries < 1 {
		return nil, fmt.Errorf("FETCH_MAX_RETRIES deve ser ao menos 1: %d", config.Fetch.MaxRetries)
	}

	// Fuso horário de referência dos relatórios. Todas as janelas horárias e
	// rótulos de data são calculados nesse fuso.
	loc, err := time.LoadLocation(config.Report.Timezone)
	if err != nil {
		logrus.WithError(err).Warnf("Fuso horário %q inválido, usando IST fixo (+05:30)", config.Report.Timezone)
		loc = time.FixedZone("IST", 5*3600+30*60)
	}
	config.Report.Location = loc

	return config, nil
}

// Função auxiliar para carregar o arquivo .env usando godotenv
func loadEnvFile() {
	cwd, err := os.Getwd()
	if err != nil {
		logrus.Warn("Não foi possível obter o diretório atual:", err)
		return
	}

	// Tentar várias localizações possíveis para o arquivo .env
	locations := []string{
		filepath.Join(cwd, ".env"),
		filepath.Join(filepath.Dir(cwd), ".env"),
		filepath.Join(cwd, "../.env"),
		filepath.Join(cwd, "../../.env"),
	}

	for _, location := range locations {
		err := godotenv.Load(location)
		if err == nil {
			logrus.Info("Arquivo .env carregado com sucesso de:", location)
			return
		}
	}

	logrus.Debug("Nenhum arquivo .env encontrado, usando apenas variáveis de ambiente")
}
