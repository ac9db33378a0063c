package config

import (
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/hcg-gdl/pedido-viveres/internal/domain/personnel"
)

type Config struct {
	App struct {
		Env string
	} `mapstructure:"app"`

	HTTP struct {
		Addr string
	} `mapstructure:"http"`

	Metrics struct {
		Enabled bool
	} `mapstructure:"metrics"`

	Catalog struct {
		Source   string // file | url | postgres
		Path     string
		URL      string
		Timeout  time.Duration
		SeedFile string `mapstructure:"seed_file"`
	} `mapstructure:"catalog"`

	Postgres struct {
		DSN string
	} `mapstructure:"postgres"`

	Order struct {
		AllowEmpty   bool `mapstructure:"allow_empty"`
		FormCapacity int  `mapstructure:"form_capacity"`
		WordsInNotes bool `mapstructure:"words_in_notes"`
	} `mapstructure:"order"`

	Header struct {
		BudgetLine   string   `mapstructure:"budget_line"`
		Facility     string
		ServiceAreas []string `mapstructure:"service_areas"`
	} `mapstructure:"header"`

	Personnel struct {
		DeliveredBy []personnel.Person `mapstructure:"delivered_by"`
		ReceivedBy  []personnel.Person `mapstructure:"received_by"`
	} `mapstructure:"personnel"`

	Telegram struct {
		Token  string
		ChatID int64 `mapstructure:"chat_id"`
	} `mapstructure:"telegram"`

	PDF struct {
		ChromePath string `mapstructure:"chrome_path"`
		Timeout    time.Duration
	} `mapstructure:"pdf"`

	Session struct {
		IdleTTL    time.Duration `mapstructure:"idle_ttl"`
		SweepEvery time.Duration `mapstructure:"sweep_every"`
	} `mapstructure:"session"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.env", "prod")
	v.SetDefault("http.addr", ":8080")
	v.SetDefault("metrics.enabled", true)

	v.SetDefault("catalog.source", "file")
	v.SetDefault("catalog.path", "data/articulos.json")
	v.SetDefault("catalog.url", "")
	v.SetDefault("catalog.timeout", 10*time.Second)
	v.SetDefault("catalog.seed_file", "")

	v.SetDefault("postgres.dsn", "")

	v.SetDefault("order.allow_empty", true)
	v.SetDefault("order.form_capacity", 16)
	v.SetDefault("order.words_in_notes", true)

	v.SetDefault("header.budget_line", "2212")
	v.SetDefault("header.facility", "Fray Antonio Alcalde")
	v.SetDefault("header.service_areas", []string{"Comedor", "Pacientes", "Nutrición Clínica", "Extras", "Dietologia"})

	v.SetDefault("telegram.token", "")
	v.SetDefault("telegram.chat_id", 0)

	v.SetDefault("pdf.chrome_path", "")
	v.SetDefault("pdf.timeout", 30*time.Second)

	v.SetDefault("session.idle_ttl", 8*time.Hour)
	v.SetDefault("session.sweep_every", 10*time.Minute)
}

// Load lee el yaml y deja que APP_* (APP_HTTP_ADDR, APP_TELEGRAM_TOKEN, ...) lo sobrescriba.
func Load(path string) (Config, error) {
	v := viper.New()
	setDefaults(v)
	v.SetConfigFile(path)
	v.SetEnvPrefix("APP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var c Config
	if err := v.ReadInConfig(); err != nil {
		return c, err
	}
	if err := v.Unmarshal(&c); err != nil {
		return c, err
	}
	return c, nil
}
