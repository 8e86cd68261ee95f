package config

import (
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/xavierca1/woo-crm/internal/entity"
)

type Config struct {
	HTTPAddr    string   `env:"HTTP_ADDR" envDefault:":8080"`
	DatabaseURL string   `env:"DATABASE_URL"`
	AMQPURL     string   `env:"AMQP_URL"`
	CORSOrigins []string `env:"CORS_ORIGINS" envSeparator:"," envDefault:"*"`
	JWTSecret   string   `env:"JWT_SECRET"`

	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"json"`

	Cache     CacheConfig
	RateLimit RateLimitConfig
	Retention RetentionConfig
	Mail      MailConfig
	HubSpot   HubSpotConfig
	Zoho      ZohoConfig
	Kommo     KommoConfig
	WhatsApp  WhatsAppConfig
	Facebook  FacebookConfig

	QuoteCacheTTL time.Duration `env:"QUOTE_CACHE_TTL" envDefault:"30m"`
	InterestsFile string        `env:"INTERESTS_FILE"`
	CarriersFile  string        `env:"CARRIERS_FILE"`
}

type CacheConfig struct {
	Addr     string `env:"CACHE_ADDR"`
	Password string `env:"CACHE_PASSWORD"`
	DB       int    `env:"CACHE_DB" envDefault:"0"`
}

type RateLimitConfig struct {
	ExportLimit  int           `env:"EXPORT_RATE_LIMIT" envDefault:"10"`
	ExportWindow time.Duration `env:"EXPORT_RATE_WINDOW" envDefault:"1m"`
	LeadLimit    int           `env:"LEAD_RATE_LIMIT" envDefault:"10"`
	LeadWindow   time.Duration `env:"LEAD_RATE_WINDOW" envDefault:"1m"`
}

type RetentionConfig struct {
	Days     int           `env:"RETENTION_DAYS" envDefault:"365"`
	Interval time.Duration `env:"RETENTION_INTERVAL" envDefault:"24h"`
}

type MailConfig struct {
	Host     string `env:"MAIL_HOST"`
	Port     int    `env:"MAIL_PORT" envDefault:"587"`
	User     string `env:"MAIL_USER"`
	Password string `env:"MAIL_PASS"`
	From     string `env:"MAIL_FROM" envDefault:"no-reply@localhost"`
	AdminTo  string `env:"MAIL_ADMIN_TO"`
}

type HubSpotConfig struct {
	Token   string `env:"HUBSPOT_TOKEN"`
	BaseURL string `env:"HUBSPOT_URL" envDefault:"https://api.hubapi.com"`
}

type ZohoConfig struct {
	Token   string `env:"ZOHO_TOKEN"`
	BaseURL string `env:"ZOHO_URL" envDefault:"https://www.zohoapis.com/crm/v2"`
}

type KommoConfig struct {
	Token    string `env:"KOMMO_API_TOKEN"`
	BaseURL  string `env:"KOMMO_URL"`
	StatusID int    `env:"KOMMO_STATUS_ID"`
}

type WhatsAppConfig struct {
	Token    string `env:"WHATSAPP_ACCESS_TOKEN"`
	PhoneID  string `env:"WHATSAPP_PHONE_ID"`
	Template string `env:"WHATSAPP_TEMPLATE" envDefault:"lead_welcome"`
	Language string `env:"WHATSAPP_LANGUAGE" envDefault:"en_US"`
	BaseURL  string `env:"WHATSAPP_URL" envDefault:"https://graph.facebook.com/v18.0"`
}

type FacebookConfig struct {
	PixelID string `env:"FACEBOOK_PIXEL_ID"`
	Token   string `env:"FACEBOOK_TOKEN"`
	BaseURL string `env:"FACEBOOK_URL" envDefault:"https://graph.facebook.com/v18.0"`
}

// Load reads an optional .env file and parses the environment.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}

// InterestDictionary maps an interest key to the keywords that trigger it.
type InterestDictionary map[string][]string

func DefaultInterests() InterestDictionary {
	return InterestDictionary{
		"pricing":   {"price", "pricing", "quote", "cost", "prix", "devis", "tarif"},
		"shipping":  {"shipping", "delivery", "livraison", "expedition"},
		"wholesale": {"wholesale", "bulk", "reseller", "gros", "revendeur"},
		"support":   {"help", "support", "problem", "issue", "aide"},
		"product":   {"product", "catalog", "stock", "produit"},
	}
}

// LoadInterests reads the keyword dictionary from a YAML file. An empty path
// yields the built-in dictionary.
func LoadInterests(path string) (InterestDictionary, error) {
	if path == "" {
		return DefaultInterests(), nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read interests file: %w", err)
	}
	var dict InterestDictionary
	if err := yaml.Unmarshal(raw, &dict); err != nil {
		return nil, fmt.Errorf("decode interests file: %w", err)
	}
	return dict, nil
}

type CarrierSpec struct {
	ID        string       `yaml:"id"`
	Name      string       `yaml:"name"`
	Kind      string       `yaml:"kind"`
	Countries []string     `yaml:"countries"`
	CostCents int          `yaml:"cost_cents"`
	Days      int          `yaml:"days"`
	Threshold int          `yaml:"threshold_cents"`
	Tiers     []WeightTier `yaml:"tiers"`
}

type WeightTier struct {
	MaxKg     float64 `yaml:"max_kg"`
	CostCents int     `yaml:"cost_cents"`
}

type CarriersFile struct {
	Carriers []CarrierSpec `yaml:"carriers"`
}

func DefaultCarriers() []CarrierSpec {
	return []CarrierSpec{
		{ID: "flat", Name: "Standard", Kind: "flat", CostCents: 590, Days: 4},
		{ID: "express", Name: "Express", Kind: "weight", Days: 1, Tiers: []WeightTier{
			{MaxKg: 1, CostCents: 990},
			{MaxKg: 5, CostCents: 1590},
			{MaxKg: 30, CostCents: 2990},
		}},
		{ID: "free", Name: "Free shipping", Kind: "free_over", Threshold: 10000, Days: 5},
	}
}

func LoadCarriers(path string) ([]CarrierSpec, error) {
	if path == "" {
		return DefaultCarriers(), nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read carriers file: %w", err)
	}
	var f CarriersFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("decode carriers file: %w", err)
	}
	return f.Carriers, nil
}

// FieldsFromYAML decodes a list of form fields, used by the CLI form import.
func FieldsFromYAML(raw []byte) ([]entity.FormField, error) {
	var fields []entity.FormField
	if err := yaml.Unmarshal(raw, &fields); err != nil {
		return nil, err
	}
	return fields, nil
}
