package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"

	"github.com/ETAnderson/merchantfeed/internal/db"
	"github.com/ETAnderson/merchantfeed/internal/feed"
)

var ErrRowSourceNotConfigured = errors.New("row source is not configured")

type Config struct {
	Env       string `yaml:"env" env:"ENV" env-default:"dev"`
	Port      string `yaml:"port" env:"PORT" env-default:"8080"`
	LogLevel  string `yaml:"log_level" env:"LOG_LEVEL" env-default:"info"`
	LogFormat string `yaml:"log_format" env:"LOG_FORMAT" env-default:"text"` // text | json

	Database Database `yaml:"database"`
	Cache    Cache    `yaml:"cache"`
	Upload   Upload   `yaml:"upload"`
	Feed     Feed     `yaml:"feed"`
}

type Database struct {
	Driver string `yaml:"driver" env:"ROW_SOURCE_DRIVER" env-default:"mysql"` // mysql | postgres | sqlite
	DSN    string `yaml:"dsn" env:"DB_DSN"`

	// Used to build a mysql DSN when DB_DSN is empty.
	Host     string `yaml:"host" env:"DB_HOST"`
	Port     int    `yaml:"port" env:"DB_PORT" env-default:"3306"`
	User     string `yaml:"user" env:"DB_USER"`
	Password string `yaml:"password" env:"DB_PASSWORD"`
	Name     string `yaml:"name" env:"DB_NAME"`

	QueryPath string `yaml:"query_path" env:"QUERY_SQL_PATH" env-default:"query.sql"`
}

type Cache struct {
	Path         string        `yaml:"path" env:"FEED_CACHE_PATH" env-default:"outputs/product_feed.xml"`
	Seconds      int           `yaml:"seconds" env:"FEED_CACHE_SECONDS" env-default:"900"`
	WarmInterval time.Duration `yaml:"warm_interval" env:"FEED_WARM_INTERVAL" env-default:"0s"`
}

type Upload struct {
	MaxBytes      int64   `yaml:"max_bytes" env:"UPLOAD_MAX_BYTES" env-default:"20971520"`
	RatePerMinute float64 `yaml:"rate_per_minute" env:"CONVERT_RATE_PER_MINUTE" env-default:"30"`
	Burst         int     `yaml:"burst" env:"CONVERT_BURST" env-default:"5"`
}

type Feed struct {
	ShopName           string `yaml:"shop_name" env:"SHOP_NAME" env-required:"true"`
	SiteURL            string `yaml:"site_url" env:"SITE_URL" env-required:"true"`
	ChannelDescription string `yaml:"channel_description" env:"CHANNEL_DESCRIPTION" env-default:"Product feed"`

	ProductURLTemplate string `yaml:"product_url_template" env:"PRODUCT_URL_TEMPLATE"`
	ImageURLTemplate   string `yaml:"image_url_template" env:"IMAGE_URL_TEMPLATE"`

	Currency    string  `yaml:"currency" env:"CURRENCY" env-required:"true"`
	PriceColumn string  `yaml:"price_column" env:"PRICE_COLUMN" env-default:"final_price_tax_excluded"`
	AddVAT      bool    `yaml:"add_vat" env:"ADD_VAT" env-default:"false"`
	VATRate     float64 `yaml:"vat_rate" env:"VAT_RATE" env-default:"23"`

	AvailabilityDefault string   `yaml:"availability_default" env:"AVAILABILITY_DEFAULT" env-default:"out_of_stock"`
	BackorderModes      []string `yaml:"backorder_stock_modes" env:"BACKORDER_STOCK_MODES" env-separator:","`
	ConditionDefault    string   `yaml:"condition_default" env:"CONDITION_DEFAULT" env-default:"new"`

	BrandDefault          string `yaml:"brand_default" env:"BRAND_DEFAULT"`
	GoogleProductCategory string `yaml:"google_product_category" env:"GOOGLE_PRODUCT_CATEGORY"`
	ProductTypeFrom       string `yaml:"product_type_from" env:"PRODUCT_TYPE_FROM" env-default:"category_slug"`

	ShippingCountry string `yaml:"shipping_country" env:"SHIPPING_COUNTRY"`
	ShippingService string `yaml:"shipping_service" env:"SHIPPING_SERVICE"`
	ShippingPrice   string `yaml:"shipping_price" env:"SHIPPING_PRICE"`

	AdditionalImagesColumn string `yaml:"additional_images_column" env:"ADDITIONAL_IMAGES_COLUMN" env-default:"additional_image_ids"`
	MaxAdditionalImages    int    `yaml:"max_additional_images" env:"MAX_ADDITIONAL_IMAGES" env-default:"10"`
}

// Load reads .env (if present), then CONFIG_PATH (if set), then the
// environment. Environment values win over the file.
func Load() (Config, error) {
	_ = godotenv.Load()

	var cfg Config
	var err error
	if path := os.Getenv("CONFIG_PATH"); path != "" {
		err = cleanenv.ReadConfig(path, &cfg)
	} else {
		err = cleanenv.ReadEnv(&cfg)
	}
	if err != nil {
		return Config{}, fmt.Errorf("load config: %w", err)
	}

	if cfg.Cache.Seconds < 0 {
		cfg.Cache.Seconds = 0
	}
	return cfg, nil
}

// Validate reports every problem with the feed settings at once.
func (c Config) Validate() error {
	return feed.ValidateConfig(c.FeedConfig()).Err()
}

func (c Cache) TTL() time.Duration {
	return time.Duration(c.Seconds) * time.Second
}

// FeedConfig maps the feed section onto feed.Config. Link templates default
// to the shop's standard URL layout under SiteURL.
func (c Config) FeedConfig() feed.Config {
	f := c.Feed
	site := strings.TrimRight(f.SiteURL, "/")

	productTmpl := f.ProductURLTemplate
	if productTmpl == "" && site != "" {
		productTmpl = site + "/{category_slug}/{id_product}-{id_product_attribute}-{link_rewrite}.html"
	}
	imageTmpl := f.ImageURLTemplate
	if imageTmpl == "" && site != "" {
		imageTmpl = site + "/{id_image}-large_default/{link_rewrite}.jpg"
	}

	return feed.Config{
		ShopName:               f.ShopName,
		SiteLink:               f.SiteURL,
		ChannelDescription:     f.ChannelDescription,
		ProductURLTemplate:     productTmpl,
		ImageURLTemplate:       imageTmpl,
		Currency:               f.Currency,
		PriceColumn:            f.PriceColumn,
		AddVAT:                 f.AddVAT,
		VATRate:                f.VATRate,
		AvailabilityDefault:    f.AvailabilityDefault,
		BackorderModes:         f.BackorderModes,
		ConditionDefault:       f.ConditionDefault,
		BrandDefault:           f.BrandDefault,
		GoogleProductCategory:  f.GoogleProductCategory,
		ProductTypeFrom:        f.ProductTypeFrom,
		ShippingCountry:        f.ShippingCountry,
		ShippingService:        f.ShippingService,
		ShippingPrice:          f.ShippingPrice,
		AdditionalImagesColumn: f.AdditionalImagesColumn,
		MaxAdditionalImages:    f.MaxAdditionalImages,
	}
}

// DBConfig resolves the connection settings for the row source. An explicit
// DSN wins; otherwise mysql settings are assembled from the DB_* values.
func (d Database) DBConfig() (db.Config, error) {
	driver := strings.ToLower(strings.TrimSpace(d.Driver))
	if driver == "" {
		driver = db.DriverMySQL
	}

	if d.DSN != "" {
		return db.Config{Driver: driver, DSN: d.DSN}, nil
	}
	if driver != db.DriverMySQL {
		return db.Config{}, fmt.Errorf("%w: missing DB_DSN", ErrRowSourceNotConfigured)
	}

	var missing []string
	for _, kv := range []struct{ name, value string }{
		{"DB_HOST", d.Host},
		{"DB_USER", d.User},
		{"DB_PASSWORD", d.Password},
		{"DB_NAME", d.Name},
	} {
		if kv.value == "" {
			missing = append(missing, kv.name)
		}
	}
	if len(missing) > 0 {
		return db.Config{}, fmt.Errorf("%w: missing %s", ErrRowSourceNotConfigured, strings.Join(missing, ", "))
	}

	return db.Config{
		Driver: db.DriverMySQL,
		DSN: db.MySQLDSN(db.MySQLParams{
			Host:     d.Host,
			Port:     d.Port,
			User:     d.User,
			Password: d.Password,
			Name:     d.Name,
		}),
	}, nil
}
