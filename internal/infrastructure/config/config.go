package config

import (
	"fmt"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/spf13/viper"
)

const (
	DriverDynamoDB = "dynamodb"
	DriverMySQL    = "mysql"
)

type Config struct {
	Env         string
	HTTPPort    string
	Timezone    string
	StoreDriver string
	MySQLDSN    string
	GatewayMock bool

	AWS       AWSConfig
	Tables    TableNames
	JWT       JWTConfig
	Providers ProviderSecrets
	Kafka     KafkaConfig
}

type AWSConfig struct {
	Region          string
	Endpoint        string
	AccessKeyID     string
	SecretAccessKey string
}

type TableNames struct {
	Payments   string
	Orders     string
	OrderItems string
	Products   string
	UserRoles  string
	Coupons    string
	Addresses  string
}

type JWTConfig struct {
	Secret string
	Issuer string
}

type ProviderSecrets struct {
	VNPayHashSecret          string
	MoMoSecretKey            string
	MoMoAccessKey            string
	MercadoPagoAccessToken   string
	MercadoPagoWebhookSecret string
}

type KafkaConfig struct {
	Brokers  []string
	Topic    string
	ClientID string
}

var defaults = map[string]interface{}{
	"app_env":               "production",
	"http_port":             "8080",
	"app_timezone":          "Asia/Ho_Chi_Minh",
	"store_driver":          DriverDynamoDB,
	"aws_region":            "us-east-1",
	"aws_access_key_id":     "local",
	"aws_secret_access_key": "local",
	"payments_table":        "payments",
	"orders_table":          "orders",
	"order_items_table":     "order_items",
	"products_table":        "products",
	"user_roles_table":      "user_roles",
	"coupons_table":         "coupons",
	"addresses_table":       "addresses",
	"kafka_topic":           "storefront.billing.events",
	"kafka_client_id":       "storefront-billing",
}

// Load reads defaults, then the optional YAML file named by CONFIG_FILE, then the environment.
func Load() (Config, error) {
	v := viper.New()
	for k, val := range defaults {
		v.SetDefault(k, val)
	}
	v.AutomaticEnv()

	if path := v.GetString("config_file"); path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config file %s: %w", path, err)
		}
	}

	cfg := Config{
		Env:         v.GetString("app_env"),
		HTTPPort:    v.GetString("http_port"),
		Timezone:    v.GetString("app_timezone"),
		StoreDriver: strings.ToLower(v.GetString("store_driver")),
		MySQLDSN:    v.GetString("mysql_dsn"),
		GatewayMock: v.GetBool("payment_gateway_mock") || v.GetBool("mercadopago_mock"),
		AWS: AWSConfig{
			Region:          v.GetString("aws_region"),
			Endpoint:        v.GetString("dynamodb_endpoint"),
			AccessKeyID:     v.GetString("aws_access_key_id"),
			SecretAccessKey: v.GetString("aws_secret_access_key"),
		},
		Tables: TableNames{
			Payments:   v.GetString("payments_table"),
			Orders:     v.GetString("orders_table"),
			OrderItems: v.GetString("order_items_table"),
			Products:   v.GetString("products_table"),
			UserRoles:  v.GetString("user_roles_table"),
			Coupons:    v.GetString("coupons_table"),
			Addresses:  v.GetString("addresses_table"),
		},
		JWT: JWTConfig{
			Secret: v.GetString("jwt_secret"),
			Issuer: v.GetString("jwt_issuer"),
		},
		Providers: ProviderSecrets{
			VNPayHashSecret:          v.GetString("vnpay_hash_secret"),
			MoMoSecretKey:            v.GetString("momo_secret_key"),
			MoMoAccessKey:            v.GetString("momo_access_key"),
			MercadoPagoAccessToken:   v.GetString("mercadopago_access_token"),
			MercadoPagoWebhookSecret: v.GetString("mercadopago_webhook_secret"),
		},
		Kafka: KafkaConfig{
			Brokers:  splitList(v.GetString("kafka_brokers")),
			Topic:    v.GetString("kafka_topic"),
			ClientID: v.GetString("kafka_client_id"),
		},
	}

	if cfg.StoreDriver != DriverDynamoDB && cfg.StoreDriver != DriverMySQL {
		return Config{}, fmt.Errorf("unsupported STORE_DRIVER %q", cfg.StoreDriver)
	}
	if cfg.StoreDriver == DriverMySQL && cfg.MySQLDSN == "" {
		return Config{}, fmt.Errorf("MYSQL_DSN is required when STORE_DRIVER=mysql")
	}
	if _, err := cfg.Location(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Location resolves the business time zone used for day boundaries.
func (c Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid APP_TIMEZONE %q: %w", c.Timezone, err)
	}
	return loc, nil
}

func (c Config) Development() bool {
	return strings.EqualFold(c.Env, "development")
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
