package config

import (
	"os"
	"strconv"
	"time"
)

// Config junta todo lo que main necesita para armar el proceso.
// Todo sale de env; los zero values activan los modos degradados
// (repos en memoria, auth dev, sin rate limit, sin notificaciones).
type Config struct {
	Port string

	DBDSN string

	JWTSecret string
	JWTTTL    time.Duration

	RedisAddr     string
	RedisPassword string
	RateLimit     int
	RateWindow    time.Duration

	AMQPURL   string
	AMQPQueue string

	PixKey          string
	PixMerchantName string
	PixMerchantCity string

	StripeSecretKey     string
	StripeWebhookSecret string
	StripeSuccessURL    string
	StripeCancelURL     string
}

func Load() Config {
	return Config{
		Port: getenv("PORT", "8080"),

		DBDSN: os.Getenv("DB_DSN"),

		JWTSecret: os.Getenv("JWT_SECRET"),
		JWTTTL:    getenvDuration("JWT_TTL", 7*24*time.Hour),

		RedisAddr:     os.Getenv("REDIS_ADDR"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
		RateLimit:     getenvInt("RATE_LIMIT", 10),
		RateWindow:    getenvDuration("RATE_WINDOW", time.Minute),

		AMQPURL:   os.Getenv("AMQP_URL"),
		AMQPQueue: getenv("AMQP_QUEUE", "ong.notifications"),

		PixKey:          os.Getenv("PIX_KEY"),
		PixMerchantName: getenv("PIX_MERCHANT_NAME", "ONG AMIGO DOS AMIGOS"),
		PixMerchantCity: getenv("PIX_MERCHANT_CITY", "SAO PAULO"),

		StripeSecretKey:     os.Getenv("STRIPE_SECRET_KEY"),
		StripeWebhookSecret: os.Getenv("STRIPE_WEBHOOK_SECRET"),
		StripeSuccessURL:    os.Getenv("STRIPE_SUCCESS_URL"),
		StripeCancelURL:     os.Getenv("STRIPE_CANCEL_URL"),
	}
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

func getenvDuration(key string, def time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return def
	}
	return d
}
