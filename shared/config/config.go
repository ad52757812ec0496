package config

import (
	"strings"

	"github.com/spf13/viper"
)

// Role names accepted by the ROLE setting. Any other value runs the
// orchestrator, matching the original deployment default.
const (
	RolePayment      = "payment"
	RoleInventory    = "inventory"
	RoleDelivery     = "delivery"
	RoleOrchestrator = "order"
)

// Config holds all process configuration, read once at startup.
type Config struct {
	ServiceName  string
	Env          string
	Port         string
	Role         string
	Participants Participants
	Telemetry    Telemetry
}

// Participants holds the base URLs of the three downstream services.
type Participants struct {
	PaymentURL   string
	InventoryURL string
	DeliveryURL  string
}

// Telemetry holds observability settings.
type Telemetry struct {
	OTLPEndpoint string
}

// Read loads configuration from the environment with Viper.
func Read() *Config {
	viper.AutomaticEnv()

	viper.SetDefault("SERVICE_NAME", "reservation-service")
	viper.SetDefault("ENV", "local")
	viper.SetDefault("PORT", "8000")
	viper.SetDefault("ROLE", RoleOrchestrator)
	viper.SetDefault("PAYMENT_URL", "http://payment-service:8000")
	viper.SetDefault("INVENTORY_URL", "http://inventory-service:8000")
	viper.SetDefault("DELIVERY_URL", "http://delivery-service:8000")
	viper.SetDefault("OTLP_ENDPOINT", "localhost:4318")

	return &Config{
		ServiceName: viper.GetString("SERVICE_NAME"),
		Env:         viper.GetString("ENV"),
		Port:        viper.GetString("PORT"),
		Role:        strings.ToLower(viper.GetString("ROLE")),
		Participants: Participants{
			PaymentURL:   viper.GetString("PAYMENT_URL"),
			InventoryURL: viper.GetString("INVENTORY_URL"),
			DeliveryURL:  viper.GetString("DELIVERY_URL"),
		},
		Telemetry: Telemetry{
			OTLPEndpoint: viper.GetString("OTLP_ENDPOINT"),
		},
	}
}

// IsParticipant reports whether the configured role is one of the three
// participant services.
func (c *Config) IsParticipant() bool {
	switch c.Role {
	case RolePayment, RoleInventory, RoleDelivery:
		return true
	}
	return false
}
