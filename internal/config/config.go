// Package config defines the necessary types to configure the application.
// An example config file config.yaml is provided in the repository.
package config

import (
	"time"

	"github.com/openkcm/common-sdk/pkg/commoncfg"
)

type Config struct {
	commoncfg.BaseConfig `mapstructure:",squash" yaml:",inline"`

	HTTP HTTPServer `yaml:"http"`

	Database    Database    `yaml:"database"`
	ValKey      ValKey      `yaml:"valkey"`
	Seed        Seed        `yaml:"seed"`
	Storefront  Storefront  `yaml:"storefront"`
	Housekeeper Housekeeper `yaml:"housekeeper"`
}

type HTTPServer struct {
	Address         string        `yaml:"address" default:":8080"`
	ShutdownTimeout time.Duration `yaml:"shutdownTimeout" default:"5s"`
}

type Database struct {
	Name     string              `yaml:"name"`
	Port     string              `yaml:"port"`
	Host     commoncfg.SourceRef `yaml:"host"`
	User     commoncfg.SourceRef `yaml:"user"`
	Password commoncfg.SourceRef `yaml:"password"`
}

type ValKey struct {
	Host     commoncfg.SourceRef `yaml:"host"`
	User     commoncfg.SourceRef `yaml:"user"`
	Password commoncfg.SourceRef `yaml:"password"`
	Prefix   string              `yaml:"prefix" default:"storefront"`
}

// Storefront configures the session and cart stores plus the payment
// provider collaborator.
type Storefront struct {
	// SessionDuration is how long a login stays valid. The skew is added on
	// top so that a session created right before a full-hour boundary does
	// not flap on clients comparing wall clocks.
	SessionDuration time.Duration `yaml:"sessionDuration" default:"24h"`
	SessionSkew     time.Duration `yaml:"sessionSkew" default:"5s"`

	// CartRetention bounds how long an untouched cart survives in storage.
	CartRetention time.Duration `yaml:"cartRetention" default:"720h"`

	CSRFSecret commoncfg.SourceRef `yaml:"csrfSecret"`

	SessionCookieName string `yaml:"sessionCookieName" default:"storefront_client"`

	Payment Payment `yaml:"payment"`
}

// Payment configures the payment-intent provider client.
type Payment struct {
	IntentURL    string              `yaml:"intentURL"`
	ClientID     string              `yaml:"clientID"`
	ClientSecret commoncfg.SourceRef `yaml:"clientSecret"`
}

type Housekeeper struct {
	TriggerInterval time.Duration `yaml:"triggerInterval" default:"10m"`
}

type Seed struct {
	// File is the YAML catalog seed file loaded by the seed command.
	File string `yaml:"file" default:"./catalog.yaml"`
}
