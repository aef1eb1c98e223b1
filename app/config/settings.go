// SPDX-FileCopyrightText: Copyright (c) 2023-2026, Devim, LLC or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// Package config implements configuration management for the inventory tool.
//
// Configuration is loaded from YAML files with environment variable overrides
// (environment always wins). The only required settings are the three service
// account credentials and the list of cloud ids to walk; every endpoint has a
// production default and exists as a setting so that tests and private
// installations can point the tool elsewhere.
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Production API endpoints. Each is overridable via configuration.
const (
	DefaultIAMTokenEndpoint        = "https://iam.api.cloud.yandex.net/iam/v1/tokens"
	DefaultResourceManagerEndpoint = "https://resource-manager.api.cloud.yandex.net/resource-manager/v1"
	DefaultComputeEndpoint         = "https://compute.api.cloud.yandex.net/compute/v1"
)

// ErrMissingCredential indicates a required secret is absent from both the
// environment and the configuration files. It is always raised before any
// network call is made.
var ErrMissingCredential = errors.New("missing credential")

// Settings represents the complete configuration for an inventory run.
type Settings struct {
	// API holds the service account credentials and the clouds to walk
	API API `yaml:"api"`

	// Endpoints holds the Yandex Cloud API base URLs
	Endpoints Endpoints `yaml:"endpoints"`

	// Logging controls log output on stderr
	Logging Logging `yaml:"logging"`
}

// API is the credential and scope section of the configuration.
type API struct {
	ServiceAccountID string   `yaml:"service_account_id" env:"YC_SERVICE_ACCOUNT_ID" env-description:"service account that signs the token assertion"`
	PrivateKey       string   `yaml:"private_key" env:"YC_PRIVATE_KEY" env-description:"PEM encoded RSA private key of the service account"`
	KeyID            string   `yaml:"key_id" env:"YC_KEY_ID" env-description:"authorized key id attached to the assertion header"`
	CloudIDs         []string `yaml:"cloud_ids" env:"YC_CLOUD_IDS" env-description:"cloud ids to build the inventory from"`
}

// Endpoints holds the API base URLs. The IAM token endpoint is a full URL;
// the resource manager and compute endpoints are versioned bases that the API
// client appends paths to.
type Endpoints struct {
	IAMToken        string `yaml:"iam_token" env:"YC_IAM_TOKEN_ENDPOINT" env-description:"IAM token exchange URL"`
	ResourceManager string `yaml:"resource_manager" env:"YC_RESOURCE_MANAGER_ENDPOINT" env-description:"resource manager API base URL"`
	Compute         string `yaml:"compute" env:"YC_COMPUTE_ENDPOINT" env-description:"compute API base URL"`
}

type Logging struct {
	Level string `yaml:"level" default:"info" env:"LOG_LEVEL" env-description:"logging level such as debug, info, error"`
}

// NewSettings creates a Settings instance by loading each configuration file
// in order and applying environment variable overrides on top. When no files
// are given the configuration comes from the environment alone. The returned
// settings are already validated.
func NewSettings(configFiles ...string) (*Settings, error) {
	var cfg Settings

	for _, cfgFile := range configFiles {
		if cfgFile == "" {
			continue
		}

		if _, err := os.Stat(cfgFile); os.IsNotExist(err) {
			return nil, fmt.Errorf("no config %s", cfgFile)
		}

		if err := cleanenv.ReadConfig(cfgFile, &cfg); err != nil {
			return nil, fmt.Errorf("config read %s: %w", cfgFile, err)
		}
	}

	if len(configFiles) == 0 {
		if err := cleanenv.ReadEnv(&cfg); err != nil {
			return nil, errors.Wrap(err, "failed to read environment")
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "failed to validate settings")
	}

	return &cfg, nil
}

// Validate checks credentials, normalizes the private key, deduplicates the
// configured cloud ids, and fills in endpoint and logging defaults.
func (s *Settings) Validate() error {
	s.API.ServiceAccountID = strings.TrimSpace(s.API.ServiceAccountID)
	s.API.KeyID = strings.TrimSpace(s.API.KeyID)

	if s.API.ServiceAccountID == "" {
		return errors.Wrap(ErrMissingCredential, "service account id")
	}
	if strings.TrimSpace(s.API.PrivateKey) == "" {
		return errors.Wrap(ErrMissingCredential, "private key")
	}
	if s.API.KeyID == "" {
		return errors.Wrap(ErrMissingCredential, "key id")
	}

	// Keys delivered through environment variables or inline YAML commonly
	// carry literal "\n" sequences instead of newlines.
	s.API.PrivateKey = strings.ReplaceAll(s.API.PrivateKey, `\n`, "\n")

	s.API.CloudIDs = dedupe(s.API.CloudIDs)
	if len(s.API.CloudIDs) == 0 {
		return errors.New("no cloud ids configured")
	}

	if s.Endpoints.IAMToken == "" {
		s.Endpoints.IAMToken = DefaultIAMTokenEndpoint
	}
	if s.Endpoints.ResourceManager == "" {
		s.Endpoints.ResourceManager = DefaultResourceManagerEndpoint
	}
	if s.Endpoints.Compute == "" {
		s.Endpoints.Compute = DefaultComputeEndpoint
	}

	if s.Logging.Level == "" {
		s.Logging.Level = "info"
	}

	return nil
}

// dedupe removes duplicate ids while preserving first-seen order. Duplicate
// entries would only produce redundant API calls; the resulting inventory is
// identical either way.
func dedupe(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

func (s *Settings) ToYAML() ([]byte, error) {
	raw, err := yaml.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("failed to encode into yaml: %w", err)
	}
	return raw, nil
}

// ToBytes returns a serialized representation of the settings.
func (s *Settings) ToBytes() ([]byte, error) {
	return s.ToYAML()
}

// Files is a repeatable command line flag collecting configuration file paths.
type Files []string

func (c *Files) String() string {
	return strings.Join(*c, ",")
}

// Set appends a new configuration file to the Files
func (c *Files) Set(value string) error {
	*c = append(*c, value)
	return nil
}

// Type reports the flag value type for pflag-based commands.
func (c *Files) Type() string {
	return "file"
}
