// SPDX-FileCopyrightText: Copyright (c) 2023-2026, Devim, LLC or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// Package main implements the yc-inventory binary: an Ansible dynamic
// inventory source that walks the Yandex Cloud resource hierarchy
// (clouds → folders → instances) and prints the resulting host groups as
// dynamic inventory JSON on stdout. Logs go to stderr.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/devim-tools/yc-inventory/app/api"
	"github.com/devim-tools/yc-inventory/app/build"
	"github.com/devim-tools/yc-inventory/app/config"
	"github.com/devim-tools/yc-inventory/app/domain/discovery"
	"github.com/devim-tools/yc-inventory/app/iam"
	"github.com/devim-tools/yc-inventory/app/logging"
)

var (
	configFiles config.Files
	listHosts   bool
	hostName    string
)

var rootCmd = &cobra.Command{
	Use:   "yc-inventory",
	Short: "Ansible dynamic inventory for Yandex Cloud",
	Long: `Walks the Yandex Cloud hierarchy (clouds, folders, compute instances) and
prints an Ansible dynamic inventory: one group per cloud and folder, optional
label groups, and an ansible_host variable per instance.`,
	Version:      build.Version(),
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return run(cmd.Context())
	},
}

func init() {
	rootCmd.Flags().Var(&configFiles, "config", "Path to the configuration file(s), repeatable")
	rootCmd.Flags().BoolVar(&listHosts, "list", false, "Print the full inventory as JSON")
	rootCmd.Flags().StringVar(&hostName, "host", "", "Print the variables of a single host")
}

func run(ctx context.Context) error {
	settings, err := config.NewSettings(configFiles...)
	if err != nil {
		return fmt.Errorf("failed to load settings: %w", err)
	}

	logger, err := logging.NewLogger(
		logging.WithLevel(settings.Logging.Level),
	)
	if err != nil {
		return fmt.Errorf("failed to create the logger: %w", err)
	}
	zerolog.DefaultContextLogger = logger
	ctx = logger.WithContext(ctx)

	logger.Debug().
		Str("version", build.Version()).
		Strs("cloudIds", settings.API.CloudIDs).
		Msg("starting inventory build")

	token, err := iam.NewExchanger(settings.Endpoints.IAMToken).Token(ctx, iam.Credentials{
		ServiceAccountID: settings.API.ServiceAccountID,
		PrivateKey:       settings.API.PrivateKey,
		KeyID:            settings.API.KeyID,
	})
	if err != nil {
		return fmt.Errorf("failed to acquire IAM token: %w", err)
	}

	client := api.NewClient(settings.Endpoints.ResourceManager, settings.Endpoints.Compute, token)
	inv, err := discovery.New(client).Build(ctx, settings.API.CloudIDs)
	if err != nil {
		return fmt.Errorf("failed to build inventory: %w", err)
	}

	var out any = inv
	if hostName != "" {
		out = inv.HostVars(hostName)
	}

	enc, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode inventory: %w", err)
	}
	fmt.Println(string(enc))

	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.Error().Err(err).Msg("inventory build failed")
		os.Exit(1)
	}
}
