// SPDX-FileCopyrightText: Copyright (c) 2023-2026, Devim, LLC or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// Package discovery walks the cloud → folder → instance hierarchy and
// materializes it as an inventory of groups and hosts.
//
// The walk is fully sequential: clouds, folders, and instances are processed
// in the order the API returns them, and the first error aborts the whole run
// with no partial result.
package discovery

import (
	"context"
	"sort"

	"github.com/rs/zerolog/log"

	"github.com/devim-tools/yc-inventory/app/api"
	"github.com/devim-tools/yc-inventory/app/inventory"
)

// API is the slice of the cloud API the walker needs.
type API interface {
	CloudName(ctx context.Context, cloudID string) (string, error)
	Folders(ctx context.Context, cloudID string) ([]api.Folder, error)
	FolderName(ctx context.Context, folderID string) (string, error)
	Instances(ctx context.Context, folderID string) ([]api.Instance, error)
}

// Discoverer builds inventories from the cloud hierarchy.
type Discoverer struct {
	api API
}

// New creates a Discoverer over the given API client.
func New(client API) *Discoverer {
	return &Discoverer{api: client}
}

// Build walks every configured cloud and returns the populated inventory.
func (d *Discoverer) Build(ctx context.Context, cloudIDs []string) (*inventory.Inventory, error) {
	inv := inventory.New()

	for _, cloudID := range cloudIDs {
		if err := d.walkCloud(ctx, inv, cloudID); err != nil {
			return nil, err
		}
	}

	return inv, nil
}

func (d *Discoverer) walkCloud(ctx context.Context, inv *inventory.Inventory, cloudID string) error {
	cloudName, err := d.api.CloudName(ctx, cloudID)
	if err != nil {
		return err
	}
	cloudGroup := inventory.ToSafeGroupName(cloudName)
	inv.AddGroup(cloudGroup)

	log.Ctx(ctx).Debug().Str("cloud", cloudID).Str("group", cloudGroup).Msg("walking cloud")

	folders, err := d.api.Folders(ctx, cloudID)
	if err != nil {
		return err
	}

	for _, folder := range folders {
		if err := d.walkFolder(ctx, inv, cloudGroup, folder.ID); err != nil {
			return err
		}
	}

	return nil
}

func (d *Discoverer) walkFolder(ctx context.Context, inv *inventory.Inventory, cloudGroup, folderID string) error {
	folderName, err := d.api.FolderName(ctx, folderID)
	if err != nil {
		return err
	}
	folderGroup := inventory.ToSafeGroupName(folderName)
	inv.AddGroupChild(cloudGroup, folderGroup)

	instances, err := d.api.Instances(ctx, folderID)
	if err != nil {
		return err
	}

	for _, instance := range instances {
		d.addInstance(ctx, inv, folderGroup, instance)
	}

	return nil
}

// addInstance records one instance as a host. With labels present the host
// joins one `<folder>_<label-value>` group per distinct sanitized value and
// is not a direct member of the folder group; without labels it joins the
// folder group itself.
func (d *Discoverer) addInstance(ctx context.Context, inv *inventory.Inventory, folderGroup string, instance api.Instance) {
	if len(instance.NetworkInterfaces) == 0 {
		log.Ctx(ctx).Warn().Str("instance", instance.Name).Msg("instance has no network interfaces, skipping")
		return
	}
	address := instance.NetworkInterfaces[0].PrimaryV4Address.Address

	inv.AddHost(instance.Name)
	inv.SetHostVariable(instance.Name, "ansible_host", address)

	if len(instance.Labels) == 0 {
		inv.AddHostToGroup(instance.Name, folderGroup)
		return
	}

	// Label maps carry no order; sort the values so the emitted group
	// structure is stable across runs.
	values := make([]string, 0, len(instance.Labels))
	for _, value := range instance.Labels {
		values = append(values, value)
	}
	sort.Strings(values)

	for _, value := range values {
		labelGroup := folderGroup + "_" + inventory.ToSafeGroupName(value)
		inv.AddGroupChild(folderGroup, labelGroup)
		inv.AddHostToGroup(instance.Name, labelGroup)
	}
}
