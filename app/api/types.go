// SPDX-FileCopyrightText: Copyright (c) 2023-2026, Devim, LLC or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package api

// Folder is a second-tier resource grouping nested under a cloud.
type Folder struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	CloudID string `json:"cloudId"`
}

// Instance is a compute instance owned by a folder. Labels may be absent
// upstream; an absent map decodes as nil and is treated as empty.
type Instance struct {
	Name              string             `json:"name"`
	NetworkInterfaces []NetworkInterface `json:"networkInterfaces"`
	Labels            map[string]string  `json:"labels"`
}

// NetworkInterface carries the primary IPv4 address of an instance interface.
type NetworkInterface struct {
	PrimaryV4Address PrimaryV4Address `json:"primaryV4Address"`
}

type PrimaryV4Address struct {
	Address string `json:"address"`
}

type cloudResponse struct {
	Name string `json:"name"`
}

type folderResponse struct {
	Name string `json:"name"`
}

type foldersResponse struct {
	Folders []Folder `json:"folders"`
}

type instancesResponse struct {
	Instances []Instance `json:"instances"`
}
