// SPDX-FileCopyrightText: Copyright (c) 2023-2026, Devim, LLC or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// Package inventory implements the in-memory host/group model and its
// serialization to the Ansible dynamic inventory JSON format.
//
// The model is rebuilt from scratch on every run. All mutating operations are
// idempotent: re-adding an existing group, host, membership, or child edge is
// a no-op, so duplicate upstream resources never produce duplicate entries.
package inventory

import (
	"encoding/json"
	"slices"
)

// Group is a named collection of hosts and child groups.
type Group struct {
	Hosts    []string       `json:"hosts,omitempty"`
	Children []string       `json:"children,omitempty"`
	Vars     map[string]any `json:"vars,omitempty"`
}

// Inventory is the mutable host/group forest populated by the discovery walk.
type Inventory struct {
	groups   map[string]*Group
	hostVars map[string]map[string]any
}

// New returns an empty inventory.
func New() *Inventory {
	return &Inventory{
		groups:   make(map[string]*Group),
		hostVars: make(map[string]map[string]any),
	}
}

// AddGroup creates the named group. Creating an existing group is a no-op.
func (inv *Inventory) AddGroup(name string) {
	if _, ok := inv.groups[name]; ok {
		return
	}
	inv.groups[name] = &Group{}
}

// AddGroupChild records child as a subgroup of parent, creating both groups
// if needed. Duplicate edges are ignored.
func (inv *Inventory) AddGroupChild(parent, child string) {
	inv.AddGroup(parent)
	inv.AddGroup(child)
	g := inv.groups[parent]
	if slices.Contains(g.Children, child) {
		return
	}
	g.Children = append(g.Children, child)
}

// AddHost registers a host. Re-adding an existing host keeps its variables.
func (inv *Inventory) AddHost(name string) {
	if _, ok := inv.hostVars[name]; ok {
		return
	}
	inv.hostVars[name] = make(map[string]any)
}

// SetHostVariable sets a variable on a host, registering the host if needed.
func (inv *Inventory) SetHostVariable(host, key string, value any) {
	inv.AddHost(host)
	inv.hostVars[host][key] = value
}

// AddHostToGroup places a host into a group, creating both if needed.
// Duplicate memberships are ignored.
func (inv *Inventory) AddHostToGroup(host, group string) {
	inv.AddHost(host)
	inv.AddGroup(group)
	g := inv.groups[group]
	if slices.Contains(g.Hosts, host) {
		return
	}
	g.Hosts = append(g.Hosts, host)
}

// HasGroup reports whether the named group exists.
func (inv *Inventory) HasGroup(name string) bool {
	_, ok := inv.groups[name]
	return ok
}

// Group returns the named group, or nil if it does not exist.
func (inv *Inventory) Group(name string) *Group {
	return inv.groups[name]
}

// HostVars returns the variables for a host. Unknown hosts yield an empty
// map, matching what Ansible expects from `--host` for a foreign name.
func (inv *Inventory) HostVars(host string) map[string]any {
	if vars, ok := inv.hostVars[host]; ok {
		return vars
	}
	return map[string]any{}
}

// meta is the `_meta` object of the dynamic inventory format. Shipping all
// host variables here saves Ansible one `--host` call per host.
type meta struct {
	HostVars map[string]map[string]any `json:"hostvars"`
}

// MarshalJSON renders the inventory in the Ansible dynamic inventory format:
// a `_meta.hostvars` map plus one object per group.
func (inv *Inventory) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(inv.groups)+1)
	out["_meta"] = meta{HostVars: inv.hostVars}
	for name, group := range inv.groups {
		out[name] = group
	}
	return json.Marshal(out)
}
