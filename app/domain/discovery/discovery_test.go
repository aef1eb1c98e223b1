// SPDX-FileCopyrightText: Copyright (c) 2023-2026, Devim, LLC or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package discovery_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/devim-tools/yc-inventory/app/api"
	"github.com/devim-tools/yc-inventory/app/domain/discovery"
	"github.com/devim-tools/yc-inventory/app/inventory"
)

// newFakeCloud serves one cloud ("c1" → "Prod Cloud") with one folder
// ("f1" → "Web") containing the given instances.
func newFakeCloud(t *testing.T, instances string) *httptest.Server {
	t.Helper()

	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "Bearer test-token", r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "application/json")

		switch r.URL.Path {
		case "/resource-manager/v1/clouds/c1":
			w.Write([]byte(`{"id": "c1", "name": "Prod Cloud"}`))
		case "/resource-manager/v1/folders":
			require.Equal(t, "c1", r.URL.Query().Get("cloudId"))
			w.Write([]byte(`{"folders": [{"id": "f1", "cloudId": "c1"}]}`))
		case "/resource-manager/v1/folders/f1":
			w.Write([]byte(`{"id": "f1", "name": "Web"}`))
		case "/compute/v1/instances":
			require.Equal(t, "f1", r.URL.Query().Get("folderId"))
			w.Write([]byte(instances))
		default:
			http.NotFound(w, r)
		}
	}))
}

func buildFromServer(t *testing.T, server *httptest.Server, cloudIDs []string) *inventory.Inventory {
	t.Helper()

	client := api.NewClient(server.URL+"/resource-manager/v1", server.URL+"/compute/v1", "test-token")
	inv, err := discovery.New(client).Build(context.Background(), cloudIDs)
	require.NoError(t, err)
	return inv
}

func inventoryJSON(t *testing.T, inv *inventory.Inventory) map[string]any {
	t.Helper()

	raw, err := json.Marshal(inv)
	require.NoError(t, err)

	var got map[string]any
	require.NoError(t, json.Unmarshal(raw, &got))
	return got
}

func TestBuild_EndToEnd_NoLabels(t *testing.T) {
	server := newFakeCloud(t, `{
		"instances": [
			{
				"name": "vm-01",
				"networkInterfaces": [{"primaryV4Address": {"address": "10.0.0.5"}}]
			}
		]
	}`)
	defer server.Close()

	inv := buildFromServer(t, server, []string{"c1"})

	want := map[string]any{
		"_meta": map[string]any{
			"hostvars": map[string]any{
				"vm-01": map[string]any{"ansible_host": "10.0.0.5"},
			},
		},
		"prod_cloud": map[string]any{
			"children": []any{"web"},
		},
		"web": map[string]any{
			"hosts": []any{"vm-01"},
		},
	}

	if diff := cmp.Diff(want, inventoryJSON(t, inv)); diff != "" {
		t.Errorf("inventory mismatch (-want +got):\n%s", diff)
	}
}

func TestBuild_EndToEnd_WithLabels(t *testing.T) {
	server := newFakeCloud(t, `{
		"instances": [
			{
				"name": "vm-01",
				"networkInterfaces": [{"primaryV4Address": {"address": "10.0.0.5"}}],
				"labels": {"env": "prod", "tier": "front"}
			}
		]
	}`)
	defer server.Close()

	inv := buildFromServer(t, server, []string{"c1"})

	// the host lives in one group per label value, not in the folder group
	want := map[string]any{
		"_meta": map[string]any{
			"hostvars": map[string]any{
				"vm-01": map[string]any{"ansible_host": "10.0.0.5"},
			},
		},
		"prod_cloud": map[string]any{
			"children": []any{"web"},
		},
		"web": map[string]any{
			"children": []any{"web_front", "web_prod"},
		},
		"web_prod": map[string]any{
			"hosts": []any{"vm-01"},
		},
		"web_front": map[string]any{
			"hosts": []any{"vm-01"},
		},
	}

	if diff := cmp.Diff(want, inventoryJSON(t, inv)); diff != "" {
		t.Errorf("inventory mismatch (-want +got):\n%s", diff)
	}
}

func TestBuild_DuplicateCloudIDs(t *testing.T) {
	server := newFakeCloud(t, `{"instances": []}`)
	defer server.Close()

	inv := buildFromServer(t, server, []string{"c1", "c1"})

	got := inventoryJSON(t, inv)
	assert.Len(t, got, 3) // _meta, prod_cloud, web
	assert.Equal(t, []any{"web"}, got["prod_cloud"].(map[string]any)["children"])
}

func TestBuild_SkipsInstanceWithoutInterfaces(t *testing.T) {
	server := newFakeCloud(t, `{
		"instances": [
			{"name": "vm-headless", "networkInterfaces": []},
			{
				"name": "vm-01",
				"networkInterfaces": [{"primaryV4Address": {"address": "10.0.0.5"}}]
			}
		]
	}`)
	defer server.Close()

	inv := buildFromServer(t, server, []string{"c1"})

	assert.Equal(t, []string{"vm-01"}, inv.Group("web").Hosts)
	assert.Empty(t, inv.HostVars("vm-headless"))
}

func TestBuild_AbortsOnAPIError(t *testing.T) {
	calls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		http.Error(w, "unavailable", http.StatusServiceUnavailable)
	}))
	defer server.Close()

	client := api.NewClient(server.URL+"/resource-manager/v1", server.URL+"/compute/v1", "test-token")
	_, err := discovery.New(client).Build(context.Background(), []string{"c1", "c2"})

	require.Error(t, err)
	assert.ErrorIs(t, err, api.ErrRequestFailed)
	// no partial-result mode: the first failure stops the walk
	assert.Equal(t, 1, calls)
}

func TestBuild_LabelValueSanitized(t *testing.T) {
	server := newFakeCloud(t, `{
		"instances": [
			{
				"name": "vm-01",
				"networkInterfaces": [{"primaryV4Address": {"address": "10.0.0.5"}}],
				"labels": {"role": "Load Balancer"}
			}
		]
	}`)
	defer server.Close()

	inv := buildFromServer(t, server, []string{"c1"})

	require.True(t, inv.HasGroup("web_load_balancer"))
	assert.Equal(t, []string{"vm-01"}, inv.Group("web_load_balancer").Hosts)
}

func TestBuild_MultipleHostsShareLabelGroup(t *testing.T) {
	server := newFakeCloud(t, `{
		"instances": [
			{
				"name": "vm-01",
				"networkInterfaces": [{"primaryV4Address": {"address": "10.0.0.5"}}],
				"labels": {"env": "prod"}
			},
			{
				"name": "vm-02",
				"networkInterfaces": [{"primaryV4Address": {"address": "10.0.0.6"}}],
				"labels": {"env": "prod"}
			}
		]
	}`)
	defer server.Close()

	inv := buildFromServer(t, server, []string{"c1"})

	assert.Equal(t, []string{"vm-01", "vm-02"}, inv.Group("web_prod").Hosts)
	// the folder group holds only the label group, never the labeled hosts
	assert.Empty(t, inv.Group("web").Hosts)
	assert.Equal(t, []string{"web_prod"}, inv.Group("web").Children)
}
