// SPDX-FileCopyrightText: Copyright (c) 2023-2026, Devim, LLC or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// Package api implements a read-only client for the Yandex Cloud resource
// manager and compute APIs.
//
// Every call is a single authenticated GET: no retries, no pagination. Any
// transport error or non-2xx status is fatal to the caller's run, so errors
// carry the method, URL, and status for the surfaced message.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

const requestTimeout = 30 * time.Second

// ErrRequestFailed indicates a network error or non-2xx status on any API
// call. A missing resource and a temporarily unavailable one surface
// identically.
var ErrRequestFailed = errors.New("api request failed")

// Client issues authenticated requests against the resource manager and
// compute endpoints.
type Client struct {
	client             *http.Client
	resourceManagerURL string
	computeURL         string
	token              string
}

// NewClient creates a Client over the given API base URLs, authenticating
// every request with the bearer token.
func NewClient(resourceManagerURL, computeURL, token string) *Client {
	return &Client{
		client:             &http.Client{Timeout: requestTimeout},
		resourceManagerURL: resourceManagerURL,
		computeURL:         computeURL,
		token:              token,
	}
}

// CloudName fetches the display name of a cloud by id.
func (c *Client) CloudName(ctx context.Context, cloudID string) (string, error) {
	var resp cloudResponse
	if err := c.getJSON(ctx, c.resourceManagerURL+"/clouds/"+url.PathEscape(cloudID), &resp); err != nil {
		return "", err
	}
	return resp.Name, nil
}

// Folders lists the folders of a cloud, in API order.
func (c *Client) Folders(ctx context.Context, cloudID string) ([]Folder, error) {
	query := url.Values{}
	query.Set("cloudId", cloudID)

	var resp foldersResponse
	if err := c.getJSON(ctx, c.resourceManagerURL+"/folders?"+query.Encode(), &resp); err != nil {
		return nil, err
	}
	return resp.Folders, nil
}

// FolderName fetches the display name of a folder by id.
func (c *Client) FolderName(ctx context.Context, folderID string) (string, error) {
	var resp folderResponse
	if err := c.getJSON(ctx, c.resourceManagerURL+"/folders/"+url.PathEscape(folderID), &resp); err != nil {
		return "", err
	}
	return resp.Name, nil
}

// Instances lists the compute instances of a folder, in API order.
func (c *Client) Instances(ctx context.Context, folderID string) ([]Instance, error) {
	query := url.Values{}
	query.Set("folderId", folderID)

	var resp instancesResponse
	if err := c.getJSON(ctx, c.computeURL+"/instances?"+query.Encode(), &resp); err != nil {
		return nil, err
	}
	return resp.Instances, nil
}

// getJSON issues one authenticated GET and decodes the JSON body into out.
func (c *Client) getJSON(ctx context.Context, requestURL string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURL, nil)
	if err != nil {
		return fmt.Errorf("GET %s: %w", requestURL, err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("GET %s: %v: %w", requestURL, err, ErrRequestFailed)
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("GET %s: unexpected status %d: %w", requestURL, resp.StatusCode, ErrRequestFailed)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("GET %s: failed to decode response: %w", requestURL, err)
	}

	return nil
}
