// SPDX-FileCopyrightText: Copyright (c) 2023-2026, Devim, LLC or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// Package iam exchanges service account credentials for a short-lived IAM
// bearer token.
//
// The exchange signs a PS256 JWT assertion (issuer = service account id,
// audience = the token endpoint, 360 second lifetime, key id in the header)
// and posts it to the IAM token endpoint. The token is acquired once per run
// and never refreshed; a run is expected to finish well inside the token's
// validity window.
package iam

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// AssertionLifetime is the validity window of the signed assertion.
const AssertionLifetime = 360 * time.Second

const requestTimeout = 10 * time.Second

var (
	// ErrNoToken indicates the exchange succeeded at the transport level but
	// the response carried no usable token.
	ErrNoToken = errors.New("token exchange response contained no iamToken")

	// ErrExchangeFailed indicates a network error or non-2xx status from the
	// token endpoint.
	ErrExchangeFailed = errors.New("token exchange request failed")
)

// Credentials identifies a service account authorized key.
type Credentials struct {
	ServiceAccountID string
	PrivateKey       string // PEM encoded RSA private key
	KeyID            string
}

// Exchanger mints IAM tokens against a single token endpoint.
type Exchanger struct {
	client   *http.Client
	endpoint string
	now      func() time.Time
}

// NewExchanger creates an Exchanger for the given token endpoint URL.
func NewExchanger(endpoint string) *Exchanger {
	return &Exchanger{
		client:   &http.Client{Timeout: requestTimeout},
		endpoint: endpoint,
		now:      time.Now,
	}
}

type exchangeRequest struct {
	JWT string `json:"jwt"`
}

type exchangeResponse struct {
	IAMToken string `json:"iamToken"`
}

// Token signs an assertion for the credentials and exchanges it for a bearer
// token. There is no retry: any failure aborts the run.
func (e *Exchanger) Token(ctx context.Context, creds Credentials) (string, error) {
	assertion, err := e.signAssertion(creds)
	if err != nil {
		return "", fmt.Errorf("failed to sign assertion: %w", err)
	}

	body, err := json.Marshal(exchangeRequest{JWT: assertion})
	if err != nil {
		return "", fmt.Errorf("failed to encode exchange request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("POST %s: %w", e.endpoint, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := e.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("POST %s: %v: %w", e.endpoint, err, ErrExchangeFailed)
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return "", fmt.Errorf("POST %s: unexpected status %d: %w", e.endpoint, resp.StatusCode, ErrExchangeFailed)
	}

	var parsed exchangeResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", fmt.Errorf("failed to decode exchange response: %w", err)
	}
	if parsed.IAMToken == "" {
		return "", ErrNoToken
	}

	return parsed.IAMToken, nil
}

// signAssertion builds and signs the time-bounded JWT assertion.
func (e *Exchanger) signAssertion(creds Credentials) (string, error) {
	key, err := jwt.ParseRSAPrivateKeyFromPEM([]byte(creds.PrivateKey))
	if err != nil {
		return "", fmt.Errorf("failed to parse private key: %w", err)
	}

	now := e.now()
	claims := jwt.RegisteredClaims{
		Issuer:    creds.ServiceAccountID,
		Audience:  jwt.ClaimStrings{e.endpoint},
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(AssertionLifetime)),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodPS256, claims)
	token.Header["kid"] = creds.KeyID

	return token.SignedString(key)
}
