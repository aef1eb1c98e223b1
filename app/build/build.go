// SPDX-FileCopyrightText: Copyright (c) 2023-2026, Devim, LLC or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// Package build holds version information stamped in at link time.
package build

import "fmt"

// These values are overridden by the linker during release builds.
var (
	// Rev is the git revision the binary was built from
	Rev = "latest"
	// Tag is the most recent release tag
	Tag = "v0.0.0"
	// Time is the UTC build timestamp
	Time = "unknown"
)

// Version returns a human readable version string.
func Version() string {
	return fmt.Sprintf("%s-%s", Tag, Rev)
}
