// SPDX-FileCopyrightText: Copyright (c) 2023-2026, Devim, LLC or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package inventory

import "strings"

// ToSafeGroupName converts a display name into an identifier safe for use as
// an Ansible group name: lowercased, with every character outside
// [a-z0-9_] replaced by an underscore. The transformation is deterministic
// and idempotent; distinct raw names may collapse into the same group.
func ToSafeGroupName(name string) string {
	var b strings.Builder
	b.Grow(len(name))
	for _, r := range strings.ToLower(name) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '_':
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}
	return b.String()
}
