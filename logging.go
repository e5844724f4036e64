// Copyright (c) 2026 The go-fragments Authors
// SPDX-License-Identifier: MIT

package fragments

import "go.uber.org/zap"

// nopLogger is used whenever an Options value has no logger configured,
// so the library stays silent by default and a caller opts into
// diagnostics with WithLogger.
func nopLogger() *zap.Logger {
	return zap.NewNop()
}
