// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package pointcloud

import (
	"log/slog"

	"github.com/gogpu/pointcloud/internal/gpu"
)

// SetLogger configures the logger for pointcloud and all its
// sub-packages. By default the toolkit produces no log output; the
// default handler discards records before formatting, so disabled
// logging is effectively free.
//
// SetLogger is safe for concurrent use: the new logger is stored
// atomically. Pass nil to restore the silent default.
//
// Log levels used:
//   - [slog.LevelDebug]: per-level build diagnostics, long GPU waits,
//     shader debug traces
//   - [slog.LevelInfo]: adapter selection, builder creation
//   - [slog.LevelWarn]: non-fatal issues such as a failed debug trace
//     readback
func SetLogger(l *slog.Logger) {
	gpu.SetLogger(l)
}
