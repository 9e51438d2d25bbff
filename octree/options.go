// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package octree

import "github.com/gogpu/gputypes"

// AdapterPreference selects the class of GPU adapter preferred for
// construction. When no adapter of the preferred class exists, the other
// GPU class (discrete or integrated) is used; a software rasterizer is
// never used. If neither a discrete nor an integrated adapter exists,
// New fails with ErrGPUUnavailable.
type AdapterPreference int

const (
	// HighPerformance prefers a discrete GPU. This is the default.
	HighPerformance AdapterPreference = iota

	// LowPower prefers an integrated GPU.
	LowPower
)

func (p AdapterPreference) String() string {
	if p == LowPower {
		return "LowPower"
	}
	return "HighPerformance"
}

func (p AdapterPreference) powerPreference() gputypes.PowerPreference {
	if p == LowPower {
		return gputypes.PowerPreferenceLowPower
	}
	return gputypes.PowerPreferenceHighPerformance
}

// Option configures octree construction.
type Option func(*config)

type config struct {
	adapter      AdapterPreference
	debugCapture bool
}

func defaultConfig() config {
	return config{adapter: HighPerformance}
}

// WithAdapterPreference selects the GPU adapter class.
func WithAdapterPreference(p AdapterPreference) Option {
	return func(c *config) { c.adapter = p }
}

// WithDebugCapture downloads the shader's debug buffer after every level
// and logs its contents at debug level. The trace contents are not part
// of the public contract; the option exists for tests and diagnosis.
func WithDebugCapture() Option {
	return func(c *config) { c.debugCapture = true }
}
