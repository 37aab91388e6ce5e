//----------------------------------------------------------------------
// This file is part of gnfs.
// Copyright (C) 2023-present, Bernd Fix  >Y<
//
// gnfs is free software: you can redistribute it and/or modify it
// under the terms of the GNU Affero General Public License as published
// by the Free Software Foundation, either version 3 of the License,
// or (at your option) any later version.
//
// gnfs is distributed in the hope that it will be useful, but
// WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the GNU
// Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program.  If not, see <http://www.gnu.org/licenses/>.
//
// SPDX-License-Identifier: AGPL3.0-or-later
//----------------------------------------------------------------------

package benchmark

import (
	"fmt"
	"runtime"

	"github.com/klauspost/cpuid/v2"
)

// SystemInfo is the hardware header attached to benchmark reports.
type SystemInfo struct {
	CPU        string `json:"cpu"`
	Cores      int    `json:"cores"`
	Threads    int    `json:"threads"`
	L1CacheKiB int    `json:"l1CacheKiB"`
	L2CacheKiB int    `json:"l2CacheKiB"`
	L3CacheKiB int    `json:"l3CacheKiB"`
	GoVersion  string `json:"goVersion"`
	OS         string `json:"os"`
	Arch       string `json:"arch"`
}

// CollectSystemInfo queries the CPU via cpuid.
func CollectSystemInfo() SystemInfo {
	return SystemInfo{
		CPU:        cpuid.CPU.BrandName,
		Cores:      cpuid.CPU.PhysicalCores,
		Threads:    cpuid.CPU.LogicalCores,
		L1CacheKiB: cpuid.CPU.Cache.L1D / 1024,
		L2CacheKiB: cpuid.CPU.Cache.L2 / 1024,
		L3CacheKiB: cpuid.CPU.Cache.L3 / 1024,
		GoVersion:  runtime.Version(),
		OS:         runtime.GOOS,
		Arch:       runtime.GOARCH,
	}
}

// String renders the header for console output.
func (si SystemInfo) String() string {
	return fmt.Sprintf("%s (%d cores, %d threads), L1d %d KiB, L2 %d KiB, L3 %d KiB, %s %s/%s",
		si.CPU, si.Cores, si.Threads, si.L1CacheKiB, si.L2CacheKiB, si.L3CacheKiB,
		si.GoVersion, si.OS, si.Arch)
}
