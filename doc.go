// Copyright 2021 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package powermon is a container for power monitor device drivers.
//
// See the ina260 subpackage for the TI INA260 current, voltage and power
// monitor.
package powermon
