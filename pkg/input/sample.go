// Zaparoo Extract
// Copyright (c) 2026 The Zaparoo Project Contributors.
// SPDX-License-Identifier: GPL-3.0-or-later
//
// This file is part of Zaparoo Extract.
//
// Zaparoo Extract is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// Zaparoo Extract is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with Zaparoo Extract.  If not, see <http://www.gnu.org/licenses/>.

package input

// Sample is a demonstration input in the semicolon-terminated key-value
// style seen in mobile app logs.
const Sample = `
"bundle_version" = "";
cityId = 1;
"engine_type" = 0;
"engine_type_horn" = 0;
isNested = 0;
isStandardContainer = 0;
env = test;
"fetch_bridge_type" = 0;
"is_remote" = 0;
"local_bundle" = 0;
"retry_count" = 0;
`
