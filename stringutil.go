// Copyright 2023 Ross Light
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//		 https://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.
//
// SPDX-License-Identifier: Apache-2.0

package commonmark

import (
	"strings"

	"golang.org/x/text/cases"
)

// normalizeLabel implements CommonMark's [link label normalization]:
// leading and trailing whitespace is stripped, internal whitespace is
// collapsed to a single space, and the result is Unicode case-folded.
// It is shared by link/image reference resolution and footnote name
// matching, which both key off the same "Matches" definition.
//
// [link label normalization]: https://spec.commonmark.org/0.30/#matches
func normalizeLabel(raw string) string {
	fields := strings.Fields(raw)
	return cases.Fold().String(strings.Join(fields, " "))
}

func isASCIIAlnum(c byte) bool {
	return c >= '0' && c <= '9' || c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z'
}

func isHexDigit(c byte) bool {
	return c >= '0' && c <= '9' || c >= 'a' && c <= 'f' || c >= 'A' && c <= 'F'
}
