// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package export

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/poiesic/paperlens/core"
)

// filenameSafe keeps letters, digits, underscore, hyphen, and space.
var filenameSafe = regexp.MustCompile(`[^a-zA-Z0-9_\- ]`)

// FileNames derives one download file name per result, index-aligned with
// the entries. The pattern is
//
//	<rank> - <score> - <venue> - <title>
//
// with the score formatted to four decimals and unsafe characters stripped
// from the title. Duplicate names get a " (2)", " (3)"... suffix so a batch
// download never overwrites one file with another; a suffixed candidate is
// checked against every name already taken, including titles that literally
// end in such a suffix.
func FileNames(results *core.ResultSet) []string {
	names := make([]string, 0, len(results.Entries))
	used := make(map[string]bool, len(results.Entries))

	for _, entry := range results.Entries {
		record := entry.Record
		title := strings.TrimSpace(filenameSafe.ReplaceAllString(record.Title, ""))
		if title == "" {
			title = fmt.Sprintf("untitled-%d", uint64(record.Id))
		}
		name := fmt.Sprintf("%d - %.4f - %s - %s", entry.Rank, entry.Score, record.Venue, title)

		if used[name] {
			base := name
			for n := 2; ; n++ {
				candidate := fmt.Sprintf("%s (%d)", base, n)
				if !used[candidate] {
					name = candidate
					break
				}
			}
		}
		used[name] = true
		names = append(names, name)
	}
	return names
}
