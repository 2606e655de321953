// Copyright (c) 2024 Pimon Labs and contributors, All rights reserved.
//
// This file is part of Pimon.
//
// Pimon is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation version 3 of the License.
//
// Pimon is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with Pimon. If not, see <https://www.gnu.org/licenses/>.

package montecarlo

import (
	"os"
	"path"

	gocsv "github.com/gocarina/gocsv/v2"

	"github.com/pimonhq/pimon/internal/pkg/shared/fs"
)

const resultsFile = "pimon-results.json"

// Summary aggregates the runs of one benchmark session
type Summary struct {
	SessionID   string   `json:"session_id"`
	GeneratedAt string   `json:"generated_at"`
	Runs        []Result `json:"runs"`
}

// WriteJSON writes the summary as indented JSON into dir, creating the
// directory first if needed, and returns the path written
func WriteJSON(s Summary, dir string) (string, error) {
	if err := fs.EnsureDir(dir); err != nil {
		return "", err
	}
	p := path.Join(dir, resultsFile)
	return p, fs.OverwriteFileValueIndent(s, p)
}

// WriteCSV writes the runs as CSV into filename, overwriting any
// previous content
func WriteCSV(runs []Result, filename string) error {
	f, err := os.OpenFile(filename, os.O_TRUNC|os.O_CREATE|os.O_WRONLY, 0600)
	if err != nil {
		return err
	}
	defer f.Close()
	return gocsv.MarshalFile(&runs, f)
}
