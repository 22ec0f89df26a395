/* Copyright 2025 Catatan Authors
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */


package log

import (
	"bytes"
	"strings"
	"testing"

	"github.com/catatan/catatan/pkg/assert"
	"github.com/fatih/color"
)

func capture(t *testing.T) *bytes.Buffer {
	var buf bytes.Buffer
	prev := Output
	prevNoColor := color.NoColor
	Output = &buf
	color.NoColor = true
	t.Cleanup(func() {
		Output = prev
		color.NoColor = prevNoColor
	})

	return &buf
}

func TestPrinters(t *testing.T) {
	testCases := []struct {
		name     string
		print    func()
		expected string
	}{
		{"info", func() { Infof("%d notes\n", 3) }, "  • 3 notes\n"},
		{"success", func() { Successf("liked %s\n", "7") }, "  ✔ liked 7\n"},
		{"warn", func() { Warnf("offline\n") }, "  ! offline\n"},
		{"error", func() { Errorf("failed: %s\n", "boom") }, "  ⨯ failed: boom\n"},
		{"plain", func() { Plainf("%s\n", "isi") }, "  isi\n"},
		{"ask", func() { Askf("Judul", false) }, "  [?] Judul: "},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			buf := capture(t)
			tc.print()

			assert.Equal(t, buf.String(), tc.expected, "output mismatch")
		})
	}
}

func TestDebug(t *testing.T) {
	buf := capture(t)

	t.Setenv("CATATAN_DEBUG", "")
	Debug("hidden\n")
	assert.Equal(t, buf.String(), "", "debug should be silent")

	t.Setenv("CATATAN_DEBUG", "1")
	Debug("shown %d\n", 1)
	assert.Equal(t, strings.HasSuffix(buf.String(), "shown 1\n"), true, "debug should print")
}
