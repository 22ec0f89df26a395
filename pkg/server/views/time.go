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


package views

import (
	"time"

	"github.com/catatan/catatan/pkg/engine"
)

const (
	dateLayout     = "2 Jan 2006"
	dateTimeLayout = "2 Jan 2006 15:04"
)

// timeAgo describes how long ago t was, relative to the view clock
func (v viewCtx) timeAgo(t time.Time) string {
	if t.IsZero() {
		return ""
	}

	d := v.Clock.Now().Sub(t)
	if d < 0 {
		d = 0
	}

	return engine.TimeAgo(d)
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}

	return t.Local().Format(dateLayout)
}

func formatDateTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}

	return t.Local().Format(dateTimeLayout)
}
