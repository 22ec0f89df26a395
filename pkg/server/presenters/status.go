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


package presenters

import (
	"time"

	"github.com/catatan/catatan/pkg/engine"
)

// Status is a result of PresentStatus
type Status struct {
	State         engine.State `json:"state"`
	Degraded      bool         `json:"degraded"`
	Initialized   bool         `json:"initialized"`
	Attempts      int          `json:"attempts"`
	LastSync      *time.Time   `json:"last_sync"`
	TotalNotes    int          `json:"total_notes"`
	TotalSubjects int          `json:"total_subjects"`
}

// PresentStatus presents the synchronization status with the site totals
func PresentStatus(s engine.Status, totalNotes, totalSubjects int) Status {
	ret := Status{
		State:         s.State,
		Degraded:      s.Degraded,
		Initialized:   s.Initialized,
		Attempts:      s.Attempts,
		TotalNotes:    totalNotes,
		TotalSubjects: totalSubjects,
	}

	if !s.LastSync.IsZero() {
		ts := FormatTS(s.LastSync)
		ret.LastSync = &ts
	}

	return ret
}
