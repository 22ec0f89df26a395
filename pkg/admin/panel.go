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

package admin

import (
	"context"

	"github.com/catatan/catatan/pkg/engine"
	"github.com/catatan/catatan/pkg/log"
	"github.com/catatan/catatan/pkg/store"
)

// Stats are the figures shown on the admin panel
type Stats struct {
	TotalNotes    int               `json:"total_notes"`
	TotalLikes    int               `json:"total_likes"`
	TotalComments int               `json:"total_comments"`
	Subjects      []engine.Category `json:"subjects"`
	// Estimated is set when the store totals could not be read and the
	// likes were summed from the loaded notes
	Estimated bool `json:"estimated"`
}

// Panel is the admin view over the engine
type Panel struct {
	engine *engine.Engine
}

// NewPanel returns a panel
func NewPanel(e *engine.Engine) *Panel {
	return &Panel{engine: e}
}

// Notes returns every note, newest first
func (p *Panel) Notes() []engine.Note {
	return p.engine.Filtered("", engine.SortRecent)
}

// Stats returns the panel figures. When a store total fails the likes are
// summed from the loaded notes and the comments are reported as zero.
func (p *Panel) Stats(ctx context.Context) Stats {
	notes := p.engine.Notes()
	ret := Stats{
		TotalNotes: len(notes),
		Subjects:   p.engine.Categories(),
	}

	s := p.engine.Store()
	likes, err := s.GetTotalLikes(ctx)
	if err == nil {
		var comments int
		comments, err = s.GetTotalComments(ctx)
		if err == nil {
			ret.TotalLikes = likes
			ret.TotalComments = comments
			return ret
		}
	}

	log.WithFields(log.Fields{
		"error": err.Error(),
	}).Warn("reading store totals, summing loaded notes")

	for _, n := range notes {
		ret.TotalLikes += n.Likes
	}
	ret.Estimated = true

	return ret
}

// Delete deletes a note with its reactions and comments
func (p *Panel) Delete(ctx context.Context, id store.ID) error {
	return p.engine.DeleteNote(ctx, id)
}
