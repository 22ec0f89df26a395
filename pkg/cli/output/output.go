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


// Package output provides functions to print informations on the terminal
// in a consistent manner
package output

import (
	"time"

	"github.com/catatan/catatan/pkg/admin"
	"github.com/catatan/catatan/pkg/cli/log"
	"github.com/catatan/catatan/pkg/engine"
	"github.com/catatan/catatan/pkg/subject"
)

const timeLayout = "Jan 2, 2006 3:04pm (MST)"

// NoteLine prints a one-line summary of a note
func NoteLine(n engine.Note) {
	log.Printf("%s %s %s by %s %s\n",
		log.ColorYellow.Sprintf("(%s)", n.ID),
		n.Title,
		log.ColorGray.Sprintf("[%s]", subject.Name(n.Subject)),
		n.Author,
		log.ColorGray.Sprintf("+%d -%d", n.Likes, n.Dislikes),
	)
}

// Notes prints a list of notes
func Notes(notes []engine.Note) {
	if len(notes) == 0 {
		log.Info("no notes\n")
		return
	}

	for _, n := range notes {
		NoteLine(n)
	}
}

// NoteInfo prints a note along with its comments
func NoteInfo(n engine.Note, comments []engine.Comment, now time.Time) {
	log.Infof("title: %s\n", n.Title)
	log.Infof("subject: %s\n", subject.Name(n.Subject))
	log.Infof("author: %s\n", n.Author)
	log.Infof("created at: %s\n", n.CreatedAt.Local().Format(timeLayout))
	log.Infof("note id: %s\n", n.ID)
	log.Infof("likes: %d, dislikes: %d\n", n.Likes, n.Dislikes)
	if n.ImageURL != "" && len(n.ImageURL) < 200 {
		log.Infof("image: %s\n", n.ImageURL)
	}

	log.Plainf("\n------------------------content------------------------\n")
	log.Plainf("%s", n.Content)
	log.Plainf("\n-------------------------------------------------------\n")

	if len(comments) > 0 {
		Comments(comments, now)
	}
}

// Comments prints comments with their age relative to now
func Comments(comments []engine.Comment, now time.Time) {
	if len(comments) == 0 {
		log.Info("no comments\n")
		return
	}

	for _, c := range comments {
		log.Printf("%s %s: %s\n", log.ColorGray.Sprint(engine.TimeAgo(now.Sub(c.CreatedAt))), c.Author, c.Text)
	}
}

// LikeStatus prints the reaction of the user to a note
func LikeStatus(noteID string, s engine.LikeStatus) {
	var reaction string
	switch {
	case s.Liked:
		reaction = "liked"
	case s.Disliked:
		reaction = "disliked"
	default:
		reaction = "no reaction"
	}

	log.Successf("%s: %s (+%d -%d)\n", noteID, reaction, s.Count, s.Dislikes)
}

// Categories prints the subject breakdown
func Categories(cats []engine.Category) {
	if len(cats) == 0 {
		log.Info("no subjects\n")
		return
	}

	for _, c := range cats {
		log.Printf("%s %d\n", c.Name, c.Count)
	}
}

// Activity prints the recent activity feed
func Activity(items []engine.Activity) {
	if len(items) == 0 {
		log.Info("no recent activity\n")
		return
	}

	for _, a := range items {
		log.Printf("%s %s\n", a.Text, log.ColorGray.Sprint(a.TimeAgo))
	}
}

// Status prints the synchronization status
func Status(s engine.Status) {
	if s.Degraded {
		log.Warnf("can't connect to the store, showing cached data (%d attempts)\n", s.Attempts)
		return
	}

	log.Successf("synced at %s\n", s.LastSync.Local().Format(timeLayout))
}

// Stats prints the admin panel figures
func Stats(s admin.Stats) {
	log.Infof("total notes: %d\n", s.TotalNotes)
	if s.Estimated {
		log.Infof("total likes: %d (estimated)\n", s.TotalLikes)
	} else {
		log.Infof("total likes: %d\n", s.TotalLikes)
	}
	log.Infof("total comments: %d\n", s.TotalComments)

	Categories(s.Subjects)
}
