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
	"html/template"
	"strings"
	"unicode/utf8"

	"github.com/catatan/catatan/pkg/subject"
)

// excerptLen is the number of characters of a note shown in a card
const excerptLen = 160

func excerpt(s string) string {
	s = strings.TrimSpace(s)
	if utf8.RuneCountInString(s) <= excerptLen {
		return s
	}

	r := []rune(s)

	return strings.TrimSpace(string(r[:excerptLen])) + "..."
}

// initial returns the first letter of the name for an avatar
func initial(name string) string {
	r, _ := utf8.DecodeRuneInString(strings.TrimSpace(name))
	if r == utf8.RuneError {
		return "?"
	}

	return strings.ToUpper(string(r))
}

// imageURL marks the note image as safe for a src attribute. Only image data
// URLs and http(s) URLs are kept.
func imageURL(s string) template.URL {
	if strings.HasPrefix(s, "data:image/") || strings.HasPrefix(s, "https://") || strings.HasPrefix(s, "http://") {
		return template.URL(s)
	}

	return template.URL("#")
}

func (v viewCtx) funcMap() template.FuncMap {
	ret := template.FuncMap{
		"csrfField": func() template.HTML {
			return ""
		},
		"timeAgo":        v.timeAgo,
		"formatDate":     formatDate,
		"formatDateTime": formatDateTime,
		"subjectName":    subject.Name,
		"subjects": func() []subject.Subject {
			return subject.List
		},
		"excerpt":  excerpt,
		"initial":  initial,
		"imageURL": imageURL,
	}

	for k, fn := range v.Config.HelperFuncs {
		ret[k] = fn
	}

	return ret
}
