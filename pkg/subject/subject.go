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

// Package subject defines the fixed vocabulary of note subjects
package subject

import (
	"strings"
)

// Other is the tag given to notes without a recognized subject
const Other = "other"

// All is the tag used by filters to select every subject
const All = "all"

// Subject is a tag with its display name
type Subject struct {
	Tag  string `json:"id"`
	Name string `json:"name"`
}

// List is the ordered list of known subjects
var List = []Subject{
	{Tag: "matematika", Name: "Matematika"},
	{Tag: "bahasa-inggris", Name: "Bahasa Inggris"},
	{Tag: "bahasa-arab", Name: "Bahasa Arab"},
	{Tag: "fikih", Name: "Fikih"},
	{Tag: "aqidah", Name: "Aqidah"},
	{Tag: "hadits", Name: "Hadits"},
	{Tag: "adab-akhlaq", Name: "Adab & Akhlaq"},
	{Tag: "nahwu", Name: "Nahwu"},
	{Tag: "shorof", Name: "Shorof"},
	{Tag: "tahfidz", Name: "Tahfidz"},
	{Tag: "tahsin", Name: "Tahsin"},
	{Tag: "bootcamp", Name: "Bootcamp"},
}

var names = func() map[string]string {
	ret := make(map[string]string, len(List))
	for _, s := range List {
		ret[s.Tag] = s.Name
	}
	return ret
}()

// Valid reports whether the tag is a known subject
func Valid(tag string) bool {
	_, ok := names[tag]
	return ok
}

// Normalize returns the known tag for the input, or Other
func Normalize(tag string) string {
	t := strings.ToLower(strings.TrimSpace(tag))
	if Valid(t) {
		return t
	}

	return Other
}

// Name returns the display name of the tag. Unknown tags are returned as is.
func Name(tag string) string {
	if n, ok := names[tag]; ok {
		return n
	}

	return tag
}
