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


package helpers

import (
	"net/url"
	"strings"
)

// GetPath returns a path optionally suffixed by query string
func GetPath(path string, query *url.Values) string {
	if query == nil {
		return path
	}

	queryStr := query.Encode()

	return path + "?" + queryStr
}

// LocalPath returns the referrer when it is a path on this site, and the
// fallback otherwise. It keeps redirects from leaving the site.
func LocalPath(referrer, fallback string) string {
	if referrer == "" || !strings.HasPrefix(referrer, "/") || strings.HasPrefix(referrer, "//") {
		return fallback
	}

	u, err := url.Parse(referrer)
	if err != nil || u.Host != "" || u.Scheme != "" {
		return fallback
	}

	return referrer
}
