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

// Package identity provides the anonymous user identity that scopes
// reactions. It is a random string kept by the client, not an account.
package identity

import (
	"math/big"
	"strings"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

const (
	// Prefix is the prefix of every identity
	Prefix = "user_"
	// Key is the key under which the identity is persisted
	Key = "user_id"

	suffixLen = 9
)

// KV is a persistent key/value store. Get returns an empty string for a
// missing key.
type KV interface {
	Get(key string) (string, error)
	Set(key, value string) error
}

// Generate returns a new identity: the prefix followed by nine base36 characters
func Generate() (string, error) {
	u, err := uuid.NewRandom()
	if err != nil {
		return "", errors.Wrap(err, "reading random bytes")
	}

	s := new(big.Int).SetBytes(u[:]).Text(36)
	if len(s) < suffixLen {
		s = strings.Repeat("0", suffixLen-len(s)) + s
	}

	return Prefix + s[len(s)-suffixLen:], nil
}

// Valid reports whether s looks like an identity
func Valid(s string) bool {
	if !strings.HasPrefix(s, Prefix) {
		return false
	}

	rest := strings.TrimPrefix(s, Prefix)
	if len(rest) == 0 || len(rest) > 64 {
		return false
	}
	for _, c := range rest {
		if !(c >= 'a' && c <= 'z' || c >= '0' && c <= '9') {
			return false
		}
	}

	return true
}

// Resolve returns the persisted identity, generating and persisting one
// on first use
func Resolve(kv KV) (string, error) {
	id, err := kv.Get(Key)
	if err != nil {
		return "", errors.Wrap(err, "reading identity")
	}
	if Valid(id) {
		return id, nil
	}

	id, err = Generate()
	if err != nil {
		return "", err
	}
	if err := kv.Set(Key, id); err != nil {
		return "", errors.Wrap(err, "persisting identity")
	}

	return id, nil
}
