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


// Package context holds the request scoped values set by the middlewares
package context

import (
	"context"

	"github.com/catatan/catatan/pkg/admin"
)

const (
	userIDKey privateKey = "user_id"
	adminKey  privateKey = "admin"
)

type privateKey string

// WithUserID creates a new context with the given user identity
func WithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, userIDKey, userID)
}

// UserID retrieves the user identity from the given context. It returns an
// empty string if the context does not contain one.
func UserID(ctx context.Context) string {
	if id, ok := ctx.Value(userIDKey).(string); ok {
		return id
	}

	return ""
}

// WithAdmin creates a new context with the given admin session
func WithAdmin(ctx context.Context, s *admin.Session) context.Context {
	return context.WithValue(ctx, adminKey, s)
}

// Admin retrieves the admin session from the given context. It returns nil
// for a request without a valid admin session.
func Admin(ctx context.Context) *admin.Session {
	if temp := ctx.Value(adminKey); temp != nil {
		if s, ok := temp.(*admin.Session); ok {
			return s
		}
	}

	return nil
}
