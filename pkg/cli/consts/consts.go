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


// Package consts provides definitions of constants
package consts

var (
	// CatatanDirName is the name of the directory containing catatan files
	CatatanDirName = "catatan"
	// CatatanDBFileName is a filename for the local SQLite database
	CatatanDBFileName = "catatan.db"
	// ConfigFilename is the name of the config file
	ConfigFilename = "catatanrc"
	// TmpContentFileBase is the base for the filename for a temporary content
	TmpContentFileBase = "CATATAN_TMPCONTENT"
	// TmpContentFileExt is the extension for the temporary content file
	TmpContentFileExt = "md"

	// SystemUserID is the key for the user identity in the system table
	SystemUserID = "user_id"
	// SystemAdminLoginTime is the unix timestamp of the last admin login
	SystemAdminLoginTime = "admin_login_time"
	// SystemLastSyncAt is the unix timestamp of the last successful sync
	SystemLastSyncAt = "last_sync_time"
)
