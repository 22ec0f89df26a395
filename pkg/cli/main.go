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


package main

import (
	"os"
	"strings"

	"github.com/catatan/catatan/pkg/cli/infra"
	"github.com/catatan/catatan/pkg/cli/log"
	_ "github.com/mattn/go-sqlite3"

	// commands
	"github.com/catatan/catatan/pkg/cli/cmd/activity"
	"github.com/catatan/catatan/pkg/cli/cmd/add"
	"github.com/catatan/catatan/pkg/cli/cmd/admin"
	"github.com/catatan/catatan/pkg/cli/cmd/cat"
	"github.com/catatan/catatan/pkg/cli/cmd/categories"
	"github.com/catatan/catatan/pkg/cli/cmd/comment"
	"github.com/catatan/catatan/pkg/cli/cmd/find"
	"github.com/catatan/catatan/pkg/cli/cmd/ls"
	"github.com/catatan/catatan/pkg/cli/cmd/react"
	"github.com/catatan/catatan/pkg/cli/cmd/root"
	"github.com/catatan/catatan/pkg/cli/cmd/stats"
	"github.com/catatan/catatan/pkg/cli/cmd/sync"
	"github.com/catatan/catatan/pkg/cli/cmd/today"
	"github.com/catatan/catatan/pkg/cli/cmd/trending"
	"github.com/catatan/catatan/pkg/cli/cmd/version"
)

// versionTag is populated during link time
var versionTag = "master"

// parseDBPath extracts the --dbPath flag value from the arguments wherever
// it appears. It returns an empty string if the flag is absent.
func parseDBPath(args []string) string {
	for i, arg := range args {
		if arg == "--" {
			break
		}
		if strings.HasPrefix(arg, "--dbPath=") {
			return strings.TrimPrefix(arg, "--dbPath=")
		}
		if arg == "--dbPath" && i+1 < len(args) {
			return args[i+1]
		}
	}

	return ""
}

func main() {
	// the flag can come after the subcommand, where root.ParseFlags does not see it
	dbPath := parseDBPath(os.Args[1:])

	ctx, err := infra.Init(versionTag, dbPath)
	if err != nil {
		log.Errorf("initializing context: %s\n", err.Error())
		os.Exit(1)
	}
	defer ctx.DB.Close()

	root.Register(ls.NewCmd(*ctx))
	root.Register(cat.NewCmd(*ctx))
	root.Register(add.NewCmd(*ctx))
	root.Register(find.NewCmd(*ctx))
	root.Register(today.NewCmd(*ctx))
	root.Register(trending.NewCmd(*ctx))
	root.Register(categories.NewCmd(*ctx))
	root.Register(activity.NewCmd(*ctx))
	root.Register(react.NewLikeCmd(*ctx))
	root.Register(react.NewDislikeCmd(*ctx))
	root.Register(comment.NewCmd(*ctx))
	root.Register(comment.NewListCmd(*ctx))
	root.Register(stats.NewCmd(*ctx))
	root.Register(sync.NewCmd(*ctx))
	root.Register(admin.NewCmd(*ctx))
	root.Register(version.NewCmd(*ctx))

	if err := root.Execute(); err != nil {
		log.Errorf("%s\n", err.Error())
		ctx.DB.Close()
		os.Exit(1)
	}
}
