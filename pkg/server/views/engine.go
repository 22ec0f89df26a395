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
	"embed"
	"html/template"
	"io/fs"

	"github.com/catatan/catatan/pkg/server/app"
	"github.com/pkg/errors"
)

//go:embed templates
var templateFS embed.FS

const (
	layoutDir  = "templates/layouts"
	partialDir = "templates/partials"
	pageDir    = "templates"
)

// Engine builds views from a template filesystem
type Engine struct {
	fs fs.FS
}

// NewDefaultEngine returns an engine over the embedded templates
func NewDefaultEngine() *Engine {
	return &Engine{fs: templateFS}
}

// NewEngine returns an engine over the given template filesystem
func NewEngine(fsys fs.FS) *Engine {
	return &Engine{fs: fsys}
}

func (e *Engine) sharedFiles() ([]string, error) {
	var ret []string

	for _, dir := range []string{layoutDir, partialDir} {
		matches, err := fs.Glob(e.fs, dir+"/*"+TemplateExt)
		if err != nil {
			return nil, errors.Wrapf(err, "listing %s", dir)
		}
		ret = append(ret, matches...)
	}

	return ret, nil
}

// NewView returns a view rendering the given page templates within the
// layouts and partials. It panics if the templates cannot be parsed.
func (e *Engine) NewView(a *app.App, c Config, files ...string) *View {
	shared, err := e.sharedFiles()
	if err != nil {
		panic(err)
	}

	for _, f := range files {
		shared = append(shared, pageDir+"/"+f+TemplateExt)
	}

	vc := newViewCtx(c)
	t, err := template.New("").Funcs(vc.funcMap()).ParseFS(e.fs, shared...)
	if err != nil {
		panic(errors.Wrap(err, "parsing templates"))
	}

	return &View{
		Template:    t,
		Layout:      c.getLayout(),
		AlertInBody: c.AlertInBody,
		Title:       c.Title,
		App:         a,
	}
}
