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


// Package testutils provides utilities used in tests
package testutils

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"reflect"
	"strings"
	"testing"

	"github.com/catatan/catatan/pkg/server/app"
	"github.com/catatan/catatan/pkg/store"
	"github.com/pkg/errors"
)

// SetupNote seeds a note in the store of a test app and refreshes the
// mirror so that the note is visible
func SetupNote(t *testing.T, a *app.App, rec store.NoteRecord) store.NoteRecord {
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = a.Clock.Now()
	}
	n := a.TestStore().SeedNote(rec)

	MustRefresh(t, a)

	return n
}

// SetupComment seeds a comment in the store of a test app and refreshes the mirror
func SetupComment(t *testing.T, a *app.App, rec store.CommentRecord) store.CommentRecord {
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = a.Clock.Now()
	}
	c := a.TestStore().SeedComment(rec)

	MustRefresh(t, a)

	return c
}

// MustRefresh synchronizes the mirror of the test app, failing the test on error
func MustRefresh(t *testing.T, a *app.App) {
	if err := a.Engine.Refresh(context.Background()); err != nil {
		t.Fatal(errors.Wrap(err, "refreshing the mirror"))
	}
}

// HTTPDo makes an HTTP request and returns a response
func HTTPDo(t *testing.T, req *http.Request) *http.Response {
	hc := http.Client{
		// Do not follow redirects.
		// e.g. /admin/logout redirects to a page but we'd like to test the redirect
		// itself, not what happens after the redirect
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}

	res, err := hc.Do(req)
	if err != nil {
		t.Fatal(errors.Wrap(err, "performing http request"))
	}

	return res
}

// MakeReq makes an HTTP request and returns a response
func MakeReq(endpoint string, method, path, data string) *http.Request {
	u := fmt.Sprintf("%s%s", endpoint, path)

	req, err := http.NewRequest(method, u, strings.NewReader(data))

	if err != nil {
		panic(errors.Wrap(err, "constructing http request"))
	}

	return req
}

// MakeFormReq makes an HTTP request and returns a response
func MakeFormReq(endpoint, method, path string, data url.Values) *http.Request {
	req := MakeReq(endpoint, method, path, data.Encode())
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	return req
}

// MakeJSONReq makes an HTTP request with a JSON body
func MakeJSONReq(endpoint, method, path, data string) *http.Request {
	req := MakeReq(endpoint, method, path, data)
	req.Header.Set("Content-Type", "application/json")

	return req
}

// MakeMultipartReq makes a multipart form request. The file is attached
// under the given field when it is not nil.
func MakeMultipartReq(t *testing.T, endpoint, path string, fields url.Values, fileField string, file []byte) *http.Request {
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)

	for k, vs := range fields {
		for _, v := range vs {
			if err := mw.WriteField(k, v); err != nil {
				t.Fatal(errors.Wrapf(err, "writing field %s", k))
			}
		}
	}

	if file != nil {
		fw, err := mw.CreateFormFile(fileField, "upload.png")
		if err != nil {
			t.Fatal(errors.Wrap(err, "creating the file part"))
		}
		if _, err := fw.Write(file); err != nil {
			t.Fatal(errors.Wrap(err, "writing the file part"))
		}
	}

	if err := mw.Close(); err != nil {
		t.Fatal(errors.Wrap(err, "closing the multipart writer"))
	}

	req := MakeReq(endpoint, "POST", path, body.String())
	req.Header.Set("Content-Type", mw.FormDataContentType())

	return req
}

// GetCookieByName returns a cookie with the given name
func GetCookieByName(cookies []*http.Cookie, name string) *http.Cookie {
	var ret *http.Cookie

	for i := 0; i < len(cookies); i++ {
		if cookies[i].Name == name {
			ret = cookies[i]
			break
		}
	}

	return ret
}

// ReadJSON decodes the response body into v, failing the test on error
func ReadJSON(t *testing.T, res *http.Response, v interface{}) {
	defer res.Body.Close()

	if err := json.NewDecoder(res.Body).Decode(v); err != nil {
		t.Fatal(errors.Wrap(err, "decoding the response body"))
	}
}

// ReadBody returns the response body as a string, failing the test on error
func ReadBody(t *testing.T, res *http.Response) string {
	defer res.Body.Close()

	b, err := io.ReadAll(res.Body)
	if err != nil {
		t.Fatal(errors.Wrap(err, "reading the response body"))
	}

	return string(b)
}

// EndpointType is the type of endpoint to be tested
type EndpointType int

const (
	// EndpointWeb represents a web endpoint returning HTML
	EndpointWeb EndpointType = iota
	// EndpointAPI represents an API endpoint returning JSON
	EndpointAPI
)

type endpointTest func(t *testing.T, target EndpointType)

// RunForWebAndAPI runs the given test function for web and API
func RunForWebAndAPI(t *testing.T, name string, runTest endpointTest) {
	t.Run(fmt.Sprintf("%s-web", name), func(t *testing.T) {
		runTest(t, EndpointWeb)
	})

	t.Run(fmt.Sprintf("%s-api", name), func(t *testing.T) {
		runTest(t, EndpointAPI)
	})
}

// PayloadWrapper is a wrapper for a payload that can be converted to
// either URL form values or JSON
type PayloadWrapper struct {
	Data interface{}
}

// ToURLValues converts the payload into form values. Nil fields are left out.
func (p PayloadWrapper) ToURLValues() url.Values {
	values := url.Values{}

	el := reflect.ValueOf(p.Data)
	if el.Kind() == reflect.Ptr {
		el = el.Elem()
	}
	iVal := el
	typ := iVal.Type()
	for i := 0; i < iVal.NumField(); i++ {
		fi := typ.Field(i)
		name := fi.Tag.Get("schema")
		if name == "" {
			name = fi.Name
		}

		if !iVal.Field(i).IsNil() {
			values.Set(name, fmt.Sprint(iVal.Field(i).Elem()))
		}
	}

	return values
}

// ToJSON converts the payload into JSON
func (p PayloadWrapper) ToJSON(t *testing.T) string {
	b, err := json.Marshal(p.Data)
	if err != nil {
		t.Fatal(err)
	}

	return string(b)
}

// StrPtr returns a pointer to the string
func StrPtr(s string) *string {
	return &s
}
