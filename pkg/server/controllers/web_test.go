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


package controllers

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"hash/crc32"
	"image"
	"image/color"
	"image/png"
	"net/http"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/catatan/catatan/pkg/assert"
	"github.com/catatan/catatan/pkg/media"
	"github.com/catatan/catatan/pkg/server/app"
	mw "github.com/catatan/catatan/pkg/server/middleware"
	"github.com/catatan/catatan/pkg/server/testutils"
	"github.com/catatan/catatan/pkg/store"
)

func testPNG(t *testing.T, width, height int) []byte {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for x := 0; x < width; x++ {
		img.Set(x, 0, color.RGBA{R: 200, A: 255})
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatal(err)
	}

	return buf.Bytes()
}

// oversizedPNG is a bare PNG header declaring 50000x50000 grayscale pixels
func oversizedPNG() []byte {
	ihdr := make([]byte, 13)
	binary.BigEndian.PutUint32(ihdr[0:4], 50000)
	binary.BigEndian.PutUint32(ihdr[4:8], 50000)
	ihdr[8] = 8
	chunk := append([]byte("IHDR"), ihdr...)

	var buf bytes.Buffer
	buf.WriteString("\x89PNG\r\n\x1a\n")
	binary.Write(&buf, binary.BigEndian, uint32(len(ihdr)))
	buf.Write(chunk)
	binary.Write(&buf, binary.BigEndian, crc32.ChecksumIEEE(chunk))

	return buf.Bytes()
}

func uploadFields(title, subj, content, author string) url.Values {
	return url.Values{
		"title":   {title},
		"subject": {subj},
		"content": {content},
		"author":  {author},
	}
}

func TestHomeIndex(t *testing.T) {
	a := app.NewTest()
	now := a.Clock.Now()
	testutils.SetupNote(t, &a, store.NoteRecord{Title: "Rukun wudhu", Subject: "fikih", Content: "Niat, membasuh muka", CreatedAt: now.Add(-time.Hour)})
	testutils.SetupNote(t, &a, store.NoteRecord{Title: "Kalimat isim", Subject: "nahwu", Content: "Tanda-tanda isim", CreatedAt: now.Add(-2 * time.Hour)})

	server := MustNewServer(t, &a)
	defer server.Close()

	t.Run("all", func(t *testing.T) {
		res := testutils.HTTPDo(t, testutils.MakeReq(server.URL, "GET", "/", ""))
		assert.Equal(t, res.StatusCode, http.StatusOK, "status code mismatch")

		body := testutils.ReadBody(t, res)
		assert.Contains(t, body, "Note of the day", "note of the day missing")
		assert.Contains(t, body, "Rukun wudhu", "note missing")
		assert.Contains(t, body, "Kalimat isim", "note missing")
		assert.Contains(t, body, "2 notes in 2 subjects", "totals missing")
	})

	t.Run("filtered", func(t *testing.T) {
		res := testutils.HTTPDo(t, testutils.MakeReq(server.URL, "GET", "/?subject=nahwu&sort=oldest", ""))
		body := testutils.ReadBody(t, res)

		notes := body[strings.Index(body, "<h2>Notes</h2>"):]
		assert.Contains(t, notes, "Kalimat isim", "filtered note missing")
		assert.Equal(t, strings.Contains(notes, "Rukun wudhu"), false, "other subjects should be filtered out")
	})
}

func TestHomeIndexEscapes(t *testing.T) {
	a := app.NewTest()
	testutils.SetupNote(t, &a, store.NoteRecord{Title: "<script>alert('x')</script>", Subject: "other"})

	server := MustNewServer(t, &a)
	defer server.Close()

	res := testutils.HTTPDo(t, testutils.MakeReq(server.URL, "GET", "/", ""))
	body := testutils.ReadBody(t, res)

	assert.Equal(t, strings.Contains(body, "<script>alert"), false, "the title should be escaped")
}

func TestHomeRefresh(t *testing.T) {
	t.Run("synced", func(t *testing.T) {
		a := app.NewTest()
		server := MustNewServer(t, &a)
		defer server.Close()

		a.TestStore().SeedNote(store.NoteRecord{Title: "Baru", Subject: "tahfidz"})

		res := testutils.HTTPDo(t, testutils.MakeReq(server.URL, "POST", "/refresh", ""))
		res.Body.Close()

		assert.Equal(t, res.StatusCode, http.StatusFound, "status code mismatch")
		assert.Equal(t, res.Header.Get("Location"), "/", "location mismatch")
		assert.Equal(t, a.Engine.TotalNotes(), 1, "the new note should be loaded")
		assert.Equal(t, testutils.GetCookieByName(res.Cookies(), "alert_level").Value, "success", "alert level mismatch")
	})

	t.Run("degraded", func(t *testing.T) {
		a := app.NewTest()
		server := MustNewServer(t, &a)
		defer server.Close()

		s := a.TestStore()
		s.SetProbeFailures(1 << 20)
		s.Reset()

		res := testutils.HTTPDo(t, testutils.MakeReq(server.URL, "POST", "/refresh", ""))
		res.Body.Close()

		assert.Equal(t, res.StatusCode, http.StatusFound, "status code mismatch")
		assert.Equal(t, testutils.GetCookieByName(res.Cookies(), "alert_level").Value, "warning", "alert level mismatch")
		assert.Equal(t, a.Engine.Status().Degraded, true, "engine should be degraded")

		// the banner shows on the next page
		res = testutils.HTTPDo(t, testutils.MakeReq(server.URL, "GET", "/", ""))
		assert.Contains(t, testutils.ReadBody(t, res), "Can't connect to the server", "banner missing")
	})
}

func TestNotesNew(t *testing.T) {
	a := app.NewTest()
	server := MustNewServer(t, &a)
	defer server.Close()

	res := testutils.HTTPDo(t, testutils.MakeReq(server.URL, "GET", "/notes/new", ""))
	assert.Equal(t, res.StatusCode, http.StatusOK, "status code mismatch")
	assert.Contains(t, testutils.ReadBody(t, res), "enctype=\"multipart/form-data\"", "form missing")
}

func TestNotesCreate(t *testing.T) {
	t.Run("without image", func(t *testing.T) {
		a := app.NewTest()
		server := MustNewServer(t, &a)
		defer server.Close()

		req := testutils.MakeMultipartReq(t, server.URL, "/notes", uploadFields("Hukum mad", "tahsin", "Mad thabi'i dua harakat", "Ali"), "image", nil)
		res := testutils.HTTPDo(t, req)
		res.Body.Close()

		assert.Equal(t, res.StatusCode, http.StatusFound, "status code mismatch")
		assert.Equal(t, a.TestStore().NoteCount(), 1, "stored notes mismatch")

		notes := a.Engine.Notes()
		assert.Equal(t, len(notes), 1, "mirrored notes mismatch")
		assert.Equal(t, res.Header.Get("Location"), fmt.Sprintf("/notes/%s", notes[0].ID), "location mismatch")
		assert.Equal(t, notes[0].Subject, "tahsin", "subject mismatch")
		assert.Equal(t, notes[0].ImageURL, "", "image mismatch")
	})

	t.Run("with image", func(t *testing.T) {
		a := app.NewTest()
		server := MustNewServer(t, &a)
		defer server.Close()

		req := testutils.MakeMultipartReq(t, server.URL, "/notes", uploadFields("Grafik fungsi", "matematika", "Parabola", "Budi"), "image", testPNG(t, 1200, 600))
		res := testutils.HTTPDo(t, req)
		res.Body.Close()

		assert.Equal(t, res.StatusCode, http.StatusFound, "status code mismatch")

		notes := a.Engine.Notes()
		assert.Equal(t, len(notes), 1, "mirrored notes mismatch")
		assert.Equal(t, strings.HasPrefix(notes[0].ImageURL, "data:"+media.ContentType+";base64,"), true, "image should be a JPEG data URL")
	})

	t.Run("unknown subject", func(t *testing.T) {
		a := app.NewTest()
		server := MustNewServer(t, &a)
		defer server.Close()

		req := testutils.MakeMultipartReq(t, server.URL, "/notes", uploadFields("Lain-lain", "astronomi", "isi", "Ali"), "image", nil)
		res := testutils.HTTPDo(t, req)
		res.Body.Close()

		assert.Equal(t, res.StatusCode, http.StatusFound, "status code mismatch")
		assert.Equal(t, a.Engine.Notes()[0].Subject, "other", "subject mismatch")
	})

	testCases := []struct {
		name    string
		fields  url.Values
		image   []byte
		message string
	}{
		{
			name:    "missing title",
			fields:  uploadFields("", "fikih", "isi", "Ali"),
			message: "Title is required.",
		},
		{
			name:    "missing author",
			fields:  uploadFields("Zakat", "fikih", "isi", " "),
			message: "Author is required.",
		},
		{
			name:    "image too large",
			fields:  uploadFields("Zakat", "fikih", "isi", "Ali"),
			image:   bytes.Repeat([]byte{0xff}, media.MaxBytes+1),
			message: "The image is larger than 4MB.",
		},
		{
			name:    "not an image",
			fields:  uploadFields("Zakat", "fikih", "isi", "Ali"),
			image:   []byte("plain text"),
			message: "The image format is not supported.",
		},
		{
			name:    "image dimensions too large",
			fields:  uploadFields("Zakat", "fikih", "isi", "Ali"),
			image:   oversizedPNG(),
			message: "The image dimensions are too large.",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			a := app.NewTest()
			server := MustNewServer(t, &a)
			defer server.Close()

			req := testutils.MakeMultipartReq(t, server.URL, "/notes", tc.fields, "image", tc.image)
			res := testutils.HTTPDo(t, req)

			assert.Equal(t, res.StatusCode, http.StatusBadRequest, "status code mismatch")
			body := testutils.ReadBody(t, res)
			assert.Contains(t, body, tc.message, "alert mismatch")
			assert.Equal(t, a.TestStore().NoteCount(), 0, "no note should be stored")
		})
	}

	t.Run("disconnected", func(t *testing.T) {
		a := app.NewTest()
		s := a.TestStore()
		s.SetProbeFailures(1 << 20)
		s.Reset()

		server := MustNewServer(t, &a)
		defer server.Close()

		req := testutils.MakeMultipartReq(t, server.URL, "/notes", uploadFields("Zakat", "fikih", "isi", "Ali"), "image", nil)
		res := testutils.HTTPDo(t, req)

		assert.Equal(t, res.StatusCode, http.StatusServiceUnavailable, "status code mismatch")
		body := testutils.ReadBody(t, res)
		assert.Contains(t, body, "Can&#39;t connect to the server", "alert mismatch")
		assert.Contains(t, body, "value=\"Zakat\"", "the form should keep its values")
	})
}

func TestNotesShow(t *testing.T) {
	a := app.NewTest()
	n := testutils.SetupNote(t, &a, store.NoteRecord{Title: "Sifat wajib Allah", Subject: "aqidah", Content: "Wujud, qidam, baqa"})
	testutils.SetupComment(t, &a, store.CommentRecord{NoteID: n.ID, Author: "Khadijah", Text: "Syukran"})

	server := MustNewServer(t, &a)
	defer server.Close()

	t.Run("found", func(t *testing.T) {
		res := testutils.HTTPDo(t, testutils.MakeReq(server.URL, "GET", "/notes/"+n.ID.String(), ""))
		assert.Equal(t, res.StatusCode, http.StatusOK, "status code mismatch")

		body := testutils.ReadBody(t, res)
		assert.Contains(t, body, "<title>Sifat wajib Allah | Catatan</title>", "title mismatch")
		assert.Contains(t, body, "Wujud, qidam, baqa", "content missing")
		assert.Contains(t, body, "Syukran", "comment missing")
	})

	t.Run("not found", func(t *testing.T) {
		req := testutils.MakeReq(server.URL, "GET", "/notes/404", "")
		req.Header.Set("Accept", "text/html")
		res := testutils.HTTPDo(t, req)
		res.Body.Close()

		assert.Equal(t, res.StatusCode, http.StatusNotFound, "status code mismatch")
	})
}

func TestNotesComment(t *testing.T) {
	a := app.NewTest()
	n := testutils.SetupNote(t, &a, store.NoteRecord{Title: "Hafalan juz 30", Subject: "tahfidz"})

	server := MustNewServer(t, &a)
	defer server.Close()

	t.Run("ok", func(t *testing.T) {
		req := testutils.MakeFormReq(server.URL, "POST", fmt.Sprintf("/notes/%s/comments", n.ID), url.Values{
			"text":   {"Semangat!"},
			"author": {"Umar"},
		})
		res := testutils.HTTPDo(t, req)
		res.Body.Close()

		assert.Equal(t, res.StatusCode, http.StatusFound, "status code mismatch")
		assert.Equal(t, res.Header.Get("Location"), fmt.Sprintf("/notes/%s#comments", n.ID), "location mismatch")

		comments := a.Engine.Comments(n.ID)
		assert.Equal(t, len(comments), 1, "comments mismatch")
		assert.Equal(t, comments[0].Author, "Umar", "author mismatch")
	})

	t.Run("blank", func(t *testing.T) {
		req := testutils.MakeFormReq(server.URL, "POST", fmt.Sprintf("/notes/%s/comments", n.ID), url.Values{
			"text": {"   "},
		})
		res := testutils.HTTPDo(t, req)
		res.Body.Close()

		assert.Equal(t, res.StatusCode, http.StatusFound, "status code mismatch")
		assert.Equal(t, testutils.GetCookieByName(res.Cookies(), "alert_level").Value, "danger", "alert level mismatch")
		assert.Equal(t, len(a.Engine.Comments(n.ID)), 1, "comments mismatch")
	})
}

func TestNotesReactRedirectsBack(t *testing.T) {
	a := app.NewTest()
	n := testutils.SetupNote(t, &a, store.NoteRecord{Title: "Ilmu nahwu", Subject: "nahwu"})

	server := MustNewServer(t, &a)
	defer server.Close()

	testCases := []struct {
		referer  string
		expected string
	}{
		{referer: server.URL + "/?subject=nahwu", expected: "/?subject=nahwu"},
		{referer: "https://evil.example.com/", expected: "/notes/" + n.ID.String()},
		{referer: "", expected: "/notes/" + n.ID.String()},
	}

	for _, tc := range testCases {
		t.Run(tc.referer, func(t *testing.T) {
			req := testutils.MakeReq(server.URL, "POST", fmt.Sprintf("/notes/%s/like", n.ID), "")
			req.Header.Set(mw.UserHeader, testUser)
			if tc.referer != "" {
				req.Header.Set("Referer", tc.referer)
			}
			res := testutils.HTTPDo(t, req)
			res.Body.Close()

			assert.Equal(t, res.Header.Get("Location"), tc.expected, "location mismatch")
		})
	}
}
