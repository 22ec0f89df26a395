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

// Package media prepares uploaded note images: it bounds their size,
// scales them down and stores them as data URLs or in object storage.
package media

import (
	"bytes"
	"context"
	"encoding/base64"
	"image"
	"image/jpeg"
	// decoders for the accepted upload formats
	_ "image/gif"
	_ "image/png"

	"github.com/pkg/errors"
	"golang.org/x/image/draw"
)

const (
	// MaxBytes is the largest accepted upload
	MaxBytes = 4 << 20
	// MaxWidth is the width images are scaled down to
	MaxWidth = 800
	// Quality is the JPEG quality of stored images
	Quality = 70
	// MaxPixels bounds the decoded size of an upload
	MaxPixels = 40_000_000

	// ContentType is the type of every stored image
	ContentType = "image/jpeg"
)

var (
	// ErrTooLarge is returned for uploads over MaxBytes
	ErrTooLarge = errors.New("image is larger than 4MB")
	// ErrTooManyPixels is returned for uploads whose dimensions exceed MaxPixels
	ErrTooManyPixels = errors.New("image dimensions are too large")
	// ErrUnsupported is returned when the upload is not a decodable image
	ErrUnsupported = errors.New("unsupported image format")
)

// Compress decodes the image, scales it down to MaxWidth keeping the
// aspect ratio, and encodes it as JPEG
func Compress(data []byte) ([]byte, error) {
	if len(data) > MaxBytes {
		return nil, ErrTooLarge
	}

	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, errors.Wrap(ErrUnsupported, err.Error())
	}
	if int64(cfg.Width)*int64(cfg.Height) > MaxPixels {
		return nil, ErrTooManyPixels
	}

	src, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, errors.Wrap(ErrUnsupported, err.Error())
	}

	dst := scale(src)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, dst, &jpeg.Options{Quality: Quality}); err != nil {
		return nil, errors.Wrap(err, "encoding jpeg")
	}

	return buf.Bytes(), nil
}

func scale(src image.Image) image.Image {
	b := src.Bounds()
	w, h := b.Dx(), b.Dy()
	if w <= MaxWidth {
		return src
	}

	nh := (h*MaxWidth + w/2) / w
	if nh < 1 {
		nh = 1
	}

	dst := image.NewRGBA(image.Rect(0, 0, MaxWidth, nh))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, b, draw.Over, nil)

	return dst
}

// Uploader stores a compressed image and returns the URL to reference it by
type Uploader interface {
	Upload(ctx context.Context, data []byte) (string, error)
}

// DataURLUploader embeds the image in the note as a data URL
type DataURLUploader struct{}

// Upload implements Uploader
func (DataURLUploader) Upload(ctx context.Context, data []byte) (string, error) {
	return DataURL(data), nil
}

// DataURL returns the data URL of a JPEG image
func DataURL(data []byte) string {
	return "data:" + ContentType + ";base64," + base64.StdEncoding.EncodeToString(data)
}

// Process compresses the upload and stores it with the uploader
func Process(ctx context.Context, u Uploader, data []byte) (string, error) {
	compressed, err := Compress(data)
	if err != nil {
		return "", err
	}

	url, err := u.Upload(ctx, compressed)
	if err != nil {
		return "", errors.Wrap(err, "uploading image")
	}

	return url, nil
}
