// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package runtime

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"strconv"

	"github.com/cpmech/gosl/chk"
)

// MatrixInput reads a plain text matrix file (one row per line, values
// split by the detected delimiter) into a dense Matrix[T], falling back to
// a 1x1 zero matrix with a warning on malformed input (spec.md §7
// "ill-formed input matrix (fall back to 1×1 zero with a warning)").
type MatrixInput struct {
	M *Matrix[float64]
}

// ReadMatrixInput parses name via InputHolder's row scanner, reusing its
// delimiter auto-detection.
func ReadMatrixInput(name string) *MatrixInput {
	ih, err := OpenInputHolder(name)
	if err != nil || len(ih.rows) == 0 {
		os.Stderr.WriteString("warning: matrix input " + strconv.Quote(name) + " is missing or ill-formed; using a 1x1 zero matrix\n")
		return &MatrixInput{M: NewMatrix[float64](1, 1)}
	}
	rows, cols := len(ih.rows), len(ih.rows[0])
	m := NewMatrix[float64](rows, cols)
	for r, row := range ih.rows {
		for c, v := range row {
			if c < cols {
				m.Set(r, c, v)
			}
		}
	}
	return &MatrixInput{M: m}
}

// Mfile is a memory-mapped-style binary matrix on disk: a fixed
// rows/cols header followed by row-major float64 values, used when a
// model needs to stream a large precomputed matrix without holding the
// whole InputHolder text-parse path.
type Mfile struct {
	Rows, Cols int
	Data       []float64
}

// ImageInput decodes a still image into a per-channel intensity matrix
// (grayscale reduction), the minimal image-as-data reading spec.md §6
// describes independent of any OpenGL/FFmpeg rendering pipeline (out of
// scope per spec.md §1).
type ImageInput struct {
	Width, Height int
	Gray          *Matrix[float64]
}

// ReadImageInput decodes name as PNG. There is no BMP or other fallback:
// a file that does not decode as PNG yields an error.
func ReadImageInput(name string) (*ImageInput, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, chk.Err("cannot open image %q: %v", name, err)
	}
	defer f.Close()
	img, err := png.Decode(f)
	if err != nil {
		return nil, chk.Err("image %q: unsupported format, BMP fallback not available: %v", name, err)
	}
	b := img.Bounds()
	gray := NewMatrix[float64](b.Dy(), b.Dx())
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			r, g, bl, _ := img.At(x, y).RGBA()
			lum := (0.299*float64(r) + 0.587*float64(g) + 0.114*float64(bl)) / 65535
			gray.Set(y-b.Min.Y, x-b.Min.X, lum)
		}
	}
	return &ImageInput{Width: b.Dx(), Height: b.Dy(), Gray: gray}, nil
}

// ImageOutput writes frames as PNG files: the first frame goes to
// <output-stem>.png and each later frame to <output-stem>/<frame#>.png,
// numbered from 1, creating the <output-stem> directory when needed.
type ImageOutput struct {
	stem  string
	frame int
}

// NewImageOutput returns an ImageOutput writing under stem.
func NewImageOutput(stem string) *ImageOutput { return &ImageOutput{stem: stem} }

// WriteFrame renders m as a grayscale PNG and writes the next frame in
// sequence.
func (o *ImageOutput) WriteFrame(m *Matrix[float64]) error {
	img := image.NewGray(image.Rect(0, 0, m.Cols, m.Rows))
	for r := 0; r < m.Rows; r++ {
		for c := 0; c < m.Cols; c++ {
			v := m.At(r, c)
			if v < 0 {
				v = 0
			}
			if v > 1 {
				v = 1
			}
			img.SetGray(c, r, color.Gray{Y: uint8(v * 255)})
		}
	}
	path := o.framePath()
	if o.frame > 0 {
		if err := os.MkdirAll(o.stem, 0777); err != nil {
			return chk.Err("cannot create image directory %q: %v", o.stem, err)
		}
	}
	o.frame++
	f, err := os.Create(path)
	if err != nil {
		return chk.Err("cannot create image frame %q: %v", path, err)
	}
	defer f.Close()
	return png.Encode(f, img)
}

func (o *ImageOutput) framePath() string {
	if o.frame == 0 {
		return o.stem + ".png"
	}
	return o.stem + "/" + strconv.Itoa(o.frame) + ".png"
}
