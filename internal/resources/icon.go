// Package resources provides the tray and notification icon.
package resources

import (
	"bytes"
	"encoding/binary"
	"errors"
	"image"
	"image/color"
	"image/png"
	"sync"
)

// ErrIconNotFound is returned when the icon could not be produced.
var ErrIconNotFound = errors.New("icon not available")

const iconSize = 32

var (
	iconOnce sync.Once
	pngData  []byte
	icoData  []byte
	iconErr  error
)

// drawIcon renders a rounded badge with a "T" glyph.
func drawIcon() *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, iconSize, iconSize))
	bg := color.NRGBA{R: 0x25, G: 0x63, B: 0xeb, A: 0xff}
	fg := color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}
	const r = 6
	for y := 0; y < iconSize; y++ {
		for x := 0; x < iconSize; x++ {
			if inRoundedRect(x, y, r) {
				img.SetNRGBA(x, y, bg)
			}
		}
	}
	// Glyph: top bar and stem.
	for y := 7; y < 11; y++ {
		for x := 8; x < 24; x++ {
			img.SetNRGBA(x, y, fg)
		}
	}
	for y := 11; y < 26; y++ {
		for x := 14; x < 18; x++ {
			img.SetNRGBA(x, y, fg)
		}
	}
	return img
}

func inRoundedRect(x, y, r int) bool {
	cx, cy := x, y
	switch {
	case x < r:
		cx = r
	case x >= iconSize-r:
		cx = iconSize - r - 1
	}
	switch {
	case y < r:
		cy = r
	case y >= iconSize-r:
		cy = iconSize - r - 1
	}
	dx, dy := x-cx, y-cy
	return dx*dx+dy*dy <= r*r
}

// wrapICO stores a PNG image in a single-entry ICO container.
func wrapICO(pngBytes []byte) []byte {
	var buf bytes.Buffer
	// ICONDIR
	_ = binary.Write(&buf, binary.LittleEndian, struct {
		Reserved, Type, Count uint16
	}{0, 1, 1})
	// ICONDIRENTRY
	_ = binary.Write(&buf, binary.LittleEndian, struct {
		Width, Height, Colors, Reserved uint8
		Planes, BitCount                uint16
		Size, Offset                    uint32
	}{iconSize, iconSize, 0, 0, 1, 32, uint32(len(pngBytes)), 6 + 16})
	buf.Write(pngBytes)
	return buf.Bytes()
}

func build() {
	var buf bytes.Buffer
	if err := png.Encode(&buf, drawIcon()); err != nil {
		iconErr = errors.Join(ErrIconNotFound, err)
		return
	}
	pngData = buf.Bytes()
	icoData = wrapICO(pngData)
}

// GetIcon returns the icon as ICO bytes, the format systray and toast use
// on Windows.
func GetIcon() ([]byte, error) {
	iconOnce.Do(build)
	if iconErr != nil {
		return nil, iconErr
	}
	return icoData, nil
}

// GetPNG returns the icon as PNG bytes for platforms that take PNG.
func GetPNG() ([]byte, error) {
	iconOnce.Do(build)
	if iconErr != nil {
		return nil, iconErr
	}
	return pngData, nil
}
