// Package bigchar renders the leading rune of a card face as large
// half-block art, so single characters read at flashcard size.
package bigchar

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"os"
	"strings"

	"golang.org/x/image/font"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
)

var loadedFace font.Face

func init() {
	// Try to load a CJK-capable font from common system locations
	fontPaths := []string{
		// macOS
		"/System/Library/Fonts/STHeiti Light.ttc",
		"/System/Library/Fonts/PingFang.ttc",
		"/System/Library/Fonts/Hiragino Sans GB.ttc",
		"/Library/Fonts/Arial Unicode.ttf",
		// Linux
		"/usr/share/fonts/opentype/noto/NotoSansCJK-Regular.ttc",
		"/usr/share/fonts/noto-cjk/NotoSansCJK-Regular.ttc",
		"/usr/share/fonts/truetype/noto/NotoSansCJK-Regular.ttc",
		"/usr/share/fonts/truetype/droid/DroidSansFallbackFull.ttf",
		// Windows
		"C:\\Windows\\Fonts\\msyh.ttc",
		"C:\\Windows\\Fonts\\simsun.ttc",
	}

	for _, path := range fontPaths {
		data, err := os.ReadFile(path)
		if err != nil {
			continue
		}

		if coll, err := opentype.ParseCollection(data); err == nil && coll.NumFonts() > 0 {
			if fnt, err := coll.Font(0); err == nil {
				if face, err := opentype.NewFace(fnt, &opentype.FaceOptions{
					Size: 64,
					DPI:  72,
				}); err == nil {
					loadedFace = face
					return
				}
			}
		}

		if fnt, err := opentype.Parse(data); err == nil {
			if face, err := opentype.NewFace(fnt, &opentype.FaceOptions{
				Size: 64,
				DPI:  72,
			}); err == nil {
				loadedFace = face
				return
			}
		}
	}
}

// IsAvailable reports whether a usable font was found at startup.
func IsAvailable() bool {
	return loadedFace != nil
}

// RenderBlock draws the first rune of text with half-block characters
// (▀▄█). cols and rows set the output size in terminal cells. Returns
// "" when no font is available, so callers fall back to plain text.
func RenderBlock(text string, cols, rows int) string {
	if text == "" || loadedFace == nil {
		return ""
	}

	r := []rune(text)[0]
	char := string(r)

	bounds, _, _ := loadedFace.GlyphBounds(r)
	glyphWidth := (bounds.Max.X - bounds.Min.X).Ceil()
	glyphHeight := (bounds.Max.Y - bounds.Min.Y).Ceil()

	padding := 4
	srcWidth := max(glyphWidth+padding*2, 64)
	srcHeight := max(glyphHeight+padding*2, 64)

	srcImg := image.NewGray(image.Rect(0, 0, srcWidth, srcHeight))
	draw.Draw(srcImg, srcImg.Bounds(), &image.Uniform{color.Black}, image.Point{}, draw.Src)

	x := (srcWidth - glyphWidth) / 2
	y := srcHeight - padding - bounds.Max.Y.Ceil()

	d := &font.Drawer{
		Dst:  srcImg,
		Src:  image.White,
		Face: loadedFace,
		Dot:  fixed.P(x, y),
	}
	d.DrawString(char)

	// Each cell holds two vertical pixels.
	scaled := scaleDown(srcImg, cols, rows*2)
	return toHalfBlocks(scaled, cols, rows)
}

// scaleDown shrinks a grayscale image using area averaging.
func scaleDown(src *image.Gray, dstWidth, dstHeight int) *image.Gray {
	srcWidth := src.Bounds().Max.X
	srcHeight := src.Bounds().Max.Y

	dst := image.NewGray(image.Rect(0, 0, dstWidth, dstHeight))

	xRatio := float64(srcWidth) / float64(dstWidth)
	yRatio := float64(srcHeight) / float64(dstHeight)

	for dy := 0; dy < dstHeight; dy++ {
		for dx := 0; dx < dstWidth; dx++ {
			sx1 := int(float64(dx) * xRatio)
			sy1 := int(float64(dy) * yRatio)
			sx2 := min(int(float64(dx+1)*xRatio), srcWidth)
			sy2 := min(int(float64(dy+1)*yRatio), srcHeight)

			var sum, count int
			for sy := sy1; sy < sy2; sy++ {
				for sx := sx1; sx < sx2; sx++ {
					sum += int(src.GrayAt(sx, sy).Y)
					count++
				}
			}
			if count > 0 {
				dst.SetGray(dx, dy, color.Gray{Y: uint8(sum / count)})
			}
		}
	}
	return dst
}

func toHalfBlocks(img *image.Gray, cols, rows int) string {
	const threshold = 40

	var result strings.Builder
	for row := 0; row < rows; row++ {
		for col := 0; col < cols; col++ {
			topOn := brightnessAt(img, col, row*2) > threshold
			bottomOn := brightnessAt(img, col, row*2+1) > threshold

			switch {
			case topOn && bottomOn:
				result.WriteRune('█')
			case topOn:
				result.WriteRune('▀')
			case bottomOn:
				result.WriteRune('▄')
			default:
				result.WriteRune(' ')
			}
		}
		if row < rows-1 {
			result.WriteRune('\n')
		}
	}
	return result.String()
}

func brightnessAt(img *image.Gray, x, y int) uint8 {
	if x < 0 || y < 0 || x >= img.Bounds().Max.X || y >= img.Bounds().Max.Y {
		return 0
	}
	return img.GrayAt(x, y).Y
}

var cache = make(map[string]string)

// Render returns the cached rendering for text, drawing it on first use.
func Render(text string, cols, rows int) string {
	if text == "" || !IsAvailable() {
		return ""
	}
	key := fmt.Sprintf("%c:%dx%d", []rune(text)[0], cols, rows)
	if cached, ok := cache[key]; ok {
		return cached
	}
	rendered := RenderBlock(text, cols, rows)
	cache[key] = rendered
	return rendered
}
