package vision

import (
	"bytes"
	"image"
	"image/color"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"math"
	"sort"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
)

// decodeImage decodes raster image data in any registered format
// (PNG, JPEG, GIF, BMP, TIFF).
func decodeImage(data []byte) (image.Image, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	return img, nil
}

// toGray converts an image to 8-bit grayscale.
func toGray(img image.Image) *image.Gray {
	if g, ok := img.(*image.Gray); ok {
		return g
	}
	bounds := img.Bounds()
	gray := image.NewGray(bounds)
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			gray.Set(x, y, color.GrayModel.Convert(img.At(x, y)))
		}
	}
	return gray
}

// medianDenoise applies a 3x3 median filter, removing salt-and-pepper noise
// that would otherwise fragment line detection.
func medianDenoise(src *image.Gray) *image.Gray {
	bounds := src.Bounds()
	dst := image.NewGray(bounds)
	var window [9]byte
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			n := 0
			for dy := -1; dy <= 1; dy++ {
				for dx := -1; dx <= 1; dx++ {
					px, py := x+dx, y+dy
					if px < bounds.Min.X || px >= bounds.Max.X || py < bounds.Min.Y || py >= bounds.Max.Y {
						continue
					}
					window[n] = src.GrayAt(px, py).Y
					n++
				}
			}
			vals := window[:n]
			sort.Slice(vals, func(i, j int) bool { return vals[i] < vals[j] })
			dst.SetGray(x, y, color.Gray{Y: vals[n/2]})
		}
	}
	return dst
}

// binarizeOffset is subtracted from the local mean before comparison, so a
// pixel must be noticeably darker than its surroundings to count as ink.
// Without it, uniform regions binarize to speckle.
const binarizeOffset = 10

// binarize converts grayscale to a boolean ink mask using adaptive mean
// thresholding: each pixel is compared against the mean of a square
// neighborhood, so photographed or unevenly lit scans binarize correctly
// where a single global threshold would swallow the dim half of the page.
// Neighborhood means come from a summed-area table, keeping the pass linear
// in the pixel count.
func binarize(src *image.Gray) *inkMask {
	bounds := src.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	mask := newInkMask(w, h)
	if w == 0 || h == 0 {
		return mask
	}

	// integral[y][x] holds the sum of all pixels above and left of (x, y),
	// padded by one row and column of zeros.
	stride := w + 1
	integral := make([]uint64, stride*(h+1))
	for y := 0; y < h; y++ {
		var rowSum uint64
		for x := 0; x < w; x++ {
			rowSum += uint64(src.GrayAt(bounds.Min.X+x, bounds.Min.Y+y).Y)
			integral[(y+1)*stride+x+1] = integral[y*stride+x+1] + rowSum
		}
	}

	window := min(w, h) / 8
	if window < 15 {
		window = 15
	}
	half := window / 2

	for y := 0; y < h; y++ {
		y0, y1 := max(0, y-half), min(h-1, y+half)
		for x := 0; x < w; x++ {
			x0, x1 := max(0, x-half), min(w-1, x+half)
			count := uint64((x1 - x0 + 1) * (y1 - y0 + 1))
			sum := integral[(y1+1)*stride+x1+1] - integral[y0*stride+x1+1] -
				integral[(y1+1)*stride+x0] + integral[y0*stride+x0]
			mean := sum / count

			p := uint64(src.GrayAt(bounds.Min.X+x, bounds.Min.Y+y).Y)
			if p+binarizeOffset <= mean {
				mask.set(x, y)
			}
		}
	}
	return mask
}

// inkMask is a dense boolean raster of ink pixels with a (0,0) origin.
type inkMask struct {
	w, h int
	bits []bool
}

func newInkMask(w, h int) *inkMask {
	return &inkMask{w: w, h: h, bits: make([]bool, w*h)}
}

func (m *inkMask) set(x, y int)     { m.bits[y*m.w+x] = true }
func (m *inkMask) at(x, y int) bool { return m.bits[y*m.w+x] }

// estimateSkew searches small rotation angles for the one that maximizes the
// variance of the horizontal ink projection. Text and ruled lines produce
// sharply peaked projections when rows are level.
func estimateSkew(mask *inkMask) float64 {
	// Downsample for speed; skew estimation does not need full resolution.
	step := 1
	if mask.w > 800 {
		step = mask.w / 800
	}

	bestAngle := 0.0
	bestScore := -1.0
	for deg := -5.0; deg <= 5.0; deg += 0.5 {
		score := projectionVariance(mask, deg, step)
		if score > bestScore {
			bestScore = score
			bestAngle = deg
		}
	}
	return bestAngle
}

func projectionVariance(mask *inkMask, deg float64, step int) float64 {
	rad := deg * math.Pi / 180
	sin, cos := math.Sin(rad), math.Cos(rad)
	proj := make([]float64, mask.h)
	for y := 0; y < mask.h; y += step {
		for x := 0; x < mask.w; x += step {
			if !mask.at(x, y) {
				continue
			}
			ry := int(float64(y)*cos - float64(x)*sin)
			if ry >= 0 && ry < mask.h {
				proj[ry]++
			}
		}
	}

	mean := 0.0
	for _, v := range proj {
		mean += v
	}
	mean /= float64(len(proj))
	variance := 0.0
	for _, v := range proj {
		d := v - mean
		variance += d * d
	}
	return variance / float64(len(proj))
}

// rotateGray rotates an image around its center by the given angle in degrees
// using nearest-neighbor sampling, filling exposed corners with white.
func rotateGray(src *image.Gray, deg float64) *image.Gray {
	if deg == 0 {
		return src
	}
	rad := deg * math.Pi / 180
	sin, cos := math.Sin(rad), math.Cos(rad)
	bounds := src.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	cx, cy := float64(w)/2, float64(h)/2
	dst := image.NewGray(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			// Inverse mapping from destination to source.
			dx, dy := float64(x)-cx, float64(y)-cy
			sx := int(dx*cos + dy*sin + cx)
			sy := int(-dx*sin + dy*cos + cy)
			if sx >= 0 && sx < w && sy >= 0 && sy < h {
				dst.SetGray(x, y, src.GrayAt(bounds.Min.X+sx, bounds.Min.Y+sy))
			} else {
				dst.SetGray(x, y, color.Gray{Y: 255})
			}
		}
	}
	return dst
}

// preprocess runs the full normalization pipeline and returns the cleaned
// grayscale image alongside its binary ink mask.
func preprocess(img image.Image) (*image.Gray, *inkMask) {
	gray := medianDenoise(toGray(img))
	mask := binarize(gray)

	skew := estimateSkew(mask)
	if math.Abs(skew) >= 0.5 {
		gray = rotateGray(gray, -skew)
		mask = binarize(gray)
	}
	return gray, mask
}
