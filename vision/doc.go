// Package vision extracts tables from raster images of documents.
//
// The pipeline decodes the image, normalizes it (grayscale, denoise,
// binarize, deskew), then looks for ruled table grids using horizontal and
// vertical line detection. When a grid is found, each cell region is cropped
// and sent to OCR individually. When no grid exists, the whole image is
// recognized and words are grouped into rows and columns by position.
package vision
