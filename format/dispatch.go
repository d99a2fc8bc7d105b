package format

import (
	"context"

	"github.com/tsawler/tablecast/model"
)

// Extractor is the capability every extraction backend implements: attempt
// to extract tables from raw file bytes. Implementations are pure with
// respect to their input and safe for concurrent use unless documented
// otherwise.
type Extractor interface {
	// Extract produces the committed extraction outcome for the file.
	// Expected failures are returned as *model.ConversionError.
	Extract(ctx context.Context, data []byte) (*model.ExtractionOutcome, error)

	// Name returns the extractor's identifier for logging and origins.
	Name() string
}

// Dispatcher maps formats to their registered extractors. It has no side
// effects: dispatch neither reads nor writes anything beyond the lookup.
type Dispatcher struct {
	extractors map[Format]Extractor
}

// NewDispatcher creates an empty dispatcher.
func NewDispatcher() *Dispatcher {
	return &Dispatcher{extractors: make(map[Format]Extractor)}
}

// Register associates an extractor with a format, replacing any previous
// registration for that format.
func (d *Dispatcher) Register(f Format, e Extractor) {
	d.extractors[f] = e
}

// Extractor resolves the file's format from its name and content and
// returns the registered extractor. Unknown or unregistered formats fail
// with UnsupportedFormat.
func (d *Dispatcher) Extractor(filename string, data []byte) (Extractor, Format, error) {
	f := Resolve(filename, data)
	if f == Unknown {
		return nil, Unknown, model.NewError(model.TagUnsupportedFormat,
			"unsupported file format for %q", filename)
	}
	e, ok := d.extractors[f]
	if !ok {
		return nil, f, model.NewError(model.TagUnsupportedFormat,
			"no extractor registered for %s files", f)
	}
	return e, f, nil
}

// Formats returns the formats with a registered extractor.
func (d *Dispatcher) Formats() []Format {
	out := make([]Format, 0, len(d.extractors))
	for f := PDF; f <= Image; f++ {
		if _, ok := d.extractors[f]; ok {
			out = append(out, f)
		}
	}
	return out
}
