package imaging

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/mitindbo/indbo/internal/model"
)

// LoadedPhoto is the outcome of loading and normalizing one photo file.
type LoadedPhoto struct {
	Path      string
	Transport string
	Err       error
}

// LoadPhotos reads and normalizes the given files concurrently. Results are
// appended as each file finishes, so the output order follows completion, not
// the input order. A file that fails carries its error in the result instead
// of aborting the batch.
func LoadPhotos(ctx context.Context, paths []string) []LoadedPhoto {
	if len(paths) == 0 {
		return nil
	}

	results := make(chan LoadedPhoto, len(paths))
	for _, path := range paths {
		go func(path string) {
			results <- loadPhoto(path)
		}(path)
	}

	out := make([]LoadedPhoto, 0, len(paths))
	for range paths {
		select {
		case res := <-results:
			out = append(out, res)
		case <-ctx.Done():
			out = append(out, LoadedPhoto{Err: ctx.Err()})
			return out
		}
	}
	return out
}

func loadPhoto(path string) LoadedPhoto {
	f, err := os.Open(path)
	if err != nil {
		return LoadedPhoto{Path: path, Err: fmt.Errorf("opening %s: %w", path, err)}
	}
	defer f.Close()

	photo, err := ProcessPhoto(f)
	if err != nil {
		return LoadedPhoto{Path: path, Err: fmt.Errorf("processing %s: %w", path, err)}
	}
	return LoadedPhoto{Path: path, Transport: photo.Transport()}
}

// LoadDocuments packages the given files for transport. Unlike photos the
// order is kept, since the list is small and callers show it to the user.
func LoadDocuments(paths []string) ([]model.NewDocument, error) {
	docs := make([]model.NewDocument, 0, len(paths))
	for _, path := range paths {
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("opening %s: %w", path, err)
		}
		doc, err := ProcessDocument(f, filepath.Base(path))
		f.Close()
		if err != nil {
			return nil, err
		}
		docs = append(docs, *doc)
	}
	return docs, nil
}
