package classify

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
)

// DebugSink persists the raw text of documents that could not be classified.
type DebugSink interface {
	WriteDebug(ctx context.Context, doc, text string) (string, error)
}

// FileSink writes debug_<doc>.txt files into a directory.
type FileSink struct {
	Dir string
}

// ArtifactName is the debug file name for a document base name.
func ArtifactName(doc string) string {
	return fmt.Sprintf("debug_%s.txt", filepath.Base(doc))
}

func (s FileSink) WriteDebug(_ context.Context, doc, text string) (string, error) {
	if err := os.MkdirAll(s.Dir, 0o755); err != nil {
		return "", fmt.Errorf("create debug dir: %w", err)
	}
	path := filepath.Join(s.Dir, ArtifactName(doc))
	if err := os.WriteFile(path, []byte(text), 0o644); err != nil {
		return "", fmt.Errorf("write debug artifact: %w", err)
	}
	return path, nil
}
