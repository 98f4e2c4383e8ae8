package embedding

import (
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"semspace/internal/domain"
	"semspace/internal/vectorstore/memory"
	"semspace/internal/vectorstore/qdrant"
)

// Source types.
const (
	SourceFile   = "file"
	SourceQdrant = "qdrant"
)

// Source describes where a named embedding space is loaded from.
type Source struct {
	Type   string
	Path   string
	Format Format
	Limit  int
	Qdrant qdrant.Config
}

// Loader loads named embedding spaces from their configured sources.
// It performs no caching; wrap it in a Cache for reuse.
type Loader struct {
	sources map[string]Source
}

func NewLoader(sources map[string]Source) *Loader {
	return &Loader{sources: sources}
}

// Names returns the configured space names, sorted.
func (l *Loader) Names() []string {
	names := make([]string, 0, len(l.sources))
	for n := range l.sources {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Load reads the named space. Failures are returned as *domain.LoadError.
func (l *Loader) Load(name string) (domain.EmbeddingSpace, error) {
	src, ok := l.sources[name]
	if !ok {
		return nil, &domain.LoadError{Space: name, Err: fmt.Errorf("no source configured")}
	}
	var (
		space domain.EmbeddingSpace
		err   error
	)
	switch src.Type {
	case SourceFile, "":
		space, err = LoadFile(name, src.Path, src.Format, src.Limit)
	case SourceQdrant:
		space, err = qdrant.Open(name, src.Qdrant)
	default:
		err = fmt.Errorf("unknown source type %q", src.Type)
	}
	if err != nil {
		return nil, &domain.LoadError{Space: name, Err: err}
	}
	return space, nil
}

// LoadFile reads a word vector file; paths ending in .gz are decompressed.
func LoadFile(name, path string, format Format, limit int) (*memory.Space, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	var r io.Reader = f
	if strings.HasSuffix(path, ".gz") {
		gz, err := gzip.NewReader(f)
		if err != nil {
			return nil, err
		}
		defer gz.Close()
		r = gz
	}
	return Read(name, r, format, limit)
}
