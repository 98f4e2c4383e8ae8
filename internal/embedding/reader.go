package embedding

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"semspace/internal/vectorstore/memory"
)

// Format is the on-disk layout of a pre-trained word vector file.
type Format string

const (
	// FormatText is one "word v1 v2 ... vN" line per word, with an optional
	// "count dim" header line (GloVe, fastText .vec, word2vec text).
	FormatText Format = "text"
	// FormatBinary is the word2vec C binary layout: a "count dim" header line,
	// then for each word its text, a space and dim little-endian float32 values.
	FormatBinary Format = "binary"
)

// Read decodes word vectors from r into an in-memory space named name.
// limit caps the number of words read; zero reads everything.
func Read(name string, r io.Reader, format Format, limit int) (*memory.Space, error) {
	switch format {
	case FormatText, "":
		return ReadText(name, r, limit)
	case FormatBinary:
		return ReadBinary(name, r, limit)
	default:
		return nil, fmt.Errorf("unknown vector format %q", format)
	}
}

// ReadText decodes the text word vector format.
func ReadText(name string, r io.Reader, limit int) (*memory.Space, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)

	var space *memory.Space
	lineNo := 0
	for sc.Scan() {
		lineNo++
		fields := strings.Fields(sc.Text())
		if len(fields) == 0 {
			continue
		}
		if lineNo == 1 && len(fields) == 2 {
			if _, err := strconv.Atoi(fields[0]); err == nil {
				dim, err := strconv.Atoi(fields[1])
				if err != nil || dim <= 0 {
					return nil, fmt.Errorf("line 1: bad header %q", sc.Text())
				}
				space = memory.NewSpace(name, dim)
				continue
			}
		}
		if len(fields) < 2 {
			return nil, fmt.Errorf("line %d: missing vector", lineNo)
		}
		if space == nil {
			space = memory.NewSpace(name, len(fields)-1)
		}
		vec := make([]float64, len(fields)-1)
		for i, f := range fields[1:] {
			v, err := strconv.ParseFloat(f, 64)
			if err != nil {
				return nil, fmt.Errorf("line %d: %w", lineNo, err)
			}
			vec[i] = v
		}
		if err := space.Add(fields[0], vec); err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNo, err)
		}
		if limit > 0 && space.Len() >= limit {
			break
		}
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	if space == nil || space.Len() == 0 {
		return nil, errors.New("no word vectors found")
	}
	return space, nil
}

// ReadBinary decodes the word2vec binary format.
func ReadBinary(name string, r io.Reader, limit int) (*memory.Space, error) {
	br := bufio.NewReader(r)
	header, err := br.ReadString('\n')
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	var count, dim int
	if _, err := fmt.Sscanf(strings.TrimSpace(header), "%d %d", &count, &dim); err != nil {
		return nil, fmt.Errorf("bad header %q: %w", strings.TrimSpace(header), err)
	}
	if count <= 0 || dim <= 0 {
		return nil, fmt.Errorf("bad header %q", strings.TrimSpace(header))
	}
	if limit > 0 && limit < count {
		count = limit
	}

	space := memory.NewSpace(name, dim)
	raw := make([]float32, dim)
	for i := 0; i < count; i++ {
		word, err := br.ReadString(' ')
		if err != nil {
			return nil, fmt.Errorf("word %d: %w", i, err)
		}
		word = strings.TrimLeft(strings.TrimSuffix(word, " "), "\n")
		if err := binary.Read(br, binary.LittleEndian, raw); err != nil {
			return nil, fmt.Errorf("word %d (%q): %w", i, word, err)
		}
		vec := make([]float64, dim)
		for j, f := range raw {
			if math.IsNaN(float64(f)) {
				return nil, fmt.Errorf("word %d (%q): NaN component", i, word)
			}
			vec[j] = float64(f)
		}
		if err := space.Add(word, vec); err != nil {
			return nil, fmt.Errorf("word %d: %w", i, err)
		}
	}
	return space, nil
}
