package qdrant

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"

	"semspace/internal/domain"
	"semspace/internal/vectorstore"
)

// wordNamespace seeds the deterministic point IDs derived from words.
var wordNamespace = uuid.MustParse("6f1d8a52-3c1e-4d59-9a57-1f0b8f3e2c71")

// PointID returns the Qdrant point ID used for word.
func PointID(word string) string {
	return uuid.NewSHA1(wordNamespace, []byte(word)).String()
}

// Space is an embedding space stored in a Qdrant collection, one point per
// word with payload {"word": ...}. Lookups go over the REST API and are memoised.
type Space struct {
	name       string
	url        string
	apiKey     string
	collection string
	dimension  int
	client     *http.Client

	cache sync.Map // word -> []float64, nil when absent
}

type Config struct {
	URL        string
	APIKey     string
	Collection string
	Timeout    time.Duration
}

func newSpace(name string, cfg Config) *Space {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 15 * time.Second
	}
	return &Space{
		name:       name,
		url:        cfg.URL,
		apiKey:     cfg.APIKey,
		collection: cfg.Collection,
		client:     &http.Client{Timeout: timeout},
	}
}

// Open connects to an existing collection and reads its vector size.
func Open(name string, cfg Config) (*Space, error) {
	s := newSpace(name, cfg)
	var resp struct {
		Result struct {
			Config struct {
				Params struct {
					Vectors struct {
						Size int `json:"size"`
					} `json:"vectors"`
				} `json:"params"`
			} `json:"config"`
		} `json:"result"`
	}
	if err := s.do(http.MethodGet, s.collectionURL(""), nil, &resp); err != nil {
		return nil, err
	}
	s.dimension = resp.Result.Config.Params.Vectors.Size
	if s.dimension <= 0 {
		return nil, fmt.Errorf("qdrant collection %s has no vector size", s.collection)
	}
	return s, nil
}

func (s *Space) Name() string { return s.name }

func (s *Space) Dimension() int { return s.dimension }

// Contains reports false when the lookup itself fails; use Vector to tell
// a transport failure from a missing word.
func (s *Space) Contains(word string) bool {
	v, err := s.lookup(word)
	if err != nil {
		slog.Warn("qdrant lookup failed", "space", s.name, "word", word, "error", err)
		return false
	}
	return v != nil
}

func (s *Space) Vector(word string) ([]float64, error) {
	v, err := s.lookup(word)
	if err != nil {
		return nil, err
	}
	if v == nil {
		return nil, fmt.Errorf("%w: %q", domain.ErrNotFound, word)
	}
	out := make([]float64, len(v))
	copy(out, v)
	return out, nil
}

func (s *Space) lookup(word string) ([]float64, error) {
	if v, ok := s.cache.Load(word); ok {
		return v.([]float64), nil
	}
	req := map[string]any{
		"ids":          []string{PointID(word)},
		"with_vector":  true,
		"with_payload": true,
	}
	var resp struct {
		Result []struct {
			Payload map[string]any `json:"payload"`
			Vector  []float64      `json:"vector"`
		} `json:"result"`
	}
	if err := s.do(http.MethodPost, s.collectionURL("/points"), req, &resp); err != nil {
		return nil, err
	}
	var vec []float64
	for _, r := range resp.Result {
		if w, _ := r.Payload["word"].(string); w == word && len(r.Vector) == s.dimension {
			vec = r.Vector
			break
		}
	}
	s.cache.Store(word, vec)
	return vec, nil
}

// Import creates the collection when missing and upserts every word of src
// in batches of batchSize points.
func Import(cfg Config, src vectorstore.Storage, batchSize int) (int, error) {
	if src.Dimension() <= 0 {
		return 0, errors.New("invalid dimension")
	}
	if batchSize <= 0 {
		batchSize = 256
	}
	s := newSpace(cfg.Collection, cfg)
	body := map[string]any{
		// Cosine collections normalise vectors on upload; Dot keeps them as imported.
		"vectors": map[string]any{
			"size":     src.Dimension(),
			"distance": "Dot",
		},
	}
	// Qdrant answers 409 when the collection exists; treat that as success.
	if err := s.do(http.MethodPut, s.collectionURL(""), body, nil); err != nil && !errors.Is(err, errConflict) {
		return 0, err
	}

	total := 0
	batch := make([]map[string]any, 0, batchSize)
	flush := func() error {
		if len(batch) == 0 {
			return nil
		}
		if err := s.do(http.MethodPut, s.collectionURL("/points?wait=true"), map[string]any{"points": batch}, nil); err != nil {
			return err
		}
		total += len(batch)
		batch = batch[:0]
		return nil
	}
	err := src.Each(func(word string, vector []float64) error {
		batch = append(batch, map[string]any{
			"id":      PointID(word),
			"vector":  vector,
			"payload": map[string]any{"word": word},
		})
		if len(batch) >= batchSize {
			return flush()
		}
		return nil
	})
	if err != nil {
		return total, err
	}
	if err := flush(); err != nil {
		return total, err
	}
	return total, nil
}

var errConflict = errors.New("conflict")

func (s *Space) collectionURL(suffix string) string {
	return fmt.Sprintf("%s/collections/%s%s", s.url, s.collection, suffix)
}

func (s *Space) do(method, url string, body any, out any) error {
	var rdr *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		rdr = bytes.NewReader(data)
	} else {
		rdr = bytes.NewReader(nil)
	}
	req, err := http.NewRequest(method, url, rdr)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if s.apiKey != "" {
		req.Header.Set("api-key", s.apiKey)
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode == http.StatusConflict {
		return fmt.Errorf("qdrant %s %s: %w", method, url, errConflict)
	}
	if resp.StatusCode >= 300 {
		return fmt.Errorf("qdrant %s %s failed: %s", method, url, resp.Status)
	}
	if out != nil {
		return json.NewDecoder(resp.Body).Decode(out)
	}
	return nil
}
