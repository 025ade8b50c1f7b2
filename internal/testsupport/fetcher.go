package testsupport

import (
	"context"
	"sync"
)

// StubFetcher serves canned responses keyed by URL and records every request.
// Unknown URLs fail, mimicking the network fetcher's result convention.
type StubFetcher struct {
	mu       sync.Mutex
	json     map[string]string
	binary   map[string][]byte
	requests []string
}

// NewStubFetcher builds an empty stub.
func NewStubFetcher() *StubFetcher {
	return &StubFetcher{
		json:   make(map[string]string),
		binary: make(map[string][]byte),
	}
}

// AddJSON registers a JSON document for a URL.
func (s *StubFetcher) AddJSON(url, content string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.json[url] = content
}

// AddBinary registers binary content for a URL.
func (s *StubFetcher) AddBinary(url string, data []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.binary[url] = data
}

// Requests returns every URL fetched so far, in order.
func (s *StubFetcher) Requests() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.requests...)
}

func (s *StubFetcher) FetchJSON(ctx context.Context, url string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.requests = append(s.requests, url)
	content, ok := s.json[url]
	return content, ok
}

func (s *StubFetcher) FetchBinary(ctx context.Context, url string) ([]byte, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.requests = append(s.requests, url)
	data, ok := s.binary[url]
	if !ok {
		return nil, false
	}
	return append([]byte(nil), data...), true
}
