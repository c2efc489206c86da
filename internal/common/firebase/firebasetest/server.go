// Package firebasetest provides an in-memory Realtime Database REST endpoint
// for tests. It understands GET, PATCH and POST on <path>.json and records
// every request it serves.
package firebasetest

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"

	"market-admin/internal/common/config"
)

// Request is one call observed by the server.
type Request struct {
	Method string
	Path   string
	Query  url.Values
	Body   interface{}
}

type Server struct {
	server *httptest.Server

	mu       sync.Mutex
	data     map[string]interface{}
	requests []Request
	failures map[string]int
	seq      int
}

func NewServer() *Server {
	s := &Server{
		data:     map[string]interface{}{},
		failures: map[string]int{},
	}
	s.server = httptest.NewServer(http.HandlerFunc(s.handle))
	return s
}

// URL returns the database base URL with a trailing slash.
func (s *Server) URL() string {
	return s.server.URL + "/"
}

func (s *Server) Close() {
	s.server.Close()
}

// StoreConfig returns a config pointing at this server.
func (s *Server) StoreConfig() config.StoreConfig {
	return config.StoreConfig{BaseURL: s.URL()}
}

// Seed stores value at path, replacing whatever was there.
func (s *Server) Seed(path string, value interface{}) {
	raw, err := json.Marshal(value)
	if err != nil {
		panic(fmt.Sprintf("firebasetest: seed %s: %v", path, err))
	}
	var generic interface{}
	if err := json.Unmarshal(raw, &generic); err != nil {
		panic(fmt.Sprintf("firebasetest: seed %s: %v", path, err))
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.set(splitPath(path), generic)
}

// Value returns the generic JSON value stored at path, or nil.
func (s *Server) Value(path string) interface{} {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.get(splitPath(path))
}

// Children returns the child objects under path keyed by push key.
func (s *Server) Children(path string) map[string]map[string]interface{} {
	out := map[string]map[string]interface{}{}
	node, ok := s.Value(path).(map[string]interface{})
	if !ok {
		return out
	}
	for k, v := range node {
		if child, ok := v.(map[string]interface{}); ok {
			out[k] = child
		}
	}
	return out
}

// Fail makes every request on path reply with status.
func (s *Server) Fail(path string, status int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures[strings.Trim(path, "/")] = status
}

// Recover clears a failure injected with Fail.
func (s *Server) Recover(path string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.failures, strings.Trim(path, "/"))
}

func (s *Server) Requests() []Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Request, len(s.requests))
	copy(out, s.requests)
	return out
}

// Writes returns every PATCH, POST, PUT or DELETE served so far.
func (s *Server) Writes() []Request {
	var writes []Request
	for _, r := range s.Requests() {
		if r.Method != http.MethodGet {
			writes = append(writes, r)
		}
	}
	return writes
}

// WritesTo returns the writes whose path starts with prefix.
func (s *Server) WritesTo(prefix string) []Request {
	var writes []Request
	for _, r := range s.Writes() {
		if strings.HasPrefix(r.Path, prefix) {
			writes = append(writes, r)
		}
	}
	return writes
}

func (s *Server) handle(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimSuffix(strings.Trim(r.URL.Path, "/"), ".json")
	path = strings.Trim(path, "/")

	var body interface{}
	if r.Body != nil {
		raw, _ := io.ReadAll(r.Body)
		if len(raw) > 0 {
			if err := json.Unmarshal(raw, &body); err != nil {
				http.Error(w, `{"error":"Invalid data; couldn't parse JSON object."}`, http.StatusBadRequest)
				return
			}
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.requests = append(s.requests, Request{Method: r.Method, Path: path, Query: r.URL.Query(), Body: body})

	if status, ok := s.failures[path]; ok {
		http.Error(w, `{"error":"injected failure"}`, status)
		return
	}

	keys := splitPath(path)
	switch r.Method {
	case http.MethodGet:
		value := s.get(keys)
		if r.URL.Query().Get("shallow") == "true" {
			value = shallow(value)
		}
		writeJSON(w, value)
	case http.MethodPatch:
		fields, ok := body.(map[string]interface{})
		if !ok {
			http.Error(w, `{"error":"Invalid data; couldn't parse JSON object."}`, http.StatusBadRequest)
			return
		}
		node, _ := s.get(keys).(map[string]interface{})
		if node == nil {
			node = map[string]interface{}{}
		}
		for k, v := range fields {
			node[k] = v
		}
		s.set(keys, node)
		writeJSON(w, fields)
	case http.MethodPost:
		s.seq++
		key := fmt.Sprintf("-N%08d", s.seq)
		s.set(append(keys, key), body)
		writeJSON(w, map[string]string{"name": key})
	case http.MethodPut:
		s.set(keys, body)
		writeJSON(w, body)
	default:
		http.Error(w, `{"error":"method not allowed"}`, http.StatusMethodNotAllowed)
	}
}

func (s *Server) get(keys []string) interface{} {
	var node interface{} = s.data
	for _, k := range keys {
		m, ok := node.(map[string]interface{})
		if !ok {
			return nil
		}
		node, ok = m[k]
		if !ok {
			return nil
		}
	}
	return node
}

func (s *Server) set(keys []string, value interface{}) {
	if len(keys) == 0 {
		if m, ok := value.(map[string]interface{}); ok {
			s.data = m
		}
		return
	}
	node := s.data
	for _, k := range keys[:len(keys)-1] {
		child, ok := node[k].(map[string]interface{})
		if !ok {
			child = map[string]interface{}{}
			node[k] = child
		}
		node = child
	}
	node[keys[len(keys)-1]] = value
}

func splitPath(path string) []string {
	path = strings.Trim(path, "/")
	if path == "" {
		return nil
	}
	return strings.Split(path, "/")
}

func shallow(value interface{}) interface{} {
	m, ok := value.(map[string]interface{})
	if !ok {
		return value
	}
	out := make(map[string]interface{}, len(m))
	for k := range m {
		out[k] = true
	}
	return out
}

func writeJSON(w http.ResponseWriter, value interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if value == nil {
		_, _ = w.Write([]byte("null"))
		return
	}
	_ = json.NewEncoder(w).Encode(value)
}
