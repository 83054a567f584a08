// ABOUTME: In-memory fake of the Google People API for tests
// ABOUTME: Serves connections list, get, create, update, and delete over httptest
package peopletest

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sort"
	"strings"
	"sync"
	"testing"

	"google.golang.org/api/option"
	"google.golang.org/api/people/v1"
)

// Request is one call observed by the fake.
type Request struct {
	Method string
	Path   string
	Query  map[string]string
	Body   *people.Person
}

// Server is a fake People API. Only requests bearing Token are accepted.
type Server struct {
	*httptest.Server
	Token string

	mu       sync.Mutex
	persons  map[string]*people.Person
	requests []Request
	nextID   int
	failures map[string]int
}

// NewServer starts a fake that accepts bearer token and closes it on cleanup.
func NewServer(t testing.TB, token string) *Server {
	t.Helper()
	s := &Server{
		Token:    token,
		persons:  make(map[string]*people.Person),
		failures: make(map[string]int),
	}
	s.Server = httptest.NewServer(http.HandlerFunc(s.handle))
	t.Cleanup(s.Close)
	return s
}

// ClientOption points a People service at the fake.
func (s *Server) ClientOption() option.ClientOption {
	return option.WithEndpoint(s.URL + "/")
}

// Seed stores a person and returns its resource name.
func (s *Server) Seed(given, family, email, phone string) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	person := &people.Person{Names: []*people.Name{{GivenName: given, FamilyName: family, DisplayName: strings.TrimSpace(given + " " + family)}}}
	if email != "" {
		person.EmailAddresses = []*people.EmailAddress{{Value: email}}
	}
	if phone != "" {
		person.PhoneNumbers = []*people.PhoneNumber{{Value: phone}}
	}
	return s.store(person)
}

// Person returns a stored person, or nil.
func (s *Server) Person(resourceName string) *people.Person {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.persons[resourceName]
}

// SetEtag overwrites a stored person's etag, simulating a concurrent edit.
func (s *Server) SetEtag(resourceName, etag string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p, ok := s.persons[resourceName]; ok {
		p.Etag = etag
	}
}

// FailNext makes the next request whose "METHOD suffix" key matches fail
// with status. Keys: "GET connections", "GET person", "POST create",
// "PATCH update", "DELETE delete".
func (s *Server) FailNext(key string, status int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures[key] = status
}

// Requests returns every request observed so far.
func (s *Server) Requests() []Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Request(nil), s.requests...)
}

// Calls returns "METHOD kind" keys for every observed request, in order.
func (s *Server) Calls() []string {
	var calls []string
	for _, r := range s.Requests() {
		calls = append(calls, r.Method+" "+kindOf(r.Method, r.Path))
	}
	return calls
}

func (s *Server) store(person *people.Person) string {
	s.nextID++
	person.ResourceName = fmt.Sprintf("people/c%d", s.nextID)
	person.Etag = fmt.Sprintf("etag-%d-1", s.nextID)
	s.persons[person.ResourceName] = person
	return person.ResourceName
}

func kindOf(method, path string) string {
	switch {
	case method == http.MethodGet && strings.HasSuffix(path, "/connections"):
		return "connections"
	case method == http.MethodPost && strings.HasSuffix(path, ":createContact"):
		return "create"
	case method == http.MethodPatch && strings.HasSuffix(path, ":updateContact"):
		return "update"
	case method == http.MethodDelete && strings.HasSuffix(path, ":deleteContact"):
		return "delete"
	case method == http.MethodGet:
		return "person"
	}
	return "unknown"
}

func (s *Server) handle(w http.ResponseWriter, r *http.Request) {
	if r.Header.Get("Authorization") != "Bearer "+s.Token {
		writeError(w, http.StatusUnauthorized, "UNAUTHENTICATED")
		return
	}

	path := strings.TrimPrefix(r.URL.Path, "/v1/")
	req := Request{Method: r.Method, Path: path, Query: map[string]string{}}
	for k := range r.URL.Query() {
		req.Query[k] = r.URL.Query().Get(k)
	}
	if r.Body != nil && (r.Method == http.MethodPost || r.Method == http.MethodPatch) {
		var body people.Person
		if err := json.NewDecoder(r.Body).Decode(&body); err == nil {
			req.Body = &body
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.requests = append(s.requests, req)

	kind := kindOf(r.Method, path)
	if status, ok := s.failures[r.Method+" "+kind]; ok {
		delete(s.failures, r.Method+" "+kind)
		writeError(w, status, http.StatusText(status))
		return
	}

	switch kind {
	case "connections":
		names := make([]string, 0, len(s.persons))
		for name := range s.persons {
			names = append(names, name)
		}
		sort.Strings(names)
		resp := &people.ListConnectionsResponse{TotalItems: int64(len(names))}
		for _, name := range names {
			resp.Connections = append(resp.Connections, s.persons[name])
		}
		writeJSON(w, resp)

	case "create":
		if req.Body == nil {
			writeError(w, http.StatusBadRequest, "INVALID_ARGUMENT")
			return
		}
		s.store(req.Body)
		writeJSON(w, req.Body)

	case "person":
		person, ok := s.persons[path]
		if !ok {
			writeError(w, http.StatusNotFound, "NOT_FOUND")
			return
		}
		writeJSON(w, person)

	case "update":
		name := strings.TrimSuffix(path, ":updateContact")
		person, ok := s.persons[name]
		if !ok {
			writeError(w, http.StatusNotFound, "NOT_FOUND")
			return
		}
		if req.Body == nil || req.Body.Etag != person.Etag {
			writeError(w, http.StatusBadRequest, "FAILED_PRECONDITION")
			return
		}
		person.Names = req.Body.Names
		person.EmailAddresses = req.Body.EmailAddresses
		person.PhoneNumbers = req.Body.PhoneNumbers
		person.Etag += "+"
		writeJSON(w, person)

	case "delete":
		name := strings.TrimSuffix(path, ":deleteContact")
		if _, ok := s.persons[name]; !ok {
			writeError(w, http.StatusNotFound, "NOT_FOUND")
			return
		}
		delete(s.persons, name)
		writeJSON(w, &people.Empty{})

	default:
		writeError(w, http.StatusNotFound, "NOT_FOUND")
	}
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, reason string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"error": map[string]any{
			"code":    status,
			"message": reason,
			"status":  reason,
		},
	})
}
