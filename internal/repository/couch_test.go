package repository

import (
	"compress/gzip"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/go-kivik/kivik/v4"
	_ "github.com/go-kivik/kivik/v4/couchdb"
)

// fakeCouch implements the handful of CouchDB endpoints the repositories touch.
type fakeCouch struct {
	mu   sync.Mutex
	dbs  map[string]map[string]map[string]interface{}
	seq  int
	fail bool
}

func newTestClient(t *testing.T) (*kivik.Client, *fakeCouch) {
	t.Helper()

	fake := &fakeCouch{dbs: make(map[string]map[string]map[string]interface{})}
	server := httptest.NewServer(fake)
	t.Cleanup(server.Close)

	client, err := kivik.New("couch", server.URL)
	if err != nil {
		t.Fatalf("kivik.New() error = %v", err)
	}
	return client, fake
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func couchError(w http.ResponseWriter, status int, kind string) {
	writeJSON(w, status, map[string]string{"error": kind, "reason": kind})
}

func (f *fakeCouch) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.fail {
		couchError(w, http.StatusInternalServerError, "unknown_error")
		return
	}

	// the couch driver gzips request bodies unless told otherwise
	if r.Header.Get("Content-Encoding") == "gzip" {
		body, err := gzip.NewReader(r.Body)
		if err != nil {
			couchError(w, http.StatusBadRequest, "bad_request")
			return
		}
		defer body.Close()
		r.Body = body
	}

	parts := strings.SplitN(strings.TrimPrefix(r.URL.Path, "/"), "/", 2)
	dbName := parts[0]

	if len(parts) == 1 || parts[1] == "" {
		f.serveDB(w, r, dbName)
		return
	}

	db, ok := f.dbs[dbName]
	if !ok {
		couchError(w, http.StatusNotFound, "not_found")
		return
	}

	switch {
	case parts[1] == "_find" && r.Method == http.MethodPost:
		f.find(w, r, db)
	case parts[1] == "_index" && r.Method == http.MethodPost:
		writeJSON(w, http.StatusOK, map[string]string{"result": "created"})
	default:
		f.serveDoc(w, r, db, parts[1])
	}
}

func (f *fakeCouch) serveDB(w http.ResponseWriter, r *http.Request, name string) {
	_, exists := f.dbs[name]
	switch r.Method {
	case http.MethodHead:
		if !exists {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.WriteHeader(http.StatusOK)
	case http.MethodPut:
		if exists {
			couchError(w, http.StatusPreconditionFailed, "file_exists")
			return
		}
		f.dbs[name] = make(map[string]map[string]interface{})
		writeJSON(w, http.StatusCreated, map[string]bool{"ok": true})
	default:
		couchError(w, http.StatusMethodNotAllowed, "method_not_allowed")
	}
}

func (f *fakeCouch) serveDoc(w http.ResponseWriter, r *http.Request, db map[string]map[string]interface{}, id string) {
	current, exists := db[id]

	switch r.Method {
	case http.MethodGet:
		if !exists {
			couchError(w, http.StatusNotFound, "not_found")
			return
		}
		w.Header().Set("ETag", fmt.Sprintf("%q", current["_rev"]))
		writeJSON(w, http.StatusOK, current)
	case http.MethodPut:
		var doc map[string]interface{}
		if err := json.NewDecoder(r.Body).Decode(&doc); err != nil {
			couchError(w, http.StatusBadRequest, "bad_request")
			return
		}
		if exists && doc["_rev"] != current["_rev"] {
			couchError(w, http.StatusConflict, "conflict")
			return
		}
		rev := f.nextRev()
		doc["_id"] = id
		doc["_rev"] = rev
		db[id] = doc
		w.Header().Set("ETag", fmt.Sprintf("%q", rev))
		writeJSON(w, http.StatusCreated, map[string]interface{}{"ok": true, "id": id, "rev": rev})
	case http.MethodDelete:
		if !exists {
			couchError(w, http.StatusNotFound, "not_found")
			return
		}
		if r.URL.Query().Get("rev") != current["_rev"] {
			couchError(w, http.StatusConflict, "conflict")
			return
		}
		delete(db, id)
		rev := f.nextRev()
		w.Header().Set("ETag", fmt.Sprintf("%q", rev))
		writeJSON(w, http.StatusOK, map[string]interface{}{"ok": true, "id": id, "rev": rev})
	default:
		couchError(w, http.StatusMethodNotAllowed, "method_not_allowed")
	}
}

// find honours plain equality selectors and limit; operator selectors match everything.
func (f *fakeCouch) find(w http.ResponseWriter, r *http.Request, db map[string]map[string]interface{}) {
	var query struct {
		Selector map[string]interface{} `json:"selector"`
		Limit    int                    `json:"limit"`
	}
	if err := json.NewDecoder(r.Body).Decode(&query); err != nil {
		couchError(w, http.StatusBadRequest, "bad_request")
		return
	}

	docs := make([]map[string]interface{}, 0)
	for _, doc := range db {
		if query.Limit > 0 && len(docs) >= query.Limit {
			break
		}
		if matches(doc, query.Selector) {
			docs = append(docs, doc)
		}
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"docs": docs})
}

func matches(doc, selector map[string]interface{}) bool {
	for field, want := range selector {
		if _, isOperator := want.(map[string]interface{}); isOperator {
			continue
		}
		if doc[field] != want {
			return false
		}
	}
	return true
}

// nextRev mimics CouchDB's "<generation>-<md5 hex>" revision format.
func (f *fakeCouch) nextRev() string {
	f.seq++
	return fmt.Sprintf("%d-%032x", f.seq, f.seq)
}

func (f *fakeCouch) setFailing(fail bool) {
	f.mu.Lock()
	f.fail = fail
	f.mu.Unlock()
}

func (f *fakeCouch) count(db string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.dbs[db])
}
