package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-kivik/kivik/v4"
	"github.com/google/uuid"
)

// PageSize bounds every list query.
const PageSize = 100

// updateAttempts bounds how often a partial update re-reads after a revision conflict.
const updateAttempts = 3

const (
	CollectionUsers       = "users"
	CollectionNotes       = "notes"
	CollectionTasks       = "tasks"
	CollectionTranscripts = "transcripts"
)

// Collections lists every database the service needs, in creation order.
var Collections = []string{CollectionUsers, CollectionNotes, CollectionTasks, CollectionTranscripts}

// DatabaseName maps a logical collection onto its CouchDB database.
func DatabaseName(prefix, collection string) string {
	return fmt.Sprintf("%s_%s", prefix, collection)
}

// documentID converts an API identifier into a document id. Anything that is not a
// uuid cannot have been issued by this service and is rejected up front.
func documentID(id string) (string, bool) {
	parsed, err := uuid.Parse(id)
	if err != nil {
		return "", false
	}
	return parsed.String(), true
}

func isNotFound(err error) bool {
	return kivik.HTTPStatus(err) == http.StatusNotFound
}

func isConflict(err error) bool {
	return kivik.HTTPStatus(err) == http.StatusConflict
}

// fetchRaw loads a document as a generic map so a later Put keeps _rev and unknown fields.
func fetchRaw(ctx context.Context, db *kivik.DB, docID string) (map[string]interface{}, error) {
	var doc map[string]interface{}
	if err := db.Get(ctx, docID).ScanDoc(&doc); err != nil {
		return nil, err
	}
	return doc, nil
}

func revision(doc map[string]interface{}) (string, error) {
	rev, ok := doc["_rev"].(string)
	if !ok {
		return "", fmt.Errorf("document has no revision")
	}
	return rev, nil
}

// mergeUpdate writes fields over the latest stored revision of docID and returns the
// merged document. Fields the caller did not name keep whatever is stored. It reports
// false when no document matched.
func mergeUpdate(ctx context.Context, db *kivik.DB, docID string, fields map[string]interface{}) (map[string]interface{}, bool, error) {
	var lastErr error
	for attempt := 0; attempt < updateAttempts; attempt++ {
		existingDoc, err := fetchRaw(ctx, db, docID)
		if err != nil {
			if isNotFound(err) {
				return nil, false, nil
			}
			return nil, false, err
		}

		for key, value := range fields {
			existingDoc[key] = value
		}

		rev, err := db.Put(ctx, docID, existingDoc)
		if err == nil {
			existingDoc["_rev"] = rev
			return existingDoc, true, nil
		}
		if !isConflict(err) {
			return nil, false, err
		}
		lastErr = err
	}
	return nil, false, lastErr
}

// decodeDoc copies a raw document into one of the domain types.
func decodeDoc(doc map[string]interface{}, dst interface{}) error {
	data, err := json.Marshal(doc)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, dst)
}
