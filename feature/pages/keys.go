package pages

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"
)

// Extension is the suffix of every page key.
const Extension = ".jpeg"

// PageKey is the decoded form of a grouped-upload key.
type PageKey struct {
	SessionID uuid.UUID
	FileName  string
	Page      int
}

// String renders the key as {session}/{file}/{page}.jpeg.
func (k PageKey) String() string {
	return Key(k.SessionID, k.FileName, k.Page)
}

// Key builds the object key of one page. No validation is done.
func Key(sessionID uuid.UUID, fileName string, page int) string {
	return sessionID.String() + "/" + fileName + "/" + strconv.Itoa(page) + Extension
}

// Prefix returns the listing prefix covering every page of a document.
func Prefix(sessionID uuid.UUID, fileName string) string {
	return sessionID.String() + "/" + strings.TrimSpace(fileName) + "/"
}

// DeriveKeys returns count keys for consecutive pages starting at start.
// A start of 0 means page 1. The file name is trimmed and must not be empty.
func DeriveKeys(sessionID uuid.UUID, fileName string, count, start int) ([]string, error) {
	if sessionID == uuid.Nil {
		return nil, invalidArgument("derive", "", "session id cannot be nil")
	}
	name := strings.TrimSpace(fileName)
	if name == "" {
		return nil, invalidArgument("derive", "", "file name cannot be empty")
	}
	if count < 0 {
		return nil, invalidArgument("derive", "", "count cannot be negative: %d", count)
	}
	if start == 0 {
		start = 1
	}
	if start < 0 {
		return nil, invalidArgument("derive", "", "start page must be positive: %d", start)
	}

	keys := make([]string, count)
	for i := range keys {
		keys[i] = Key(sessionID, name, start+i)
	}
	return keys, nil
}

// ParseKey decodes a key produced by DeriveKeys. The file name may itself
// contain slashes; the session is the first segment and the page the last.
func ParseKey(key string) (PageKey, error) {
	first := strings.Index(key, "/")
	last := strings.LastIndex(key, "/")
	if first < 0 || first == last {
		return PageKey{}, fmt.Errorf("key %q has fewer than three segments", key)
	}

	sessionID, err := uuid.Parse(key[:first])
	if err != nil {
		return PageKey{}, fmt.Errorf("key %q: invalid session id: %w", key, err)
	}

	fileName := key[first+1 : last]
	if strings.TrimSpace(fileName) == "" {
		return PageKey{}, fmt.Errorf("key %q: empty file name", key)
	}

	base := key[last+1:]
	if !strings.HasSuffix(base, Extension) {
		return PageKey{}, fmt.Errorf("key %q: missing %s extension", key, Extension)
	}
	raw := strings.TrimSuffix(base, Extension)
	page, err := strconv.Atoi(raw)
	if err != nil || page < 1 || strconv.Itoa(page) != raw {
		return PageKey{}, fmt.Errorf("key %q: invalid page number %q", key, raw)
	}

	return PageKey{SessionID: sessionID, FileName: fileName, Page: page}, nil
}
