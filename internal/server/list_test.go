package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
)

func TestList(t *testing.T) {
	s, store := newTestServer(t, nil)

	seed := map[string][]byte{
		"cat-1.png":  []byte("png bytes"),
		"dog-2.JPEG": []byte("jpeg bytes"),
		"readme.txt": []byte("not an image"),
	}
	for name, data := range seed {
		if _, err := store.Save(name, bytes.NewReader(data), 1<<20); err != nil {
			t.Fatalf("seed %s: %v", name, err)
		}
	}

	rr := doRequest(t, s, httptest.NewRequest(http.MethodGet, "/list", nil))
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rr.Code, rr.Body.String())
	}

	var entries []listEntry
	if err := json.Unmarshal(rr.Body.Bytes(), &entries); err != nil {
		t.Fatalf("decode: %v", err)
	}

	// Only the two image files; extension matching is case-insensitive.
	if len(entries) != 2 {
		t.Fatalf("entries = %d, want 2 (%+v)", len(entries), entries)
	}
	byName := make(map[string]listEntry)
	for _, e := range entries {
		byName[e.Name] = e
	}
	for _, name := range []string{"cat-1.png", "dog-2.JPEG"} {
		e, ok := byName[name]
		if !ok {
			t.Errorf("missing entry %s", name)
			continue
		}
		if e.Size != int64(len(seed[name])) {
			t.Errorf("%s size = %d, want %d", name, e.Size, len(seed[name]))
		}
		if e.IsDirectory {
			t.Errorf("%s reported as directory", name)
		}
		if e.URL != "/"+name {
			t.Errorf("%s url = %q, want /%s", name, e.URL, name)
		}
		if e.Modified.IsZero() {
			t.Errorf("%s has zero modified time", name)
		}
	}
	if _, ok := byName["readme.txt"]; ok {
		t.Error("non-image file leaked into listing")
	}
}

func TestList_Empty(t *testing.T) {
	s, _ := newTestServer(t, nil)

	rr := doRequest(t, s, httptest.NewRequest(http.MethodGet, "/list", nil))
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d", rr.Code)
	}
	// An empty listing is an empty JSON array, not null.
	if got := rr.Body.String(); got != "[]\n" {
		t.Errorf("body = %q, want []", got)
	}
}

func TestList_ScanError(t *testing.T) {
	s, store := newTestServer(t, nil)
	if err := os.RemoveAll(store.Dir()); err != nil {
		t.Fatalf("remove storage dir: %v", err)
	}

	rr := doRequest(t, s, httptest.NewRequest(http.MethodGet, "/list", nil))
	if rr.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", rr.Code)
	}
}
