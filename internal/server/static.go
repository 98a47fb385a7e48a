// static.go - Index page and static serving of stored images.
package server

import (
	"errors"
	"io"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"image-drop/internal/storage"
)

// contentTypes is the fixed extension-to-media-type table for serving.
// Anything unmapped falls back to a generic binary type; nosniff is set
// globally so browsers will not second-guess it.
var contentTypes = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".gif":  "image/gif",
	".svg":  "image/svg+xml",
	".webp": "image/webp",
}

// contentTypeFor returns the media type to serve a stored name with.
func contentTypeFor(name string) string {
	if ct, ok := contentTypes[strings.ToLower(filepath.Ext(name))]; ok {
		return ct
	}
	return "application/octet-stream"
}

// staticHandler serves GET / (the upload page) and GET /<filename> (raw
// bytes of a stored file). Misses are plain 404s, matching conventional
// static-file semantics rather than the JSON error envelope.
func (s *Server) staticHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet && r.Method != http.MethodHead {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}

		if r.URL.Path == "/" {
			w.Header().Set("Content-Type", "text/html; charset=utf-8")
			w.WriteHeader(http.StatusOK)
			if r.Method != http.MethodHead {
				_, _ = io.WriteString(w, indexHTML)
			}
			return
		}

		name := strings.TrimPrefix(r.URL.Path, "/")
		f, info, err := s.store.Open(name)
		if err != nil {
			if errors.Is(err, storage.ErrNotFound) || errors.Is(err, storage.ErrUnsafeName) {
				http.NotFound(w, r)
				return
			}
			http.Error(w, "internal server error", http.StatusInternalServerError)
			return
		}
		defer func() { _ = f.Close() }()

		w.Header().Set("Content-Type", contentTypeFor(name))
		w.Header().Set("Content-Length", strconv.FormatInt(info.Size(), 10))
		w.WriteHeader(http.StatusOK)

		if r.Method == http.MethodHead {
			return
		}
		n, _ := io.Copy(w, f)
		GetMetrics().RecordServe(n)
	})
}

// indexHTML is the minimal upload page served at /.
const indexHTML = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>image-drop</title>
<style>
body { font-family: sans-serif; max-width: 640px; margin: 2rem auto; }
fieldset { margin-bottom: 1rem; }
pre { background: #f4f4f4; padding: 0.5rem; overflow-x: auto; }
</style>
</head>
<body>
<h1>image-drop</h1>
<fieldset>
<legend>Upload one image</legend>
<form action="/upload" method="post" enctype="multipart/form-data">
<input type="text" name="key" placeholder="auth key">
<input type="file" name="image" accept="image/*" required>
<button type="submit">Upload</button>
</form>
</fieldset>
<fieldset>
<legend>Upload up to 10 images</legend>
<form action="/upload-multiple" method="post" enctype="multipart/form-data">
<input type="text" name="key" placeholder="auth key">
<input type="file" name="images" accept="image/*" multiple required>
<button type="submit">Upload</button>
</form>
</fieldset>
<p>Stored images: <a href="/list">/list</a> &middot; Health: <a href="/health">/health</a></p>
<script>
for (const form of document.querySelectorAll("form")) {
  form.addEventListener("submit", (ev) => {
    const key = form.querySelector('input[name="key"]').value;
    if (key) form.action = form.action.split("?")[0] + "?key=" + encodeURIComponent(key);
  });
}
</script>
</body>
</html>
`
