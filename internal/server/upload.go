package server

import (
	"errors"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/sirupsen/logrus"

	"image-drop/internal/storage"
)

// uploadResp is the JSON response returned after a successful single upload.
type uploadResp struct {
	Success      bool   `json:"success"`
	Filename     string `json:"filename"`
	OriginalName string `json:"originalName"`
	Size         int64  `json:"size"`
	URL          string `json:"url"`
}

// uploadedFile is one entry in the batch upload response, reported in the
// order the files were submitted.
type uploadedFile struct {
	Filename     string `json:"filename"`
	OriginalName string `json:"originalName"`
	Size         int64  `json:"size"`
	URL          string `json:"url"`
}

// uploadMultipleResp is the JSON response for a successful batch upload.
type uploadMultipleResp struct {
	Success bool           `json:"success"`
	Files   []uploadedFile `json:"files"`
}

// uploadHandler handles POST /upload: one multipart file under the "image"
// field, validated, stored under a generated name.
//
// Failure modes: 400 when no file is provided or validation rejects it,
// 413 when the payload exceeds the per-file limit, 401 from the gate.
// Authentication: required (checked by requireKey middleware).
func (s *Server) uploadHandler() http.Handler {
	return s.auth.requireKey(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			writeError(w, http.StatusMethodNotAllowed, "method not allowed")
			return
		}

		r.Body = http.MaxBytesReader(w, r.Body, MaxUploadBytes+multipartOverhead)

		mr, err := r.MultipartReader()
		if err != nil {
			writeError(w, http.StatusBadRequest, "bad multipart request")
			return
		}

		part, err := nextFilePart(mr, "image")
		if err != nil || part == nil {
			GetMetrics().RecordUploadError()
			writeError(w, http.StatusBadRequest, "no file provided")
			return
		}
		defer func() { _ = part.Close() }()

		origName := part.FileName()
		if verr := validateImageUpload(origName, part.Header.Get("Content-Type")); verr != nil {
			GetMetrics().RecordUploadError()
			writeError(w, http.StatusBadRequest, verr.Error())
			return
		}

		name := storage.GeneratedName(origName)
		size, err := s.store.Save(name, part, MaxUploadBytes)
		if err != nil {
			GetMetrics().RecordUploadError()
			s.writeSaveError(w, r, err)
			return
		}

		GetMetrics().RecordUpload(size)
		writeJSON(w, http.StatusOK, uploadResp{
			Success:      true,
			Filename:     name,
			OriginalName: origName,
			Size:         size,
			URL:          "/" + name,
		})
	}))
}

// uploadMultipleHandler handles POST /upload-multiple: up to MaxBatchFiles
// files under the "images" field. The batch is all-or-nothing: any file
// failing validation or storage fails the whole request, and files already
// written by this request are removed again.
// Authentication: required (checked by requireKey middleware).
func (s *Server) uploadMultipleHandler() http.Handler {
	return s.auth.requireKey(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			writeError(w, http.StatusMethodNotAllowed, "method not allowed")
			return
		}

		r.Body = http.MaxBytesReader(w, r.Body, MaxBatchFiles*MaxUploadBytes+multipartOverhead)

		mr, err := r.MultipartReader()
		if err != nil {
			writeError(w, http.StatusBadRequest, "bad multipart request")
			return
		}

		var files []uploadedFile
		stored := make([]string, 0, MaxBatchFiles)

		fail := func(status int, msg string) {
			GetMetrics().RecordUploadError()
			s.discardBatch(stored)
			writeError(w, status, msg)
		}

		for {
			part, err := nextFilePart(mr, "images")
			if err != nil {
				fail(http.StatusBadRequest, "bad multipart request")
				return
			}
			if part == nil {
				break
			}

			if len(files) >= MaxBatchFiles {
				_ = part.Close()
				fail(http.StatusBadRequest, "too many files (max 10)")
				return
			}

			origName := part.FileName()
			if verr := validateImageUpload(origName, part.Header.Get("Content-Type")); verr != nil {
				_ = part.Close()
				fail(http.StatusBadRequest, verr.Error())
				return
			}

			name := storage.GeneratedName(origName)
			size, err := s.store.Save(name, part, MaxUploadBytes)
			_ = part.Close()
			if err != nil {
				GetMetrics().RecordUploadError()
				s.discardBatch(stored)
				s.writeSaveError(w, r, err)
				return
			}

			stored = append(stored, name)
			files = append(files, uploadedFile{
				Filename:     name,
				OriginalName: origName,
				Size:         size,
				URL:          "/" + name,
			})
		}

		if len(files) == 0 {
			fail(http.StatusBadRequest, "no files provided")
			return
		}

		for _, f := range files {
			GetMetrics().RecordUpload(f.Size)
		}
		writeJSON(w, http.StatusOK, uploadMultipleResp{Success: true, Files: files})
	}))
}

// nextFilePart advances the reader to the next part carrying a file under
// the given form field. Returns nil with no error at end of form.
func nextFilePart(mr *multipart.Reader, field string) (*multipart.Part, error) {
	for {
		part, err := mr.NextPart()
		if err == io.EOF {
			return nil, nil
		}
		if err != nil {
			return nil, err
		}
		if part.FormName() != field || part.FileName() == "" {
			_ = part.Close()
			continue
		}
		return part, nil
	}
}

// writeSaveError maps storage failures to responses. Oversized payloads are
// 413 whether our own limit or MaxBytesReader tripped first.
func (s *Server) writeSaveError(w http.ResponseWriter, r *http.Request, err error) {
	var maxErr *http.MaxBytesError
	if errors.Is(err, storage.ErrFileTooLarge) || errors.As(err, &maxErr) {
		writeError(w, http.StatusRequestEntityTooLarge, "file too large (limit 10 MiB)")
		return
	}
	logrus.WithField("rid", RequestIDFromContext(r.Context())).
		Errorf("store upload: %v", err)
	writeError(w, http.StatusInternalServerError, "upload failed")
}

// discardBatch removes files written earlier in a failed batch request so
// a partial batch is never visible.
func (s *Server) discardBatch(names []string) {
	for _, name := range names {
		if err := s.store.Delete(name); err != nil {
			logrus.Warnf("discard %s: %v", name, err)
		}
	}
}
