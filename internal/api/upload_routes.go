package api

import (
	"fmt"
	"net/http"
)

const maxUploadBytes = 20 << 20

// handleUpload accepts document uploads and acknowledges them. Content
// extraction (PDF/DOCX) is not implemented; the files are read and discarded
// so clients can already integrate against the endpoint.
func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		writeError(w, http.StatusBadRequest, "expected multipart form data")
		return
	}
	defer r.MultipartForm.RemoveAll()

	var names []string
	for _, headers := range r.MultipartForm.File {
		for _, h := range headers {
			names = append(names, h.Filename)
		}
	}
	if len(names) == 0 {
		writeError(w, http.StatusBadRequest, "no files in request")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"message": fmt.Sprintf("Received %d file(s); document parsing is not implemented yet", len(names)),
		"files":   names,
	})
}
