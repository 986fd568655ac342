/*
upload.go - Customer ID image uploads

PURPOSE:
  Accepts the front/back photos of a customer's identification document as
  a multipart form and stores them under the configured upload directory
  with collision-resistant generated names.

CONTRACT:
  Form fields: customerIdImageFront, customerIdImageBack (either optional).
  Response:    {"success": bool, "front": path|null, "back": path|null,
                "error": message|null}
  The engine never inspects the stored bytes; the paths are only echoed
  back for the caller to attach to its own records.
*/
package api

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
)

const maxUploadBytes = 10 << 20 // 10 MiB per request

// UploadResponse mirrors the historical upload endpoint contract.
type UploadResponse struct {
	Success bool    `json:"success"`
	Front   *string `json:"front"`
	Back    *string `json:"back"`
	Error   *string `json:"error"`
}

// UploadIDImages stores the submitted ID images.
func (h *Handler) UploadIDImages(w http.ResponseWriter, r *http.Request) {
	var resp UploadResponse

	if h.UploadDir == "" {
		msg := "uploads are disabled"
		resp.Error = &msg
		writeJSON(w, http.StatusServiceUnavailable, resp)
		return
	}
	if err := os.MkdirAll(h.UploadDir, 0o755); err != nil {
		msg := "failed to prepare upload directory"
		resp.Error = &msg
		writeJSON(w, http.StatusInternalServerError, resp)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		msg := "invalid multipart form"
		resp.Error = &msg
		writeJSON(w, http.StatusBadRequest, resp)
		return
	}

	for _, part := range []struct {
		field  string
		prefix string
		dest   **string
	}{
		{"customerIdImageFront", "front", &resp.Front},
		{"customerIdImageBack", "back", &resp.Back},
	} {
		file, header, err := r.FormFile(part.field)
		if err != nil {
			continue // field absent; the other side may still be present
		}
		stored, err := h.storeUpload(file, header, part.prefix)
		file.Close()
		if err != nil {
			msg := fmt.Sprintf("failed to upload %s image", part.prefix)
			resp.Error = &msg
			continue
		}
		*part.dest = &stored
	}

	resp.Success = resp.Front != nil || resp.Back != nil
	status := http.StatusOK
	if !resp.Success && resp.Error != nil {
		status = http.StatusInternalServerError
	}
	writeJSON(w, status, resp)
}

// storeUpload writes one part to disk under a collision-resistant name and
// returns the relative path.
func (h *Handler) storeUpload(file multipart.File, header *multipart.FileHeader, prefix string) (string, error) {
	var nonce [8]byte
	if _, err := rand.Read(nonce[:]); err != nil {
		return "", err
	}

	base := filepath.Base(header.Filename)
	name := fmt.Sprintf("%s_%s_%s", prefix, hex.EncodeToString(nonce[:]), base)
	path := filepath.Join(h.UploadDir, name)

	dst, err := os.Create(path)
	if err != nil {
		return "", err
	}
	defer dst.Close()

	if _, err := io.Copy(dst, file); err != nil {
		os.Remove(path)
		return "", err
	}
	return filepath.Join(filepath.Base(h.UploadDir), name), nil
}
