package utils

import (
	"bytes"
	"context"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fileHeader builds a multipart header the way a fiber form upload would.
func fileHeader(t *testing.T, name string, content []byte) *multipart.FileHeader {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreateFormFile("file", name)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	r := multipart.NewReader(&buf, w.Boundary())
	form, err := r.ReadForm(1 << 20)
	require.NoError(t, err)
	t.Cleanup(func() { form.RemoveAll() })
	return form.File["file"][0]
}

func TestLocalEvidenceStore(t *testing.T) {
	dir := t.TempDir()
	store := &LocalEvidenceStore{Dir: dir, PublicPrefix: "/uploads/evidence"}

	ref, err := store.Upload(context.Background(), fileHeader(t, "receipt.PNG", []byte("png-bytes")))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(ref, "/uploads/evidence/"))
	assert.True(t, strings.HasSuffix(ref, ".png"))

	data, err := os.ReadFile(filepath.Join(dir, filepath.Base(ref)))
	require.NoError(t, err)
	assert.Equal(t, "png-bytes", string(data))

	_, err = store.Upload(context.Background(), fileHeader(t, "script.sh", []byte("#!/bin/sh")))
	assert.ErrorIs(t, err, ErrUnsupportedEvidence)
}

func TestRemoteEvidenceStore(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		file, header, err := r.FormFile("file")
		if err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		file.Close()
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"url":"https://cdn.example.com/` + header.Filename + `"}`))
	}))
	defer srv.Close()

	ref, err := NewRemoteEvidenceStore(srv.URL).Upload(context.Background(), fileHeader(t, "shot.jpg", []byte("jpg")))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(ref, "https://cdn.example.com/"))
	assert.True(t, strings.HasSuffix(ref, ".jpg"))
}
