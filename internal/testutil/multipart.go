// Package testutil holds helpers shared by package tests.
package testutil

import (
	"bytes"
	"mime/multipart"
	"testing"

	"github.com/stretchr/testify/require"
)

// UploadFile describes one file part of a multipart form.
type UploadFile struct {
	Field    string
	Filename string
	Content  string
}

// MultipartBody encodes fields and files as multipart/form-data and returns
// the body together with its content type.
func MultipartBody(t testing.TB, fields map[string]string, files ...UploadFile) (*bytes.Buffer, string) {
	t.Helper()

	body := &bytes.Buffer{}
	w := multipart.NewWriter(body)
	for k, v := range fields {
		require.NoError(t, w.WriteField(k, v))
	}
	for _, f := range files {
		part, err := w.CreateFormFile(f.Field, f.Filename)
		require.NoError(t, err)
		_, err = part.Write([]byte(f.Content))
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())
	return body, w.FormDataContentType()
}

// Form parses the given files into a multipart.Form.
func Form(t testing.TB, files ...UploadFile) *multipart.Form {
	t.Helper()

	body, contentType := MultipartBody(t, nil, files...)
	_, params, found := bytes.Cut([]byte(contentType), []byte("boundary="))
	require.True(t, found)

	form, err := multipart.NewReader(body, string(params)).ReadForm(32 << 20)
	require.NoError(t, err)
	t.Cleanup(func() { _ = form.RemoveAll() })
	return form
}

// FileHeader builds a single uploaded file.
func FileHeader(t testing.TB, filename, content string) *multipart.FileHeader {
	t.Helper()

	form := Form(t, UploadFile{Field: "file", Filename: filename, Content: content})
	return form.File["file"][0]
}
