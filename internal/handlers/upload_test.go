package handlers

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"csv-analyst/internal/models"
)

func multipartRequest(t *testing.T, field, filename string, content []byte) *http.Request {
	t.Helper()

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	if field != "" {
		part, err := mw.CreateFormFile(field, filename)
		require.NoError(t, err)
		_, err = part.Write(content)
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/csv/preview", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func TestUploadHandler_Preview(t *testing.T) {
	h := NewUploadHandler(discardLogger())

	tests := []struct {
		name       string
		field      string
		filename   string
		content    []byte
		wantStatus int
		wantError  string
	}{
		{"csv file", "file", "sales.csv", []byte("region,revenue\r\nEast,10\r\n\r\nWest,8\r\n"), http.StatusOK, ""},
		{"no file", "", "", nil, http.StatusBadRequest, "No file provided"},
		{"wrong extension", "file", "sales.pdf", []byte("region,revenue\nEast,10"), http.StatusUnsupportedMediaType, "File type not supported"},
		{"binary content", "file", "sales.csv", []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR"), http.StatusUnsupportedMediaType, "File type not supported"},
		{"blank file", "file", "blank.csv", []byte("\n\n  \n"), http.StatusBadRequest, "Empty CSV file"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rr := httptest.NewRecorder()
			h.Preview(rr, multipartRequest(t, tc.field, tc.filename, tc.content))

			assert.Equal(t, tc.wantStatus, rr.Code)

			var resp models.CSVPreviewResponse
			require.NoError(t, json.NewDecoder(rr.Body).Decode(&resp))
			assert.Equal(t, tc.wantError, resp.Error)

			if tc.wantStatus == http.StatusOK {
				assert.Equal(t, "sales.csv", resp.Filename)
				assert.Equal(t, "region,revenue\nEast,10\nWest,8", resp.CSVContent)
				assert.Contains(t, resp.Summary, "- **Total Records:** `2`")
				assert.Contains(t, resp.Summary, "| region | revenue |")
			}
		})
	}
}
