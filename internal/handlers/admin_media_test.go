// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strings"
	"testing"
)

// The test environment leaves S3 unconfigured, so the media handlers run
// in their degraded mode: the library page renders a setup hint and
// uploads are refused.

func TestMediaList_StorageNotConfigured(t *testing.T) {
	env := newTestEnv(t)

	req := httptest.NewRequest(http.MethodGet, "/admin/media", nil)
	rec := httptest.NewRecorder()
	env.Admin.MediaList(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("MediaList: got status %d, want %d", rec.Code, http.StatusOK)
	}
	if !strings.Contains(rec.Body.String(), "S3 storage is not configured") {
		t.Error("media page should explain that storage is not configured")
	}
}

func TestMediaUpload_StorageNotConfigured_Returns503(t *testing.T) {
	env := newTestEnv(t)

	body, contentType := multipartFile(t, "file", "photo.png", "image/png", []byte("fake png"))
	req := httptest.NewRequest(http.MethodPost, "/admin/media/upload", body)
	req.Header.Set("Content-Type", contentType)

	rec := httptest.NewRecorder()
	env.Admin.MediaUpload(rec, req)

	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("MediaUpload: got status %d, want %d", rec.Code, http.StatusServiceUnavailable)
	}
}

func TestMediaDelete_StorageNotConfigured_Returns503(t *testing.T) {
	env := newTestEnv(t)

	req := httptest.NewRequest(http.MethodPost, "/admin/media/x/delete", nil)
	req = withChiURLParam(req, "id", "00000000-0000-0000-0000-000000000000")

	rec := httptest.NewRecorder()
	env.Admin.MediaDelete(rec, req)

	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("MediaDelete: got status %d, want %d", rec.Code, http.StatusServiceUnavailable)
	}
}

// multipartFile builds a single-file multipart body for upload tests.
func multipartFile(t *testing.T, field, filename, contentType string, data []byte) (*bytes.Buffer, string) {
	t.Helper()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", `form-data; name="`+field+`"; filename="`+filename+`"`)
	h.Set("Content-Type", contentType)
	part, err := mw.CreatePart(h)
	if err != nil {
		t.Fatalf("CreatePart: %v", err)
	}
	if _, err := part.Write(data); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if err := mw.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	return &buf, mw.FormDataContentType()
}
