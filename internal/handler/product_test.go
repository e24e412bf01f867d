package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/akverma/order-management-api/internal/model"
)

const testBaseURL = "https://images.example.com/"

type fakeImageStore struct {
	uploaded map[string]string // key -> content type
	deleted  []string
}

func newFakeImageStore() *fakeImageStore {
	return &fakeImageStore{uploaded: map[string]string{}}
}

func (s *fakeImageStore) Upload(_ context.Context, key string, _ io.Reader, contentType string) error {
	s.uploaded[key] = contentType
	return nil
}

func (s *fakeImageStore) Delete(_ context.Context, key string) error {
	s.deleted = append(s.deleted, key)
	return nil
}

// multipartRequest builds a form with the given fields plus an optional
// image file of the given size and content type.
func multipartRequest(t *testing.T, fields map[string]string, filename, contentType string, size int) (*http.Request, error) {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for k, v := range fields {
		if err := w.WriteField(k, v); err != nil {
			return nil, err
		}
	}
	if filename != "" {
		hdr := make(textproto.MIMEHeader)
		hdr.Set("Content-Disposition", `form-data; name="image"; filename="`+filename+`"`)
		hdr.Set("Content-Type", contentType)
		part, err := w.CreatePart(hdr)
		if err != nil {
			return nil, err
		}
		if _, err := part.Write(bytes.Repeat([]byte{0xFF}, size)); err != nil {
			return nil, err
		}
	}
	if err := w.Close(); err != nil {
		return nil, err
	}
	req := httptest.NewRequest(http.MethodPost, "/", &buf)
	req.Header.Set(echo.HeaderContentType, w.FormDataContentType())
	return req, nil
}

func runProduct(t *testing.T, h echo.HandlerFunc, req *http.Request, params map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	for k, v := range params {
		c.SetParamNames(k)
		c.SetParamValues(v)
	}
	if err := h(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	return rec
}

func TestCreateProductUploadsImage(t *testing.T) {
	products := newFakeProductStore()
	images := newFakeImageStore()
	h := NewProductHandler(products, images, testBaseURL)

	req, err := multipartRequest(t, map[string]string{
		"name":         "Mechanical Keyboard",
		"description":  "tenkeyless",
		"price":        "89.99",
		"category":     "Electronics",
		"manufacturer": "Keebs Inc",
	}, "kb.png", "image/png", 128)
	if err != nil {
		t.Fatal(err)
	}
	rec := runProduct(t, h.Create, req, nil)
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}

	var p model.Product
	if err := json.Unmarshal(rec.Body.Bytes(), &p); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !strings.HasPrefix(p.Image, testBaseURL+"product-images/") || !strings.HasSuffix(p.Image, "_kb.png") {
		t.Errorf("image URL = %q", p.Image)
	}
	if len(images.uploaded) != 1 {
		t.Fatal("image not uploaded")
	}
	for key, ct := range images.uploaded {
		if ct != "image/png" {
			t.Errorf("content type = %q", ct)
		}
		if p.Image != testBaseURL+key {
			t.Errorf("stored URL %q does not match uploaded key %q", p.Image, key)
		}
	}
}

func TestCreateProductRejectsNonImage(t *testing.T) {
	h := NewProductHandler(newFakeProductStore(), newFakeImageStore(), testBaseURL)
	req, err := multipartRequest(t, map[string]string{
		"name": "X", "price": "1", "category": "Other",
	}, "evil.sh", "application/octet-stream", 16)
	if err != nil {
		t.Fatal(err)
	}
	rec := runProduct(t, h.Create, req, nil)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
	if msg := rec.Body.String(); !strings.Contains(msg, "must be an image") {
		t.Errorf("body = %s", msg)
	}
}

func TestCreateProductRejectsOversizedImage(t *testing.T) {
	h := NewProductHandler(newFakeProductStore(), newFakeImageStore(), testBaseURL)
	req, err := multipartRequest(t, map[string]string{
		"name": "X", "price": "1", "category": "Other",
	}, "big.png", "image/png", maxImageSize+1)
	if err != nil {
		t.Fatal(err)
	}
	rec := runProduct(t, h.Create, req, nil)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
	if msg := rec.Body.String(); !strings.Contains(msg, "too large") {
		t.Errorf("body = %s", msg)
	}
}

func TestCreateProductRejectsBadCategory(t *testing.T) {
	h := NewProductHandler(newFakeProductStore(), newFakeImageStore(), testBaseURL)
	req, err := multipartRequest(t, map[string]string{
		"name": "X", "price": "1", "category": "Groceries",
	}, "x.png", "image/png", 8)
	if err != nil {
		t.Fatal(err)
	}
	rec := runProduct(t, h.Create, req, nil)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestDeleteProductRemovesImage(t *testing.T) {
	products := newFakeProductStore()
	images := newFakeImageStore()
	h := NewProductHandler(products, images, testBaseURL)

	p := model.Product{
		Name:     "Mouse",
		Price:    25,
		Category: model.CategoryElectronics,
		Image:    testBaseURL + "product-images/abcd1234_mouse.png",
	}
	products.Create(context.Background(), &p)

	req := httptest.NewRequest(http.MethodDelete, "/", nil)
	rec := runProduct(t, h.Delete, req, map[string]string{"id": p.ID.Hex()})
	if rec.Code != http.StatusNoContent {
		t.Fatalf("status = %d", rec.Code)
	}
	if len(images.deleted) != 1 || images.deleted[0] != "product-images/abcd1234_mouse.png" {
		t.Errorf("deleted keys = %v", images.deleted)
	}
	if len(products.products) != 0 {
		t.Error("product document not removed")
	}
}

func TestGetProductNotFound(t *testing.T) {
	h := NewProductHandler(newFakeProductStore(), newFakeImageStore(), testBaseURL)
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := runProduct(t, h.Get, req, map[string]string{"id": "64f1c0ffee0000000000aaaa"})
	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}
