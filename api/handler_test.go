package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/mmuldo/kaleidoscope/extract"
	"github.com/mmuldo/kaleidoscope/match"
	"github.com/mmuldo/kaleidoscope/palette"
	"github.com/mmuldo/kaleidoscope/store"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type fakePipeline struct {
	res       match.Result
	err       error
	owner     extract.Owner
	locator   string
	destroyed bool
}

func (f *fakePipeline) Generate(_ context.Context, o extract.Owner, locator string) (match.Result, error) {
	f.owner, f.locator = o, locator
	return f.res, f.err
}

func (f *fakePipeline) Destroy(_ context.Context, o extract.Owner) error {
	f.owner, f.destroyed = o, true
	return f.err
}

func (f *fakePipeline) Records(_ context.Context, o extract.Owner) ([]store.Row, error) {
	f.owner = o
	if f.err != nil {
		return nil, f.err
	}
	return []store.Row{{Owner: o.ID, OriginalColor: "101010", ReferenceColor: "000000", Frequency: 100}}, nil
}

func do(h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func TestHealth(t *testing.T) {
	w := do(NewHandler(&fakePipeline{}, nil), http.MethodGet, "/health", "")
	if w.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", w.Code)
	}
}

func TestGenerateColors(t *testing.T) {
	p := &fakePipeline{res: match.Result{
		{Original: palette.MustFromHex("#101010"), Matched: palette.MustFromHex("#000000"), Frequency: 80, Distance: 27.7},
		{Original: palette.MustFromHex("#f0f0f0"), Matched: palette.MustFromHex("#ffffff"), Frequency: 20, Distance: 25.9},
	}}

	w := do(NewHandler(p, nil), http.MethodPost, "/owners/school/42/colors", `{"image":"https://example.com/logo.png"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", w.Code, w.Body.String())
	}
	if p.owner != (extract.Owner{Kind: "school", ID: "42"}) || p.locator != "https://example.com/logo.png" {
		t.Errorf("Generate() called with %v, %q", p.owner, p.locator)
	}

	var body struct {
		Records []RecordResponse `json:"records"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatal(err)
	}
	if len(body.Records) != 2 || body.Records[0].ReferenceColor != "000000" || body.Records[1].Frequency != 20 {
		t.Errorf("records = %+v", body.Records)
	}
}

func TestGenerateColorsBadRequest(t *testing.T) {
	w := do(NewHandler(&fakePipeline{}, nil), http.MethodPost, "/owners/school/42/colors", `{}`)
	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}

func TestGenerateColorsErrors(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"no colors", &extract.StepError{Step: extract.StepValidateConfig, Err: extract.ErrNoColorsConfigured}, http.StatusUnprocessableEntity},
		{"unknown kind", fmt.Errorf("%w for kind %q", store.ErrNoStore, "x"), http.StatusNotFound},
		{"image", &extract.StepError{Step: extract.StepFetchHistogram, Err: errors.New("decode")}, http.StatusBadGateway},
		{"store", &extract.StepError{Step: extract.StepPersist, Err: errors.New("disk full")}, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(NewHandler(&fakePipeline{err: tt.err}, nil), http.MethodPost, "/owners/school/42/colors", `{"image":"logo.png"}`)
			if w.Code != tt.want {
				t.Errorf("status = %d, want %d", w.Code, tt.want)
			}
		})
	}
}

func TestListAndDestroyColors(t *testing.T) {
	p := &fakePipeline{}
	h := NewHandler(p, nil)

	w := do(h, http.MethodGet, "/owners/school/42/colors", "")
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), `"original_color":"101010"`) {
		t.Errorf("GET status = %d, body = %s", w.Code, w.Body.String())
	}

	w = do(h, http.MethodDelete, "/owners/school/42/colors", "")
	if w.Code != http.StatusNoContent || !p.destroyed {
		t.Errorf("DELETE status = %d, destroyed = %v", w.Code, p.destroyed)
	}
}
