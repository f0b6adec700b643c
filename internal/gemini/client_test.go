package gemini

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"docqa/internal/config"
)

func newTestClient(srv *httptest.Server, mode TransportMode) *httpClient {
	return &httpClient{
		baseURL:   srv.URL,
		uploadURL: srv.URL,
		apiKey:    "test-key",
		model:     "gemini-1.5-flash",
		transport: mode,
		hc:        srv.Client(),
	}
}

func TestHTTPClient_UploadFile(t *testing.T) {
	ctx := context.Background()
	expiry := time.Date(2025, 6, 2, 11, 0, 0, 0, time.UTC)

	t.Run("happy path", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodPost, r.Method)
			assert.Equal(t, "/files", r.URL.Path)
			assert.Equal(t, "test-key", r.URL.Query().Get("key"))

			f, fh, err := r.FormFile("file")
			assert.NoError(t, err)
			defer f.Close()
			assert.Equal(t, "notes_1.txt", fh.Filename)
			data, _ := io.ReadAll(f)
			assert.Equal(t, "contents", string(data))

			json.NewEncoder(w).Encode(map[string]any{
				"file": map[string]any{
					"name":           "files/abc",
					"uri":            "https://files.example/abc",
					"expirationTime": expiry,
				},
			})
		}))
		defer srv.Close()

		c := newTestClient(srv, TransportFileRef)
		info, err := c.UploadFile(ctx, "notes_1.txt", "text/plain", []byte("contents"))

		assert.NoError(t, err)
		assert.Equal(t, "files/abc", info.Name)
		assert.Equal(t, "https://files.example/abc", info.URI)
		assert.True(t, expiry.Equal(*info.ExpirationTime))
	})

	t.Run("missing file name in response", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"file":{}}`))
		}))
		defer srv.Close()

		c := newTestClient(srv, TransportFileRef)
		_, err := c.UploadFile(ctx, "notes_1.txt", "text/plain", []byte("contents"))

		assert.Error(t, err)
		assert.Contains(t, err.Error(), "missing file name")
	})

	t.Run("error status", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, `{"error":"quota"}`, http.StatusTooManyRequests)
		}))
		defer srv.Close()

		c := newTestClient(srv, TransportFileRef)
		_, err := c.UploadFile(ctx, "notes_1.txt", "text/plain", []byte("contents"))

		var statusErr *StatusError
		assert.ErrorAs(t, err, &statusErr)
		assert.Equal(t, http.StatusTooManyRequests, statusErr.StatusCode)
		assert.Equal(t, "upload", statusErr.Operation)
		assert.Contains(t, statusErr.Body, "quota")
	})
}

func TestHTTPClient_Generate(t *testing.T) {
	ctx := context.Background()

	answerBody := func(text string) string {
		return `{"candidates":[{"content":{"parts":[{"text":` + strconvQuote(text) + `}]}}]}`
	}

	t.Run("file reference transport", func(t *testing.T) {
		var got generateRequest
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/models/gemini-1.5-flash:generateContent", r.URL.Path)
			assert.Equal(t, "test-key", r.URL.Query().Get("key"))
			assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
			w.Write([]byte(answerBody("The answer.")))
		}))
		defer srv.Close()

		c := newTestClient(srv, TransportFileRef)
		text, err := c.Generate(ctx, "prompt text", FileRef{URI: "https://files.example/abc", MimeType: "text/plain"})

		assert.NoError(t, err)
		assert.Equal(t, "The answer.", text)

		parts := got.Contents[0].Parts
		assert.Len(t, parts, 2)
		assert.Equal(t, "prompt text", parts[0].Text)
		assert.Equal(t, "https://files.example/abc", parts[1].FileData.FileURI)
		assert.Equal(t, "text/plain", parts[1].FileData.MimeType)
		assert.Nil(t, parts[1].InlineData)
	})

	t.Run("inline transport", func(t *testing.T) {
		var got generateRequest
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
			w.Write([]byte(answerBody("The answer.")))
		}))
		defer srv.Close()

		c := newTestClient(srv, TransportInline)
		_, err := c.Generate(ctx, "prompt text", FileRef{MimeType: "text/plain", Data: []byte("contents")})

		assert.NoError(t, err)
		parts := got.Contents[0].Parts
		assert.Len(t, parts, 2)
		assert.Nil(t, parts[1].FileData)
		assert.Equal(t, base64.StdEncoding.EncodeToString([]byte("contents")), parts[1].InlineData.Data)
	})

	t.Run("no candidates yields ErrNoAnswer", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"candidates":[]}`))
		}))
		defer srv.Close()

		c := newTestClient(srv, TransportFileRef)
		_, err := c.Generate(ctx, "prompt", FileRef{URI: "u"})

		assert.ErrorIs(t, err, ErrNoAnswer)
	})

	t.Run("candidate without text yields ErrNoAnswer", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"candidates":[{"content":{"parts":[{}]}}]}`))
		}))
		defer srv.Close()

		c := newTestClient(srv, TransportFileRef)
		_, err := c.Generate(ctx, "prompt", FileRef{URI: "u"})

		assert.ErrorIs(t, err, ErrNoAnswer)
	})

	t.Run("error status", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "boom", http.StatusInternalServerError)
		}))
		defer srv.Close()

		c := newTestClient(srv, TransportFileRef)
		_, err := c.Generate(ctx, "prompt", FileRef{URI: "u"})

		var statusErr *StatusError
		assert.ErrorAs(t, err, &statusErr)
		assert.Equal(t, "generate", statusErr.Operation)
	})
}

func TestParseTransportMode(t *testing.T) {
	tests := []struct {
		in      string
		want    TransportMode
		wantErr bool
	}{
		{in: "", want: TransportFileRef},
		{in: "file-ref", want: TransportFileRef},
		{in: "inline", want: TransportInline},
		{in: "carrier-pigeon", wantErr: true},
	}

	for _, tt := range tests {
		t.Run("mode "+tt.in, func(t *testing.T) {
			got, err := ParseTransportMode(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestNewClient(t *testing.T) {
	t.Run("missing api key", func(t *testing.T) {
		_, err := NewClient(testGeminiConfig(""))
		assert.Error(t, err)
	})

	t.Run("defaults applied", func(t *testing.T) {
		c, err := NewClient(testGeminiConfig("key"))
		assert.NoError(t, err)
		assert.Equal(t, TransportFileRef, c.Transport())
	})
}

func testGeminiConfig(apiKey string) config.GeminiConfig {
	return config.GeminiConfig{
		BaseURL:       "https://generativelanguage.example/v1beta",
		UploadBaseURL: "https://generativelanguage.example/upload/v1beta",
		APIKey:        apiKey,
		Model:         "gemini-1.5-flash",
	}
}

func strconvQuote(s string) string {
	b, _ := json.Marshal(s)
	return string(b)
}
