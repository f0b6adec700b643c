package gemini

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"golang.org/x/time/rate"

	"docqa/internal/config"
)

// httpClient implements Client over net/http. It is safe for concurrent use.
type httpClient struct {
	baseURL    string
	uploadURL  string
	apiKey     string
	model      string
	transport  TransportMode
	hc         *http.Client
	limiter    *rate.Limiter
}

// NewClient builds an answer-service client from injected configuration.
// The API key is passed as a query parameter on both endpoints.
func NewClient(cfg config.GeminiConfig) (Client, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("gemini api key is required")
	}
	mode, err := ParseTransportMode(cfg.Transport)
	if err != nil {
		return nil, err
	}
	timeout := time.Duration(cfg.TimeoutSec) * time.Second
	if timeout <= 0 {
		timeout = 60 * time.Second
	}

	var limiter *rate.Limiter
	if cfg.RequestsPerMin > 0 {
		limiter = rate.NewLimiter(rate.Every(time.Minute/time.Duration(cfg.RequestsPerMin)), cfg.RequestsPerMin)
	}

	return &httpClient{
		baseURL:   strings.TrimRight(cfg.BaseURL, "/"),
		uploadURL: strings.TrimRight(cfg.UploadBaseURL, "/"),
		apiKey:    cfg.APIKey,
		model:     cfg.Model,
		transport: mode,
		hc: &http.Client{
			Timeout:   timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
		limiter: limiter,
	}, nil
}

func (c *httpClient) Transport() TransportMode {
	return c.transport
}

// uploadResponse mirrors the upload endpoint's JSON body. Optional fields
// are modeled as such so "field absent" is an explicit branch.
type uploadResponse struct {
	File *uploadedFile `json:"file"`
}

type uploadedFile struct {
	Name           string     `json:"name"`
	URI            string     `json:"uri"`
	ExpirationTime *time.Time `json:"expirationTime"`
}

func (c *httpClient) UploadFile(ctx context.Context, filename, contentType string, data []byte) (*FileInfo, error) {
	if err := c.wait(ctx); err != nil {
		return nil, err
	}

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	fw, err := mw.CreateFormFile("file", filename)
	if err != nil {
		return nil, fmt.Errorf("build upload form: %w", err)
	}
	if _, err := fw.Write(data); err != nil {
		return nil, fmt.Errorf("build upload form: %w", err)
	}
	if err := mw.Close(); err != nil {
		return nil, fmt.Errorf("build upload form: %w", err)
	}

	url := fmt.Sprintf("%s/files?key=%s", c.uploadURL, c.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, &body)
	if err != nil {
		return nil, fmt.Errorf("create upload request: %w", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	var parsed uploadResponse
	if err := c.do(req, "upload", &parsed); err != nil {
		return nil, err
	}
	if parsed.File == nil || parsed.File.Name == "" {
		return nil, fmt.Errorf("upload response missing file name")
	}
	return &FileInfo{
		Name:           parsed.File.Name,
		URI:            parsed.File.URI,
		ExpirationTime: parsed.File.ExpirationTime,
	}, nil
}

type generateRequest struct {
	Contents []content `json:"contents"`
}

type content struct {
	Parts []part `json:"parts"`
}

type part struct {
	Text       string      `json:"text,omitempty"`
	FileData   *fileData   `json:"fileData,omitempty"`
	InlineData *inlineData `json:"inlineData,omitempty"`
}

type fileData struct {
	MimeType string `json:"mimeType"`
	FileURI  string `json:"fileUri"`
}

type inlineData struct {
	MimeType string `json:"mimeType"`
	Data     string `json:"data"`
}

type generateResponse struct {
	Candidates []struct {
		Content *content `json:"content"`
	} `json:"candidates"`
}

func (c *httpClient) Generate(ctx context.Context, prompt string, ref FileRef) (string, error) {
	if err := c.wait(ctx); err != nil {
		return "", err
	}

	parts := []part{{Text: prompt}}
	switch c.transport {
	case TransportInline:
		parts = append(parts, part{InlineData: &inlineData{
			MimeType: ref.MimeType,
			Data:     base64.StdEncoding.EncodeToString(ref.Data),
		}})
	default:
		parts = append(parts, part{FileData: &fileData{
			MimeType: ref.MimeType,
			FileURI:  ref.URI,
		}})
	}

	payload, err := json.Marshal(generateRequest{Contents: []content{{Parts: parts}}})
	if err != nil {
		return "", fmt.Errorf("marshal generate request: %w", err)
	}

	url := fmt.Sprintf("%s/models/%s:generateContent?key=%s", c.baseURL, c.model, c.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("create generate request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	var parsed generateResponse
	if err := c.do(req, "generate", &parsed); err != nil {
		return "", err
	}

	if len(parsed.Candidates) == 0 || parsed.Candidates[0].Content == nil {
		return "", ErrNoAnswer
	}
	for _, p := range parsed.Candidates[0].Content.Parts {
		if p.Text != "" {
			return p.Text, nil
		}
	}
	return "", ErrNoAnswer
}

func (c *httpClient) wait(ctx context.Context) error {
	if c.limiter == nil {
		return nil
	}
	return c.limiter.Wait(ctx)
}

func (c *httpClient) do(req *http.Request, operation string, out any) error {
	resp, err := c.hc.Do(req)
	if err != nil {
		return fmt.Errorf("gemini %s request: %w", operation, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return &StatusError{
			Operation:  operation,
			StatusCode: resp.StatusCode,
			Status:     resp.Status,
			Body:       string(body),
		}
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s response: %w", operation, err)
	}
	return nil
}
