// Package linkedin talks to the LinkedIn REST API: media uploads via
// the assets endpoint and post creation via ugcPosts.
package linkedin

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"path"
	"strings"

	"github.com/rs/zerolog/log"
)

const defaultBaseURL = "https://api.linkedin.com"

// UploadedAsset is the transient result of one image upload. It lives
// only for the pipeline invocation that created it.
type UploadedAsset struct {
	AssetID          string
	UploadStatus     int
	RegisterResponse json.RawMessage
}

type Client struct {
	httpClient  *http.Client
	accessToken string
	personURN   string
	baseURL     string
}

// Option adjusts a Client; used by tests to point at a fake server.
type Option func(*Client)

func WithBaseURL(u string) Option {
	return func(c *Client) { c.baseURL = strings.TrimRight(u, "/") }
}

func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.httpClient = h }
}

func NewClient(accessToken, personURN string, opts ...Option) *Client {
	c := &Client{
		httpClient:  &http.Client{},
		accessToken: accessToken,
		personURN:   personURN,
		baseURL:     defaultBaseURL,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type registerUploadResponse struct {
	Value struct {
		Asset           string                     `json:"asset"`
		UploadMechanism map[string]json.RawMessage `json:"uploadMechanism"`
	} `json:"value"`
}

type uploadHTTPRequest struct {
	UploadURL string `json:"uploadUrl"`
}

// UploadImageFromURL downloads the image at imageURL, registers an
// upload slot with LinkedIn, and pushes the bytes to the returned
// upload URL. Any failing step aborts the upload; there are no
// retries.
func (c *Client) UploadImageFromURL(ctx context.Context, imageURL string) (*UploadedAsset, error) {
	data, err := c.download(ctx, imageURL)
	if err != nil {
		return nil, err
	}

	uploadURL, assetID, raw, err := c.registerUpload(ctx)
	if err != nil {
		return nil, err
	}

	status, err := c.uploadBytes(ctx, uploadURL, data, contentTypeFor(imageURL))
	if err != nil {
		return nil, err
	}

	log.Info().Str("asset", assetID).Int("status", status).Msg("image uploaded")
	return &UploadedAsset{AssetID: assetID, UploadStatus: status, RegisterResponse: raw}, nil
}

func (c *Client) download(ctx context.Context, imageURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, imageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build download request: %w", err)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("download image: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, &DownloadError{URL: imageURL, Status: resp.StatusCode}
	}
	return io.ReadAll(resp.Body)
}

func (c *Client) registerUpload(ctx context.Context) (uploadURL, assetID string, raw json.RawMessage, err error) {
	body := map[string]any{
		"registerUploadRequest": map[string]any{
			"recipes": []string{"urn:li:digitalmediaRecipe:feedshare-image"},
			"owner":   c.personURN,
			"serviceRelationships": []map[string]string{
				{
					"relationshipType": "OWNER",
					"identifier":       "urn:li:userGeneratedContent",
				},
			},
		},
	}
	payload, err := json.Marshal(body)
	if err != nil {
		return "", "", nil, fmt.Errorf("marshal register request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/v2/assets?action=registerUpload", bytes.NewReader(payload))
	if err != nil {
		return "", "", nil, fmt.Errorf("build register request: %w", err)
	}
	c.setHeaders(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", "", nil, fmt.Errorf("register upload: %w", err)
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		return "", "", nil, &RegistrationError{Status: resp.StatusCode, Body: string(respBody)}
	}

	var reg registerUploadResponse
	if err := json.Unmarshal(respBody, &reg); err != nil {
		return "", "", nil, fmt.Errorf("decode register response: %w", err)
	}
	mech, ok := reg.Value.UploadMechanism["com.linkedin.digitalmedia.uploading.MediaUploadHttpRequest"]
	if !ok {
		return "", "", nil, fmt.Errorf("register response missing upload mechanism")
	}
	var up uploadHTTPRequest
	if err := json.Unmarshal(mech, &up); err != nil {
		return "", "", nil, fmt.Errorf("decode upload mechanism: %w", err)
	}
	return up.UploadURL, reg.Value.Asset, respBody, nil
}

func (c *Client) uploadBytes(ctx context.Context, uploadURL string, data []byte, contentType string) (int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, uploadURL, bytes.NewReader(data))
	if err != nil {
		return 0, fmt.Errorf("build upload request: %w", err)
	}
	req.Header.Set("Content-Type", contentType)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("upload image: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		body, _ := io.ReadAll(resp.Body)
		return 0, &UploadError{Status: resp.StatusCode, Body: string(body)}
	}
	return resp.StatusCode, nil
}

// PublishPost creates a PUBLISHED, PUBLIC ugcPost with the given text.
// When asset is non-nil the post references the uploaded image with
// media status READY; otherwise it is text-only.
func (c *Client) PublishPost(ctx context.Context, text string, asset *UploadedAsset) (json.RawMessage, error) {
	shareContent := map[string]any{
		"shareCommentary":    map[string]string{"text": text},
		"shareMediaCategory": "NONE",
	}
	if asset != nil {
		shareContent["shareMediaCategory"] = "IMAGE"
		shareContent["media"] = []map[string]any{
			{"status": "READY", "media": asset.AssetID},
		}
	}

	body := map[string]any{
		"author":         "urn:li:person:" + c.personURN,
		"lifecycleState": "PUBLISHED",
		"specificContent": map[string]any{
			"com.linkedin.ugc.ShareContent": shareContent,
		},
		"visibility": map[string]string{
			"com.linkedin.ugc.MemberNetworkVisibility": "PUBLIC",
		},
	}
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("marshal post request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/v2/ugcPosts", bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("build post request: %w", err)
	}
	c.setHeaders(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("create post: %w", err)
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return nil, &PublishError{Status: resp.StatusCode, Body: string(respBody)}
	}
	return respBody, nil
}

func (c *Client) setHeaders(req *http.Request) {
	req.Header.Set("Authorization", "Bearer "+c.accessToken)
	req.Header.Set("X-Restli-Protocol-Version", "2.0.0")
	req.Header.Set("Content-Type", "application/json")
}

// contentTypeFor maps the image URL's file extension to a MIME type,
// defaulting to JPEG.
func contentTypeFor(imageURL string) string {
	u, err := url.Parse(imageURL)
	if err != nil {
		return "image/jpeg"
	}
	switch strings.ToLower(path.Ext(u.Path)) {
	case ".png":
		return "image/png"
	case ".gif":
		return "image/gif"
	default:
		return "image/jpeg"
	}
}
