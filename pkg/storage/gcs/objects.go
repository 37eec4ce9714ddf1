package gcs

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
)

const storageBase = "https://storage.googleapis.com/storage/v1"

// Put uploads an object with the given content type. Existing content under
// the same name is overwritten.
func (b *Bucket) Put(ctx context.Context, name, contentType string, body io.Reader) error {
	if b == nil || b.client == nil {
		return fmt.Errorf("gcs bucket not initialized")
	}
	token, err := b.client.tokenSource.Token(ctx)
	if err != nil {
		return err
	}

	u := fmt.Sprintf(
		"https://storage.googleapis.com/upload/storage/v1/b/%s/o?uploadType=media&name=%s",
		url.PathEscape(b.name), url.QueryEscape(name),
	)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u, body)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+token)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	resp, err := b.client.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return statusError("gcs upload failed", resp)
	}
	return nil
}

// Get streams an object's content. The caller owns the returned reader and
// must close it.
func (b *Bucket) Get(ctx context.Context, name string) (io.ReadCloser, string, error) {
	if b == nil || b.client == nil {
		return nil, "", fmt.Errorf("gcs bucket not initialized")
	}
	token, err := b.client.tokenSource.Token(ctx)
	if err != nil {
		return nil, "", err
	}

	u := fmt.Sprintf(
		"%s/b/%s/o/%s?alt=media",
		storageBase, url.PathEscape(b.name), url.PathEscape(name),
	)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, "", err
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := b.client.httpClient.Do(req)
	if err != nil {
		return nil, "", err
	}
	if resp.StatusCode == http.StatusNotFound {
		_ = resp.Body.Close()
		return nil, "", ErrObjectNotFound
	}
	if resp.StatusCode != http.StatusOK {
		defer func() { _ = resp.Body.Close() }()
		return nil, "", statusError("gcs download failed", resp)
	}
	return resp.Body, resp.Header.Get("Content-Type"), nil
}

// Delete removes an object. Deleting an object that does not exist returns
// ErrObjectNotFound.
func (b *Bucket) Delete(ctx context.Context, name string) error {
	if b == nil || b.client == nil {
		return fmt.Errorf("gcs bucket not initialized")
	}
	token, err := b.client.tokenSource.Token(ctx)
	if err != nil {
		return err
	}

	u := fmt.Sprintf(
		"%s/b/%s/o/%s",
		storageBase, url.PathEscape(b.name), url.PathEscape(name),
	)
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, u, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := b.client.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	switch resp.StatusCode {
	case http.StatusNoContent, http.StatusOK:
		return nil
	case http.StatusNotFound:
		return ErrObjectNotFound
	default:
		return statusError("gcs delete failed", resp)
	}
}

// Copy duplicates src into dst within the same bucket.
func (b *Bucket) Copy(ctx context.Context, src, dst string) error {
	if b == nil || b.client == nil {
		return fmt.Errorf("gcs bucket not initialized")
	}
	token, err := b.client.tokenSource.Token(ctx)
	if err != nil {
		return err
	}

	u := fmt.Sprintf(
		"%s/b/%s/o/%s/copyTo/b/%s/o/%s",
		storageBase,
		url.PathEscape(b.name), url.PathEscape(src),
		url.PathEscape(b.name), url.PathEscape(dst),
	)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := b.client.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode == http.StatusNotFound {
		return ErrObjectNotFound
	}
	if resp.StatusCode != http.StatusOK {
		return statusError("gcs copy failed", resp)
	}
	return nil
}

// ErrObjectNotFound is returned when the requested object does not exist.
var ErrObjectNotFound = fmt.Errorf("gcs object not found")

func statusError(msg string, resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
	if len(body) > 0 {
		return fmt.Errorf("%s: %s: %s", msg, resp.Status, strings.TrimSpace(string(body)))
	}
	return fmt.Errorf("%s: %s", msg, resp.Status)
}
