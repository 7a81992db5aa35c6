// Package local implements storage.Client on the local filesystem.
package local

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// Client stores objects as files under a base directory. Keys are
// slash-separated relative paths; anything resembling a path escape is
// rejected.
type Client struct {
	baseDir string
	baseURL string
}

// NewClient creates the base directory if needed. baseURL is the
// public prefix the files are served from, e.g. "/uploads".
func NewClient(baseDir, baseURL string) (*Client, error) {
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload directory: %w", err)
	}
	return &Client{
		baseDir: baseDir,
		baseURL: strings.TrimSuffix(baseURL, "/"),
	}, nil
}

func (c *Client) path(key string) (string, error) {
	if key == "" || path.Clean(key) != key || strings.HasPrefix(key, "/") {
		return "", fmt.Errorf("invalid storage key: %q", key)
	}
	for _, segment := range strings.Split(key, "/") {
		if segment == "" || strings.HasPrefix(segment, ".") {
			return "", fmt.Errorf("invalid storage key: %q", key)
		}
	}
	return filepath.Join(c.baseDir, filepath.FromSlash(key)), nil
}

func (c *Client) Save(ctx context.Context, key string, content io.Reader) error {
	target, err := c.path(key)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return fmt.Errorf("failed to create directory for %s: %w", key, err)
	}

	file, err := os.Create(target)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", key, err)
	}
	defer file.Close()

	if _, err := io.Copy(file, content); err != nil {
		os.Remove(target)
		return fmt.Errorf("failed to write %s: %w", key, err)
	}
	return nil
}

func (c *Client) Delete(ctx context.Context, key string) error {
	target, err := c.path(key)
	if err != nil {
		return err
	}
	err = os.Remove(target)
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// List returns the keys of every stored object.
func (c *Client) List(ctx context.Context) ([]string, error) {
	keys := []string{}
	err := filepath.WalkDir(c.baseDir, func(p string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}
		rel, err := filepath.Rel(c.baseDir, p)
		if err != nil {
			return err
		}
		keys = append(keys, filepath.ToSlash(rel))
		return nil
	})
	if err != nil {
		return nil, err
	}
	return keys, nil
}

func (c *Client) URL(key string) string {
	return c.baseURL + "/" + key
}
