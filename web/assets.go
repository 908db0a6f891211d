package web

import (
	"bytes"
	"embed"
	"errors"
	"io"
	"io/fs"
	"mime"
	"path"
	"path/filepath"
)

//go:embed dist
var assets embed.FS

// ReadAsset returns the embedded page file at requestPath and its content type.
func ReadAsset(requestPath string) (io.Reader, string, error) {
	name := path.Join("dist", path.Clean("/"+requestPath))
	stat, err := fs.Stat(assets, name)
	if err != nil {
		return nil, "", err
	}
	if stat.IsDir() {
		return nil, "", errors.New("path is a directory")
	}

	b, err := assets.ReadFile(name)
	if err != nil {
		return nil, "", err
	}
	contentType := mime.TypeByExtension(filepath.Ext(requestPath))
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	return bytes.NewReader(b), contentType, nil
}
