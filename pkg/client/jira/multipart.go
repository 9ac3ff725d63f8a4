package jira

import (
	"bytes"
	"crypto/rand"
	"encoding/base64"
	"mime"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	weberr "github.com/zgalor/weberr"
)

// AttachmentSpec describes one file to upload. Filename is a path on disk
// or, when Content is set, just the name reported to JIRA. Content is
// base64 because hosts cannot pass raw bytes.
type AttachmentSpec struct {
	Filename string
	Content  string
	MimeType string
}

func (a *AttachmentSpec) validate() error {
	if a == nil || (a.Filename == "" && a.Content == "") {
		return weberr.BadRequest.UserErrorf("at least one of filename or content must be provided")
	}
	if a.Content == "" {
		info, err := os.Stat(a.Filename)
		if err != nil || info.IsDir() {
			return weberr.BadRequest.UserErrorf("The provided filename does not exist: %s", a.Filename)
		}
	}
	return nil
}

const boundaryAlphabet = "0123456789" +
	"abcdefghijklmnopqrstuvwxyz" +
	"ABCDEFGHIJKLMNOPQRSTUVWXYZ"

const boundaryLength = 30

// randomBoundary returns a 30 character alphanumeric token. The alphabet
// is large enough that a collision with payload bytes is treated as
// negligible rather than checked for.
func randomBoundary() (string, error) {
	buf := make([]byte, boundaryLength)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	for i, b := range buf {
		buf[i] = boundaryAlphabet[int(b)%len(boundaryAlphabet)]
	}
	return string(buf), nil
}

// encode hand-builds a single part multipart/form-data body and returns
// the Content-Type header value (including the boundary) together with the
// body bytes.
//
// JIRA rejects base64 transfer-encoded parts, so generic multipart writers
// that pick an encoding cannot be used here; the content bytes go on the
// wire untouched.
func (a *AttachmentSpec) encode() (string, []byte, error) {
	if err := a.validate(); err != nil {
		return "", nil, err
	}

	boundary, err := randomBoundary()
	if err != nil {
		return "", nil, err
	}

	content, err := a.resolveContent()
	if err != nil {
		return "", nil, err
	}

	mainType, subType := a.resolveMimeType()
	name := escapeQuotes(filepath.Base(a.Filename))

	var body bytes.Buffer
	lines := []string{
		"--" + boundary,
		`Content-Disposition: form-data; name="file"; filename=` + name,
		"Content-Type: " + mainType + "/" + subType,
		"",
	}
	for _, line := range lines {
		body.WriteString(line)
		body.WriteString("\r\n")
	}
	body.Write(content)
	body.WriteString("\r\n--" + boundary + "--\r\n")

	return "multipart/form-data; boundary=" + boundary, body.Bytes(), nil
}

func (a *AttachmentSpec) resolveContent() ([]byte, error) {
	if a.Content != "" {
		decoded, err := base64.StdEncoding.DecodeString(a.Content)
		if err != nil {
			return nil, errors.Wrap(err, "unable to base64 decode file content")
		}
		return decoded, nil
	}
	data, err := os.ReadFile(a.Filename)
	if err != nil {
		return nil, errors.Wrapf(err, "unable to read attachment %s", a.Filename)
	}
	return data, nil
}

// resolveMimeType picks the explicit override, then filename-extension
// sniffing, then the generic binary fallback, split into its major and
// minor parts for the part header.
func (a *AttachmentSpec) resolveMimeType() (string, string) {
	mimeType := a.MimeType
	if mimeType == "" {
		mimeType = mime.TypeByExtension(filepath.Ext(a.Filename))
		if i := strings.Index(mimeType, ";"); i >= 0 {
			mimeType = strings.TrimSpace(mimeType[:i])
		}
	}
	if mimeType == "" {
		mimeType = "application/octet-stream"
	}
	mainType, subType, _ := strings.Cut(mimeType, "/")
	return mainType, subType
}

func escapeQuotes(s string) string {
	return strings.ReplaceAll(s, `"`, `\"`)
}
