package jira

import (
	"encoding/base64"
	"os"
	"path/filepath"
	"strings"

	// nolint
	. "github.com/onsi/ginkgo/v2"
	// nolint
	. "github.com/onsi/gomega"
)

// splitEncoded pulls the boundary out of the content type and the payload
// segment out of the body.
func splitEncoded(contentType string, body []byte) (boundary string, payload []byte) {
	boundary = strings.TrimPrefix(contentType, "multipart/form-data; boundary=")

	text := string(body)
	start := strings.Index(text, "\r\n\r\n")
	end := strings.LastIndex(text, "\r\n--"+boundary+"--")
	Expect(start).To(BeNumerically(">", 0))
	Expect(end).To(BeNumerically(">", start))
	return boundary, body[start+4 : end]
}

var _ = Describe("Attachment encoding", func() {

	It("Round-trips inline base64 content", func() {
		original := []byte("hello world\nsecond line\x00\x01\x02")
		spec := &AttachmentSpec{
			Filename: "report.bin",
			Content:  base64.StdEncoding.EncodeToString(original),
		}

		contentType, body, err := spec.encode()
		Expect(err).NotTo(HaveOccurred())

		_, payload := splitEncoded(contentType, body)
		Expect(payload).To(Equal(original))
	})

	It("Uses a 30 character alphanumeric boundary appearing exactly twice", func() {
		spec := &AttachmentSpec{
			Filename: "report.txt",
			Content:  base64.StdEncoding.EncodeToString([]byte("plain payload")),
		}

		contentType, body, err := spec.encode()
		Expect(err).NotTo(HaveOccurred())

		boundary, _ := splitEncoded(contentType, body)
		Expect(boundary).To(HaveLen(30))
		for _, r := range boundary {
			Expect(strings.ContainsRune(boundaryAlphabet, r)).To(BeTrue())
		}
		Expect(strings.Count(string(body), boundary)).To(Equal(2))
		Expect(string(body)).To(HavePrefix("--" + boundary + "\r\n"))
		Expect(string(body)).To(HaveSuffix("\r\n--" + boundary + "--\r\n"))
	})

	It("Reads the file when no inline content is given", func() {
		dir := GinkgoT().TempDir()
		path := filepath.Join(dir, "notes.txt")
		Expect(os.WriteFile(path, []byte("from disk"), 0o600)).To(Succeed())

		spec := &AttachmentSpec{Filename: path}
		contentType, body, err := spec.encode()
		Expect(err).NotTo(HaveOccurred())

		_, payload := splitEncoded(contentType, body)
		Expect(string(payload)).To(Equal("from disk"))
		Expect(string(body)).To(ContainSubstring("filename=notes.txt"))
	})

	It("Prefers the explicit MIME type override", func() {
		spec := &AttachmentSpec{
			Filename: "data.xyz",
			Content:  base64.StdEncoding.EncodeToString([]byte("x")),
			MimeType: "application/vnd.custom+json",
		}
		_, body, err := spec.encode()
		Expect(err).NotTo(HaveOccurred())
		Expect(string(body)).To(ContainSubstring("Content-Type: application/vnd.custom+json"))
	})

	It("Sniffs the MIME type from the filename extension", func() {
		spec := &AttachmentSpec{
			Filename: "image.png",
			Content:  base64.StdEncoding.EncodeToString([]byte("x")),
		}
		_, body, err := spec.encode()
		Expect(err).NotTo(HaveOccurred())
		Expect(string(body)).To(ContainSubstring("Content-Type: image/png"))
	})

	It("Falls back to the generic binary type", func() {
		spec := &AttachmentSpec{
			Filename: "no-extension",
			Content:  base64.StdEncoding.EncodeToString([]byte("x")),
		}
		_, body, err := spec.encode()
		Expect(err).NotTo(HaveOccurred())
		Expect(string(body)).To(ContainSubstring("Content-Type: application/octet-stream"))
	})

	It("Escapes double quotes in the filename", func() {
		spec := &AttachmentSpec{
			Filename: `my"report".txt`,
			Content:  base64.StdEncoding.EncodeToString([]byte("x")),
		}
		_, body, err := spec.encode()
		Expect(err).NotTo(HaveOccurred())
		Expect(string(body)).To(ContainSubstring(`filename=my\"report\".txt`))
	})

	It("Fails on malformed base64 content", func() {
		spec := &AttachmentSpec{
			Filename: "report.txt",
			Content:  "not!!valid!!base64",
		}
		_, _, err := spec.encode()
		Expect(err).To(HaveOccurred())
		Expect(err.Error()).To(ContainSubstring("base64"))
	})

	It("Fails when neither filename nor content is provided", func() {
		spec := &AttachmentSpec{}
		_, _, err := spec.encode()
		Expect(err).To(HaveOccurred())
		Expect(err.Error()).To(ContainSubstring("at least one of filename or content"))
	})

	It("Fails when the file path does not exist", func() {
		spec := &AttachmentSpec{Filename: "/does/not/exist.txt"}
		_, _, err := spec.encode()
		Expect(err).To(HaveOccurred())
		Expect(err.Error()).To(ContainSubstring("The provided filename does not exist"))
	})
})
