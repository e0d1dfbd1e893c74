package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolveContentType(t *testing.T) {
	testCases := []struct {
		path string
		want string
	}{
		{"a/b.png", "image/png"},
		{"a/b.JPG", "image/jpeg"},
		{"fonts/x.woff2", "font/woff2"},
		{"docs/report.pdf", "application/pdf"},
		{"noext", MIMEOctetStream},
		{"odd.unknown", MIMEOctetStream},
		{"trailing.", MIMEOctetStream},
		{"", MIMEOctetStream},
	}
	for _, tc := range testCases {
		assert.Equal(t, tc.want, ResolveContentType(tc.path), "path=%q", tc.path)
	}
}

func TestExt(t *testing.T) {
	assert.Equal(t, "png", Ext("a/b.PNG"))
	assert.Equal(t, "gz", Ext("archive.tar.gz"))
	assert.Equal(t, "", Ext("noext"))
	assert.Equal(t, "", Ext("dir.name/file"))
}
