package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func int64ptr(v int64) *int64 { return &v }

func TestPathAllowed(t *testing.T) {
	testCases := []struct {
		name  string
		paths []string
		key   string
		want  bool
	}{
		{name: "no restriction", paths: nil, key: "any/file.png", want: true},
		{name: "wildcard entry", paths: []string{"*"}, key: "any/file.png", want: true},
		{name: "exact", paths: []string{"app1/img.png"}, key: "app1/img.png", want: true},
		{name: "prefix", paths: []string{"app1/*"}, key: "app1/deep/file.png", want: true},
		{name: "prefix boundary", paths: []string{"app1/*"}, key: "app10/file.png", want: false},
		{name: "other app", paths: []string{"app1/*"}, key: "app2/img.png", want: false},
		{name: "mixed list", paths: []string{"static/logo.svg", "app1/*"}, key: "static/logo.svg", want: true},
		{name: "no match", paths: []string{"app1/*"}, key: "img.png", want: false},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			c := UploadClaims{AllowedPaths: tc.paths}
			assert.Equal(t, tc.want, c.PathAllowed(tc.key))
		})
	}
}

func TestExtensionAllowed(t *testing.T) {
	c := UploadClaims{AllowedExtensions: []string{"PNG", ".jpg"}}
	assert.True(t, c.ExtensionAllowed("png"))
	assert.True(t, c.ExtensionAllowed("jpg"))
	assert.False(t, c.ExtensionAllowed("gif"))

	open := UploadClaims{}
	assert.True(t, open.ExtensionAllowed("anything"))
}

func TestEffectiveMaxSize(t *testing.T) {
	assert.EqualValues(t, 0, UploadClaims{}.EffectiveMaxSize(0))
	assert.EqualValues(t, 100, UploadClaims{}.EffectiveMaxSize(100))
	assert.EqualValues(t, 50, UploadClaims{MaxFileSize: int64ptr(50)}.EffectiveMaxSize(0))
	assert.EqualValues(t, 50, UploadClaims{MaxFileSize: int64ptr(50)}.EffectiveMaxSize(100))
	assert.EqualValues(t, 100, UploadClaims{MaxFileSize: int64ptr(200)}.EffectiveMaxSize(100))
}
