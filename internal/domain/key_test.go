package domain

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateKey(t *testing.T) {
	testCases := []struct {
		name    string
		key     string
		wantErr bool
	}{
		{name: "simple", key: "app1/img.png", wantErr: false},
		{name: "nested", key: "a/b/c/style.css", wantErr: false},
		{name: "empty", key: "", wantErr: true},
		{name: "leading slash", key: "/app1/img.png", wantErr: true},
		{name: "traversal", key: "app1/../secrets.json", wantErr: true},
		{name: "double slash", key: "app1//img.png", wantErr: true},
		{name: "bare traversal", key: "..", wantErr: true},
		{name: "no extension", key: "app1/readme", wantErr: true},
		{name: "unknown extension", key: "app1/tool.exe", wantErr: true},
		{name: "trailing dot", key: "app1/file.", wantErr: true},
		{name: "max length", key: strings.Repeat("a", 496) + ".png", wantErr: false},
		{name: "over max length", key: strings.Repeat("a", 497) + ".png", wantErr: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := ValidateKey(tc.key)
			if tc.wantErr {
				assert.ErrorIs(t, err, ErrInvalidPath)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
