package domain

import (
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestEvaluateConditional(t *testing.T) {
	lastMod := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	meta := ObjectMeta{ETag: `"v1"`, LastModified: lastMod}

	httpDate := func(t time.Time) string { return t.UTC().Format(http.TimeFormat) }

	testCases := []struct {
		name string
		inm  string
		ims  string
		want bool
	}{
		{name: "etag match", inm: `"v1"`, want: true},
		{name: "etag mismatch", inm: `"v2"`, want: false},
		{name: "ims fresh", ims: httpDate(lastMod), want: true},
		{name: "ims newer than object", ims: httpDate(lastMod.Add(time.Hour)), want: true},
		{name: "ims stale", ims: httpDate(lastMod.Add(-time.Hour)), want: false},
		{name: "ims unparsable", ims: "last tuesday", want: false},
		{name: "no validators", want: false},
		// If-None-Match присутствует — If-Modified-Since игнорируется
		{name: "inm precedence over fresh ims", inm: `"v2"`, ims: httpDate(lastMod), want: false},
		{name: "inm precedence match", inm: `"v1"`, ims: httpDate(lastMod.Add(-time.Hour)), want: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, EvaluateConditional(meta, tc.inm, tc.ims))
		})
	}
}

func TestEvaluateConditionalNoETag(t *testing.T) {
	meta := ObjectMeta{LastModified: time.Now()}
	// без валидатора у объекта совпадения по ETag быть не может
	assert.False(t, EvaluateConditional(meta, `"v1"`, ""))
}
