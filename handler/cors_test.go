//go:build small_tests || all_tests

package handler

import (
	"testing"

	"gotest.tools/assert"
)

func TestCorsAllowOrigin(t *testing.T) {
	p := &corsPolicy{allowedOrigins: DefaultAllowedOrigins}

	t.Run("EchoesAllowedOrigin", func(t *testing.T) {
		assert.Equal(t, testOrigin, p.allowOrigin(testOrigin))
		assert.Equal(
			t, "http://localhost:3000", p.allowOrigin("http://localhost:3000"),
		)
	})

	t.Run("AllowsFileOrigins", func(t *testing.T) {
		const origin = "file:///home/alex/site/index.html"
		assert.Equal(t, origin, p.allowOrigin(origin))
	})

	t.Run("AllowsAnyOriginIfNoneSent", func(t *testing.T) {
		assert.Equal(t, "*", p.allowOrigin(""))
	})

	t.Run("RejectsUnknownOrigin", func(t *testing.T) {
		assert.Equal(t, "null", p.allowOrigin("https://evil.example.com"))
		assert.Equal(
			t, "null", p.allowOrigin("https://thehangoversessions.co.uk.evil"),
		)
	})
}

func TestCorsAddHeaders(t *testing.T) {
	p := &corsPolicy{allowedOrigins: []string{"https://example.com"}}
	headers := map[string]string{"Content-Type": "application/json"}

	p.addHeaders(headers, "https://example.com")

	assert.DeepEqual(t, map[string]string{
		"Content-Type":                 "application/json",
		"Access-Control-Allow-Origin":  "https://example.com",
		"Access-Control-Allow-Methods": "POST, OPTIONS",
		"Access-Control-Allow-Headers": "Content-Type",
		"Access-Control-Max-Age":       "86400",
	}, headers)
}
