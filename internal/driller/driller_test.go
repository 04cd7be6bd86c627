// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

// no-cloc
package driller

import (
	"testing"
)

const repoDoc = `{
  "id": 70107786,
  "full_name": "vercel/next.js",
  "stargazers_count": 42,
  "archived": false,
  "license": {"key": "mit", "spdx_id": "MIT"},
  "owner": {"login": "vercel", "type": "Organization"},
  "topics": ["react", "nextjs", "blog"],
  "parent": null,
  "mirrors": [{"url": "https://mirror.example"}],
  "odd-key": "dash",
  "weird*key": "star"
}`

func TestDriller(t *testing.T) {
	tests := []struct {
		name        string
		json        string
		path        string
		expectedStr string
		isNil       bool
		isArray     bool
	}{
		{name: "simple string key", json: repoDoc, path: "full_name", expectedStr: "vercel/next.js"},
		{name: "simple number key", json: repoDoc, path: "stargazers_count", expectedStr: "42"},
		{name: "simple boolean key false", json: repoDoc, path: "archived", expectedStr: "false"},
		{name: "simple null key", json: repoDoc, path: "parent", isNil: true},
		{name: "nested single level", json: repoDoc, path: "owner.login", expectedStr: "vercel"},
		{name: "nested license", json: repoDoc, path: "license.spdx_id", expectedStr: "MIT"},
		{name: "multi element array returns array", json: repoDoc, path: "topics", isArray: true},
		{name: "array with explicit index 0", json: repoDoc, path: "topics[0]", expectedStr: "react"},
		{name: "array with last valid index", json: repoDoc, path: "topics[2]", expectedStr: "blog"},
		{name: "single element array of objects drills through", json: repoDoc, path: "mirrors.url", expectedStr: "https://mirror.example"},
		{name: "single element array returns element", json: `{"items": ["only"]}`, path: "items", expectedStr: "only"},
		{name: "key with hyphen", json: repoDoc, path: "odd-key", expectedStr: "dash"},
		{name: "key with gjson wildcard is literal", json: repoDoc, path: "weird*key", expectedStr: "star"},
		{name: "deep nesting", json: `{"a": {"b": [{"c": {"d": "deep"}}]}}`, path: "a.b[0].c.d", expectedStr: "deep"},
		{name: "nonexistent key returns empty result", json: repoDoc, path: "missing", isNil: true},
		{name: "invalid array index returns empty result", json: repoDoc, path: "topics[10]", isNil: true},
		{name: "index on non-array returns empty result", json: repoDoc, path: "owner[0]", isNil: true},
		{name: "key through multi element array returns empty result", json: repoDoc, path: "topics.name", isNil: true},
		{name: "nested missing key returns empty result", json: repoDoc, path: "owner.missing", isNil: true},
		{name: "malformed segment returns empty result", json: repoDoc, path: "topics[x]", isNil: true},
		{name: "empty object returns empty result for any key", json: `{}`, path: "any", isNil: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Driller(tt.json, tt.path)

			if tt.isNil {
				if result.Exists() && result.Type.String() != "Null" {
					t.Errorf("Expected nil/empty result but got: %v", result.Value())
				}
				return
			}

			if !result.Exists() {
				t.Errorf("Expected result but got nil/empty")
				return
			}

			if tt.isArray {
				if !result.IsArray() {
					t.Errorf("Expected array but got: %v (type: %T)", result.Value(), result.Value())
				}
				return
			}

			if val := result.String(); val != tt.expectedStr {
				t.Errorf("Expected %q but got %q", tt.expectedStr, val)
			}
		})
	}
}

func BenchmarkDriller(b *testing.B) {
	paths := []string{"full_name", "owner.login", "topics[1]", "mirrors.url"}
	for _, p := range paths {
		b.Run(p, func(b *testing.B) {
			for i := 0; i < b.N; i++ {
				Driller(repoDoc, p)
			}
		})
	}
}
