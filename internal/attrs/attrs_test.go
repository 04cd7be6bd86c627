// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

package attrs

import (
	"embed"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/staranto/starctl/internal/config"
)

//go:embed testdata/*.yaml
var testdata embed.FS

// cases decodes a YAML list of test cases from testdata.
func cases[T any](t *testing.T, file string) []T {
	t.Helper()
	data, err := testdata.ReadFile("testdata/" + file)
	require.NoError(t, err)
	var out []T
	require.NoError(t, yaml.Unmarshal(data, &out))
	require.NotEmpty(t, out, file)
	return out
}

// withConfig makes body the only config for the test.
func withConfig(t *testing.T, body string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "starctl.yaml")
	require.NoError(t, os.WriteFile(path, []byte("x: y\n"+body), 0o600))
	t.Setenv("STARCTL_CFG", path)
	_, err := config.Load()
	require.NoError(t, err)
	t.Cleanup(func() { config.Config = config.Type{} })
}

func TestAttrList_Set(t *testing.T) {
	type setCase struct {
		Name      string `yaml:"name"`
		Initial   []Attr `yaml:"initial"`
		Value     string `yaml:"value"`
		WantAttrs []Attr `yaml:"wantAttrs"`
		WantErr   bool   `yaml:"wantErr"`
	}

	for _, tt := range cases[setCase](t, "set_cases.yaml") {
		t.Run(tt.Name, func(t *testing.T) {
			a := AttrList(tt.Initial)
			err := a.Set(tt.Value)
			if tt.WantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, AttrList(tt.WantAttrs), a)
		})
	}
}

func TestAttrList_SetGlobalTransformSpec(t *testing.T) {
	type globalCase struct {
		Name      string   `yaml:"name"`
		Initial   []Attr   `yaml:"initial"`
		WantSpecs []string `yaml:"wantSpecs"`
	}

	for _, tt := range cases[globalCase](t, "global_transform_cases.yaml") {
		t.Run(tt.Name, func(t *testing.T) {
			a := AttrList(tt.Initial)
			require.NoError(t, a.SetGlobalTransformSpec())

			specs := make([]string, 0, len(a))
			for _, attr := range a {
				specs = append(specs, attr.TransformSpec)
			}
			assert.Equal(t, tt.WantSpecs, specs)
		})
	}
}

func TestAttr_Transform(t *testing.T) {
	type transformCase struct {
		Name          string            `yaml:"name"`
		TransformSpec string            `yaml:"transformSpec"`
		Input         any               `yaml:"input"`
		EnvVars       map[string]string `yaml:"envVars"`
		Want          any               `yaml:"want"`
	}

	withConfig(t, "")
	for _, tt := range cases[transformCase](t, "transform_cases.yaml") {
		t.Run(tt.Name, func(t *testing.T) {
			for k, v := range tt.EnvVars {
				t.Setenv(k, v)
			}
			attr := Attr{TransformSpec: tt.TransformSpec}
			assert.Equal(t, tt.Want, attr.Transform(tt.Input))
		})
	}
}

// A repository record run through a full --attrs value the way rq
// projects it.
func TestAttrList_ProjectRepository(t *testing.T) {
	withConfig(t, "")
	record := map[string]any{
		"full_name":        "vercel/next.js",
		"description":      "The React Framework",
		"stargazers_count": 124532.0,
		"fork":             false,
	}

	var al AttrList
	require.NoError(t, al.Set("full_name,stargazers_count:stars:h,description::-12,!fork"))
	require.NoError(t, al.Set("*::u"))
	require.NoError(t, al.SetGlobalTransformSpec())

	got := map[string]any{}
	for i := range al {
		if al[i].Include {
			got[al[i].OutputKey] = al[i].Transform(record[al[i].Key])
		}
	}

	assert.Equal(t, map[string]any{
		"full_name":   "VERCEL/NEXT.JS",
		"stars":       "124,532",
		"description": "THE R..EWORK",
	}, got)
	assert.Equal(t,
		"full_name:full_name:u,,stargazers_count:stars:u,h,description:description:u,-12,fork:fork:u,,*:*:u,u",
		al.String())
	assert.Equal(t, "list", al.Type())
}

func TestAttr_Transform_HumanizeTime(t *testing.T) {
	attr := Attr{TransformSpec: "h"}
	pushed := time.Now().Add(-72 * time.Hour).UTC().Format(time.RFC3339)
	assert.Equal(t, "3 days ago", attr.Transform(pushed))
}

func TestAttr_Transform_Timezone(t *testing.T) {
	tests := []struct {
		name   string
		config string
		tz     string
		input  string
		want   string
	}{
		{"TZ", "", "America/Los_Angeles", "2024-01-15T10:00:00Z", "2024-01-15T02:00:00PST"},
		{"config beats TZ", "timezone: America/New_York\n", "America/Los_Angeles", "2024-01-15T10:00:00Z", "2024-01-15T05:00:00EST"},
		{"neither", "", "", "2024-01-15T10:00:00Z", "2024-01-15T10:00:00Z"},
		{"unknown zone", "timezone: Mars/Olympus\n", "", "2024-01-15T10:00:00Z", "2024-01-15T10:00:00Z"},
		{"not a timestamp", "", "UTC", "yesterday", "yesterday"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			withConfig(t, tt.config)
			t.Setenv("TZ", tt.tz)

			attr := Attr{TransformSpec: "t"}
			assert.Equal(t, tt.want, attr.Transform(tt.input))
		})
	}
}
