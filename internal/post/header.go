// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package post

import (
	"bytes"
	"fmt"
	"os"
	"strings"

	"github.com/jmgilman/go/errors"
	"gopkg.in/yaml.v3"
)

// Header is the front matter of a post.
type Header struct {
	Title    string   `yaml:"title" json:"title"`
	SubTitle string   `yaml:"subTitle,omitempty" json:"subTitle,omitempty"`
	Date     string   `yaml:"date" json:"date"`
	Modified string   `yaml:"modified,omitempty" json:"modified,omitempty"`
	Tags     []string `yaml:"tags,omitempty" json:"tags,omitempty"`
}

// Validate requires a title and a parsable date. Modified is optional but
// must parse when present.
func (h Header) Validate() error {
	if strings.TrimSpace(h.Title) == "" {
		return invalidField("title", "must not be empty")
	}
	if strings.TrimSpace(h.Date) == "" {
		return invalidField("date", "must not be empty")
	}
	if _, err := ParseDate(h.Date); err != nil {
		return invalidField("date", err.Error())
	}
	if h.Modified != "" {
		if _, err := ParseDate(h.Modified); err != nil {
			return invalidField("modified", err.Error())
		}
	}
	return nil
}

var fence = []byte("---")

// LoadFile reads a header from a markdown post with a "---" fenced front
// matter block, or from a bare YAML file.
func LoadFile(path string) (Header, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Header{}, fmt.Errorf("failed to read post: %w", err)
	}

	h, err := Parse(data)
	if err != nil {
		return Header{}, fmt.Errorf("%s: %w", path, err)
	}
	return h, nil
}

// Parse decodes a header from post content.
func Parse(data []byte) (Header, error) {
	data = bytes.TrimLeft(data, "\ufeff\r\n\t ")

	if bytes.HasPrefix(data, fence) {
		rest := data[len(fence):]
		end := bytes.Index(rest, append([]byte("\n"), fence...))
		if end < 0 {
			return Header{}, errors.New(errors.CodeInvalidInput, "unterminated front matter")
		}
		data = rest[:end]
	}

	var h Header
	if err := yaml.Unmarshal(data, &h); err != nil {
		return Header{}, errors.Wrap(err, errors.CodeInvalidInput, "failed to decode front matter")
	}
	return h, nil
}

func invalidField(field, reason string) error {
	err := errors.Newf(errors.CodeInvalidInput, "invalid %s: %s", field, reason)
	return errors.WithContext(err, "field", field)
}
