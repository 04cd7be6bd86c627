// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package driller

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/tidwall/gjson"
)

// segmentRegex splits a path segment like "topics[2]" into its key and
// optional index.
var segmentRegex = regexp.MustCompile(`^([^\[\]]*)(?:\[(\d+)\])?$`)

// gjsonEscaper escapes the characters gjson treats as path syntax so that
// keys are always looked up literally.
var gjsonEscaper = strings.NewReplacer(
	`*`, `\*`,
	`?`, `\?`,
	`|`, `\|`,
	`#`, `\#`,
	`@`, `\@`,
	`!`, `\!`,
)

// Driller resolves path against doc. Path segments are separated by "." and
// may carry an explicit "[n]" index. A single element array is transparent:
// it is unwrapped both when a key is applied to it and when it is the final
// value. A multi element array without an index is returned as is. Anything
// that cannot be resolved yields the zero gjson.Result.
func Driller(doc string, path string) gjson.Result {
	current := gjson.Parse(doc)
	if path == "" {
		return current
	}

	for _, segment := range strings.Split(path, ".") {
		parts := segmentRegex.FindStringSubmatch(segment)
		if parts == nil {
			return gjson.Result{}
		}
		key, index := parts[1], parts[2]

		if key != "" {
			if current.IsArray() {
				elems := current.Array()
				if len(elems) != 1 {
					return gjson.Result{}
				}
				current = elems[0]
			}
			current = current.Get(gjsonEscaper.Replace(key))
			if !current.Exists() {
				return gjson.Result{}
			}
		}

		if index != "" {
			i, err := strconv.Atoi(index)
			if err != nil || !current.IsArray() {
				return gjson.Result{}
			}
			elems := current.Array()
			if i >= len(elems) {
				return gjson.Result{}
			}
			current = elems[i]
		}
	}

	if current.IsArray() {
		if elems := current.Array(); len(elems) == 1 {
			return elems[0]
		}
	}

	return current
}
