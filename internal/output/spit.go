// Copyright © 2025 Steve Taranto staranto@gmail.com
// SPDX-License-Identifier: MIT

package output

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/apex/log"
	"github.com/charmbracelet/lipgloss/v2"
	"github.com/charmbracelet/lipgloss/v2/table"
	"github.com/tidwall/gjson"
	"github.com/urfave/cli/v3"
	"golang.org/x/term"
	"gopkg.in/yaml.v2"

	"github.com/staranto/starctl/internal/attrs"
	"github.com/staranto/starctl/internal/config"
	"github.com/staranto/starctl/internal/filters"
)

// Options are the presentation flags shared by the query commands.
type Options struct {
	Output string
	Filter string
	Sort   string
	Titles bool
	Color  bool
}

// OptionsFromCommand reads the global output flags.
func OptionsFromCommand(cmd *cli.Command) Options {
	return Options{
		Output: cmd.String("output"),
		Filter: cmd.String("filter"),
		Sort:   cmd.String("sort"),
		Titles: cmd.Bool("titles"),
		Color:  cmd.Bool("color"),
	}
}

// ColorDefault enables colour when stdout is a terminal and NO_COLOR is
// unset.
func ColorDefault() bool {
	if _, ok := os.LookupEnv("NO_COLOR"); ok {
		return false
	}
	return term.IsTerminal(int(os.Stdout.Fd()))
}

// SliceDiceSpit filters, transforms, sorts and renders raw, a JSON array of
// records (a single object is treated as a one element array), according to
// the command's flags.
func SliceDiceSpit(raw []byte, attrs attrs.AttrList, cmd *cli.Command, w io.Writer) error {
	return Spit(raw, attrs, OptionsFromCommand(cmd), w)
}

// Spit is SliceDiceSpit with explicit options.
func Spit(raw []byte, attrs attrs.AttrList, opts Options, w io.Writer) error {
	if w == nil {
		w = os.Stdout
	}

	// raw is the documents exactly as they were received or cached.
	if opts.Output == "raw" {
		_, err := w.Write(append(bytes.TrimSpace(raw), '\n'))
		return err
	}

	dataset := gjson.ParseBytes(raw)
	if dataset.IsObject() {
		dataset = gjson.Parse("[" + dataset.Raw + "]")
	}

	rows := filters.FilterDataset(dataset, attrs, opts.Filter)

	for _, row := range rows {
		for i := range attrs {
			if attrs[i].TransformSpec != "" {
				row[attrs[i].OutputKey] = attrs[i].Transform(row[attrs[i].OutputKey])
			}
		}
	}

	SortDataset(rows, opts.Sort)
	log.Debugf("emitting %d rows as %s", len(rows), opts.Output)

	switch opts.Output {
	case "json":
		return writeJSON(w, rows, attrs)
	case "yaml":
		out, err := yaml.Marshal(ordered(rows, attrs))
		if err != nil {
			return fmt.Errorf("failed to marshal yaml: %w", err)
		}
		_, err = w.Write(out)
		return err
	default:
		TableWriter(rows, attrs, opts, w)
		return nil
	}
}

// ordered keeps the --attrs order in yaml output.
func ordered(rows []map[string]interface{}, attrs attrs.AttrList) []yaml.MapSlice {
	out := make([]yaml.MapSlice, 0, len(rows))
	for _, row := range rows {
		var ms yaml.MapSlice
		for _, attr := range attrs {
			if attr.Include {
				ms = append(ms, yaml.MapItem{Key: attr.OutputKey, Value: row[attr.OutputKey]})
			}
		}
		out = append(out, ms)
	}
	return out
}

// writeJSON emits one array with the keys of each object in --attrs order.
func writeJSON(w io.Writer, rows []map[string]interface{}, attrs attrs.AttrList) error {
	var buf bytes.Buffer
	buf.WriteByte('[')
	for i, row := range rows {
		if i > 0 {
			buf.WriteByte(',')
		}
		buf.WriteByte('{')
		first := true
		for _, attr := range attrs {
			if !attr.Include {
				continue
			}
			v, err := json.Marshal(row[attr.OutputKey])
			if err != nil {
				return fmt.Errorf("failed to marshal %s: %w", attr.OutputKey, err)
			}
			if !first {
				buf.WriteByte(',')
			}
			first = false
			buf.WriteString(strconv.Quote(attr.OutputKey))
			buf.WriteByte(':')
			buf.Write(v)
		}
		buf.WriteByte('}')
	}
	buf.WriteString("]\n")

	_, err := w.Write(buf.Bytes())
	return err
}

// TableWriter renders the result set in a tabular form honoring color and
// titles.
func TableWriter(resultSet []map[string]interface{}, attrs attrs.AttrList, opts Options, w io.Writer) {
	if len(resultSet) == 0 {
		return
	}

	var (
		headerStyle  = lipgloss.NewStyle().Align(lipgloss.Left)
		cellStyle    = lipgloss.NewStyle().Padding(0, 0).Align(lipgloss.Left)
		evenRowStyle = cellStyle
		oddRowStyle  = cellStyle
	)

	if opts.Color {
		headerColor, evenColor, oddColor := getColors("colors")

		headerStyle = headerStyle.Foreground(lipgloss.Color(headerColor))
		evenRowStyle = evenRowStyle.Foreground(lipgloss.Color(evenColor))
		oddRowStyle = oddRowStyle.Foreground(lipgloss.Color(oddColor))
	}

	pad, _ := config.GetInt("padding", 1)

	var headers []string
	for _, attr := range attrs {
		if attr.Include {
			headers = append(headers, attr.OutputKey)
		}
	}

	rows := make([][]string, 0, len(resultSet))
	for _, result := range resultSet {
		row := make([]string, 0, len(headers))
		for _, attr := range attrs {
			if attr.Include {
				row = append(row, InterfaceToString(result[attr.OutputKey], "-"))
			}
		}
		rows = append(rows, row)
	}

	t := table.New().
		BorderTop(false).
		BorderBottom(false).
		BorderLeft(false).
		BorderRight(false).
		BorderColumn(false).
		Border(lipgloss.HiddenBorder()).
		StyleFunc(func(row, col int) lipgloss.Style {
			var style lipgloss.Style
			switch {
			case row == table.HeaderRow:
				style = headerStyle
			case row%2 == 0:
				style = evenRowStyle
			default:
				style = oddRowStyle
			}
			if col > 0 {
				style = style.PaddingLeft(pad)
			}
			return style
		}).
		Rows(rows...)

	if opts.Titles {
		// https://github.com/charmbracelet/lipgloss/issues/261
		t = t.Headers(headers...).BorderHeader(false)
	}

	fmt.Fprintln(w, t)
}

// getColors returns configured color values for table rendering.
func getColors(key string) (header string, even string, odd string) {
	header, _ = config.GetString(fmt.Sprintf("%s.title", key), "#f6be00")
	even, _ = config.GetString(fmt.Sprintf("%s.even", key), "#ffffff")
	odd, _ = config.GetString(fmt.Sprintf("%s.odd", key), "#00c8f0")
	return
}

// InterfaceToString converts a decoded JSON value to its display form. nil
// becomes the optional emptyValue.
func InterfaceToString(value interface{}, emptyValue ...string) string {
	if value == nil {
		if len(emptyValue) > 0 {
			return emptyValue[0]
		}
		return ""
	}

	switch value := value.(type) {
	case string:
		return value
	case int:
		return strconv.Itoa(value)
	case float64:
		return strconv.FormatFloat(value, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(value)
	default:
		jsonBytes, err := json.Marshal(value)
		if err != nil {
			return fmt.Sprintf("%v", value)
		}
		return string(jsonBytes)
	}
}
