// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package post

import (
	"fmt"
	"html/template"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss/v2"

	"github.com/staranto/starctl/internal/config"
)

// Theme holds the header colours. With Color unset the header is plain
// text.
type Theme struct {
	Color    bool
	Title    string
	SubTitle string
	Meta     string
	Tag      string
	// Width of the meta row; published sits left, updated right.
	Width int
}

const defaultWidth = 60

// ThemeFromConfig reads the theme.* keys.
func ThemeFromConfig(color bool) Theme {
	title, _ := config.GetString("theme.title", "#f6be00")
	subTitle, _ := config.GetString("theme.subtitle", "#ffffff")
	meta, _ := config.GetString("theme.meta", "#888888")
	tag, _ := config.GetString("theme.tag", "#00c8f0")
	width, _ := config.GetInt("theme.width", defaultWidth)

	return Theme{
		Color:    color,
		Title:    title,
		SubTitle: subTitle,
		Meta:     meta,
		Tag:      tag,
		Width:    width,
	}
}

type styles struct {
	title, subTitle, meta, tag lipgloss.Style
}

func (t Theme) styles() styles {
	s := styles{
		title:    lipgloss.NewStyle(),
		subTitle: lipgloss.NewStyle(),
		meta:     lipgloss.NewStyle(),
		tag:      lipgloss.NewStyle(),
	}
	if !t.Color {
		return s
	}
	s.title = s.title.Bold(true).Foreground(lipgloss.Color(t.Title))
	s.subTitle = s.subTitle.Foreground(lipgloss.Color(t.SubTitle))
	s.meta = s.meta.Foreground(lipgloss.Color(t.Meta))
	s.tag = s.tag.Foreground(lipgloss.Color(t.Tag))
	return s
}

// Render writes the header for the terminal.
func Render(w io.Writer, h Header, now time.Time, theme Theme) error {
	published, updated, err := labels(h, now)
	if err != nil {
		return err
	}
	st := theme.styles()

	var lines []string
	lines = append(lines, st.title.Render(h.Title))
	if h.SubTitle != "" {
		lines = append(lines, st.subTitle.Render(h.SubTitle))
	}

	if row := metaRow(st.meta, published, updated, theme.Width); row != "" {
		lines = append(lines, "", row)
	}

	if len(h.Tags) > 0 {
		tags := make([]string, 0, len(h.Tags))
		for _, tag := range h.Tags {
			tags = append(tags, st.tag.Render("#"+tag))
		}
		lines = append(lines, strings.Join(tags, " "))
	}

	_, err = fmt.Fprintln(w, lipgloss.JoinVertical(lipgloss.Left, lines...))
	return err
}

// metaRow lays out two columns, each "<label> <ago>" over the human date.
func metaRow(style lipgloss.Style, left, right DateLabel, width int) string {
	column := func(d DateLabel) string {
		if d.IsZero() {
			return ""
		}
		return style.Render(d.String()) + "\n" + style.Render(d.Human)
	}

	l, r := column(left), column(right)
	switch {
	case l == "" && r == "":
		return ""
	case r == "":
		return l
	}

	if width <= 0 {
		width = defaultWidth
	}
	gap := width - lipgloss.Width(l) - lipgloss.Width(r)
	if gap < 2 { //nolint:mnd
		gap = 2
	}

	rightCol := lipgloss.NewStyle().Align(lipgloss.Right).Render(r)
	return lipgloss.JoinHorizontal(lipgloss.Top, l, strings.Repeat(" ", gap), rightCol)
}

func labels(h Header, now time.Time) (published, updated DateLabel, err error) {
	if published, err = NewDateLabel(h.Date, "published", now); err != nil {
		return
	}
	updated, err = NewDateLabel(h.Modified, "updated", now)
	return
}

var headerTemplate = template.Must(template.New("header").Parse(`<header class="post-header">
<h1>{{.Title}}</h1>
{{- with .SubTitle}}
<h2>{{.}}</h2>
{{- end}}
<div class="meta">
{{- range .Dates}}
<h3 class="post-details {{.Class}}"><small>{{.Label}}&#160;{{.Ago}}</small><span class="human-date">{{.Human}}</span></h3>
{{- end}}
</div>
{{- with .Tags}}
<ul class="tags">
{{- range .}}
<li>{{.}}</li>
{{- end}}
</ul>
{{- end}}
</header>
`))

// RenderHTML writes the header as an HTML fragment.
func RenderHTML(w io.Writer, h Header, now time.Time) error {
	published, updated, err := labels(h, now)
	if err != nil {
		return err
	}

	type dated struct {
		DateLabel
		Class string
	}
	var dates []dated
	if !published.IsZero() {
		dates = append(dates, dated{published, "text-left"})
	}
	if !updated.IsZero() {
		dates = append(dates, dated{updated, "text-right"})
	}

	return headerTemplate.Execute(w, map[string]any{
		"Title":    h.Title,
		"SubTitle": h.SubTitle,
		"Dates":    dates,
		"Tags":     h.Tags,
	})
}
