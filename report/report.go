// Copyright 2017 The Upspin Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package report renders project statistics and log listings for people
// (plain text and HTML) and for spreadsheets (CSV).
package report // import "binhistory.io/report"

import (
	"bytes"
	"fmt"
	"html/template"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/gocarina/gocsv"
	"github.com/russross/blackfriday"

	"binhistory.io/binlog"
	"binhistory.io/errors"
	"binhistory.io/scan"
	"binhistory.io/stats"
)

// Layouts of times in reports.
const (
	StatsTime = "2006 01 02 @ 15:04:05"
	CSVTime   = "2006-01-02 15:04:05"
)

// Text writes s to w as plain text.
func Text(w io.Writer, s *stats.Stats) error {
	const op errors.Op = "report.Text"
	b := new(bytes.Buffer)
	fmt.Fprintf(b, "%d log(s) valid; %d log(s) invalid\n", s.Good, s.Bad)
	if s.Entries > 0 {
		writeCounts(b, "user profile(s)", s.Users())
		writeCounts(b, "system(s)", s.Computers())
		writeExtreme(b, "Earliest", s.Earliest)
		writeExtreme(b, "Latest", s.Latest)
		fmt.Fprintln(b)
		writeName(b, "Shortest name", s.ShortestUser)
		writeName(b, "Longest name", s.LongestUser)
		writeName(b, "Shortest computer", s.ShortestComputer)
		writeName(b, "Longest computer", s.LongestComputer)
	}
	if len(s.Failures) > 0 {
		fmt.Fprintf(b, "\n%d unreadable log(s):\n", len(s.Failures))
		for _, f := range s.Failures {
			fmt.Fprintf(b, "  %s\n", f.Path)
		}
	}
	if _, err := w.Write(b.Bytes()); err != nil {
		return errors.E(op, errors.IO, err)
	}
	return nil
}

func writeCounts(b *bytes.Buffer, what string, counts []stats.Count) {
	fmt.Fprintf(b, "\n%d %s:\n", len(counts), what)
	for _, c := range counts {
		fmt.Fprintf(b, "%*s  (%d %s)\n", binlog.MaxFieldLength, c.Name, c.Entries, plural(c.Entries, "entry", "entries"))
	}
}

func writeExtreme(b *bytes.Buffer, what string, x *stats.Extreme) {
	if x == nil {
		return
	}
	fmt.Fprintln(b)
	fmt.Fprintf(b, "%17s:  %s\n", what+" log", x.Entry.Timestamp().Format(StatsTime))
	fmt.Fprintf(b, "%17s:  %s\n", "From file", x.Path)
	fmt.Fprintf(b, "%17s:  %s\n", "From entry", strings.TrimRight(binlog.Format(x.Entry), " "))
}

func writeName(b *bytes.Buffer, what, name string) {
	n := utf8.RuneCountInString(name)
	fmt.Fprintf(b, "%17s:  %s (%d %s)\n", what, name, n, plural(n, "char", "chars"))
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}

// Markdown returns s as a Markdown document with the given title.
func Markdown(title string, s *stats.Stats) []byte {
	b := new(bytes.Buffer)
	fmt.Fprintf(b, "# %s\n\n", escape(title))
	fmt.Fprintf(b, "%d log(s) valid; %d log(s) invalid.\n\n", s.Good, s.Bad)
	if s.Entries > 0 {
		markdownCounts(b, "Users", "User", s.Users())
		markdownCounts(b, "Computers", "Computer", s.Computers())

		fmt.Fprintf(b, "## Extremes\n\n")
		fmt.Fprintf(b, "| | Time | Computer | User | Log |\n|---|---|---|---|---|\n")
		for _, x := range []struct {
			what string
			x    *stats.Extreme
		}{{"Earliest", s.Earliest}, {"Latest", s.Latest}} {
			if x.x == nil {
				continue
			}
			e := x.x.Entry
			fmt.Fprintf(b, "| %s | %s | %s | %s | %s |\n", x.what, e.Timestamp().Format(StatsTime),
				escape(e.Computer()), escape(e.User()), escape(x.x.Path))
		}
		fmt.Fprintln(b)

		fmt.Fprintf(b, "## Names\n\n")
		fmt.Fprintf(b, "- Shortest user: %s\n", escape(s.ShortestUser))
		fmt.Fprintf(b, "- Longest user: %s\n", escape(s.LongestUser))
		fmt.Fprintf(b, "- Shortest computer: %s\n", escape(s.ShortestComputer))
		fmt.Fprintf(b, "- Longest computer: %s\n\n", escape(s.LongestComputer))
	}
	if len(s.Failures) > 0 {
		fmt.Fprintf(b, "## Unreadable logs\n\n")
		for _, f := range s.Failures {
			fmt.Fprintf(b, "- %s\n", escape(f.Path))
		}
		fmt.Fprintln(b)
	}
	return b.Bytes()
}

func markdownCounts(b *bytes.Buffer, heading, column string, counts []stats.Count) {
	fmt.Fprintf(b, "## %s\n\n", heading)
	fmt.Fprintf(b, "| %s | Entries |\n|---|---:|\n", column)
	for _, c := range counts {
		fmt.Fprintf(b, "| %s | %d |\n", escape(c.Name), c.Entries)
	}
	fmt.Fprintln(b)
}

// escape backslash-escapes Markdown punctuation in s.
func escape(s string) string {
	var b strings.Builder
	for _, r := range s {
		if strings.ContainsRune("\\`*_{}[]()#+-.!|<>&", r) {
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	return b.String()
}

var page = template.Must(template.New("page").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>{{.Title}} · binhistory</title>
<style>
body { font-family: sans-serif; margin: 2em; }
table { border-collapse: collapse; }
td, th { border: 1px solid #ccc; padding: 0.2em 0.6em; }
</style>
</head>
<body>
{{.Content}}
</body>
</html>
`))

type pageData struct {
	Title   string
	Content template.HTML
}

// HTML writes s to w as an HTML page with the given title.
func HTML(w io.Writer, title string, s *stats.Stats) error {
	const op errors.Op = "report.HTML"
	body := blackfriday.MarkdownCommon(Markdown(title, s))
	err := page.Execute(w, pageData{
		Title:   title,
		Content: template.HTML(body),
	})
	if err != nil {
		return errors.E(op, errors.IO, err)
	}
	return nil
}

// Row is one exported log entry.
type Row struct {
	Path      string `csv:"path"`
	Timestamp string `csv:"timestamp"`
	Computer  string `csv:"computer"`
	User      string `csv:"user"`
}

// Rows returns a Row for each entry of each readable log in results.
func Rows(results []scan.Result) []*Row {
	var rows []*Row
	for _, r := range results {
		if r.Err != nil {
			continue
		}
		for _, e := range r.Log.Entries() {
			rows = append(rows, &Row{
				Path:      r.Path,
				Timestamp: e.Timestamp().Format(CSVTime),
				Computer:  e.Computer(),
				User:      e.User(),
			})
		}
	}
	return rows
}

// CSV writes every entry of the readable logs in results to w as CSV
// with a header line.
func CSV(w io.Writer, results []scan.Result) error {
	const op errors.Op = "report.CSV"
	rows := Rows(results)
	if rows == nil {
		rows = []*Row{}
	}
	if err := gocsv.Marshal(rows, w); err != nil {
		return errors.E(op, errors.IO, err)
	}
	return nil
}

// Find writes, for each bin in results with a non-empty log, the
// computer that last modified it and when. Unreadable logs are skipped.
func Find(w io.Writer, results []scan.Result) error {
	const op errors.Op = "report.Find"
	b := new(bytes.Buffer)
	for _, r := range results {
		if r.Err != nil {
			continue
		}
		last, ok := r.Log.Latest()
		if !ok {
			continue
		}
		name := r.Bin
		if name == "" {
			name = r.Path
		}
		fmt.Fprintf(b, "%s: last modified by %s on %s at %s\n", name, last.User(), last.Computer(),
			last.Timestamp().Format(CSVTime))
	}
	if _, err := w.Write(b.Bytes()); err != nil {
		return errors.E(op, errors.IO, err)
	}
	return nil
}
