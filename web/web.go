// Copyright 2016 The Upspin Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package web provides an http.Handler that serves reports about the
// logs of a project directory. For example, a request for
//
//	http://localhost:8080/
//
// returns the HTML statistics report, and a request for
//
//	http://localhost:8080/logs/Bins/Reel%201.log
//
// returns that log's entries.
package web // import "binhistory.io/web"

import (
	"bytes"
	"html/template"
	"net"
	"net/http"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/NYTimes/gziphandler"
	"golang.org/x/net/netutil"

	"binhistory.io/binlog"
	"binhistory.io/errors"
	"binhistory.io/log"
	"binhistory.io/logfile"
	"binhistory.io/report"
	"binhistory.io/scan"
	"binhistory.io/shutdown"
	"binhistory.io/stats"
)

// MaxConns is the default limit on simultaneous connections.
const MaxConns = 32

const logsPrefix = "/logs/"

// New returns an http.Handler that serves reports on the logs under
// root that are selected by m. Logs are read afresh for each request.
// Responses are gzip-compressed when the client accepts it.
func New(root string, m *scan.Matcher, opts logfile.Options) http.Handler {
	s := &web{
		root:  root,
		m:     m,
		opts:  opts,
		title: filepath.Base(root),
	}
	mux := http.NewServeMux()
	mux.HandleFunc("/", s.serveHTML)
	mux.HandleFunc("/report.txt", s.serveText)
	mux.HandleFunc("/report.csv", s.serveCSV)
	mux.HandleFunc(logsPrefix, s.serveLog)
	return gziphandler.GzipHandler(mux)
}

type web struct {
	root  string
	m     *scan.Matcher
	opts  logfile.Options
	title string
}

func (s *web) read() ([]scan.Result, error) {
	return scan.ReadLogs(s.root, s.m, s.opts)
}

func (s *web) serveHTML(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	results, err := s.read()
	if err != nil {
		httpError(w, err)
		return
	}
	var b bytes.Buffer
	if err := report.HTML(&b, s.title, stats.Gather(results)); err != nil {
		httpError(w, err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(b.Bytes())
}

func (s *web) serveText(w http.ResponseWriter, r *http.Request) {
	results, err := s.read()
	if err != nil {
		httpError(w, err)
		return
	}
	var b bytes.Buffer
	if err := report.Text(&b, stats.Gather(results)); err != nil {
		httpError(w, err)
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Write(b.Bytes())
}

func (s *web) serveCSV(w http.ResponseWriter, r *http.Request) {
	results, err := s.read()
	if err != nil {
		httpError(w, err)
		return
	}
	var b bytes.Buffer
	if err := report.CSV(&b, results); err != nil {
		httpError(w, err)
		return
	}
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="binhistory.csv"`)
	w.Write(b.Bytes())
}

// serveLog serves the index of logs, or the entries of one log.
func (s *web) serveLog(w http.ResponseWriter, r *http.Request) {
	rel := strings.TrimPrefix(r.URL.Path, logsPrefix)
	if rel == "" {
		s.serveIndex(w)
		return
	}
	clean := path.Clean("/" + rel)[1:]
	if clean != rel {
		http.Redirect(w, r, logsPrefix+clean, http.StatusFound)
		return
	}
	for _, elem := range strings.Split(clean, "/") {
		if scan.Hidden(elem) {
			http.NotFound(w, r)
			return
		}
	}
	if !strings.EqualFold(path.Ext(clean), logfile.DefaultExtension) {
		http.NotFound(w, r)
		return
	}
	l, err := logfile.ReadFile(filepath.Join(s.root, filepath.FromSlash(clean)), s.opts)
	if err != nil {
		httpError(w, err)
		return
	}
	var d logTemplateData
	d.Title = s.title
	d.Name = clean
	d.Entries = l.Entries()
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := logTemplate.Execute(w, d); err != nil {
		log.Error.Printf("web: rendering log template: %v", err)
	}
}

func (s *web) serveIndex(w http.ResponseWriter) {
	paths, err := scan.Logs(s.root, s.m)
	if err != nil {
		httpError(w, err)
		return
	}
	var d indexTemplateData
	d.Title = s.title
	for _, p := range paths {
		rel, err := filepath.Rel(s.root, p)
		if err != nil {
			continue
		}
		d.Logs = append(d.Logs, filepath.ToSlash(rel))
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := indexTemplate.Execute(w, d); err != nil {
		log.Error.Printf("web: rendering index template: %v", err)
	}
}

// ifError checks if the error is the expected one, and if so writes back an
// HTTP error of the corresponding code.
func ifError(w http.ResponseWriter, got error, want errors.Kind, code int) bool {
	if !errors.Is(want, got) {
		return false
	}
	http.Error(w, http.StatusText(code), code)
	return true
}

func httpError(w http.ResponseWriter, err error) {
	log.Debug.Printf("web: %v", err)
	// This construction sets the HTTP error to the first type that matches.
	switch {
	case ifError(w, err, errors.NotExist, http.StatusNotFound):
	case ifError(w, err, errors.Invalid, http.StatusBadRequest):
	case errors.Is(errors.Parse, err),
		errors.Is(errors.FieldLength, err),
		errors.Is(errors.FieldContent, err):
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
	default:
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
	}
}

type indexTemplateData struct {
	Title string
	Logs  []string
}

type logTemplateData struct {
	Title   string
	Name    string
	Entries []binlog.Entry
}

var templateFuncs = template.FuncMap{
	"when": func(t time.Time) string {
		return t.Format(report.StatsTime)
	},
}

var indexTemplate = template.Must(template.New("index").Parse(`
<h1>Logs of {{.Title}}</h1>
<p><a href="/">Report</a></p>
<ul>
{{range .Logs}}
	<li><a href="/logs/{{.}}">{{.}}</a></li>
{{end}}
</ul>
`))

var logTemplate = template.Must(template.New("log").Funcs(templateFuncs).Parse(`
<h1>{{.Name}}</h1>
<p><a href="/logs/">Logs of {{.Title}}</a></p>
<table>
<tr><th>Time</th><th>Computer</th><th>User</th></tr>
{{range .Entries}}
	<tr><td>{{when .Timestamp}}</td><td>{{.Computer}}</td><td>{{.User}}</td></tr>
{{end}}
</table>
`))

// ListenAndServe serves h on addr, accepting at most maxConns connections
// at once; if maxConns is not positive, MaxConns is used. The server is
// closed when the process shuts down. It returns when the server stops.
func ListenAndServe(addr string, h http.Handler, maxConns int) error {
	const op errors.Op = "web.ListenAndServe"
	if maxConns <= 0 {
		maxConns = MaxConns
	}
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return errors.E(op, errors.IO, err)
	}
	return Serve(netutil.LimitListener(ln, maxConns), h)
}

// Serve serves h on ln until the process shuts down.
func Serve(ln net.Listener, h http.Handler) error {
	const op errors.Op = "web.Serve"
	srv := &http.Server{
		Handler:      h,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: time.Minute,
	}
	shutdown.Handle(func() {
		log.Debug.Printf("web: closing %s", ln.Addr())
		srv.Close()
	})
	log.Info.Printf("web: serving on http://%s/", ln.Addr())
	err := srv.Serve(ln)
	if err == http.ErrServerClosed {
		return nil
	}
	return errors.E(op, errors.IO, err)
}
