// Package playground serves a GraphiQL page bound to a gateway endpoint.
package playground

import (
	"bytes"
	"html/template"
	"net/http"
)

// Handler renders the page once and serves it for every request. It
// panics if the page cannot be rendered, which only happens at startup.
func Handler(endpoint string, options ...Option) http.HandlerFunc {
	c := &config{title: "GraphiQL", graphiqlVersion: "3.8.3"}
	for _, opt := range options {
		opt(c)
	}

	var buff bytes.Buffer
	err := page.Execute(&buff, map[string]string{
		"title":    c.title,
		"endpoint": endpoint,
		"version":  c.graphiqlVersion,
	})
	if err != nil {
		panic(err)
	}
	out := buff.Bytes()

	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Write(out)
	}
}

type Option func(*config)

type config struct {
	title           string
	graphiqlVersion string
}

func WithTitle(title string) Option {
	return func(config *config) {
		config.title = title
	}
}

func WithVersion(version string) Option {
	return func(config *config) {
		config.graphiqlVersion = version
	}
}

var page = template.Must(template.New("graphiql").Parse(`<!DOCTYPE html>
<html>
<head>
	<meta charset="utf-8"/>
	<title>{{.title}}</title>
	<link rel="stylesheet" href="https://unpkg.com/graphiql@{{.version}}/graphiql.min.css"/>
	<script crossorigin src="https://unpkg.com/react@18/umd/react.production.min.js"></script>
	<script crossorigin src="https://unpkg.com/react-dom@18/umd/react-dom.production.min.js"></script>
	<script crossorigin src="https://unpkg.com/graphiql@{{.version}}/graphiql.min.js"></script>
</head>
<body style="margin: 0; height: 100vh;">
<div id="graphiql" style="height: 100vh;">Loading...</div>
<script>
	const fetcher = GraphiQL.createFetcher({ url: location.protocol + '//' + location.host + '{{.endpoint}}' });
	ReactDOM.createRoot(document.getElementById('graphiql')).render(React.createElement(GraphiQL, { fetcher: fetcher }));
</script>
</body>
</html>
`))
