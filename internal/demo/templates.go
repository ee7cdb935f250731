package demo

import "html/template"

const layout = `{{define "head"}}<!doctype html>
<html><head><meta charset="utf-8"><title>{{.Title}}</title>
<style>body{font-family:sans-serif;display:flex;align-items:flex-start}</style>
</head><body>{{end}}
{{define "nav"}}<nav>
<a href="/dashboard">Dashboard</a> <a href="/history">History</a> <a href="/dailytrend">Daily Trend</a>
<a href="/about">About</a> <a href="https://example.com/">Docs</a> <a href="/logout">Logout</a>
</nav>{{end}}
{{define "charts"}}<script>
window.Chart = window.Chart || {instances: {}};
{{range $i, $c := .Charts}}window.Chart.instances[{{$i}}] = {config: {type: {{$c.Kind}}}, data: {labels: {{$c.Labels}}, datasets: [{label: {{$c.Label}}, data: {{$c.Values}}}]}};
{{end}}</script>{{end}}
{{define "foot"}}</body></html>{{end}}`

const loginPage = `{{template "head" .}}
<div class="login-box"><h1>{{.AppName}}</h1>
{{if .Error}}<p class="error">{{.Error}}</p>{{end}}
<form method="post" action="/">
<input name="username" placeholder="Username">
<input name="password" type="password" placeholder="Password">
<button type="submit">Login</button>
</form></div>
{{template "foot" .}}`

const tablePage = `{{template "head" .}}{{template "nav" .}}
<div id="content-wrapper"><h1>{{.Title}}</h1>
{{if .Updated}}<p>Last updated: {{.Updated}}</p>{{end}}
{{range .Tables}}<table><caption>{{.Caption}}</caption>
<tr>{{range .Header}}<th>{{.}}</th>{{end}}</tr>
{{range .Rows}}<tr>{{range .}}<td>{{.}}</td>{{end}}</tr>{{end}}
</table>{{end}}
<canvas id="barChart"></canvas>
</div>{{template "charts" .}}{{template "foot" .}}`

const aboutPage = `{{template "head" .}}{{template "nav" .}}
<div class="container"><h1>About</h1><p>Rock size monitoring for the crusher line.</p></div>
{{template "foot" .}}`

var templates = parseTemplates()

func parseTemplates() *template.Template {
	t := template.Must(template.New("layout").Parse(layout))
	template.Must(t.New("login").Parse(loginPage))
	template.Must(t.New("table").Parse(tablePage))
	template.Must(t.New("about").Parse(aboutPage))
	return t
}

type pageTable struct {
	Caption string
	Header  []string
	Rows    [][]string
}

type pageChart struct {
	Kind   string
	Label  string
	Labels []string
	Values []int
}

type pageData struct {
	AppName string
	Title   string
	Error   string
	Updated string
	Tables  []pageTable
	Charts  []pageChart
}
