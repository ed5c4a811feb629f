package admin

import "html/template"

var pageTemplates = template.Must(template.New("admin").Parse(`
{{define "credentials"}}<!DOCTYPE html>
<html lang="{{.Lang}}">
<head><meta charset="utf-8"><title>{{.Title}}</title></head>
<body>
<h1>{{.Title}}</h1>
{{if .Error}}<p class="error">{{.Error}}</p>{{end}}
<p>{{.Prompt}}</p>
<form method="post" action="{{.Action}}">
<label for="password">{{.PasswordLabel}}</label>
<input type="password" id="password" name="password" autocomplete="current-password" autofocus>
<button type="submit">{{.Submit}}</button>
</form>
</body>
</html>
{{end}}
{{define "editor"}}<!DOCTYPE html>
<html lang="{{.Lang}}">
<head><meta charset="utf-8"><title>{{.File}}</title></head>
<body>
<h1>{{.File}}</h1>
{{.Source}}
<script>
new WebSocket((location.protocol === "https:" ? "wss://" : "ws://") + location.host + "/admin/events")
  .onmessage = function () { location.reload(); };
</script>
</body>
</html>
{{end}}
{{define "error"}}<!DOCTYPE html>
<html>
<head><meta charset="utf-8"><title>Error</title></head>
<body><p>{{.}}</p></body>
</html>
{{end}}
`))

type credentialsPage struct {
	Lang          string
	Title         string
	Prompt        string
	PasswordLabel string
	Submit        string
	Action        string
	Error         string
}

type editorPage struct {
	Lang   string
	File   string
	Source template.HTML
}
