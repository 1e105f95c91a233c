package mailer

import (
	"bytes"
	"fmt"
	"html/template"
)

var welcomeTmpl = template.Must(template.New(TemplateWelcome).Parse(`
<html><body>
<h2>Welcome to {{.AppName}}, {{.Username}}!</h2>
<p>Your account is ready. Sign in and publish your first post.</p>
</body></html>`))

var newCommentTmpl = template.Must(template.New(TemplateNewComment).Parse(`
<html><body>
<p><strong>{{.CommenterName}}</strong> commented on your post <em>{{.PostTitle}}</em>:</p>
<blockquote>{{.Content}}</blockquote>
</body></html>`))

// Render produces subject and HTML body for a named template.
func Render(name string, data map[string]any) (subject, html string, err error) {
	var tmpl *template.Template
	switch name {
	case TemplateWelcome:
		tmpl = welcomeTmpl
		subject = fmt.Sprintf("Welcome to %v", data["AppName"])
	case TemplateNewComment:
		tmpl = newCommentTmpl
		subject = fmt.Sprintf("New comment on %v", data["PostTitle"])
	default:
		return "", "", fmt.Errorf("unknown template %q", name)
	}
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", "", err
	}
	return subject, buf.String(), nil
}
