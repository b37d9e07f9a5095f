package notify

import (
	"embed"
	"fmt"
	htmltemplate "html/template"
	"strings"
	texttemplate "text/template"
	"time"
)

//go:embed templates/*.tmpl
var templatesFS embed.FS

var templateFuncs = map[string]any{
	"formatDate": func(t time.Time) string {
		return t.Format("Jan 2, 2006")
	},
	"formatDatePtr": func(t *time.Time) string {
		if t == nil {
			return ""
		}
		return t.Format("Jan 2, 2006")
	},
}

var (
	htmlTemplates = htmltemplate.Must(
		htmltemplate.New("").Funcs(templateFuncs).ParseFS(templatesFS, "templates/*.html.tmpl"),
	)
	textTemplates = texttemplate.Must(
		texttemplate.New("").Funcs(templateFuncs).ParseFS(templatesFS, "templates/*.text.tmpl"),
	)
)

func render(name string, data any) (html, text string, err error) {
	var htmlBuf, textBuf strings.Builder
	if err := htmlTemplates.ExecuteTemplate(&htmlBuf, name+".html.tmpl", data); err != nil {
		return "", "", fmt.Errorf("render %s html: %w", name, err)
	}
	if err := textTemplates.ExecuteTemplate(&textBuf, name+".text.tmpl", data); err != nil {
		return "", "", fmt.Errorf("render %s text: %w", name, err)
	}
	return htmlBuf.String(), textBuf.String(), nil
}

// RenderAssignment renders the subject and bodies for an assignment email.
func RenderAssignment(data AssignmentEmail) (subject, html, text string, err error) {
	subject = "You were assigned: " + data.TaskTitle
	if data.JobReference != "" {
		subject += " (" + data.JobReference + ")"
	}
	html, text, err = render("assignment", data)
	return subject, html, text, err
}

// RenderCompletion renders the subject and bodies for a completion email.
func RenderCompletion(data CompletionEmail) (subject, html, text string, err error) {
	subject = "Task completed: " + data.TaskTitle
	if data.JobReference != "" {
		subject += " (" + data.JobReference + ")"
	}
	html, text, err = render("completion", data)
	return subject, html, text, err
}

// RenderMention renders the subject and bodies for a mention email.
func RenderMention(data MentionEmail) (subject, html, text string, err error) {
	subject = data.ActorName + " mentioned you"
	if data.TaskTitle != "" {
		subject += " on " + data.TaskTitle
	} else if data.JobReference != "" {
		subject += " on " + data.JobReference
	}
	html, text, err = render("mention", data)
	return subject, html, text, err
}
