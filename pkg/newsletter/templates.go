package newsletter

import (
	"bytes"
	"fmt"
	"html/template"
)

// ContentKind selects the content-specific email template.
type ContentKind string

const (
	KindBlog    ContentKind = "blog"
	KindProject ContentKind = "project"
	KindGallery ContentKind = "gallery"
)

// Content is the slice of a content entity the dispatch reads: a title, a
// slug or id for the link, a short teaser, and a primary image. Dispatch
// never mutates the entity it describes.
type Content struct {
	Title    string
	Ref      string
	Teaser   string
	ImageURL string
}

// kindMeta drives the per-kind subject line, heading and link path.
var kindMeta = map[ContentKind]struct {
	subject string
	heading string
	path    string
}{
	KindBlog:    {subject: "New blog post: %s", heading: "A new post is up", path: "/blog/"},
	KindProject: {subject: "New project: %s", heading: "A new project just shipped", path: "/projects/"},
	KindGallery: {subject: "New in the gallery: %s", heading: "Something new in the gallery", path: "/gallery/"},
}

var contentTmpl = template.Must(template.New("content").Parse(`<!DOCTYPE html>
<html>
<body style="font-family: sans-serif; color: #222; max-width: 600px; margin: 0 auto;">
  <h2>{{.Heading}}</h2>
  {{if .Name}}<p>Hi {{.Name}},</p>{{end}}
  <h3><a href="{{.Link}}">{{.Title}}</a></h3>
  {{if .ImageURL}}<p><img src="{{.ImageURL}}" alt="{{.Title}}" style="max-width: 100%;"></p>{{end}}
  {{if .Teaser}}<p>{{.Teaser}}</p>{{end}}
  <p><a href="{{.Link}}">Read more &rarr;</a></p>
  <hr>
  <p style="font-size: 12px; color: #888;">
    You receive these updates because you subscribed to the newsletter.
    <a href="{{.UnsubscribeURL}}">Unsubscribe</a>
  </p>
</body>
</html>`))

type contentEmail struct {
	Heading        string
	Name           string
	Title          string
	Teaser         string
	ImageURL       string
	Link           string
	UnsubscribeURL string
}

// renderContent builds the subject and personalized HTML body for one
// recipient.
func renderContent(kind ContentKind, c Content, name, link, unsubscribeURL string) (subject, body string, err error) {
	meta, ok := kindMeta[kind]
	if !ok {
		return "", "", fmt.Errorf("unknown content kind %q", kind)
	}

	var buf bytes.Buffer
	err = contentTmpl.Execute(&buf, contentEmail{
		Heading:        meta.heading,
		Name:           name,
		Title:          c.Title,
		Teaser:         c.Teaser,
		ImageURL:       c.ImageURL,
		Link:           link,
		UnsubscribeURL: unsubscribeURL,
	})
	if err != nil {
		return "", "", fmt.Errorf("render %s email: %w", kind, err)
	}

	return fmt.Sprintf(meta.subject, c.Title), buf.String(), nil
}

// contentLink builds the public URL for a content item.
func contentLink(baseURL string, kind ContentKind, ref string) string {
	return baseURL + kindMeta[kind].path + ref
}

var footerTmpl = template.Must(template.New("footer").Parse(`
<hr>
<p style="font-size: 12px; color: #888;">
  You receive these updates because you subscribed to the newsletter.
  <a href="{{.}}">Unsubscribe</a>
</p>`))

// appendUnsubscribeFooter appends the generated unsubscribe footer to an
// admin-supplied broadcast body.
func appendUnsubscribeFooter(bodyHTML, unsubscribeURL string) (string, error) {
	var buf bytes.Buffer
	buf.WriteString(bodyHTML)
	if err := footerTmpl.Execute(&buf, unsubscribeURL); err != nil {
		return "", fmt.Errorf("render unsubscribe footer: %w", err)
	}
	return buf.String(), nil
}
