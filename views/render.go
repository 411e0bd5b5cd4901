/*
# Module: views/render.go
Embedded HTML templates for the site pages and the charity modal fragment.

## Linked Modules
- [views/modal](./modal.go) - Modal view model
- [views/pages](./pages.go) - Page view models

## Tags
presentation, templates, html

## Exports
Renderer, NewRenderer

<!-- LinkedDoc RDF -->
@prefix code: <https://schema.codedoc.org/> .
<this> a code:Module ;
    code:name "views/render.go" ;
    code:description "Embedded HTML templates for the site pages and the charity modal fragment" ;
    code:linksTo [
        code:name "views/modal" ;
        code:path "./modal.go" ;
        code:relationship "Modal view model"
    ], [
        code:name "views/pages" ;
        code:path "./pages.go" ;
        code:relationship "Page view models"
    ] ;
    code:exports :Renderer, :NewRenderer ;
    code:tags "presentation", "templates", "html" .
<!-- End LinkedDoc RDF -->
*/
package views

import (
	"bytes"
	"embed"
	"html/template"
	"io"

	"github.com/pkg/errors"
)

//go:embed templates/*.html
var templateFS embed.FS

var sharedTemplates = []string{"templates/layout.html", "templates/modal.html"}

// Renderer executes the embedded templates. Each page is parsed into its own
// set so every page can define "content".
type Renderer struct {
	pages map[string]*template.Template
	modal *template.Template
}

func NewRenderer() (*Renderer, error) {
	modal, err := template.ParseFS(templateFS, "templates/modal.html")
	if err != nil {
		return nil, errors.Wrap(err, "failed to parse modal template")
	}

	r := &Renderer{pages: make(map[string]*template.Template), modal: modal}
	for _, name := range []string{PageHome, PageRecipes, PageDetail, PageError} {
		files := append(append([]string{}, sharedTemplates...), "templates/"+name+".html")
		t, err := template.ParseFS(templateFS, files...)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to parse %s template", name)
		}
		r.pages[name] = t
	}
	return r, nil
}

// RenderPage writes a full page
func (r *Renderer) RenderPage(w io.Writer, name string, page Page) error {
	t, ok := r.pages[name]
	if !ok {
		return errors.Errorf("unknown page %q", name)
	}
	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, "layout", page); err != nil {
		return errors.Wrapf(err, "failed to render %s", name)
	}
	_, err := buf.WriteTo(w)
	return err
}

// RenderModal returns the inner HTML of the modal for in-place replacement
func (r *Renderer) RenderModal(view ModalView) (string, error) {
	var buf bytes.Buffer
	if err := r.modal.ExecuteTemplate(&buf, "modal-content", view); err != nil {
		return "", errors.Wrap(err, "failed to render modal")
	}
	return buf.String(), nil
}
