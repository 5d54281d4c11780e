package httpx

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"testing/fstest"

	domainauth "github.com/BemwaMalak/mini-full-stack/internal/domain/auth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testTemplateFS() fstest.MapFS {
	fsys := fstest.MapFS{
		"layout.html": {Data: []byte(`<html><title>{{.Title}}</title>{{template "content" .}}</html>`)},
	}
	for _, p := range pages {
		fsys["pages/"+p+".html"] = &fstest.MapFile{Data: []byte(`{{define "content"}}<p>` + p + `</p>{{end}}`)}
	}
	return fsys
}

func TestNewTemplateRenderer_RequiresFS(t *testing.T) {
	_, err := NewTemplateRenderer(TemplateRendererConfig{})
	assert.Error(t, err)
}

func TestNewTemplateRenderer_MissingPage(t *testing.T) {
	fsys := testTemplateFS()
	delete(fsys, "pages/"+PageHome+".html")

	_, err := NewTemplateRenderer(TemplateRendererConfig{TemplateFS: fsys})
	require.Error(t, err)
	assert.Contains(t, err.Error(), PageHome)
}

func TestTemplateRenderer_FullAndPartial(t *testing.T) {
	tr, err := NewTemplateRenderer(TemplateRendererConfig{TemplateFS: testTemplateFS()})
	require.NoError(t, err)
	data := PageData{Title: "Home", Page: PageHome, Session: domainauth.Anonymous(nil)}

	rec := httptest.NewRecorder()
	tr.Render(rec, httptest.NewRequest(http.MethodGet, "/home", nil), RenderRequest{Page: PageHome, Data: data})
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/html; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.Equal(t, "<html><title>Home</title><p>home</p></html>", rec.Body.String())

	req := httptest.NewRequest(http.MethodGet, "/home", nil)
	req.Header.Set("Hx-Request", "true")
	rec = httptest.NewRecorder()
	tr.Render(rec, req, RenderRequest{Page: PageHome, Status: http.StatusUnauthorized, Data: data})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "<p>home</p>", rec.Body.String())
}

func TestTemplateRenderer_UnknownPage(t *testing.T) {
	tr, err := NewTemplateRenderer(TemplateRendererConfig{TemplateFS: testTemplateFS()})
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	tr.Render(rec, httptest.NewRequest(http.MethodGet, "/", nil), RenderRequest{Page: "nope"})
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestEmbeddedTemplatesParse(t *testing.T) {
	_, err := NewTemplateRenderer(TemplateRendererConfig{TemplateFS: templateFS(false)})
	require.NoError(t, err)
}
