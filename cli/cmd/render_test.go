package cmd

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ardnew/platelet/render"
)

func TestRender_Run(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{
		"site/index.html": "<main><slot pl-src='parts/card.html' ^title='title' ^tags='tags'></slot></main>",
		"site/parts/card.html": "<h2>{{title}}</h2>" +
			"<ul><li pl-for='x in tags'>{{x}}</li></ul>",
		"site/broken.html": "<p pl-if='title +'></p>",
		"site/hello.html":  "<p>{{name}}</p>",
		"data.json":        `{"title":"Hello"}`,
		"more.yaml":        "tags: [a, b]\n",
		"outside.html":     "<p></p>",
	})

	site := filepath.Join(dir, "site")
	ctx := []string{filepath.Join(dir, "data.json"), filepath.Join(dir, "more.yaml")}

	t.Run("stdout", func(t *testing.T) {
		t.Parallel()

		var out bytes.Buffer

		r := &Render{
			Data:     Data{Context: ctx},
			Template: filepath.Join(site, "index.html"),
			MaxDepth: render.DefaultMaxDepth,
			Output:   "-",
			Stdout:   &out,
		}

		if err := r.Run(t.Context()); err != nil {
			t.Fatalf("Run() error = %v", err)
		}

		want := "<main><h2>Hello</h2><ul><li>a</li><li>b</li></ul></main>\n"
		if out.String() != want {
			t.Errorf("Run() output = %q, want %q", out.String(), want)
		}
	})

	t.Run("output_file_and_root", func(t *testing.T) {
		t.Parallel()

		outPath := filepath.Join(t.TempDir(), "out.html")

		r := &Render{
			Data:     Data{Context: ctx},
			Template: filepath.Join(site, "parts", "card.html"),
			Root:     site,
			MaxDepth: render.DefaultMaxDepth,
			Output:   outPath,
		}

		if err := r.Run(t.Context()); err != nil {
			t.Fatalf("Run() error = %v", err)
		}

		got, err := os.ReadFile(outPath)
		if err != nil {
			t.Fatal(err)
		}

		if want := "<h2>Hello</h2><ul><li>a</li><li>b</li></ul>\n"; string(got) != want {
			t.Errorf("output file = %q, want %q", got, want)
		}
	})

	t.Run("context_from_stdin", func(t *testing.T) {
		t.Parallel()

		var out bytes.Buffer

		r := &Render{
			Data:     Data{Stdin: strings.NewReader(`{"name":"Yuri"}`)},
			Template: filepath.Join(site, "hello.html"),
			MaxDepth: render.DefaultMaxDepth,
			Stdout:   &out,
		}

		if err := r.Run(t.Context()); err != nil {
			t.Fatalf("Run() error = %v", err)
		}

		if want := "<p>Yuri</p>\n"; out.String() != want {
			t.Errorf("Run() output = %q, want %q", out.String(), want)
		}
	})

	t.Run("template_outside_root", func(t *testing.T) {
		t.Parallel()

		r := &Render{
			Data:     Data{Stdin: strings.NewReader("")},
			Template: filepath.Join(dir, "outside.html"),
			Root:     site,
			MaxDepth: render.DefaultMaxDepth,
			Stdout:   &bytes.Buffer{},
		}

		if err := r.Run(t.Context()); !errors.Is(err, ErrTemplatePath) {
			t.Errorf("Run() error = %v, want ErrTemplatePath", err)
		}
	})

	t.Run("render_error", func(t *testing.T) {
		t.Parallel()

		var errOut bytes.Buffer

		r := &Render{
			Data:     Data{Stdin: strings.NewReader("")},
			Template: filepath.Join(site, "broken.html"),
			MaxDepth: render.DefaultMaxDepth,
			Stdout:   &bytes.Buffer{},
			Stderr:   &errOut,
		}

		err := r.Run(t.Context())
		if !errors.Is(err, ErrRender) {
			t.Fatalf("Run() error = %v, want ErrRender", err)
		}

		var re *render.Error
		if !errors.As(err, &re) {
			t.Errorf("Run() error = %v, want wrapped *render.Error", err)
		}

		want := "PARSER ERROR: parse error at line 1, column 8: " +
			"unexpected end of input, expected expression\nin broken.html\n"
		if errOut.String() != want {
			t.Errorf("stderr = %q, want %q", errOut.String(), want)
		}
	})
}

func TestRender_Locate(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	r := &Render{Template: filepath.Join(dir, "a", "b.html")}

	root, name, err := r.locate()
	if err != nil {
		t.Fatal(err)
	}

	if root != filepath.Join(dir, "a") || name != "b.html" {
		t.Errorf("locate() = (%q, %q)", root, name)
	}

	r.Root = dir

	_, name, err = r.locate()
	if err != nil {
		t.Fatal(err)
	}

	if name != "a/b.html" {
		t.Errorf("locate() name = %q, want %q", name, "a/b.html")
	}
}
