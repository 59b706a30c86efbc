// Package site renders the public single page: the marketing sections from
// a YAML content file and the current project list.
package site

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"os"

	"gopkg.in/yaml.v3"
	"portfolio-backend/internal/models"
)

//go:embed content.yaml templates/*.html
var assets embed.FS

type Section struct {
	ID   string
	Name string
}

// Sections in page order.
var Sections = []Section{
	{ID: "home", Name: "Home"},
	{ID: "showreel", Name: "Showreel"},
	{ID: "projects", Name: "Projects"},
	{ID: "about", Name: "About"},
	{ID: "contact", Name: "Contact"},
}

type Link struct {
	Label string `yaml:"label"`
	Href  string `yaml:"href"`
}

type Content struct {
	Name    string `yaml:"name"`
	Tagline string `yaml:"tagline"`
	Hero    struct {
		Video  string `yaml:"video"`
		Poster string `yaml:"poster"`
	} `yaml:"hero"`
	Showreel struct {
		Intro    string `yaml:"intro"`
		EmbedURL string `yaml:"embed_url"`
	} `yaml:"showreel"`
	About struct {
		Heading    string   `yaml:"heading"`
		Portrait   string   `yaml:"portrait"`
		Paragraphs []string `yaml:"paragraphs"`
	} `yaml:"about"`
	Contact struct {
		Heading string `yaml:"heading"`
		Intro   string `yaml:"intro"`
		Links   []Link `yaml:"links"`
	} `yaml:"contact"`
}

// LoadContent reads the content file at path, or the embedded default when
// path is empty.
func LoadContent(path string) (*Content, error) {
	var (
		data []byte
		err  error
	)
	if path == "" {
		data, err = assets.ReadFile("content.yaml")
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read site content: %w", err)
	}

	var c Content
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("failed to parse site content: %w", err)
	}
	if c.Name == "" {
		return nil, fmt.Errorf("site content: name is required")
	}
	return &c, nil
}

type Page struct {
	Content       *Content
	Sections      []Section
	Projects      []models.Project
	ProjectsError string
	Year          int
}

type Renderer struct {
	tmpl    *template.Template
	content *Content
}

func NewRenderer(content *Content) (*Renderer, error) {
	tmpl, err := template.ParseFS(assets, "templates/index.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse site template: %w", err)
	}
	return &Renderer{tmpl: tmpl, content: content}, nil
}

func (r *Renderer) Render(w io.Writer, page Page) error {
	page.Content = r.content
	page.Sections = Sections
	return r.tmpl.ExecuteTemplate(w, "index.html", page)
}
