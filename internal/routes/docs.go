package routes

import (
	"bytes"
	_ "embed"
	"fmt"
	"html/template"

	"github.com/gofiber/fiber/v2"
	"github.com/soniarr234/fitlover-back/internal/config"
	"gopkg.in/yaml.v3"
)

//go:embed openapi.yaml
var openAPISpec []byte

const (
	docsPageCSP = "default-src 'none'; style-src 'unsafe-inline'; base-uri 'none'; form-action 'none'; frame-ancestors 'none'"
	docsSpecCSP = "default-src 'none'; frame-ancestors 'none'; base-uri 'none'; form-action 'none'"
)

var docsIndexTemplate = template.Must(template.New("docs-index").Parse(`<!doctype html>
<html lang="en">
<head>
  <meta charset="utf-8">
  <title>fitlover API</title>
  <style>
    body { font-family: system-ui, sans-serif; max-width: 960px; margin: 40px auto; padding: 0 16px; color: #1c2430; }
    code { background: #eef1f5; padding: 2px 6px; border-radius: 4px; }
    li { margin: 4px 0; }
    pre { background: #111827; color: #e5e7eb; padding: 16px; border-radius: 8px; overflow: auto; }
  </style>
</head>
<body>
  <h1>fitlover API</h1>
  <p>{{ len .Paths }} paths. Raw document: <a href="/docs/openapi.yaml">openapi.yaml</a></p>
  <ul>{{ range .Paths }}<li><code>{{ . }}</code></li>{{ end }}</ul>
  <pre>{{ .Spec }}</pre>
</body>
</html>
`))

// documentedPaths lists the keys under "paths" in declaration order.
func documentedPaths(spec []byte) ([]string, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(spec, &doc); err != nil {
		return nil, fmt.Errorf("parse openapi document: %w", err)
	}
	if len(doc.Content) == 0 || doc.Content[0].Kind != yaml.MappingNode {
		return nil, fmt.Errorf("openapi document is not a mapping")
	}

	root := doc.Content[0]
	for i := 0; i+1 < len(root.Content); i += 2 {
		if root.Content[i].Value != "paths" {
			continue
		}
		section := root.Content[i+1]
		paths := make([]string, 0, len(section.Content)/2)
		for j := 0; j+1 < len(section.Content); j += 2 {
			paths = append(paths, section.Content[j].Value)
		}
		return paths, nil
	}
	return nil, fmt.Errorf("openapi document has no paths")
}

func registerDocsRoutes(app fiber.Router, cfg *config.Config) error {
	if !cfg.DocsEnabled() {
		return nil
	}

	paths, err := documentedPaths(openAPISpec)
	if err != nil {
		return err
	}

	var page bytes.Buffer
	err = docsIndexTemplate.Execute(&page, struct {
		Paths []string
		Spec  string
	}{Paths: paths, Spec: string(openAPISpec)})
	if err != nil {
		return fmt.Errorf("render docs page: %w", err)
	}
	rendered := page.Bytes()

	docs := app.Group("/docs", func(c *fiber.Ctx) error {
		c.Set(fiber.HeaderCacheControl, "no-store, max-age=0")
		c.Set(fiber.HeaderXContentTypeOptions, "nosniff")
		c.Set(fiber.HeaderXFrameOptions, "DENY")
		c.Set("Referrer-Policy", "no-referrer")
		c.Set("X-Robots-Tag", "noindex, nofollow")
		return c.Next()
	})

	index := func(c *fiber.Ctx) error {
		c.Set(fiber.HeaderContentType, fiber.MIMETextHTMLCharsetUTF8)
		c.Set("Content-Security-Policy", docsPageCSP)
		return c.Send(rendered)
	}
	docs.Get("", index)
	docs.Get("/", index)
	docs.Get("/openapi.yaml", func(c *fiber.Ctx) error {
		c.Set(fiber.HeaderContentType, "application/yaml; charset=utf-8")
		c.Set("Content-Security-Policy", docsSpecCSP)
		c.Set(fiber.HeaderContentDisposition, `inline; filename="openapi.yaml"`)
		return c.Send(openAPISpec)
	})

	return nil
}
