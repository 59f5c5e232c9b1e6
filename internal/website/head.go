package website

import (
	"fmt"
	"html"
	"strings"
)

// RenderHead generates the <head> section with SEO, Open Graph and JSON-LD.
func RenderHead(cfg PageConfig, customCSS string) string {
	var sb strings.Builder

	themeColor := cfg.ThemeColor
	if themeColor == "" {
		themeColor = Colors["primary"]
	}

	sb.WriteString("<head>\n")

	sb.WriteString(`<meta charset="UTF-8">` + "\n")
	sb.WriteString(`<meta name="viewport" content="width=device-width, initial-scale=1.0">` + "\n")
	sb.WriteString(fmt.Sprintf("<title>%s</title>\n", html.EscapeString(cfg.Title)))

	if cfg.Description != "" {
		sb.WriteString(fmt.Sprintf(`<meta name="description" content="%s">`+"\n", html.EscapeString(cfg.Description)))
	}
	if len(cfg.Keywords) > 0 {
		sb.WriteString(fmt.Sprintf(`<meta name="keywords" content="%s">`+"\n", html.EscapeString(strings.Join(cfg.Keywords, ", "))))
	}
	if cfg.URL != "" {
		sb.WriteString(fmt.Sprintf(`<link rel="canonical" href="%s">`+"\n", html.EscapeString(cfg.URL)))
	}
	sb.WriteString(fmt.Sprintf(`<meta name="theme-color" content="%s">`+"\n", html.EscapeString(themeColor)))

	sb.WriteString(renderOpenGraph(cfg))
	sb.WriteString(renderJSONLD(cfg))

	sb.WriteString(`<link rel="icon" href="data:image/svg+xml,<svg xmlns='http://www.w3.org/2000/svg' viewBox='0 0 100 100'><text y='.9em' font-size='90'>⬡</text></svg>">` + "\n")

	sb.WriteString("<style>\n")
	sb.WriteString(RenderStyles())
	if customCSS != "" {
		sb.WriteString("\n")
		sb.WriteString(customCSS)
	}
	sb.WriteString("\n</style>\n")

	sb.WriteString("</head>\n")

	return sb.String()
}

func renderOpenGraph(cfg PageConfig) string {
	var sb strings.Builder

	sb.WriteString(`<meta property="og:type" content="website">` + "\n")
	sb.WriteString(`<meta property="og:site_name" content="HEXAGON LABS">` + "\n")

	if cfg.Title != "" {
		sb.WriteString(fmt.Sprintf(`<meta property="og:title" content="%s">`+"\n", html.EscapeString(cfg.Title)))
	}
	if cfg.Description != "" {
		sb.WriteString(fmt.Sprintf(`<meta property="og:description" content="%s">`+"\n", html.EscapeString(cfg.Description)))
	}
	if cfg.URL != "" {
		sb.WriteString(fmt.Sprintf(`<meta property="og:url" content="%s">`+"\n", html.EscapeString(cfg.URL)))
	}
	if cfg.OGImage != "" {
		sb.WriteString(fmt.Sprintf(`<meta property="og:image" content="%s">`+"\n", html.EscapeString(cfg.OGImage)))
	}
	sb.WriteString(fmt.Sprintf(`<meta property="og:locale" content="%s">`+"\n", html.EscapeString(language(cfg))))

	return sb.String()
}

// The %q verbs produce JSON-compatible strings for the ASCII and UTF-8 text
// the catalogs carry. "</" is split so a title cannot close the script.
func renderJSONLD(cfg PageConfig) string {
	jsonLD := fmt.Sprintf(`{"@context":"https://schema.org","@type":"Organization","name":"HEXAGON LABS","description":%q,"url":%q}`,
		cfg.Description, cfg.URL)
	jsonLD = strings.ReplaceAll(jsonLD, "</", `<\/`)

	return fmt.Sprintf(`<script type="application/ld+json"%s>%s</script>`+"\n", nonceAttr(cfg.Nonce), jsonLD)
}

func nonceAttr(nonce string) string {
	if nonce == "" {
		return ""
	}
	return fmt.Sprintf(` nonce="%s"`, html.EscapeString(nonce))
}

func language(cfg PageConfig) string {
	if cfg.Language == "" {
		return "en"
	}
	return cfg.Language
}

// RenderDocument wraps content in a complete HTML document. Live pages get
// the client script after the body content.
func RenderDocument(cfg PageConfig, customCSS, bodyContent string) string {
	script := ""
	if cfg.Live {
		script = fmt.Sprintf(`<script src="%s"%s defer></script>`+"\n", ClientScript, nonceAttr(cfg.Nonce))
	}

	return fmt.Sprintf(`<!DOCTYPE html>
<html lang="%s">
%s<body>
%s
%s</body>
</html>`, html.EscapeString(language(cfg)), RenderHead(cfg, customCSS), bodyContent, script)
}
