// Package website renders the HEXAGON LABS document shell: head metadata,
// the inline stylesheet and the live client script tag. Pages and their
// building blocks live in the components and pages subpackages.
package website

// ClientScript is the path of the embedded live client.
const ClientScript = "/_live/hexagon.js"

// PageConfig defines the document metadata of one page.
type PageConfig struct {
	// Title is the page title (shown in browser tab and search results)
	Title string
	// Description is the meta description for SEO
	Description string
	// URL is the canonical URL of the page
	URL string
	// Keywords are SEO keywords for the page
	Keywords []string
	// OGImage is the Open Graph image URL (for social sharing)
	OGImage string
	// Language is the page language (default: "en")
	Language string
	// ThemeColor is the mobile browser theme color
	ThemeColor string

	// Live adds the client script that connects the page to its server
	// component.
	Live bool
	// Nonce is the CSP nonce put on the script tag.
	Nonce string
}

// NavLink represents a navigation link.
type NavLink struct {
	Label string
	URL   string
}

// Feature is a titled card with an icon.
type Feature struct {
	Icon        string
	Title       string
	Description string
}

// Stat is a headline figure with its caption.
type Stat struct {
	Value string
	Label string
}

// Step is one numbered how-it-works entry.
type Step struct {
	Number      int
	Title       string
	Description string
}

// DefaultPageConfig returns a PageConfig with the brand defaults.
func DefaultPageConfig() PageConfig {
	return PageConfig{
		Language:   "en",
		ThemeColor: Colors["primary"],
		Live:       true,
	}
}

// Pairs folds a flat [a, b, a, b, ...] list into pairs. A trailing odd item
// is dropped.
func Pairs(items []string) [][2]string {
	out := make([][2]string, 0, len(items)/2)
	for i := 0; i+1 < len(items); i += 2 {
		out = append(out, [2]string{items[i], items[i+1]})
	}
	return out
}
