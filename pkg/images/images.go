// Package images applies lazy loading to page images and swaps broken
// images for a placeholder.
package images

import (
	"encoding/base64"

	"golang.org/x/net/html"

	"github.com/vango-dev/sitekit/pkg/dom"
)

// LogoClass marks images that must load eagerly.
const LogoClass = "c-logo__img"

const placeholderSVG = `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 400 300"><rect fill="#e9ecef" width="400" height="300"/><text x="50%" y="50%" text-anchor="middle" fill="#6c757d" font-size="18" font-family="sans-serif">Image unavailable</text></svg>`

// Placeholder is the data URI shown in place of an image that failed to load.
var Placeholder = "data:image/svg+xml;base64," + base64.StdEncoding.EncodeToString([]byte(placeholderSVG))

// Enhance sets loading="lazy" on every image that has no loading attribute
// and is not the logo. It returns the number of images changed.
func Enhance(doc *dom.Document) int {
	changed := 0
	for _, img := range doc.QueryAll("img") {
		if dom.HasAttr(img, "loading") || dom.HasClass(img, LogoClass) {
			continue
		}
		dom.SetAttr(img, "loading", "lazy")
		changed++
	}
	return changed
}

// Fallback replaces the source of a broken image with Placeholder. Each
// image falls back at most once; it reports whether the source changed.
func Fallback(img *html.Node) bool {
	if !dom.IsElement(img, "img") || dom.Data(img, "fallback") != "" {
		return false
	}
	dom.SetAttr(img, "data-fallback", "1")
	dom.SetAttr(img, "src", Placeholder)
	return true
}
