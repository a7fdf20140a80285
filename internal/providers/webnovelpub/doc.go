// Package webnovelpub implements providers.Source for webnovelpub-style
// sites: a paginated chapter listing under /novel/{id}/chapters/page-{n}
// and one HTML page per chapter with the text inside #chapter-container.
package webnovelpub

import "github.com/brogergvhs/noveld/internal/providers"

var _ providers.Source = (*Site)(nil)
