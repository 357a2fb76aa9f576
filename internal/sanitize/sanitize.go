// Package sanitize provides HTML sanitization for user-generated content.
// Uses bluemonday to strip dangerous HTML (script tags, event handlers,
// javascript: URLs) while preserving safe formatting in post bodies.
package sanitize

import (
	"github.com/microcosm-cc/bluemonday"
)

// ugcPolicy allows the formatting elements typical of user-generated
// content (headings, lists, links, emphasis, images) and strips the rest.
// Policies are safe for concurrent use, so one shared instance is enough.
var ugcPolicy = bluemonday.UGCPolicy()

// HTML returns s with any unsafe HTML removed.
func HTML(s string) string {
	return ugcPolicy.Sanitize(s)
}
