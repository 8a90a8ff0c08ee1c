// internal/app/system/htmlsanitize/htmlsanitize.go
//
// Comment bodies and project/task descriptions arrive from arbitrary
// clients and are rendered by the board UI, so they pass through a
// bluemonday policy on the way in. Formatting markup survives; scripts,
// event handlers, and embeds do not.
package htmlsanitize

import (
	"sync"

	"github.com/microcosm-cc/bluemonday"
)

var (
	once   sync.Once
	policy *bluemonday.Policy
)

func getPolicy() *bluemonday.Policy {
	once.Do(func() {
		policy = bluemonday.UGCPolicy()
	})
	return policy
}

// Sanitize strips unsafe HTML from user-generated content.
func Sanitize(input string) string {
	if input == "" {
		return ""
	}
	return getPolicy().Sanitize(input)
}
