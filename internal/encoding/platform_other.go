//go:build !windows

package encoding

import (
	"os"

	"github.com/zjrosen/cate/internal/log"
)

// SystemDefault returns the platform encoding. Without a code page to consult,
// every locale (LC_ALL, LC_CTYPE, LANG) is treated as UTF-8.
func SystemDefault() Encoding {
	for _, key := range []string{"LC_ALL", "LC_CTYPE", "LANG"} {
		if v := os.Getenv(key); v != "" {
			log.Debug(log.CatEncoding, "Locale consulted for default encoding", "var", key, "value", v)
			break
		}
	}
	return UTF8
}
