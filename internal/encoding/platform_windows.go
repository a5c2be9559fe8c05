//go:build windows

package encoding

import "golang.org/x/sys/windows"

// SystemDefault returns the encoding of the active ANSI code page.
func SystemDefault() Encoding {
	return FromCodePage(windows.GetACP())
}
