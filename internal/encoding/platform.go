package encoding

// FromCodePage maps a Windows ANSI code page to an encoding.
// Code page 65001 and unrecognized pages map to UTF-8.
func FromCodePage(cp uint32) Encoding {
	switch cp {
	case 936:
		return GBK
	case 950:
		return Big5
	case 932:
		return ShiftJIS
	case 1252:
		return Windows1252
	default:
		return UTF8
	}
}
