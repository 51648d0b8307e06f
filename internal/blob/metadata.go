package blob

import "regexp"

// metadataTokens are framework-internal strings the object archiver embeds
// alongside user text.
var metadataTokens = map[string]struct{}{
	"NSKeyedArchiver":         {},
	"NSAttributedString":      {},
	"NSMutableString":         {},
	"NSParagraphStyle":        {},
	"NSMutableParagraphStyle": {},
	"NSColorSpace":            {},
	"NSDictionary":            {},
	"NSMutableArray":          {},
	"NSMutableData":           {},
	"NSObject":                {},
	"NSStrokeColor":           {},
	"NSStrokeWidth":           {},
	"NSUnderline":             {},
	"NSFont":                  {},
	"NSColor":                 {},
	"NSBackgroundColor":       {},
	"NSKern":                  {},
	"NSSuperScript":           {},
	"NSTextAttachment":        {},
	"NSFileWrapper":           {},
	"NSMutableDictionary":     {},
	"NSURL":                   {},
	"NSNumber":                {},
	"$archiver":               {},
	"$version":                {},
	"$objects":                {},
	"$top":                    {},
	"NS.string":               {},
	"NS.keys":                 {},
	"NS.objects":              {},
	"NSAttributes":            {},
	"NS.bytes":                {},
	"NS.data":                 {},
	"NS.base":                 {},
	"bplist00":                {},
}

// metadataPatterns match structural key names that appear inline with a
// one-byte length marker glued to the front (for example "YNSParam").
var metadataPatterns = []*regexp.Regexp{
	regexp.MustCompile(`^[$%&'()*+,\-./0-9:;<=>?@A-Z\[\\\]^_` + "`" + `{|}~]+\[?NS`),
	regexp.MustCompile(`^\[?NS[A-Z][a-z]`),
	regexp.MustCompile(`^YNS[A-Z]`),
	regexp.MustCompile(`^[a-z]{0,3}YNS(Param|Row|Col|Table)`),
	regexp.MustCompile(`^VNS(Size|Font|Kern|Color|Link)`),
	regexp.MustCompile(`^WNS(Color|Table)`),
	regexp.MustCompile(`^XNS(fFlags|Param|RowNum|ColNum)`),
	regexp.MustCompile(`^YNS(Param|RowSpan|ColSpan)`),
	regexp.MustCompile(`^\]NS(StrokeColor|StrokeWidth|CatalogName)`),
	regexp.MustCompile(`^\\NS(ColorSpace|Descriptor|HasWidth)`),
	regexp.MustCompile(`^_NS(BackgroundColor|ParagraphStyle)`),
	regexp.MustCompile(`^\.IEC 61966`),
	regexp.MustCompile(`^X\$version`),
	regexp.MustCompile(`^bplist\d\d`),
}

// IsMetadata reports whether s is archiver metadata rather than user text.
func IsMetadata(s string) bool {
	if _, ok := metadataTokens[s]; ok {
		return true
	}
	for _, p := range metadataPatterns {
		if p.MatchString(s) {
			return true
		}
	}
	return false
}
