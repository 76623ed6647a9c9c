package domains

// Filter and sort fields carry icon identifiers only; the data contract
// stays presentation-free. Glyph resolution happens here, at the render
// boundary.
var iconGlyphs = map[string]string{
	"user":     "👤",
	"target":   "🎯",
	"flag":     "🚩",
	"gauge":    "📊",
	"tag":      "🏷",
	"calendar": "📅",
	"globe":    "🌍",
	"coins":    "💰",
	"factory":  "🏭",
	"risk":     "⚠",
	"stage":    "🧪",
	"text":     "🔤",
	"channel":  "📣",
}

// IconGlyph resolves an icon identifier to its glyph. Unknown identifiers
// resolve to the empty string so callers can skip them.
func IconGlyph(name string) string {
	return iconGlyphs[name]
}
