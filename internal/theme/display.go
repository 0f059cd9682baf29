package theme

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// DisplayName builds the human readable label of a variant, e.g.
// "Solarized Dark". name is the theme's declared name; when empty the
// identifier's last dotted segment is title cased instead.
func DisplayName(v Variant, name string) string {
	title := cases.Title(language.English)
	base := strings.TrimSpace(name)
	if base == "" {
		id := string(v.Theme)
		if i := strings.LastIndex(id, "."); i >= 0 {
			id = id[i+1:]
		}
		id = strings.NewReplacer("_", " ", "-", " ").Replace(id)
		base = title.String(strings.Join(strings.Fields(id), " "))
	}
	if v.Mode == "" {
		return base
	}
	return base + " " + title.String(string(v.Mode))
}
