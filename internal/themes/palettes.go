package themes

import "github.com/ajramos/themesync/internal/theme"

var solarizedDark = &theme.Palette{
	EditorBackground:  "#002B36",
	EditorCurrentLine: "#073642",
	EditorCurrentCell: "#073642",
	EditorOccurrence:  "#586E75",
	EditorCtrlClick:   "#268BD2",
	EditorSideAreas:   "#073642",
	EditorMatchedP:    "#586E75",
	EditorUnmatchedP:  "#DC322F",
	EditorNormal:      "#839496",
	EditorKeyword:     "#859900",
	EditorBuiltin:     "#B58900",
	EditorDefinition:  "#268BD2",
	EditorComment:     "#586E75",
	EditorString:      "#2AA198",
	EditorNumber:      "#D33682",
	EditorInstance:    "#6C71C4",
	EditorMagic:       "#CB4B16",
	Primary:           "#268BD2",
	Accent:            "#2AA198",
}

var solarizedLight = &theme.Palette{
	EditorBackground:  "#FDF6E3",
	EditorCurrentLine: "#EEE8D5",
	EditorCurrentCell: "#EEE8D5",
	EditorOccurrence:  "#93A1A1",
	EditorCtrlClick:   "#268BD2",
	EditorSideAreas:   "#EEE8D5",
	EditorMatchedP:    "#93A1A1",
	EditorUnmatchedP:  "#DC322F",
	EditorNormal:      "#657B83",
	EditorKeyword:     "#859900",
	EditorBuiltin:     "#B58900",
	EditorDefinition:  "#268BD2",
	EditorComment:     "#93A1A1",
	EditorString:      "#2AA198",
	EditorNumber:      "#D33682",
	EditorInstance:    "#6C71C4",
	EditorMagic:       "#CB4B16",
	Primary:           "#268BD2",
	Accent:            "#2AA198",
}

var draculaDark = &theme.Palette{
	EditorBackground:  "#282A36",
	EditorCurrentLine: "#44475A",
	EditorCurrentCell: "#343746",
	EditorOccurrence:  "#6272A4",
	EditorCtrlClick:   "#8BE9FD",
	EditorSideAreas:   "#21222C",
	EditorMatchedP:    "#50FA7B",
	EditorUnmatchedP:  "#FF5555",
	EditorNormal:      "#F8F8F2",
	EditorKeyword:     "#FF79C6",
	EditorBuiltin:     "#8BE9FD",
	EditorDefinition:  "#50FA7B",
	EditorComment:     "#6272A4",
	EditorString:      "#F1FA8C",
	EditorNumber:      "#BD93F9",
	EditorInstance:    "#FFB86C",
	EditorMagic:       "#FF79C6",
	Primary:           "#BD93F9",
	Accent:            "#FF79C6",
}

var qdarkstyleDark = &theme.Palette{
	EditorBackground:  "#19232D",
	EditorCurrentLine: "#3A424A",
	EditorCurrentCell: "#292D3E",
	EditorOccurrence:  "#1A72BB",
	EditorCtrlClick:   "#179AE0",
	EditorSideAreas:   "#222B35",
	EditorMatchedP:    "#0BBE0B",
	EditorUnmatchedP:  "#FF4340",
	EditorNormal:      "#FFFFFF",
	EditorKeyword:     "#C670E0",
	EditorBuiltin:     "#FAB16C",
	EditorDefinition:  "#57D6E4",
	EditorComment:     "#999999",
	EditorString:      "#B0E686",
	EditorNumber:      "#FAED5C",
	EditorInstance:    "#EE6772",
	EditorMagic:       "#C670E0",
	Primary:           "#346792",
	Accent:            "#26486B",
}

var qdarkstyleLight = &theme.Palette{
	EditorBackground:  "#FAFAFA",
	EditorCurrentLine: "#E1F0D1",
	EditorCurrentCell: "#FCFCDC",
	EditorOccurrence:  "#FFFF99",
	EditorCtrlClick:   "#0000FF",
	EditorSideAreas:   "#EFEFEF",
	EditorMatchedP:    "#99FF99",
	EditorUnmatchedP:  "#FF9999",
	EditorNormal:      "#000000",
	EditorKeyword:     "#0000FF",
	EditorBuiltin:     "#900090",
	EditorDefinition:  "#000000",
	EditorComment:     "#ADADAD",
	EditorString:      "#00AA00",
	EditorNumber:      "#800000",
	EditorInstance:    "#924900",
	EditorMagic:       "#900090",
	Primary:           "#9FCBFF",
	Accent:            "#73C7FF",
}
