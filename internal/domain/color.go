package domain

import "strings"

// Color — каноническое название цвета из палитры витрины.
type Color string

const (
	Maroon Color = "Maroon"
	Black  Color = "Black"
	Olive  Color = "Olive"
	Multi  Color = "Multi"
	Peach  Color = "Peach"
	Yellow Color = "Yellow"
	Pink   Color = "Pink"
	Green  Color = "Green"
	Navy   Color = "Navy"
	White  Color = "White"
	Blue   Color = "Blue"
	Cream  Color = "Cream"
	Brown  Color = "Brown"
)

// DefaultColor присваивается, когда цвет определить не удалось.
const DefaultColor = Multi

// palette — порядок важен: при поиске по подстроке побеждает первый совпавший цвет.
var palette = [...]Color{
	Maroon, Black, Olive, Multi, Peach, Yellow, Pink, Green, Navy, White, Blue, Cream, Brown,
}

// paletteLower — палитра в нижнем регистре, в том же порядке.
var paletteLower = func() [len(palette)]string {
	var out [len(palette)]string
	for i, c := range palette {
		out[i] = strings.ToLower(string(c))
	}
	return out
}()

// fallbackColors — точное соответствие распространенных названий цветам палитры.
var fallbackColors = map[string]Color{
	"Navy":       Navy,
	"White":      White,
	"Black":      Black,
	"Gray":       Multi,
	"Grey":       Multi,
	"Blue":       Blue,
	"Dark Blue":  Blue,
	"Light Blue": Blue,
	"Beige":      Cream,
	"Brown":      Brown,
	"Charcoal":   Multi,
	"Red":        Multi,
	"Green":      Green,
	"Yellow":     Yellow,
	"Pink":       Pink,
}

// Palette возвращает копию палитры в объявленном порядке.
func Palette() []Color {
	out := make([]Color, len(palette))
	copy(out, palette[:])
	return out
}

// InPalette сообщает, входит ли цвет в палитру.
func InPalette(c Color) bool {
	for _, p := range palette {
		if p == c {
			return true
		}
	}
	return false
}

// ResolveColor выбирает цвет палитры по первому кандидату из списка.
// Порядок: точное совпадение, подстрока (в порядке палитры), таблица соответствий, Multi.
func ResolveColor(candidates []string) Color {
	if len(candidates) == 0 {
		return DefaultColor
	}
	first := candidates[0]

	if InPalette(Color(first)) {
		return Color(first)
	}

	lower := strings.ToLower(first)
	for i, p := range paletteLower {
		if strings.Contains(lower, p) {
			return palette[i]
		}
	}

	if c, ok := fallbackColors[first]; ok {
		return c
	}

	return DefaultColor
}
