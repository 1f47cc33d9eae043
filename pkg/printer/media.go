package printer

import "strings"

// MediaSize is a named paper size from the PWG media naming standard
type MediaSize struct {
	Name string
	// Width and height in hundredths of a millimeter, as IPP media-col does
	Width  int
	Height int
}

var mediaSizes = []MediaSize{
	{Name: "na_letter_8.5x11in", Width: 21590, Height: 27940},
	{Name: "na_legal_8.5x14in", Width: 21590, Height: 35560},
	{Name: "iso_a4_210x297mm", Width: 21000, Height: 29700},
	{Name: "iso_a5_148x210mm", Width: 14800, Height: 21000},
}

// aliases maps short names accepted on the command line
var aliases = map[string]string{
	"letter": "na_letter_8.5x11in",
	"legal":  "na_legal_8.5x14in",
	"a4":     "iso_a4_210x297mm",
	"a5":     "iso_a5_148x210mm",
}

// LookupMediaSize finds a media size by PWG name or short alias
func LookupMediaSize(name string) (MediaSize, bool) {
	name = strings.ToLower(strings.TrimSpace(name))
	if full, ok := aliases[name]; ok {
		name = full
	}
	for _, size := range mediaSizes {
		if size.Name == name {
			return size, true
		}
	}
	return MediaSize{}, false
}

// PixelSize returns the size of the media in pixels at dpi
func (m MediaSize) PixelSize(dpi int) (width, height int) {
	// 2540 hundredths of a millimeter per inch
	return m.Width * dpi / 2540, m.Height * dpi / 2540
}

// MediaSizeNames lists the known PWG media names
func MediaSizeNames() []string {
	names := make([]string, 0, len(mediaSizes))
	for _, size := range mediaSizes {
		names = append(names, size.Name)
	}
	return names
}
