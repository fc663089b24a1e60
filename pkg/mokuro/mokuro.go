// Package mokuro provides types for parsing and representing mokuro volume metadata.
//
// A .mokuro file is a JSON sidecar produced by the mokuro OCR pipeline. It
// declares the pages of one manga volume together with the OCR text blocks
// detected on each page. The importer uses it as the authoritative page list
// when reconciling a volume's image files.
package mokuro

import (
	"encoding/json"
	"fmt"
	"io"
	"unicode/utf8"
)

// Block is one OCR text block on a page.
type Block struct {
	Box         [4]int         `json:"box" msgpack:"box"`
	Vertical    bool           `json:"vertical" msgpack:"vertical"`
	FontSize    float64        `json:"font_size" msgpack:"font_size"`
	LinesCoords [][][2]float64 `json:"lines_coords,omitempty" msgpack:"lines_coords,omitempty"`
	Lines       []string       `json:"lines" msgpack:"lines"`
}

// Chars returns the number of characters (runes) across all lines of the block.
func (b *Block) Chars() int {
	n := 0
	for _, line := range b.Lines {
		n += utf8.RuneCountInString(line)
	}
	return n
}

// Page is one page entry of a volume.
type Page struct {
	Version   string  `json:"version,omitempty"`
	ImgWidth  int     `json:"img_width"`
	ImgHeight int     `json:"img_height"`
	ImgPath   string  `json:"img_path"`
	Blocks    []Block `json:"blocks"`
}

// Chars returns the number of characters across all blocks of the page.
func (p *Page) Chars() int {
	n := 0
	for i := range p.Blocks {
		n += p.Blocks[i].Chars()
	}
	return n
}

// Volume is the parsed content of one .mokuro file.
type Volume struct {
	Version    string `json:"version,omitempty"`
	Title      string `json:"title"`
	TitleUUID  string `json:"title_uuid"`
	VolumeName string `json:"volume"`
	VolumeUUID string `json:"volume_uuid"`
	Pages      []Page `json:"pages"`
	Chars      int    `json:"chars,omitempty"`
}

// Parse reads and decodes a .mokuro document.
func Parse(r io.Reader) (*Volume, error) {
	var v Volume
	dec := json.NewDecoder(r)
	if err := dec.Decode(&v); err != nil {
		return nil, fmt.Errorf("decode mokuro: %w", err)
	}
	return &v, nil
}

// ParseBytes decodes a .mokuro document from a byte slice.
func ParseBytes(data []byte) (*Volume, error) {
	var v Volume
	if err := json.Unmarshal(data, &v); err != nil {
		return nil, fmt.Errorf("decode mokuro: %w", err)
	}
	return &v, nil
}

// SeriesName returns the display name of the series this volume belongs to.
// An absent or empty title falls back to the volume name.
func (v *Volume) SeriesName() string {
	if v.Title != "" {
		return v.Title
	}
	return v.VolumeName
}

// PagePaths returns the declared image path of every page, in page order.
func (v *Volume) PagePaths() []string {
	paths := make([]string, len(v.Pages))
	for i := range v.Pages {
		paths[i] = v.Pages[i].ImgPath
	}
	return paths
}

// TotalChars returns the character count summed over all pages.
// The computed value is used instead of the declared Chars field so that
// stored counts always agree with the stored blocks.
func (v *Volume) TotalChars() int {
	n := 0
	for i := range v.Pages {
		n += v.Pages[i].Chars()
	}
	return n
}
