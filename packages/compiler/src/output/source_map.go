package output

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"ngve-go/packages/compiler/src/util"
)

// Version is the source map format version.
const Version = 3

const jsB64Prefix = "# sourceMappingURL=data:application/json;base64,"

// Segment maps a column of generated output back to a source position.
// SourceURL is nil for segments that only mark a generated column.
type Segment struct {
	Col0        int
	SourceURL   *string
	SourceLine0 *int
	SourceCol0  *int
}

// SourceMap is the JSON form of a v3 source map.
type SourceMap struct {
	Version        int       `json:"version"`
	File           string    `json:"file"`
	SourceRoot     string    `json:"sourceRoot"`
	Sources        []string  `json:"sources"`
	SourcesContent []*string `json:"sourcesContent"`
	Mappings       string    `json:"mappings"`
}

// SourceMapGenerator accumulates mappings line by line while code is
// emitted and serializes them to the v3 mappings encoding.
type SourceMapGenerator struct {
	sourcesContent map[string]*string
	lines          [][]Segment
	lastCol0       int
	hasMappings    bool
	file           *string
}

func NewSourceMapGenerator(file *string) *SourceMapGenerator {
	return &SourceMapGenerator{
		sourcesContent: make(map[string]*string),
		file:           file,
	}
}

// AddSource registers a source file. Content is nil when the consumer is
// expected to load it from the URL. Registering the same URL twice keeps
// the first content.
func (smg *SourceMapGenerator) AddSource(url string, content *string) *SourceMapGenerator {
	if _, exists := smg.sourcesContent[url]; !exists {
		smg.sourcesContent[url] = content
	}
	return smg
}

// AddLine starts a new generated output line.
func (smg *SourceMapGenerator) AddLine() *SourceMapGenerator {
	smg.lines = append(smg.lines, nil)
	smg.lastCol0 = 0
	return smg
}

// AddMapping appends a segment to the current line. Mappings must be added
// in output order, and a source position is required whenever a source URL
// is given.
func (smg *SourceMapGenerator) AddMapping(col0 int, sourceURL *string, sourceLine0 *int, sourceCol0 *int) error {
	if len(smg.lines) == 0 {
		return fmt.Errorf("a line must be added before mappings can be added")
	}
	if sourceURL != nil {
		if _, exists := smg.sourcesContent[*sourceURL]; !exists {
			return fmt.Errorf("unknown source file \"%s\"", *sourceURL)
		}
	}
	if col0 < smg.lastCol0 {
		return fmt.Errorf("mapping should be added in output order")
	}
	if sourceURL != nil && (sourceLine0 == nil || sourceCol0 == nil) {
		return fmt.Errorf("the source location must be provided when a source url is provided")
	}

	smg.hasMappings = true
	smg.lastCol0 = col0
	last := len(smg.lines) - 1
	smg.lines[last] = append(smg.lines[last], Segment{
		Col0:        col0,
		SourceURL:   sourceURL,
		SourceLine0: sourceLine0,
		SourceCol0:  sourceCol0,
	})
	return nil
}

// ToJSON serializes the collected mappings. It returns nil when no mapping
// was ever added.
func (smg *SourceMapGenerator) ToJSON() (*SourceMap, error) {
	if !smg.hasMappings {
		return nil, nil
	}

	sources := make([]string, 0, len(smg.sourcesContent))
	for url := range smg.sourcesContent {
		sources = append(sources, url)
	}
	sort.Strings(sources)

	sourcesIndex := make(map[string]int, len(sources))
	sourcesContent := make([]*string, len(sources))
	for i, url := range sources {
		sourcesIndex[url] = i
		sourcesContent[i] = smg.sourcesContent[url]
	}

	// Fields are delta-encoded relative to the previous segment; only the
	// generated column resets at each line.
	lastSourceIndex := 0
	lastSourceLine0 := 0
	lastSourceCol0 := 0

	lineStrs := make([]string, 0, len(smg.lines))
	for _, segments := range smg.lines {
		lastCol0 := 0
		segStrs := make([]string, 0, len(segments))
		for _, segment := range segments {
			var seg strings.Builder
			seg.WriteString(toBase64VLQ(segment.Col0 - lastCol0))
			lastCol0 = segment.Col0

			if segment.SourceURL != nil {
				sourceIndex := sourcesIndex[*segment.SourceURL]
				seg.WriteString(toBase64VLQ(sourceIndex - lastSourceIndex))
				lastSourceIndex = sourceIndex
				seg.WriteString(toBase64VLQ(*segment.SourceLine0 - lastSourceLine0))
				lastSourceLine0 = *segment.SourceLine0
				seg.WriteString(toBase64VLQ(*segment.SourceCol0 - lastSourceCol0))
				lastSourceCol0 = *segment.SourceCol0
			}
			segStrs = append(segStrs, seg.String())
		}
		lineStrs = append(lineStrs, strings.Join(segStrs, ","))
	}

	file := ""
	if smg.file != nil {
		file = *smg.file
	}

	return &SourceMap{
		Version:        Version,
		File:           file,
		SourceRoot:     "",
		Sources:        sources,
		SourcesContent: sourcesContent,
		Mappings:       strings.Join(lineStrs, ";"),
	}, nil
}

// ToJsComment renders the source map as an inline sourceMappingURL comment,
// or an empty string when there are no mappings.
func (smg *SourceMapGenerator) ToJsComment() (string, error) {
	sourceMap, err := smg.ToJSON()
	if err != nil || sourceMap == nil {
		return "", err
	}

	jsonBytes, err := json.Marshal(sourceMap)
	if err != nil {
		return "", err
	}
	return "//" + jsB64Prefix + ToBase64String(string(jsonBytes)), nil
}

// ToBase64String base64-encodes the UTF-8 bytes of value.
func ToBase64String(value string) string {
	encoded := util.UTF8Encode(value)

	var b64 strings.Builder
	for i := 0; i < len(encoded); i += 3 {
		b1 := int(encoded[i])
		rest := len(encoded) - i - 1

		b2 := 0
		if rest >= 1 {
			b2 = int(encoded[i+1])
		}
		b3 := 0
		if rest >= 2 {
			b3 = int(encoded[i+2])
		}

		b64.WriteByte(toBase64Digit(b1 >> 2))
		b64.WriteByte(toBase64Digit(((b1 & 3) << 4) | (b2 >> 4)))
		if rest >= 1 {
			b64.WriteByte(toBase64Digit(((b2 & 15) << 2) | (b3 >> 6)))
		} else {
			b64.WriteByte('=')
		}
		if rest >= 2 {
			b64.WriteByte(toBase64Digit(b3 & 63))
		} else {
			b64.WriteByte('=')
		}
	}
	return b64.String()
}

// toBase64VLQ encodes a number as a base64 variable-length quantity: the
// sign moves into the lowest bit, then the value is emitted in 5-bit
// groups, least significant first, with bit 6 as the continuation flag.
func toBase64VLQ(value int) string {
	if value < 0 {
		value = (-value << 1) + 1
	} else {
		value = value << 1
	}

	var out strings.Builder
	for {
		digit := value & 31
		value >>= 5
		if value > 0 {
			digit |= 32
		}
		out.WriteByte(toBase64Digit(digit))
		if value == 0 {
			break
		}
	}
	return out.String()
}

const b64Digits = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789+/"

func toBase64Digit(value int) byte {
	if value < 0 || value >= 64 {
		panic(fmt.Sprintf("can only encode value in the range [0, 63], got %d", value))
	}
	return b64Digits[value]
}
