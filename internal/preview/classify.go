// Package preview decides how an asset is shown in the preview pane.
package preview

import (
	"path"
	"strings"
)

// Modality is the display mode for an asset.
type Modality int

const (
	Document Modality = iota
	Video
	Audio
)

func (m Modality) String() string {
	switch m {
	case Video:
		return "video"
	case Audio:
		return "audio"
	default:
		return "document"
	}
}

var (
	videoExt = map[string]struct{}{".mp4": {}, ".mov": {}, ".mkv": {}, ".webm": {}}
	audioExt = map[string]struct{}{".mp3": {}, ".wav": {}, ".m4a": {}}
)

// Classify maps an asset name to its modality by extension, case-insensitively.
// Anything unrecognized, including names without an extension, is a Document.
func Classify(name string) Modality {
	ext := strings.ToLower(path.Ext(name))
	if _, ok := videoExt[ext]; ok {
		return Video
	}
	if _, ok := audioExt[ext]; ok {
		return Audio
	}
	return Document
}
