package archive

import (
	"bytes"
	"encoding/xml"
	"path"
	"strings"
)

type relationshipsXML struct {
	Items []struct {
		ID     string `xml:"Id,attr"`
		Type   string `xml:"Type,attr"`
		Target string `xml:"Target,attr"`
	} `xml:"Relationship"`
}

// parseMediaTargets returns the media filenames referenced by a slide descriptor in document order.
// Markup that does not parse as XML is scanned for Target attributes instead.
func parseMediaTargets(data []byte) []string {
	var rels relationshipsXML
	if err := xml.NewDecoder(bytes.NewReader(data)).Decode(&rels); err != nil {
		return scanMediaTargets(data)
	}

	var names []string
	for _, r := range rels.Items {
		if name, ok := mediaName(r.Target); ok {
			names = append(names, name)
		}
	}
	return names
}

func scanMediaTargets(data []byte) []string {
	var names []string
	for _, m := range reMediaTarget.FindAllSubmatch(data, -1) {
		names = append(names, path.Base(string(m[1])))
	}
	return names
}

func mediaName(target string) (string, bool) {
	for _, prefix := range []string{"../media/", "/ppt/media/"} {
		if strings.HasPrefix(target, prefix) {
			name := path.Base(strings.TrimPrefix(target, prefix))
			return name, name != "" && name != "."
		}
	}
	return "", false
}
