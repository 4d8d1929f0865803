package scriptwriter

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/gomutex/godocx"
	"github.com/gomutex/godocx/docx"

	"github.com/nguyentantai21042004/deck2video/internal/models"
)

const (
	fontName  = "Times New Roman"
	fontSize  = 13
	titleSize = 16
	slideSize = 14
)

// ExportHandout writes one heading per slide followed by its script paragraphs.
func (w *implWriter) ExportHandout(title string, slides []models.Slide, outputPath string) error {
	if err := os.MkdirAll(filepath.Dir(outputPath), 0755); err != nil {
		return fmt.Errorf("create handout dir: %w", err)
	}

	doc, err := godocx.NewDocument()
	if err != nil {
		return fmt.Errorf("create document: %w", err)
	}

	addStyledRun(doc.AddParagraph(""), title, true, titleSize)

	for _, s := range slides {
		addStyledRun(doc.AddParagraph(""), fmt.Sprintf("Slide %d", s.Ordinal), true, slideSize)

		script := strings.TrimSpace(s.Script)
		if script == "" {
			addStyledRun(doc.AddParagraph(""), "(no script)", false, fontSize)
			continue
		}
		for _, para := range strings.Split(script, "\n") {
			if para = strings.TrimSpace(para); para != "" {
				addStyledRun(doc.AddParagraph(""), para, false, fontSize)
			}
		}
	}

	if err := doc.SaveTo(outputPath); err != nil {
		return fmt.Errorf("save handout: %w", err)
	}
	return nil
}

func addStyledRun(p *docx.Paragraph, text string, bold bool, size uint64) {
	run := p.AddText(text).Font(fontName).Size(size).Color("000000")
	if bold {
		run.Bold(true)
	}
}
