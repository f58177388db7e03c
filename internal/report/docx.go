package report

import (
	"strconv"
	"strings"

	"github.com/gomutex/godocx"
	"github.com/gomutex/godocx/docx"

	"github.com/nguyentantai21042004/audio-sentinel/internal/store"
)

const (
	fontName = "Times New Roman"
	fontSize = 13
)

// Write renders a summary record as a styled docx briefing.
func Write(rec *store.SummaryRecord, outputPath string) error {
	doc, err := godocx.NewDocument()
	if err != nil {
		return err
	}

	addStyledRun(doc.AddParagraph(""), rec.Title, true, 16)
	doc.AddParagraph("")

	addField(doc, "Date", rec.Date)
	addField(doc, "Location", rec.Location)
	addField(doc, "Threat Level", rec.ThreatLevel)
	if rec.CaseNumber != nil {
		addField(doc, "Case Number", strconv.Itoa(*rec.CaseNumber))
	}
	if rec.Resolved {
		addField(doc, "Status", "Resolved")
	} else {
		addField(doc, "Status", "Open")
	}
	doc.AddParagraph("")

	addStyledRun(doc.AddParagraph(""), "Summary", true, 14)
	addStyledRun(doc.AddParagraph(""), rec.Summary, false, fontSize)
	doc.AddParagraph("")

	addStyledRun(doc.AddParagraph(""), "Key Terms", true, 14)
	addStyledRun(doc.AddParagraph(""), strings.Join(rec.KeyTerms, ", "), false, fontSize)
	doc.AddParagraph("")

	addStyledRun(doc.AddParagraph(""), "Transcript", true, 14)
	for _, line := range strings.Split(rec.Content, "\n") {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			addStyledRun(doc.AddParagraph(""), trimmed, false, fontSize)
		}
	}

	return doc.SaveTo(outputPath)
}

func addField(doc *docx.RootDoc, label, value string) {
	p := doc.AddParagraph("")
	p.AddText(label+": ").Font(fontName).Size(fontSize).Color("000000").Bold(true)
	p.AddText(value).Font(fontName).Size(fontSize).Color("000000")
}

func addStyledRun(p *docx.Paragraph, text string, bold bool, size uint64) {
	run := p.AddText(text).Font(fontName).Size(size).Color("000000")
	if bold {
		run.Bold(true)
	}
}
