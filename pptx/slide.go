package pptx

import (
	"fmt"
	"strings"

	"paperdeck/outline"
)

// slideXML renders the spTree for a single slide record.
func slideXML(slide outline.Slide) string {
	var shapes strings.Builder
	shapeID := 2

	if slide.Purpose == outline.PurposeTitle {
		shapes.WriteString(titleSlideShapes(slide, &shapeID))
	} else {
		shapes.WriteString(contentSlideShapes(slide, &shapeID))
	}

	if v := visualShape(slide.Visual, &shapeID); v != "" {
		shapes.WriteString(v)
	}

	return `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` +
		`<p:sld xmlns:a="http://schemas.openxmlformats.org/drawingml/2006/main" xmlns:r="http://schemas.openxmlformats.org/officeDocument/2006/relationships" xmlns:p="http://schemas.openxmlformats.org/presentationml/2006/main">` +
		`<p:cSld><p:spTree>` +
		`<p:nvGrpSpPr><p:cNvPr id="1" name=""/><p:cNvGrpSpPr/><p:nvPr/></p:nvGrpSpPr><p:grpSpPr/>` +
		shapes.String() +
		`</p:spTree></p:cSld>` +
		`<p:clrMapOvr><a:masterClrMapping/></p:clrMapOvr>` +
		`</p:sld>`
}

// titleSlideShapes centers the deck title with the content bullets as
// subtitle lines underneath.
func titleSlideShapes(slide outline.Slide, shapeID *int) string {
	var b strings.Builder

	var titlePara strings.Builder
	titlePara.WriteString(`<a:p><a:pPr algn="ctr"/>`)
	titlePara.WriteString(textRun(slide.Title, `sz="4000" b="1"`))
	titlePara.WriteString(`</a:p>`)
	b.WriteString(textShape(nextID(shapeID), "Title", 914400, 2286000, 10363200, 1371600, titlePara.String()))

	if len(slide.Content) > 0 {
		var subPara strings.Builder
		for _, line := range slide.Content {
			subPara.WriteString(`<a:p><a:pPr algn="ctr"/>`)
			subPara.WriteString(textRun(line, `sz="2000"`))
			subPara.WriteString(`</a:p>`)
		}
		b.WriteString(textShape(nextID(shapeID), "Subtitle", 914400, 3886200, 10363200, 1828800, subPara.String()))
	}
	return b.String()
}

// contentSlideShapes lays out a heading plus a bulleted body.
func contentSlideShapes(slide outline.Slide, shapeID *int) string {
	var b strings.Builder

	var titlePara strings.Builder
	titlePara.WriteString(`<a:p>`)
	titlePara.WriteString(textRun(slide.Title, `sz="3200" b="1"`))
	titlePara.WriteString(`</a:p>`)
	b.WriteString(textShape(nextID(shapeID), "Title", titleX, titleY, titleCX, titleCY, titlePara.String()))

	if len(slide.Content) > 0 {
		var body strings.Builder
		for _, line := range slide.Content {
			body.WriteString(`<a:p><a:pPr marL="342900" indent="-342900"><a:buChar char="&#8226;"/></a:pPr>`)
			body.WriteString(textRun(line, `sz="1800"`))
			body.WriteString(`</a:p>`)
		}
		b.WriteString(textShape(nextID(shapeID), "Content", bodyX, bodyY, bodyCX, bodyCY, body.String()))
	}
	return b.String()
}

// visualShape renders the structured visual payload. Tables become real
// table grids; charts surface their data summary as styled text so the
// slide still carries the numbers.
func visualShape(v outline.Visual, shapeID *int) string {
	if v.Data == nil {
		return ""
	}
	switch v.Type {
	case outline.VisualTable:
		if len(v.Data.Headers) == 0 && len(v.Data.Rows) == 0 {
			return ""
		}
		return tableShape(v.Data, shapeID)
	case outline.VisualChart:
		return chartTextShape(v.Data, shapeID)
	default:
		return ""
	}
}

func chartTextShape(d *outline.VisualData, shapeID *int) string {
	var paras strings.Builder
	if d.Title != "" {
		paras.WriteString(`<a:p>`)
		paras.WriteString(textRun(d.Title, `sz="1600" b="1" i="1"`))
		paras.WriteString(`</a:p>`)
	}
	summary := d.DataSummary
	if summary == "" {
		summary = d.Text
	}
	if summary == "" {
		return ""
	}
	paras.WriteString(`<a:p>`)
	paras.WriteString(textRun(summary, `sz="1400" i="1"`))
	paras.WriteString(`</a:p>`)
	return textShape(nextID(shapeID), "ChartSummary", visualX, visualY, visualCX, visualCY, paras.String())
}

func tableShape(d *outline.VisualData, shapeID *int) string {
	cols := len(d.Headers)
	for _, row := range d.Rows {
		if len(row) > cols {
			cols = len(row)
		}
	}
	if cols == 0 {
		return ""
	}
	colW := visualCX / cols

	var b strings.Builder
	tableY := visualY
	if d.Caption != "" {
		var caption strings.Builder
		caption.WriteString(`<a:p>`)
		caption.WriteString(textRun(d.Caption, `sz="1400" b="1"`))
		caption.WriteString(`</a:p>`)
		b.WriteString(textShape(nextID(shapeID), "TableCaption", visualX, visualY, visualCX, 342900, caption.String()))
		tableY += 457200
	}

	var tbl strings.Builder
	tbl.WriteString(`<a:tbl><a:tblPr firstRow="1" bandRow="1"/>`)
	tbl.WriteString(`<a:tblGrid>`)
	for i := 0; i < cols; i++ {
		fmt.Fprintf(&tbl, `<a:gridCol w="%d"/>`, colW)
	}
	tbl.WriteString(`</a:tblGrid>`)
	if len(d.Headers) > 0 {
		tbl.WriteString(tableRow(d.Headers, cols, true))
	}
	for _, row := range d.Rows {
		tbl.WriteString(tableRow(row, cols, false))
	}
	tbl.WriteString(`</a:tbl>`)

	id := nextID(shapeID)
	b.WriteString(fmt.Sprintf(`<p:graphicFrame><p:nvGraphicFramePr><p:cNvPr id="%d" name="Table %d"/><p:cNvGraphicFramePr/><p:nvPr/></p:nvGraphicFramePr>`, id, id))
	b.WriteString(fmt.Sprintf(`<p:xfrm><a:off x="%d" y="%d"/><a:ext cx="%d" cy="%d"/></p:xfrm>`, visualX, tableY, visualCX, visualCY))
	b.WriteString(`<a:graphic><a:graphicData uri="http://schemas.openxmlformats.org/drawingml/2006/table">`)
	b.WriteString(tbl.String())
	b.WriteString(`</a:graphicData></a:graphic></p:graphicFrame>`)
	return b.String()
}

func tableRow(cells []string, cols int, header bool) string {
	props := `sz="1200"`
	if header {
		props = `sz="1200" b="1"`
	}
	var b strings.Builder
	b.WriteString(`<a:tr h="370840">`)
	for i := 0; i < cols; i++ {
		text := ""
		if i < len(cells) {
			text = cells[i]
		}
		b.WriteString(`<a:tc><a:txBody><a:bodyPr/><a:lstStyle/><a:p>`)
		if text != "" {
			b.WriteString(textRun(text, props))
		} else {
			b.WriteString(`<a:endParaRPr lang="en-US"/>`)
		}
		b.WriteString(`</a:p></a:txBody><a:tcPr/></a:tc>`)
	}
	b.WriteString(`</a:tr>`)
	return b.String()
}

func textShape(id int, name string, x, y, cx, cy int, paragraphs string) string {
	return fmt.Sprintf(`<p:sp><p:nvSpPr><p:cNvPr id="%d" name="%s"/><p:cNvSpPr txBox="1"/><p:nvPr/></p:nvSpPr>`, id, name) +
		fmt.Sprintf(`<p:spPr><a:xfrm><a:off x="%d" y="%d"/><a:ext cx="%d" cy="%d"/></a:xfrm><a:prstGeom prst="rect"><a:avLst/></a:prstGeom></p:spPr>`, x, y, cx, cy) +
		`<p:txBody><a:bodyPr wrap="square"><a:normAutofit/></a:bodyPr><a:lstStyle/>` +
		paragraphs +
		`</p:txBody></p:sp>`
}

func textRun(text, props string) string {
	return `<a:r><a:rPr lang="en-US" ` + props + ` dirty="0"/><a:t>` + esc(text) + `</a:t></a:r>`
}

func nextID(shapeID *int) int {
	id := *shapeID
	*shapeID++
	return id
}
