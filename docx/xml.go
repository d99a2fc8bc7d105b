package docx

import "encoding/xml"

// Minimal WordprocessingML structures: only the elements table extraction
// needs. Namespace prefixes are resolved by local name.

type documentXML struct {
	XMLName xml.Name `xml:"document"`
	Body    bodyXML  `xml:"body"`
}

type bodyXML struct {
	Tables []tableXML `xml:"tbl"`
}

type tableXML struct {
	Rows []rowXML `xml:"tr"`
}

type rowXML struct {
	Cells []cellXML `xml:"tc"`
}

type cellXML struct {
	Properties cellPropsXML   `xml:"tcPr"`
	Paragraphs []paragraphXML `xml:"p"`
}

type cellPropsXML struct {
	GridSpan gridSpanXML `xml:"gridSpan"`
	VMerge   vMergeXML   `xml:"vMerge"`
}

type gridSpanXML struct {
	Val string `xml:"val,attr"`
}

type vMergeXML struct {
	XMLName xml.Name
	Val     string `xml:"val,attr"`
}

type paragraphXML struct {
	Runs []runXML `xml:"r"`
}

type runXML struct {
	Text []textXML `xml:"t"`
}

type textXML struct {
	Value string `xml:",chardata"`
}
