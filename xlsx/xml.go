package xlsx

// Minimal SpreadsheetML structures for table extraction.

type workbookXML struct {
	Sheets sheetsXML `xml:"sheets"`
}

type sheetsXML struct {
	Sheets []sheetRefXML `xml:"sheet"`
}

type sheetRefXML struct {
	Name string `xml:"name,attr"`
	RID  string `xml:"id,attr"`
}

type relationshipsXML struct {
	Relationships []relationshipXML `xml:"Relationship"`
}

type relationshipXML struct {
	ID     string `xml:"Id,attr"`
	Target string `xml:"Target,attr"`
}

type worksheetXML struct {
	Data sheetDataXML `xml:"sheetData"`
}

type sheetDataXML struct {
	Rows []rowXML `xml:"row"`
}

type rowXML struct {
	Cells []cellXML `xml:"c"`
}

type cellXML struct {
	Ref    string       `xml:"r,attr"`
	Type   string       `xml:"t,attr"`
	Value  string       `xml:"v"`
	Inline inlineStrXML `xml:"is"`
}

type inlineStrXML struct {
	Text string `xml:"t"`
}

type sharedStringsXML struct {
	Items []sharedItemXML `xml:"si"`
}

type sharedItemXML struct {
	Text *string     `xml:"t"`
	Runs []sharedRun `xml:"r"`
}

type sharedRun struct {
	Text string `xml:"t"`
}
