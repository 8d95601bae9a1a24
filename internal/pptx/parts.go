package pptx

import (
	"bytes"
	"encoding/xml"
	"text/template"
)

const (
	nsA = "http://schemas.openxmlformats.org/drawingml/2006/main"
	nsR = "http://schemas.openxmlformats.org/officeDocument/2006/relationships"
	nsP = "http://schemas.openxmlformats.org/presentationml/2006/main"

	xmlHeader = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` + "\n"
	pmlNS     = `xmlns:a="` + nsA + `" xmlns:r="` + nsR + `" xmlns:p="` + nsP + `"`
	relsNS    = `xmlns="http://schemas.openxmlformats.org/package/2006/relationships"`
	relBase   = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/"
	emptyTree = `<p:spTree><p:nvGrpSpPr><p:cNvPr id="1" name=""/><p:cNvGrpSpPr/><p:nvPr/></p:nvGrpSpPr>` +
		`<p:grpSpPr><a:xfrm><a:off x="0" y="0"/><a:ext cx="0" cy="0"/><a:chOff x="0" y="0"/><a:chExt cx="0" cy="0"/></a:xfrm></p:grpSpPr>`
)

var funcs = template.FuncMap{
	"xml": func(s string) (string, error) {
		var buf bytes.Buffer
		if err := xml.EscapeText(&buf, []byte(s)); err != nil {
			return "", err
		}
		return buf.String(), nil
	},
	"emu":  emu,
	"add":  func(a, b int) int { return a + b },
	"hund": func(f float64) int64 { return int64(f * 100) },
	"pct":  func(f float64) int64 { return int64(f * 1000) },
}

var contentTypesTmpl = template.Must(template.New("ct").Funcs(funcs).Parse(xmlHeader +
	`<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types">` +
	`<Default Extension="rels" ContentType="application/vnd.openxmlformats-package.relationships+xml"/>` +
	`<Default Extension="xml" ContentType="application/xml"/>` +
	`<Override PartName="/ppt/presentation.xml" ContentType="application/vnd.openxmlformats-officedocument.presentationml.presentation.main+xml"/>` +
	`<Override PartName="/ppt/slideMasters/slideMaster1.xml" ContentType="application/vnd.openxmlformats-officedocument.presentationml.slideMaster+xml"/>` +
	`<Override PartName="/ppt/slideLayouts/slideLayout1.xml" ContentType="application/vnd.openxmlformats-officedocument.presentationml.slideLayout+xml"/>` +
	`<Override PartName="/ppt/theme/theme1.xml" ContentType="application/vnd.openxmlformats-officedocument.theme+xml"/>` +
	`<Override PartName="/ppt/presProps.xml" ContentType="application/vnd.openxmlformats-officedocument.presentationml.presProps+xml"/>` +
	`<Override PartName="/ppt/viewProps.xml" ContentType="application/vnd.openxmlformats-officedocument.presentationml.viewProps+xml"/>` +
	`<Override PartName="/ppt/tableStyles.xml" ContentType="application/vnd.openxmlformats-officedocument.presentationml.tableStyles+xml"/>` +
	`<Override PartName="/docProps/core.xml" ContentType="application/vnd.openxmlformats-package.core-properties+xml"/>` +
	`<Override PartName="/docProps/app.xml" ContentType="application/vnd.openxmlformats-officedocument.extended-properties+xml"/>` +
	`{{range $i, $s := .Slides}}<Override PartName="/ppt/slides/slide{{add $i 1}}.xml" ContentType="application/vnd.openxmlformats-officedocument.presentationml.slide+xml"/>{{end}}` +
	`</Types>`))

const rootRels = xmlHeader + `<Relationships ` + relsNS + `>` +
	`<Relationship Id="rId1" Type="` + relBase + `officeDocument" Target="ppt/presentation.xml"/>` +
	`<Relationship Id="rId2" Type="http://schemas.openxmlformats.org/package/2006/relationships/metadata/core-properties" Target="docProps/core.xml"/>` +
	`<Relationship Id="rId3" Type="` + relBase + `extended-properties" Target="docProps/app.xml"/>` +
	`</Relationships>`

var presentationTmpl = template.Must(template.New("presentation").Funcs(funcs).Parse(xmlHeader +
	`<p:presentation ` + pmlNS + ` saveSubsetFonts="1">` +
	`<p:sldMasterIdLst><p:sldMasterId id="2147483648" r:id="rId1"/></p:sldMasterIdLst>` +
	`{{if .Slides}}<p:sldIdLst>{{range $i, $s := .Slides}}<p:sldId id="{{add $i 256}}" r:id="rId{{add $i 10}}"/>{{end}}</p:sldIdLst>{{end}}` +
	`<p:sldSz cx="{{emu .Width}}" cy="{{emu .Height}}"/>` +
	`<p:notesSz cx="6858000" cy="9144000"/>` +
	`</p:presentation>`))

var presentationRelsTmpl = template.Must(template.New("presentationRels").Funcs(funcs).Parse(xmlHeader +
	`<Relationships ` + relsNS + `>` +
	`<Relationship Id="rId1" Type="` + relBase + `slideMaster" Target="slideMasters/slideMaster1.xml"/>` +
	`<Relationship Id="rId2" Type="` + relBase + `theme" Target="theme/theme1.xml"/>` +
	`<Relationship Id="rId3" Type="` + relBase + `presProps" Target="presProps.xml"/>` +
	`<Relationship Id="rId4" Type="` + relBase + `viewProps" Target="viewProps.xml"/>` +
	`<Relationship Id="rId5" Type="` + relBase + `tableStyles" Target="tableStyles.xml"/>` +
	`{{range $i, $s := .Slides}}<Relationship Id="rId{{add $i 10}}" Type="` + relBase + `slide" Target="slides/slide{{add $i 1}}.xml"/>{{end}}` +
	`</Relationships>`))

const slideMaster = xmlHeader + `<p:sldMaster ` + pmlNS + `>` +
	`<p:cSld><p:bg><p:bgRef idx="1001"><a:schemeClr val="bg1"/></p:bgRef></p:bg>` + emptyTree + `</p:spTree></p:cSld>` +
	`<p:clrMap bg1="lt1" tx1="dk1" bg2="lt2" tx2="dk2" accent1="accent1" accent2="accent2" accent3="accent3" ` +
	`accent4="accent4" accent5="accent5" accent6="accent6" hlink="hlink" folHlink="folHlink"/>` +
	`<p:sldLayoutIdLst><p:sldLayoutId id="2147483649" r:id="rId1"/></p:sldLayoutIdLst>` +
	`</p:sldMaster>`

const slideMasterRels = xmlHeader + `<Relationships ` + relsNS + `>` +
	`<Relationship Id="rId1" Type="` + relBase + `slideLayout" Target="../slideLayouts/slideLayout1.xml"/>` +
	`<Relationship Id="rId2" Type="` + relBase + `theme" Target="../theme/theme1.xml"/>` +
	`</Relationships>`

const slideLayout = xmlHeader + `<p:sldLayout ` + pmlNS + ` type="blank" preserve="1">` +
	`<p:cSld name="Blank">` + emptyTree + `</p:spTree></p:cSld>` +
	`<p:clrMapOvr><a:masterClrMapping/></p:clrMapOvr>` +
	`</p:sldLayout>`

const slideLayoutRels = xmlHeader + `<Relationships ` + relsNS + `>` +
	`<Relationship Id="rId1" Type="` + relBase + `slideMaster" Target="../slideMasters/slideMaster1.xml"/>` +
	`</Relationships>`

const slideRels = xmlHeader + `<Relationships ` + relsNS + `>` +
	`<Relationship Id="rId1" Type="` + relBase + `slideLayout" Target="../slideLayouts/slideLayout1.xml"/>` +
	`</Relationships>`

const themeFill = `<a:solidFill><a:schemeClr val="phClr"/></a:solidFill>`

const theme = xmlHeader + `<a:theme xmlns:a="` + nsA + `" name="SlideGen">` +
	`<a:themeElements>` +
	`<a:clrScheme name="SlideGen">` +
	`<a:dk1><a:sysClr val="windowText" lastClr="000000"/></a:dk1>` +
	`<a:lt1><a:sysClr val="window" lastClr="FFFFFF"/></a:lt1>` +
	`<a:dk2><a:srgbClr val="225E7C"/></a:dk2>` +
	`<a:lt2><a:srgbClr val="EEECE1"/></a:lt2>` +
	`<a:accent1><a:srgbClr val="4F81BD"/></a:accent1>` +
	`<a:accent2><a:srgbClr val="C0504D"/></a:accent2>` +
	`<a:accent3><a:srgbClr val="9BBB59"/></a:accent3>` +
	`<a:accent4><a:srgbClr val="8064A2"/></a:accent4>` +
	`<a:accent5><a:srgbClr val="4BACC6"/></a:accent5>` +
	`<a:accent6><a:srgbClr val="F79646"/></a:accent6>` +
	`<a:hlink><a:srgbClr val="0000FF"/></a:hlink>` +
	`<a:folHlink><a:srgbClr val="800080"/></a:folHlink>` +
	`</a:clrScheme>` +
	`<a:fontScheme name="SlideGen">` +
	`<a:majorFont><a:latin typeface="Arial"/><a:ea typeface=""/><a:cs typeface=""/></a:majorFont>` +
	`<a:minorFont><a:latin typeface="Arial"/><a:ea typeface=""/><a:cs typeface=""/></a:minorFont>` +
	`</a:fontScheme>` +
	`<a:fmtScheme name="SlideGen">` +
	`<a:fillStyleLst>` + themeFill + themeFill + themeFill + `</a:fillStyleLst>` +
	`<a:lnStyleLst>` +
	`<a:ln w="9525">` + themeFill + `</a:ln><a:ln w="25400">` + themeFill + `</a:ln><a:ln w="38100">` + themeFill + `</a:ln>` +
	`</a:lnStyleLst>` +
	`<a:effectStyleLst>` +
	`<a:effectStyle><a:effectLst/></a:effectStyle><a:effectStyle><a:effectLst/></a:effectStyle><a:effectStyle><a:effectLst/></a:effectStyle>` +
	`</a:effectStyleLst>` +
	`<a:bgFillStyleLst>` + themeFill + themeFill + themeFill + `</a:bgFillStyleLst>` +
	`</a:fmtScheme>` +
	`</a:themeElements>` +
	`<a:objectDefaults/><a:extraClrSchemeLst/>` +
	`</a:theme>`

const presProps = xmlHeader + `<p:presentationPr ` + pmlNS + `/>`

const viewProps = xmlHeader + `<p:viewPr ` + pmlNS + `/>`

const tableStyles = xmlHeader + `<a:tblStyleLst xmlns:a="` + nsA + `" def="{5C22544A-7EE6-4342-B048-85BDC9FD1C3A}"/>`

var coreTmpl = template.Must(template.New("core").Funcs(funcs).Parse(xmlHeader +
	`<cp:coreProperties xmlns:cp="http://schemas.openxmlformats.org/package/2006/metadata/core-properties" ` +
	`xmlns:dc="http://purl.org/dc/elements/1.1/" xmlns:dcterms="http://purl.org/dc/terms/" ` +
	`xmlns:xsi="http://www.w3.org/2001/XMLSchema-instance">` +
	`<dc:title>{{xml .Title}}</dc:title><dc:creator>SlideGen</dc:creator>` +
	`<dcterms:created xsi:type="dcterms:W3CDTF">{{.Created}}</dcterms:created>` +
	`<dcterms:modified xsi:type="dcterms:W3CDTF">{{.Created}}</dcterms:modified>` +
	`</cp:coreProperties>`))

var appTmpl = template.Must(template.New("app").Funcs(funcs).Parse(xmlHeader +
	`<Properties xmlns="http://schemas.openxmlformats.org/officeDocument/2006/extended-properties">` +
	`<Application>SlideGen</Application><Slides>{{len .Slides}}</Slides>` +
	`</Properties>`))

// slideTmpl renders one slide: a solid background and a single text box
// holding one paragraph with one run.
var slideTmpl = template.Must(template.New("slide").Funcs(funcs).Parse(xmlHeader +
	`<p:sld ` + pmlNS + `>` +
	`<p:cSld>` +
	`<p:bg><p:bgPr><a:solidFill><a:srgbClr val="{{.Style.Background.Hex}}"/></a:solidFill><a:effectLst/></p:bgPr></p:bg>` +
	emptyTree +
	`<p:sp>` +
	`<p:nvSpPr><p:cNvPr id="2" name="TextBox 1"/><p:cNvSpPr txBox="1"/><p:nvPr/></p:nvSpPr>` +
	`<p:spPr>` +
	`<a:xfrm><a:off x="{{emu .Style.Box.X}}" y="{{emu .Style.Box.Y}}"/><a:ext cx="{{emu .Style.Box.W}}" cy="{{emu .Style.Box.H}}"/></a:xfrm>` +
	`<a:prstGeom prst="rect"><a:avLst/></a:prstGeom>` +
	`<a:solidFill><a:srgbClr val="{{.Style.Fill.Hex}}"/></a:solidFill>` +
	`{{with .Style.Border}}<a:ln><a:solidFill><a:srgbClr val="{{.Hex}}"/></a:solidFill></a:ln>{{end}}` +
	`</p:spPr>` +
	`<p:txBody><a:bodyPr wrap="square" rtlCol="0"/><a:lstStyle/>` +
	`<a:p>` +
	`{{if .Style.LineSpacing}}<a:pPr><a:lnSpc><a:spcPct val="{{pct .Style.LineSpacing}}"/></a:lnSpc></a:pPr>{{end}}` +
	`<a:r><a:rPr lang="en-US" sz="{{hund .Style.FontSize}}" dirty="0">` +
	`<a:solidFill><a:srgbClr val="{{.Style.FontColor.Hex}}"/></a:solidFill>` +
	`<a:latin typeface="{{xml .Style.FontFamily}}"/>` +
	`</a:rPr><a:t>{{xml .Text}}</a:t></a:r>` +
	`</a:p>` +
	`</p:txBody>` +
	`</p:sp>` +
	`</p:spTree>` +
	`</p:cSld>` +
	`<p:clrMapOvr><a:masterClrMapping/></p:clrMapOvr>` +
	`</p:sld>`))
