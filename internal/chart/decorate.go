package chart

import (
	"errors"
	"fmt"

	"github.com/beevik/etree"
)

// ErrMissingElement is returned by Decorate when a patch or tooltip ID is
// not present in the document.
var ErrMissingElement = errors.New("svg element not found")

// tooltipScript toggles the tooltip whose index suffix matches the hovered
// patch.
const tooltipScript = `
var svgDocument = null;

function init(evt) {
    if (svgDocument == null) {
        svgDocument = evt.target.ownerDocument;
    }
}

function setTooltipVisibility(obj, visibility) {
    var index = obj.id.split("_")[1];
    var tip = svgDocument.getElementById("tooltip_" + index);
    if (tip != null) {
        tip.setAttribute("visibility", visibility);
    }
}

function ShowTooltip(obj) {
    setTooltipVisibility(obj, "visible");
}

function HideTooltip(obj) {
    setTooltipVisibility(obj, "hidden");
}
`

// Decorate makes a rendered chart interactive: the first count tooltips are
// hidden, their patches show them on hover, and the toggle script is
// inserted as the first child of the root element.
func Decorate(data []byte, count int) ([]byte, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(data); err != nil {
		return nil, fmt.Errorf("parsing svg: %w", err)
	}
	root := doc.Root()
	if root == nil || root.Tag != "svg" {
		return nil, fmt.Errorf("parsing svg: root element is not <svg>")
	}

	byID := make(map[string]*etree.Element)
	indexIDs(root, byID)

	for i := 0; i < count; i++ {
		tip, ok := byID[TooltipID(i)]
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrMissingElement, TooltipID(i))
		}
		patch, ok := byID[PatchID(i)]
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrMissingElement, PatchID(i))
		}
		tip.CreateAttr("visibility", "hidden")
		patch.CreateAttr("onmouseover", "ShowTooltip(this)")
		patch.CreateAttr("onmouseout", "HideTooltip(this)")
	}

	root.CreateAttr("onload", "init(evt)")

	script := etree.NewElement("script")
	script.CreateAttr("type", "text/ecmascript")
	script.CreateCData(tooltipScript)
	root.InsertChildAt(0, script)

	out, err := doc.WriteToBytes()
	if err != nil {
		return nil, fmt.Errorf("writing svg: %w", err)
	}
	return out, nil
}

func indexIDs(e *etree.Element, byID map[string]*etree.Element) {
	if id := e.SelectAttrValue("id", ""); id != "" {
		byID[id] = e
	}
	for _, child := range e.ChildElements() {
		indexIDs(child, byID)
	}
}
