package iso20022

import (
	"fmt"
	"strings"

	"github.com/beevik/etree"
)

// DetectMessageType reads the root namespace, or failing that the first
// child element of Document, and maps the document to the closed
// MessageType set. Unrecognized but well-formed documents return
// MessageTypeUnsupported with a nil error; malformed XML returns
// ErrParse.
func DetectMessageType(xmlContent string) (MessageType, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromString(xmlContent); err != nil {
		return MessageTypeUnsupported, fmt.Errorf("%w: %v", ErrParse, err)
	}
	root := doc.Root()
	if root == nil {
		return MessageTypeUnsupported, fmt.Errorf("%w: document has no root element", ErrParse)
	}

	// Namespace declaration carries the full message identifier.
	for _, attr := range root.Attr {
		if attr.Key != "xmlns" && attr.Space != "xmlns" {
			continue
		}
		if id, ok := strings.CutPrefix(attr.Value, namespacePrefix); ok {
			t := MessageType(id)
			if _, supported := rootElements[t]; supported {
				return t, nil
			}
		}
	}

	// Fall back to the identifying child element of Document.
	for t, local := range rootElements {
		if findDescendant(root, local) != nil {
			return t, nil
		}
	}

	return MessageTypeUnsupported, nil
}
