package extract

import (
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/agentflare-ai/go-xmldom"
)

// ErrMalformedReport is returned when a validator report cannot be parsed or
// lacks an element the extractor requires.
var ErrMalformedReport = errors.New("malformed report")

// decode parses a report into a DOM and returns its document element
func decode(r io.Reader) (xmldom.Element, error) {
	doc, err := xmldom.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedReport, err)
	}
	root := doc.DocumentElement()
	if root == nil {
		return nil, fmt.Errorf("%w: no document element", ErrMalformedReport)
	}
	return root, nil
}

// elements returns the descendants of parent with the given namespace and
// local name, in document order. veraPDF reports carry no namespace, so ns
// is empty for them.
func elements(parent xmldom.Element, ns, local string) []xmldom.Element {
	return asElements(parent.GetElementsByTagNameNS(xmldom.DOMString(ns), xmldom.DOMString(local)))
}

// children returns the direct element children of parent matching ns and local
func children(parent xmldom.Element, ns, local string) []xmldom.Element {
	var out []xmldom.Element
	for _, el := range asElements(parent.ChildNodes()) {
		if string(el.LocalName()) == local && string(el.NamespaceURI()) == ns {
			out = append(out, el)
		}
	}
	return out
}

func first(els []xmldom.Element) xmldom.Element {
	if len(els) == 0 {
		return nil
	}
	return els[0]
}

func last(els []xmldom.Element) xmldom.Element {
	if len(els) == 0 {
		return nil
	}
	return els[len(els)-1]
}

func asElements(list xmldom.NodeList) []xmldom.Element {
	if list == nil {
		return nil
	}
	out := make([]xmldom.Element, 0, list.Length())
	for i := uint(0); i < list.Length(); i++ {
		if el, ok := list.Item(i).(xmldom.Element); ok {
			out = append(out, el)
		}
	}
	return out
}

func attr(el xmldom.Element, name string) (string, bool) {
	if !el.HasAttribute(xmldom.DOMString(name)) {
		return "", false
	}
	return string(el.GetAttribute(xmldom.DOMString(name))), true
}

func text(el xmldom.Element) string {
	if el == nil {
		return ""
	}
	return strings.TrimSpace(string(el.TextContent()))
}

// sortedSet returns the distinct non-empty values in lexical order
func sortedSet(values map[string]struct{}) []string {
	out := make([]string, 0, len(values))
	for v := range values {
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}

func withFile[T any](path string, fn func(io.Reader) (T, error)) (T, error) {
	var zero T
	f, err := os.Open(path)
	if err != nil {
		return zero, fmt.Errorf("open report %s: %w", path, err)
	}
	defer f.Close()

	v, err := fn(f)
	if err != nil {
		return zero, fmt.Errorf("%s: %w", path, err)
	}
	return v, nil
}
