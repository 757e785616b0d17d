package extract

import (
	"fmt"
	"io"

	"github.com/agentflare-ai/go-xmldom"
)

// JhoveNamespace is the XML namespace of JHOVE reports
const JhoveNamespace = "http://schema.openpreservation.org/ois/xml/ns/jhove"

// JhoveStatus returns the validation status of the first repInfo section
// of a JHOVE XML report.
func JhoveStatus(r io.Reader) (string, error) {
	root, err := decode(r)
	if err != nil {
		return "", err
	}

	repInfo := first(elements(root, JhoveNamespace, "repInfo"))
	if repInfo == nil {
		return "", fmt.Errorf("%w: no repInfo element", ErrMalformedReport)
	}

	status := text(first(elements(repInfo, JhoveNamespace, "status")))
	if status == "" {
		return "", fmt.Errorf("%w: repInfo has no status", ErrMalformedReport)
	}

	return status, nil
}

// JhoveStatusFile reads the status from the JHOVE report at path
func JhoveStatusFile(path string) (string, error) {
	return withFile(path, JhoveStatus)
}

// JhoveLabeledValues collects the values of the properties named fieldName
// nested inside every property named sectionName, e.g. ("Annotation",
// "Subtype") yields the annotation subtypes of the document. When a report
// holds several repInfo sections the last one wins. The result is
// deduplicated and sorted; a report without matches gives an empty slice.
func JhoveLabeledValues(r io.Reader, sectionName, fieldName string) ([]string, error) {
	root, err := decode(r)
	if err != nil {
		return nil, err
	}

	values := make(map[string]struct{})
	repInfo := last(elements(root, JhoveNamespace, "repInfo"))
	if repInfo == nil {
		return sortedSet(values), nil
	}

	for _, section := range elements(repInfo, JhoveNamespace, "property") {
		if propertyName(section) != sectionName {
			continue
		}
		for _, prop := range elements(section, JhoveNamespace, "property") {
			if propertyName(prop) != fieldName {
				continue
			}
			if v := text(first(elements(prop, JhoveNamespace, "value"))); v != "" {
				values[v] = struct{}{}
			}
		}
	}

	return sortedSet(values), nil
}

func propertyName(prop xmldom.Element) string {
	return text(first(children(prop, JhoveNamespace, "name")))
}

// JhoveAnnotationSubtypesFile returns the annotation subtypes listed in the
// JHOVE report at path
func JhoveAnnotationSubtypesFile(path string) ([]string, error) {
	return withFile(path, func(r io.Reader) ([]string, error) {
		return JhoveLabeledValues(r, "Annotation", "Subtype")
	})
}
