package extract

import (
	"io"

	"github.com/agentflare-ai/go-xmldom"
)

// ParseOutcome summarises the PARSE task and log messages of a veraPDF job
type ParseOutcome struct {
	ParseErrorOccurred bool `json:"parseErrorOccurred"`
	WarningOccurred    bool `json:"warningOccurred"`
	// ErrorLogged is set for ERROR level log messages. It is not part of the
	// dataset.
	ErrorLogged bool `json:"errorLogged"`
}

// VeraParseOutcome scans a veraPDF report. Flags are evaluated per job and the
// last job in the report wins; reports hold a single job in practice.
// Missing jobs, task results or logs leave the flags false.
func VeraParseOutcome(r io.Reader) (ParseOutcome, error) {
	root, err := decode(r)
	if err != nil {
		return ParseOutcome{}, err
	}

	job := last(elements(root, "", "job"))
	if job == nil {
		return ParseOutcome{}, nil
	}
	return jobOutcome(job), nil
}

func jobOutcome(job xmldom.Element) ParseOutcome {
	var out ParseOutcome

	for _, task := range elements(job, "", "taskResult") {
		if typ, _ := attr(task, "type"); typ != "PARSE" {
			continue
		}
		if ok, _ := attr(task, "isSuccess"); ok == "false" {
			out.ParseErrorOccurred = true
			break
		}
	}

	for _, logs := range elements(job, "", "logs") {
		for _, msg := range children(logs, "", "logMessage") {
			switch level, _ := attr(msg, "level"); level {
			case "WARNING":
				out.WarningOccurred = true
			case "ERROR":
				out.ErrorLogged = true
			}
		}
	}

	return out
}

// VeraParseOutcomeFile reads the parse outcome from the veraPDF report at path
func VeraParseOutcomeFile(path string) (ParseOutcome, error) {
	return withFile(path, VeraParseOutcome)
}

// VeraLabeledValues collects a value from every element named sectionName in
// the last job of a veraPDF report. The value is the fieldName attribute when
// present, otherwise the text of the first descendant element fieldName.
// ("action", "type") gives action types and ("annotation", "subType") gives
// annotation subtypes. The result is deduplicated and sorted.
func VeraLabeledValues(r io.Reader, sectionName, fieldName string) ([]string, error) {
	root, err := decode(r)
	if err != nil {
		return nil, err
	}

	values := make(map[string]struct{})
	job := last(elements(root, "", "job"))
	if job == nil {
		return sortedSet(values), nil
	}

	for _, entry := range elements(job, "", sectionName) {
		v, ok := attr(entry, fieldName)
		if !ok {
			v = text(first(elements(entry, "", fieldName)))
		}
		if v != "" {
			values[v] = struct{}{}
		}
	}

	return sortedSet(values), nil
}

// VeraAnnotationSubtypesFile returns the annotation subtypes in the veraPDF
// report at path
func VeraAnnotationSubtypesFile(path string) ([]string, error) {
	return withFile(path, func(r io.Reader) ([]string, error) {
		return VeraLabeledValues(r, "annotation", "subType")
	})
}

// VeraActionTypesFile returns the action types in the veraPDF report at path
func VeraActionTypesFile(path string) ([]string, error) {
	return withFile(path, func(r io.Reader) ([]string, error) {
		return VeraLabeledValues(r, "action", "type")
	})
}
