package blueprint

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/gonvenience/ytbx"
	"github.com/homeport/dyff/pkg/dyff"
)

// Diff compares an existing render.yaml with a freshly compiled one and
// returns a human-readable report. Identical documents yield "".
func Diff(existing, compiled []byte, useColor bool) (string, error) {
	if len(bytes.TrimSpace(existing)) == 0 && len(bytes.TrimSpace(compiled)) == 0 {
		return "", nil
	}

	from, err := input("existing", existing)
	if err != nil {
		return "", fmt.Errorf("parsing existing blueprint: %w", err)
	}
	to, err := input("compiled", compiled)
	if err != nil {
		return "", fmt.Errorf("parsing compiled blueprint: %w", err)
	}

	report, err := dyff.CompareInputFiles(from, to)
	if err != nil {
		return "", fmt.Errorf("comparing blueprints: %w", err)
	}
	if len(report.Diffs) == 0 {
		return "", nil
	}

	var buf bytes.Buffer
	w := &dyff.HumanReport{
		Report:            report,
		DoNotInspectCerts: true,
		NoTableStyle:      !useColor,
		OmitHeader:        true,
	}
	if err := w.WriteReport(&buf); err != nil {
		return "", fmt.Errorf("writing diff report: %w", err)
	}

	lines := strings.Split(buf.String(), "\n")
	for i, line := range lines {
		lines[i] = strings.TrimRight(line, " \t")
	}
	return strings.TrimSpace(strings.Join(lines, "\n")), nil
}

func input(name string, data []byte) (ytbx.InputFile, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return ytbx.InputFile{Location: name}, nil
	}
	docs, err := ytbx.LoadYAMLDocuments(data)
	if err != nil {
		return ytbx.InputFile{}, err
	}
	return ytbx.InputFile{Location: name, Documents: docs}, nil
}
