package output

import "strings"

// Format specifies the output format.
type Format string

const (
	// FormatYAML outputs in YAML format.
	FormatYAML Format = "yaml"

	// FormatJSON outputs in JSON format.
	FormatJSON Format = "json"

	// FormatTable outputs in table format.
	FormatTable Format = "table"
)

// String returns the string representation of the output format.
func (f Format) String() string {
	return string(f)
}

// IsValid checks if the output format is valid.
func (f Format) IsValid() bool {
	switch f {
	case FormatYAML, FormatJSON, FormatTable:
		return true
	default:
		return false
	}
}

// ParseFormat parses a string into a Format.
// Returns FormatYAML if the string is empty or invalid.
func ParseFormat(s string) Format {
	switch strings.ToLower(s) {
	case "yaml", "yml":
		return FormatYAML
	case "json":
		return FormatJSON
	case "table":
		return FormatTable
	default:
		return FormatYAML
	}
}

// ValidBlueprintFormats returns valid formats for manifest output.
func ValidBlueprintFormats() []string {
	return []string{"yaml", "json"}
}

// ValidListFormats returns valid formats for the components listing.
func ValidListFormats() []string {
	return []string{"table", "json", "yaml"}
}
