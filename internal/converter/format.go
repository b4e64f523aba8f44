package converter

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/nconklindev/sweeper/internal/types"
)

var extFormats = map[string]types.Format{
	".csv":  types.FormatCSV,
	".xlsx": types.FormatSpreadsheet,
	".docx": types.FormatWord,
	".pptx": types.FormatSlides,
	".pdf":  types.FormatPDF,
	".json": types.FormatJSON,
}

// DetectFormat derives the source format from a file name's extension.
func DetectFormat(fileName string) (types.Format, error) {
	ext := strings.ToLower(filepath.Ext(fileName))
	if f, ok := extFormats[ext]; ok {
		return f, nil
	}
	if ext == "" {
		return "", fmt.Errorf("%w: %s has no extension", ErrUnsupportedFormat, fileName)
	}
	return "", fmt.Errorf("%w: %s", ErrUnsupportedFormat, ext)
}

// ParseFormat maps a user-facing export label onto a format.
func ParseFormat(label string) (types.Format, error) {
	switch strings.ToLower(strings.TrimSpace(label)) {
	case "csv":
		return types.FormatCSV, nil
	case "spreadsheet", "excel", "xlsx":
		return types.FormatSpreadsheet, nil
	case "word", "docx":
		return types.FormatWord, nil
	case "slides", "powerpoint", "pptx":
		return types.FormatSlides, nil
	case "pdf":
		return types.FormatPDF, nil
	case "json":
		return types.FormatJSON, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, label)
	}
}

// Extension returns the canonical file extension, dot included.
func Extension(f types.Format) string {
	switch f {
	case types.FormatCSV:
		return ".csv"
	case types.FormatSpreadsheet:
		return ".xlsx"
	case types.FormatWord:
		return ".docx"
	case types.FormatSlides:
		return ".pptx"
	case types.FormatPDF:
		return ".pdf"
	case types.FormatJSON:
		return ".json"
	}
	return ""
}

// MIME returns the registered media type for the format.
func MIME(f types.Format) string {
	switch f {
	case types.FormatCSV:
		return "text/csv"
	case types.FormatSpreadsheet:
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	case types.FormatWord:
		return "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	case types.FormatSlides:
		return "application/vnd.openxmlformats-officedocument.presentationml.presentation"
	case types.FormatPDF:
		return "application/pdf"
	case types.FormatJSON:
		return "application/json"
	}
	return ""
}

// Label is the name shown in menus.
func Label(f types.Format) string {
	switch f {
	case types.FormatCSV:
		return "CSV"
	case types.FormatSpreadsheet:
		return "Excel"
	case types.FormatWord:
		return "Word"
	case types.FormatSlides:
		return "PowerPoint"
	case types.FormatPDF:
		return "PDF"
	case types.FormatJSON:
		return "JSON"
	}
	return string(f)
}

// OutputName swaps the extension of sourceName for the one belonging to f.
func OutputName(sourceName string, f types.Format) string {
	base := filepath.Base(sourceName)
	return strings.TrimSuffix(base, filepath.Ext(base)) + Extension(f)
}
