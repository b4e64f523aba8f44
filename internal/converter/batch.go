package converter

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/nconklindev/sweeper/internal/types"
)

// Steps selects the optional cleaning transforms run between ingestion and
// export. They apply in field order.
type Steps struct {
	RemoveDuplicates bool
	FillMissing      bool
	Columns          []string
}

// Apply runs the selected steps over t.
func (s Steps) Apply(t *types.Table) (*types.Table, error) {
	if s.RemoveDuplicates {
		t = RemoveDuplicates(t)
	}
	if s.FillMissing {
		t = FillMissingNumeric(t)
	}
	if len(s.Columns) > 0 {
		return SelectColumns(t, s.Columns)
	}
	return t, nil
}

// Job describes one file to convert.
type Job struct {
	Path   string
	Target types.Format
	Steps  Steps
	// OutDir defaults to the directory of Path.
	OutDir string
}

// BatchResult holds the outcome of a batch conversion run.
type BatchResult struct {
	Converted int
	Failed    int
}

func (r BatchResult) Total() int {
	return r.Converted + r.Failed
}

func (r BatchResult) HasFailures() bool {
	return r.Failed > 0
}

// OutputPath places fileName in outDir, or next to source when outDir is
// empty. A path that would overwrite source gets a "_converted" suffix.
func OutputPath(source, outDir, fileName string) string {
	if outDir == "" {
		outDir = filepath.Dir(source)
	}
	out := filepath.Join(outDir, fileName)

	srcAbs, err1 := filepath.Abs(source)
	outAbs, err2 := filepath.Abs(out)
	if err1 == nil && err2 == nil && srcAbs == outAbs {
		ext := filepath.Ext(fileName)
		out = filepath.Join(outDir, strings.TrimSuffix(fileName, ext)+"_converted"+ext)
	}
	return out
}

// ConvertFile runs the whole pipeline for one job and writes the result.
// It returns the conversion result and the path written.
func (e *Exporter) ConvertFile(job Job) (*types.ConversionResult, string, error) {
	format, err := DetectFormat(job.Path)
	if err != nil {
		return nil, "", err
	}

	data, err := os.ReadFile(job.Path)
	if err != nil {
		return nil, "", err
	}

	table, _, err := Normalize(data, format)
	if err != nil {
		return nil, "", err
	}

	table, err = job.Steps.Apply(table)
	if err != nil {
		return nil, "", err
	}

	result, err := e.Serialize(table, job.Target, filepath.Base(job.Path))
	if err != nil {
		return nil, "", err
	}
	result.InputFile = job.Path

	outPath := OutputPath(job.Path, job.OutDir, result.FileName)
	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return nil, "", err
	}
	if err := os.WriteFile(outPath, result.Data, 0o644); err != nil {
		return nil, "", err
	}
	return result, outPath, nil
}

// RunBatch converts every job, printing one status line per file to w. A
// failing file is reported and skipped; it never stops the batch.
func RunBatch(e *Exporter, jobs []Job, w io.Writer) BatchResult {
	var result BatchResult
	for _, job := range jobs {
		res, outPath, err := e.ConvertFile(job)
		if err != nil {
			log.Warn().Err(err).Str("file", job.Path).Msg("conversion failed")
			fmt.Fprintf(w, "failed:    %s (%v)\n", job.Path, err)
			result.Failed++
			continue
		}
		fmt.Fprintf(w, "converted: %s -> %s (%d rows)\n", job.Path, outPath, res.RowsProcessed)
		result.Converted++
	}
	fmt.Fprintf(w, "\nBatch summary: %d converted, %d failed (total: %d)\n",
		result.Converted, result.Failed, result.Total())
	return result
}
