package ui

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/bubbles/filepicker"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog/log"

	"github.com/nconklindev/sweeper/internal/converter"
	"github.com/nconklindev/sweeper/internal/types"
)

type state int

const (
	stateFilePicker state = iota
	statePreview
	stateColumnSelection
	stateFormatSelection
	stateExporting
	stateComplete
	stateError
)

// Confirmation keys, combined with the file name.
const (
	actionDedup = "remove_duplicates"
	actionFill  = "fill_missing"
)

// Options wires the UI to the conversion pipeline.
type Options struct {
	Exporter    *converter.Exporter
	OutputDir   string
	PreviewRows int
	StartDir    string
}

type Model struct {
	state        state
	opts         Options
	filepicker   filepicker.Model
	spinner      spinner.Model
	selectedFile string
	fileSize     int64
	table        *types.Table
	preview      string
	selectedCols map[int]bool
	cursor       int
	formatCursor int
	showChart    bool
	// confirmed remembers which cleaning actions already ran for which file,
	// so their confirmation stays visible.
	confirmed  map[string]bool
	status     string
	result     *types.ConversionResult
	outputPath string
	err        error
	width      int
	height     int
}

type fileLoadedMsg struct {
	size    int64
	table   *types.Table
	preview string
	err     error
}

type exportCompleteMsg struct {
	result *types.ConversionResult
	path   string
	err    error
}

var allowedTypes = []string{".csv", ".xlsx", ".docx", ".pptx", ".pdf", ".json"}

func InitialModel(opts Options) Model {
	if opts.Exporter == nil {
		opts.Exporter = converter.NewExporter(converter.DefaultExportOptions())
	}
	if opts.PreviewRows <= 0 {
		opts.PreviewRows = 5
	}

	fp := filepicker.New()
	fp.AllowedTypes = allowedTypes
	fp.CurrentDirectory = opts.StartDir
	if fp.CurrentDirectory == "" {
		fp.CurrentDirectory, _ = os.Getwd()
	}

	// Set filepicker colors to match theme
	fp.Styles.Cursor = lipgloss.NewStyle().Foreground(lipgloss.Color("#4CAF50"))
	fp.Styles.Symlink = lipgloss.NewStyle().Foreground(lipgloss.Color("#F8B501"))
	fp.Styles.Directory = lipgloss.NewStyle().Foreground(lipgloss.Color("#F8B501"))
	fp.Styles.File = lipgloss.NewStyle().Foreground(lipgloss.Color("#FFFFFF"))
	fp.Styles.Permission = lipgloss.NewStyle().Foreground(lipgloss.Color("#6B7280"))
	fp.Styles.Selected = lipgloss.NewStyle().Foreground(lipgloss.Color("#4CAF50")).Bold(true)
	fp.Styles.FileSize = lipgloss.NewStyle().Foreground(lipgloss.Color("#6B7280"))

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = SelectedStyle

	return Model{
		state:        stateFilePicker,
		opts:         opts,
		filepicker:   fp,
		spinner:      sp,
		selectedCols: make(map[int]bool),
		confirmed:    make(map[string]bool),
	}
}

func (m Model) Init() tea.Cmd {
	return m.filepicker.Init()
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

		// Leave room for the title, subtitle and help lines.
		height := msg.Height - 14
		if height < 5 {
			height = 5
		}

		m.filepicker.SetHeight(height)

		return m, nil

	case tea.KeyMsg:
		switch m.state {
		case stateFilePicker:
			switch msg.String() {
			case "ctrl+c", "q":
				return m, tea.Quit
			}

		case statePreview:
			return m.updatePreview(msg)

		case stateColumnSelection:
			return m.updateColumnSelection(msg)

		case stateFormatSelection:
			return m.updateFormatSelection(msg)

		case stateExporting:
			if msg.String() == "ctrl+c" {
				return m, tea.Quit
			}
			return m, nil

		case stateComplete, stateError:
			switch msg.String() {
			case "ctrl+c", "q":
				return m, tea.Quit
			case "enter", "esc":
				return m.reset(), nil
			}
		}

	case fileLoadedMsg:
		if msg.err != nil {
			log.Warn().Err(msg.err).Str("file", m.selectedFile).Msg("could not load file")
			m.err = msg.err
			m.state = stateError
			return m, nil
		}
		m.table = msg.table
		m.preview = msg.preview
		m.fileSize = msg.size
		m.state = statePreview
		return m, nil

	case exportCompleteMsg:
		if msg.err != nil {
			log.Warn().Err(msg.err).Str("file", m.selectedFile).Msg("export failed")
			m.err = msg.err
			m.state = stateError
			return m, nil
		}
		m.result = msg.result
		m.outputPath = msg.path
		m.state = stateComplete
		return m, nil

	case spinner.TickMsg:
		if m.state == stateExporting {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			return m, cmd
		}
		return m, nil
	}

	// Handle filepicker updates
	if m.state == stateFilePicker {
		var cmd tea.Cmd
		m.filepicker, cmd = m.filepicker.Update(msg)

		if didSelect, path := m.filepicker.DidSelectFile(msg); didSelect {
			m.selectedFile = path
			return m, m.loadFile(path)
		}

		return m, cmd
	}

	return m, nil
}

func (m Model) updatePreview(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	name := filepath.Base(m.selectedFile)

	switch msg.String() {
	case "ctrl+c", "q":
		return m, tea.Quit
	case "esc":
		return m.reset(), nil
	case "d":
		before := m.table.NumRows()
		m.table = converter.RemoveDuplicates(m.table)
		m.confirmed[confirmKey(actionDedup, name)] = true
		m.status = fmt.Sprintf("%d duplicate row(s) dropped", before-m.table.NumRows())
	case "f":
		m.table = converter.FillMissingNumeric(m.table)
		m.confirmed[confirmKey(actionFill, name)] = true
		m.status = ""
	case "c":
		m.selectedCols = make(map[int]bool, len(m.table.Columns))
		for i := range m.table.Columns {
			m.selectedCols[i] = true
		}
		m.cursor = 0
		m.state = stateColumnSelection
	case "g":
		m.showChart = !m.showChart
	case "e":
		m.state = stateFormatSelection
	}
	return m, nil
}

func (m Model) updateColumnSelection(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "q":
		return m, tea.Quit
	case "esc":
		m.state = statePreview
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.table.Columns)-1 {
			m.cursor++
		}
	case " ":
		m.selectedCols[m.cursor] = !m.selectedCols[m.cursor]
	case "a":
		for i := range m.table.Columns {
			m.selectedCols[i] = true
		}
	case "enter":
		var names []string
		for i, name := range m.table.Columns {
			if m.selectedCols[i] {
				names = append(names, name)
			}
		}
		if len(names) == 0 {
			m.status = "Select at least one column"
			return m, nil
		}
		selected, err := converter.SelectColumns(m.table, names)
		if err != nil {
			// The displayed table stays as it was.
			m.status = err.Error()
		} else {
			m.table = selected
			m.status = fmt.Sprintf("Kept %d column(s)", len(names))
		}
		m.state = statePreview
	}
	return m, nil
}

func (m Model) updateFormatSelection(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "q":
		return m, tea.Quit
	case "esc":
		m.state = statePreview
	case "up", "k":
		if m.formatCursor > 0 {
			m.formatCursor--
		}
	case "down", "j":
		if m.formatCursor < len(types.Formats)-1 {
			m.formatCursor++
		}
	case "enter":
		m.state = stateExporting
		return m, tea.Batch(m.spinner.Tick, m.exportFile(types.Formats[m.formatCursor]))
	}
	return m, nil
}

// reset returns to the file picker, keeping the per-file confirmations.
func (m Model) reset() Model {
	m.state = stateFilePicker
	m.selectedFile = ""
	m.fileSize = 0
	m.table = nil
	m.preview = ""
	m.selectedCols = make(map[int]bool)
	m.cursor = 0
	m.showChart = false
	m.status = ""
	m.result = nil
	m.outputPath = ""
	m.err = nil
	return m
}

func confirmKey(action, fileName string) string {
	return action + "_" + fileName
}

func (m Model) loadFile(path string) tea.Cmd {
	return func() tea.Msg {
		format, err := converter.DetectFormat(path)
		if err != nil {
			return fileLoadedMsg{err: err}
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return fileLoadedMsg{err: err}
		}
		table, preview, err := converter.Normalize(data, format)
		return fileLoadedMsg{size: int64(len(data)), table: table, preview: preview, err: err}
	}
}

func (m Model) exportFile(format types.Format) tea.Cmd {
	table := m.table
	source := m.selectedFile
	exporter := m.opts.Exporter
	outDir := m.opts.OutputDir

	return func() tea.Msg {
		result, err := exporter.Serialize(table, format, filepath.Base(source))
		if err != nil {
			return exportCompleteMsg{err: err}
		}
		result.InputFile = source

		path := converter.OutputPath(source, outDir, result.FileName)
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return exportCompleteMsg{err: err}
		}
		if err := os.WriteFile(path, result.Data, 0o644); err != nil {
			return exportCompleteMsg{err: err}
		}
		log.Info().Str("file", path).Str("mime", result.MIME).Msg("exported")
		return exportCompleteMsg{result: result, path: path}
	}
}
