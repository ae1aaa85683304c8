// ABOUTME: File picker TUI component for choosing a piece's proof image
// ABOUTME: Shows recent images, a path input, and the images found in a directory

package filepicker

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/markalston/gestao-pecas/internal/app"
	"github.com/markalston/gestao-pecas/internal/tui/icons"
	"github.com/markalston/gestao-pecas/internal/tui/recentfiles"
	"github.com/markalston/gestao-pecas/internal/tui/styles"
)

type state int

const (
	stateList state = iota
	stateInput
	stateBrowse
)

// FileSelectedMsg is sent when an image is selected
type FileSelectedMsg struct {
	Path string
	Data []byte
}

// CancelledMsg is sent when the user cancels
type CancelledMsg struct{}

// FilePicker is the proof image selection component
type FilePicker struct {
	recentFiles []string
	images      []string
	browseDir   string
	cursor      int
	state       state
	textInput   textinput.Model
	err         string
	width       int
	height      int
}

var (
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(styles.Primary)
	selectedStyle = lipgloss.NewStyle().Foreground(styles.Accent)
	normalStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	errorStyle    = lipgloss.NewStyle().Foreground(styles.Danger)
	helpStyle     = lipgloss.NewStyle().Foreground(styles.Muted)
	dividerStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("238"))
)

// New creates a picker over the recent images and the images inside browseDir
func New(recentFiles []string, browseDir string) *FilePicker {
	ti := textinput.New()
	ti.Placeholder = "~/Imagens/print.png"
	ti.CharLimit = 256
	ti.Width = 60

	images, _ := DiscoverImages(browseDir)

	return &FilePicker{
		recentFiles: recentFiles,
		images:      images,
		browseDir:   browseDir,
		state:       stateList,
		textInput:   ti,
	}
}

// DiscoverImages lists the image files directly inside dir, sorted by name.
// A missing directory yields an empty list.
func DiscoverImages(dir string) ([]string, error) {
	if dir == "" {
		return nil, nil
	}
	entries, err := os.ReadDir(dir)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var files []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if recentfiles.IsImage(entry.Name()) {
			files = append(files, filepath.Join(dir, entry.Name()))
		}
	}
	slices.Sort(files)
	return files, nil
}

// Init implements tea.Model
func (fp *FilePicker) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model
func (fp *FilePicker) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		fp.width = msg.Width
		fp.height = msg.Height
		return fp, nil

	case tea.KeyMsg:
		fp.err = ""

		switch fp.state {
		case stateList:
			return fp.updateList(msg)
		case stateInput:
			return fp.updateInput(msg)
		case stateBrowse:
			return fp.updateBrowse(msg)
		}
	}

	return fp, nil
}

// InInput reports whether the path input has focus
func (fp *FilePicker) InInput() bool {
	return fp.state == stateInput
}

func (fp *FilePicker) updateList(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	maxItems := fp.listItemCount()

	switch msg.String() {
	case "up", "k":
		if fp.cursor > 0 {
			fp.cursor--
		}
	case "down", "j":
		if fp.cursor < maxItems-1 {
			fp.cursor++
		}
	case "enter":
		return fp.selectListItem()
	case "esc", "b":
		return fp, func() tea.Msg { return CancelledMsg{} }
	}

	return fp, nil
}

func (fp *FilePicker) updateInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		fp.state = stateList
		fp.textInput.SetValue("")
		return fp, nil
	case "enter":
		path := strings.TrimSpace(fp.textInput.Value())
		if path == "" {
			fp.err = "Informe o caminho da imagem"
			return fp, nil
		}
		return fp.loadFile(path)
	}

	var cmd tea.Cmd
	fp.textInput, cmd = fp.textInput.Update(msg)
	return fp, cmd
}

func (fp *FilePicker) updateBrowse(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	maxItems := len(fp.images) + 1 // [voltar]

	switch msg.String() {
	case "up", "k":
		if fp.cursor > 0 {
			fp.cursor--
		}
	case "down", "j":
		if fp.cursor < maxItems-1 {
			fp.cursor++
		}
	case "enter":
		if fp.cursor == len(fp.images) {
			fp.state = stateList
			fp.cursor = 0
			return fp, nil
		}
		return fp.loadFile(fp.images[fp.cursor])
	case "esc", "b":
		fp.state = stateList
		fp.cursor = 0
		return fp, nil
	}

	return fp, nil
}

func (fp *FilePicker) listItemCount() int {
	count := len(fp.recentFiles) + 1 // "Digitar caminho..."
	if len(fp.images) > 0 {
		count++
	}
	return count
}

func (fp *FilePicker) selectListItem() (tea.Model, tea.Cmd) {
	recentCount := len(fp.recentFiles)

	if fp.cursor < recentCount {
		return fp.loadFile(fp.recentFiles[fp.cursor])
	}

	if fp.cursor == recentCount {
		fp.state = stateInput
		fp.textInput.Focus()
		return fp, textinput.Blink
	}

	if len(fp.images) > 0 && fp.cursor == recentCount+1 {
		fp.state = stateBrowse
		fp.cursor = 0
		return fp, nil
	}

	return fp, nil
}

// loadFile reads an image after checking it exists and fits the size limit
func (fp *FilePicker) loadFile(path string) (tea.Model, tea.Cmd) {
	expandedPath := expandPath(path)

	info, err := os.Stat(expandedPath)
	switch {
	case os.IsNotExist(err):
		fp.err = "Arquivo não encontrado: " + path
		return fp, nil
	case err != nil:
		fp.err = "Erro ao ler arquivo: " + err.Error()
		return fp, nil
	case info.IsDir():
		fp.err = "Selecione um arquivo, não uma pasta"
		return fp, nil
	case info.Size() > app.MaxProofSize:
		fp.err = app.MsgProofTooLarge
		return fp, nil
	}

	data, err := os.ReadFile(expandedPath)
	if err != nil {
		if os.IsPermission(err) {
			fp.err = "Sem permissão para ler o arquivo"
		} else {
			fp.err = "Erro ao ler arquivo: " + err.Error()
		}
		return fp, nil
	}

	return fp, func() tea.Msg {
		return FileSelectedMsg{Path: expandedPath, Data: data}
	}
}

// expandPath expands ~ to the home directory
func expandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, path[2:])
		}
	} else if path == "~" {
		if home, err := os.UserHomeDir(); err == nil {
			return home
		}
	}
	return path
}

// SetError sets an error message to display
func (fp *FilePicker) SetError(msg string) {
	fp.err = msg
}

// View implements tea.Model
func (fp *FilePicker) View() string {
	switch fp.state {
	case stateInput:
		return fp.viewInput()
	case stateBrowse:
		return fp.viewBrowse()
	default:
		return fp.viewList()
	}
}

func (fp *FilePicker) item(b *strings.Builder, idx int, label string) {
	cursor := "  "
	style := normalStyle
	if fp.cursor == idx {
		cursor = "> "
		style = selectedStyle
	}
	b.WriteString(cursor + style.Render(label) + "\n")
}

func (fp *FilePicker) shorten(path string) string {
	if len(path) > fp.width-10 && fp.width > 20 {
		return "..." + path[len(path)-(fp.width-13):]
	}
	return path
}

func (fp *FilePicker) viewList() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render(icons.Image.String() + " Selecionar comprovação (print)"))
	b.WriteString("\n\n")

	if len(fp.recentFiles) > 0 {
		b.WriteString(helpStyle.Render("Recentes:"))
		b.WriteString("\n")
		for i, path := range fp.recentFiles {
			fp.item(&b, i, fp.shorten(path))
		}
		b.WriteString("\n")

		dividerWidth := min(40, fp.width-4)
		if dividerWidth < 1 {
			dividerWidth = 40
		}
		b.WriteString(dividerStyle.Render(strings.Repeat("─", dividerWidth)))
		b.WriteString("\n")
	}

	idx := len(fp.recentFiles)
	fp.item(&b, idx, "Digitar caminho...")

	if len(fp.images) > 0 {
		fp.item(&b, idx+1, fmt.Sprintf("Imagens em %s (%d)...", fp.shorten(fp.browseDir), len(fp.images)))
	}

	if fp.err != "" {
		b.WriteString("\n")
		b.WriteString(errorStyle.Render("Erro: " + fp.err))
	}

	return b.String()
}

func (fp *FilePicker) viewInput() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("Caminho da imagem"))
	b.WriteString("\n\n")
	b.WriteString(fp.textInput.View())
	b.WriteString("\n")
	b.WriteString(helpStyle.Render(fmt.Sprintf("Máximo %d MB", app.MaxProofSize/(1024*1024))))

	if fp.err != "" {
		b.WriteString("\n\n")
		b.WriteString(errorStyle.Render("Erro: " + fp.err))
	}

	return b.String()
}

func (fp *FilePicker) viewBrowse() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("Imagens em " + fp.shorten(fp.browseDir)))
	b.WriteString("\n\n")

	for i, path := range fp.images {
		fp.item(&b, i, filepath.Base(path))
	}
	fp.item(&b, len(fp.images), "[voltar]")

	if fp.err != "" {
		b.WriteString("\n")
		b.WriteString(errorStyle.Render("Erro: " + fp.err))
	}

	return b.String()
}
