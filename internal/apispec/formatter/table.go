package formatter

import (
	"strings"

	"charm.land/lipgloss/v2"
	"charm.land/lipgloss/v2/table"

	"github.com/harunnryd/pace/internal/apispec"
)

type TableFormatter struct {
	headerStyle  lipgloss.Style
	cellStyle    lipgloss.Style
	oddRowStyle  lipgloss.Style
	evenRowStyle lipgloss.Style
	borderStyle  lipgloss.Style
}

func NewTableFormatter() *TableFormatter {
	purple := lipgloss.Color("99")
	gray := lipgloss.Color("245")
	lightGray := lipgloss.Color("241")

	return &TableFormatter{
		headerStyle: lipgloss.NewStyle().
			Foreground(purple).
			Bold(true).
			Align(lipgloss.Center).
			Padding(0, 1),
		cellStyle: lipgloss.NewStyle().
			Padding(0, 1),
		oddRowStyle: lipgloss.NewStyle().
			Foreground(gray).
			Padding(0, 1),
		evenRowStyle: lipgloss.NewStyle().
			Foreground(lightGray).
			Padding(0, 1),
		borderStyle: lipgloss.NewStyle().
			Foreground(purple),
	}
}

func (f *TableFormatter) FormatSpecs(specs []apispec.ToolSpec) (string, error) {
	if len(specs) == 0 {
		return "No tools registered", nil
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(f.borderStyle).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return f.headerStyle
			case row%2 == 0:
				return f.evenRowStyle
			default:
				return f.oddRowStyle
			}
		}).
		Headers("Name", "Endpoint", "Parameters", "Direct", "Description")

	for _, spec := range specs {
		t.Row(
			spec.Name,
			truncateString(spec.Endpoint, 40),
			truncateString(strings.Join(spec.ParameterNames(), ", "), 25),
			yesNo(spec.Direct),
			truncateString(firstLine(spec.Description), 50),
		)
	}

	return t.String(), nil
}

func (f *TableFormatter) FormatSpec(spec *apispec.ToolSpec) (string, error) {
	if spec == nil {
		return "No tool found", nil
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(f.borderStyle).
		StyleFunc(func(row, col int) lipgloss.Style {
			if col == 0 {
				return f.headerStyle
			}
			return f.cellStyle
		})

	t.Row("Name", spec.Name)
	t.Row("Endpoint", spec.Endpoint)
	t.Row("Direct", yesNo(spec.Direct))
	t.Row("Description", strings.TrimSpace(spec.Description))
	for _, p := range spec.Parameters {
		t.Row("Param "+p.Name, truncateString(p.Description, 60))
	}

	return t.String(), nil
}

func firstLine(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return strings.TrimSpace(s[:i])
	}
	return s
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

func truncateString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}
