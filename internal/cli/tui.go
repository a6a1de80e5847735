package cli

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/brothertop/svgdiff/pkg/pipeline"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
)

// =============================================================================
// BatchModel - Interactive batch result browser
// =============================================================================

// BatchModel is the bubbletea model for browsing batch results. The list
// shows one row per pair; the detail pane below shows the selected pair's
// full numbers.
type BatchModel struct {
	Report *pipeline.BatchReport
	Cursor int
	Height int
	Offset int
}

// NewBatchModel creates a new batch result browser.
func NewBatchModel(report *pipeline.BatchReport) BatchModel {
	return BatchModel{
		Report: report,
		Height: 15,
	}
}

func (m BatchModel) Init() tea.Cmd {
	return nil
}

func (m BatchModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.Cursor > 0 {
				m.Cursor--
				if m.Cursor < m.Offset {
					m.Offset = m.Cursor
				}
			}
		case "down", "j":
			if m.Cursor < len(m.Report.Items)-1 {
				m.Cursor++
				if m.Cursor >= m.Offset+m.Height {
					m.Offset = m.Cursor - m.Height + 1
				}
			}
		case "g", "home":
			m.Cursor, m.Offset = 0, 0
		case "G", "end":
			m.Cursor = len(m.Report.Items) - 1
			if m.Cursor >= m.Height {
				m.Offset = m.Cursor - m.Height + 1
			}
		}
	case tea.WindowSizeMsg:
		m.Height = msg.Height - 12
		if m.Height < 5 {
			m.Height = 5
		}
	}
	return m, nil
}

func (m BatchModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Batch Results"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  q quit"))
	b.WriteString("\n\n")

	end := m.Offset + m.Height
	if end > len(m.Report.Items) {
		end = len(m.Report.Items)
	}

	rows := [][]string{}
	for i := m.Offset; i < end; i++ {
		item := m.Report.Items[i]

		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}

		status := iconSuccess
		pct := "—"
		if item.Status == pipeline.StatusFailed {
			status = iconError
		} else if item.Result != nil {
			pct = fmt.Sprintf("%.2f%%", item.Result.RoundedPercentage())
		}

		rows = append(rows, []string{cursor, status, item.Pair.SVG1Path, item.Pair.SVG2Path, pct})
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "", "Document 1", "Document 2", "Diff").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}

			actualIdx := m.Offset + row
			if actualIdx >= len(m.Report.Items) {
				return lipgloss.NewStyle()
			}
			item := m.Report.Items[actualIdx]

			base := lipgloss.NewStyle()
			if actualIdx == m.Cursor {
				base = base.Bold(true)
			}
			if item.Status == pipeline.StatusFailed {
				return base.Foreground(colorRed)
			}
			if item.Result != nil && item.Result.RoundedPercentage() == 0 {
				return base.Foreground(colorGreen)
			}
			return base.Foreground(colorWhite)
		})

	b.WriteString(t.Render())
	b.WriteString("\n\n")
	b.WriteString(m.detailView())
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]  %d succeeded, %d failed",
		m.Cursor+1, len(m.Report.Items), m.Report.Successful, m.Report.Failed)))

	return b.String()
}

// detailView renders the selected item's numbers.
func (m BatchModel) detailView() string {
	if len(m.Report.Items) == 0 {
		return listDimStyle.Render("  no results")
	}
	item := m.Report.Items[m.Cursor]

	if item.Status == pipeline.StatusFailed {
		return "  " + StyleError.Render(iconError+" "+item.Err)
	}

	r := item.Result
	if r.AspectRatioMismatch {
		return "  " + StyleWarning.Render(fmt.Sprintf("aspect ratio mismatch (diff %.4f)", r.MismatchDiff))
	}
	return "  " + StyleValue.Render(fmt.Sprintf("%d of %d pixels differ", r.DifferentPixels, r.TotalPixels)) +
		listDimStyle.Render(fmt.Sprintf("  ·  canvas %dx%d  ·  threshold %d  ·  %s",
			r.Plan.CanvasWidth, r.Plan.CanvasHeight, r.Threshold, r.Duration.Round(time.Millisecond)))
}
