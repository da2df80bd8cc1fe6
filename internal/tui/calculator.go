package tui

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/rshade/zerodesign/internal/footprint"
	"github.com/rshade/zerodesign/internal/logging"
	"github.com/rshade/zerodesign/internal/smartfill"
)

// Column widths for the process row table.
const (
	rowNameWidth   = 28
	rowTypeWidth   = 10
	rowUnitWidth   = 12
	rowNumberWidth = 9
	weightStep     = 10.0
	minWeight      = weightStep
)

// editField is the row field being edited, if any.
type editField int

const (
	editNone editField = iota
	editName
	editQuantity
)

// CalculatorResult is the calculator's state when it quits.
type CalculatorResult struct {
	Garment   footprint.Garment             `json:"garment"`
	Rows      []smartfill.Row               `json:"process_rows"`
	Breakdown footprint.BreakdownResult     `json:"breakdown"`
	Score     int                           `json:"score"`
	Class     footprint.SustainabilityScore `json:"class"`
}

// CalculatorModel is the Bubble Tea model for the garment calculator. The
// garment's fiber composition and treatments are fixed; process and
// accessory rows can be added, renamed and removed, and naming a row fills
// its unit, type and factor from the process dictionary.
type CalculatorModel struct {
	ctx     context.Context
	garment footprint.Garment
	factors footprint.FactorLookup

	rows   *smartfill.RowList
	binder *smartfill.Binder

	focusedRow int
	editing    editField
	editBuffer string
	status     string

	breakdown footprint.BreakdownResult
	score     int
	recalcs   int
	precision int

	state  ViewState
	width  int
	height int
}

// NewCalculatorModel returns a calculator for garment. factors supplies the
// fiber emission factors and dict the process dictionary; either may be
// nil. Rows added to Rows() by anyone are bound to smart-fill.
func NewCalculatorModel(
	ctx context.Context,
	garment footprint.Garment,
	factors footprint.FactorLookup,
	dict smartfill.Dictionary,
) *CalculatorModel {
	m := &CalculatorModel{
		ctx:       ctx,
		garment:   garment,
		factors:   factors,
		rows:      smartfill.NewRowList(),
		precision: 1,
		state:     ViewStateList,
		width:     defaultWidth,
		height:    defaultHeight,
	}
	m.binder = smartfill.NewBinder(dict, m.rows, m.recalculate,
		smartfill.WithLogger(*logging.FromContext(ctx)))
	m.binder.Watch()
	m.recalculate()
	return m
}

// SetPrecision changes how many decimals CO2 values are shown with.
func (m *CalculatorModel) SetPrecision(p int) {
	if p >= 0 {
		m.precision = p
	}
}

// Rows is the list backing the process rows. Rows added here directly are
// picked up by the binder's observer.
func (m *CalculatorModel) Rows() *smartfill.RowList { return m.rows }

// AddRow appends r and binds smart-fill to it.
func (m *CalculatorModel) AddRow(r smartfill.Row) string {
	id := m.binder.AppendRow(r)
	if r.Name != "" {
		m.rows.SetName(id, r.Name)
	} else {
		m.recalculate()
	}
	return id
}

// Recalculations counts how many times totals were recomputed.
func (m *CalculatorModel) Recalculations() int { return m.recalcs }

// Result returns the current inputs and totals.
func (m *CalculatorModel) Result() CalculatorResult {
	return CalculatorResult{
		Garment:   m.garment,
		Rows:      m.rows.Rows(),
		Breakdown: m.breakdown,
		Score:     m.score,
		Class:     footprint.Classify(m.score),
	}
}

func (m *CalculatorModel) recalculate() {
	g := m.garment
	other := smartfill.ProcessRowsCO2(m.rows.Rows())
	m.breakdown = footprint.Breakdown(m.factors, g.Fibers, g.Processes, g.WeightGrams).WithOther(other)
	m.score = footprint.ComputeScore(g.Fibers, g.Processes, m.breakdown.Total)
	m.recalcs++
}

// Init implements tea.Model.
func (m *CalculatorModel) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m *CalculatorModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	case tea.KeyMsg:
		if m.editing != editNone {
			return m.handleEditKey(msg)
		}
		return m.handleKey(msg)
	}
	return m, nil
}

func (m *CalculatorModel) focusedID() (string, bool) {
	rows := m.rows.Rows()
	if m.focusedRow < 0 || m.focusedRow >= len(rows) {
		return "", false
	}
	return rows[m.focusedRow].ID, true
}

func (m *CalculatorModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.status = ""

	switch msg.String() {
	case keyQuit, keyCtrlC:
		m.state = ViewStateQuitting
		return m, tea.Quit

	case keyUp:
		if m.focusedRow > 0 {
			m.focusedRow--
		}

	case keyDown:
		if m.focusedRow < m.rows.Len()-1 {
			m.focusedRow++
		}

	case keyAdd:
		m.AddRow(smartfill.Row{})
		m.focusedRow = m.rows.Len() - 1
		m.editing = editName
		m.editBuffer = ""

	case keyEnter:
		if id, ok := m.focusedID(); ok {
			r, _ := m.rows.Get(id)
			m.editing = editName
			m.editBuffer = r.Name
		}

	case keyQty:
		if id, ok := m.focusedID(); ok {
			r, _ := m.rows.Get(id)
			m.editing = editQuantity
			m.editBuffer = ""
			if r.Quantity > 0 {
				m.editBuffer = strconv.FormatFloat(r.Quantity, 'f', -1, 64)
			}
		}

	case keyDelete:
		if id, ok := m.focusedID(); ok {
			m.rows.Remove(id)
			if m.focusedRow >= m.rows.Len() && m.focusedRow > 0 {
				m.focusedRow--
			}
			m.recalculate()
		}

	case keyPlus:
		m.garment.WeightGrams += weightStep
		m.recalculate()

	case keyMinus:
		if m.garment.WeightGrams-weightStep >= minWeight {
			m.garment.WeightGrams -= weightStep
			m.recalculate()
		}
	}
	return m, nil
}

//nolint:exhaustive // Only the keys used for text entry.
func (m *CalculatorModel) handleEditKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyCtrlC:
		m.state = ViewStateQuitting
		return m, tea.Quit

	case tea.KeyEnter:
		m.commitEdit()

	case tea.KeyEsc:
		m.editing = editNone
		m.editBuffer = ""

	case tea.KeyBackspace:
		runes := []rune(m.editBuffer)
		if len(runes) > 0 {
			m.editBuffer = string(runes[:len(runes)-1])
		}

	case tea.KeySpace:
		m.editBuffer += " "

	case tea.KeyRunes:
		m.editBuffer += string(msg.Runes)
	}
	return m, nil
}

func (m *CalculatorModel) commitEdit() {
	field := m.editing
	m.editing = editNone
	id, ok := m.focusedID()
	if !ok {
		return
	}

	switch field {
	case editName:
		// The binder fills the row and recalculates from the name hook.
		m.rows.SetName(id, strings.TrimSpace(m.editBuffer))
	case editQuantity:
		q, err := strconv.ParseFloat(strings.TrimSpace(m.editBuffer), 64)
		if err != nil || q < 0 {
			m.status = fmt.Sprintf("invalid quantity %q", m.editBuffer)
			return
		}
		m.rows.Update(id, func(r *smartfill.Row) { r.Quantity = q })
		m.recalculate()
	case editNone:
	}
	m.editBuffer = ""
}

// View implements tea.Model.
func (m *CalculatorModel) View() string {
	if m.state == ViewStateQuitting {
		return ""
	}

	var sb strings.Builder
	sb.WriteString(TitleStyle.Render("Garment CO₂ Calculator"))
	sb.WriteString("\n\n")
	sb.WriteString(m.renderGarment())
	sb.WriteString("\n\n")
	sb.WriteString(BoxStyle.Render(m.renderTotals()))
	sb.WriteString("\n\n")
	sb.WriteString(m.renderRows())
	sb.WriteString("\n")
	if m.status != "" {
		sb.WriteString(ErrorStyle.Render(m.status))
		sb.WriteString("\n")
	}
	sb.WriteString(m.renderHelp())
	return sb.String()
}

func (m *CalculatorModel) renderGarment() string {
	var sb strings.Builder
	name := m.garment.Name
	if name == "" {
		name = "(unnamed)"
	}
	sb.WriteString(LabelStyle.Render("Garment:     "))
	sb.WriteString(ValueStyle.Render(name))
	if m.garment.Category != "" {
		sb.WriteString(LabelStyle.Render("  (" + m.garment.Category + ")"))
	}
	sb.WriteString("\n")
	sb.WriteString(LabelStyle.Render("Composition: "))
	sb.WriteString(ValueStyle.Render(FormatComposition(m.garment.Fibers)))
	sb.WriteString("\n")
	sb.WriteString(LabelStyle.Render("Weight:      "))
	sb.WriteString(ValueStyle.Render(footprint.FormatFloat(m.garment.WeightGrams, 0) + " g"))
	return sb.String()
}

func (m *CalculatorModel) renderTotals() string {
	b := m.breakdown
	var sb strings.Builder
	sb.WriteString(HeaderStyle.Render("FOOTPRINT"))
	sb.WriteString("\n")
	lines := []struct {
		label string
		value float64
	}{
		{"Fiber", b.Fiber},
		{"Dyeing", b.Dyeing},
		{"Finishing", b.Finishing},
		{"Process rows", b.Other},
	}
	for _, l := range lines {
		sb.WriteString(LabelStyle.Render(fmt.Sprintf("%-14s", l.label)))
		sb.WriteString(ValueStyle.Render(footprint.FormatKg(l.value, m.precision)))
		sb.WriteString("\n")
	}
	sb.WriteString(LabelStyle.Render(fmt.Sprintf("%-14s", "Total")))
	sb.WriteString(ValueStyle.Render(footprint.FormatKg(b.Total, m.precision)))
	sb.WriteString("\n")
	sb.WriteString(LabelStyle.Render(fmt.Sprintf("%-14s", "Score")))
	sb.WriteString(RenderScore(m.score))
	if eq := footprint.Equivalent(b.Total); eq != "" {
		sb.WriteString("\n")
		sb.WriteString(InfoStyle.Render(eq))
	}
	return sb.String()
}

func (m *CalculatorModel) renderRows() string {
	rows := m.rows.Rows()
	var sb strings.Builder
	sb.WriteString(HeaderStyle.Render("Process & accessory rows"))
	sb.WriteString("\n")
	if len(rows) == 0 {
		sb.WriteString(InfoStyle.Render("No rows. Press a to add one."))
		sb.WriteString("\n")
		return sb.String()
	}

	sb.WriteString(LabelStyle.Render(fmt.Sprintf("  %-*s %-*s %-*s %*s %*s %*s",
		rowNameWidth, "Name", rowTypeWidth, "Type", rowUnitWidth, "Unit",
		rowNumberWidth, "Factor", rowNumberWidth, "Qty", rowNumberWidth, "CO₂")))
	sb.WriteString("\n")

	for i, r := range rows {
		name := r.Name
		if i == m.focusedRow && m.editing == editName {
			name = m.editBuffer + "▌"
		}
		qty := "1"
		if r.Quantity > 0 {
			qty = strconv.FormatFloat(r.Quantity, 'f', -1, 64)
		}
		if i == m.focusedRow && m.editing == editQuantity {
			qty = m.editBuffer + "▌"
		}

		line := fmt.Sprintf("%-*s %-*s %-*s %*s %*s %*s",
			rowNameWidth, truncate(name, rowNameWidth),
			rowTypeWidth, r.Type,
			rowUnitWidth, r.Unit,
			rowNumberWidth, footprint.FormatFloat(r.Factor, 2), //nolint:mnd // Factor precision.
			rowNumberWidth, truncate(qty, rowNumberWidth),
			rowNumberWidth, footprint.FormatFloat(r.CO2(), m.precision))
		if i == m.focusedRow {
			sb.WriteString("> " + SelectedRowStyle.Render(line))
		} else {
			sb.WriteString("  " + line)
		}
		sb.WriteString("\n")
	}

	if m.editing == editName {
		if _, entry, ok := m.binder.Lookup(m.editBuffer); ok {
			sb.WriteString(InfoStyle.Render("match: " + entry.Label()))
			sb.WriteString("\n")
		}
	}
	return sb.String()
}

func (m *CalculatorModel) renderHelp() string {
	var shortcuts []string
	if m.editing != editNone {
		shortcuts = []string{"Enter: Save", "Esc: Cancel"}
	} else {
		shortcuts = []string{
			"↑/↓: Navigate",
			"a: Add row",
			"Enter: Rename",
			"e: Quantity",
			"d: Delete",
			"+/-: Weight",
			"q: Quit",
		}
	}
	return HelpStyle.Render(strings.Join(shortcuts, " | "))
}

// FormatComposition renders fibers as "Pamuk 60%, Polyester 40%".
func FormatComposition(fibers []footprint.FiberComponent) string {
	if len(fibers) == 0 {
		return "-"
	}
	parts := make([]string, len(fibers))
	for i, f := range fibers {
		parts[i] = fmt.Sprintf("%s %s%%", f.Type, strconv.FormatFloat(f.Percentage, 'f', -1, 64))
	}
	return strings.Join(parts, ", ")
}
