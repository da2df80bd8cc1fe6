package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/rshade/zerodesign/internal/benchmark"
	"github.com/rshade/zerodesign/internal/footprint"
)

// Key that cycles the category filter.
const keyC = "c"

// tableChromeLines is the vertical space taken by everything but table rows.
const tableChromeLines = 10

//nolint:gochecknoglobals // Fixed cycle order for the sort key.
var browserSortOrder = []string{
	benchmark.SortCO2Asc,
	benchmark.SortCO2Desc,
	benchmark.SortName,
	benchmark.SortCategory,
}

// BenchmarkModel is the Bubble Tea model for browsing benchmark products.
// Filtering, category selection and ordering all go through
// benchmark.FilterAndSort.
//
//nolint:recvcheck // Bubble Tea requires value receivers for Init/Update/View interface methods.
type BenchmarkModel struct {
	state    ViewState
	products []benchmark.Product // source of truth
	rows     []benchmark.Product // filtered and sorted

	table     table.Model
	textInput textinput.Model
	selected  int

	sortIdx     int
	categories  []string
	categoryIdx int // 0 is all categories
	showFilter  bool

	// reference is the user's garment CO2, or <0 when there is none.
	reference float64
	precision int

	width  int
	height int
}

// NewBenchmarkModel returns a browser over products, sorted by ascending
// CO2. A reference >= 0 adds a comparison column and a percentile line.
func NewBenchmarkModel(products []benchmark.Product, reference float64) BenchmarkModel {
	m := BenchmarkModel{
		state:      ViewStateList,
		products:   products,
		textInput:  newTextInput(),
		categories: append([]string{benchmark.AllCategories}, benchmark.Categories(products)...),
		reference:  reference,
		precision:  1,
		width:      defaultWidth,
		height:     defaultHeight,
	}
	m.applyFilter()
	return m
}

func newTextInput() textinput.Model {
	ti := textinput.New()
	ti.Placeholder = "search name or category"
	ti.Prompt = "/ "
	ti.CharLimit = 64
	return ti
}

// SortKey returns the active sort key.
func (m BenchmarkModel) SortKey() string { return browserSortOrder[m.sortIdx] }

// Category returns the active category filter.
func (m BenchmarkModel) Category() string { return m.categories[m.categoryIdx] }

// VisibleRows returns the filtered and sorted products.
func (m BenchmarkModel) VisibleRows() []benchmark.Product {
	return append([]benchmark.Product(nil), m.rows...)
}

// Selected returns the product shown in the detail view.
func (m BenchmarkModel) Selected() (benchmark.Product, bool) {
	if m.selected < 0 || m.selected >= len(m.rows) {
		return benchmark.Product{}, false
	}
	return m.rows[m.selected], true
}

// Init implements tea.Model.
func (m BenchmarkModel) Init() tea.Cmd { return nil }

// Update implements tea.Model.
func (m BenchmarkModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if winMsg, ok := msg.(tea.WindowSizeMsg); ok {
		m.width = winMsg.Width
		m.height = winMsg.Height
		m.rebuildTable()
		return m, nil
	}

	if m.showFilter {
		return m.handleFilterInput(msg)
	}

	switch m.state {
	case ViewStateList:
		return m.handleListUpdate(msg)
	case ViewStateDetail:
		return m.handleDetailUpdate(msg)
	case ViewStateQuitting, ViewStateError:
		return m, nil
	default:
		return m, nil
	}
}

func (m BenchmarkModel) handleFilterInput(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case keyEnter, keyEsc:
			m.showFilter = false
			m.textInput.Blur()
			m.applyFilter()
			return m, nil
		}
	}
	var cmd tea.Cmd
	m.textInput, cmd = m.textInput.Update(msg)
	// Filter as the user types.
	m.applyFilter()
	return m, cmd
}

func (m BenchmarkModel) handleListUpdate(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		var cmd tea.Cmd
		m.table, cmd = m.table.Update(msg)
		return m, cmd
	}

	switch keyMsg.String() {
	case keyQuit, keyCtrlC:
		m.state = ViewStateQuitting
		return m, tea.Quit
	case keyEnter:
		m.selected = m.table.Cursor()
		if m.selected >= 0 && m.selected < len(m.rows) {
			m.state = ViewStateDetail
		}
		return m, nil
	case keySlash:
		m.showFilter = true
		m.textInput.Focus()
		return m, textinput.Blink
	case keyS:
		m.sortIdx = (m.sortIdx + 1) % len(browserSortOrder)
		m.applyFilter()
		return m, nil
	case keyC:
		m.categoryIdx = (m.categoryIdx + 1) % len(m.categories)
		m.applyFilter()
		return m, nil
	case keyEsc:
		if m.textInput.Value() != "" || m.categoryIdx != 0 {
			m.textInput.SetValue("")
			m.categoryIdx = 0
			m.applyFilter()
		}
		return m, nil
	default:
		var cmd tea.Cmd
		m.table, cmd = m.table.Update(keyMsg)
		return m, cmd
	}
}

func (m BenchmarkModel) handleDetailUpdate(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case keyQuit, keyCtrlC:
			m.state = ViewStateQuitting
			return m, tea.Quit
		case keyEsc:
			m.state = ViewStateList
			m.table.Focus()
			return m, nil
		}
	}
	return m, nil
}

// applyFilter recomputes rows from the search text, category and sort key.
func (m *BenchmarkModel) applyFilter() {
	m.rows = benchmark.FilterAndSort(m.products, m.textInput.Value(), m.Category(), m.SortKey())
	m.rebuildTable()
}

func (m *BenchmarkModel) rebuildTable() {
	columns := []table.Column{
		{Title: "#", Width: 4},            //nolint:mnd // Column width.
		{Title: "Product", Width: 28},     //nolint:mnd // Column width.
		{Title: "Category", Width: 12},    //nolint:mnd // Column width.
		{Title: "Composition", Width: 24}, //nolint:mnd // Column width.
		{Title: "CO₂ (kg)", Width: 9},     //nolint:mnd // Column width.
	}
	if m.hasReference() {
		columns = append(columns, table.Column{Title: "vs yours", Width: 10}) //nolint:mnd // Column width.
	}

	rows := make([]table.Row, len(m.rows))
	for i, p := range m.rows {
		row := table.Row{
			strconv.Itoa(p.ID),
			truncate(p.Name, 28),             //nolint:mnd // Matches column width.
			truncate(p.Category, 12),         //nolint:mnd // Matches column width.
			truncate(p.FiberComposition, 24), //nolint:mnd // Matches column width.
			footprint.FormatFloat(p.CO2Emission, m.precision),
		}
		if m.hasReference() {
			row = append(row, formatDiff(p.CO2Emission-m.reference, m.precision))
		}
		rows[i] = row
	}

	height := max(m.height-tableChromeLines, 3) //nolint:mnd // Minimum visible rows.
	t := table.New(
		table.WithColumns(columns),
		table.WithRows(rows),
		table.WithFocused(true),
		table.WithHeight(height),
	)
	styles := table.DefaultStyles()
	styles.Header = styles.Header.Foreground(ColorHeader).Bold(true)
	styles.Selected = SelectedRowStyle
	t.SetStyles(styles)
	m.table = t
}

func (m BenchmarkModel) hasReference() bool { return m.reference >= 0 }

func formatDiff(d float64, precision int) string {
	sign := ""
	if d > 0 {
		sign = "+"
	}
	return sign + footprint.FormatFloat(d, precision)
}

// View implements tea.Model.
func (m BenchmarkModel) View() string {
	switch m.state {
	case ViewStateQuitting:
		return ""
	case ViewStateDetail:
		return m.renderDetailView()
	case ViewStateList, ViewStateError:
	}

	var sb strings.Builder
	sb.WriteString(TitleStyle.Render("Benchmark Products"))
	sb.WriteString("\n")
	sb.WriteString(m.renderSummary())
	sb.WriteString("\n")
	if m.showFilter {
		sb.WriteString(m.textInput.View())
		sb.WriteString("\n")
	}
	if len(m.rows) == 0 {
		sb.WriteString(InfoStyle.Render("No products match."))
		sb.WriteString("\n")
	} else {
		sb.WriteString(m.table.View())
		sb.WriteString("\n")
	}
	sb.WriteString(m.renderStatusBar())
	return sb.String()
}

func (m BenchmarkModel) renderSummary() string {
	s := benchmark.Summarize(m.rows)
	var sb strings.Builder
	sb.WriteString(LabelStyle.Render("Products: "))
	sb.WriteString(ValueStyle.Render(fmt.Sprintf("%d/%d", s.Count, len(m.products))))
	if s.Count > 0 {
		sb.WriteString(LabelStyle.Render("   Min: "))
		sb.WriteString(ValueStyle.Render(footprint.FormatFloat(s.MinCO2, m.precision)))
		sb.WriteString(LabelStyle.Render("   Mean: "))
		sb.WriteString(ValueStyle.Render(footprint.FormatFloat(s.MeanCO2, m.precision)))
		sb.WriteString(LabelStyle.Render("   Max: "))
		sb.WriteString(ValueStyle.Render(footprint.FormatFloat(s.MaxCO2, m.precision)))
	}
	if m.hasReference() && s.Count > 0 {
		sb.WriteString("\n")
		sb.WriteString(LabelStyle.Render("Your garment: "))
		sb.WriteString(ValueStyle.Render(footprint.FormatKg(m.reference, m.precision)))
		sb.WriteString(LabelStyle.Render(fmt.Sprintf("  beats %.0f%% of these products",
			benchmark.Percentile(m.rows, m.reference))))
	}
	return sb.String()
}

func (m BenchmarkModel) renderStatusBar() string {
	filter := m.textInput.Value()
	if filter == "" {
		filter = "-"
	}
	status := fmt.Sprintf("sort: %s | category: %s | search: %s", m.SortKey(), m.Category(), filter)
	help := "↑/↓: Navigate | Enter: Details | /: Search | s: Sort | c: Category | Esc: Clear | q: Quit"
	return HelpStyle.Render(status) + "\n" + HelpStyle.Render(help)
}

func (m BenchmarkModel) renderDetailView() string {
	p, ok := m.Selected()
	if !ok {
		return InfoStyle.Render("Nothing selected.")
	}

	var sb strings.Builder
	sb.WriteString(HeaderStyle.Render(p.Name))
	sb.WriteString("\n\n")
	fields := []struct{ label, value string }{
		{"Category", p.Category},
		{"Gender", p.Gender},
		{"Type", p.ProductType},
		{"Composition", p.FiberComposition},
		{"Weight", weightLabel(p.Weight)},
		{"CO₂", footprint.FormatKg(p.CO2Emission, m.precision)},
	}
	for _, f := range fields {
		if f.value == "" {
			continue
		}
		sb.WriteString(LabelStyle.Render(fmt.Sprintf("%-13s", f.label)))
		sb.WriteString(ValueStyle.Render(f.value))
		sb.WriteString("\n")
	}
	if m.hasReference() {
		sb.WriteString(LabelStyle.Render(fmt.Sprintf("%-13s", "vs yours")))
		sb.WriteString(ValueStyle.Render(formatDiff(p.CO2Emission-m.reference, m.precision) + " kg"))
		sb.WriteString("\n")
	}
	if eq := footprint.Equivalent(p.CO2Emission); eq != "" {
		sb.WriteString(InfoStyle.Render(eq))
		sb.WriteString("\n")
	}
	sb.WriteString("\n")
	sb.WriteString(HelpStyle.Render("Esc: Back | q: Quit"))
	return BoxStyle.Width(max(m.width-4, 40)).Render(sb.String()) //nolint:mnd // Border and padding.
}

func weightLabel(grams float64) string {
	if grams <= 0 {
		return ""
	}
	return footprint.FormatFloat(grams, 0) + " g"
}
