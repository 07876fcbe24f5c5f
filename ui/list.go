package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/dgnsrekt/doa/internal/catalog"
	runewidth "github.com/mattn/go-runewidth"
	"github.com/muesli/reflow/truncate"
)

const (
	listHeaderHeight = 8
	listFooterHeight = 2
	listItemHeight   = 3
)

type (
	openPrayerMsg catalog.Prayer
	openChatMsg   struct{}
)

type listModel struct {
	common *commonModel

	input     textinput.Model
	filtering bool

	categories []string
	tab        int

	items  []catalog.Prayer
	cursor int

	now func() time.Time
}

func newListModel(common *commonModel) listModel {
	ti := textinput.New()
	ti.Prompt = "Cari: "
	ti.PromptStyle = labelStyle
	ti.Placeholder = "judul atau arti doa"
	ti.CharLimit = 64

	m := listModel{
		common: common,
		input:  ti,
		now:    time.Now,
	}
	m.reload()
	return m
}

// reload picks up a new catalog, keeping the query and, when it still
// exists, the selected category.
func (m *listModel) reload() {
	current := catalog.AllCategories
	if m.tab < len(m.categories) {
		current = m.categories[m.tab]
	}
	m.categories = m.common.catalog.Categories()
	m.tab = 0
	for i, c := range m.categories {
		if c == current {
			m.tab = i
		}
	}
	m.refilter()
}

func (m listModel) category() string {
	if m.tab < len(m.categories) {
		return m.categories[m.tab]
	}
	return catalog.AllCategories
}

func (m *listModel) refilter() {
	m.items = m.common.catalog.Filter(m.input.Value(), m.category())
	if m.cursor >= len(m.items) {
		m.cursor = max(0, len(m.items)-1)
	}
	log.Debug("catalog filtered",
		"query", m.input.Value(),
		"category", m.category(),
		"matches", len(m.items))
}

func (m listModel) selected() (catalog.Prayer, bool) {
	if m.cursor < 0 || m.cursor >= len(m.items) {
		return catalog.Prayer{}, false
	}
	return m.items[m.cursor], true
}

func (m listModel) perPage() int {
	h := m.common.height - listHeaderHeight - listFooterHeight
	return max(1, h/listItemHeight)
}

func (m listModel) update(msg tea.Msg) (listModel, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		if m.filtering {
			var cmd tea.Cmd
			m.input, cmd = m.input.Update(msg)
			return m, cmd
		}
		return m, nil
	}

	if m.filtering {
		switch keyMsg.String() {
		case keyEsc:
			m.input.Reset()
			m.stopFiltering()
			return m, nil
		case keyEnter, "tab", "down", "up":
			m.stopFiltering()
			return m, nil
		}
		before := m.input.Value()
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(keyMsg)
		if m.input.Value() != before {
			m.cursor = 0
			m.refilter()
		}
		return m, cmd
	}

	switch keyMsg.String() {
	case "/":
		m.filtering = true
		return m, m.input.Focus()

	case keyEsc:
		if m.input.Value() != "" {
			m.input.Reset()
			m.cursor = 0
			m.refilter()
		}

	case "k", "up":
		if m.cursor > 0 {
			m.cursor--
		}

	case "j", "down":
		if m.cursor < len(m.items)-1 {
			m.cursor++
		}

	case "g", "home":
		m.cursor = 0

	case "G", "end":
		m.cursor = max(0, len(m.items)-1)

	case "l", "right", "tab":
		m.tab = (m.tab + 1) % max(1, len(m.categories))
		m.cursor = 0
		m.refilter()

	case "h", "left", "shift+tab":
		n := max(1, len(m.categories))
		m.tab = (m.tab - 1 + n) % n
		m.cursor = 0
		m.refilter()

	case keyEnter:
		if p, ok := m.selected(); ok {
			return m, func() tea.Msg { return openPrayerMsg(p) }
		}

	case "a":
		return m, func() tea.Msg { return openChatMsg{} }

	case "e":
		if path := m.common.cfg.CatalogPath; path != "" {
			log.Info("opening editor", "file", path)
			return m, openEditor(path)
		}
	}

	return m, nil
}

func (m *listModel) stopFiltering() {
	m.filtering = false
	m.input.Blur()
}

func (m listModel) view() string {
	var b strings.Builder

	fmt.Fprintf(&b, "\n  %s\n", headerStyle(greeting(m.now())))
	fmt.Fprintf(&b, "  %s\n\n", subtleStyle("Kumpulan doa harian"))
	fmt.Fprintf(&b, "  %s\n\n", m.input.View())
	fmt.Fprintf(&b, "  %s\n\n", m.tabsView())

	if len(m.items) == 0 {
		fmt.Fprintf(&b, "  %s\n", dimStyle("Tidak ada doa yang cocok."))
	} else {
		b.WriteString(m.itemsView())
	}

	b.WriteString("\n" + m.helpView())
	return b.String()
}

func (m listModel) tabsView() string {
	tabs := make([]string, len(m.categories))
	for i, c := range m.categories {
		if i == m.tab {
			tabs[i] = activeTabStyle.Render(c)
		} else {
			tabs[i] = tabStyle.Render(c)
		}
	}
	return strings.Join(tabs, " ")
}

func (m listModel) itemsView() string {
	perPage := m.perPage()
	start := (m.cursor / perPage) * perPage
	end := min(start+perPage, len(m.items))

	width := max(20, m.common.width-6)

	var b strings.Builder
	for i := start; i < end; i++ {
		p := m.items[i]
		title := truncate.StringWithTail(p.Title, uint(max(1, width-runewidth.StringWidth(p.Category)-2)), ellipsis) //nolint:gosec
		gap := max(1, width-runewidth.StringWidth(title)-runewidth.StringWidth(p.Category))
		meaning := truncate.StringWithTail(p.Meaning, uint(width), ellipsis) //nolint:gosec

		if i == m.cursor {
			bar := selectedStyle.Render("│")
			fmt.Fprintf(&b, "  %s %s%s%s\n", bar, selectedStyle.Render(title), strings.Repeat(" ", gap), subtleStyle(p.Category))
			fmt.Fprintf(&b, "  %s %s\n\n", bar, dimStyle(meaning))
			continue
		}
		fmt.Fprintf(&b, "    %s%s%s\n", title, strings.Repeat(" ", gap), subtleStyle(p.Category))
		fmt.Fprintf(&b, "    %s\n\n", dimStyle(meaning))
	}

	if pages := (len(m.items) + perPage - 1) / perPage; pages > 1 {
		fmt.Fprintf(&b, "  %s\n", subtleStyle(fmt.Sprintf("%d/%d", m.cursor/perPage+1, pages)))
	}
	return b.String()
}

func (m listModel) helpView() string {
	if m.filtering {
		return "  " + subtleStyle("enter selesai • esc batal")
	}
	help := "↑/↓ pilih • ←/→ kategori • / cari • enter buka • a tanya asisten"
	if m.common.cfg.CatalogPath != "" {
		help += " • e ubah"
	}
	return "  " + subtleStyle(help+" • q keluar")
}
