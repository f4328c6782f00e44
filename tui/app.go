package tui

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"seatplan-cli/config"
	"seatplan-cli/layout"
	"seatplan-cli/model"
	"seatplan-cli/pricing"
	"seatplan-cli/service"
	"seatplan-cli/store"
)

type appState int

const (
	stateLoadingRooms appState = iota
	stateSelectRoom
	stateLoadingSeats
	stateViewLayout
	stateEditLayout
	stateSelectTemplate
	statePricing
	stateSaving
	stateError
)

type appModel struct {
	client *service.Client
	prices *pricing.Store
	cfg    config.Config

	state     appState
	lastState appState
	err       error

	width  int
	height int

	rooms []model.Room
	room  model.Room
	seats []model.Seat

	displayGrid layout.Grid
	editGrid    layout.Grid
	mode        layout.Mode
	cursor      gridCursor
	dirty       bool

	roomList     list.Model
	templateList list.Model

	priceCursor int
	notice      string

	showSeatNumbers bool
	tokenExpired    bool

	spinner spinner.Model
}

type errMsg struct {
	err            error
	returnState    appState
	returnStateSet bool
}

type roomsMsg struct {
	rooms []model.Room
	err   error
}

// seatsMsg is tagged with the room it was requested for, so a late response
// for a superseded selection can be discarded instead of applied.
type seatsMsg struct {
	roomID int
	seats  []model.Seat
	err    error
}

type savedMsg struct {
	roomID int
	err    error
}

func New(cfg config.Config, client *service.Client, prices *pricing.Store) tea.Model {
	m := appModel{
		client: client,
		prices: prices,
		cfg:    cfg,
		state:  stateLoadingRooms,
	}

	m.roomList = newList("Select Room")
	m.templateList = newList("Apply Template")
	m.templateList.SetItems(buildTemplateItems())

	m.showSeatNumbers = false
	m.tokenExpired = service.TokenExpired(cfg.Token, time.Now())

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("5"))
	m.spinner = sp

	return m
}

func (m appModel) Init() tea.Cmd {
	return tea.Batch(m.fetchRoomsCmd(), m.spinner.Tick)
}

func (m appModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resizeLists()
		return m, nil

	case tea.KeyMsg:
		if m.handleFilterInput(msg) {
			return m, nil
		}
		if next, cmd, handled := m.handleKey(msg); handled {
			return next, cmd
		}

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		if m.isLoadingState() {
			return m, cmd
		}
		return m, nil

	case errMsg:
		m.err = msg.err
		if msg.returnStateSet {
			m.lastState = msg.returnState
		} else {
			m.lastState = recoverStateFrom(m.state)
		}
		m.state = stateError
		return m, nil

	case roomsMsg:
		if msg.err != nil {
			return m, errCmd(msg.err)
		}
		m.rooms = msg.rooms
		m.roomList.SetItems(buildRoomItems(msg.rooms))
		m.state = stateSelectRoom
		return m, nil

	case seatsMsg:
		if msg.roomID != m.room.RoomID {
			// Stale response for a superseded selection.
			return m, nil
		}
		if msg.err != nil {
			return m, errWithOptionsCmd(msg.err, stateSelectRoom)
		}
		m.seats = msg.seats
		m.displayGrid = layout.BuildFromPersisted(msg.seats)
		m.state = stateViewLayout
		return m, nil

	case savedMsg:
		if msg.roomID != m.room.RoomID {
			return m, nil
		}
		if msg.err != nil {
			// Keep the editor open with all edits intact for a manual retry.
			m.state = stateEditLayout
			m.notice = fmt.Sprintf("save failed: %v", msg.err)
			return m, nil
		}
		m.editGrid = nil
		m.dirty = false
		m.notice = ""
		m.state = stateLoadingSeats
		return m, tea.Batch(m.fetchSeatsCmd(m.room.RoomID), m.spinner.Tick)
	}

	var cmd tea.Cmd
	switch m.state {
	case stateSelectRoom:
		m.roomList, cmd = m.roomList.Update(msg)
	case stateSelectTemplate:
		m.templateList, cmd = m.templateList.Update(msg)
	}
	return m, cmd
}

func (m appModel) View() string {
	header := m.headerView()
	switch m.state {
	case stateLoadingRooms, stateLoadingSeats, stateSaving:
		return header + "\n\n" + m.loadingView()
	case stateSelectRoom:
		return header + "\n\n" + m.roomList.View()
	case stateViewLayout:
		body := renderGrid(m.displayGrid, nil, m.showSeatNumbers)
		return header + "\n\n" + body + "\n" + hint(renderLegend(m.showSeatNumbers)) + "\n" + hint(renderCounts(m.displayGrid))
	case stateEditLayout:
		body := renderGrid(m.editGrid, &m.cursor, m.showSeatNumbers)
		lines := header + "\n\n" + body + "\n" + hint(renderLegend(m.showSeatNumbers)) + "\n" + hint(renderCounts(m.editGrid))
		if m.notice != "" {
			lines += "\n" + lipgloss.NewStyle().Foreground(lipgloss.Color("1")).Render(m.notice)
		}
		return lines
	case stateSelectTemplate:
		return header + "\n\n" + m.templateList.View()
	case statePricing:
		table := m.prices.Effective(m.room.RoomID)
		body := renderPricing(m.room.RoomName, table, m.prices.HasOverride(m.room.RoomID), m.priceCursor, m.notice)
		return header + "\n\n" + body
	case stateError:
		return header + "\n\n" + lipgloss.NewStyle().Foreground(lipgloss.Color("1")).Render(m.err.Error()) + "\n\n" + hint("Press esc to go back or ctrl+c to quit.")
	default:
		return header
	}
}

func (m appModel) headerView() string {
	title := lipgloss.NewStyle().Bold(true).Render("Seat Layout Designer")
	sub := []string{}
	if m.room.RoomName != "" {
		sub = append(sub, fmt.Sprintf("Room: %s (%s)", m.room.RoomName, m.room.RoomType))
	}
	if m.state == stateEditLayout || m.state == stateSelectTemplate || m.state == statePricing {
		sub = append(sub, fmt.Sprintf("Mode: %s", m.mode))
	}
	if m.dirty {
		sub = append(sub, "unsaved changes")
	}
	if m.tokenExpired {
		sub = append(sub, "token expired")
	}
	meta := strings.Join(sub, " • ")
	if meta != "" {
		meta = "\n" + hint(meta)
	}

	hints := "ctrl+c quit • esc back"
	switch m.state {
	case stateSelectRoom:
		hints = "ctrl+c quit • type to filter • enter select room"
	case stateViewLayout:
		hints = "ctrl+c quit • esc back • e edit layout • n toggle numbers"
	case stateEditLayout:
		hints = "arrows move • space apply • s/c/p/a mode • t template • $ pricing • ctrl+s save • ctrl+r discard • esc close"
	case stateSelectTemplate:
		hints = "enter apply (discards edits) • esc back"
	case statePricing:
		hints = "up/down select • +/- adjust • r reset override • esc back"
	}
	return title + meta + "\n" + hint(hints)
}

func (m appModel) loadingView() string {
	title := "Loading"
	switch m.state {
	case stateLoadingRooms:
		title = "Loading rooms"
	case stateLoadingSeats:
		title = "Loading seats"
	case stateSaving:
		title = "Saving layout"
	}
	return fmt.Sprintf("%s %s\n\n%s", m.spinner.View(), title, hint("Talking to the backend..."))
}

func (m appModel) handleKey(msg tea.KeyMsg) (appModel, tea.Cmd, bool) {
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit, true
	case "esc":
		if listPtr := m.activeList(); listPtr != nil {
			if listPtr.SettingFilter() || listPtr.IsFiltered() {
				listPtr.ResetFilter()
				return m, nil, true
			}
		}
		return m.goBack()
	case "n":
		if m.state == stateViewLayout || m.state == stateEditLayout {
			m.showSeatNumbers = !m.showSeatNumbers
			return m, nil, true
		}
	case "e":
		if m.state == stateViewLayout {
			return m.openEditor()
		}
	}

	switch m.state {
	case stateEditLayout:
		return m.handleEditorKey(msg)
	case statePricing:
		return m.handlePricingKey(msg)
	}

	if msg.Type == tea.KeyEnter {
		switch m.state {
		case stateSelectRoom:
			item, ok := m.roomList.SelectedItem().(roomItem)
			if !ok {
				return m, nil, true
			}
			return m.selectRoom(item.room)
		case stateSelectTemplate:
			item, ok := m.templateList.SelectedItem().(templateItem)
			if !ok {
				return m, nil, true
			}
			return m.applyTemplate(item.template.Key)
		}
	}
	return m, nil, false
}

func (m appModel) handleEditorKey(msg tea.KeyMsg) (appModel, tea.Cmd, bool) {
	rows := m.editGrid.RowCount()
	cols := m.editGrid.ColumnCount()

	switch msg.String() {
	case "up", "k":
		if m.cursor.row > 0 {
			m.cursor.row--
		}
		return m, nil, true
	case "down", "j":
		if m.cursor.row < rows-1 {
			m.cursor.row++
		}
		return m, nil, true
	case "left", "h":
		if m.cursor.col > 0 {
			m.cursor.col--
		}
		return m, nil, true
	case "right", "l":
		if m.cursor.col < cols-1 {
			m.cursor.col++
		}
		return m, nil, true
	case " ", "enter":
		cfg := m.prices.Effective(m.room.RoomID)
		next := layout.ApplyClick(m.editGrid, m.cursor.row, m.cursor.col, m.mode, cfg)
		if !next.Equal(m.editGrid) {
			m.editGrid = next
			m.dirty = true
			m.notice = ""
		}
		return m, nil, true
	case "s":
		m.mode = layout.ModeSingle
		return m, nil, true
	case "c":
		m.mode = layout.ModeCouple
		return m, nil, true
	case "p":
		m.mode = layout.ModePremium
		return m, nil, true
	case "a":
		m.mode = layout.ModeAisle
		return m, nil, true
	case "t":
		m.state = stateSelectTemplate
		return m, nil, true
	case "$":
		m.notice = ""
		m.priceCursor = 0
		m.state = statePricing
		return m, nil, true
	case "ctrl+r":
		// Discard in-progress edits by re-running the grid builder.
		m.editGrid = nil
		m.dirty = false
		m.notice = ""
		return m.openEditor()
	case "ctrl+s":
		return m.saveLayout()
	}
	return m, nil, true
}

func (m appModel) handlePricingKey(msg tea.KeyMsg) (appModel, tea.Cmd, bool) {
	seatTypes := model.SeatTypes()

	switch msg.String() {
	case "up", "k":
		if m.priceCursor > 0 {
			m.priceCursor--
		}
		return m, nil, true
	case "down", "j":
		if m.priceCursor < len(seatTypes)-1 {
			m.priceCursor++
		}
		return m, nil, true
	case "+", "=":
		return m.adjustPrice(seatTypes[m.priceCursor], 0.1)
	case "-", "_":
		return m.adjustPrice(seatTypes[m.priceCursor], -0.1)
	case "r":
		if err := m.prices.ResetOverride(m.room.RoomID); err != nil {
			m.notice = err.Error()
			return m, nil, true
		}
		m.notice = ""
		return m, nil, true
	}
	return m, nil, true
}

func (m appModel) adjustPrice(seatType model.SeatType, delta float64) (appModel, tea.Cmd, bool) {
	current := m.prices.Effective(m.room.RoomID).For(seatType)
	next := roundMultiplier(current + delta)
	if err := m.prices.SetOverride(m.room.RoomID, seatType, next); err != nil {
		if errors.Is(err, pricing.ErrInvalidMultiplier) {
			m.notice = fmt.Sprintf("multiplier for %s must stay above zero", seatType)
			return m, nil, true
		}
		m.notice = err.Error()
		return m, nil, true
	}
	m.notice = ""
	return m, nil, true
}

func (m appModel) selectRoom(room model.Room) (appModel, tea.Cmd, bool) {
	m.room = room
	m.editGrid = nil
	m.dirty = false
	m.notice = ""
	_ = store.RememberRoom(room.RoomID, room.RoomName)
	m.state = stateLoadingSeats
	return m, tea.Batch(m.fetchSeatsCmd(room.RoomID), m.spinner.Tick), true
}

func (m appModel) openEditor() (appModel, tea.Cmd, bool) {
	if m.room.RoomID == 0 {
		return m, errCmd(errors.New("select a room before opening the editor")), true
	}
	if m.editGrid == nil {
		cfg := m.prices.Effective(m.room.RoomID)
		if len(m.seats) > 0 {
			m.editGrid = layout.BuildFromPersisted(m.seats)
		} else {
			spec := m.freshGridSpec()
			m.editGrid = layout.BuildFromSpec(spec.Rows, spec.Columns, spec.RowLabels, nil, cfg)
		}
		m.cursor = gridCursor{}
		m.mode = layout.ModeSingle
		m.dirty = false
	}
	m.state = stateEditLayout
	return m, nil, true
}

// freshGridSpec returns the last-used row/column configuration, falling back
// to the configured defaults.
func (m appModel) freshGridSpec() store.GridSpec {
	if spec, ok, err := store.LoadLastSpec(); err == nil && ok {
		return spec
	}
	return store.GridSpec{
		Rows:    m.cfg.DefaultRows,
		Columns: m.cfg.DefaultColumns,
	}
}

// applyTemplate rebuilds the editor grid from a preset, discarding any
// in-progress manual edits.
func (m appModel) applyTemplate(key string) (appModel, tea.Cmd, bool) {
	tpl, err := layout.TemplateByKey(key)
	if err != nil {
		return m, errWithOptionsCmd(err, stateEditLayout), true
	}
	cfg := m.prices.Effective(m.room.RoomID)
	m.editGrid = layout.BuildFromSpec(tpl.Rows, tpl.Columns, tpl.RowLabels, &tpl, cfg)
	m.cursor = gridCursor{}
	m.dirty = true
	m.notice = ""
	_ = store.SaveLastSpec(store.GridSpec{Rows: tpl.Rows, Columns: tpl.Columns, RowLabels: tpl.RowLabels})
	m.state = stateEditLayout
	return m, nil, true
}

func (m appModel) saveLayout() (appModel, tea.Cmd, bool) {
	if m.editGrid == nil {
		return m, nil, true
	}
	payload := model.LayoutPayload{
		RoomID:       m.room.RoomID,
		RoomName:     m.room.RoomName,
		TotalRows:    m.editGrid.RowCount(),
		TotalColumns: m.editGrid.ColumnCount(),
		RowLabels:    strings.Join(m.editGrid.RowLabels(), ""),
		RoomType:     m.room.RoomType,
		Seats:        layout.Flatten(m.editGrid),
	}
	m.state = stateSaving
	return m, tea.Batch(m.saveLayoutCmd(payload), m.spinner.Tick), true
}

func (m appModel) goBack() (appModel, tea.Cmd, bool) {
	switch m.state {
	case stateSelectRoom:
		return m, nil, true
	case stateViewLayout:
		m.state = stateSelectRoom
	case stateEditLayout:
		// Closing the editor keeps the grid until save or discard.
		m.state = stateViewLayout
	case stateSelectTemplate:
		m.state = stateEditLayout
	case statePricing:
		// Refresh the grid in place so price edits show up immediately.
		if m.editGrid != nil {
			m.editGrid = layout.ApplyPricing(m.editGrid, m.prices.Effective(m.room.RoomID))
		}
		m.notice = ""
		m.state = stateEditLayout
	case stateError:
		m.state = m.lastState
	default:
		return m, nil, true
	}
	return m, nil, true
}

func (m *appModel) handleFilterInput(msg tea.KeyMsg) bool {
	listPtr := m.activeList()
	if listPtr == nil {
		return false
	}
	if !listPtr.FilteringEnabled() {
		return false
	}
	switch msg.Type {
	case tea.KeyRunes:
		if len(msg.Runes) == 0 {
			return false
		}
		m.appendFilter(listPtr, string(msg.Runes))
		return true
	case tea.KeySpace:
		m.appendFilter(listPtr, " ")
		return true
	case tea.KeyBackspace, tea.KeyDelete:
		if listPtr.FilterValue() == "" {
			return false
		}
		m.popFilter(listPtr)
		return true
	default:
		return false
	}
}

func (m *appModel) appendFilter(listPtr *list.Model, value string) {
	if value == "" {
		return
	}
	current := listPtr.FilterValue()
	listPtr.SetFilterText(current + value)
}

func (m *appModel) popFilter(listPtr *list.Model) {
	value := listPtr.FilterValue()
	if value == "" {
		return
	}
	value = trimLastRune(value)
	if value == "" {
		listPtr.ResetFilter()
		return
	}
	listPtr.SetFilterText(value)
}

func trimLastRune(value string) string {
	runes := []rune(value)
	if len(runes) <= 1 {
		return ""
	}
	return string(runes[:len(runes)-1])
}

func (m *appModel) activeList() *list.Model {
	switch m.state {
	case stateSelectRoom:
		return &m.roomList
	case stateSelectTemplate:
		return &m.templateList
	default:
		return nil
	}
}

func (m appModel) isLoadingState() bool {
	return m.state == stateLoadingRooms ||
		m.state == stateLoadingSeats ||
		m.state == stateSaving
}

func (m *appModel) resizeLists() {
	if m.width == 0 || m.height == 0 {
		return
	}
	h := m.height - 6
	if h < 6 {
		h = 6
	}
	m.roomList.SetSize(m.width, h)
	m.templateList.SetSize(m.width, h)
}

func newList(title string) list.Model {
	delegate := list.NewDefaultDelegate()
	delegate.ShowDescription = true
	l := list.New([]list.Item{}, delegate, 0, 0)
	l.Title = title
	l.Filter = caseInsensitiveFilter
	l.SetFilteringEnabled(true)
	l.SetShowFilter(true)
	l.SetShowStatusBar(false)
	l.SetShowHelp(false)
	return l
}

func hint(text string) string {
	return lipgloss.NewStyle().Faint(true).Render(text)
}

func errCmd(err error) tea.Cmd {
	return func() tea.Msg {
		return errMsg{err: err}
	}
}

func errWithOptionsCmd(err error, returnState appState) tea.Cmd {
	return func() tea.Msg {
		return errMsg{err: err, returnState: returnState, returnStateSet: true}
	}
}

func recoverStateFrom(state appState) appState {
	switch state {
	case stateLoadingRooms:
		return stateSelectRoom
	case stateLoadingSeats:
		return stateSelectRoom
	case stateSaving:
		return stateEditLayout
	case stateError:
		return stateSelectRoom
	default:
		return state
	}
}

func caseInsensitiveFilter(term string, targets []string) []list.Rank {
	term = strings.ToLower(term)
	lower := make([]string, len(targets))
	for i, t := range targets {
		lower[i] = strings.ToLower(t)
	}
	return list.DefaultFilter(term, lower)
}

func roundMultiplier(value float64) float64 {
	return float64(int(value*100+0.5)) / 100
}

func (m appModel) fetchRoomsCmd() tea.Cmd {
	return func() tea.Msg {
		ctx := context.Background()
		rooms, err := m.client.GetRooms(ctx)
		return roomsMsg{rooms: rooms, err: err}
	}
}

func (m appModel) fetchSeatsCmd(roomID int) tea.Cmd {
	return func() tea.Msg {
		ctx := context.Background()
		seats, err := m.client.GetRoomSeats(ctx, roomID)
		return seatsMsg{roomID: roomID, seats: seats, err: err}
	}
}

func (m appModel) saveLayoutCmd(payload model.LayoutPayload) tea.Cmd {
	return func() tea.Msg {
		ctx := context.Background()
		err := m.client.SaveRoomLayout(ctx, payload)
		return savedMsg{roomID: payload.RoomID, err: err}
	}
}

type roomItem struct {
	room   model.Room
	recent bool
}

func (r roomItem) Title() string {
	return fmt.Sprintf("%s (%s)", r.room.RoomName, r.room.RoomType)
}

func (r roomItem) Description() string {
	parts := []string{}
	if r.recent {
		parts = append(parts, "Recent")
	}
	if r.room.TotalSeats > 0 {
		parts = append(parts, fmt.Sprintf("%d seats", r.room.TotalSeats))
	} else {
		parts = append(parts, "no layout yet")
	}
	return strings.Join(parts, " • ")
}

func (r roomItem) FilterValue() string {
	return strings.ToLower(strings.Join([]string{r.room.RoomName, string(r.room.RoomType)}, " "))
}

func buildRoomItems(rooms []model.Room) []list.Item {
	recents, _ := store.LoadRecentRooms()
	byID := map[int]model.Room{}
	for _, room := range rooms {
		byID[room.RoomID] = room
	}

	var items []list.Item
	used := map[int]bool{}
	for _, recent := range recents {
		if room, ok := byID[recent.ID]; ok && !used[room.RoomID] {
			items = append(items, roomItem{room: room, recent: true})
			used[room.RoomID] = true
		}
	}

	remaining := make([]model.Room, 0, len(rooms))
	for _, room := range rooms {
		if !used[room.RoomID] {
			remaining = append(remaining, room)
		}
	}
	sort.Slice(remaining, func(i, j int) bool {
		return strings.ToLower(remaining[i].RoomName) < strings.ToLower(remaining[j].RoomName)
	})
	for _, room := range remaining {
		items = append(items, roomItem{room: room})
	}
	return items
}

type templateItem struct {
	template layout.Template
}

func (t templateItem) Title() string {
	return t.template.DisplayName
}

func (t templateItem) Description() string {
	parts := []string{fmt.Sprintf("%d×%d", t.template.Rows, t.template.Columns)}
	if len(t.template.AisleColumns) > 0 || len(t.template.AisleRows) > 0 {
		parts = append(parts, "aisles")
	}
	if t.template.PremiumZone != nil {
		parts = append(parts, "premium zone")
	}
	if len(t.template.CoupleRows) > 0 {
		parts = append(parts, "couple rows")
	}
	return strings.Join(parts, " • ")
}

func (t templateItem) FilterValue() string {
	return strings.ToLower(t.template.DisplayName)
}

func buildTemplateItems() []list.Item {
	templates := layout.Templates()
	items := make([]list.Item, 0, len(templates))
	for _, tpl := range templates {
		items = append(items, templateItem{template: tpl})
	}
	return items
}
