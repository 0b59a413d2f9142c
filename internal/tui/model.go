package tui

import (
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/julianstephens/habitual/internal/config"
	"github.com/julianstephens/habitual/internal/constants"
	"github.com/julianstephens/habitual/internal/habits"
	"github.com/julianstephens/habitual/internal/models"
	"github.com/julianstephens/habitual/internal/profile"
	"github.com/julianstephens/habitual/internal/storage"
	"github.com/julianstephens/habitual/internal/suggest"
	"github.com/julianstephens/habitual/internal/tui/components/calendar"
	"github.com/julianstephens/habitual/internal/tui/components/habitlist"
	"github.com/julianstephens/habitual/internal/tui/components/suggestions"
)

// Options wires the TUI to its storage and clock.
type Options struct {
	Store  storage.Provider
	Config config.Config
	Now    func() time.Time
	// NewProvider overrides the suggestion provider factory
	NewProvider func(credential string, cfg config.Suggest) suggest.Provider
}

type OnboardingFormModel struct {
	Name       string
	Credential string
}

type IdentityFormModel struct {
	Identity string
	Context  string
}

type Model struct {
	habits      *habits.Store
	profiles    *profile.Store
	cfg         config.Config
	now         func() time.Time
	newProvider func(credential string, cfg config.Suggest) suggest.Provider
	storePath   string

	profile    models.UserProfile
	hasProfile bool

	state          constants.SessionState
	previousState  constants.SessionState
	keys           KeyMap
	help           help.Model
	habitList      habitlist.Model
	calendarModel  calendar.Model
	suggestModel   suggestions.Model
	form           *huh.Form
	onboardingForm *OnboardingFormModel
	identityForm   *IdentityFormModel

	habitToDeleteID string
	// suggestSeq identifies the latest suggestion request; older responses are dropped
	suggestSeq int
	formError  string
	statusMsg  string
	quitting   bool
	width      int
	height     int
}

func NewModel(opts Options) Model {
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	newProvider := opts.NewProvider
	if newProvider == nil {
		newProvider = suggest.New
	}

	hs := habits.NewStore(opts.Store, habits.WithClock(now), habits.WithLocation(opts.Config.Location()))
	hs.Load()
	ps := profile.NewStore(opts.Store)
	p, ok := ps.Load()

	m := Model{
		habits:      hs,
		profiles:    ps,
		cfg:         opts.Config,
		now:         now,
		newProvider: newProvider,
		storePath:   opts.Store.GetConfigPath(),
		profile:     p,
		hasProfile:  ok,
		state:       constants.StateDashboard,
		keys:        DefaultKeyMap(),
		help:        help.New(),
		habitList:   habitlist.New(hs.List(), hs.Today(), 0, 0),
		// Replaced by startSuggestions; resizes reach it before then
		suggestModel: suggestions.New("", "", 0, 0),
	}
	if !ok {
		m.startOnboarding()
	}
	return m
}

func (m Model) Init() tea.Cmd {
	if m.state == constants.StateOnboarding && m.form != nil {
		return m.form.Init()
	}
	return nil
}

// State reports the active view.
func (m Model) State() constants.SessionState {
	return m.state
}

func (m Model) ShortHelp() []key.Binding {
	switch m.state {
	case constants.StateConfirmDelete, constants.StateConfirmReset:
		return []key.Binding{m.keys.Yes, m.keys.No}
	case constants.StateHistory:
		k := m.calendarModel.Keys
		return []key.Binding{k.Prev, k.Next, k.Back}
	case constants.StateSuggestions:
		k := suggestions.DefaultKeyMap()
		return []key.Binding{k.Add, k.Refresh, k.Back}
	}

	keys := []key.Binding{m.keys.Tab, m.keys.Quit, m.keys.Help}
	switch m.state {
	case constants.StateHabits:
		k := habitlist.DefaultKeyMap()
		keys = append(keys, k.Toggle, k.History, k.Delete, k.New)
	case constants.StateSettings:
		keys = append(keys, m.keys.Reset)
	}
	return keys
}

func (m Model) FullHelp() [][]key.Binding {
	global := []key.Binding{m.keys.Tab, m.keys.ShiftTab, m.keys.Quit, m.keys.Help}
	navigation := []key.Binding{m.keys.Up, m.keys.Down}

	var actions []key.Binding
	switch m.state {
	case constants.StateHabits:
		k := habitlist.DefaultKeyMap()
		actions = []key.Binding{k.Toggle, k.History, k.Delete, k.New}
	case constants.StateSettings:
		actions = []key.Binding{m.keys.Reset}
	}
	return [][]key.Binding{global, navigation, actions}
}

// refresh pushes the current habit collection into the list view.
func (m *Model) refresh() {
	m.habitList.SetHabits(m.habits.List(), m.habits.Today())
}

func (m Model) contentHeight() int {
	return max(m.height-4, 0)
}
