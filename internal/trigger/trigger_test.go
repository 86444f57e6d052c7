package trigger

import (
	"context"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/Rorical/typedconfirm/internal/config"
	"github.com/Rorical/typedconfirm/internal/modal"
	"github.com/Rorical/typedconfirm/internal/models"
	"github.com/Rorical/typedconfirm/internal/registry"
	"github.com/Rorical/typedconfirm/internal/utils"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type fakeHost struct {
	reg     *registry.Registry
	modals  []*modal.Model
	pending []int // registry size observed at mount time
}

func (h *fakeHost) Mount(m *modal.Model) tea.Cmd {
	h.modals = append(h.modals, m)
	if h.reg != nil {
		h.pending = append(h.pending, h.reg.Pending())
	}
	return nil
}

func (h *fakeHost) last() *modal.Model {
	return h.modals[len(h.modals)-1]
}

// collect runs cmd, expanding batches, and returns every message produced.
func collect(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		var out []tea.Msg
		for _, c := range batch {
			out = append(out, collect(c)...)
		}
		return out
	}
	if msg == nil {
		return nil
	}
	return []tea.Msg{msg}
}

// activate starts the listener in the background and returns a receiver
// for its result.
func activate(t *testing.T, tr *Trigger) <-chan []tea.Msg {
	t.Helper()
	cmd := tr.Activate()
	require.NotNil(t, cmd)

	out := make(chan []tea.Msg, 1)
	go func() { out <- collect(cmd) }()
	return out
}

func resultOf(t *testing.T, msgs []tea.Msg) ResultMsg {
	t.Helper()
	for _, msg := range msgs {
		if r, ok := msg.(ResultMsg); ok {
			return r
		}
	}
	t.Fatalf("no ResultMsg among %v", msgs)
	return ResultMsg{}
}

func TestNew_Defaults(t *testing.T) {
	tr := New(registry.New(), &fakeHost{}, config.DefaultConfig(), models.Literal("DELETE"), config.Options{})

	assert.Equal(t, StateNoAction, tr.State())
	_, err := uuid.Parse(tr.ElementID())
	assert.NoError(t, err)
	assert.Equal(t, tr.ElementID(), tr.Name())
	assert.Empty(t, tr.CorrelationID())
}

func TestNew_MergesOptions(t *testing.T) {
	root := config.DefaultConfig()
	root.Settings.HideHeader = true

	tr := New(registry.New(), &fakeHost{}, root, models.Literal("x"), config.Options{
		Translations: &config.TranslationsPatch{ConfirmLabel: config.String("Drop")},
		Settings:     &config.SettingsPatch{AutoConfirm: config.Bool(true)},
	}, WithName("drop"))

	cfg := tr.Config()
	assert.Equal(t, "drop", tr.Name())
	assert.Equal(t, "Drop", cfg.Translations.ConfirmLabel)
	assert.Equal(t, root.Translations.CancelLabel, cfg.Translations.CancelLabel)
	assert.True(t, cfg.Settings.AutoConfirm)
	assert.True(t, cfg.Settings.HideHeader, "merge keeps root settings")
	assert.Equal(t, root.Classes, cfg.Classes)

	replaced := New(registry.New(), &fakeHost{}, root, models.Literal("x"), config.Options{
		Settings: &config.SettingsPatch{AutoConfirm: config.Bool(true)},
	}, WithReplace())
	assert.False(t, replaced.Config().Settings.HideHeader, "replace restarts the section from defaults")
}

func TestNew_ReplaceKeywordSpaces(t *testing.T) {
	opts := config.Options{Settings: &config.SettingsPatch{ReplaceKeywordSpaces: config.Bool(true)}}
	tr := New(registry.New(), &fakeHost{}, config.DefaultConfig(), models.Literal("drop prod\tdb"), opts)

	assert.Equal(t, "drop-prod-db", tr.Keyword().Literal)
}

func TestActivate_Confirmed(t *testing.T) {
	reg := registry.New()
	h := &fakeHost{reg: reg}
	tr, events := Open(reg, h, config.DefaultConfig(), models.Literal("DELETE"), config.Options{})

	var heard []models.ConfirmationEvent
	tr.OnConfirmation(func(ev models.ConfirmationEvent) { heard = append(heard, ev) })

	res := activate(t, tr)
	m := h.last()
	assert.Equal(t, []int{1}, h.pending, "id registered before the modal was mounted")
	assert.Equal(t, m.ID(), tr.CorrelationID())

	m.SetInput("DELETE")
	require.NotNil(t, m.Confirm())

	r := resultOf(t, <-res)
	cmd := tr.Update(r)
	require.NotNil(t, cmd)

	ev := cmd().(EventMsg).Event
	assert.Equal(t, m.ID(), ev.ID)
	assert.True(t, ev.Value)
	assert.Same(t, tr, ev.Element)

	assert.Equal(t, StateConfirmed, tr.State())
	assert.Equal(t, ev, <-events)
	assert.Equal(t, []models.ConfirmationEvent{ev}, heard)
	assert.Empty(t, tr.CorrelationID())

	tr.Dispose()
}

func TestActivate_Cancelled(t *testing.T) {
	reg := registry.New()
	h := &fakeHost{}
	tr, events := Open(reg, h, config.DefaultConfig(), models.Literal("DELETE"), config.Options{})

	res := activate(t, tr)
	require.NotNil(t, h.last().Cancel())

	tr.Update(resultOf(t, <-res))

	assert.Equal(t, StateNotConfirmed, tr.State())
	ev := <-events
	assert.False(t, ev.Value)

	tr.Dispose()
}

func TestActivate_FalseEmissionSuppressed(t *testing.T) {
	reg := registry.New()
	h := &fakeHost{}
	opts := config.Options{Settings: &config.SettingsPatch{DisableFalseEmission: config.Bool(true)}}
	tr, events := Open(reg, h, config.DefaultConfig(), models.Literal("DELETE"), opts)

	res := activate(t, tr)
	h.last().Cancel()

	r := resultOf(t, <-res)
	assert.False(t, r.Delivered)
	assert.Nil(t, tr.Update(r))

	assert.Equal(t, StateNoAction, tr.State())
	assert.Empty(t, events)
	assert.Zero(t, reg.Pending())

	tr.Dispose()
}

func TestActivate_RandomKeywordPerActivation(t *testing.T) {
	reg := registry.New()
	h := &fakeHost{}
	opts := config.Options{Settings: &config.SettingsPatch{RandomKeywordLength: config.Int(12)}}
	tr := New(reg, h, config.DefaultConfig(), models.Keyword{}, opts)

	var keywords []string
	for i := 0; i < 2; i++ {
		res := activate(t, tr)
		m := h.last()

		kw := m.Keyword()
		assert.Len(t, kw, 12)
		assert.True(t, utils.InAlphabet(kw))
		_, ok := m.Regenerator()
		assert.True(t, ok, "generated keywords may be regenerated")
		keywords = append(keywords, kw)

		m.SetInput(kw)
		m.Confirm()
		tr.Update(resultOf(t, <-res))
	}

	assert.NotEqual(t, keywords[0], keywords[1])
	assert.NotEqual(t, h.modals[0].ID(), h.modals[1].ID())
	tr.Dispose()
}

func TestActivate_AsyncKeyword(t *testing.T) {
	reg := registry.New()
	h := &fakeHost{}
	pred := func(ctx context.Context, input string) (models.Outcome, error) {
		return models.Outcome{Success: true}, nil
	}
	tr := New(reg, h, config.DefaultConfig(), models.Async(pred), config.Options{})

	res := activate(t, tr)
	m := h.last()
	assert.True(t, m.IsAsync())
	_, ok := m.Regenerator()
	assert.False(t, ok)

	m.Cancel()
	<-res
}

func TestActivate_HostBoardFallback(t *testing.T) {
	board := registry.NewHostBoard[Mounter]()
	h := &fakeHost{}
	board.Publish(h)

	tr := New(registry.New(), nil, config.DefaultConfig(), models.Literal("x"), config.Options{}, WithHostBoard(board))
	res := activate(t, tr)
	require.Len(t, h.modals, 1)

	tr.Dispose()
	<-res
}

func TestActivate_NoMountPoint(t *testing.T) {
	reg := registry.New()
	tr := New(reg, nil, config.DefaultConfig(), models.Literal("x"), config.Options{})

	assert.Nil(t, tr.Activate())
	assert.Zero(t, reg.Pending())
}

func TestDispose(t *testing.T) {
	reg := registry.New()
	h := &fakeHost{}
	tr, events := Open(reg, h, config.DefaultConfig(), models.Literal("DELETE"), config.Options{})

	res := activate(t, tr)
	tr.Dispose()

	r := resultOf(t, <-res)
	assert.False(t, r.Delivered)
	assert.Nil(t, tr.Update(r))
	assert.Zero(t, reg.Pending())

	_, open := <-events
	assert.False(t, open)

	assert.Nil(t, tr.Activate(), "disposed triggers stay inert")
	assert.False(t, reg.Resolve(h.last().ID(), true))
}

func TestUpdate_IgnoresOtherTriggers(t *testing.T) {
	reg := registry.New()
	h := &fakeHost{}
	a := New(reg, h, config.DefaultConfig(), models.Literal("A"), config.Options{})
	b := New(reg, h, config.DefaultConfig(), models.Literal("B"), config.Options{})

	res := activate(t, a)
	h.last().SetInput("A")
	h.last().Confirm()
	r := resultOf(t, <-res)

	assert.Nil(t, b.Update(r))
	assert.Equal(t, StateNoAction, b.State())
	assert.NotNil(t, a.Update(r))
}
