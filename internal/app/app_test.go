package app

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap"

	"github.com/Rorical/typedconfirm/internal/config"
	"github.com/Rorical/typedconfirm/internal/eventbus"
	"github.com/Rorical/typedconfirm/internal/host"
	"github.com/Rorical/typedconfirm/internal/modal"
	"github.com/Rorical/typedconfirm/internal/models"
	"github.com/Rorical/typedconfirm/internal/registry"
	"github.com/Rorical/typedconfirm/internal/trigger"
	"github.com/Rorical/typedconfirm/internal/update"
)

const batchYAML = `actions:
  - name: wipe
    description: Clears the **scratch** directory
    run: echo wiped
    keyword: WIPE
  - name: rotate
    run: echo rotated
`

func loadFile(t *testing.T) *config.File {
	t.Helper()
	t.Setenv("TYPEDCONFIRM_HOME", t.TempDir())
	t.Setenv("OPENAI_API_KEY", "")
	file, err := config.LoadConfig()
	require.NoError(t, err)
	return file
}

func writeBatch(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "batch.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
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

func collectAsync(cmd tea.Cmd) <-chan []tea.Msg {
	out := make(chan []tea.Msg, 1)
	go func() { out <- collect(cmd) }()
	return out
}

func find[T tea.Msg](t *testing.T, msgs []tea.Msg) T {
	t.Helper()
	for _, msg := range msgs {
		if v, ok := msg.(T); ok {
			return v
		}
	}
	var zero T
	t.Fatalf("no %T among %v", zero, msgs)
	return zero
}

func typeText(m tea.Model, s string) {
	for _, r := range s {
		m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
}

func TestNewApplication_BuildsRows(t *testing.T) {
	app, err := NewApplication(loadFile(t), writeBatch(t, batchYAML))
	require.NoError(t, err)
	defer app.Stop()

	rows := app.Actions()
	require.Len(t, rows, 2)
	assert.Equal(t, "wipe", rows[0].Name)
	assert.Equal(t, "echo wiped", rows[0].Command)
	assert.False(t, rows[0].Dangerous)
	assert.Equal(t, trigger.StateNoAction, rows[0].TriggerTag)
	assert.Len(t, app.model.triggers, 2)
}

func TestApplication_StartFailsBeforeRunning(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	path := writeBatch(t, batchYAML)
	app, err := NewApplication(loadFile(t), path, WithWatch(true))
	require.NoError(t, err)
	defer app.Stop()

	require.NoError(t, os.RemoveAll(filepath.Dir(path)))

	err = app.Start(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to watch")
}

func TestNewApplication_Errors(t *testing.T) {
	file := loadFile(t)

	_, err := NewApplication(file, filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	_, err = NewApplication(file, writeBatch(t, "preset: nope\nactions:\n  - name: a\n    run: echo a\n"))
	assert.ErrorIs(t, err, config.ErrPresetNotFound)

	_, err = NewApplication(file, writeBatch(t, "actions:\n  - name: a\n    run: echo a\n    check:\n      type: judge\n      criterion: says yes\n"))
	assert.Error(t, err, "judge needs credentials")
}

func TestAppModel_ConfirmRunsCommand(t *testing.T) {
	app, err := NewApplication(loadFile(t), writeBatch(t, batchYAML))
	require.NoError(t, err)
	defer app.Stop()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- app.service.Run(ctx) }()
	defer func() {
		cancel()
		assert.NoError(t, <-done)
	}()

	m := app.model
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	activate := find[update.ActivateMsg](t, collect(cmd))
	assert.Equal(t, models.ActionAwaiting, m.appModel.Actions[0].State)

	_, cmd = m.Update(activate)
	pending := collectAsync(cmd)
	require.NotNil(t, m.host.Active())
	assert.Contains(t, m.View(), "WIPE")

	typeText(m, "WIPE")
	_, cmd = m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m.Update(find[modal.ClosedMsg](t, collect(cmd)))
	assert.Nil(t, m.host.Active())

	_, cmd = m.Update(find[trigger.ResultMsg](t, <-pending))
	m.Update(find[trigger.EventMsg](t, collect(cmd)))
	assert.Equal(t, trigger.StateConfirmed, m.appModel.Actions[0].TriggerTag)

	deadline := time.After(5 * time.Second)
	for m.appModel.Actions[0].State != models.ActionSucceeded {
		msgs := make(chan tea.Msg, 1)
		go func() { msgs <- m.dispatcher.ListenForCoreEvents()() }()
		select {
		case msg := <-msgs:
			m.Update(msg)
		case <-deadline:
			t.Fatalf("action never finished, state %s", m.appModel.Actions[0].State)
		}
	}
	assert.Equal(t, "wiped", m.appModel.Actions[0].Output)
	assert.Contains(t, m.View(), "wiped")
}

func TestAppModel_CancelledActivation(t *testing.T) {
	app, err := NewApplication(loadFile(t), writeBatch(t, batchYAML))
	require.NoError(t, err)
	defer app.Stop()

	m := app.model
	_, cmd := m.Update(update.ActivateMsg{Index: 1})
	pending := collectAsync(cmd)
	require.NotNil(t, m.host.Active())

	_, captured := m.host.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	assert.True(t, captured, "keys belong to the modal while it is open")

	m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	_, cmd = m.Update(find[trigger.ResultMsg](t, <-pending))
	m.Update(find[trigger.EventMsg](t, collect(cmd)))

	assert.Equal(t, models.ActionCancelled, m.appModel.Actions[1].State)
	assert.Equal(t, trigger.StateNotConfirmed, m.appModel.Actions[1].TriggerTag)

	ev := (<-app.eventBus.UIToCore()).(eventbus.ActionDecisionEvent)
	assert.Equal(t, "rotate", ev.Action)
	assert.False(t, ev.Confirmation.Value)
}

func TestAppModel_ActivationWithoutModalReturnsRowToIdle(t *testing.T) {
	app, err := NewApplication(loadFile(t), writeBatch(t, batchYAML))
	require.NoError(t, err)
	defer app.Stop()

	m := app.model
	m.triggers[0].Dispose()

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)
	assert.Equal(t, models.ActionAwaiting, m.appModel.Actions[0].State)

	_, cmd = m.Update(cmd())
	assert.Nil(t, m.host.Active())
	assert.Equal(t, models.ActionIdle, m.appModel.Actions[0].State)
	assert.Contains(t, m.appModel.Status, "wipe")

	_, cmd = m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd, "the row can be activated again")
	assert.Equal(t, update.ActivateMsg{Index: 0}, cmd())
}

func TestAppModel_Reload(t *testing.T) {
	app, err := NewApplication(loadFile(t), writeBatch(t, batchYAML))
	require.NoError(t, err)
	defer app.Stop()

	m := app.model
	m.appModel.Actions[0].State = models.ActionSucceeded
	m.appModel.Cursor = 1

	batch := &config.Batch{Actions: []config.ActionSpec{{Name: "wipe", Run: "echo wiped again"}}}
	m.Update(ReloadMsg{Batch: batch})

	require.Len(t, m.appModel.Actions, 1)
	assert.Equal(t, models.ActionSucceeded, m.appModel.Actions[0].State)
	assert.Equal(t, "echo wiped again", m.appModel.Actions[0].Command)
	assert.Zero(t, m.appModel.Cursor)
	assert.Equal(t, "Reloaded", m.appModel.Status)

	ev := (<-app.eventBus.UIToCore()).(eventbus.ReloadActionsEvent)
	assert.Equal(t, batch.Actions, ev.Actions)

	m.Update(ReloadMsg{Err: assert.AnError})
	assert.Contains(t, m.appModel.Status, "Reload failed")
	assert.Len(t, m.triggers, 1)
}

func TestBatchWatcher(t *testing.T) {
	path := writeBatch(t, batchYAML)
	w, err := newBatchWatcher(path, zap.NewNop())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	msgs := make(chan tea.Msg, 16)
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx, func(msg tea.Msg) { msgs <- msg }) }()

	require.NoError(t, os.WriteFile(path, []byte("actions:\n  - name: only\n    run: echo only\n"), 0o644))

	timeout := time.After(5 * time.Second)
	for {
		select {
		case msg := <-msgs:
			r := msg.(ReloadMsg)
			if r.Err != nil || len(r.Batch.Actions) != 1 {
				continue
			}
			assert.Equal(t, "only", r.Batch.Actions[0].Name)
			cancel()
			assert.NoError(t, <-done)
			return
		case <-timeout:
			cancel()
			t.Fatal("no reload after the batch file changed")
		}
	}
}

func TestConfirmModel(t *testing.T) {
	tests := []struct {
		name string
		keys []tea.KeyMsg
		want bool
	}{
		{"confirmed", []tea.KeyMsg{
			{Type: tea.KeyRunes, Runes: []rune("O")},
			{Type: tea.KeyRunes, Runes: []rune("K")},
			{Type: tea.KeyEnter},
		}, true},
		{"cancelled", []tea.KeyMsg{{Type: tea.KeyEsc}}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reg := registry.New()
			h := host.New()
			tr := trigger.New(reg, h, config.DefaultConfig(), models.Literal("OK"), config.Options{})
			defer tr.Dispose()

			m := NewConfirmModel(h, tr)
			pending := collectAsync(m.Init())
			for _, k := range tt.keys {
				m.Update(k)
			}

			res := find[trigger.ResultMsg](t, <-pending)
			_, cmd := m.Update(res)
			_, quit := m.Update(find[trigger.EventMsg](t, collect(cmd)))
			require.NotNil(t, quit)
			assert.Equal(t, tea.Quit(), quit())
			assert.Equal(t, tt.want, m.Confirmed())
			assert.NotEmpty(t, res.ID)
			assert.Equal(t, Decision{ID: res.ID, Confirmed: tt.want}, m.Decision())
			assert.Empty(t, m.View())
		})
	}
}

func TestConfirmModel_SuppressedCancelQuits(t *testing.T) {
	reg := registry.New()
	h := host.New()
	opts := config.Options{Settings: &config.SettingsPatch{DisableFalseEmission: config.Bool(true)}}
	tr := trigger.New(reg, h, config.DefaultConfig(), models.Literal("OK"), opts)
	defer tr.Dispose()

	m := NewConfirmModel(h, tr)
	pending := collectAsync(m.Init())
	m.Update(tea.KeyMsg{Type: tea.KeyEsc})

	res := find[trigger.ResultMsg](t, <-pending)
	_, quit := m.Update(res)
	require.NotNil(t, quit)
	assert.Equal(t, tea.Quit(), quit())
	assert.False(t, m.Confirmed())
	assert.Equal(t, Decision{ID: res.ID}, m.Decision(), "the id is kept for the history entry")
}
