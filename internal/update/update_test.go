package update

import (
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Rorical/typedconfirm/internal/eventbus"
	"github.com/Rorical/typedconfirm/internal/models"
	"github.com/Rorical/typedconfirm/internal/trigger"
)

type element string

func (e element) ElementID() string { return string(e) }
func (e element) Name() string      { return string(e) }

func newAppModel() models.AppModel {
	return models.AppModel{
		Actions: []models.ActionView{
			{Name: "migrate"},
			{Name: "drop"},
		},
	}
}

func key(s string) tea.KeyMsg {
	switch s {
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestHandleKeyMsg_Navigation(t *testing.T) {
	m := newAppModel()

	tests := []struct {
		key  string
		want int
	}{
		{"up", 0},
		{"down", 1},
		{"j", 1},
		{"k", 0},
		{"j", 1},
	}
	for _, tt := range tests {
		HandleKeyMsg(&m, key(tt.key))
		assert.Equal(t, tt.want, m.Cursor, "after %s", tt.key)
	}
}

func TestHandleKeyMsg_EnterActivatesSelected(t *testing.T) {
	m := newAppModel()
	m.Cursor = 1

	cmd := HandleKeyMsg(&m, key("enter"))
	require.NotNil(t, cmd)
	assert.Equal(t, ActivateMsg{Index: 1}, cmd())
	assert.Equal(t, models.ActionAwaiting, m.Actions[1].State)

	assert.Nil(t, HandleKeyMsg(&m, key("enter")), "no second modal while awaiting")
	assert.Contains(t, m.Status, "already")
}

func TestHandleKeyMsg_Quit(t *testing.T) {
	m := newAppModel()

	cmd := HandleKeyMsg(&m, key("q"))
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
	assert.True(t, m.Quitting)
}

func TestHandleCoreEvent(t *testing.T) {
	m := newAppModel()

	HandleCoreEvent(&m, CoreEventMsg{Event: eventbus.ActionUpdateEvent{Action: "drop", State: models.ActionRunning}})
	HandleCoreEvent(&m, CoreEventMsg{Event: eventbus.StateUpdateEvent{Running: 1}})
	assert.Equal(t, models.ActionRunning, m.Actions[1].State)
	assert.True(t, m.Loading)
	assert.Equal(t, "Running 1", m.Status)

	HandleCoreEvent(&m, CoreEventMsg{Event: eventbus.ActionUpdateEvent{
		Action: "drop", State: models.ActionFailed, Output: "boom", Error: errors.New("exit status 1"),
	}})
	assert.Equal(t, "boom", m.Actions[1].Output)
	assert.Equal(t, "Error: drop: exit status 1", m.Status)

	HandleCoreEvent(&m, CoreEventMsg{Event: eventbus.StateUpdateEvent{Failed: 1}})
	assert.False(t, m.Loading)
	assert.Equal(t, "Ready: 0 done, 1 failed", m.Status)

	HandleCoreEvent(&m, CoreEventMsg{Event: eventbus.ActionUpdateEvent{Action: "unknown"}})
}

func TestHandleConfirmation(t *testing.T) {
	m := newAppModel()
	m.Actions[0].State = models.ActionAwaiting
	m.Actions[1].State = models.ActionAwaiting

	HandleUpdate(&m, trigger.EventMsg{Event: models.ConfirmationEvent{ID: "1", Value: true, Element: element("migrate")}})
	HandleUpdate(&m, trigger.EventMsg{Event: models.ConfirmationEvent{ID: "2", Value: false, Element: element("drop")}})

	assert.Equal(t, trigger.StateConfirmed, m.Actions[0].TriggerTag)
	assert.Equal(t, models.ActionAwaiting, m.Actions[0].State, "the core moves confirmed rows on")
	assert.Equal(t, trigger.StateNotConfirmed, m.Actions[1].TriggerTag)
	assert.Equal(t, models.ActionCancelled, m.Actions[1].State)
}

func TestHandleSettledWithoutEvent(t *testing.T) {
	m := newAppModel()
	m.Actions[0].State = models.ActionAwaiting
	m.Actions[1].State = models.ActionRunning

	HandleSettledWithoutEvent(&m, "migrate")
	HandleSettledWithoutEvent(&m, "drop")

	assert.Equal(t, models.ActionIdle, m.Actions[0].State)
	assert.Equal(t, models.ActionRunning, m.Actions[1].State)
}

func TestHandleTickMsg(t *testing.T) {
	m := newAppModel()
	m.Loading = true

	for i := 0; i < 5; i++ {
		assert.NotNil(t, HandleTickMsg(&m))
	}
	assert.Equal(t, 1, m.LoadingDots)
}
