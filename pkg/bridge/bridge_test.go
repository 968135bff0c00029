package bridge

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/raykavin/sonify/pkg/logger/zerolog"
	"github.com/raykavin/sonify/pkg/navigation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeController struct {
	mu       sync.Mutex
	commands []navigation.Command
	focused  int
}

func (f *fakeController) Send(cmd navigation.Command) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.commands = append(f.commands, cmd)
	return nil
}

func (f *fakeController) Focus() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.focused++
	return nil
}

func (f *fakeController) Commands() []navigation.Command {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]navigation.Command(nil), f.commands...)
}

func (f *fakeController) Focused() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.focused
}

func connect(t *testing.T) (*Bridge, *fakeController, *websocket.Conn) {
	t.Helper()

	controller := &fakeController{}
	b := New(zerolog.Nop(), WithPitchTable([]float64{110, 220, 440}))
	b.SetController(controller)

	server := httptest.NewServer(b.Handler())
	t.Cleanup(server.Close)
	t.Cleanup(func() { _ = b.Close() })

	url := "ws" + strings.TrimPrefix(server.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	require.Eventually(t, func() bool { return b.Clients() == 1 }, time.Second, time.Millisecond)
	return b, controller, conn
}

func TestBroadcast(t *testing.T) {
	b, _, conn := connect(t)

	b.EmitTone(2, -0.5, 250*time.Millisecond)
	b.Announce("1, 2")

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(time.Second)))

	var tone struct {
		Type    string `json:"type"`
		Payload Tone   `json:"payload"`
	}
	require.NoError(t, conn.ReadJSON(&tone))
	assert.Equal(t, TypeTone, tone.Type)
	assert.Equal(t, Tone{Bin: 2, Frequency: 440, Pan: -0.5, DurationMS: 250}, tone.Payload)

	var announce struct {
		Type    string       `json:"type"`
		Payload Announcement `json:"payload"`
	}
	require.NoError(t, conn.ReadJSON(&announce))
	assert.Equal(t, TypeAnnounce, announce.Type)
	assert.Equal(t, "1, 2", announce.Payload.Text)
}

func TestClientInput(t *testing.T) {
	_, controller, conn := connect(t)

	require.NoError(t, conn.WriteJSON(Input{Type: TypeKey, Key: "ArrowRight"}))
	require.NoError(t, conn.WriteJSON(Input{Type: TypeKey, Key: "ArrowLeft", Shift: true}))
	require.NoError(t, conn.WriteJSON(Input{Type: TypeKey, Key: "z"}))
	require.NoError(t, conn.WriteJSON(Input{Type: TypeCommand, Command: "group-down"}))
	require.NoError(t, conn.WriteJSON(Input{Type: TypeCommand, Command: "fly"}))
	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte("not json")))
	require.NoError(t, conn.WriteJSON(Input{Type: TypeFocus}))

	require.Eventually(t, func() bool { return controller.Focused() == 1 }, time.Second, time.Millisecond)
	assert.Equal(t, []navigation.Command{
		navigation.StepRight,
		navigation.PlayAllLeft,
		navigation.GroupDown,
	}, controller.Commands())
}

func TestDisconnect(t *testing.T) {
	b, _, conn := connect(t)

	require.NoError(t, conn.Close())
	require.Eventually(t, func() bool { return b.Clients() == 0 }, time.Second, time.Millisecond)

	// no clients left, messages are simply dropped
	b.Announce("nobody listens")
}

func TestDispatchWithoutController(t *testing.T) {
	b := New(zerolog.Nop())
	defer b.Close()

	require.ErrorIs(t, b.dispatch(Input{Type: TypeFocus}), errNoController)

	b.SetController(&fakeController{})
	require.ErrorIs(t, b.dispatch(Input{Type: "dance"}), errUnknownInput)
}

func TestClosedBridgeDropsMessages(t *testing.T) {
	b := New(zerolog.Nop())
	require.NoError(t, b.Close())
	require.NoError(t, b.Close())

	b.EmitTone(0, 0, time.Millisecond)
	assert.Equal(t, 0, b.Clients())
}

func TestPlayerPage(t *testing.T) {
	b := New(zerolog.Nop())
	defer b.Close()

	server := httptest.NewServer(b.Handler())
	defer server.Close()

	resp, err := http.Get(server.URL + "/")
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), "new WebSocket")
}
