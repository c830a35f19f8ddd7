package dispatcher

import (
	"encoding/json"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"invoicer/internal/client/channel"
	"invoicer/internal/client/models"
	"invoicer/internal/common"
	"invoicer/internal/logging"
)

type fakeChannel struct {
	mu       sync.Mutex
	events   []string
	payloads []any
	handlers map[string]channel.Handler
}

func newFakeChannel() *fakeChannel {
	return &fakeChannel{handlers: make(map[string]channel.Handler)}
}

func (f *fakeChannel) Emit(event string, payload any) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, event)
	f.payloads = append(f.payloads, payload)
	return nil
}

func (f *fakeChannel) On(event string, h channel.Handler) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.handlers[event] = h
}

func (f *fakeChannel) deliver(t *testing.T, event, data string) {
	t.Helper()
	f.mu.Lock()
	h := f.handlers[event]
	f.mu.Unlock()
	require.NotNil(t, h)
	h(json.RawMessage(data))
}

func (f *fakeChannel) emitted() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, len(f.events))
	copy(out, f.events)
	return out
}

type fakeRegistry struct {
	mu       sync.Mutex
	records  map[string]models.FileRecord
	refreshs int
}

func (f *fakeRegistry) Get(id string) (models.FileRecord, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	rec, ok := f.records[id]
	return rec, ok
}

func (f *fakeRegistry) Refresh() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.refreshs++
}

func (f *fakeRegistry) refreshCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.refreshs
}

type fakeSaver struct {
	mu      sync.Mutex
	name    string
	content []byte
	saved   bool
}

func (f *fakeSaver) Save(name string, content []byte) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.name = name
	f.content = append([]byte(nil), content...)
	f.saved = true
	return "/tmp/" + name, nil
}

func testLogger() logging.Logger {
	return logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func newTestDispatcher(records map[string]models.FileRecord) (*Dispatcher, *fakeChannel, *fakeRegistry, *fakeSaver) {
	ch := newFakeChannel()
	reg := &fakeRegistry{records: records}
	saver := &fakeSaver{}
	var sess models.Session
	sess.Set("alice", "tok")

	d := New(ch, &sess, reg, saver, testLogger())
	d.settle = 10 * time.Millisecond
	return d, ch, reg, saver
}

func record(id string, status models.Status) map[string]models.FileRecord {
	return map[string]models.FileRecord{
		id: {ID: id, Filename: id + ".csv", Status: status},
	}
}

func TestProcess_EmitsAndSchedulesRefresh(t *testing.T) {
	d, ch, reg, _ := newTestDispatcher(record("a", models.StatusNotProcessed))

	require.NoError(t, d.Process("a"))

	require.Equal(t, []string{"process"}, ch.emitted())
	req := ch.payloads[0].(actionRequest)
	assert.Equal(t, "tok", req.Token)
	assert.Equal(t, "a", req.FileID)

	require.Eventually(t, func() bool { return reg.refreshCount() == 1 },
		time.Second, 5*time.Millisecond, "refresh must follow after the settle delay")
}

func TestProcess_IllegalStatusesEmitNothing(t *testing.T) {
	for _, status := range []models.Status{models.StatusProcessing, models.StatusProcessed} {
		t.Run(string(status), func(t *testing.T) {
			d, ch, _, _ := newTestDispatcher(record("a", status))

			err := d.Process("a")
			require.ErrorIs(t, err, common.ErrActionNotAllowed)
			assert.Empty(t, ch.emitted())
		})
	}
}

func TestProcess_UnknownFile(t *testing.T) {
	d, ch, _, _ := newTestDispatcher(nil)

	err := d.Process("ghost")
	require.ErrorIs(t, err, common.ErrUnknownFile)
	assert.Empty(t, ch.emitted())
}

func TestDelete_LegalFromEveryStatus(t *testing.T) {
	statuses := []models.Status{
		models.StatusNotProcessed, models.StatusProcessing, models.StatusProcessed,
	}
	for _, status := range statuses {
		t.Run(string(status), func(t *testing.T) {
			d, ch, reg, _ := newTestDispatcher(record("a", status))

			require.NoError(t, d.Delete("a"))
			require.Equal(t, []string{"delete"}, ch.emitted())

			require.Eventually(t, func() bool { return reg.refreshCount() == 1 },
				time.Second, 5*time.Millisecond)
		})
	}
}

func TestDownload_OnlyLegalWhenProcessed(t *testing.T) {
	for _, status := range []models.Status{models.StatusNotProcessed, models.StatusProcessing} {
		t.Run(string(status), func(t *testing.T) {
			d, ch, _, _ := newTestDispatcher(record("a", status))

			err := d.Download("a")
			require.ErrorIs(t, err, common.ErrActionNotAllowed)
			assert.Empty(t, ch.emitted())
		})
	}
}

func TestDownload_EmitsGetAndSavesInboundContent(t *testing.T) {
	d, ch, _, saver := newTestDispatcher(record("a", models.StatusProcessed))

	require.NoError(t, d.Download("a"))
	require.Equal(t, []string{"get"}, ch.emitted())

	ch.deliver(t, "download", `{"data":["col1,col2","1,2","3,4"]}`)

	require.True(t, saver.saved)
	assert.Equal(t, "a.csv", saver.name)
	assert.Equal(t, "col1,col2\n1,2\n3,4", string(saver.content))
}

func TestDownload_MissingDataFieldSavesEmptyFile(t *testing.T) {
	d, ch, _, saver := newTestDispatcher(record("a", models.StatusProcessed))

	require.NoError(t, d.Download("a"))
	ch.deliver(t, "download", `{"status":true}`)

	require.True(t, saver.saved)
	assert.Empty(t, saver.content)
}

func TestDownload_EventWithoutPendingRequestIsDropped(t *testing.T) {
	_, ch, _, saver := newTestDispatcher(record("a", models.StatusProcessed))

	ch.deliver(t, "download", `{"data":["x"]}`)
	assert.False(t, saver.saved)
}

func TestDownload_PendingIsConsumedOnce(t *testing.T) {
	d, ch, _, saver := newTestDispatcher(record("a", models.StatusProcessed))

	require.NoError(t, d.Download("a"))
	ch.deliver(t, "download", `{"data":["x"]}`)
	require.True(t, saver.saved)

	saver.saved = false
	ch.deliver(t, "download", `{"data":["y"]}`)
	assert.False(t, saver.saved, "second event has no pending request")
}
