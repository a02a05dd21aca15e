// Package sse implements the Server-Sent Events broker that keeps the
// dashboard in step with the note store.
package sse

import (
	"bytes"
	"encoding/json"
	"net/http"
	"strconv"
	"sync/atomic"
	"time"
)

const (
	clientBuffer     = 64
	defaultKeepAlive = 15 * time.Second
	retryMillis      = 3000
)

// Event is one message on the stream.
type Event struct {
	Type string
	Data any
}

// listPolicy says whether a note change also emits list.changed.
type listPolicy int

const (
	listNever listPolicy = iota
	listThrottled
	listAlways
)

// noteEvents maps change kinds from noteservice to stream events.
var noteEvents = map[string]struct {
	typ  string
	list listPolicy
}{
	"added":    {"note.added", listThrottled},
	"updated":  {"note.updated", listNever},
	"cleared":  {"notes.cleared", listAlways},
	"reloaded": {"notes.reloaded", listAlways},
}

type client chan []byte

type noteChange struct {
	kind string
	name string
}

// Broker fans events out to connected dashboard clients.
//
// Client bookkeeping lives in a hub owned by one goroutine; the exported
// methods only send to it.
type Broker struct {
	listMin   time.Duration
	keepAlive time.Duration

	join    chan client
	leave   chan client
	events  chan Event
	changes chan noteChange

	count  atomic.Int64
	quit   chan struct{}
	done   chan struct{}
	closed atomic.Bool
}

// NewBroker creates a broker that emits list.changed for added notes at most
// once per listThrottle.
func NewBroker(listThrottle time.Duration) *Broker {
	if listThrottle <= 0 {
		listThrottle = time.Second
	}
	b := &Broker{
		listMin:   listThrottle,
		keepAlive: defaultKeepAlive,
		join:      make(chan client),
		leave:     make(chan client),
		events:    make(chan Event, 256),
		changes:   make(chan noteChange, 256),
		quit:      make(chan struct{}),
		done:      make(chan struct{}),
	}
	go b.loop()
	return b
}

// hub is the state owned by the broker loop.
type hub struct {
	clients  map[client]struct{}
	seq      uint64
	lastList time.Time
	listMin  time.Duration
}

// frame renders e in wire format with the next sequence id.
func (h *hub) frame(e Event) []byte {
	data, err := json.Marshal(e.Data)
	if err != nil {
		return nil
	}
	h.seq++

	var buf bytes.Buffer
	buf.WriteString("id: ")
	buf.WriteString(strconv.FormatUint(h.seq, 10))
	buf.WriteString("\nevent: ")
	buf.WriteString(e.Type)
	buf.WriteString("\ndata: ")
	buf.Write(data)
	buf.WriteString("\n\n")
	return buf.Bytes()
}

func (h *hub) send(e Event) {
	msg := h.frame(e)
	if msg == nil {
		return
	}
	for c := range h.clients {
		select {
		case c <- msg:
		default:
			// Buffer full; the message is dropped for this client.
		}
	}
}

func (h *hub) noteChanged(c noteChange, now time.Time) {
	ev, ok := noteEvents[c.kind]
	if !ok {
		return
	}
	data := map[string]string{}
	if c.name != "" {
		data["name"] = c.name
	}
	h.send(Event{Type: ev.typ, Data: data})

	switch ev.list {
	case listThrottled:
		if now.Sub(h.lastList) < h.listMin {
			return
		}
	case listNever:
		return
	}
	h.lastList = now
	h.send(Event{Type: "list.changed", Data: map[string]string{}})
}

func (b *Broker) loop() {
	defer close(b.done)

	h := &hub{clients: make(map[client]struct{}), listMin: b.listMin}
	for {
		select {
		case <-b.quit:
			for c := range h.clients {
				close(c)
			}
			b.count.Store(0)
			return
		case c := <-b.join:
			h.clients[c] = struct{}{}
			b.count.Store(int64(len(h.clients)))
		case c := <-b.leave:
			if _, ok := h.clients[c]; ok {
				delete(h.clients, c)
				close(c)
			}
			b.count.Store(int64(len(h.clients)))
		case e := <-b.events:
			h.send(e)
		case c := <-b.changes:
			h.noteChanged(c, time.Now())
		}
	}
}

// Close stops the broker and closes every subscriber channel.
func (b *Broker) Close() {
	if b.closed.CompareAndSwap(false, true) {
		close(b.quit)
	}
	<-b.done
}

// Subscribe registers a client. The returned channel is closed on
// Unsubscribe or Close.
func (b *Broker) Subscribe() chan []byte {
	c := make(client, clientBuffer)
	if b.closed.Load() {
		close(c)
		return c
	}
	select {
	case b.join <- c:
	case <-b.done:
		close(c)
	}
	return c
}

// Unsubscribe removes a client and closes its channel.
func (b *Broker) Unsubscribe(ch chan []byte) {
	if b.closed.Load() {
		return
	}
	select {
	case b.leave <- ch:
	case <-b.done:
	}
}

// ClientCount returns the number of connected clients as last seen by the
// broker loop.
func (b *Broker) ClientCount() int {
	return int(b.count.Load())
}

// Publish sends an arbitrary event to all connected clients.
func (b *Broker) Publish(e Event) {
	if b.closed.Load() {
		return
	}
	select {
	case b.events <- e:
	case <-b.done:
	}
}

// PublishNoteEvent implements noteservice.Publisher. Unknown kinds are
// ignored.
func (b *Broker) PublishNoteEvent(kind, name string) {
	if b.closed.Load() {
		return
	}
	select {
	case b.changes <- noteChange{kind: kind, name: name}:
	case <-b.done:
	}
}

// ServeHTTP streams events to one client until it disconnects.
func (b *Broker) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}

	h := w.Header()
	h.Set("Content-Type", "text/event-stream")
	h.Set("Cache-Control", "no-cache")
	h.Set("Connection", "keep-alive")
	h.Set("X-Accel-Buffering", "no")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("retry: " + strconv.Itoa(retryMillis) + "\n\n"))
	flusher.Flush()

	ch := b.Subscribe()
	defer b.Unsubscribe(ch)

	ping := time.NewTicker(b.keepAlive)
	defer ping.Stop()

	for {
		select {
		case <-r.Context().Done():
			return
		case <-ping.C:
			_, _ = w.Write([]byte(": ping\n\n"))
			flusher.Flush()
		case msg, ok := <-ch:
			if !ok {
				return
			}
			_, _ = w.Write(msg)
			flusher.Flush()
		}
	}
}
