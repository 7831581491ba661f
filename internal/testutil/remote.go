package testutil

import (
	"context"
	"fmt"
	"sync"
)

// MemoryKV is an in-memory stand-in for the SQLite key-value store.
type MemoryKV struct {
	mu   sync.Mutex
	data map[string]string

	// GetErr, when set, fails every Get.
	GetErr error
}

func NewMemoryKV() *MemoryKV {
	return &MemoryKV{data: map[string]string{}}
}

func (m *MemoryKV) Get(_ context.Context, key string) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.GetErr != nil {
		return "", false, m.GetErr
	}
	v, ok := m.data[key]
	return v, ok, nil
}

func (m *MemoryKV) Put(_ context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = value
	return nil
}

func (m *MemoryKV) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	return nil
}

// Contents returns a copy of the stored keys and values.
func (m *MemoryKV) Contents() map[string]string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make(map[string]string, len(m.data))
	for k, v := range m.data {
		out[k] = v
	}
	return out
}

// FakeRemote is a scripted document store. Emissions are driven manually
// through Emit; Write records payloads and, like the real backend, echoes
// them to the document's own subscribers.
type FakeRemote struct {
	mu          sync.Mutex
	docs        map[string][]byte
	shared      map[string][]byte
	subscribers map[string][]func(payload []byte)
	writes      []string
	nextShared  int

	// WriteErr, when set, fails every Write.
	WriteErr error
	// SubscribeErr, when set, fails Subscribe.
	SubscribeErr error
	// Echo controls whether Write notifies the document's subscribers.
	Echo bool
}

func NewFakeRemote() *FakeRemote {
	return &FakeRemote{
		docs:        map[string][]byte{},
		shared:      map[string][]byte{},
		subscribers: map[string][]func([]byte){},
	}
}

func (f *FakeRemote) Subscribe(_ context.Context, docID string, onChange func(payload []byte)) (func(), error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.SubscribeErr != nil {
		return nil, f.SubscribeErr
	}
	f.subscribers[docID] = append(f.subscribers[docID], onChange)
	return func() {
		f.mu.Lock()
		defer f.mu.Unlock()
		delete(f.subscribers, docID)
	}, nil
}

func (f *FakeRemote) Write(_ context.Context, docID string, payload []byte) error {
	f.mu.Lock()
	if f.WriteErr != nil {
		f.mu.Unlock()
		return f.WriteErr
	}
	f.docs[docID] = append([]byte(nil), payload...)
	f.writes = append(f.writes, docID)
	var subs []func([]byte)
	if f.Echo {
		subs = append(subs, f.subscribers[docID]...)
	}
	f.mu.Unlock()

	for _, fn := range subs {
		fn(payload)
	}
	return nil
}

func (f *FakeRemote) CreateShared(_ context.Context, payload []byte) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextShared++
	id := fmt.Sprintf("shared-%d", f.nextShared)
	f.shared[id] = append([]byte(nil), payload...)
	return id, nil
}

func (f *FakeRemote) FetchShared(_ context.Context, id string) ([]byte, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	payload, ok := f.shared[id]
	return payload, ok, nil
}

// Emit simulates an emission originating from another device.
func (f *FakeRemote) Emit(docID string, payload []byte) {
	f.mu.Lock()
	subs := append([]func([]byte){}, f.subscribers[docID]...)
	f.mu.Unlock()
	for _, fn := range subs {
		fn(payload)
	}
}

// Doc returns the last payload written to a document.
func (f *FakeRemote) Doc(docID string) ([]byte, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.docs[docID]
	return p, ok
}

// WriteCount returns how many Write calls succeeded.
func (f *FakeRemote) WriteCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.writes)
}

// Subscribed reports whether a document currently has subscribers.
func (f *FakeRemote) Subscribed(docID string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.subscribers[docID]) > 0
}

// FakeAuth returns a fixed anonymous identity.
type FakeAuth struct {
	ID  string
	Err error

	mu    sync.Mutex
	calls int
}

func (a *FakeAuth) Identity(context.Context) (string, error) {
	a.mu.Lock()
	a.calls++
	a.mu.Unlock()
	if a.Err != nil {
		return "", a.Err
	}
	return a.ID, nil
}

func (a *FakeAuth) Calls() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.calls
}
