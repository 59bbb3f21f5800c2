package roster

import "sync"

// Modal ids of the forms.
const (
	GroupModal    = "addGroupModal"
	StudentModal  = "addStudentModal"
	HomeworkModal = "assignHomeworkModal"
	EventModal    = "addEventModal"
)

// Modals is the modal lifecycle of the UI shell, with a per-modal editing marker.
// An empty marker means the modal creates a new record.
type Modals interface {
	Show(id string)
	Hide(id string)
	EditingMarker(id string) string
	SetEditingMarker(id, value string)
}

// ModalSet is an in-memory Modals that remembers which modals are open.
type ModalSet struct {
	mu      sync.Mutex
	open    map[string]bool
	markers map[string]string
	hides   int
}

var _ Modals = (*ModalSet)(nil)

func NewModalSet() *ModalSet {
	return &ModalSet{
		open:    make(map[string]bool),
		markers: make(map[string]string),
	}
}

func (ms *ModalSet) Show(id string) {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	ms.open[id] = true
}

func (ms *ModalSet) Hide(id string) {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	ms.open[id] = false
	ms.hides++
}

func (ms *ModalSet) EditingMarker(id string) string {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	return ms.markers[id]
}

func (ms *ModalSet) SetEditingMarker(id, value string) {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	if value == "" {
		delete(ms.markers, id)
		return
	}
	ms.markers[id] = value
}

func (ms *ModalSet) IsOpen(id string) bool {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	return ms.open[id]
}

// Hides returns how many times a modal was hidden.
func (ms *ModalSet) Hides() int {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	return ms.hides
}

// Notifier shows messages to the user.
type Notifier interface {
	Notify(msg string)
}

// Messages collects notifications until they are drained.
type Messages struct {
	mu   sync.Mutex
	msgs []string
}

var _ Notifier = (*Messages)(nil)

func (m *Messages) Notify(msg string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.msgs = append(m.msgs, msg)
}

// Drain returns and forgets the collected messages.
func (m *Messages) Drain() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	msgs := m.msgs
	m.msgs = nil
	return msgs
}
