package order

import "sync"

// Model is the in-memory drag list backing the editor's section ordering UI.
// It owns the working order and visibility state and notifies the registered
// callback after every reorder so the preview can re-render.
type Model struct {
	mu        sync.Mutex
	ids       []string
	vis       map[string]bool
	canonical []string
	onReorder func([]string)
}

// NewModel creates a model seeded with the canonical order for the page kind.
func NewModel(canonical []string) *Model {
	return &Model{
		ids:       append([]string(nil), canonical...),
		vis:       make(map[string]bool),
		canonical: canonical,
	}
}

// Load replaces the model state from the persisted forms, applying the same
// fallback rules as Deserialize/ParseVisibility.
func (m *Model) Load(orderCSV, visibilityJSON string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ids = Deserialize(orderCSV, m.canonical)
	m.vis = ParseVisibility(visibilityJSON)
}

// OnReorder registers the callback fired after SetOrder and Drop.
func (m *Model) OnReorder(fn func([]string)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.onReorder = fn
}

// Order returns a copy of the current order.
func (m *Model) Order() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.ids...)
}

// SetOrder replaces the order, normalizing through the persisted form so
// duplicates are dropped and mandatory sections reinserted.
func (m *Model) SetOrder(ids []string) {
	m.mu.Lock()
	m.ids = Deserialize(Serialize(ids), m.canonical)
	fn, snapshot := m.onReorder, append([]string(nil), m.ids...)
	m.mu.Unlock()
	if fn != nil {
		fn(snapshot)
	}
}

// Drop applies a drag-and-drop gesture: the dragged id is reinserted at the
// position computed from the pointer and the measured sibling boxes.
func (m *Model) Drop(id string, pointerY float64, boxes []Box) {
	m.mu.Lock()
	m.ids = Move(m.ids, id, InsertionIndex(pointerY, boxes))
	fn, snapshot := m.onReorder, append([]string(nil), m.ids...)
	m.mu.Unlock()
	if fn != nil {
		fn(snapshot)
	}
}

// SetVisible flags a section visible or hidden. Hiding a mandatory section
// is recorded but has no rendering effect.
func (m *Model) SetVisible(id string, visible bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.vis[id] = visible
}

// Visible reports effective visibility for a section id.
func (m *Model) Visible(id string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return Visible(m.vis, id)
}

// Visibility returns a copy of the visibility map.
func (m *Model) Visibility() map[string]bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make(map[string]bool, len(m.vis))
	for k, v := range m.vis {
		out[k] = v
	}
	return out
}

// Serialize returns the persisted forms of the order and visibility state.
func (m *Model) Serialize() (orderCSV, visibilityJSON string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return Serialize(m.ids), SerializeVisibility(m.vis)
}
