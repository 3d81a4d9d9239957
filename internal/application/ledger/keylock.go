package ledger

import (
	"sort"
	"sync"
)

// key identifica la unidad de serialización del motor:
// (tenant, artículo, bodega).
type key struct {
	tenant    string
	itemID    int64
	warehouse string
}

func (k key) less(o key) bool {
	if k.tenant != o.tenant {
		return k.tenant < o.tenant
	}
	if k.itemID != o.itemID {
		return k.itemID < o.itemID
	}
	return k.warehouse < o.warehouse
}

// keyLock serializa las operaciones mutantes del libro por clave.
// Las operaciones multi-clave (traslados) adquieren sus mutex en orden global
// fijo para evitar deadlock entre traslados en direcciones opuestas.
// El cierre de día toma el tenant completo en exclusiva.
type keyLock struct {
	mu      sync.Mutex
	tenants map[string]*tenantLock
}

type tenantLock struct {
	rw   sync.RWMutex // exclusiva para CloseDay, compartida para ops por clave
	mu   sync.Mutex
	keys map[key]*sync.Mutex
}

func newKeyLock() *keyLock {
	return &keyLock{tenants: make(map[string]*tenantLock)}
}

func (l *keyLock) tenant(tenantID string) *tenantLock {
	l.mu.Lock()
	defer l.mu.Unlock()
	tl, ok := l.tenants[tenantID]
	if !ok {
		tl = &tenantLock{keys: make(map[key]*sync.Mutex)}
		l.tenants[tenantID] = tl
	}
	return tl
}

func (tl *tenantLock) keyMutex(k key) *sync.Mutex {
	tl.mu.Lock()
	defer tl.mu.Unlock()
	m, ok := tl.keys[k]
	if !ok {
		m = &sync.Mutex{}
		tl.keys[k] = m
	}
	return m
}

// lockKeys bloquea las claves dadas (deduplicadas, en orden global) y devuelve
// la función de liberación. Todas las claves deben ser del mismo tenant.
func (l *keyLock) lockKeys(tenantID string, keys ...key) func() {
	tl := l.tenant(tenantID)
	tl.rw.RLock()

	sort.Slice(keys, func(i, j int) bool { return keys[i].less(keys[j]) })
	locked := make([]*sync.Mutex, 0, len(keys))
	var prev *key
	for i := range keys {
		if prev != nil && keys[i] == *prev {
			continue
		}
		m := tl.keyMutex(keys[i])
		m.Lock()
		locked = append(locked, m)
		prev = &keys[i]
	}
	return func() {
		for i := len(locked) - 1; i >= 0; i-- {
			locked[i].Unlock()
		}
		tl.rw.RUnlock()
	}
}

// lockTenant toma el tenant completo en exclusiva (cierre de día, que toca
// muchas claves en una sola operación).
func (l *keyLock) lockTenant(tenantID string) func() {
	tl := l.tenant(tenantID)
	tl.rw.Lock()
	return tl.rw.Unlock
}
