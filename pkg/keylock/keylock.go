// Package keylock serializa trabajo por clave (ID de producto, ID de pedido)
// sin un lock global: claves distintas avanzan en paralelo.
package keylock

import "sync"

// Map mutex por clave. Una entrada se borra cuando su contador de usos llega a cero.
// El valor cero no sirve; usar New.
type Map struct {
	mu    sync.Mutex
	locks map[string]*refLock
}

type refLock struct {
	mu   sync.Mutex
	refs int
}

// New crea un Map vacío.
func New() *Map {
	return &Map{locks: make(map[string]*refLock)}
}

// Lock bloquea la clave y devuelve la función que la libera.
func (k *Map) Lock(key string) (unlock func()) {
	k.mu.Lock()
	l, ok := k.locks[key]
	if !ok {
		l = &refLock{}
		k.locks[key] = l
	}
	l.refs++
	k.mu.Unlock()

	l.mu.Lock()
	return func() {
		l.mu.Unlock()
		k.mu.Lock()
		l.refs--
		if l.refs == 0 {
			delete(k.locks, key)
		}
		k.mu.Unlock()
	}
}

// Len claves con al menos un usuario activo.
func (k *Map) Len() int {
	k.mu.Lock()
	defer k.mu.Unlock()
	return len(k.locks)
}
