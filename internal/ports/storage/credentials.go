package storage

import "errors"

var ErrNotFound = errors.New("credential record not found")

// Records fijos del almacenamiento local, igual que las keys del
// localStorage original.
const (
	KeyUser   = "user"
	KeyTokens = "tokens"
)

// Credentials es el almacenamiento durable de la sesión.
// La sesión serializa; el adapter solo guarda bytes.
type Credentials interface {
	Get(key string) ([]byte, error)
	Put(key string, value []byte) error
	Delete(key string) error
	// Clear borra todos los records. El teardown de sesión depende de esto.
	Clear() error
}
