package datamanagement

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound    = errors.New("requested item not found")
	ErrNoOverwrite = errors.New("item already in store")
)

// OrderedStore is a map that remembers insertion order and refuses to
// overwrite existing keys. It is not safe for concurrent mutation; readers may
// share it once writes have stopped.
type OrderedStore[K comparable, T any] struct {
	keys  []K
	items map[K]T
}

func NewOrderedStore[K comparable, T any]() *OrderedStore[K, T] {
	return &OrderedStore[K, T]{items: make(map[K]T)}
}

func (os *OrderedStore[K, T]) Add(k K, i T) error {
	if _, ok := os.items[k]; ok {
		return fmt.Errorf("%w; key:%v", ErrNoOverwrite, k)
	}
	os.items[k] = i
	os.keys = append(os.keys, k)
	return nil
}

func (os *OrderedStore[K, T]) Get(k K) (T, error) {
	i, ok := os.items[k]
	if !ok {
		return i, fmt.Errorf("%w; key:%v", ErrNotFound, k)
	}
	return i, nil
}

func (os *OrderedStore[K, T]) Has(k K) bool {
	_, ok := os.items[k]
	return ok
}

// Update replaces the value at k; errors if k is not present
func (os *OrderedStore[K, T]) Update(k K, i T) error {
	if _, ok := os.items[k]; !ok {
		return fmt.Errorf("%w; key:%v", ErrNotFound, k)
	}
	os.items[k] = i
	return nil
}

// Keys returns the keys in insertion order.
func (os *OrderedStore[K, T]) Keys() []K {
	out := make([]K, len(os.keys))
	copy(out, os.keys)
	return out
}

// Values returns the values in insertion order.
func (os *OrderedStore[K, T]) Values() []T {
	out := make([]T, 0, len(os.keys))
	for _, k := range os.keys {
		out = append(out, os.items[k])
	}
	return out
}

func (os *OrderedStore[K, T]) Len() int {
	return len(os.keys)
}
