package mutation

import "github.com/dmitrijs2005/ministrysync/internal/client/models"

// The helpers below return new slices and never modify their input, so a
// snapshot taken before an optimistic update stays intact.

// Prepend puts item at the head of items.
func Prepend[T any](items []T, item T) []T {
	out := make([]T, 0, len(items)+1)
	out = append(out, item)
	return append(out, items...)
}

// ReplaceByID swaps the element whose ID is id for item.
func ReplaceByID[T models.Identifiable](items []T, id string, item T) []T {
	out := make([]T, len(items))
	for i, it := range items {
		if it.GetID() == id {
			out[i] = item
			continue
		}
		out[i] = it
	}
	return out
}

// MergeByID applies fn to the element whose ID is id.
func MergeByID[T models.Identifiable](items []T, id string, fn func(T) T) []T {
	out := make([]T, len(items))
	for i, it := range items {
		if it.GetID() == id {
			out[i] = fn(it)
			continue
		}
		out[i] = it
	}
	return out
}

// RemoveByID drops the element whose ID is id.
func RemoveByID[T models.Identifiable](items []T, id string) []T {
	out := make([]T, 0, len(items))
	for _, it := range items {
		if it.GetID() != id {
			out = append(out, it)
		}
	}
	return out
}

// ContainsID reports whether an element with id is present.
func ContainsID[T models.Identifiable](items []T, id string) bool {
	for _, it := range items {
		if it.GetID() == id {
			return true
		}
	}
	return false
}
