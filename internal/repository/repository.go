package repository

import "errors"

// Package repository contains data access layer abstractions.
// Implementations live in subpackages (e.g., memory) inside this directory.

// ErrNotFound is returned when a case does not exist.
var ErrNotFound = errors.New("case not found")

// PageQuery holds limit/offset pagination parameters.
type PageQuery struct {
	Limit  int
	Offset int
}

// PageResult is a generic pagination result wrapper.
// T is typically a model type.
type PageResult[T any] struct {
	Items []T
	Total int
}
