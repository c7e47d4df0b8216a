// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package slice holds the generic helpers the [slices] package lacks.
package slice

// Map applies transform to every element. A nil input stays nil.
func Map[T, U any](input []T, transform func(T) U) []U {
	if input == nil {
		return nil
	}

	result := make([]U, 0, len(input))
	for _, value := range input {
		result = append(result, transform(value))
	}
	return result
}

// Unique drops repeated values, keeping the first occurrence of each in order.
// A genre list like ["drama", "comedy", "drama"] becomes ["drama", "comedy"].
func Unique[T comparable](input []T) []T {
	if input == nil {
		return nil
	}

	seen := make(map[T]bool, len(input))
	result := make([]T, 0, len(input))
	for _, value := range input {
		if !seen[value] {
			seen[value] = true
			result = append(result, value)
		}
	}
	return result
}
