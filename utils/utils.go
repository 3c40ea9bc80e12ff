// Package utils provides utility functions for the application.
package utils

// ToPtr returns a pointer to v. The models lean on nullable columns
// (pickup city, box code, weight), so this shows up wherever fixtures or
// flows fill them in.
func ToPtr[T any](v T) *T {
	return &v
}

// IsTrue reads a nullable boolean column, treating NULL as false. Used for
// flags like Pool.IsPublic and Pledge.IsInternalCargo.
func IsTrue(b *bool) bool {
	return b != nil && *b
}
