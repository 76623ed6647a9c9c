// Defines the validation interface for requests.

package dto

// Validatable is implemented by request types that can validate their
// fields. The Wrap functions in the server package use this interface as a
// type constraint so every request type provides validation.
type Validatable interface {
	Validate() error
}
