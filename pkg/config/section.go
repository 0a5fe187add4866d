package config

// Section is one named group of settings persisted by a Store.
type Section interface {
	ID() string
	Title() string
	Description() string

	// Data returns the section as plain values for persistence.
	Data() map[string]any

	// SetData applies persisted values. Unknown keys are ignored.
	SetData(data map[string]any) error

	Validate() error
	Reset()
}
