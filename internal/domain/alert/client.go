package alert

// Client defines an interface for pushing operational alerts (for example
// cycle-fatal scan failures) to whoever is on call.
type Client interface {
	Notify(text string) error
}
