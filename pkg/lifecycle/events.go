package lifecycle

// Lifecycle notification event names, dispatched on the element itself.
// The *Error events carry the causing error in the event's Err field.
const (
	EventLoading   = "loading"
	EventLoaded    = "loaded"
	EventLoadError = "loadError"
	EventShowing   = "showing"
	EventShown     = "shown"
	EventShowError = "showError"
	EventHidden    = "hidden"
	EventHideError = "hideError"
)
