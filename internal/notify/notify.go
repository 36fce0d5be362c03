package notify

// Client delivers operational notifications about pipeline runs to a
// configured channel. Implementations must be safe to call when the channel
// is not configured.
type Client interface {
	Notify(message string)
}
