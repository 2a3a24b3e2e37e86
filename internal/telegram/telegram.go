package telegram

// Notifier delivers operational notices (run summaries, run-level failures)
// to the configured admin chat. Implementations must be safe to call when
// notifications are disabled.
type Notifier interface {
	SendMessage(text string)
}
