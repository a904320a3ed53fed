package notify

import (
	"os/exec"
	"strconv"
	"time"
)

// Urgency levels for notifications
type Urgency int

const (
	UrgencyLow Urgency = iota
	UrgencyNormal
	UrgencyCritical
)

// Notification represents a desktop notification
type Notification struct {
	Title   string
	Body    string
	Urgency Urgency
	Timeout time.Duration
}

// Notifier sends desktop notifications for events that happen without the
// user asking, like carry-over auto-imports.
type Notifier struct {
	enabled bool
}

// NewNotifier creates a new notifier
func NewNotifier() *Notifier {
	return &Notifier{
		enabled: true,
	}
}

// SetEnabled enables or disables notifications
func (n *Notifier) SetEnabled(enabled bool) {
	n.enabled = enabled
}

// IsEnabled returns whether notifications are enabled
func (n *Notifier) IsEnabled() bool {
	return n.enabled
}

// Send sends a desktop notification using notify-send
func (n *Notifier) Send(notification Notification) error {
	if !n.enabled {
		return nil
	}

	args := []string{"-a", "flatmatrix"}

	switch notification.Urgency {
	case UrgencyLow:
		args = append(args, "-u", "low")
	case UrgencyCritical:
		args = append(args, "-u", "critical")
	default:
		args = append(args, "-u", "normal")
	}

	if notification.Timeout > 0 {
		args = append(args, "-t", strconv.Itoa(int(notification.Timeout.Milliseconds())))
	}

	args = append(args, notification.Title)
	if notification.Body != "" {
		args = append(args, notification.Body)
	}

	// notify-send missing or failing is not worth surfacing to the UI
	cmd := exec.Command("notify-send", args...)
	return cmd.Run()
}

// CarriedOver reports a silent auto-import performed by the remembered
// migration preference.
func (n *Notifier) CarriedOver(count int) {
	if count <= 0 {
		return
	}
	n.Send(Notification{
		Title:   "flatmatrix",
		Body:    strconv.Itoa(count) + " unfinished task(s) carried over from yesterday",
		Urgency: UrgencyLow,
		Timeout: 5 * time.Second,
	})
}
