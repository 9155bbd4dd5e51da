package platform

import "time"

// Options configures how a notification is displayed on the host platform.
type Options struct {
	// IconPath, when non-empty, points to an image file the notification center
	// should display with the notification if supported by the platform.
	IconPath string
	// Expire overrides how long the notification stays up where the
	// platform allows it. Zero uses DefaultExpire.
	Expire time.Duration
}

// AppName is shown as the sending application where the platform has a slot for it.
const AppName = "DoodleGate"

// DefaultExpire is the display time used when Options.Expire is zero.
const DefaultExpire = 5 * time.Second

func (o Options) expireMillis() int32 {
	if o.Expire <= 0 {
		return int32(DefaultExpire / time.Millisecond)
	}
	return int32(o.Expire / time.Millisecond)
}
