//go:build !linux && !darwin && !windows

package platform

import "errors"

// Notify reports errors.ErrUnsupported; callers treat that as a quiet no-op.
func Notify(title, body string, opts Options) error {
	return errors.ErrUnsupported
}
