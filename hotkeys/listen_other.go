//go:build !windows
// +build !windows

package hotkeys

import "context"

func Listen(ctx context.Context, onError func(error), keys ...HotKey) error {
	return ErrUnsupported
}
