//go:build windows
// +build windows

package hotkeys

import (
	"context"
	"fmt"
	"runtime"
	"syscall"
	"time"
	"unsafe"
)

const (
	wmHotKey    = 0x0312
	pmRemove    = 0x0001
	modNoRepeat = 0x4000
)

var (
	user32           = syscall.NewLazyDLL("user32.dll")
	registerHotKey   = user32.NewProc("RegisterHotKey")
	unregisterHotKey = user32.NewProc("UnregisterHotKey")
	peekMessageW     = user32.NewProc("PeekMessageW")
)

// https://docs.microsoft.com/en-us/windows/win32/api/winuser/ns-winuser-msg
type msg struct {
	hwnd    uintptr
	message uint32
	wParam  uintptr
	lParam  uintptr
	time    uint32
	pt      struct{ x, y int32 }
}

// Listen registers keys and invokes their callbacks until ctx is done. Errors
// returned by a callback are passed to onError. Registration and the message
// loop share one locked OS thread, as the Windows message queue requires.
func Listen(ctx context.Context, onError func(error), keys ...HotKey) error {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	lookup := make(map[uintptr]HotKey, len(keys))
	defer func() {
		for id := range lookup {
			_, _, _ = unregisterHotKey.Call(0, id)
		}
	}()

	for i, k := range keys {
		id := uintptr(i + 1)
		r1, _, err := registerHotKey.Call(0, id, uintptr(k.Modifiers|modNoRepeat), uintptr(k.KeyCode))
		if r1 != 1 {
			return fmt.Errorf("hotkeys: failed to register %s: %w", k, err)
		}
		lookup[id] = k
	}

	for {
		var m msg
		for {
			r1, _, _ := peekMessageW.Call(uintptr(unsafe.Pointer(&m)), 0, 0, 0, pmRemove)
			if r1 == 0 {
				break
			}
			if m.message != wmHotKey {
				continue
			}
			if k, ok := lookup[m.wParam]; ok && k.Callback != nil {
				if err := k.Callback(); err != nil && onError != nil {
					onError(err)
				}
			}
		}

		select {
		case <-time.After(50 * time.Millisecond):
		case <-ctx.Done():
			return nil
		}
	}
}
