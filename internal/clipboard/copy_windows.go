//go:build windows

package clipboard

import (
	"fmt"
	"unsafe"

	"golang.org/x/sys/windows"
)

const (
	inputKeyboard  = 1
	keyeventfKeyUp = 0x0002
	vkControl      = 0x11
	vkC            = 0x43
)

// keyboardInput mirrors the Windows INPUT structure for keyboard events.
type keyboardInput struct {
	Type uint32
	Ki   struct {
		WVk         uint16
		WScan       uint16
		DwFlags     uint32
		Time        uint32
		DwExtraInfo uintptr
		Padding1    uint32
		Padding2    uint32
	}
}

var procSendInput = windows.NewLazySystemDLL("user32.dll").NewProc("SendInput")

func keyEvent(vk uint16, flags uint32) keyboardInput {
	var in keyboardInput
	in.Type = inputKeyboard
	in.Ki.WVk = vk
	in.Ki.DwFlags = flags
	return in
}

// simulatePlatformCopy sends Ctrl+C via SendInput.
func simulatePlatformCopy() error {
	inputs := []keyboardInput{
		keyEvent(vkControl, 0),
		keyEvent(vkC, 0),
		keyEvent(vkC, keyeventfKeyUp),
		keyEvent(vkControl, keyeventfKeyUp),
	}
	ret, _, err := procSendInput.Call(
		uintptr(len(inputs)),
		uintptr(unsafe.Pointer(&inputs[0])),
		uintptr(unsafe.Sizeof(inputs[0])),
	)
	if ret != uintptr(len(inputs)) {
		return fmt.Errorf("SendInput sent %d of %d inputs: %w", ret, len(inputs), err)
	}
	return nil
}
