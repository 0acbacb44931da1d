//go:build windows

package ui

import (
	"errors"
	"syscall"
	"unsafe"
)

var (
	user32                     = syscall.NewLazyDLL("user32.dll")
	openClipboard              = user32.NewProc("OpenClipboard")
	closeClipboard             = user32.NewProc("CloseClipboard")
	getClipboardData           = user32.NewProc("GetClipboardData")
	isClipboardFormatAvailable = user32.NewProc("IsClipboardFormatAvailable")

	kernel32     = syscall.NewLazyDLL("kernel32.dll")
	globalLock   = kernel32.NewProc("GlobalLock")
	globalUnlock = kernel32.NewProc("GlobalUnlock")
	globalSize   = kernel32.NewProc("GlobalSize")

	shell32       = syscall.NewLazyDLL("shell32.dll")
	dragQueryFile = shell32.NewProc("DragQueryFileW")
)

const (
	cfDIB   = 8
	cfHDROP = 15
)

// withClipboardData locks the clipboard block of format and passes its address
// to fn. It reports false when the format is not on the clipboard.
func withClipboardData(format uintptr, fn func(handle, ptr uintptr) error) (bool, error) {
	if ret, _, _ := openClipboard.Call(0); ret == 0 {
		return false, errors.New("failed to open clipboard")
	}
	defer closeClipboard.Call()

	if ret, _, _ := isClipboardFormatAvailable.Call(format); ret == 0 {
		return false, nil
	}
	handle, _, _ := getClipboardData.Call(format)
	if handle == 0 {
		return false, errors.New("failed to get clipboard data")
	}
	ptr, _, _ := globalLock.Call(handle)
	if ptr == 0 {
		return false, errors.New("failed to lock clipboard memory")
	}
	defer globalUnlock.Call(handle)

	return true, fn(handle, ptr)
}

// clipboardFiles returns the paths of files copied in Explorer
func clipboardFiles() ([]string, error) {
	var files []string
	_, err := withClipboardData(cfHDROP, func(_, drop uintptr) error {
		count, _, _ := dragQueryFile.Call(drop, 0xFFFFFFFF, 0, 0)
		for i := uintptr(0); i < count; i++ {
			size, _, _ := dragQueryFile.Call(drop, i, 0, 0)
			if size == 0 {
				continue
			}
			buf := make([]uint16, size+1)
			n, _, _ := dragQueryFile.Call(drop, i, uintptr(unsafe.Pointer(&buf[0])), uintptr(len(buf)))
			if n > 0 {
				files = append(files, syscall.UTF16ToString(buf))
			}
		}
		return nil
	})
	return files, err
}

// clipboardBitmap returns a copy of the CF_DIB block screenshot tools publish
func clipboardBitmap() ([]byte, error) {
	var data []byte
	_, err := withClipboardData(cfDIB, func(handle, ptr uintptr) error {
		size, _, _ := globalSize.Call(handle)
		if size == 0 {
			return errors.New("empty clipboard data")
		}
		data = make([]byte, size)
		copy(data, unsafe.Slice((*byte)(unsafe.Pointer(ptr)), size))
		return nil
	})
	return data, err
}
