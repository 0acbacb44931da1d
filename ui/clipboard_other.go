//go:build !windows

package ui

// clipboardFiles is only implemented on Windows; fyne exposes text only
func clipboardFiles() ([]string, error) {
	return nil, nil
}

// clipboardBitmap is only implemented on Windows; fyne exposes text only
func clipboardBitmap() ([]byte, error) {
	return nil, nil
}
