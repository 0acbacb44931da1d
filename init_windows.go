//go:build windows

package main

import "syscall"

// utf8CodePage lets the console print French and Arabic log lines
const utf8CodePage = 65001

func init() {
	kernel32 := syscall.NewLazyDLL("kernel32.dll")
	kernel32.NewProc("SetConsoleOutputCP").Call(utf8CodePage)
	kernel32.NewProc("SetConsoleCP").Call(utf8CodePage)
}
