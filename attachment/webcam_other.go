//go:build !linux

package attachment

// SystemCamera returns the capture device of this platform. Only Video4Linux
// devices are driven; elsewhere the scanner reports ErrNoDevice.
func SystemCamera(device string) Camera {
	return UnavailableCamera{}
}
