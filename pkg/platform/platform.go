// Package platform provides constants and utilities for handling
// platform-specific information such as operating systems and the
// shared-library file extension they use.
package platform

import "runtime"

const (
	// OSWindows represents the Windows operating system.
	OSWindows = "windows"
	// OSLinux represents the Linux operating system.
	OSLinux = "linux"
	// OSDarwin represents the macOS operating system.
	OSDarwin = "darwin"
)

// SharedLibExt returns the file extension used for compiled shared
// libraries on the given operating system: ".dll" on Windows and ".so"
// everywhere else.
func SharedLibExt(goos string) string {
	if goos == OSWindows {
		return ".dll"
	}
	return ".so"
}

// CurrentSharedLibExt returns the shared-library extension for the
// platform the process is running on.
func CurrentSharedLibExt() string {
	return SharedLibExt(runtime.GOOS)
}
