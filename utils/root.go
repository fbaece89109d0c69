package utils

import "os"

// Paths where an su binary typically lands on a rooted host. Checked in
// addition to the effective uid.
var suPaths = []string{
	"/sbin/su",
	"/system/bin/su",
	"/system/xbin/su",
	"/usr/local/bin/su",
}

// RootedHost reports whether the process runs with root privileges or
// the host carries signs of being rooted. Media flagged to block on
// rooted devices refuses to play when this returns true.
func RootedHost() bool {
	if os.Geteuid() == 0 {
		return true
	}
	for _, p := range suPaths {
		if _, err := os.Stat(p); err == nil {
			return true
		}
	}
	return false
}
