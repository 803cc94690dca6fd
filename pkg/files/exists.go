//Package file contains lookups for the files passed to the CLI (config file, TLS certificate and key)
package file

import (
	"os"
)

//Exists reports whether path points to a regular file
func Exists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}

//Missing returns the paths which do not point to a regular file, in the given order
func Missing(paths ...string) []string {
	var missing []string
	for _, path := range paths {
		if !Exists(path) {
			missing = append(missing, path)
		}
	}
	return missing
}
