package fetch

import "os"

// Resolve treats source as a local path if it names an existing file that
// is not a directory, and otherwise as a URL, matching the spec's "local existing path OR
// URL-shaped string" contract for RememberFile's source parameter.
func Resolve(source string, opts ...HTTPOption) Source {
	if info, err := os.Stat(source); err == nil && !info.IsDir() {
		return NewLocalSource(source)
	}
	return NewHTTPSource(source, opts...)
}
