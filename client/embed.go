// Package client embeds the browser script that connects live pages to the
// server.
package client

import (
	"embed"
	"io/fs"
	"net/http"
)

// ScriptName is the file name of the live client.
const ScriptName = "hexagon.js"

//go:embed src/*.js
var assets embed.FS

// Assets returns the embedded filesystem containing JavaScript files.
func Assets() fs.FS {
	fsys, err := fs.Sub(assets, "src")
	if err != nil {
		panic(err)
	}
	return fsys
}

// Handler serves the embedded assets. Mount it under a prefix with
// http.StripPrefix.
func Handler() http.Handler {
	files := http.FileServer(http.FS(Assets()))
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Cache-Control", "public, max-age=3600")
		files.ServeHTTP(w, r)
	})
}

// GetFile returns the contents of an embedded file.
func GetFile(name string) ([]byte, error) {
	return assets.ReadFile("src/" + name)
}

// FileNames returns the names of all embedded files.
func FileNames() []string {
	entries, err := assets.ReadDir("src")
	if err != nil {
		return nil
	}

	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if !entry.IsDir() {
			names = append(names, entry.Name())
		}
	}
	return names
}
