package formguard

import (
	"embed"
	"io/fs"
)

//go:embed pkg/runtime/assets/*.js
var embeddedRuntimeAssets embed.FS

// RuntimeAssetsFS exposes the browser runtime script so applications can
// serve it without a build step.
//
// Typical mount:
//
//	mux.Handle("/runtime/",
//	  http.StripPrefix("/runtime/",
//	    http.FileServerFS(formguard.RuntimeAssetsFS()),
//	  ),
//	)
func RuntimeAssetsFS() fs.FS {
	sub, err := fs.Sub(embeddedRuntimeAssets, "pkg/runtime/assets")
	if err != nil {
		return embeddedRuntimeAssets
	}
	return sub
}
