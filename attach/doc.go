// Package attach inserts user-provided files into a cached repository and
// references them from the editor.
//
// An attach writes the file under /uploads of the repository through the
// large-file store, then stages and commits it in the background while the
// editor immediately receives a markdown reference:
//
//	w := attach.New(cacheMgr, store, engine,
//	    attach.WithConnectivity(attach.Online),
//	    attach.WithLogger(logger),
//	)
//	res, err := w.Attach(ctx, attach.Upload{Name: "cat.png", Content: data}, session, editor)
//	...
//	w.Wait() // join outstanding commits before shutdown
//
// The background commit is not awaited by Attach. Its failure is logged and
// passed to the error sink; the written file stays in place.
package attach
