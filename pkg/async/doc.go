// Package async runs functions in goroutines and hands back a Future for
// their result.
//
//	f := async.Async(ctx, entry, func(ctx context.Context, e *file.Entry) (string, error) {
//		return e.File.DataURL(), nil
//	})
//	url, err := f.Await()
//
// WaitAllContext joins several futures.
package async
