// Package httpserver runs an http.Handler with graceful shutdown, request
// body limits and lifecycle logging. It backs the formkit-sink development
// endpoint.
//
//	srv := httpserver.New(
//		httpserver.WithAddr("127.0.0.1:0"),
//		httpserver.WithLogger(log),
//	)
//	go func() { <-srv.Ready(); fmt.Println(srv.Addr()) }()
//	if err := srv.Run(ctx, router); err != nil {
//		return err
//	}
//
// Run returns when ctx is cancelled or on SIGINT/SIGTERM. Listen errors are
// wrapped with ErrStart and shutdown errors with ErrShutdown.
package httpserver
