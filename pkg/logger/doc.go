// Package logger builds *slog.Logger values with functional options, helper
// attribute constructors and attributes injected from context.
//
// New picks a text or JSON handler, applies static attributes and wraps the
// handler with LogHandlerDecorator, which runs every ContextExtractor on each
// record. The submission id stored with WithSubmissionID is always
// extracted.
//
//	log := logger.New(
//		logger.WithDevelopment("formkit"),
//		logger.WithAttr(logger.FormID("signup")),
//	)
//
//	ctx = logger.WithSubmissionID(ctx, id)
//	log.InfoContext(ctx, "submission finished",
//		logger.StatusCode(200),
//		logger.Duration(time.Since(start)),
//	)
//
// Error and Errors return an empty attribute for nil errors, so
//
//	log.Info("done", logger.Error(err))
//
// needs no nil check. Discard returns a logger that drops everything.
package logger
