package api

import (
	"context"
	"fmt"
	"net/http"
	"runtime/debug"
	"strings"
	"time"

	"github.com/fulldump/box"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/fulldump/lazyrows/database"
)

// RecoverFromPanic turns a panic into an error so PrettyErrorInterceptor
// can render it. It must be placed inside PrettyErrorInterceptor.
func RecoverFromPanic(l logrus.FieldLogger) box.I {
	return func(next box.H) box.H {
		return func(ctx context.Context) {
			defer func() {
				if r := recover(); r != nil {
					l.WithField("stack", string(debug.Stack())).Error("panic: ", r)
					box.SetError(ctx, fmt.Errorf("panic: %v", r))
				}
			}()
			next(ctx)
		}
	}
}

func AccessLog(l logrus.FieldLogger) box.I {
	return func(next box.H) box.H {
		return func(ctx context.Context) {
			r := box.GetRequest(ctx)
			now := time.Now()
			defer func() {
				entry := l.WithFields(logrus.Fields{
					"remote":  formatRemoteAddr(r),
					"method":  r.Method,
					"url":     r.URL.String(),
					"elapsed": time.Since(now),
				})
				if err := box.GetError(ctx); err != nil {
					entry = entry.WithError(err)
				}
				entry.Info("access")
			}()

			next(ctx)
		}
	}
}

func formatRemoteAddr(r *http.Request) string {
	xorigin := strings.TrimSpace(strings.Split(
		r.Header.Get("X-Forwarded-For"), ",")[0])
	if xorigin != "" {
		return xorigin
	}

	i := strings.LastIndex(r.RemoteAddr, ":")
	if i < 0 {
		return r.RemoteAddr
	}
	return r.RemoteAddr[0:i]
}

func InterceptorUnavailable(db *database.Database) box.I {
	return func(next box.H) box.H {
		return func(ctx context.Context) {

			status := db.GetStatus()
			if status == database.StatusOpening {
				box.SetError(ctx, errors.Wrap(ErrUnavailable, "opening"))
				return
			}
			if status == database.StatusClosing {
				box.SetError(ctx, errors.Wrap(ErrUnavailable, "closing"))
				return
			}
			next(ctx)
		}
	}
}
