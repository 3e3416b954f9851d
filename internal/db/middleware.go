// Copyright 2025 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package db

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/canonical/inventory-service/internal/logging"
)

// errRolledBack marks a transaction dropped on purpose because the handler
// answered with an error status.
var errRolledBack = errors.New("rolled back")

// TransactionMiddleware runs mutating requests in one database transaction
// that commits when the handler answers with a status below 400. Reads go
// straight to the pool.
func TransactionMiddleware(db DBClientInterface, logger logging.LoggerInterface) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method == http.MethodGet || r.Method == http.MethodHead {
				next.ServeHTTP(w, r)
				return
			}

			sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}

			err := db.WithTx(r.Context(), func(txCtx context.Context) error {
				next.ServeHTTP(sw, r.WithContext(txCtx))

				if sw.status >= http.StatusBadRequest {
					return fmt.Errorf("%w: status %d", errRolledBack, sw.status)
				}
				return nil
			})

			switch {
			case err == nil:
			case errors.Is(err, errRolledBack):
				logger.Debugf("%s %s %v", r.Method, r.URL.Path, err)
			default:
				// the response is already out, the client saw a success
				logger.Errorf("%s %s answered %d but did not commit: %v", r.Method, r.URL.Path, sw.status, err)
			}
		})
	}
}

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (sw *statusWriter) WriteHeader(code int) {
	sw.status = code
	sw.ResponseWriter.WriteHeader(code)
}
